package health

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	err   error
	delay time.Duration
}

func (f fakeAPI) Raw(string, interface{}) ([]byte, error) {
	time.Sleep(f.delay)
	return []byte(`{"ok":true}`), f.err
}

func TestChecker_AllHealthy(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	c := NewChecker(nil)
	c.AddCheck("redis", NewRedisChecker(client))
	c.AddCheck("telegram", NewTelegramChecker(fakeAPI{}))

	results, healthy := c.Check(context.Background())
	assert.True(t, healthy)
	assert.Equal(t, map[string]string{"redis": StatusOK, "telegram": StatusOK}, results)
}

func TestChecker_ReportsFailures(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	c := NewChecker(nil)
	c.AddCheck("redis", NewRedisChecker(client))
	c.AddCheck("telegram", NewTelegramChecker(fakeAPI{err: errors.New("telegram: Unauthorized (401)")}))
	c.AddCheck("static", CheckFunc(func(context.Context) error { return nil }))

	results, healthy := c.Check(context.Background())
	assert.False(t, healthy)
	assert.Equal(t, StatusOK, results["static"])
	assert.Equal(t, "telegram: Unauthorized (401)", results["telegram"])
	assert.NotEqual(t, StatusOK, results["redis"])
}

func TestTelegramChecker_Timeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := NewTelegramChecker(fakeAPI{delay: 200 * time.Millisecond}).HealthCheck(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNilCheckers(t *testing.T) {
	assert.Error(t, NewTelegramChecker(nil).HealthCheck(context.Background()))
	assert.Error(t, NewRedisChecker(nil).HealthCheck(context.Background()))
}
