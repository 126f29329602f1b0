package lifecycle

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Proton-105/interactive-bot/internal/health"
	"github.com/Proton-105/interactive-bot/internal/testutil"
)

func TestShutdown_RunsAllHooks(t *testing.T) {
	s := NewShutdown(testutil.DiscardLogger())

	var ran atomic.Int32
	s.Register("bot", func(context.Context) error { ran.Add(1); return nil })
	s.Register("redis", func(context.Context) error { ran.Add(1); return errors.New("already closed") })
	s.Register("nil", nil)

	err := s.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis: already closed")
	assert.Equal(t, int32(2), ran.Load())
}

func TestProbes(t *testing.T) {
	checker := health.NewChecker(testutil.DiscardLogger())
	failing := atomic.Bool{}
	checker.AddCheck("telegram", health.CheckFunc(func(context.Context) error {
		if failing.Load() {
			return errors.New("unreachable")
		}
		return nil
	}))

	p := NewProbes(testutil.DiscardLogger(), checker)
	assert.NoError(t, p.Liveness(context.Background()))
	assert.NoError(t, p.Readiness(context.Background()))

	failing.Store(true)
	assert.EqualError(t, p.Readiness(context.Background()), "telegram: unreachable")

	failing.Store(false)
	p.Drain()
	assert.ErrorIs(t, p.Readiness(context.Background()), ErrShuttingDown)
	assert.NoError(t, p.Liveness(context.Background()))
}

func TestOpsHandler(t *testing.T) {
	p := NewProbes(testutil.DiscardLogger(), nil)
	h := NewOpsHandler(p, testutil.DiscardLogger())

	testCases := []struct {
		path string
		want int
	}{
		{path: "/healthz", want: http.StatusOK},
		{path: "/readyz", want: http.StatusOK},
		{path: "/metrics", want: http.StatusOK},
		{path: "/nope", want: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
			assert.Equal(t, tc.want, rec.Code)
		})
	}

	p.Drain()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "shutting down", rec.Body.String())
}
