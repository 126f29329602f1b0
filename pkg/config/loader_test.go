package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, env, body string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, env+".yaml"), []byte(body), 0o600))
	return dir
}

func noKeyring(string, string) (string, error) {
	return "", errors.New("keyring must not be consulted")
}

func TestLoader_DefaultsWithEnvToken(t *testing.T) {
	t.Setenv("APP_ENV", "missing")
	t.Setenv("BOT_TOKEN", "123:abc")

	loader := &Loader{Dir: t.TempDir(), Lookup: noKeyring}
	cfg, v, err := loader.Load()
	require.NoError(t, err)
	require.NotNil(t, v)

	assert.Equal(t, "missing", cfg.AppEnv)
	assert.Equal(t, "123:abc", cfg.Bot.Token)
	assert.Equal(t, "rich", cfg.Bot.Profile)
	assert.Equal(t, "polling", cfg.Bot.Mode)
	assert.Equal(t, 10*time.Second, cfg.Bot.Timeout)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 20, cfg.RateLimit.PerUser.Limit)
}

func TestLoader_FileAndEnvOverride(t *testing.T) {
	dir := writeConfig(t, "staging", `
bot:
  token: from-file
  profile: simple
  timeout: 30s
  allowed_updates: [message, callback_query]
logger:
  level: debug
  format: text
redis:
  addr: localhost:6379
`)
	t.Setenv("APP_ENV", "staging")
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("LOGGER_LEVEL", "warn")

	cfg, _, err := (&Loader{Dir: dir, Lookup: noKeyring}).Load()
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Bot.Token)
	assert.Equal(t, "simple", cfg.Bot.Profile)
	assert.Equal(t, 30*time.Second, cfg.Bot.Timeout)
	assert.Equal(t, []string{"message", "callback_query"}, cfg.Bot.AllowedUpdates)
	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, "text", cfg.Logger.Format)
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoader_MissingTokenFails(t *testing.T) {
	t.Setenv("APP_ENV", "missing")
	t.Setenv("BOT_TOKEN", "")

	_, _, err := (&Loader{Dir: t.TempDir(), Lookup: noKeyring}).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Token")
}

func TestLoader_TokenFromKeyring(t *testing.T) {
	dir := writeConfig(t, "prod", `
bot:
  keyring_service: interactive-bot
`)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("BOT_TOKEN", "")

	var gotService, gotAccount string
	loader := &Loader{Dir: dir, Lookup: func(service, account string) (string, error) {
		gotService, gotAccount = service, account
		return " 999:secret \n", nil
	}}

	cfg, _, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "999:secret", cfg.Bot.Token)
	assert.Equal(t, "interactive-bot", gotService)
	assert.Equal(t, "bot_token", gotAccount)
}

func TestLoader_KeyringFailure(t *testing.T) {
	dir := writeConfig(t, "prod", `
bot:
  keyring_service: interactive-bot
  keyring_account: telegram
`)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("BOT_TOKEN", "")

	loader := &Loader{Dir: dir, Lookup: func(string, string) (string, error) {
		return "", errors.New("secret not found")
	}}

	_, _, err := loader.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive-bot/telegram")
}

func TestLoader_RejectsInvalidValues(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "unknown profile", body: "bot:\n  profile: fancy\n"},
		{name: "unknown mode", body: "bot:\n  mode: carrier-pigeon\n"},
		{name: "webhook without listen", body: "bot:\n  mode: webhook\n"},
		{name: "sentry without dsn", body: "sentry:\n  enabled: true\n"},
		{name: "bad log level", body: "logger:\n  level: loud\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := writeConfig(t, "invalid", tc.body)
			t.Setenv("APP_ENV", "invalid")
			t.Setenv("BOT_TOKEN", "123:abc")

			_, _, err := (&Loader{Dir: dir, Lookup: noKeyring}).Load()
			assert.Error(t, err)
		})
	}
}
