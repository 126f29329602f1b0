package config

import "time"

// Config holds runtime configuration for the interactive bot.
type Config struct {
	AppEnv    string          `mapstructure:"-"`
	Bot       BotConfig       `mapstructure:"bot"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	Server    ServerConfig    `mapstructure:"server"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// BotConfig configures the Telegram transport and the reply profile.
type BotConfig struct {
	Token            string        `mapstructure:"token" validate:"required"`
	Profile          string        `mapstructure:"profile" validate:"oneof=rich simple"`
	Mode             string        `mapstructure:"mode" validate:"oneof=polling webhook"`
	Timeout          time.Duration `mapstructure:"timeout" validate:"gte=0"`
	AllowedUpdates   []string      `mapstructure:"allowed_updates"`
	WebhookListen    string        `mapstructure:"webhook_listen" validate:"required_if=Mode webhook"`
	WebhookPublicURL string        `mapstructure:"webhook_public_url" validate:"omitempty,url"`
	KeyringService   string        `mapstructure:"keyring_service"`
	KeyringAccount   string        `mapstructure:"keyring_account"`
}

// LoggerConfig configures slog output.
type LoggerConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=json text"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
}

// SentryConfig toggles error reporting.
type SentryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	DSN         string `mapstructure:"dsn" validate:"required_if=Enabled true"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig configures the ops HTTP server (metrics and probes).
type ServerConfig struct {
	Port            string        `mapstructure:"port" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// RedisConfig configures the optional Redis backend. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
	PoolSize int    `mapstructure:"pool_size" validate:"gte=0"`
}

// Enabled reports whether a Redis address is configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// RateLimitRule is a limit per window, for example 20 per "1m".
type RateLimitRule struct {
	Limit  int    `mapstructure:"limit" validate:"gte=0"`
	Window string `mapstructure:"window"`
}

// RateLimitConfig configures update throttling.
type RateLimitConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	PerUser   RateLimitRule `mapstructure:"per_user"`
	Global    RateLimitRule `mapstructure:"global"`
	Whitelist []int64       `mapstructure:"whitelist"`
}
