// Package config provides configuration loading and validation utilities.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
)

// SecretLookup resolves a secret from an external store such as the OS keychain.
type SecretLookup func(service, account string) (string, error)

// Loader reads configuration from YAML, the environment and the OS keychain.
type Loader struct {
	Dir    string
	Lookup SecretLookup
}

// NewLoader returns a Loader reading ./configs and the system keychain.
func NewLoader() *Loader {
	return &Loader{Dir: "./configs", Lookup: keyring.Get}
}

// Load reads configuration from YAML files and environment variables, validates it, and returns the resulting Config.
func Load() (*Config, *viper.Viper, error) {
	return NewLoader().Load()
}

// Load reads, resolves and validates configuration.
func (l *Loader) Load() (*Config, *viper.Viper, error) {
	// .env files are optional
	_ = godotenv.Load(".env.local", ".env")

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(fmt.Sprintf("%s/%s.yaml", strings.TrimRight(l.Dir, "/"), env))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !isMissingFile(err) {
		return nil, nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := l.decode(v)
	if err != nil {
		return nil, nil, err
	}
	cfg.AppEnv = env

	return cfg, v, nil
}

// Watch re-decodes the configuration whenever the backing file changes and hands the
// validated result to onChange. Invalid edits are reported through onError and ignored.
func (l *Loader) Watch(v *viper.Viper, onChange func(*Config), onError func(error)) {
	if v == nil || onChange == nil {
		return
	}
	if _, err := os.Stat(v.ConfigFileUsed()); err != nil {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}

		cfg, err := l.decode(v)
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("reload config %s: %w", e.Name, err))
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}

func (l *Loader) decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := l.resolveToken(&cfg.Bot); err != nil {
		return nil, err
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (l *Loader) resolveToken(bot *BotConfig) error {
	bot.Token = strings.TrimSpace(bot.Token)
	if bot.Token != "" || bot.KeyringService == "" || l.Lookup == nil {
		return nil
	}

	account := bot.KeyringAccount
	if account == "" {
		account = "bot_token"
	}

	token, err := l.Lookup(bot.KeyringService, account)
	if err != nil {
		return fmt.Errorf("read bot token from keyring %s/%s: %w", bot.KeyringService, account, err)
	}

	bot.Token = strings.TrimSpace(token)
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.token", "")
	v.SetDefault("bot.profile", "rich")
	v.SetDefault("bot.mode", "polling")
	v.SetDefault("bot.timeout", 10*time.Second)
	v.SetDefault("bot.allowed_updates", []string{})
	v.SetDefault("bot.webhook_listen", "")
	v.SetDefault("bot.webhook_public_url", "")
	v.SetDefault("bot.keyring_service", "")
	v.SetDefault("bot.keyring_account", "")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.file", "")
	v.SetDefault("logger.max_size_mb", 50)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age_days", 14)

	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.per_user.limit", 20)
	v.SetDefault("rate_limit.per_user.window", "1m")
	v.SetDefault("rate_limit.global.limit", 0)
	v.SetDefault("rate_limit.global.window", "1s")
	v.SetDefault("rate_limit.whitelist", []int64{})
}

func isMissingFile(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}
