package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"golang.org/x/sync/errgroup"

	"github.com/Proton-105/interactive-bot/internal/bot"
	apperrors "github.com/Proton-105/interactive-bot/internal/errors"
	"github.com/Proton-105/interactive-bot/internal/health"
	"github.com/Proton-105/interactive-bot/internal/idempotency"
	"github.com/Proton-105/interactive-bot/internal/lifecycle"
	"github.com/Proton-105/interactive-bot/internal/middleware"
	"github.com/Proton-105/interactive-bot/internal/ratelimit"
	"github.com/Proton-105/interactive-bot/internal/reply"
	"github.com/Proton-105/interactive-bot/pkg/config"
	"github.com/Proton-105/interactive-bot/pkg/graceful"
	"github.com/Proton-105/interactive-bot/pkg/logger"
	"github.com/Proton-105/interactive-bot/pkg/redis"
)

const (
	limiterSweepInterval     = time.Minute
	limiterIdleAge           = 10 * time.Minute
	idempotencySweepInterval = time.Hour
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "interactive bot: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	loader := config.NewLoader()
	cfg, v, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: sentryEnvironment(cfg),
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	appLog := logger.New(*cfg)
	defer func() { _ = appLog.Close() }()
	log := appLog.Logger
	slog.SetDefault(log)

	loader.Watch(v, func(updated *config.Config) {
		appLog.SetLevel(updated.Logger.Level)
		log.Info("config reloaded", slog.String("log_level", updated.Logger.Level))
	}, func(err error) {
		log.Warn("ignoring invalid config change", slog.Any("error", err))
	})

	log.Info("starting interactive bot",
		slog.String("env", cfg.AppEnv),
		slog.String("profile", cfg.Bot.Profile),
		slog.String("mode", cfg.Bot.Mode),
		slog.Bool("redis", cfg.Redis.Enabled()),
	)

	shutdown := lifecycle.NewShutdown(log)
	checker := health.NewChecker(log)

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, redis.FromAppConfig(cfg.Redis))
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		checker.AddCheck("redis", health.NewRedisChecker(redisClient))
		shutdown.Register("redis", func(context.Context) error { return redisClient.Close() })
	}

	g, gctx := errgroup.WithContext(ctx)

	deps := bot.Dependencies{
		Responder:   reply.NewResponder(reply.Profile(cfg.Bot.Profile)),
		Idempotency: newIdempotency(gctx, g, redisClient, log),
	}
	if cfg.RateLimit.Enabled {
		deps.RateLimit = middleware.NewRateLimitMiddleware(
			newLimiter(gctx, g, redisClient, log),
			ratelimit.NewRules(cfg.RateLimit),
			log,
		)
	}

	b, err := bot.New(ctx, *cfg, log, deps)
	if err != nil {
		return err
	}
	checker.AddCheck("telegram", health.NewTelegramChecker(b.Telebot()))
	shutdown.Register("telegram", func(context.Context) error {
		b.Stop()
		return nil
	})

	probes := lifecycle.NewProbes(log, checker)
	ops := graceful.NewServer(log, &http.Server{
		Addr:              net.JoinHostPort("", cfg.Server.Port),
		Handler:           lifecycle.NewOpsHandler(probes, log),
		ReadHeaderTimeout: 5 * time.Second,
	}, cfg.Server.ShutdownTimeout)

	g.Go(func() error {
		return ops.ListenAndServe(gctx)
	})
	g.Go(func() error {
		b.Start()
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		probes.Drain()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		return shutdown.Execute(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info("interactive bot stopped")
	return nil
}

func newLimiter(ctx context.Context, g *errgroup.Group, client *redis.Client, log *slog.Logger) ratelimit.Limiter {
	memory := ratelimit.NewMemoryLimiter()
	g.Go(func() error {
		ratelimit.NewCleaner(memory, log, limiterSweepInterval, limiterIdleAge).Run(ctx)
		return nil
	})

	if client == nil {
		return memory
	}

	return ratelimit.NewAdaptiveLimiter(
		ratelimit.NewRedisLimiter(client.Client, log),
		memory,
		apperrors.NewCircuitBreaker(),
		log,
	)
}

func newIdempotency(ctx context.Context, g *errgroup.Group, client *redis.Client, log *slog.Logger) idempotency.Manager {
	var (
		store   idempotency.Store
		sweeper idempotency.Sweeper
	)
	if client != nil {
		redisStore := idempotency.NewRedisStore(client.Client, log)
		store, sweeper = redisStore, redisStore
	} else {
		memoryStore := idempotency.NewMemoryStore()
		store, sweeper = memoryStore, memoryStore
	}

	g.Go(func() error {
		idempotency.NewCleaner(sweeper, log, idempotencySweepInterval).Run(ctx)
		return nil
	})

	return idempotency.NewManager(store, log)
}

func sentryEnvironment(cfg *config.Config) string {
	if cfg.Sentry.Environment != "" {
		return cfg.Sentry.Environment
	}
	return cfg.AppEnv
}
