package ratelimit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	apperrors "github.com/Proton-105/interactive-bot/internal/errors"
)

var (
	rateLimitChecksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ratelimit_checks_total",
		Help: "Total number of rate limit checks by backend and result.",
	}, []string{"backend", "result"})

	rateLimitRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ratelimit_rejected_total",
		Help: "Total number of rejected requests per backend.",
	}, []string{"backend"})

	rateLimitPrimaryErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ratelimit_primary_errors_total",
		Help: "Total number of primary backend failures, including short-circuited calls.",
	})
)

func init() {
	prometheus.MustRegister(rateLimitChecksTotal, rateLimitRejectedTotal, rateLimitPrimaryErrorsTotal)
}

// AdaptiveLimiter delegates to a primary (Redis) limiter and falls back to a stricter in-memory
// limiter when the primary fails. A circuit breaker stops hammering a primary that keeps failing.
type AdaptiveLimiter struct {
	primary  Limiter
	fallback Limiter
	breaker  *apperrors.CircuitBreaker
	log      *slog.Logger
}

// NewAdaptiveLimiter creates a limiter that adapts between Redis and in-memory backends.
func NewAdaptiveLimiter(primary, fallback Limiter, breaker *apperrors.CircuitBreaker, log *slog.Logger) Limiter {
	if log == nil {
		log = slog.Default()
	}
	if breaker == nil {
		breaker = apperrors.NewCircuitBreaker()
	}

	return &AdaptiveLimiter{
		primary:  primary,
		fallback: fallback,
		breaker:  breaker,
		log:      log,
	}
}

// Check evaluates the limit using the primary backend, falling back to memory on errors.
func (a *AdaptiveLimiter) Check(ctx context.Context, key string, limit int, window time.Duration) (*Result, error) {
	var result *Result
	err := a.breaker.Call(func() error {
		var checkErr error
		result, checkErr = a.primary.Check(ctx, key, limit, window)
		if errors.Is(checkErr, ErrLimitExceeded) {
			return nil
		}
		return checkErr
	})
	if err == nil && result != nil {
		rateLimitChecksTotal.WithLabelValues("primary", boolLabel(result.Allowed)).Inc()
		if !result.Allowed {
			rateLimitRejectedTotal.WithLabelValues("primary").Inc()
			return result, ErrLimitExceeded
		}
		return result, nil
	}

	rateLimitPrimaryErrorsTotal.Inc()
	if !errors.Is(err, apperrors.ErrCircuitOpen) {
		a.log.Warn("primary limiter failed, falling back to in-memory", slog.String("key", key), slog.Any("error", err))
	}

	fallbackLimit := limit / 2
	if fallbackLimit <= 0 {
		fallbackLimit = 1
	}

	fallbackResult, fallbackErr := a.fallback.Check(ctx, key, fallbackLimit, window)
	if fallbackErr != nil && !errors.Is(fallbackErr, ErrLimitExceeded) {
		return fallbackResult, fallbackErr
	}

	rateLimitChecksTotal.WithLabelValues("fallback", boolLabel(fallbackResult.Allowed)).Inc()
	if !fallbackResult.Allowed {
		rateLimitRejectedTotal.WithLabelValues("fallback").Inc()
		return fallbackResult, ErrLimitExceeded
	}

	return fallbackResult, nil
}

func boolLabel(value bool) string {
	if value {
		return "allowed"
	}
	return "rejected"
}
