package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/telebot.v3"

	apperrors "github.com/Proton-105/interactive-bot/internal/errors"
	"github.com/Proton-105/interactive-bot/internal/ratelimit"
	"github.com/Proton-105/interactive-bot/pkg/metrics"
)

// RateLimitedText is the notice sent to throttled users.
const RateLimitedText = "Rate limit exceeded. Try again later."

const globalKey = "global"

// RateLimitMiddleware enforces bot-wide and per-user rate limits for incoming Telegram updates.
type RateLimitMiddleware struct {
	limiter ratelimit.Limiter
	rules   *ratelimit.Rules
	log     *slog.Logger
}

// NewRateLimitMiddleware constructs a rate-limit middleware component.
func NewRateLimitMiddleware(limiter ratelimit.Limiter, rules *ratelimit.Rules, log *slog.Logger) *RateLimitMiddleware {
	if log == nil {
		log = slog.Default()
	}

	return &RateLimitMiddleware{
		limiter: limiter,
		rules:   rules,
		log:     log,
	}
}

// Handle returns a telebot middleware that enforces the configured limits.
func (m *RateLimitMiddleware) Handle(next telebot.HandlerFunc) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		if m.limiter == nil || m.rules == nil {
			return next(c)
		}

		sender := c.Sender()
		if sender == nil {
			return next(c)
		}

		userID := sender.ID
		if m.rules.IsWhitelisted(userID) {
			return next(c)
		}

		ctx := context.Background()

		// Per-user first: a user rejected on their own rule must not use up the shared budget.
		if limit, window, err := m.rules.GetPerUserLimit(); err == nil {
			if !m.allow(ctx, fmt.Sprintf("user:%d", userID), limit, window, userID) {
				return m.reject(c)
			}
		} else if !errors.Is(err, ratelimit.ErrRuleDisabled) {
			m.log.Error("invalid per-user rate limit rule", slog.Int64("user_id", userID), slog.Any("error", err))
		}

		if limit, window, err := m.rules.GetGlobalLimit(); err == nil {
			if !m.allow(ctx, globalKey, limit, window, userID) {
				return m.reject(c)
			}
		} else if !errors.Is(err, ratelimit.ErrRuleDisabled) {
			m.log.Error("invalid global rate limit rule", slog.Any("error", err))
		}

		return next(c)
	}
}

// allow reports whether the request fits the limit. Backend failures let the request through.
func (m *RateLimitMiddleware) allow(ctx context.Context, key string, limit int, window time.Duration, userID int64) bool {
	result, err := m.limiter.Check(ctx, key, limit, window)
	switch {
	case errors.Is(err, ratelimit.ErrLimitExceeded):
	case err != nil:
		m.log.Warn("rate limiter error", slog.String("key", key), slog.Any("error", err))
		return true
	case result == nil || result.Allowed:
		return true
	}

	appErr := apperrors.NewRateLimitError(result.RetryAfter(time.Now()))
	metrics.RecordError(appErr.Code, string(appErr.Severity))
	m.log.Warn("rate limit exceeded",
		slog.String("key", key),
		slog.Int64("user_id", userID),
		slog.Any("error", appErr),
	)
	return false
}

func (m *RateLimitMiddleware) reject(c telebot.Context) error {
	if c.Callback() != nil {
		return c.Respond(&telebot.CallbackResponse{Text: RateLimitedText, ShowAlert: true})
	}
	return c.Send(RateLimitedText)
}
