package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/interactive-bot/internal/bot/handlers"
	errors "github.com/Proton-105/interactive-bot/internal/errors"
	"github.com/Proton-105/interactive-bot/pkg/logger"
)

// correlationKey is the telebot context slot holding the per-update correlation ID.
const correlationKey = "correlation_id"

// RecoveryMiddleware catches panics, reports them via the centralized handler, and notifies the user.
func RecoveryMiddleware(log *slog.Logger, errHandler *errors.Handler) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("panic recovered in handler", slog.Any("panic", r), slog.String("stack", string(debug.Stack())))

					userMsg := errors.NewInternalError(nil).UserMessage
					if errHandler != nil {
						appErr := errors.NewInternalError(fmt.Errorf("panic recovered: %v", r))
						if msg, _ := errHandler.Handle(updateContext(c), appErr); msg != "" {
							userMsg = msg
						}
					}

					if c != nil {
						if sendErr := c.Send(userMsg); sendErr != nil {
							log.Error("failed to notify user about panic", slog.Any("error", sendErr))
						}
					}

					err = nil
				}
			}()

			return next(c)
		}
	}
}

// ErrorHandlingMiddleware centralizes error reporting and user messaging for handler failures.
func ErrorHandlingMiddleware(log *slog.Logger, errHandler *errors.Handler) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			userMsg := errors.DefaultUserMessage
			if errHandler != nil {
				if msg, _ := errHandler.Handle(updateContext(c), err); msg != "" {
					userMsg = msg
				}
			}

			if c != nil {
				if sendErr := c.Send(userMsg); sendErr != nil {
					log.Warn("failed to deliver error notice", slog.Any("error", sendErr))
				}
			}

			return nil
		}
	}
}

// LoggingMiddleware tags the update with a correlation ID and logs basic telemetry about it.
func LoggingMiddleware(log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			start := time.Now()
			correlationID := logger.NewCorrelationID()
			c.Set(correlationKey, correlationID)

			userID := int64(0)
			if c.Sender() != nil {
				userID = c.Sender().ID
			}

			kind, action := "message", c.Text()
			if cb := c.Callback(); cb != nil {
				kind, action = "callback", cb.Data
			}

			updateLog := log.With(
				slog.String("correlation_id", correlationID),
				slog.Int64("user_id", userID),
				slog.String("kind", kind),
			)

			updateLog.Debug("handling update", slog.Int("action_len", len(action)))
			err := next(c)
			updateLog.Info("handled update",
				slog.Duration("duration", time.Since(start)),
				slog.Any("error", err),
			)

			return err
		}
	}
}

// updateContext carries the update's correlation ID into a context for downstream reporting.
func updateContext(c telebot.Context) context.Context {
	ctx := context.Background()
	if c == nil {
		return ctx
	}
	if id, ok := c.Get(correlationKey).(string); ok && id != "" {
		ctx = logger.WithCorrelationID(ctx, id)
	}
	return ctx
}
