package middleware

import (
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/interactive-bot/internal/bot/handlers"
	"github.com/Proton-105/interactive-bot/pkg/metrics"
)

// Metrics measures execution time and status for bot handlers, reporting them to Prometheus.
func Metrics(next handlers.Handler) handlers.Handler {
	if next == nil {
		return nil
	}

	return func(c telebot.Context) error {
		start := time.Now()
		err := next(c)

		status := "ok"
		if err != nil {
			status = "error"
		}

		metrics.RecordCommand(routeLabel(c), status, time.Since(start))

		return err
	}
}

// routeLabel keeps label cardinality bounded: user text never becomes a label value.
func routeLabel(c telebot.Context) string {
	if c == nil {
		return "unknown"
	}

	if c.Callback() != nil {
		return "callback"
	}

	if name, ok := handlers.ParseCommand(c.Text()); ok {
		return "/" + name
	}

	return "text"
}
