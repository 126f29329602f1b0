package lifecycle

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Proton-105/interactive-bot/internal/health"
	"github.com/Proton-105/interactive-bot/internal/middleware"
	"github.com/Proton-105/interactive-bot/pkg/logger"
	"github.com/Proton-105/interactive-bot/pkg/metrics"
)

// NewOpsHandler serves /metrics, /healthz and /readyz.
func NewOpsHandler(probes HealthChecker, log *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /healthz", probeHandler(probes.Liveness))
	mux.HandleFunc("GET /readyz", probeHandler(probes.Readiness))

	return logger.Middleware(middleware.New(log)(mux))
}

func probeHandler(probe func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := probe(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(err.Error()))
			return
		}
		_, _ = w.Write([]byte(health.StatusOK))
	}
}
