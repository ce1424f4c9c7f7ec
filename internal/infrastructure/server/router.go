package server

import (
	"log/slog"
	"net/http"

	"github.com/timesdev/times-bridge/internal/adapter/handler"
	"github.com/timesdev/times-bridge/internal/adapter/handler/middleware"
	"github.com/timesdev/times-bridge/internal/infrastructure/observability"
)

// Handlers holds all HTTP handlers for the operational endpoints.
type Handlers struct {
	Health  *handler.HealthHandler
	Ready   *handler.ReadyHandler
	Metrics *handler.MetricsHandler
	Reload  *handler.ReloadHandler
}

// NewRouter creates the HTTP router with all handlers.
func NewRouter(handlers *Handlers, logger *slog.Logger, metrics *observability.Metrics) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/health", handlers.Health)
	mux.Handle("/", handlers.Health) // Root path returns health
	mux.Handle("/ready", handlers.Ready)
	mux.Handle("/metrics", handlers.Metrics)

	if handlers.Reload != nil {
		mux.Handle("/-/reload", handlers.Reload)
	}

	// Apply middleware stack
	var h http.Handler = mux
	h = middleware.RequestID(h)
	h = middleware.Logging(logger)(h)
	if metrics != nil {
		h = middleware.Metrics(metrics)(h)
	}
	h = middleware.Recovery(logger)(h)

	return h
}
