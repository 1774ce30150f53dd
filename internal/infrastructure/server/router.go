package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/qj0r9j0vc2/slack-webhook/internal/adapter/handler"
	"github.com/qj0r9j0vc2/slack-webhook/internal/adapter/handler/middleware"
	"github.com/qj0r9j0vc2/slack-webhook/internal/infrastructure/observability"
)

// Handlers holds all HTTP handlers.
type Handlers struct {
	Notify  *handler.NotifyHandler
	Health  *handler.HealthHandler
	Ready   *handler.ReadyHandler
	Metrics *handler.MetricsHandler
}

// RouterOptions configures the middleware stack.
type RouterOptions struct {
	AuthSecret     string
	RequestTimeout time.Duration
	Metrics        *observability.Metrics
}

// NewRouter creates the HTTP router with all handlers.
func NewRouter(handlers *Handlers, opts RouterOptions, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/health", handlers.Health)
	if handlers.Ready != nil {
		mux.Handle("/ready", handlers.Ready)
	}
	if handlers.Metrics != nil {
		mux.Handle("/metrics", handlers.Metrics)
	}
	if handlers.Notify != nil {
		mux.Handle("/notify", middleware.RelayAuth(opts.AuthSecret, logger)(handlers.Notify))
	}

	mws := []func(http.Handler) http.Handler{
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logging(logger),
	}
	if opts.Metrics != nil {
		mws = append(mws, middleware.Observability(opts.Metrics))
	}
	if opts.RequestTimeout > 0 {
		mws = append(mws, middleware.Timeout(opts.RequestTimeout))
	}

	return middleware.Chain(mux, mws...)
}
