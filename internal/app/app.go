package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/qj0r9j0vc2/slack-webhook/internal/infrastructure/config"
	"github.com/qj0r9j0vc2/slack-webhook/internal/infrastructure/observability"
	"github.com/qj0r9j0vc2/slack-webhook/internal/infrastructure/server"
	"github.com/qj0r9j0vc2/slack-webhook/internal/infrastructure/slack"
	"github.com/qj0r9j0vc2/slack-webhook/internal/usecase/notify"
)

// Application holds the relay's dependencies and lifecycle.
type Application struct {
	version   string
	config    *config.Config
	logOutput io.Writer
	logger    *slog.Logger
	telemetry *observability.Telemetry

	client *slack.WebhookClient
	notify *notify.NotifyUseCase

	handlers *server.Handlers
	router   http.Handler
	server   *server.Server
}

// New loads configuration from configPath and wires the relay. Logs are
// written to logOutput.
func New(configPath, version string, logOutput io.Writer) (*Application, error) {
	app := &Application{
		version:   version,
		logOutput: logOutput,
	}

	if err := app.bootstrap(configPath); err != nil {
		return nil, err
	}

	return app, nil
}

// Handler returns the fully wrapped HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Start runs the relay until ctx is cancelled.
func (app *Application) Start(ctx context.Context) error {
	app.logger.Info("starting slack-webhook",
		"version", app.version,
		"port", app.config.Server.Port,
	)

	return app.server.Run(ctx)
}

// Shutdown flushes telemetry.
func (app *Application) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if app.telemetry != nil {
		if err := app.telemetry.Shutdown(ctx); err != nil {
			app.logger.Error("failed to shutdown telemetry", "error", err)
			return err
		}
	}

	app.logger.Info("slack-webhook stopped")
	return nil
}
