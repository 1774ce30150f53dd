package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/qj0r9j0vc2/slack-webhook/internal/adapter/handler"
	"github.com/qj0r9j0vc2/slack-webhook/internal/infrastructure/logging"
	"github.com/qj0r9j0vc2/slack-webhook/internal/infrastructure/server"
)

func (app *Application) initializeHandlers() {
	webhookURL := app.config.Webhook.URL

	readyHandler := handler.NewReadyHandler()
	readyHandler.AddChecker("webhook_url", handler.CheckerFunc(func(context.Context) error {
		return ValidateWebhookURL(webhookURL)
	}))

	app.handlers = &server.Handlers{
		Notify:  handler.NewNotifyHandler(app.notify, logging.NewSlogAdapter(app.logger)),
		Health:  handler.NewHealthHandler(),
		Ready:   readyHandler,
		Metrics: handler.NewMetricsHandler(app.telemetry.Registry),
	}
}

func (app *Application) setupServer() {
	app.router = server.NewRouter(app.handlers, server.RouterOptions{
		AuthSecret:     app.config.Server.AuthSecret,
		RequestTimeout: app.config.Server.RequestTimeout,
		Metrics:        app.telemetry.Metrics,
	}, app.logger)

	app.server = server.New(app.config.Server, app.router, app.logger)
}

// ValidateWebhookURL reports whether raw is an absolute http(s) URL.
func ValidateWebhookURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid webhook url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("webhook url has no host")
	}
	return nil
}
