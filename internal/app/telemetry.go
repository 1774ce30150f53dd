package app

import (
	"github.com/qj0r9j0vc2/slack-webhook/internal/infrastructure/observability"
)

// setupTelemetry initializes OpenTelemetry metrics.
func (app *Application) setupTelemetry() error {
	telemetry, err := observability.NewTelemetry(observability.ServiceName, app.version)
	if err != nil {
		return err
	}

	app.telemetry = telemetry

	app.logger.Info("telemetry initialized",
		"service", observability.ServiceName,
		"metrics_enabled", true,
		"tracing_enabled", false,
	)

	return nil
}
