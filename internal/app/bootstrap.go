package app

import (
	"fmt"

	"github.com/qj0r9j0vc2/slack-webhook/internal/infrastructure/config"
	"github.com/qj0r9j0vc2/slack-webhook/internal/infrastructure/logging"
)

func (app *Application) bootstrap(configPath string) error {
	// 1. Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	app.config = cfg

	// 2. Setup logger
	app.logger = logging.New(app.logOutput, cfg.Logging.Level, cfg.Logging.Format)
	app.logger.Info("configuration loaded",
		"server_port", cfg.Server.Port,
		"chunk_size", cfg.Webhook.ChunkSize,
		"auth_enabled", cfg.Server.AuthSecret != "",
	)

	// 3. Setup telemetry
	if err := app.setupTelemetry(); err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}

	// 4. Webhook client and notify use case
	app.initializeClient()

	// 5. HTTP handlers
	app.initializeHandlers()

	// 6. HTTP server
	app.setupServer()

	return nil
}
