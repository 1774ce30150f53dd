package app

import (
	"time"

	"github.com/qj0r9j0vc2/slack-webhook/internal/infrastructure/logging"
	"github.com/qj0r9j0vc2/slack-webhook/internal/infrastructure/slack"
	"github.com/qj0r9j0vc2/slack-webhook/internal/usecase/notify"
)

// NewWebhookClient creates the webhook client from its configured settings.
func NewWebhookClient(webhookURL string, timeout time.Duration, userAgent string) *slack.WebhookClient {
	return slack.NewWebhookClient(webhookURL,
		slack.WithTimeout(timeout),
		slack.WithUserAgent(userAgent),
	)
}

func (app *Application) initializeClient() {
	app.client = NewWebhookClient(app.config.Webhook.URL, app.config.Webhook.Timeout, app.config.Webhook.UserAgent)

	app.notify = notify.NewNotifyUseCase(
		app.client,
		app.config.Webhook.ChunkSize,
		app.telemetry.Metrics,
		logging.NewSlogAdapter(app.logger),
	)
}
