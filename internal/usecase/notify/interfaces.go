package notify

import (
	"context"
	"time"

	"github.com/qj0r9j0vc2/slack-webhook/internal/domain/entity"
)

// WebhookSender delivers messages to an incoming webhook.
// Implemented by slack.WebhookClient.
type WebhookSender interface {
	// Send issues exactly one request.
	Send(ctx context.Context, msg entity.Message) (*entity.WebhookResponse, error)

	// SendChunked issues one request per chunk of blocks, sequentially,
	// stopping at the first failure.
	SendChunked(ctx context.Context, text string, blocks []entity.Block, chunkSize int) error

	// Name returns the notifier identifier.
	Name() string
}

// MetricsRecorder records delivery metrics. Implemented by observability.Metrics.
type MetricsRecorder interface {
	RecordNotificationSent(ctx context.Context, notifier string, success bool, duration time.Duration, requests int)
}
