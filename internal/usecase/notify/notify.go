package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/qj0r9j0vc2/slack-webhook/internal/adapter/dto"
	"github.com/qj0r9j0vc2/slack-webhook/internal/domain/entity"
	domainerrors "github.com/qj0r9j0vc2/slack-webhook/internal/domain/errors"
	"github.com/qj0r9j0vc2/slack-webhook/internal/domain/logger"
)

// ErrAmbiguousInput indicates a request mixing more than one message shape.
var ErrAmbiguousInput = errors.New("header, markdown and text/blocks are mutually exclusive")

var tracer = otel.Tracer("github.com/qj0r9j0vc2/slack-webhook/internal/usecase/notify")

// NotifyUseCase turns a notify request into one or more webhook sends.
type NotifyUseCase struct {
	sender    WebhookSender
	chunkSize int
	metrics   MetricsRecorder
	logger    logger.Logger
}

// NewNotifyUseCase creates a NotifyUseCase. metrics may be nil.
// chunkSize must be at least 1.
func NewNotifyUseCase(sender WebhookSender, chunkSize int, metrics MetricsRecorder, logger logger.Logger) *NotifyUseCase {
	return &NotifyUseCase{
		sender:    sender,
		chunkSize: chunkSize,
		metrics:   metrics,
		logger:    logger,
	}
}

// Execute builds the message described by input and delivers it. Block
// lists longer than the chunk size are split across several requests
// that all carry the same text.
func (uc *NotifyUseCase) Execute(ctx context.Context, input dto.NotifyInput) (*dto.NotifyOutput, error) {
	msg, err := buildMessage(input)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "notify.deliver")
	defer span.End()

	start := time.Now()
	output, err := uc.deliver(ctx, msg)
	duration := time.Since(start)

	span.SetAttributes(
		attribute.String("notifier", uc.sender.Name()),
		attribute.Int("blocks", len(msg.Blocks)),
		attribute.Int("requests", output.Requests),
	)

	if uc.metrics != nil {
		uc.metrics.RecordNotificationSent(ctx, uc.sender.Name(), err == nil, duration, output.Requests)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "webhook delivery failed")
		uc.logger.Error("webhook delivery failed",
			"notifier", uc.sender.Name(),
			"requests", output.Requests,
			"blocks", len(msg.Blocks),
			"transient", domainerrors.IsTransient(err),
			"error", err,
		)
		return output, err
	}

	uc.logger.Info("webhook delivered",
		"notifier", uc.sender.Name(),
		"requests", output.Requests,
		"blocks", output.Blocks,
		"duration", duration.String(),
	)
	return output, nil
}

func (uc *NotifyUseCase) deliver(ctx context.Context, msg entity.Message) (*dto.NotifyOutput, error) {
	if len(msg.Blocks) <= uc.chunkSize {
		if _, err := uc.sender.Send(ctx, msg); err != nil {
			return &dto.NotifyOutput{Requests: 1}, err
		}
		return &dto.NotifyOutput{Requests: 1, Blocks: len(msg.Blocks)}, nil
	}

	total := (len(msg.Blocks) + uc.chunkSize - 1) / uc.chunkSize
	uc.logger.Debug("splitting message into chunks",
		"blocks", len(msg.Blocks),
		"chunk_size", uc.chunkSize,
		"chunks", total,
	)

	err := uc.sender.SendChunked(ctx, msg.Text, msg.Blocks, uc.chunkSize)
	if err != nil {
		var chunkErr *domainerrors.ChunkError
		if errors.As(err, &chunkErr) {
			return &dto.NotifyOutput{
				Requests: chunkErr.Index,
				Blocks:   chunkErr.Delivered() * uc.chunkSize,
			}, err
		}
		return &dto.NotifyOutput{}, err
	}
	return &dto.NotifyOutput{Requests: total, Blocks: len(msg.Blocks)}, nil
}

// buildMessage picks the message shape from input.
func buildMessage(input dto.NotifyInput) (entity.Message, error) {
	if input.Info != nil && input.Header == "" {
		return entity.Message{}, dto.ErrInfoWithoutHeader
	}

	shapes := 0
	if input.Header != "" {
		shapes++
	}
	if input.Markdown != "" {
		shapes++
	}
	if input.Text != "" || len(input.Blocks) > 0 {
		shapes++
	}
	if shapes > 1 {
		return entity.Message{}, ErrAmbiguousInput
	}

	switch {
	case input.Header != "":
		return entity.NewHeaderMessage(input.Header, input.Info), nil
	case input.Markdown != "":
		return entity.NewMarkdownMessage(input.Markdown), nil
	case input.Text != "" || len(input.Blocks) > 0:
		return entity.NewMessage(input.Text, input.Blocks...), nil
	default:
		return entity.Message{}, fmt.Errorf("building message: %w", dto.ErrEmptyRequest)
	}
}
