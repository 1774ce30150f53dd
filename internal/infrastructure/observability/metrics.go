package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics.
type Metrics struct {
	meter metric.Meter

	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram

	// Webhook delivery metrics
	NotificationsSentTotal  metric.Int64Counter
	NotificationDuration    metric.Float64Histogram
	NotificationErrorsTotal metric.Int64Counter
	WebhookRequestsTotal    metric.Int64Counter
}

// NewMetrics creates and registers all application metrics.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{meter: meter}

	var err error

	// HTTP metrics
	m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http.server.requests.total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{requests}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http_requests_total: %w", err)
	}

	m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http_request_duration: %w", err)
	}

	// Webhook delivery metrics
	m.NotificationsSentTotal, err = meter.Int64Counter(
		"notifications.sent.total",
		metric.WithDescription("Total number of notifications sent"),
		metric.WithUnit("{notifications}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating notifications_sent_total: %w", err)
	}

	m.NotificationDuration, err = meter.Float64Histogram(
		"notifications.send.duration",
		metric.WithDescription("Notification send duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating notification_duration: %w", err)
	}

	m.NotificationErrorsTotal, err = meter.Int64Counter(
		"notifications.errors.total",
		metric.WithDescription("Total number of notification errors"),
		metric.WithUnit("{errors}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating notification_errors_total: %w", err)
	}

	m.WebhookRequestsTotal, err = meter.Int64Counter(
		"webhook.requests.total",
		metric.WithDescription("Total number of webhook POSTs issued, one per chunk"),
		metric.WithUnit("{requests}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating webhook_requests_total: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records HTTP request metrics.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.route", path),
		attribute.Int("http.status_code", statusCode),
	}

	m.HTTPRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.HTTPRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordNotificationSent records one logical notification, which may
// have been split into several webhook requests.
func (m *Metrics) RecordNotificationSent(ctx context.Context, notifier string, success bool, duration time.Duration, requests int) {
	attrs := []attribute.KeyValue{
		attribute.String("notifier", notifier),
		attribute.Bool("success", success),
	}

	m.NotificationsSentTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.NotificationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))

	if requests > 0 {
		m.WebhookRequestsTotal.Add(ctx, int64(requests), metric.WithAttributes(attrs...))
	}

	if !success {
		m.NotificationErrorsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
