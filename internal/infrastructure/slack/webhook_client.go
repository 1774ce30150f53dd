package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/qj0r9j0vc2/slack-webhook/internal/domain/entity"
	domainerrors "github.com/qj0r9j0vc2/slack-webhook/internal/domain/errors"
)

// DefaultChunkSize is the Block Kit limit of blocks per message.
const DefaultChunkSize = 50

const defaultTimeout = 30 * time.Second

// HTTPDoer performs HTTP requests. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// WebhookClient posts messages to a Slack incoming webhook.
// It is safe for concurrent use; each send is one independent request.
type WebhookClient struct {
	url        string
	httpClient HTTPDoer
	userAgent  string
}

// Option configures a WebhookClient.
type Option func(*WebhookClient)

// WithHTTPClient sets the transport used for every request.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *WebhookClient) {
		if doer != nil {
			c.httpClient = doer
		}
	}
}

// WithTimeout sets the request timeout of the default transport.
// It has no effect when combined with WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(c *WebhookClient) {
		if hc, ok := c.httpClient.(*http.Client); ok && d > 0 {
			hc.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *WebhookClient) {
		c.userAgent = ua
	}
}

// NewWebhookClient creates a client for the given webhook URL.
// The URL is not validated; a malformed URL surfaces as a
// TransportError on the first send.
func NewWebhookClient(url string, opts ...Option) *WebhookClient {
	c := &WebhookClient{
		url:        url,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the notifier identifier.
func (c *WebhookClient) Name() string {
	return "slack-webhook"
}

// Send posts msg to the webhook. A 200 response is success regardless of
// its body. Any other status yields *HTTPStatusError, and a request that
// got no response yields *TransportError.
func (c *WebhookClient) Send(ctx context.Context, msg entity.Message) (*entity.WebhookResponse, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encoding webhook message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, domainerrors.NewTransportError("building webhook request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domainerrors.NewTransportError("posting webhook", err)
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, domainerrors.NewHTTPStatusError(resp.StatusCode, responseText(data, readErr))
	}

	return &entity.WebhookResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// SendWithHeader sends a message titled by header with an optional
// mrkdwn info section.
func (c *WebhookClient) SendWithHeader(ctx context.Context, header string, info *string) (*entity.WebhookResponse, error) {
	return c.Send(ctx, entity.NewHeaderMessage(header, info))
}

// SendMarkdown sends text as a single mrkdwn section.
func (c *WebhookClient) SendMarkdown(ctx context.Context, text string) (*entity.WebhookResponse, error) {
	return c.Send(ctx, entity.NewMarkdownMessage(text))
}

// SendOwned sends blocks in groups of DefaultChunkSize. A nil list is
// empty and sends nothing.
func (c *WebhookClient) SendOwned(ctx context.Context, text string, blocks *entity.BlockList) error {
	if blocks == nil {
		return nil
	}
	return c.SendChunked(ctx, text, blocks.Blocks(), DefaultChunkSize)
}

// SendChunked splits blocks into groups of chunkSize and sends one message
// per group, in order, each with the same text. It stops at the first
// failure, returned as *ChunkError wrapping the typed send error; groups
// already delivered are not rolled back. Passing a chunkSize below 1 is a
// caller error and returns ErrInvalidChunkSize without sending anything.
func (c *WebhookClient) SendChunked(ctx context.Context, text string, blocks []entity.Block, chunkSize int) error {
	if chunkSize < 1 {
		return fmt.Errorf("%w: got %d", domainerrors.ErrInvalidChunkSize, chunkSize)
	}

	total := ChunkCount(len(blocks), chunkSize)
	i := 0
	for chunk := range entity.ChunkBlocks(blocks, chunkSize) {
		i++
		if _, err := c.Send(ctx, entity.NewMessage(text, chunk...)); err != nil {
			return &domainerrors.ChunkError{Index: i, Total: total, Err: err}
		}
	}
	return nil
}

// ChunkCount returns how many requests a chunked send of n blocks issues.
func ChunkCount(n, chunkSize int) int {
	if chunkSize < 1 {
		return 0
	}
	return (n + chunkSize - 1) / chunkSize
}

// responseText decodes a response body for an error report. Invalid
// UTF-8 is replaced rather than rejected.
func responseText(data []byte, readErr error) string {
	if readErr != nil {
		return fmt.Sprintf("failed to read response body: %v", readErr)
	}
	return strings.ToValidUTF8(string(data), "�")
}
