package slack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qj0r9j0vc2/slack-webhook/internal/domain/entity"
	domainerrors "github.com/qj0r9j0vc2/slack-webhook/internal/domain/errors"
)

// recordedRequest is a webhook POST captured by mockWebhook.
type recordedRequest struct {
	ContentType string
	Raw         map[string]any
	Message     slack.WebhookMessage
}

// mockWebhook records every request and answers with the status chosen by
// respond for the n-th (1-based) call.
type mockWebhook struct {
	mu       sync.Mutex
	requests []recordedRequest
	respond  func(n int) (int, string)
}

func (m *mockWebhook) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	rec := recordedRequest{ContentType: r.Header.Get("Content-Type")}
	_ = json.Unmarshal(body, &rec.Raw)
	_ = json.Unmarshal(body, &rec.Message)

	m.mu.Lock()
	m.requests = append(m.requests, rec)
	n := len(m.requests)
	m.mu.Unlock()

	status, text := http.StatusOK, "ok"
	if m.respond != nil {
		status, text = m.respond(n)
	}
	w.WriteHeader(status)
	io.WriteString(w, text)
}

func (m *mockWebhook) calls() []recordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]recordedRequest(nil), m.requests...)
}

func newMockWebhook(t *testing.T, respond func(n int) (int, string)) (*mockWebhook, *WebhookClient) {
	t.Helper()

	mock := &mockWebhook{respond: respond}
	srv := httptest.NewServer(mock)
	t.Cleanup(srv.Close)

	return mock, NewWebhookClient(srv.URL, WithHTTPClient(srv.Client()))
}

func sectionBlocks(n int) []entity.Block {
	blocks := make([]entity.Block, n)
	for i := range blocks {
		blocks[i] = entity.NewSectionBlock(fmt.Sprintf("item %d", i))
	}
	return blocks
}

func TestWebhookClient_Send(t *testing.T) {
	mock, client := newMockWebhook(t, nil)

	msg := entity.NewMessage("fallback",
		entity.NewHeaderBlock("Title"),
		entity.NewDividerBlock(),
		entity.NewSectionBlock("*body*"),
	)

	resp, err := client.Send(context.Background(), msg)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", resp.Text())

	calls := mock.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "application/json", calls[0].ContentType)
	assert.Equal(t, "fallback", calls[0].Message.Text)

	require.NotNil(t, calls[0].Message.Blocks)
	set := calls[0].Message.Blocks.BlockSet
	require.Len(t, set, 3)
	assert.Equal(t, slack.MBTHeader, set[0].BlockType())
	assert.Equal(t, slack.MBTDivider, set[1].BlockType())
	assert.Equal(t, slack.MBTSection, set[2].BlockType())

	section, ok := set[2].(*slack.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, slack.MarkdownType, section.Text.Type)
	assert.Equal(t, "*body*", section.Text.Text)
}

func TestWebhookClient_Send_OmitsEmptyBlocks(t *testing.T) {
	mock, client := newMockWebhook(t, nil)

	_, err := client.Send(context.Background(), entity.NewMessage("just text"))
	require.NoError(t, err)

	calls := mock.calls()
	require.Len(t, calls, 1)
	assert.NotContains(t, calls[0].Raw, "blocks")
	assert.Equal(t, "just text", calls[0].Raw["text"])
}

func TestWebhookClient_Send_StatusClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{name: "200 with body", status: http.StatusOK, body: "ok"},
		{name: "200 with unexpected body", status: http.StatusOK, body: "something else"},
		{name: "400", status: http.StatusBadRequest, body: "invalid_payload", wantErr: true},
		{name: "404", status: http.StatusNotFound, body: "no_service", wantErr: true},
		{name: "500", status: http.StatusInternalServerError, body: "boom", wantErr: true},
		{name: "201 is not success", status: http.StatusCreated, body: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, client := newMockWebhook(t, func(int) (int, string) { return tt.status, tt.body })

			resp, err := client.SendMarkdown(context.Background(), "hi")
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.status, resp.StatusCode)
				return
			}

			var statusErr *domainerrors.HTTPStatusError
			require.True(t, errors.As(err, &statusErr), "got %v", err)
			assert.Equal(t, tt.status, statusErr.StatusCode)
			assert.Equal(t, tt.body, statusErr.Body)
			assert.Nil(t, resp)
		})
	}
}

type failingDoer struct {
	err   error
	calls int
}

func (d *failingDoer) Do(*http.Request) (*http.Response, error) {
	d.calls++
	return nil, d.err
}

func TestWebhookClient_Send_TransportError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	doer := &failingDoer{err: cause}
	client := NewWebhookClient("https://hooks.example.com/services/T/B/X", WithHTTPClient(doer))

	_, err := client.SendMarkdown(context.Background(), "hi")

	var transportErr *domainerrors.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, 1, doer.calls)
}

func TestWebhookClient_Send_MalformedURL(t *testing.T) {
	client := NewWebhookClient("://not a url")

	_, err := client.SendMarkdown(context.Background(), "hi")

	var transportErr *domainerrors.TransportError
	assert.True(t, errors.As(err, &transportErr), "got %v", err)
}

func TestWebhookClient_Send_InvalidBlock(t *testing.T) {
	doer := &failingDoer{err: errors.New("unreachable")}
	client := NewWebhookClient("https://hooks.example.com", WithHTTPClient(doer))

	_, err := client.Send(context.Background(), entity.NewMessage("t", entity.Block{}))
	assert.ErrorIs(t, err, domainerrors.ErrInvalidBlock)
	assert.Equal(t, 0, doer.calls)
}

func TestWebhookClient_SendWithHeader(t *testing.T) {
	t.Run("without info", func(t *testing.T) {
		mock, client := newMockWebhook(t, nil)

		_, err := client.SendWithHeader(context.Background(), "X", nil)
		require.NoError(t, err)

		calls := mock.calls()
		require.Len(t, calls, 1)
		assert.Equal(t, "X", calls[0].Message.Text)
		set := calls[0].Message.Blocks.BlockSet
		require.Len(t, set, 1)
		header, ok := set[0].(*slack.HeaderBlock)
		require.True(t, ok)
		assert.Equal(t, "X", header.Text.Text)
		assert.Equal(t, slack.PlainTextType, header.Text.Type)
	})

	t.Run("with info", func(t *testing.T) {
		mock, client := newMockWebhook(t, nil)

		info := "Y"
		_, err := client.SendWithHeader(context.Background(), "X", &info)
		require.NoError(t, err)

		set := mock.calls()[0].Message.Blocks.BlockSet
		require.Len(t, set, 2)
		section, ok := set[1].(*slack.SectionBlock)
		require.True(t, ok)
		assert.Equal(t, "Y", section.Text.Text)
		assert.Equal(t, slack.MarkdownType, section.Text.Type)
	})
}

func TestWebhookClient_SendMarkdown(t *testing.T) {
	mock, client := newMockWebhook(t, nil)

	_, err := client.SendMarkdown(context.Background(), "hi")
	require.NoError(t, err)

	raw := mock.calls()[0].Raw
	data, err := json.Marshal(raw)
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"hi","blocks":[{"type":"section","text":{"type":"mrkdwn","text":"hi"}}]}`, string(data))
}

func TestWebhookClient_SendOwned_Chunks(t *testing.T) {
	mock, client := newMockWebhook(t, nil)

	list := entity.NewBlockList(sectionBlocks(120)...)
	require.NoError(t, client.SendOwned(context.Background(), "batch", list))

	calls := mock.calls()
	require.Len(t, calls, 3)

	sizes := make([]int, len(calls))
	for i, c := range calls {
		sizes[i] = len(c.Message.Blocks.BlockSet)
		assert.Equal(t, "batch", c.Message.Text)
	}
	assert.Equal(t, []int{50, 50, 20}, sizes)

	first := calls[0].Message.Blocks.BlockSet[0].(*slack.SectionBlock)
	last := calls[2].Message.Blocks.BlockSet[19].(*slack.SectionBlock)
	assert.Equal(t, "item 0", first.Text.Text)
	assert.Equal(t, "item 119", last.Text.Text)
}

func TestWebhookClient_SendOwned_NilList(t *testing.T) {
	mock, client := newMockWebhook(t, nil)

	require.NotPanics(t, func() {
		assert.NoError(t, client.SendOwned(context.Background(), "batch", nil))
	})
	assert.Empty(t, mock.calls())
}

func TestWebhookClient_SendChunked_StopsOnFirstFailure(t *testing.T) {
	mock, client := newMockWebhook(t, func(n int) (int, string) {
		if n == 2 {
			return http.StatusBadRequest, "invalid_blocks"
		}
		return http.StatusOK, "ok"
	})

	err := client.SendChunked(context.Background(), "batch", sectionBlocks(120), 50)
	require.Error(t, err)

	var statusErr *domainerrors.HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, "invalid_blocks", statusErr.Body)
	assert.True(t, strings.Contains(err.Error(), "chunk 2 of 3"), err.Error())

	var chunkErr *domainerrors.ChunkError
	require.True(t, errors.As(err, &chunkErr))
	assert.Equal(t, 2, chunkErr.Index)
	assert.Equal(t, 3, chunkErr.Total)
	assert.Equal(t, 1, chunkErr.Delivered())

	assert.Len(t, mock.calls(), 2)
}

func TestChunkCount(t *testing.T) {
	assert.Equal(t, 3, ChunkCount(120, 50))
	assert.Equal(t, 2, ChunkCount(100, 50))
	assert.Equal(t, 0, ChunkCount(0, 50))
	assert.Equal(t, 0, ChunkCount(10, 0))
}

func TestWebhookClient_SendChunked_InvalidChunkSize(t *testing.T) {
	mock, client := newMockWebhook(t, nil)

	for _, size := range []int{0, -5} {
		err := client.SendChunked(context.Background(), "batch", sectionBlocks(3), size)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidChunkSize)
	}
	assert.Empty(t, mock.calls())
}

func TestWebhookClient_SendChunked_NoBlocks(t *testing.T) {
	mock, client := newMockWebhook(t, nil)

	require.NoError(t, client.SendChunked(context.Background(), "batch", nil, 50))
	assert.Empty(t, mock.calls())
}

func TestWebhookClient_Send_ContextCanceled(t *testing.T) {
	_, client := newMockWebhook(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.SendMarkdown(ctx, "hi")

	var transportErr *domainerrors.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, domainerrors.IsTransient(err))
}

func TestWebhookClient_UserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	client := NewWebhookClient(srv.URL, WithUserAgent("slack-webhook/test"))
	_, err := client.SendMarkdown(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "slack-webhook/test", got)
}

func TestResponseText(t *testing.T) {
	assert.Equal(t, "plain", responseText([]byte("plain"), nil))
	assert.Equal(t, "a�b", responseText([]byte{'a', 0xff, 'b'}, nil))
	assert.Contains(t, responseText(nil, errors.New("unexpected EOF")), "failed to read response body: unexpected EOF")
}
