package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedHook struct {
	mu     sync.Mutex
	bodies []map[string]any
}

func newHook(t *testing.T, status int) (*httptest.Server, *recordedHook) {
	t.Helper()

	rec := &recordedHook{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)

		rec.mu.Lock()
		rec.bodies = append(rec.bodies, body)
		rec.mu.Unlock()

		w.WriteHeader(status)
		io.WriteString(w, "ok")
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("SLACK_WEBHOOK_URL", "")
	t.Setenv("SLACK_WEBHOOK_CHUNK_SIZE", "")
}

func TestRun_SendHeaderWithInfo(t *testing.T) {
	isolateEnv(t)
	srv, rec := newHook(t, http.StatusOK)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{
		"send", "--url", srv.URL, "--header", "Deploy", "--info", "*done*",
	}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "in 1 request(s)")

	require.Len(t, rec.bodies, 1)
	assert.Equal(t, "Deploy", rec.bodies[0]["text"])
	assert.Len(t, rec.bodies[0]["blocks"], 2)
}

func TestRun_SendEmptyInfoStillAddsSection(t *testing.T) {
	isolateEnv(t)
	srv, rec := newHook(t, http.StatusOK)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{
		"send", "--url", srv.URL, "--header", "Deploy", "--info", "",
	}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	require.Len(t, rec.bodies, 1)
	assert.Len(t, rec.bodies[0]["blocks"], 2)
}

func TestRun_SendUpstreamFailure(t *testing.T) {
	isolateEnv(t)
	srv, _ := newHook(t, http.StatusForbidden)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"send", "--url", srv.URL, "--markdown", "hi"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "403")
}

func TestRun_SendInvalidInput(t *testing.T) {
	isolateEnv(t)
	srv, rec := newHook(t, http.StatusOK)

	tests := []struct {
		name string
		args []string
	}{
		{name: "nothing to send", args: []string{"send", "--url", srv.URL}},
		{name: "ambiguous", args: []string{"send", "--url", srv.URL, "--header", "h", "--markdown", "m"}},
		{name: "unknown flag", args: []string{"send", "--bogus"}},
		{name: "missing url", args: []string{"send", "--text", "hi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, 1, run(context.Background(), tt.args, &stdout, &stderr))
		})
	}
	assert.Empty(t, rec.bodies)
}

func TestRun_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run(context.Background(), []string{"send", "--help"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "--markdown")
}
