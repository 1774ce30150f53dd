package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler()

	t.Run("get", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp["status"])
		assert.Contains(t, resp, "timestamp")
		assert.Contains(t, resp, "uptime")
	})

	t.Run("post", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/health", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

type readyResponse struct {
	Ready  bool `json:"ready"`
	Checks map[string]struct {
		Ready bool   `json:"ready"`
		Error string `json:"error"`
	} `json:"checks"`
}

func getReady(t *testing.T, h *ReadyHandler) (int, readyResponse) {
	t.Helper()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	var resp readyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestReadyHandler_NoCheckers(t *testing.T) {
	code, resp := getReady(t, NewReadyHandler())

	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Ready)
	assert.Empty(t, resp.Checks)
}

func TestReadyHandler_Checkers(t *testing.T) {
	tests := []struct {
		name      string
		webhook   error
		wantCode  int
		wantReady bool
	}{
		{name: "healthy", webhook: nil, wantCode: http.StatusOK, wantReady: true},
		{name: "failing", webhook: errors.New("webhook url has no host"), wantCode: http.StatusServiceUnavailable, wantReady: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewReadyHandler()
			h.AddChecker("config", CheckerFunc(func(context.Context) error { return nil }))
			h.AddChecker("webhook_url", CheckerFunc(func(context.Context) error { return tt.webhook }))

			code, resp := getReady(t, h)

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantReady, resp.Ready)
			require.Len(t, resp.Checks, 2)
			assert.True(t, resp.Checks["config"].Ready)
			assert.Equal(t, tt.wantReady, resp.Checks["webhook_url"].Ready)
			if tt.webhook != nil {
				assert.Equal(t, tt.webhook.Error(), resp.Checks["webhook_url"].Error)
			}
		})
	}
}

func TestReadyHandler_MethodNotAllowed(t *testing.T) {
	w := httptest.NewRecorder()
	NewReadyHandler().ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/ready", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
