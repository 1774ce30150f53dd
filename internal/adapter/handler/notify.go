package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/qj0r9j0vc2/slack-webhook/internal/adapter/dto"
	domainerrors "github.com/qj0r9j0vc2/slack-webhook/internal/domain/errors"
	"github.com/qj0r9j0vc2/slack-webhook/internal/domain/logger"
	"github.com/qj0r9j0vc2/slack-webhook/internal/usecase/notify"
)

const maxNotifyBodyBytes = 1 << 20

// NotifyHandler relays notify requests to the incoming webhook.
type NotifyHandler struct {
	notify *notify.NotifyUseCase
	logger logger.Logger
}

// NewNotifyHandler creates a new handler.
func NewNotifyHandler(uc *notify.NotifyUseCase, logger logger.Logger) *NotifyHandler {
	return &NotifyHandler{
		notify: uc,
		logger: logger,
	}
}

// ServeHTTP handles POST /notify
func (h *NotifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.NotifyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxNotifyBodyBytes)).Decode(&req); err != nil {
		h.logger.Warn("failed to decode notify payload", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"status": "error",
			"error":  "invalid payload",
		})
		return
	}

	input, err := dto.ToNotifyInput(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"status": "error",
			"error":  err.Error(),
		})
		return
	}

	output, err := h.notify.Execute(r.Context(), input)
	if err != nil {
		h.writeError(w, output, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"requests": output.Requests,
		"blocks":   output.Blocks,
	})
}

// writeError maps a delivery failure to a response. Upstream failures
// become 502 and carry the webhook's status and body.
func (h *NotifyHandler) writeError(w http.ResponseWriter, output *dto.NotifyOutput, err error) {
	resp := map[string]any{
		"status": "error",
		"error":  err.Error(),
	}
	if output != nil {
		resp["requests"] = output.Requests
		resp["blocks"] = output.Blocks
	}

	var statusErr *domainerrors.HTTPStatusError
	var transportErr *domainerrors.TransportError
	switch {
	case errors.Is(err, dto.ErrEmptyRequest), errors.Is(err, dto.ErrInfoWithoutHeader),
		errors.Is(err, notify.ErrAmbiguousInput):
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.As(err, &statusErr):
		resp["upstream_status"] = statusErr.StatusCode
		resp["upstream_body"] = statusErr.Body
		resp["transient"] = domainerrors.IsTransient(err)
		writeJSON(w, http.StatusBadGateway, resp)
	case errors.As(err, &transportErr):
		resp["transient"] = domainerrors.IsTransient(err)
		writeJSON(w, http.StatusBadGateway, resp)
	default:
		writeJSON(w, http.StatusInternalServerError, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
