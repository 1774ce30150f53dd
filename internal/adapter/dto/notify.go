package dto

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/slack-go/slack"

	"github.com/qj0r9j0vc2/slack-webhook/internal/domain/entity"
)

// ErrEmptyRequest indicates a notify request with nothing to send.
var ErrEmptyRequest = errors.New("one of text, header, markdown or blocks is required")

// ErrInfoWithoutHeader indicates info was given for a message with no header.
var ErrInfoWithoutHeader = errors.New("info is only valid together with header")

// NotifyRequest is the JSON body accepted by POST /notify.
//
// Exactly one shape is used: header (+info), markdown, or text (+blocks).
// Blocks are raw Block Kit JSON; only header, section and divider blocks
// are accepted.
type NotifyRequest struct {
	Text     string          `json:"text,omitempty"`
	Header   string          `json:"header,omitempty"`
	Info     *string         `json:"info,omitempty"`
	Markdown string          `json:"markdown,omitempty"`
	Blocks   json.RawMessage `json:"blocks,omitempty"`
}

// NotifyInput is the decoded input of the notify use case.
type NotifyInput struct {
	Text     string
	Header   string
	Info     *string
	Markdown string
	Blocks   []entity.Block
}

// NotifyOutput reports what the notify use case did.
type NotifyOutput struct {
	// Requests is the number of webhook requests issued.
	Requests int
	// Blocks is the number of blocks delivered across all requests.
	Blocks int
}

// ToNotifyInput decodes the request's blocks with slack-go and converts
// them into message blocks.
func ToNotifyInput(req NotifyRequest) (NotifyInput, error) {
	input := NotifyInput{
		Text:     req.Text,
		Header:   req.Header,
		Info:     req.Info,
		Markdown: req.Markdown,
	}

	if len(req.Blocks) > 0 && string(req.Blocks) != "null" {
		var decoded slack.Blocks
		if err := json.Unmarshal(req.Blocks, &decoded); err != nil {
			return NotifyInput{}, fmt.Errorf("decoding blocks: %w", err)
		}
		blocks, err := entity.FromSlackBlocks(decoded.BlockSet)
		if err != nil {
			return NotifyInput{}, fmt.Errorf("converting blocks: %w", err)
		}
		input.Blocks = blocks
	}

	if input.Info != nil && input.Header == "" {
		return NotifyInput{}, ErrInfoWithoutHeader
	}

	if input.Text == "" && input.Header == "" && input.Markdown == "" && len(input.Blocks) == 0 {
		return NotifyInput{}, ErrEmptyRequest
	}

	return input, nil
}
