// Package errors defines the failure taxonomy for webhook delivery.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidChunkSize indicates a chunked send was requested with a chunk size below 1.
	ErrInvalidChunkSize = errors.New("chunk size must be at least 1")

	// ErrInvalidBlock indicates a block that was not built by one of the block constructors.
	ErrInvalidBlock = errors.New("invalid block")

	// ErrUnsupportedBlock indicates a Block Kit block type the message model cannot carry.
	ErrUnsupportedBlock = errors.New("unsupported block type")
)

// TransportError reports a request that never produced a response:
// DNS, connect, TLS, timeout or a malformed URL.
type TransportError struct {
	Op  string
	Err error
}

// NewTransportError wraps err as a transport failure of op.
func NewTransportError(op string, err error) *TransportError {
	return &TransportError{Op: op, Err: err}
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport error: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPStatusError reports a response whose status was not 200.
// Body holds the response text, or a description of why it could not be read.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

// NewHTTPStatusError creates an HTTPStatusError.
func NewHTTPStatusError(statusCode int, body string) *HTTPStatusError {
	return &HTTPStatusError{StatusCode: statusCode, Body: body}
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("webhook returned status %d: %s", e.StatusCode, e.Body)
}

// ChunkError reports the failure of one request in a chunked send.
// Chunks before Index were delivered and are not rolled back; chunks
// after it were never attempted.
type ChunkError struct {
	Index int // 1-based
	Total int
	Err   error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("sending chunk %d of %d: %v", e.Index, e.Total, e.Err)
}

func (e *ChunkError) Unwrap() error {
	return e.Err
}

// Delivered returns how many chunks were accepted before the failure.
func (e *ChunkError) Delivered() int {
	return e.Index - 1
}

// IsTransient reports whether err is worth retrying by the caller.
// Transport failures, 429 and 5xx responses are transient; context
// cancellation and everything else is not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests ||
			statusErr.StatusCode >= http.StatusInternalServerError
	}

	var transportErr *TransportError
	return errors.As(err, &transportErr)
}
