package entity

import "net/http"

// WebhookResponse is the raw result of a successful webhook POST.
type WebhookResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Text returns the response body as a string.
func (r *WebhookResponse) Text() string {
	return string(r.Body)
}
