package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// SignatureHeader carries the HMAC of a relay request body.
const SignatureHeader = "X-Relay-Signature"

// MaxSignedBodyBytes caps the body buffered for signature verification.
const MaxSignedBodyBytes = 1 << 20

// RelayAuth verifies the HMAC-SHA256 signature of notify requests.
// If secret is empty, authentication is skipped.
//
// Expected header format: X-Relay-Signature: v1=<hex_hmac_sha256>
func RelayAuth(secret string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				next.ServeHTTP(w, r)
				return
			}

			signature := r.Header.Get(SignatureHeader)
			if signature == "" {
				logger.Warn("missing relay signature header",
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
				)
				http.Error(w, "missing signature", http.StatusUnauthorized)
				return
			}

			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxSignedBodyBytes))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					logger.Warn("relay request body too large",
						"limit", tooLarge.Limit,
						"remote_addr", r.RemoteAddr,
					)
					http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
					return
				}
				logger.Error("failed to read request body",
					"error", err,
					"remote_addr", r.RemoteAddr,
				)
				http.Error(w, "invalid request", http.StatusBadRequest)
				return
			}
			r.Body.Close()

			if !VerifySignature(body, signature, secret) {
				logger.Warn("invalid relay signature",
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
				)
				http.Error(w, "invalid signature", http.StatusUnauthorized)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

// Sign returns the signature header value for body.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "v1=" + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature validates a "v1=<hex>" HMAC-SHA256 signature in constant time.
func VerifySignature(body []byte, signature, secret string) bool {
	version, _, ok := strings.Cut(signature, "=")
	if !ok || version != "v1" {
		return false
	}
	return hmac.Equal([]byte(signature), []byte(Sign(body, secret)))
}
