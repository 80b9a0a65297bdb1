package usecases

import "net/http"

// SignatureVerifier checks the HMAC signature of a raw webhook body
// against the configured shared secret.
type SignatureVerifier interface {
	Verify(headers http.Header, rawBody []byte) bool
	PresentedSignature(headers http.Header) string
}
