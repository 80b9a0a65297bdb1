package tribute

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"vechnost/internal/shared/logger"
)

// signatureHeaders lists the header name variants Tribute has been seen
// to use, tried in order. http.Header lookups are case-insensitive.
var signatureHeaders = []string{
	"X-Tribute-Signature",
	"X-Signature",
	"X-Hub-Signature-256",
}

// SignatureVerifier validates that a webhook body was produced by
// Tribute using the shared HMAC-SHA256 secret.
type SignatureVerifier struct {
	secret string
	logger logger.Interface
}

// NewSignatureVerifier creates a verifier with the configured secret.
// An empty secret puts the verifier in permissive development mode where
// every delivery passes without inspecting headers.
func NewSignatureVerifier(secret string, logger logger.Interface) *SignatureVerifier {
	return &SignatureVerifier{secret: secret, logger: logger}
}

// ComputeBodySHA256 returns the hex SHA-256 of the raw body. This hash is
// the idempotency key for webhook deliveries and payment events.
func ComputeBodySHA256(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// Verify checks the HMAC-SHA256 signature carried in the request headers
// against the raw body. A malformed or absent signature is simply
// invalid; Verify never fails with an error.
func (v *SignatureVerifier) Verify(headers http.Header, rawBody []byte) bool {
	if v.secret == "" {
		v.logger.Warnw("webhook secret not configured, skipping signature verification")
		return true
	}

	presented := v.PresentedSignature(headers)
	if presented == "" {
		v.logger.Warnw("no signature header found in webhook request")
		return false
	}

	// Some providers prefix the digest with the scheme.
	presented = strings.TrimPrefix(presented, "sha256=")

	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))

	presentedBytes, err := hex.DecodeString(presented)
	if err != nil {
		v.logger.Warnw("malformed webhook signature", "error", err)
		return false
	}

	expectedBytes, _ := hex.DecodeString(expected)
	if !hmac.Equal(expectedBytes, presentedBytes) {
		v.logger.Warnw("invalid webhook signature")
		return false
	}
	return true
}

// PresentedSignature returns the raw signature header value, or "" when
// no variant is present. The applier stores it on the payment event for
// audit even when verification is skipped.
func (v *SignatureVerifier) PresentedSignature(headers http.Header) string {
	for _, name := range signatureHeaders {
		if val := headers.Get(name); val != "" {
			return val
		}
	}
	return ""
}
