// Package id generates human-facing identifiers.
package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// certAlphabet excludes characters easily confused when a code is read
	// off a printed card: O/0 and I/1.
	certAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	// CertCodePrefix brands every certificate code.
	CertCodePrefix = "VECH"

	// CertCodeLength is the number of random characters in a code.
	CertCodeLength = 12
)

// NewCertificateCode returns a code in the form VECH-XXXX-XXXXXXXX.
// The random part is cryptographically generated.
func NewCertificateCode() (string, error) {
	body := make([]byte, CertCodeLength)
	alphabetLen := big.NewInt(int64(len(certAlphabet)))

	for i := range body {
		num, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		body[i] = certAlphabet[num.Int64()]
	}

	return fmt.Sprintf("%s-%s-%s", CertCodePrefix, body[:4], body[4:]), nil
}
