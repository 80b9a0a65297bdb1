package certificate

import "errors"

var (
	// ErrCertificateNotFound is returned when no certificate matches the code.
	ErrCertificateNotFound = errors.New("certificate not found")
)
