package usecases

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"vechnost/internal/domain/certificate"
	apperrors "vechnost/internal/shared/errors"
)

func TestGenerateCertificates_Success(t *testing.T) {
	certRepo := new(mockCertificateRepo)
	certRepo.On("CreateBatch", mock.Anything, mock.AnythingOfType("[]*certificate.Certificate")).Return(nil)

	uc := NewGenerateCertificatesUseCase(certRepo, discardLogger())
	result, err := uc.Execute(context.Background(), GenerateCertificatesCommand{Count: 5})

	assert.NoError(t, err)
	assert.Len(t, result.Codes, 5)

	seen := make(map[string]bool)
	for _, code := range result.Codes {
		assert.True(t, strings.HasPrefix(code, "VECH-"))
		assert.Len(t, code, len("VECH-")+4+1+8)
		assert.False(t, seen[code], "codes must be unique within a batch")
		seen[code] = true
	}

	persisted := certRepo.Calls[0].Arguments.Get(1).([]*certificate.Certificate)
	assert.Len(t, persisted, 5)
	for _, cert := range persisted {
		assert.True(t, cert.IsValid())
	}
}

func TestGenerateCertificates_Validation(t *testing.T) {
	uc := NewGenerateCertificatesUseCase(new(mockCertificateRepo), discardLogger())

	_, err := uc.Execute(context.Background(), GenerateCertificatesCommand{Count: 0})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = uc.Execute(context.Background(), GenerateCertificatesCommand{Count: maxCertificateBatch + 1})
	assert.True(t, apperrors.IsValidationError(err))
}
