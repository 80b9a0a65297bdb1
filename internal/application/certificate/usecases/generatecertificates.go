package usecases

import (
	"context"

	"vechnost/internal/domain/certificate"
	apperrors "vechnost/internal/shared/errors"
	"vechnost/internal/shared/id"
	"vechnost/internal/shared/logger"
)

// maxCertificateBatch bounds one generation run.
const maxCertificateBatch = 10000

// GenerateCertificatesCommand requests a batch of fresh certificates.
type GenerateCertificatesCommand struct {
	Count int
}

// GenerateCertificatesResult returns the generated codes for printing or
// distribution.
type GenerateCertificatesResult struct {
	Codes []string `json:"codes"`
}

// GenerateCertificatesUseCase creates unused certificates in bulk.
type GenerateCertificatesUseCase struct {
	certRepo certificate.Repository
	logger   logger.Interface
}

func NewGenerateCertificatesUseCase(certRepo certificate.Repository, logger logger.Interface) *GenerateCertificatesUseCase {
	return &GenerateCertificatesUseCase{certRepo: certRepo, logger: logger}
}

func (uc *GenerateCertificatesUseCase) Execute(ctx context.Context, cmd GenerateCertificatesCommand) (*GenerateCertificatesResult, error) {
	if cmd.Count <= 0 {
		return nil, apperrors.NewValidationError("count must be positive", "")
	}
	if cmd.Count > maxCertificateBatch {
		return nil, apperrors.NewValidationError("count exceeds maximum batch size", "")
	}

	certs := make([]*certificate.Certificate, 0, cmd.Count)
	codes := make([]string, 0, cmd.Count)
	for i := 0; i < cmd.Count; i++ {
		code, err := id.NewCertificateCode()
		if err != nil {
			uc.logger.Errorw("failed to generate certificate code", "error", err)
			return nil, apperrors.NewInternalError("failed to generate certificate code")
		}
		cert, err := certificate.NewCertificate(code)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to create certificate")
		}
		certs = append(certs, cert)
		codes = append(codes, code)
	}

	if err := uc.certRepo.CreateBatch(ctx, certs); err != nil {
		uc.logger.Errorw("failed to persist certificates", "count", cmd.Count, "error", err)
		return nil, apperrors.NewInternalError("failed to persist certificates")
	}

	uc.logger.Infow("certificates generated", "count", cmd.Count)
	return &GenerateCertificatesResult{Codes: codes}, nil
}
