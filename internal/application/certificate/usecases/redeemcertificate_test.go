package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"vechnost/internal/domain/account"
	"vechnost/internal/domain/certificate"
	"vechnost/internal/shared/biztime"
	apperrors "vechnost/internal/shared/errors"
)

func TestRedeemCertificate_Success(t *testing.T) {
	certRepo := new(mockCertificateRepo)
	accountRepo := new(mockAccountRepo)

	cert, _ := certificate.NewCertificate("VECH-TEST-12345678")
	cert.SetID(1)
	certRepo.On("GetByCode", mock.Anything, "VECH-TEST-12345678").Return(cert, nil)
	certRepo.On("MarkUsed", mock.Anything, "VECH-TEST-12345678", int64(123456789), mock.AnythingOfType("time.Time")).Return(true, nil)

	accountRepo.On("GetByTelegramUserID", mock.Anything, int64(123456789)).Return(nil, account.ErrAccountNotFound)
	accountRepo.On("Create", mock.Anything, mock.AnythingOfType("*account.Account")).Return(nil)

	uc := NewRedeemCertificateUseCase(certRepo, accountRepo, discardLogger())
	result, err := uc.Execute(context.Background(), RedeemCertificateCommand{
		Code:           "VECH-TEST-12345678",
		TelegramUserID: 123456789,
		Username:       "alice",
	})

	assert.NoError(t, err)
	assert.Equal(t, uint(1), result.CertificateID)
	assert.Equal(t, int64(123456789), result.TelegramUserID)
	certRepo.AssertExpectations(t)
	accountRepo.AssertExpectations(t)
}

func TestRedeemCertificate_NotFound(t *testing.T) {
	certRepo := new(mockCertificateRepo)
	accountRepo := new(mockAccountRepo)

	certRepo.On("GetByCode", mock.Anything, "NOPE").Return(nil, certificate.ErrCertificateNotFound)

	uc := NewRedeemCertificateUseCase(certRepo, accountRepo, discardLogger())
	result, err := uc.Execute(context.Background(), RedeemCertificateCommand{Code: "NOPE", TelegramUserID: 1})

	assert.Nil(t, result)
	assert.True(t, apperrors.IsNotFoundError(err))
	certRepo.AssertNotCalled(t, "MarkUsed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRedeemCertificate_AlreadyUsed(t *testing.T) {
	certRepo := new(mockCertificateRepo)
	accountRepo := new(mockAccountRepo)

	usedBy := int64(987654321)
	usedAt := biztime.NowUTC()
	cert := certificate.ReconstructCertificate(1, "VECH-USED-12345678", true, &usedBy, &usedAt, biztime.NowUTC())
	certRepo.On("GetByCode", mock.Anything, "VECH-USED-12345678").Return(cert, nil)

	uc := NewRedeemCertificateUseCase(certRepo, accountRepo, discardLogger())
	result, err := uc.Execute(context.Background(), RedeemCertificateCommand{Code: "VECH-USED-12345678", TelegramUserID: 123})

	assert.Nil(t, result)
	assert.True(t, apperrors.IsConflictError(err))
	certRepo.AssertNotCalled(t, "MarkUsed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	accountRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRedeemCertificate_LostRaceReportsConflict(t *testing.T) {
	certRepo := new(mockCertificateRepo)
	accountRepo := new(mockAccountRepo)

	cert, _ := certificate.NewCertificate("VECH-RACE-12345678")
	cert.SetID(2)
	certRepo.On("GetByCode", mock.Anything, "VECH-RACE-12345678").Return(cert, nil)
	certRepo.On("MarkUsed", mock.Anything, "VECH-RACE-12345678", int64(5), mock.AnythingOfType("time.Time")).Return(false, nil)

	acc, _ := account.NewAccount(5, "", "", "")
	accountRepo.On("GetByTelegramUserID", mock.Anything, int64(5)).Return(acc, nil)
	accountRepo.On("Update", mock.Anything, acc).Return(nil)

	uc := NewRedeemCertificateUseCase(certRepo, accountRepo, discardLogger())
	result, err := uc.Execute(context.Background(), RedeemCertificateCommand{Code: "VECH-RACE-12345678", TelegramUserID: 5})

	assert.Nil(t, result)
	assert.True(t, apperrors.IsConflictError(err))
}

func TestRedeemCertificate_Validation(t *testing.T) {
	uc := NewRedeemCertificateUseCase(new(mockCertificateRepo), new(mockAccountRepo), discardLogger())

	_, err := uc.Execute(context.Background(), RedeemCertificateCommand{Code: "  ", TelegramUserID: 1})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = uc.Execute(context.Background(), RedeemCertificateCommand{Code: "VECH-OKOK-12345678"})
	assert.True(t, apperrors.IsValidationError(err))
}
