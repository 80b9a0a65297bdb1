package usecases

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"vechnost/internal/domain/account"
	"vechnost/internal/domain/certificate"
	"vechnost/internal/shared/logger"
)

func discardLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type mockCertificateRepo struct {
	mock.Mock
}

func (m *mockCertificateRepo) GetByCode(ctx context.Context, code string) (*certificate.Certificate, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*certificate.Certificate), args.Error(1)
}

func (m *mockCertificateRepo) MarkUsed(ctx context.Context, code string, telegramUserID int64, usedAt time.Time) (bool, error) {
	args := m.Called(ctx, code, telegramUserID, usedAt)
	return args.Bool(0), args.Error(1)
}

func (m *mockCertificateRepo) ExistsRedeemedByTelegramUserID(ctx context.Context, telegramUserID int64) (bool, error) {
	args := m.Called(ctx, telegramUserID)
	return args.Bool(0), args.Error(1)
}

func (m *mockCertificateRepo) CreateBatch(ctx context.Context, certs []*certificate.Certificate) error {
	args := m.Called(ctx, certs)
	return args.Error(0)
}

type mockAccountRepo struct {
	mock.Mock
}

func (m *mockAccountRepo) Create(ctx context.Context, acc *account.Account) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

func (m *mockAccountRepo) GetByTelegramUserID(ctx context.Context, telegramUserID int64) (*account.Account, error) {
	args := m.Called(ctx, telegramUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *mockAccountRepo) Update(ctx context.Context, acc *account.Account) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}
