package usecases

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"vechnost/internal/domain/account"
	"vechnost/internal/domain/certificate"
	"vechnost/internal/domain/payment"
	"vechnost/internal/domain/subscription"
	"vechnost/internal/shared/logger"
)

func discardLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
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

type mockSubscriptionRepo struct {
	mock.Mock
}

func (m *mockSubscriptionRepo) Upsert(ctx context.Context, sub *subscription.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *mockSubscriptionRepo) GetByAccountAndSubscriptionID(ctx context.Context, accountID uint, subscriptionID int64) (*subscription.Subscription, error) {
	args := m.Called(ctx, accountID, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepo) FindActiveByAccountID(ctx context.Context, accountID uint, now time.Time) ([]*subscription.Subscription, error) {
	args := m.Called(ctx, accountID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscription.Subscription), args.Error(1)
}

type mockPaymentRepo struct {
	mock.Mock
}

func (m *mockPaymentRepo) Create(ctx context.Context, event *payment.PaymentEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockPaymentRepo) GetByBodySHA256(ctx context.Context, bodySHA256 string) (*payment.PaymentEvent, error) {
	args := m.Called(ctx, bodySHA256)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.PaymentEvent), args.Error(1)
}

func (m *mockPaymentRepo) FindActiveByTelegramUserID(ctx context.Context, telegramUserID int64, now time.Time) ([]*payment.PaymentEvent, error) {
	args := m.Called(ctx, telegramUserID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.PaymentEvent), args.Error(1)
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
