package usecases

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/stretchr/testify/mock"

	"vechnost/internal/domain/account"
	"vechnost/internal/domain/payment"
	"vechnost/internal/domain/subscription"
	"vechnost/internal/domain/webhook"
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

type mockDeliveryRepo struct {
	mock.Mock
}

func (m *mockDeliveryRepo) Record(ctx context.Context, d *webhook.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *mockDeliveryRepo) GetByBodySHA256(ctx context.Context, bodySHA256 string) (*webhook.Delivery, error) {
	args := m.Called(ctx, bodySHA256)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*webhook.Delivery), args.Error(1)
}

type mockSignatureVerifier struct {
	mock.Mock
}

func (m *mockSignatureVerifier) Verify(headers http.Header, rawBody []byte) bool {
	args := m.Called(headers, rawBody)
	return args.Bool(0)
}

func (m *mockSignatureVerifier) PresentedSignature(headers http.Header) string {
	args := m.Called(headers)
	return args.String(0)
}
