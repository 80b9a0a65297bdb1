package usecases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"vechnost/internal/domain/account"
	"vechnost/internal/domain/payment"
	"vechnost/internal/domain/subscription"
	"vechnost/internal/domain/webhook"
	"vechnost/internal/shared/biztime"
	"vechnost/internal/shared/config"
	apperrors "vechnost/internal/shared/errors"
)

func bodyHash(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

func newApplierForTest(
	accountRepo *mockAccountRepo,
	paymentRepo *mockPaymentRepo,
	subRepo *mockSubscriptionRepo,
	deliveryRepo *mockDeliveryRepo,
	verifier *mockSignatureVerifier,
) *ApplyWebhookEventUseCase {
	return NewApplyWebhookEventUseCase(
		accountRepo, paymentRepo, subRepo, deliveryRepo, verifier,
		config.PaymentConfig{Enforce: true, WebhookSecret: "secret", DefaultSubscriptionDays: 30},
		discardLogger(),
	)
}

func TestApplyWebhookEvent_NewSubscription(t *testing.T) {
	accountRepo := new(mockAccountRepo)
	paymentRepo := new(mockPaymentRepo)
	subRepo := new(mockSubscriptionRepo)
	deliveryRepo := new(mockDeliveryRepo)
	verifier := new(mockSignatureVerifier)

	body := []byte(`{
		"event_name": "new_subscription",
		"telegram_user_id": 123456789,
		"username": "alice",
		"subscription_id": 42,
		"period": "month",
		"amount": 500,
		"currency": "RUB",
		"expires_at": "2027-01-01T00:00:00Z"
	}`)

	deliveryRepo.On("GetByBodySHA256", mock.Anything, bodyHash(body)).Return(nil, nil)
	paymentRepo.On("GetByBodySHA256", mock.Anything, bodyHash(body)).Return(nil, nil)
	verifier.On("Verify", mock.Anything, body).Return(true)
	verifier.On("PresentedSignature", mock.Anything).Return("sig")

	accountRepo.On("GetByTelegramUserID", mock.Anything, int64(123456789)).Return(nil, account.ErrAccountNotFound)
	accountRepo.On("Create", mock.Anything, mock.AnythingOfType("*account.Account")).Run(func(args mock.Arguments) {
		args.Get(1).(*account.Account).SetID(7)
	}).Return(nil)

	paymentRepo.On("Create", mock.Anything, mock.AnythingOfType("*payment.PaymentEvent")).Run(func(args mock.Arguments) {
		args.Get(1).(*payment.PaymentEvent).SetID(11)
	}).Return(nil)

	subRepo.On("GetByAccountAndSubscriptionID", mock.Anything, uint(7), int64(42)).Return(nil, nil)
	subRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*subscription.Subscription")).Return(nil)

	deliveryRepo.On("Record", mock.Anything, mock.AnythingOfType("*webhook.Delivery")).Return(nil)

	uc := newApplierForTest(accountRepo, paymentRepo, subRepo, deliveryRepo, verifier)
	result, err := uc.Execute(context.Background(), ApplyWebhookCommand{Headers: http.Header{}, RawBody: body})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.False(t, result.Duplicate)
	assert.Equal(t, uint(11), result.PaymentEventID)

	upserted := subRepo.Calls[1].Arguments.Get(1).(*subscription.Subscription)
	assert.Equal(t, subscription.StatusActive, upserted.Status())
	assert.Equal(t, "month", upserted.Period())
	assert.NotNil(t, upserted.ExpiresAt())

	accountRepo.AssertExpectations(t)
	paymentRepo.AssertExpectations(t)
	subRepo.AssertExpectations(t)
	deliveryRepo.AssertExpectations(t)
}

func TestApplyWebhookEvent_DigitalProductGrantsLifetime(t *testing.T) {
	accountRepo := new(mockAccountRepo)
	paymentRepo := new(mockPaymentRepo)
	subRepo := new(mockSubscriptionRepo)
	deliveryRepo := new(mockDeliveryRepo)
	verifier := new(mockSignatureVerifier)

	body := []byte(`{
		"name": "digital_product",
		"payload": {"telegram_user_id": 555, "amount": 900, "user_id": 555}
	}`)

	deliveryRepo.On("GetByBodySHA256", mock.Anything, bodyHash(body)).Return(nil, nil)
	paymentRepo.On("GetByBodySHA256", mock.Anything, bodyHash(body)).Return(nil, nil)
	verifier.On("Verify", mock.Anything, body).Return(true)
	verifier.On("PresentedSignature", mock.Anything).Return("sig")

	acc, _ := account.NewAccount(555, "", "", "")
	acc.SetID(3)
	accountRepo.On("GetByTelegramUserID", mock.Anything, int64(555)).Return(acc, nil)
	accountRepo.On("Update", mock.Anything, acc).Return(nil)

	paymentRepo.On("Create", mock.Anything, mock.AnythingOfType("*payment.PaymentEvent")).Return(nil)
	subRepo.On("GetByAccountAndSubscriptionID", mock.Anything, uint(3), int64(555)).Return(nil, nil)
	subRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*subscription.Subscription")).Return(nil)
	deliveryRepo.On("Record", mock.Anything, mock.AnythingOfType("*webhook.Delivery")).Return(nil)

	uc := newApplierForTest(accountRepo, paymentRepo, subRepo, deliveryRepo, verifier)
	result, err := uc.Execute(context.Background(), ApplyWebhookCommand{Headers: http.Header{}, RawBody: body})

	assert.NoError(t, err)
	assert.False(t, result.Duplicate)

	upserted := subRepo.Calls[1].Arguments.Get(1).(*subscription.Subscription)
	assert.Equal(t, subscription.PeriodLifetime, upserted.Period())
	assert.True(t, upserted.IsLifetime())
	assert.True(t, upserted.IsActive(biztime.NowUTC()))
}

func TestApplyWebhookEvent_DuplicateDelivery(t *testing.T) {
	accountRepo := new(mockAccountRepo)
	paymentRepo := new(mockPaymentRepo)
	subRepo := new(mockSubscriptionRepo)
	deliveryRepo := new(mockDeliveryRepo)
	verifier := new(mockSignatureVerifier)

	body := []byte(`{"event_name": "new_subscription", "telegram_user_id": 1}`)

	processed, _ := webhook.NewDelivery("new_subscription", biztime.NowUTC(), bodyHash(body), http.StatusOK)
	processed.SetID(9)
	deliveryRepo.On("GetByBodySHA256", mock.Anything, bodyHash(body)).Return(processed, nil)

	uc := newApplierForTest(accountRepo, paymentRepo, subRepo, deliveryRepo, verifier)
	result, err := uc.Execute(context.Background(), ApplyWebhookCommand{Headers: http.Header{}, RawBody: body})

	assert.NoError(t, err)
	assert.True(t, result.Duplicate)
	paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

func TestApplyWebhookEvent_DuplicatePaymentRow(t *testing.T) {
	accountRepo := new(mockAccountRepo)
	paymentRepo := new(mockPaymentRepo)
	subRepo := new(mockSubscriptionRepo)
	deliveryRepo := new(mockDeliveryRepo)
	verifier := new(mockSignatureVerifier)

	body := []byte(`{"event_name": "new_subscription", "telegram_user_id": 1}`)

	existing := payment.ReconstructPaymentEvent(
		21, payment.ProviderTribute, "new_subscription", 1, 1, nil, 0, "RUB",
		nil, body, "sig", bodyHash(body), biztime.NowUTC(),
	)
	deliveryRepo.On("GetByBodySHA256", mock.Anything, bodyHash(body)).Return(nil, nil)
	paymentRepo.On("GetByBodySHA256", mock.Anything, bodyHash(body)).Return(existing, nil)

	uc := newApplierForTest(accountRepo, paymentRepo, subRepo, deliveryRepo, verifier)
	result, err := uc.Execute(context.Background(), ApplyWebhookCommand{Headers: http.Header{}, RawBody: body})

	assert.NoError(t, err)
	assert.True(t, result.Duplicate)
	assert.Equal(t, uint(21), result.PaymentEventID)
	paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestApplyWebhookEvent_InvalidSignature(t *testing.T) {
	accountRepo := new(mockAccountRepo)
	paymentRepo := new(mockPaymentRepo)
	subRepo := new(mockSubscriptionRepo)
	deliveryRepo := new(mockDeliveryRepo)
	verifier := new(mockSignatureVerifier)

	body := []byte(`{"event_name": "new_subscription", "telegram_user_id": 1}`)

	deliveryRepo.On("GetByBodySHA256", mock.Anything, bodyHash(body)).Return(nil, nil)
	paymentRepo.On("GetByBodySHA256", mock.Anything, bodyHash(body)).Return(nil, nil)
	verifier.On("Verify", mock.Anything, body).Return(false)
	deliveryRepo.On("Record", mock.Anything, mock.AnythingOfType("*webhook.Delivery")).Return(nil)

	uc := newApplierForTest(accountRepo, paymentRepo, subRepo, deliveryRepo, verifier)
	result, err := uc.Execute(context.Background(), ApplyWebhookCommand{Headers: http.Header{}, RawBody: body})

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, apperrors.IsUnauthorizedError(err))
	paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	accountRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	logged := deliveryRepo.Calls[1].Arguments.Get(1).(*webhook.Delivery)
	assert.Equal(t, http.StatusUnauthorized, logged.StatusCode())
	assert.Equal(t, "new_subscription", logged.Name())
}

func TestApplyWebhookEvent_MalformedBody(t *testing.T) {
	accountRepo := new(mockAccountRepo)
	paymentRepo := new(mockPaymentRepo)
	subRepo := new(mockSubscriptionRepo)
	deliveryRepo := new(mockDeliveryRepo)
	verifier := new(mockSignatureVerifier)

	body := []byte(`{not json`)

	deliveryRepo.On("GetByBodySHA256", mock.Anything, bodyHash(body)).Return(nil, nil)
	paymentRepo.On("GetByBodySHA256", mock.Anything, bodyHash(body)).Return(nil, nil)
	deliveryRepo.On("Record", mock.Anything, mock.AnythingOfType("*webhook.Delivery")).Return(nil)

	uc := newApplierForTest(accountRepo, paymentRepo, subRepo, deliveryRepo, verifier)
	result, err := uc.Execute(context.Background(), ApplyWebhookCommand{Headers: http.Header{}, RawBody: body})

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, apperrors.IsValidationError(err))
	verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

func TestApplyWebhookEvent_EmptyBodyIsConnectivityTest(t *testing.T) {
	uc := newApplierForTest(new(mockAccountRepo), new(mockPaymentRepo), new(mockSubscriptionRepo), new(mockDeliveryRepo), new(mockSignatureVerifier))

	result, err := uc.Execute(context.Background(), ApplyWebhookCommand{Headers: http.Header{}, RawBody: nil})

	assert.NoError(t, err)
	assert.False(t, result.Duplicate)
}

func TestApplyWebhookEvent_TestPayloadAcknowledged(t *testing.T) {
	accountRepo := new(mockAccountRepo)
	paymentRepo := new(mockPaymentRepo)
	subRepo := new(mockSubscriptionRepo)
	deliveryRepo := new(mockDeliveryRepo)
	verifier := new(mockSignatureVerifier)

	body := []byte(`{"test": true}`)

	deliveryRepo.On("GetByBodySHA256", mock.Anything, bodyHash(body)).Return(nil, nil)
	paymentRepo.On("GetByBodySHA256", mock.Anything, bodyHash(body)).Return(nil, nil)
	verifier.On("Verify", mock.Anything, body).Return(true)

	uc := newApplierForTest(accountRepo, paymentRepo, subRepo, deliveryRepo, verifier)
	result, err := uc.Execute(context.Background(), ApplyWebhookCommand{Headers: http.Header{}, RawBody: body})

	assert.NoError(t, err)
	assert.False(t, result.Duplicate)
	paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestApplyWebhookEvent_MissingTelegramUserID(t *testing.T) {
	accountRepo := new(mockAccountRepo)
	paymentRepo := new(mockPaymentRepo)
	subRepo := new(mockSubscriptionRepo)
	deliveryRepo := new(mockDeliveryRepo)
	verifier := new(mockSignatureVerifier)

	body := []byte(`{"event_name": "new_subscription"}`)

	deliveryRepo.On("GetByBodySHA256", mock.Anything, bodyHash(body)).Return(nil, nil)
	paymentRepo.On("GetByBodySHA256", mock.Anything, bodyHash(body)).Return(nil, nil)
	verifier.On("Verify", mock.Anything, body).Return(true)
	deliveryRepo.On("Record", mock.Anything, mock.AnythingOfType("*webhook.Delivery")).Return(nil)

	uc := newApplierForTest(accountRepo, paymentRepo, subRepo, deliveryRepo, verifier)
	result, err := uc.Execute(context.Background(), ApplyWebhookCommand{Headers: http.Header{}, RawBody: body})

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, apperrors.IsValidationError(err))

	logged := deliveryRepo.Calls[1].Arguments.Get(1).(*webhook.Delivery)
	assert.Equal(t, http.StatusBadRequest, logged.StatusCode())
}

func TestApplyWebhookEvent_InsertRaceReportsDuplicate(t *testing.T) {
	accountRepo := new(mockAccountRepo)
	paymentRepo := new(mockPaymentRepo)
	subRepo := new(mockSubscriptionRepo)
	deliveryRepo := new(mockDeliveryRepo)
	verifier := new(mockSignatureVerifier)

	body := []byte(`{"event_name": "new_subscription", "telegram_user_id": 9, "subscription_id": 1}`)

	deliveryRepo.On("GetByBodySHA256", mock.Anything, bodyHash(body)).Return(nil, nil)
	paymentRepo.On("GetByBodySHA256", mock.Anything, bodyHash(body)).Return(nil, nil)
	verifier.On("Verify", mock.Anything, body).Return(true)
	verifier.On("PresentedSignature", mock.Anything).Return("sig")

	acc, _ := account.NewAccount(9, "", "", "")
	acc.SetID(2)
	accountRepo.On("GetByTelegramUserID", mock.Anything, int64(9)).Return(acc, nil)
	accountRepo.On("Update", mock.Anything, acc).Return(nil)

	paymentRepo.On("Create", mock.Anything, mock.AnythingOfType("*payment.PaymentEvent")).
		Return(errors.New("UNIQUE constraint failed: payment_events.body_sha256"))

	uc := newApplierForTest(accountRepo, paymentRepo, subRepo, deliveryRepo, verifier)
	result, err := uc.Execute(context.Background(), ApplyWebhookCommand{Headers: http.Header{}, RawBody: body})

	assert.NoError(t, err)
	assert.True(t, result.Duplicate)
	subRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}
