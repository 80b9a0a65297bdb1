package usecases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"vechnost/internal/domain/account"
	"vechnost/internal/domain/payment"
	"vechnost/internal/domain/subscription"
	"vechnost/internal/domain/webhook"
	"vechnost/internal/shared/biztime"
	"vechnost/internal/shared/config"
	apperrors "vechnost/internal/shared/errors"
	"vechnost/internal/shared/logger"
)

// ApplyWebhookCommand carries one raw webhook delivery.
type ApplyWebhookCommand struct {
	Headers http.Header
	RawBody []byte
}

// ApplyWebhookResult reports the outcome of applying a delivery. Duplicate
// deliveries are a success, not an error: the provider only needs to know
// the event is accounted for.
type ApplyWebhookResult struct {
	Message        string `json:"message"`
	Duplicate      bool   `json:"duplicate"`
	PaymentEventID uint   `json:"payment_event_id,omitempty"`
}

// ApplyWebhookEventUseCase turns a verified webhook delivery into durable
// payment state. The SHA-256 of the raw body is the idempotency key: the
// delivery log, the payment audit row and its unique constraint all hang
// off it, so retried and concurrently re-sent deliveries apply at most
// once.
type ApplyWebhookEventUseCase struct {
	accountRepo  account.Repository
	paymentRepo  payment.Repository
	subRepo      subscription.Repository
	deliveryRepo webhook.Repository
	verifier     SignatureVerifier
	cfg          config.PaymentConfig
	logger       logger.Interface
}

func NewApplyWebhookEventUseCase(
	accountRepo account.Repository,
	paymentRepo payment.Repository,
	subRepo subscription.Repository,
	deliveryRepo webhook.Repository,
	verifier SignatureVerifier,
	cfg config.PaymentConfig,
	logger logger.Interface,
) *ApplyWebhookEventUseCase {
	return &ApplyWebhookEventUseCase{
		accountRepo:  accountRepo,
		paymentRepo:  paymentRepo,
		subRepo:      subRepo,
		deliveryRepo: deliveryRepo,
		verifier:     verifier,
		cfg:          cfg,
		logger:       logger,
	}
}

func (uc *ApplyWebhookEventUseCase) Execute(ctx context.Context, cmd ApplyWebhookCommand) (*ApplyWebhookResult, error) {
	if len(cmd.RawBody) == 0 {
		uc.logger.Infow("empty webhook body, treating as connectivity test")
		return &ApplyWebhookResult{Message: "test webhook received"}, nil
	}

	sum := sha256.Sum256(cmd.RawBody)
	bodySHA256 := hex.EncodeToString(sum[:])

	// Idempotency gate: a delivery already processed to completion is
	// acknowledged without re-applying. Rejected or failed attempts do not
	// block a retry.
	prior, err := uc.deliveryRepo.GetByBodySHA256(ctx, bodySHA256)
	if err != nil {
		uc.logger.Errorw("failed to check delivery log", "body_sha256", bodySHA256, "error", err)
		return nil, apperrors.NewInternalError("failed to check delivery log")
	}
	if prior != nil && prior.StatusCode() == http.StatusOK {
		uc.logger.Infow("webhook already processed", "body_sha256", bodySHA256, "delivery_id", prior.ID())
		return &ApplyWebhookResult{Message: "webhook already processed", Duplicate: true}, nil
	}

	// Defense in depth: a payment row without its delivery log entry means a
	// prior attempt failed after the payment write. The effects are applied;
	// acknowledge.
	existing, err := uc.paymentRepo.GetByBodySHA256(ctx, bodySHA256)
	if err != nil {
		uc.logger.Errorw("failed to check existing payment", "body_sha256", bodySHA256, "error", err)
		return nil, apperrors.NewInternalError("failed to check existing payment")
	}
	if existing != nil {
		uc.logger.Infow("payment already recorded for body", "body_sha256", bodySHA256, "payment_event_id", existing.ID())
		return &ApplyWebhookResult{Message: "webhook already processed", Duplicate: true, PaymentEventID: existing.ID()}, nil
	}

	p, parseErr := parseWebhookPayload(cmd.RawBody)
	if parseErr != nil {
		uc.logger.Warnw("malformed webhook body", "body_sha256", bodySHA256, "error", parseErr)
		uc.recordDelivery(ctx, "unknown", bodySHA256, http.StatusBadRequest, "malformed JSON body")
		return nil, apperrors.NewValidationError("malformed JSON body", parseErr.Error())
	}

	if !uc.verifier.Verify(cmd.Headers, cmd.RawBody) {
		uc.logger.Warnw("invalid webhook signature", "body_sha256", bodySHA256)
		uc.recordDelivery(ctx, eventNameOrUnknown(p), bodySHA256, http.StatusUnauthorized, "invalid webhook signature")
		return nil, apperrors.NewUnauthorizedError("invalid webhook signature")
	}

	eventName := p.EventName()
	if eventName == "" {
		if p.IsConnectivityTest() {
			uc.logger.Infow("test webhook received", "body_sha256", bodySHA256)
			return &ApplyWebhookResult{Message: "test webhook received"}, nil
		}
		uc.logger.Warnw("missing event name in webhook payload", "body_sha256", bodySHA256)
		return nil, apperrors.NewValidationError("missing event name in payload", "")
	}

	telegramUserID, ok := p.TelegramUserID()
	if !ok {
		uc.logger.Warnw("missing telegram_user_id in webhook payload", "event_name", eventName, "body_sha256", bodySHA256)
		uc.recordDelivery(ctx, eventName, bodySHA256, http.StatusBadRequest, "missing telegram_user_id in payload")
		return nil, apperrors.NewValidationError("missing telegram_user_id in payload", "")
	}

	acc, err := uc.upsertAccount(ctx, telegramUserID, p)
	if err != nil {
		uc.logger.Errorw("failed to upsert account", "telegram_user_id", telegramUserID, "error", err)
		uc.recordDelivery(ctx, eventName, bodySHA256, http.StatusInternalServerError, err.Error())
		return nil, apperrors.NewInternalError("failed to upsert account")
	}

	expiresAt := p.ExpiresAt()
	event, err := payment.NewPaymentEvent(
		payment.ProviderTribute,
		eventName,
		acc.ID(),
		telegramUserID,
		p.ProductID(),
		p.Amount(),
		p.Currency(),
		expiresAt,
		cmd.RawBody,
		uc.verifier.PresentedSignature(cmd.Headers),
		bodySHA256,
	)
	if err != nil {
		uc.logger.Errorw("invalid payment event", "event_name", eventName, "error", err)
		uc.recordDelivery(ctx, eventName, bodySHA256, http.StatusBadRequest, err.Error())
		return nil, apperrors.NewValidationError("invalid payment event", err.Error())
	}

	if err := uc.paymentRepo.Create(ctx, event); err != nil {
		if apperrors.IsDuplicateError(err) {
			// Lost the insert race against a concurrent delivery of the
			// same body. The winner applied the effects.
			uc.logger.Infow("payment insert lost idempotency race", "body_sha256", bodySHA256)
			return &ApplyWebhookResult{Message: "webhook already processed", Duplicate: true}, nil
		}
		uc.logger.Errorw("failed to create payment event", "event_name", eventName, "error", err)
		uc.recordDelivery(ctx, eventName, bodySHA256, http.StatusInternalServerError, err.Error())
		return nil, apperrors.NewInternalError("failed to create payment event")
	}

	if hasSubscriptionEffect(eventName) {
		if err := uc.upsertSubscription(ctx, acc.ID(), eventName, p, expiresAt); err != nil {
			uc.logger.Errorw("failed to upsert subscription", "event_name", eventName, "account_id", acc.ID(), "error", err)
			uc.recordDelivery(ctx, eventName, bodySHA256, http.StatusInternalServerError, err.Error())
			return nil, apperrors.NewInternalError("failed to upsert subscription")
		}
	}

	now := biztime.NowUTC()
	d, err := webhook.NewDelivery(eventName, now, bodySHA256, http.StatusOK)
	if err == nil {
		d.MarkProcessed(now)
		if recErr := uc.deliveryRepo.Record(ctx, d); recErr != nil {
			// The payment row carries the idempotency key, so a retry of
			// this delivery still dedups.
			uc.logger.Warnw("failed to record delivery log", "body_sha256", bodySHA256, "error", recErr)
		}
	}

	uc.logger.Infow("webhook processed",
		"event_name", eventName,
		"telegram_user_id", telegramUserID,
		"payment_event_id", event.ID(),
	)

	return &ApplyWebhookResult{Message: "webhook processed", PaymentEventID: event.ID()}, nil
}

func (uc *ApplyWebhookEventUseCase) upsertAccount(ctx context.Context, telegramUserID int64, p webhookPayload) (*account.Account, error) {
	username, firstName, lastName := p.CustomerFields()

	acc, err := uc.accountRepo.GetByTelegramUserID(ctx, telegramUserID)
	if err != nil && !errors.Is(err, account.ErrAccountNotFound) {
		return nil, err
	}
	if acc == nil {
		acc, err = account.NewAccount(telegramUserID, username, firstName, lastName)
		if err != nil {
			return nil, err
		}
		if err := uc.accountRepo.Create(ctx, acc); err != nil {
			return nil, err
		}
		return acc, nil
	}

	acc.RefreshDisplayFields(username, firstName, lastName)
	if err := uc.accountRepo.Update(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

func (uc *ApplyWebhookEventUseCase) upsertSubscription(
	ctx context.Context,
	accountID uint,
	eventName string,
	p webhookPayload,
	expiresAt *time.Time,
) error {
	now := biztime.NowUTC()
	subscriptionID := p.SubscriptionID(now)
	status := p.Status(eventName)
	period := p.Period(eventName)

	if period == subscription.PeriodLifetime {
		expiresAt = nil
	} else if expiresAt == nil {
		exp := now.AddDate(0, 0, uc.cfg.DefaultSubscriptionDays)
		expiresAt = &exp
	}

	sub, err := uc.subRepo.GetByAccountAndSubscriptionID(ctx, accountID, subscriptionID)
	if err != nil {
		return err
	}
	if sub == nil {
		sub, err = subscription.NewSubscription(accountID, subscriptionID, period, status, expiresAt)
		if err != nil {
			return err
		}
	} else {
		sub.ApplyEvent(period, status, expiresAt, now)
	}

	if err := uc.subRepo.Upsert(ctx, sub); err != nil {
		return err
	}

	uc.logger.Infow("subscription state updated",
		"account_id", accountID,
		"subscription_id", subscriptionID,
		"period", period,
		"status", status,
		"expires_at", expiresAt,
	)
	return nil
}

// recordDelivery logs a delivery outcome on a best-effort basis. Audit
// logging must never mask the primary result.
func (uc *ApplyWebhookEventUseCase) recordDelivery(ctx context.Context, name, bodySHA256 string, statusCode int, errMsg string) {
	d, err := webhook.NewDelivery(name, biztime.NowUTC(), bodySHA256, statusCode)
	if err != nil {
		return
	}
	if errMsg != "" {
		d.MarkFailed(statusCode, errMsg)
	}
	if err := uc.deliveryRepo.Record(ctx, d); err != nil {
		uc.logger.Warnw("failed to record delivery log", "body_sha256", bodySHA256, "status_code", statusCode, "error", err)
	}
}

func eventNameOrUnknown(p webhookPayload) string {
	if name := p.EventName(); name != "" {
		return name
	}
	return "unknown"
}

// hasSubscriptionEffect reports whether the event changes subscription
// state. Digital product purchases count: they grant lifetime access
// recorded as a lifetime subscription row.
func hasSubscriptionEffect(eventName string) bool {
	lower := strings.ToLower(eventName)
	return strings.Contains(lower, "subscription") || strings.Contains(lower, "product")
}
