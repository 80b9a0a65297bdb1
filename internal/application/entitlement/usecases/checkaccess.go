package usecases

import (
	"context"
	"errors"
	"time"

	"vechnost/internal/domain/account"
	"vechnost/internal/domain/certificate"
	"vechnost/internal/domain/payment"
	"vechnost/internal/domain/subscription"
	"vechnost/internal/shared/biztime"
	"vechnost/internal/shared/config"
	apperrors "vechnost/internal/shared/errors"
	"vechnost/internal/shared/logger"
)

// Access sources, in resolution order.
const (
	SourceDisabled     = "enforcement_disabled"
	SourceSubscription = "subscription"
	SourcePayment      = "payment"
	SourceCertificate  = "certificate"
	SourceNone         = "none"
)

// CheckAccessCommand asks whether one Telegram user currently has access.
type CheckAccessCommand struct {
	TelegramUserID int64
}

// CheckAccessResult reports the decision and which grant produced it.
type CheckAccessResult struct {
	TelegramUserID int64      `json:"telegram_user_id"`
	Allowed        bool       `json:"allowed"`
	Source         string     `json:"source"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
}

// CheckAccessUseCase resolves entitlement from the three grant sources:
// active subscriptions, unexpired one-time payments, and redeemed
// certificates. When payment enforcement is switched off everyone is
// allowed.
type CheckAccessUseCase struct {
	accountRepo account.Repository
	subRepo     subscription.Repository
	paymentRepo payment.Repository
	certRepo    certificate.Repository
	cfg         config.PaymentConfig
	logger      logger.Interface
}

func NewCheckAccessUseCase(
	accountRepo account.Repository,
	subRepo subscription.Repository,
	paymentRepo payment.Repository,
	certRepo certificate.Repository,
	cfg config.PaymentConfig,
	logger logger.Interface,
) *CheckAccessUseCase {
	return &CheckAccessUseCase{
		accountRepo: accountRepo,
		subRepo:     subRepo,
		paymentRepo: paymentRepo,
		certRepo:    certRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

func (uc *CheckAccessUseCase) Execute(ctx context.Context, cmd CheckAccessCommand) (*CheckAccessResult, error) {
	if cmd.TelegramUserID == 0 {
		return nil, apperrors.NewValidationError("telegram user ID is required", "")
	}

	if !uc.cfg.Enforce {
		return &CheckAccessResult{TelegramUserID: cmd.TelegramUserID, Allowed: true, Source: SourceDisabled}, nil
	}

	now := biztime.NowUTC()

	acc, err := uc.accountRepo.GetByTelegramUserID(ctx, cmd.TelegramUserID)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return &CheckAccessResult{TelegramUserID: cmd.TelegramUserID, Allowed: false, Source: SourceNone}, nil
		}
		uc.logger.Errorw("failed to load account", "telegram_user_id", cmd.TelegramUserID, "error", err)
		return nil, apperrors.NewInternalError("failed to resolve entitlement")
	}

	subs, err := uc.subRepo.FindActiveByAccountID(ctx, acc.ID(), now)
	if err != nil {
		uc.logger.Errorw("failed to load subscriptions", "account_id", acc.ID(), "error", err)
		return nil, apperrors.NewInternalError("failed to resolve entitlement")
	}
	if len(subs) > 0 {
		uc.logger.Debugw("access granted via subscription",
			"telegram_user_id", cmd.TelegramUserID,
			"active_subscriptions", len(subs),
		)
		return &CheckAccessResult{
			TelegramUserID: cmd.TelegramUserID,
			Allowed:        true,
			Source:         SourceSubscription,
			ExpiresAt:      latestSubscriptionExpiry(subs),
		}, nil
	}

	payments, err := uc.paymentRepo.FindActiveByTelegramUserID(ctx, cmd.TelegramUserID, now)
	if err != nil {
		uc.logger.Errorw("failed to load payments", "telegram_user_id", cmd.TelegramUserID, "error", err)
		return nil, apperrors.NewInternalError("failed to resolve entitlement")
	}
	if len(payments) > 0 {
		return &CheckAccessResult{
			TelegramUserID: cmd.TelegramUserID,
			Allowed:        true,
			Source:         SourcePayment,
			ExpiresAt:      latestPaymentExpiry(payments),
		}, nil
	}

	redeemed, err := uc.certRepo.ExistsRedeemedByTelegramUserID(ctx, cmd.TelegramUserID)
	if err != nil {
		uc.logger.Errorw("failed to check certificates", "telegram_user_id", cmd.TelegramUserID, "error", err)
		return nil, apperrors.NewInternalError("failed to resolve entitlement")
	}
	if redeemed {
		return &CheckAccessResult{TelegramUserID: cmd.TelegramUserID, Allowed: true, Source: SourceCertificate}, nil
	}

	uc.logger.Debugw("no active access", "telegram_user_id", cmd.TelegramUserID)
	return &CheckAccessResult{TelegramUserID: cmd.TelegramUserID, Allowed: false, Source: SourceNone}, nil
}

// latestSubscriptionExpiry returns the furthest expiry among active
// subscriptions. A lifetime grant yields nil.
func latestSubscriptionExpiry(subs []*subscription.Subscription) *time.Time {
	var latest *time.Time
	for _, s := range subs {
		if s.IsLifetime() {
			return nil
		}
		if latest == nil || s.ExpiresAt().After(*latest) {
			latest = s.ExpiresAt()
		}
	}
	return latest
}

func latestPaymentExpiry(payments []*payment.PaymentEvent) *time.Time {
	var latest *time.Time
	for _, p := range payments {
		if p.ExpiresAt() == nil {
			return nil
		}
		if latest == nil || p.ExpiresAt().After(*latest) {
			latest = p.ExpiresAt()
		}
	}
	return latest
}
