package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"vechnost/internal/domain/account"
	"vechnost/internal/domain/certificate"
	"vechnost/internal/shared/biztime"
	apperrors "vechnost/internal/shared/errors"
	"vechnost/internal/shared/logger"
)

// RedeemCertificateCommand carries one redemption attempt.
type RedeemCertificateCommand struct {
	Code           string
	TelegramUserID int64
	Username       string
	FirstName      string
	LastName       string
}

// RedeemCertificateResult reports a successful redemption.
type RedeemCertificateResult struct {
	CertificateID  uint      `json:"certificate_id"`
	Code           string    `json:"code"`
	TelegramUserID int64     `json:"telegram_user_id"`
	UsedAt         time.Time `json:"used_at"`
}

// RedeemCertificateUseCase consumes a one-time certificate for an account.
// The used flag flips through a single conditional update, so when two
// attempts race on the same code exactly one succeeds and the other gets a
// conflict, never a double grant.
type RedeemCertificateUseCase struct {
	certRepo    certificate.Repository
	accountRepo account.Repository
	logger      logger.Interface
}

func NewRedeemCertificateUseCase(
	certRepo certificate.Repository,
	accountRepo account.Repository,
	logger logger.Interface,
) *RedeemCertificateUseCase {
	return &RedeemCertificateUseCase{
		certRepo:    certRepo,
		accountRepo: accountRepo,
		logger:      logger,
	}
}

func (uc *RedeemCertificateUseCase) Execute(ctx context.Context, cmd RedeemCertificateCommand) (*RedeemCertificateResult, error) {
	code := strings.TrimSpace(cmd.Code)
	if code == "" {
		return nil, apperrors.NewValidationError("certificate code is required", "")
	}
	if cmd.TelegramUserID == 0 {
		return nil, apperrors.NewValidationError("telegram user ID is required", "")
	}

	cert, err := uc.certRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, certificate.ErrCertificateNotFound) {
			uc.logger.Infow("certificate not found", "code", code)
			return nil, apperrors.NewNotFoundError("certificate not found")
		}
		uc.logger.Errorw("failed to load certificate", "code", code, "error", err)
		return nil, apperrors.NewInternalError("failed to load certificate")
	}

	// Early check for a clean conflict message. The conditional update
	// below remains the authoritative guard.
	if cert.IsUsed() {
		uc.logger.Infow("certificate already used",
			"code", code,
			"used_by", cert.UsedByTelegramUserID(),
			"attempted_by", cmd.TelegramUserID,
		)
		return nil, apperrors.NewConflictError("certificate already used")
	}

	if err := uc.upsertAccount(ctx, cmd); err != nil {
		uc.logger.Errorw("failed to upsert account", "telegram_user_id", cmd.TelegramUserID, "error", err)
		return nil, apperrors.NewInternalError("failed to upsert account")
	}

	usedAt := biztime.NowUTC()
	won, err := uc.certRepo.MarkUsed(ctx, code, cmd.TelegramUserID, usedAt)
	if err != nil {
		uc.logger.Errorw("failed to mark certificate used", "code", code, "error", err)
		return nil, apperrors.NewInternalError("failed to mark certificate used")
	}
	if !won {
		// Lost the race against a concurrent redemption of the same code.
		uc.logger.Infow("certificate redemption lost race", "code", code, "telegram_user_id", cmd.TelegramUserID)
		return nil, apperrors.NewConflictError("certificate already used")
	}

	uc.logger.Infow("certificate redeemed",
		"code", code,
		"certificate_id", cert.ID(),
		"telegram_user_id", cmd.TelegramUserID,
	)

	return &RedeemCertificateResult{
		CertificateID:  cert.ID(),
		Code:           code,
		TelegramUserID: cmd.TelegramUserID,
		UsedAt:         usedAt,
	}, nil
}

func (uc *RedeemCertificateUseCase) upsertAccount(ctx context.Context, cmd RedeemCertificateCommand) error {
	acc, err := uc.accountRepo.GetByTelegramUserID(ctx, cmd.TelegramUserID)
	if err != nil && !errors.Is(err, account.ErrAccountNotFound) {
		return err
	}
	if acc == nil {
		acc, err = account.NewAccount(cmd.TelegramUserID, cmd.Username, cmd.FirstName, cmd.LastName)
		if err != nil {
			return err
		}
		return uc.accountRepo.Create(ctx, acc)
	}

	acc.RefreshDisplayFields(cmd.Username, cmd.FirstName, cmd.LastName)
	return uc.accountRepo.Update(ctx, acc)
}
