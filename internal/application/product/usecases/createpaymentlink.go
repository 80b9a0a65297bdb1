package usecases

import (
	"context"

	"vechnost/internal/domain/product"
	apperrors "vechnost/internal/shared/errors"
	"vechnost/internal/shared/logger"
)

// CreatePaymentLinkCommand requests a checkout URL for one product.
type CreatePaymentLinkCommand struct {
	TelegramUserID int64
	ProductID      int64
}

// CreatePaymentLinkUseCase asks the provider for a checkout link using the
// locally mirrored product as the source of amount and currency.
type CreatePaymentLinkUseCase struct {
	productRepo product.Repository
	gateway     ProviderGateway
	logger      logger.Interface
}

func NewCreatePaymentLinkUseCase(productRepo product.Repository, gateway ProviderGateway, logger logger.Interface) *CreatePaymentLinkUseCase {
	return &CreatePaymentLinkUseCase{productRepo: productRepo, gateway: gateway, logger: logger}
}

func (uc *CreatePaymentLinkUseCase) Execute(ctx context.Context, cmd CreatePaymentLinkCommand) (*PaymentLink, error) {
	if cmd.TelegramUserID == 0 {
		return nil, apperrors.NewValidationError("telegram user ID is required", "")
	}
	if cmd.ProductID == 0 {
		return nil, apperrors.NewValidationError("product ID is required", "")
	}

	p, err := uc.productRepo.GetByID(ctx, cmd.ProductID)
	if err != nil {
		uc.logger.Errorw("failed to load product", "product_id", cmd.ProductID, "error", err)
		return nil, apperrors.NewInternalError("failed to load product")
	}
	if p == nil {
		return nil, apperrors.NewNotFoundError("product not found")
	}

	link, err := uc.gateway.CreatePaymentLink(ctx, PaymentLinkRequest{
		TelegramUserID: cmd.TelegramUserID,
		ProductID:      p.ID(),
		Amount:         p.Amount(),
		Currency:       p.Currency(),
		Description:    p.Name(),
	})
	if err != nil {
		uc.logger.Errorw("failed to create payment link",
			"telegram_user_id", cmd.TelegramUserID,
			"product_id", cmd.ProductID,
			"error", err,
		)
		return nil, apperrors.NewInternalError("failed to create payment link")
	}

	uc.logger.Infow("payment link created",
		"telegram_user_id", cmd.TelegramUserID,
		"product_id", cmd.ProductID,
		"payment_id", link.PaymentID,
	)
	return link, nil
}
