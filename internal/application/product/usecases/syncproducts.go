package usecases

import (
	"context"

	"vechnost/internal/domain/product"
	apperrors "vechnost/internal/shared/errors"
	"vechnost/internal/shared/logger"
)

// SyncProductsResult reports how many catalog entries were refreshed.
type SyncProductsResult struct {
	Synced int `json:"synced"`
}

// SyncProductsUseCase mirrors the provider's product catalog into local
// storage so purchase flows don't depend on the provider being up.
type SyncProductsUseCase struct {
	productRepo product.Repository
	gateway     ProviderGateway
	logger      logger.Interface
}

func NewSyncProductsUseCase(productRepo product.Repository, gateway ProviderGateway, logger logger.Interface) *SyncProductsUseCase {
	return &SyncProductsUseCase{productRepo: productRepo, gateway: gateway, logger: logger}
}

func (uc *SyncProductsUseCase) Execute(ctx context.Context) (*SyncProductsResult, error) {
	items, err := uc.gateway.ListProducts(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list provider products", "error", err)
		return nil, apperrors.NewInternalError("failed to list provider products")
	}

	synced := 0
	for _, item := range items {
		p, err := product.NewProduct(item.ID, item.Type, item.Name, item.Amount, item.Currency)
		if err != nil {
			// One bad catalog entry must not abort the whole sync.
			uc.logger.Warnw("skipping invalid product", "product_id", item.ID, "error", err)
			continue
		}
		p.SetLinks(item.TLink, item.WebLink)
		p.SetStarsAmount(item.StarsAmount)

		if err := uc.productRepo.Upsert(ctx, p); err != nil {
			uc.logger.Errorw("failed to upsert product", "product_id", item.ID, "error", err)
			return nil, apperrors.NewInternalError("failed to upsert product")
		}
		synced++
	}

	uc.logger.Infow("product catalog synced", "synced", synced, "received", len(items))
	return &SyncProductsResult{Synced: synced}, nil
}
