package usecases

import (
	"context"

	"vechnost/internal/domain/product"
	apperrors "vechnost/internal/shared/errors"
	"vechnost/internal/shared/logger"
)

// ProductDTO is the outward representation of a catalog entry.
type ProductDTO struct {
	ID          int64  `json:"id"`
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	StarsAmount *int64 `json:"stars_amount,omitempty"`
	TLink       string `json:"t_link,omitempty"`
	WebLink     string `json:"web_link,omitempty"`
}

// ListProductsUseCase returns the locally mirrored catalog.
type ListProductsUseCase struct {
	productRepo product.Repository
	logger      logger.Interface
}

func NewListProductsUseCase(productRepo product.Repository, logger logger.Interface) *ListProductsUseCase {
	return &ListProductsUseCase{productRepo: productRepo, logger: logger}
}

func (uc *ListProductsUseCase) Execute(ctx context.Context) ([]ProductDTO, error) {
	products, err := uc.productRepo.ListAll(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list products", "error", err)
		return nil, apperrors.NewInternalError("failed to list products")
	}

	dtos := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, ProductDTO{
			ID:          p.ID(),
			Kind:        p.Kind(),
			Name:        p.Name(),
			Amount:      p.Amount(),
			Currency:    p.Currency(),
			StarsAmount: p.StarsAmount(),
			TLink:       p.TLink(),
			WebLink:     p.WebLink(),
		})
	}
	return dtos, nil
}
