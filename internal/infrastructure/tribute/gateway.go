package tribute

import (
	"context"

	productUsecases "vechnost/internal/application/product/usecases"
)

// Gateway adapts the raw API client to the provider interface the product
// use cases depend on.
type Gateway struct {
	client *Client
}

func NewGateway(client *Client) *Gateway {
	return &Gateway{client: client}
}

func (g *Gateway) ListProducts(ctx context.Context) ([]productUsecases.CatalogProduct, error) {
	items, err := g.client.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	products := make([]productUsecases.CatalogProduct, 0, len(items))
	for _, item := range items {
		products = append(products, productUsecases.CatalogProduct{
			ID:          item.ID,
			Type:        item.Type,
			Name:        item.Name,
			Amount:      item.Amount,
			Currency:    item.Currency,
			StarsAmount: item.StarsAmount,
			TLink:       item.TLink,
			WebLink:     item.WebLink,
		})
	}
	return products, nil
}

func (g *Gateway) CreatePaymentLink(ctx context.Context, req productUsecases.PaymentLinkRequest) (*productUsecases.PaymentLink, error) {
	link, err := g.client.CreatePaymentLink(ctx, CreatePaymentLinkRequest{
		TelegramUserID: req.TelegramUserID,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Description:    req.Description,
		ProductID:      req.ProductID,
	})
	if err != nil {
		return nil, err
	}
	return &productUsecases.PaymentLink{
		PaymentID:  link.PaymentID,
		PaymentURL: link.PaymentURL,
		ExpiresAt:  link.ExpiresAt,
	}, nil
}
