package usecases

import "context"

// CatalogProduct is one product as reported by the payment provider.
type CatalogProduct struct {
	ID          int64
	Type        string
	Name        string
	Amount      int64
	Currency    string
	StarsAmount *int64
	TLink       string
	WebLink     string
}

// PaymentLink is a provider-hosted checkout URL for one purchase.
type PaymentLink struct {
	PaymentID  string `json:"payment_id"`
	PaymentURL string `json:"payment_url"`
	ExpiresAt  string `json:"expires_at,omitempty"`
}

// PaymentLinkRequest carries the purchase parameters sent to the provider.
type PaymentLinkRequest struct {
	TelegramUserID int64
	ProductID      int64
	Amount         int64
	Currency       string
	Description    string
}

// ProviderGateway is the provider API surface the product use cases need.
type ProviderGateway interface {
	ListProducts(ctx context.Context) ([]CatalogProduct, error)
	CreatePaymentLink(ctx context.Context, req PaymentLinkRequest) (*PaymentLink, error)
}
