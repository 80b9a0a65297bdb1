// Package product mirrors the purchasable offerings from the Tribute
// catalog. Products are created and refreshed by the periodic sync and
// are read-only from the entitlement subsystem's perspective.
package product

import (
	"fmt"
	"time"

	"vechnost/internal/shared/biztime"
)

// Kind values mirrored from the provider catalog.
const (
	KindOneTime   = "one-time"
	KindRecurring = "recurring"
)

// Product is one purchasable offering; the id is provider-assigned.
type Product struct {
	id          int64
	kind        string
	name        string
	amount      int64 // smallest currency unit
	currency    string
	starsAmount *int64
	tLink       string
	webLink     string
	updatedAt   time.Time
}

// NewProduct creates a product from provider catalog data.
func NewProduct(id int64, kind, name string, amount int64, currency string) (*Product, error) {
	if id == 0 {
		return nil, fmt.Errorf("product ID is required")
	}
	if name == "" {
		return nil, fmt.Errorf("product name is required")
	}
	if currency == "" {
		return nil, fmt.Errorf("product currency is required")
	}
	return &Product{
		id:        id,
		kind:      kind,
		name:      name,
		amount:    amount,
		currency:  currency,
		updatedAt: biztime.NowUTC(),
	}, nil
}

// ReconstructProduct reconstructs from persistence
func ReconstructProduct(
	id int64,
	kind, name string,
	amount int64,
	currency string,
	starsAmount *int64,
	tLink, webLink string,
	updatedAt time.Time,
) *Product {
	return &Product{
		id:          id,
		kind:        kind,
		name:        name,
		amount:      amount,
		currency:    currency,
		starsAmount: starsAmount,
		tLink:       tLink,
		webLink:     webLink,
		updatedAt:   updatedAt,
	}
}

// Getters
func (p *Product) ID() int64            { return p.id }
func (p *Product) Kind() string         { return p.kind }
func (p *Product) Name() string         { return p.name }
func (p *Product) Amount() int64        { return p.amount }
func (p *Product) Currency() string     { return p.currency }
func (p *Product) StarsAmount() *int64  { return p.starsAmount }
func (p *Product) TLink() string        { return p.tLink }
func (p *Product) WebLink() string      { return p.webLink }
func (p *Product) UpdatedAt() time.Time { return p.updatedAt }

// SetLinks sets the optional purchase links from the catalog.
func (p *Product) SetLinks(tLink, webLink string) {
	p.tLink = tLink
	p.webLink = webLink
}

// SetStarsAmount sets the optional Telegram Stars price.
func (p *Product) SetStarsAmount(stars *int64) {
	p.starsAmount = stars
}
