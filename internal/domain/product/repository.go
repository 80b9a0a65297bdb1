package product

import "context"

// Repository defines the persistence interface for the product catalog.
type Repository interface {
	Upsert(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id int64) (*Product, error)
	ListAll(ctx context.Context) ([]*Product, error)
}
