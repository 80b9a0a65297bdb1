package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"vechnost/internal/domain/product"
	"vechnost/internal/shared/logger"
)

// ProductModel is the GORM model for the products table. The primary key
// is the provider-assigned product id, not an autoincrement.
type ProductModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement:false"`
	Kind        string    `gorm:"column:kind;type:varchar(20);not null"`
	Name        string    `gorm:"column:name;type:varchar(255);not null"`
	Amount      int64     `gorm:"column:amount;not null"`
	Currency    string    `gorm:"column:currency;type:varchar(10);not null"`
	StarsAmount *int64    `gorm:"column:stars_amount"`
	TLink       string    `gorm:"column:t_link;type:varchar(500)"`
	WebLink     string    `gorm:"column:web_link;type:varchar(500)"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ProductRepository implements product.Repository
type ProductRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(db *gorm.DB, logger logger.Interface) *ProductRepository {
	return &ProductRepository{db: db, logger: logger}
}

// Upsert creates or refreshes a catalog entry
func (r *ProductRepository) Upsert(ctx context.Context, p *product.Product) error {
	model := r.toModel(p)
	return r.db.WithContext(ctx).Save(model).Error
}

// GetByID retrieves a product by provider-assigned id
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	var model ProductModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomain(&model), nil
}

// ListAll returns the catalog ordered by price
func (r *ProductRepository) ListAll(ctx context.Context) ([]*product.Product, error) {
	var models []ProductModel
	if err := r.db.WithContext(ctx).Order("amount").Find(&models).Error; err != nil {
		return nil, err
	}

	products := make([]*product.Product, 0, len(models))
	for i := range models {
		products = append(products, r.toDomain(&models[i]))
	}
	return products, nil
}

func (r *ProductRepository) toModel(p *product.Product) *ProductModel {
	return &ProductModel{
		ID:          p.ID(),
		Kind:        p.Kind(),
		Name:        p.Name(),
		Amount:      p.Amount(),
		Currency:    p.Currency(),
		StarsAmount: p.StarsAmount(),
		TLink:       p.TLink(),
		WebLink:     p.WebLink(),
		UpdatedAt:   p.UpdatedAt(),
	}
}

func (r *ProductRepository) toDomain(model *ProductModel) *product.Product {
	return product.ReconstructProduct(
		model.ID,
		model.Kind,
		model.Name,
		model.Amount,
		model.Currency,
		model.StarsAmount,
		model.TLink,
		model.WebLink,
		model.UpdatedAt,
	)
}
