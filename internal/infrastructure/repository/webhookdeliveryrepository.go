package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"vechnost/internal/domain/webhook"
	"vechnost/internal/shared/logger"
)

// WebhookDeliveryModel is the GORM model for the webhook_deliveries table
type WebhookDeliveryModel struct {
	ID          uint       `gorm:"primaryKey;autoIncrement"`
	Name        string     `gorm:"column:name;type:varchar(100);not null"`
	SentAt      time.Time  `gorm:"column:sent_at;not null"`
	BodySHA256  string     `gorm:"column:body_sha256;type:varchar(64);not null;uniqueIndex"`
	StatusCode  int        `gorm:"column:status_code;not null"`
	ProcessedAt *time.Time `gorm:"column:processed_at"`
	Error       string     `gorm:"column:error;type:text"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// TableName returns the table name for GORM
func (WebhookDeliveryModel) TableName() string {
	return "webhook_deliveries"
}

// WebhookDeliveryRepository implements webhook.Repository
type WebhookDeliveryRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewWebhookDeliveryRepository creates a new WebhookDeliveryRepository
func NewWebhookDeliveryRepository(db *gorm.DB, logger logger.Interface) *WebhookDeliveryRepository {
	return &WebhookDeliveryRepository{db: db, logger: logger}
}

// Record upserts a delivery outcome keyed by body hash. A repeated attempt
// for the same body overwrites the previously logged outcome.
func (r *WebhookDeliveryRepository) Record(ctx context.Context, d *webhook.Delivery) error {
	var existing WebhookDeliveryModel
	err := r.db.WithContext(ctx).Where("body_sha256 = ?", d.BodySHA256()).First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	model := r.toModel(d)
	if err == nil {
		model.ID = existing.ID
		model.CreatedAt = existing.CreatedAt
		if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
			return err
		}
		d.SetID(model.ID)
		return nil
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	d.SetID(model.ID)
	return nil
}

// GetByBodySHA256 retrieves a delivery by body hash
func (r *WebhookDeliveryRepository) GetByBodySHA256(ctx context.Context, bodySHA256 string) (*webhook.Delivery, error) {
	var model WebhookDeliveryModel
	if err := r.db.WithContext(ctx).Where("body_sha256 = ?", bodySHA256).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomain(&model), nil
}

func (r *WebhookDeliveryRepository) toModel(d *webhook.Delivery) *WebhookDeliveryModel {
	return &WebhookDeliveryModel{
		ID:          d.ID(),
		Name:        d.Name(),
		SentAt:      d.SentAt(),
		BodySHA256:  d.BodySHA256(),
		StatusCode:  d.StatusCode(),
		ProcessedAt: d.ProcessedAt(),
		Error:       d.ErrorMsg(),
		CreatedAt:   d.CreatedAt(),
	}
}

func (r *WebhookDeliveryRepository) toDomain(model *WebhookDeliveryModel) *webhook.Delivery {
	return webhook.ReconstructDelivery(
		model.ID,
		model.Name,
		model.SentAt,
		model.BodySHA256,
		model.StatusCode,
		model.ProcessedAt,
		model.Error,
		model.CreatedAt,
	)
}
