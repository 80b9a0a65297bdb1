package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"vechnost/internal/domain/payment"
	"vechnost/internal/shared/logger"
)

// PaymentEventModel is the GORM model for the payment_events table.
// The unique index on body_sha256 is the idempotency backstop: the insert
// fails with a duplicate-key error when the same raw body races past the
// check-then-act gate in the applier.
type PaymentEventModel struct {
	ID             uint           `gorm:"primaryKey;autoIncrement"`
	Provider       string         `gorm:"column:provider;type:varchar(50);not null;default:tribute"`
	EventName      string         `gorm:"column:event_name;type:varchar(100);not null"`
	AccountID      uint           `gorm:"column:account_id;not null;index"`
	TelegramUserID int64          `gorm:"column:telegram_user_id;not null;index"`
	ProductID      *int64         `gorm:"column:product_id"`
	Amount         int64          `gorm:"column:amount;not null"`
	Currency       string         `gorm:"column:currency;type:varchar(10);not null"`
	ExpiresAt      *time.Time     `gorm:"column:expires_at"`
	RawBody        datatypes.JSON `gorm:"column:raw_body;not null"`
	Signature      string         `gorm:"column:signature;type:varchar(255);not null"`
	BodySHA256     string         `gorm:"column:body_sha256;type:varchar(64);not null;uniqueIndex"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
}

// TableName returns the table name for GORM
func (PaymentEventModel) TableName() string {
	return "payment_events"
}

// PaymentEventRepository implements payment.Repository
type PaymentEventRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewPaymentEventRepository creates a new PaymentEventRepository
func NewPaymentEventRepository(db *gorm.DB, logger logger.Interface) *PaymentEventRepository {
	return &PaymentEventRepository{db: db, logger: logger}
}

// Create inserts the immutable audit row. A duplicate body_sha256 is
// returned as the driver's duplicate-key error for the caller to map.
func (r *PaymentEventRepository) Create(ctx context.Context, event *payment.PaymentEvent) error {
	model := r.toModel(event)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	event.SetID(model.ID)
	return nil
}

// GetByBodySHA256 retrieves a payment event by its body hash
func (r *PaymentEventRepository) GetByBodySHA256(ctx context.Context, bodySHA256 string) (*payment.PaymentEvent, error) {
	var model PaymentEventModel
	if err := r.db.WithContext(ctx).Where("body_sha256 = ?", bodySHA256).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomain(&model), nil
}

// FindActiveByTelegramUserID finds non-expired payments for a user.
// A null expiry means the payment never expires.
func (r *PaymentEventRepository) FindActiveByTelegramUserID(ctx context.Context, telegramUserID int64, now time.Time) ([]*payment.PaymentEvent, error) {
	var models []PaymentEventModel
	err := r.db.WithContext(ctx).
		Where("telegram_user_id = ?", telegramUserID).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	events := make([]*payment.PaymentEvent, 0, len(models))
	for i := range models {
		events = append(events, r.toDomain(&models[i]))
	}
	return events, nil
}

func (r *PaymentEventRepository) toModel(event *payment.PaymentEvent) *PaymentEventModel {
	return &PaymentEventModel{
		ID:             event.ID(),
		Provider:       event.Provider(),
		EventName:      event.EventName(),
		AccountID:      event.AccountID(),
		TelegramUserID: event.TelegramUserID(),
		ProductID:      event.ProductID(),
		Amount:         event.Amount(),
		Currency:       event.Currency(),
		ExpiresAt:      event.ExpiresAt(),
		RawBody:        datatypes.JSON(event.RawBody()),
		Signature:      event.Signature(),
		BodySHA256:     event.BodySHA256(),
		CreatedAt:      event.CreatedAt(),
	}
}

func (r *PaymentEventRepository) toDomain(model *PaymentEventModel) *payment.PaymentEvent {
	return payment.ReconstructPaymentEvent(
		model.ID,
		model.Provider,
		model.EventName,
		model.AccountID,
		model.TelegramUserID,
		model.ProductID,
		model.Amount,
		model.Currency,
		model.ExpiresAt,
		[]byte(model.RawBody),
		model.Signature,
		model.BodySHA256,
		model.CreatedAt,
	)
}
