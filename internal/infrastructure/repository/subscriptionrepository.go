package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"vechnost/internal/domain/subscription"
	"vechnost/internal/shared/logger"
)

// SubscriptionModel is the GORM model for the subscriptions table
type SubscriptionModel struct {
	ID             uint       `gorm:"primaryKey;autoIncrement"`
	AccountID      uint       `gorm:"column:account_id;not null;uniqueIndex:uq_account_subscription"`
	SubscriptionID int64      `gorm:"column:subscription_id;not null;uniqueIndex:uq_account_subscription"`
	Period         string     `gorm:"column:period;type:varchar(50);not null"`
	Status         string     `gorm:"column:status;type:varchar(20);not null"`
	ExpiresAt      *time.Time `gorm:"column:expires_at"`
	LastEventAt    time.Time  `gorm:"column:last_event_at;not null"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for GORM
func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

// SubscriptionRepository implements subscription.Repository
type SubscriptionRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewSubscriptionRepository creates a new SubscriptionRepository
func NewSubscriptionRepository(db *gorm.DB, logger logger.Interface) *SubscriptionRepository {
	return &SubscriptionRepository{db: db, logger: logger}
}

// Upsert creates or overwrites the state row for the (account,
// subscription id) pair. Concurrent upserts for the same pair resolve to
// last-write-wins, which the design accepts for subscription state.
func (r *SubscriptionRepository) Upsert(ctx context.Context, sub *subscription.Subscription) error {
	var existing SubscriptionModel
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND subscription_id = ?", sub.AccountID(), sub.SubscriptionID()).
		First(&existing).Error

	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		model := r.toModel(sub)
		if createErr := r.db.WithContext(ctx).Create(model).Error; createErr != nil {
			return createErr
		}
		sub.SetID(model.ID)
		return nil
	}

	model := r.toModel(sub)
	model.ID = existing.ID
	model.CreatedAt = existing.CreatedAt
	if saveErr := r.db.WithContext(ctx).Save(model).Error; saveErr != nil {
		return saveErr
	}
	sub.SetID(existing.ID)
	return nil
}

// GetByAccountAndSubscriptionID retrieves the state row for the pair
func (r *SubscriptionRepository) GetByAccountAndSubscriptionID(ctx context.Context, accountID uint, subscriptionID int64) (*subscription.Subscription, error) {
	var model SubscriptionModel
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND subscription_id = ?", accountID, subscriptionID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomain(&model), nil
}

// FindActiveByAccountID finds subscriptions granting access at the given
// time. A null expiry is a lifetime grant and always counts.
func (r *SubscriptionRepository) FindActiveByAccountID(ctx context.Context, accountID uint, now time.Time) ([]*subscription.Subscription, error) {
	var models []SubscriptionModel
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Where("status IN ?", []string{subscription.StatusActive, subscription.StatusTrialing}).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	subs := make([]*subscription.Subscription, 0, len(models))
	for i := range models {
		subs = append(subs, r.toDomain(&models[i]))
	}
	return subs, nil
}

func (r *SubscriptionRepository) toModel(sub *subscription.Subscription) *SubscriptionModel {
	return &SubscriptionModel{
		ID:             sub.ID(),
		AccountID:      sub.AccountID(),
		SubscriptionID: sub.SubscriptionID(),
		Period:         sub.Period(),
		Status:         sub.Status(),
		ExpiresAt:      sub.ExpiresAt(),
		LastEventAt:    sub.LastEventAt(),
		CreatedAt:      sub.CreatedAt(),
		UpdatedAt:      sub.UpdatedAt(),
	}
}

func (r *SubscriptionRepository) toDomain(model *SubscriptionModel) *subscription.Subscription {
	return subscription.ReconstructSubscription(
		model.ID,
		model.AccountID,
		model.SubscriptionID,
		model.Period,
		model.Status,
		model.ExpiresAt,
		model.LastEventAt,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
