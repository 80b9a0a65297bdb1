package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"vechnost/internal/domain/account"
	"vechnost/internal/shared/logger"
)

// AccountModel is the GORM model for the accounts table
type AccountModel struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"`
	TelegramUserID int64     `gorm:"column:telegram_user_id;not null;uniqueIndex"`
	Username       string    `gorm:"column:username;type:varchar(255)"`
	FirstName      string    `gorm:"column:first_name;type:varchar(255)"`
	LastName       string    `gorm:"column:last_name;type:varchar(255)"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// AccountRepository implements account.Repository
type AccountRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *gorm.DB, logger logger.Interface) *AccountRepository {
	return &AccountRepository{db: db, logger: logger}
}

// Create creates a new account
func (r *AccountRepository) Create(ctx context.Context, acc *account.Account) error {
	model := r.toModel(acc)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	acc.SetID(model.ID)
	return nil
}

// GetByTelegramUserID retrieves an account by Telegram user ID
func (r *AccountRepository) GetByTelegramUserID(ctx context.Context, telegramUserID int64) (*account.Account, error) {
	var model AccountModel
	if err := r.db.WithContext(ctx).Where("telegram_user_id = ?", telegramUserID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, account.ErrAccountNotFound
		}
		return nil, err
	}
	return r.toDomain(&model), nil
}

// Update persists refreshed display fields
func (r *AccountRepository) Update(ctx context.Context, acc *account.Account) error {
	return r.db.WithContext(ctx).Save(r.toModel(acc)).Error
}

func (r *AccountRepository) toModel(acc *account.Account) *AccountModel {
	return &AccountModel{
		ID:             acc.ID(),
		TelegramUserID: acc.TelegramUserID(),
		Username:       acc.Username(),
		FirstName:      acc.FirstName(),
		LastName:       acc.LastName(),
		CreatedAt:      acc.CreatedAt(),
		UpdatedAt:      acc.UpdatedAt(),
	}
}

func (r *AccountRepository) toDomain(model *AccountModel) *account.Account {
	return account.ReconstructAccount(
		model.ID,
		model.TelegramUserID,
		model.Username,
		model.FirstName,
		model.LastName,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
