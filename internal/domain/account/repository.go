package account

import "context"

// Repository defines the persistence interface for accounts.
type Repository interface {
	Create(ctx context.Context, acc *Account) error
	GetByTelegramUserID(ctx context.Context, telegramUserID int64) (*Account, error)
	Update(ctx context.Context, acc *Account) error
}
