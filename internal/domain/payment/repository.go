package payment

import (
	"context"
	"time"
)

// Repository defines the persistence interface for payment events.
// Create must enforce the unique constraint on the body hash; a duplicate
// insert surfaces as a database duplicate-key error, never silently
// swallowed, so the applier can report the delivery as already processed.
type Repository interface {
	Create(ctx context.Context, event *PaymentEvent) error
	GetByBodySHA256(ctx context.Context, bodySHA256 string) (*PaymentEvent, error)
	FindActiveByTelegramUserID(ctx context.Context, telegramUserID int64, now time.Time) ([]*PaymentEvent, error)
}
