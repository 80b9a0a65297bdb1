package subscription

import (
	"context"
	"time"
)

// Repository defines the persistence interface for subscription state.
// Upsert is keyed by (account id, provider subscription id); applying N
// events for the same pair never creates more than one row.
type Repository interface {
	Upsert(ctx context.Context, sub *Subscription) error
	GetByAccountAndSubscriptionID(ctx context.Context, accountID uint, subscriptionID int64) (*Subscription, error)
	FindActiveByAccountID(ctx context.Context, accountID uint, now time.Time) ([]*Subscription, error)
}
