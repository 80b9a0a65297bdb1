// Package subscription tracks the current state of one provider
// subscription per account. Unlike payment events this state is
// intentionally mutable: each lifecycle event for the same
// (account, subscription id) pair overwrites status and expiry in place.
package subscription

import (
	"fmt"
	"time"

	"vechnost/internal/shared/biztime"
)

// Subscription statuses derived from provider lifecycle events.
const (
	StatusActive    = "active"
	StatusTrialing  = "trialing"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
)

// PeriodLifetime marks a grant that never lapses (expiry stays nil).
const PeriodLifetime = "lifetime"

// Subscription is the current state for one (account, provider
// subscription id) pair.
type Subscription struct {
	id             uint
	accountID      uint
	subscriptionID int64 // provider-assigned
	period         string
	status         string
	expiresAt      *time.Time // nil = lifetime, never expires
	lastEventAt    time.Time
	createdAt      time.Time
	updatedAt      time.Time
}

// NewSubscription creates subscription state from the first lifecycle
// event for the pair.
func NewSubscription(accountID uint, subscriptionID int64, period, status string, expiresAt *time.Time) (*Subscription, error) {
	if accountID == 0 {
		return nil, fmt.Errorf("account ID is required")
	}
	if subscriptionID == 0 {
		return nil, fmt.Errorf("subscription ID is required")
	}
	if status == "" {
		return nil, fmt.Errorf("status is required")
	}
	now := biztime.NowUTC()
	return &Subscription{
		accountID:      accountID,
		subscriptionID: subscriptionID,
		period:         period,
		status:         status,
		expiresAt:      expiresAt,
		lastEventAt:    now,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// ReconstructSubscription reconstructs from persistence
func ReconstructSubscription(
	id uint,
	accountID uint,
	subscriptionID int64,
	period, status string,
	expiresAt *time.Time,
	lastEventAt, createdAt, updatedAt time.Time,
) *Subscription {
	return &Subscription{
		id:             id,
		accountID:      accountID,
		subscriptionID: subscriptionID,
		period:         period,
		status:         status,
		expiresAt:      expiresAt,
		lastEventAt:    lastEventAt,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// Getters
func (s *Subscription) ID() uint               { return s.id }
func (s *Subscription) AccountID() uint        { return s.accountID }
func (s *Subscription) SubscriptionID() int64  { return s.subscriptionID }
func (s *Subscription) Period() string         { return s.period }
func (s *Subscription) Status() string         { return s.status }
func (s *Subscription) ExpiresAt() *time.Time  { return s.expiresAt }
func (s *Subscription) LastEventAt() time.Time { return s.lastEventAt }
func (s *Subscription) CreatedAt() time.Time   { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time   { return s.updatedAt }

// SetID sets the subscription ID (only for persistence layer use)
func (s *Subscription) SetID(id uint) { s.id = id }

// ApplyEvent overwrites the state with a later lifecycle event. The
// latest-received event always wins; no ordering check is made against
// the event's own timestamp (provider delivery order is unspecified).
func (s *Subscription) ApplyEvent(period, status string, expiresAt *time.Time, eventAt time.Time) {
	if period != "" {
		s.period = period
	}
	s.status = status
	s.expiresAt = expiresAt
	s.lastEventAt = eventAt
	s.updatedAt = biztime.NowUTC()
}

// IsLifetime reports whether the subscription never expires.
func (s *Subscription) IsLifetime() bool { return s.expiresAt == nil }

// IsActive reports whether the subscription grants access at the given
// time: the status must be active or trialing and the expiry either
// unset (lifetime) or in the future.
func (s *Subscription) IsActive(now time.Time) bool {
	if s.status != StatusActive && s.status != StatusTrialing {
		return false
	}
	return s.expiresAt == nil || s.expiresAt.After(now)
}
