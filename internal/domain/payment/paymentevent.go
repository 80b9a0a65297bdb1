// Package payment holds the immutable audit record of webhook-reported
// payment occurrences. A PaymentEvent is created exactly once per unique
// raw body and is never updated or deleted; the SHA-256 content hash of
// the body is the idempotency key.
package payment

import (
	"fmt"
	"time"

	"vechnost/internal/shared/biztime"
)

// ProviderTribute is the only payment provider currently wired.
const ProviderTribute = "tribute"

// PaymentEvent is one webhook-reported payment occurrence.
type PaymentEvent struct {
	id             uint
	provider       string
	eventName      string
	accountID      uint
	telegramUserID int64 // denormalized for fast entitlement lookups
	productID      *int64
	amount         int64
	currency       string
	expiresAt      *time.Time // nil = does not expire
	rawBody        []byte
	signature      string
	bodySHA256     string
	createdAt      time.Time
}

// NewPaymentEvent creates the audit record for a verified webhook delivery.
func NewPaymentEvent(
	provider, eventName string,
	accountID uint,
	telegramUserID int64,
	productID *int64,
	amount int64,
	currency string,
	expiresAt *time.Time,
	rawBody []byte,
	signature, bodySHA256 string,
) (*PaymentEvent, error) {
	if eventName == "" {
		return nil, fmt.Errorf("event name is required")
	}
	if accountID == 0 {
		return nil, fmt.Errorf("account ID is required")
	}
	if bodySHA256 == "" {
		return nil, fmt.Errorf("body hash is required")
	}
	return &PaymentEvent{
		provider:       provider,
		eventName:      eventName,
		accountID:      accountID,
		telegramUserID: telegramUserID,
		productID:      productID,
		amount:         amount,
		currency:       currency,
		expiresAt:      expiresAt,
		rawBody:        rawBody,
		signature:      signature,
		bodySHA256:     bodySHA256,
		createdAt:      biztime.NowUTC(),
	}, nil
}

// ReconstructPaymentEvent reconstructs from persistence
func ReconstructPaymentEvent(
	id uint,
	provider, eventName string,
	accountID uint,
	telegramUserID int64,
	productID *int64,
	amount int64,
	currency string,
	expiresAt *time.Time,
	rawBody []byte,
	signature, bodySHA256 string,
	createdAt time.Time,
) *PaymentEvent {
	return &PaymentEvent{
		id:             id,
		provider:       provider,
		eventName:      eventName,
		accountID:      accountID,
		telegramUserID: telegramUserID,
		productID:      productID,
		amount:         amount,
		currency:       currency,
		expiresAt:      expiresAt,
		rawBody:        rawBody,
		signature:      signature,
		bodySHA256:     bodySHA256,
		createdAt:      createdAt,
	}
}

// Getters
func (e *PaymentEvent) ID() uint              { return e.id }
func (e *PaymentEvent) Provider() string      { return e.provider }
func (e *PaymentEvent) EventName() string     { return e.eventName }
func (e *PaymentEvent) AccountID() uint       { return e.accountID }
func (e *PaymentEvent) TelegramUserID() int64 { return e.telegramUserID }
func (e *PaymentEvent) ProductID() *int64     { return e.productID }
func (e *PaymentEvent) Amount() int64         { return e.amount }
func (e *PaymentEvent) Currency() string      { return e.currency }
func (e *PaymentEvent) ExpiresAt() *time.Time { return e.expiresAt }
func (e *PaymentEvent) RawBody() []byte       { return e.rawBody }
func (e *PaymentEvent) Signature() string     { return e.signature }
func (e *PaymentEvent) BodySHA256() string    { return e.bodySHA256 }
func (e *PaymentEvent) CreatedAt() time.Time  { return e.createdAt }

// SetID sets the event ID (only for persistence layer use)
func (e *PaymentEvent) SetID(id uint) { e.id = id }

// IsActive reports whether the payment still grants access at the given
// time. A nil expiry is a lifetime grant.
func (e *PaymentEvent) IsActive(now time.Time) bool {
	return e.expiresAt == nil || e.expiresAt.After(now)
}
