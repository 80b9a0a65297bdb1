// Package webhook holds the durable log of webhook deliveries. Every
// inbound delivery leaves a row here, including rejected and failed
// attempts, keyed by the SHA-256 hash of the raw body. The log doubles
// as the idempotency gate: a delivery whose hash already exists is
// acknowledged without reapplying effects.
package webhook

import (
	"fmt"
	"time"

	"vechnost/internal/shared/biztime"
)

// Delivery is the audit record of one inbound webhook call.
type Delivery struct {
	id          uint
	name        string // event name, or "unknown" when unparsable
	sentAt      time.Time
	bodySHA256  string
	statusCode  int
	processedAt *time.Time
	errorMsg    string
	createdAt   time.Time
}

// NewDelivery records a webhook delivery outcome.
func NewDelivery(name string, sentAt time.Time, bodySHA256 string, statusCode int) (*Delivery, error) {
	if bodySHA256 == "" {
		return nil, fmt.Errorf("body hash is required")
	}
	if name == "" {
		name = "unknown"
	}
	return &Delivery{
		name:       name,
		sentAt:     sentAt,
		bodySHA256: bodySHA256,
		statusCode: statusCode,
		createdAt:  biztime.NowUTC(),
	}, nil
}

// ReconstructDelivery reconstructs from persistence
func ReconstructDelivery(
	id uint,
	name string,
	sentAt time.Time,
	bodySHA256 string,
	statusCode int,
	processedAt *time.Time,
	errorMsg string,
	createdAt time.Time,
) *Delivery {
	return &Delivery{
		id:          id,
		name:        name,
		sentAt:      sentAt,
		bodySHA256:  bodySHA256,
		statusCode:  statusCode,
		processedAt: processedAt,
		errorMsg:    errorMsg,
		createdAt:   createdAt,
	}
}

// Getters
func (d *Delivery) ID() uint                { return d.id }
func (d *Delivery) Name() string            { return d.name }
func (d *Delivery) SentAt() time.Time       { return d.sentAt }
func (d *Delivery) BodySHA256() string      { return d.bodySHA256 }
func (d *Delivery) StatusCode() int         { return d.statusCode }
func (d *Delivery) ProcessedAt() *time.Time { return d.processedAt }
func (d *Delivery) ErrorMsg() string        { return d.errorMsg }
func (d *Delivery) CreatedAt() time.Time    { return d.createdAt }

// SetID sets the delivery ID (only for persistence layer use)
func (d *Delivery) SetID(id uint) { d.id = id }

// MarkProcessed records successful processing.
func (d *Delivery) MarkProcessed(at time.Time) {
	d.processedAt = &at
}

// MarkFailed records the failure reason for audit.
func (d *Delivery) MarkFailed(statusCode int, errMsg string) {
	d.statusCode = statusCode
	d.errorMsg = errMsg
}
