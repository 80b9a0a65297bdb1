// Package certificate holds the pre-generated one-time-access codes.
// Redemption is a one-way, single-writer-wins transition: once used, the
// redeeming user and timestamp never change again.
package certificate

import (
	"fmt"
	"time"

	"vechnost/internal/shared/biztime"
)

// Certificate is one pre-generated one-time-access code.
type Certificate struct {
	id                   uint
	code                 string
	isUsed               bool
	usedByTelegramUserID *int64
	usedAt               *time.Time
	createdAt            time.Time
}

// NewCertificate creates an unused certificate for bulk generation.
func NewCertificate(code string) (*Certificate, error) {
	if code == "" {
		return nil, fmt.Errorf("certificate code is required")
	}
	return &Certificate{
		code:      code,
		createdAt: biztime.NowUTC(),
	}, nil
}

// ReconstructCertificate reconstructs from persistence
func ReconstructCertificate(
	id uint,
	code string,
	isUsed bool,
	usedByTelegramUserID *int64,
	usedAt *time.Time,
	createdAt time.Time,
) *Certificate {
	return &Certificate{
		id:                   id,
		code:                 code,
		isUsed:               isUsed,
		usedByTelegramUserID: usedByTelegramUserID,
		usedAt:               usedAt,
		createdAt:            createdAt,
	}
}

// Getters
func (c *Certificate) ID() uint                     { return c.id }
func (c *Certificate) Code() string                 { return c.code }
func (c *Certificate) IsUsed() bool                 { return c.isUsed }
func (c *Certificate) UsedByTelegramUserID() *int64 { return c.usedByTelegramUserID }
func (c *Certificate) UsedAt() *time.Time           { return c.usedAt }
func (c *Certificate) CreatedAt() time.Time         { return c.createdAt }

// SetID sets the certificate ID (only for persistence layer use)
func (c *Certificate) SetID(id uint) { c.id = id }

// IsValid reports whether the certificate can still be redeemed.
func (c *Certificate) IsValid() bool { return !c.isUsed }
