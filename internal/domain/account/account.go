// Package account holds the end-user aggregate. An account is created on
// the first webhook mention or the first certificate redemption attempt
// and is never deleted; only display fields are refreshed afterwards.
package account

import (
	"fmt"
	"time"

	"vechnost/internal/shared/biztime"
)

// Account represents one end user, keyed by their Telegram user id.
type Account struct {
	id             uint
	telegramUserID int64
	username       string
	firstName      string
	lastName       string
	createdAt      time.Time
	updatedAt      time.Time
}

// NewAccount creates a new account for a Telegram user.
func NewAccount(telegramUserID int64, username, firstName, lastName string) (*Account, error) {
	if telegramUserID == 0 {
		return nil, fmt.Errorf("telegram user ID is required")
	}
	now := biztime.NowUTC()
	return &Account{
		telegramUserID: telegramUserID,
		username:       username,
		firstName:      firstName,
		lastName:       lastName,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// ReconstructAccount reconstructs from persistence
func ReconstructAccount(
	id uint,
	telegramUserID int64,
	username, firstName, lastName string,
	createdAt, updatedAt time.Time,
) *Account {
	return &Account{
		id:             id,
		telegramUserID: telegramUserID,
		username:       username,
		firstName:      firstName,
		lastName:       lastName,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// Getters
func (a *Account) ID() uint              { return a.id }
func (a *Account) TelegramUserID() int64 { return a.telegramUserID }
func (a *Account) Username() string      { return a.username }
func (a *Account) FirstName() string     { return a.firstName }
func (a *Account) LastName() string      { return a.lastName }
func (a *Account) CreatedAt() time.Time  { return a.createdAt }
func (a *Account) UpdatedAt() time.Time  { return a.updatedAt }

// SetID sets the account ID (only for persistence layer use)
func (a *Account) SetID(id uint) { a.id = id }

// RefreshDisplayFields overwrites the optional display fields with values
// from a newer payload. Empty values are ignored so a sparse payload does
// not wipe previously known names.
func (a *Account) RefreshDisplayFields(username, firstName, lastName string) {
	changed := false
	if username != "" && username != a.username {
		a.username = username
		changed = true
	}
	if firstName != "" && firstName != a.firstName {
		a.firstName = firstName
		changed = true
	}
	if lastName != "" && lastName != a.lastName {
		a.lastName = lastName
		changed = true
	}
	if changed {
		a.updatedAt = biztime.NowUTC()
	}
}
