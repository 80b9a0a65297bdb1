package certificate

import (
	"context"
	"time"
)

// Repository defines the persistence interface for certificates.
//
// MarkUsed must be a single atomic conditional write guarded by
// is_used = false. When two redemption attempts race, exactly one call
// returns true; the loser returns false without error so the caller can
// report a conflict rather than a storage failure.
type Repository interface {
	GetByCode(ctx context.Context, code string) (*Certificate, error)
	MarkUsed(ctx context.Context, code string, telegramUserID int64, usedAt time.Time) (bool, error)
	ExistsRedeemedByTelegramUserID(ctx context.Context, telegramUserID int64) (bool, error)
	CreateBatch(ctx context.Context, certs []*Certificate) error
}
