package repository

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"vechnost/internal/domain/certificate"
	"vechnost/internal/domain/payment"
	"vechnost/internal/domain/webhook"
	"vechnost/internal/shared/biztime"
	apperrors "vechnost/internal/shared/errors"
	"vechnost/internal/shared/logger"
)

func discardLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// setupTestDB opens an in-memory SQLite database migrated to the full
// schema. A single connection keeps concurrent access serialized, which
// is what the CAS tests need to exercise RowsAffected semantics.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(AutoMigrateModels()...))

	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func newTestPaymentEvent(t *testing.T, bodyHash string, telegramUserID int64, expiresAt *time.Time) *payment.PaymentEvent {
	t.Helper()
	event, err := payment.NewPaymentEvent(
		payment.ProviderTribute,
		"new_subscription",
		1,
		telegramUserID,
		nil,
		100,
		"RUB",
		expiresAt,
		[]byte(`{"event_name":"new_subscription"}`),
		"sig",
		bodyHash,
	)
	require.NoError(t, err)
	return event
}

func TestPaymentEventRepository_DuplicateBodyHashRejected(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPaymentEventRepository(db, discardLogger())
	ctx := context.Background()

	first := newTestPaymentEvent(t, "hash-dup", 100, nil)
	require.NoError(t, repo.Create(ctx, first))
	assert.NotZero(t, first.ID())

	second := newTestPaymentEvent(t, "hash-dup", 100, nil)
	err := repo.Create(ctx, second)
	require.Error(t, err)
	assert.True(t, apperrors.IsDuplicateError(err))
}

func TestPaymentEventRepository_GetByBodySHA256(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPaymentEventRepository(db, discardLogger())
	ctx := context.Background()

	event := newTestPaymentEvent(t, "hash-get", 100, nil)
	require.NoError(t, repo.Create(ctx, event))

	found, err := repo.GetByBodySHA256(ctx, "hash-get")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, event.ID(), found.ID())
	assert.Equal(t, "new_subscription", found.EventName())
	assert.Equal(t, int64(100), found.TelegramUserID())

	missing, err := repo.GetByBodySHA256(ctx, "no-such-hash")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPaymentEventRepository_FindActiveByTelegramUserID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPaymentEventRepository(db, discardLogger())
	ctx := context.Background()
	now := biztime.NowUTC()

	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	require.NoError(t, repo.Create(ctx, newTestPaymentEvent(t, "hash-active", 200, &future)))
	require.NoError(t, repo.Create(ctx, newTestPaymentEvent(t, "hash-expired", 200, &past)))
	require.NoError(t, repo.Create(ctx, newTestPaymentEvent(t, "hash-lifetime", 200, nil)))
	require.NoError(t, repo.Create(ctx, newTestPaymentEvent(t, "hash-other-user", 999, &future)))

	active, err := repo.FindActiveByTelegramUserID(ctx, 200, now)
	require.NoError(t, err)
	require.Len(t, active, 2)

	hashes := []string{active[0].BodySHA256(), active[1].BodySHA256()}
	assert.ElementsMatch(t, []string{"hash-active", "hash-lifetime"}, hashes)
}

func TestCertificateRepository_MarkUsed(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCertificateRepository(db, discardLogger())
	ctx := context.Background()

	cert, err := certificate.NewCertificate("VECH-TEST-AAAAAAAA")
	require.NoError(t, err)
	require.NoError(t, repo.CreateBatch(ctx, []*certificate.Certificate{cert}))

	won, err := repo.MarkUsed(ctx, "VECH-TEST-AAAAAAAA", 500, biztime.NowUTC())
	require.NoError(t, err)
	assert.True(t, won)

	// A second attempt loses without error.
	won, err = repo.MarkUsed(ctx, "VECH-TEST-AAAAAAAA", 501, biztime.NowUTC())
	require.NoError(t, err)
	assert.False(t, won)

	found, err := repo.GetByCode(ctx, "VECH-TEST-AAAAAAAA")
	require.NoError(t, err)
	assert.True(t, found.IsUsed())
	require.NotNil(t, found.UsedByTelegramUserID())
	assert.Equal(t, int64(500), *found.UsedByTelegramUserID())
	require.NotNil(t, found.UsedAt())
}

func TestCertificateRepository_MarkUsedConcurrent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCertificateRepository(db, discardLogger())
	ctx := context.Background()

	cert, err := certificate.NewCertificate("VECH-RACE-BBBBBBBB")
	require.NoError(t, err)
	require.NoError(t, repo.CreateBatch(ctx, []*certificate.Certificate{cert}))

	const attempts = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			won, err := repo.MarkUsed(ctx, "VECH-RACE-BBBBBBBB", userID, biztime.NowUTC())
			if err != nil {
				return
			}
			if won {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}(int64(1000 + i))
	}
	wg.Wait()

	assert.Equal(t, 1, winners, "exactly one concurrent redemption must win")

	found, err := repo.GetByCode(ctx, "VECH-RACE-BBBBBBBB")
	require.NoError(t, err)
	assert.True(t, found.IsUsed())
}

func TestCertificateRepository_GetByCodeNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCertificateRepository(db, discardLogger())

	_, err := repo.GetByCode(context.Background(), "VECH-NONE-CCCCCCCC")
	assert.ErrorIs(t, err, certificate.ErrCertificateNotFound)
}

func TestCertificateRepository_ExistsRedeemedByTelegramUserID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCertificateRepository(db, discardLogger())
	ctx := context.Background()

	cert, err := certificate.NewCertificate("VECH-USER-DDDDDDDD")
	require.NoError(t, err)
	require.NoError(t, repo.CreateBatch(ctx, []*certificate.Certificate{cert}))

	exists, err := repo.ExistsRedeemedByTelegramUserID(ctx, 700)
	require.NoError(t, err)
	assert.False(t, exists)

	won, err := repo.MarkUsed(ctx, "VECH-USER-DDDDDDDD", 700, biztime.NowUTC())
	require.NoError(t, err)
	require.True(t, won)

	exists, err = repo.ExistsRedeemedByTelegramUserID(ctx, 700)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestWebhookDeliveryRepository_RecordUpsertsByBodyHash(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWebhookDeliveryRepository(db, discardLogger())
	ctx := context.Background()
	now := biztime.NowUTC()

	failed, err := webhook.NewDelivery("new_subscription", now, "hash-upsert", 401)
	require.NoError(t, err)
	failed.MarkFailed(401, "invalid signature")
	require.NoError(t, repo.Record(ctx, failed))
	firstID := failed.ID()
	assert.NotZero(t, firstID)

	// A retried delivery for the same body overwrites the failed outcome.
	succeeded, err := webhook.NewDelivery("new_subscription", now, "hash-upsert", 200)
	require.NoError(t, err)
	succeeded.MarkProcessed(now)
	require.NoError(t, repo.Record(ctx, succeeded))
	assert.Equal(t, firstID, succeeded.ID())

	found, err := repo.GetByBodySHA256(ctx, "hash-upsert")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, firstID, found.ID())
	assert.Equal(t, 200, found.StatusCode())
	require.NotNil(t, found.ProcessedAt())
	assert.Empty(t, found.ErrorMsg())
}

func TestWebhookDeliveryRepository_GetByBodySHA256Missing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWebhookDeliveryRepository(db, discardLogger())

	found, err := repo.GetByBodySHA256(context.Background(), "no-such-hash")
	require.NoError(t, err)
	assert.Nil(t, found)
}
