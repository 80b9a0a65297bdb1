package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"vechnost/internal/domain/certificate"
	"vechnost/internal/shared/logger"
)

// CertificateModel is the GORM model for the certificates table
type CertificateModel struct {
	ID                   uint       `gorm:"primaryKey;autoIncrement"`
	Code                 string     `gorm:"column:code;type:varchar(64);not null;uniqueIndex"`
	IsUsed               bool       `gorm:"column:is_used;not null;default:false"`
	UsedByTelegramUserID *int64     `gorm:"column:used_by_telegram_user_id;index"`
	UsedAt               *time.Time `gorm:"column:used_at"`
	CreatedAt            time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// TableName returns the table name for GORM
func (CertificateModel) TableName() string {
	return "certificates"
}

// CertificateRepository implements certificate.Repository
type CertificateRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewCertificateRepository creates a new CertificateRepository
func NewCertificateRepository(db *gorm.DB, logger logger.Interface) *CertificateRepository {
	return &CertificateRepository{db: db, logger: logger}
}

// GetByCode retrieves a certificate by its code
func (r *CertificateRepository) GetByCode(ctx context.Context, code string) (*certificate.Certificate, error) {
	var model CertificateModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, certificate.ErrCertificateNotFound
		}
		return nil, err
	}
	return r.toDomain(&model), nil
}

// MarkUsed performs the one-way redemption transition as a single
// conditional UPDATE guarded by is_used = false. RowsAffected tells the
// caller whether this attempt won the race; a losing attempt returns
// false with no error.
func (r *CertificateRepository) MarkUsed(ctx context.Context, code string, telegramUserID int64, usedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&CertificateModel{}).
		Where("code = ? AND is_used = ?", code, false).
		Updates(map[string]interface{}{
			"is_used":                  true,
			"used_by_telegram_user_id": telegramUserID,
			"used_at":                  usedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ExistsRedeemedByTelegramUserID reports whether the user has redeemed
// any certificate. Used by the entitlement resolver; a redeemed
// certificate grants access indefinitely.
func (r *CertificateRepository) ExistsRedeemedByTelegramUserID(ctx context.Context, telegramUserID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&CertificateModel{}).
		Where("used_by_telegram_user_id = ? AND is_used = ?", telegramUserID, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateBatch bulk-inserts pre-generated certificates
func (r *CertificateRepository) CreateBatch(ctx context.Context, certs []*certificate.Certificate) error {
	if len(certs) == 0 {
		return nil
	}
	models := make([]CertificateModel, 0, len(certs))
	for _, c := range certs {
		models = append(models, *r.toModel(c))
	}
	if err := r.db.WithContext(ctx).CreateInBatches(models, 100).Error; err != nil {
		return err
	}
	for i := range certs {
		certs[i].SetID(models[i].ID)
	}
	return nil
}

func (r *CertificateRepository) toModel(c *certificate.Certificate) *CertificateModel {
	return &CertificateModel{
		ID:                   c.ID(),
		Code:                 c.Code(),
		IsUsed:               c.IsUsed(),
		UsedByTelegramUserID: c.UsedByTelegramUserID(),
		UsedAt:               c.UsedAt(),
		CreatedAt:            c.CreatedAt(),
	}
}

func (r *CertificateRepository) toDomain(model *CertificateModel) *certificate.Certificate {
	return certificate.ReconstructCertificate(
		model.ID,
		model.Code,
		model.IsUsed,
		model.UsedByTelegramUserID,
		model.UsedAt,
		model.CreatedAt,
	)
}
