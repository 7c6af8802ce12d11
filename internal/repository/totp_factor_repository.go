package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pathguider/internal/model"
)

// TotpFactorRepository defines TOTP factor persistence operations.
type TotpFactorRepository interface {
	Create(ctx context.Context, factor *model.TotpFactor) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.TotpFactor, error)
	FindVerifiedByProfile(ctx context.Context, profileID uuid.UUID) (*model.TotpFactor, error)
	MarkVerified(ctx context.Context, id uuid.UUID) error
	DeleteUnverifiedByProfile(ctx context.Context, profileID uuid.UUID) error
}

type totpFactorRepository struct {
	db *gorm.DB
}

// NewTotpFactorRepository creates a GORM-backed TOTP factor repository.
func NewTotpFactorRepository(db *gorm.DB) TotpFactorRepository {
	return &totpFactorRepository{db: db}
}

func (r *totpFactorRepository) Create(ctx context.Context, factor *model.TotpFactor) error {
	return r.db.WithContext(ctx).Create(factor).Error
}

func (r *totpFactorRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.TotpFactor, error) {
	var factor model.TotpFactor
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&factor).Error; err != nil {
		return nil, err
	}
	return &factor, nil
}

func (r *totpFactorRepository) FindVerifiedByProfile(ctx context.Context, profileID uuid.UUID) (*model.TotpFactor, error) {
	var factor model.TotpFactor
	if err := r.db.WithContext(ctx).
		Where("profile_id = ? AND verified = ?", profileID, true).
		First(&factor).Error; err != nil {
		return nil, err
	}
	return &factor, nil
}

func (r *totpFactorRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.TotpFactor{}).
		Where("id = ?", id).
		Update("verified", true).Error
}

// DeleteUnverifiedByProfile discards abandoned enrollments so a re-run of
// the setup wizard starts from a clean slate.
func (r *totpFactorRepository) DeleteUnverifiedByProfile(ctx context.Context, profileID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("profile_id = ? AND verified = ?", profileID, false).
		Delete(&model.TotpFactor{}).Error
}
