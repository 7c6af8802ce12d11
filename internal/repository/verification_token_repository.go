package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pathguider/internal/model"
)

// VerificationTokenRepository defines persistence for emailed single-use tokens.
type VerificationTokenRepository interface {
	Create(ctx context.Context, token *model.VerificationToken) error
	FindByHash(ctx context.Context, hash, kind string) (*model.VerificationToken, error)
	Consume(ctx context.Context, id uint, at time.Time) error
	DeletePendingByProfile(ctx context.Context, profileID uuid.UUID, kind string) error
}

type verificationTokenRepository struct {
	db *gorm.DB
}

// NewVerificationTokenRepository creates a GORM-backed token repository.
func NewVerificationTokenRepository(db *gorm.DB) VerificationTokenRepository {
	return &verificationTokenRepository{db: db}
}

func (r *verificationTokenRepository) Create(ctx context.Context, token *model.VerificationToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *verificationTokenRepository) FindByHash(ctx context.Context, hash, kind string) (*model.VerificationToken, error) {
	var token model.VerificationToken
	if err := r.db.WithContext(ctx).
		Where("token_hash = ? AND kind = ?", hash, kind).
		First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *verificationTokenRepository) Consume(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.VerificationToken{}).
		Where("id = ?", id).
		Update("consumed_at", at).Error
}

// DeletePendingByProfile invalidates earlier unconsumed tokens of the same
// kind, so only the most recently emailed link works.
func (r *verificationTokenRepository) DeletePendingByProfile(ctx context.Context, profileID uuid.UUID, kind string) error {
	return r.db.WithContext(ctx).
		Where("profile_id = ? AND kind = ? AND consumed_at IS NULL", profileID, kind).
		Delete(&model.VerificationToken{}).Error
}
