package repository

import (
	"context"

	"gorm.io/gorm"

	"pathguider/internal/model"
)

// AppealRepository defines appeal persistence operations.
type AppealRepository interface {
	Create(ctx context.Context, appeal *model.Appeal) error
	FindByID(ctx context.Context, id uint) (*model.Appeal, error)
	List(ctx context.Context) ([]model.Appeal, error)
	ListByStudent(ctx context.Context, email string) ([]model.Appeal, error)
	CountByStudent(ctx context.Context, email string) (int64, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	RecordDecision(ctx context.Context, decision *model.AppealDecision) error
}

type appealRepository struct {
	db *gorm.DB
}

// NewAppealRepository creates a GORM-backed appeal repository.
func NewAppealRepository(db *gorm.DB) AppealRepository {
	return &appealRepository{db: db}
}

func (r *appealRepository) Create(ctx context.Context, appeal *model.Appeal) error {
	return r.db.WithContext(ctx).Create(appeal).Error
}

func (r *appealRepository) FindByID(ctx context.Context, id uint) (*model.Appeal, error) {
	var appeal model.Appeal
	if err := r.db.WithContext(ctx).First(&appeal, id).Error; err != nil {
		return nil, err
	}
	return &appeal, nil
}

func (r *appealRepository) List(ctx context.Context) ([]model.Appeal, error) {
	var appeals []model.Appeal
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&appeals).Error; err != nil {
		return nil, err
	}
	return appeals, nil
}

func (r *appealRepository) ListByStudent(ctx context.Context, email string) ([]model.Appeal, error) {
	var appeals []model.Appeal
	if err := r.db.WithContext(ctx).
		Where("student_email = ?", email).
		Order("created_at DESC").
		Find(&appeals).Error; err != nil {
		return nil, err
	}
	return appeals, nil
}

func (r *appealRepository) CountByStudent(ctx context.Context, email string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Appeal{}).
		Where("student_email = ?", email).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *appealRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).Model(&model.Appeal{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *appealRepository) RecordDecision(ctx context.Context, decision *model.AppealDecision) error {
	return r.db.WithContext(ctx).Create(decision).Error
}
