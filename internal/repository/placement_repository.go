package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pathguider/internal/model"
)

// PlacementRepository defines placement persistence operations.
type PlacementRepository interface {
	Upsert(ctx context.Context, placement *model.Placement) error
	Update(ctx context.Context, placement *model.Placement) error
	FindByID(ctx context.Context, id uint) (*model.Placement, error)
	FindByEmail(ctx context.Context, email string) (*model.Placement, error)
	List(ctx context.Context) ([]model.Placement, error)
	Delete(ctx context.Context, id uint) error
}

type placementRepository struct {
	db *gorm.DB
}

// NewPlacementRepository creates a GORM-backed placement repository.
func NewPlacementRepository(db *gorm.DB) PlacementRepository {
	return &placementRepository{db: db}
}

// Upsert inserts the placement, replacing any existing row for the same email.
func (r *placementRepository) Upsert(ctx context.Context, placement *model.Placement) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"first_name", "last_name", "stem", "social_sciences", "arts", "pathway", "updated_at",
		}),
	}).Create(placement).Error
}

func (r *placementRepository) Update(ctx context.Context, placement *model.Placement) error {
	return r.db.WithContext(ctx).Save(placement).Error
}

func (r *placementRepository) FindByID(ctx context.Context, id uint) (*model.Placement, error) {
	var placement model.Placement
	if err := r.db.WithContext(ctx).First(&placement, id).Error; err != nil {
		return nil, err
	}
	return &placement, nil
}

func (r *placementRepository) FindByEmail(ctx context.Context, email string) (*model.Placement, error) {
	var placement model.Placement
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&placement).Error; err != nil {
		return nil, err
	}
	return &placement, nil
}

func (r *placementRepository) List(ctx context.Context) ([]model.Placement, error) {
	var placements []model.Placement
	if err := r.db.WithContext(ctx).Find(&placements).Error; err != nil {
		return nil, err
	}
	return placements, nil
}

func (r *placementRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Placement{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
