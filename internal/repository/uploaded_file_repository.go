package repository

import (
	"context"

	"gorm.io/gorm"

	"pathguider/internal/model"
)

// UploadedFileRepository defines persistence for grade submission metadata.
type UploadedFileRepository interface {
	Create(ctx context.Context, file *model.UploadedFile) error
	List(ctx context.Context) ([]model.UploadedFile, error)
}

type uploadedFileRepository struct {
	db *gorm.DB
}

// NewUploadedFileRepository creates a GORM-backed uploaded file repository.
func NewUploadedFileRepository(db *gorm.DB) UploadedFileRepository {
	return &uploadedFileRepository{db: db}
}

func (r *uploadedFileRepository) Create(ctx context.Context, file *model.UploadedFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *uploadedFileRepository) List(ctx context.Context) ([]model.UploadedFile, error) {
	var files []model.UploadedFile
	if err := r.db.WithContext(ctx).Order("uploaded_at DESC").Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}
