package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"pathguider/internal/errors"
	"pathguider/internal/model"
	"pathguider/internal/repository"
)

// ManualEntryInput is a single student's grades entered by a teacher.
type ManualEntryInput struct {
	FirstName      string
	LastName       string
	Email          string
	Stem           float64
	SocialSciences float64
	Arts           float64
}

// PlacementUpdateInput carries the editable placement fields.
type PlacementUpdateInput struct {
	Pathway        string
	Stem           *float64
	SocialSciences *float64
	Arts           *float64
}

// PlacementService owns the placement table and the teacher's manual grade
// entry path.
type PlacementService interface {
	List(ctx context.Context) ([]model.Placement, error)
	ForStudent(ctx context.Context, email string) (*model.Placement, error)
	ManualEntry(ctx context.Context, input ManualEntryInput) (*model.Placement, error)
	Update(ctx context.Context, id uint, input PlacementUpdateInput) (*model.Placement, error)
	Delete(ctx context.Context, id uint) error
	ListUploads(ctx context.Context) ([]model.UploadedFile, error)
}

type placementService struct {
	placements repository.PlacementRepository
	uploads    repository.UploadedFileRepository
}

// NewPlacementService builds a PlacementService.
func NewPlacementService(placements repository.PlacementRepository, uploads repository.UploadedFileRepository) PlacementService {
	return &placementService{placements: placements, uploads: uploads}
}

func (s *placementService) List(ctx context.Context) ([]model.Placement, error) {
	return s.placements.List(ctx)
}

func (s *placementService) ForStudent(ctx context.Context, email string) (*model.Placement, error) {
	placement, err := s.placements.FindByEmail(ctx, email)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrPlacementNotFound
		}
		return nil, err
	}
	return placement, nil
}

// ManualEntry validates the grades, derives the pathway from the highest
// score and upserts the row keyed by student email. A metadata record is
// written so the admin uploads screen lists the entry.
func (s *placementService) ManualEntry(ctx context.Context, input ManualEntryInput) (*model.Placement, error) {
	for _, grade := range []float64{input.Stem, input.SocialSciences, input.Arts} {
		if grade < 0 || grade > 100 {
			return nil, errors.ErrInvalidGrade
		}
	}

	placement := &model.Placement{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		Stem:           input.Stem,
		SocialSciences: input.SocialSciences,
		Arts:           input.Arts,
		Pathway:        derivePathway(input.Stem, input.SocialSciences, input.Arts),
	}
	if err := s.placements.Upsert(ctx, placement); err != nil {
		return nil, fmt.Errorf("upsert placement: %w", err)
	}

	record := &model.UploadedFile{
		Name:       "manual-entry:" + input.Email,
		Type:       "application/json",
		UploadedAt: time.Now(),
	}
	if err := s.uploads.Create(ctx, record); err != nil {
		// metadata only; the placement itself is already stored
		return placement, nil
	}
	return placement, nil
}

func (s *placementService) Update(ctx context.Context, id uint, input PlacementUpdateInput) (*model.Placement, error) {
	placement, err := s.placements.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrPlacementNotFound
		}
		return nil, err
	}

	if input.Stem != nil {
		placement.Stem = *input.Stem
	}
	if input.SocialSciences != nil {
		placement.SocialSciences = *input.SocialSciences
	}
	if input.Arts != nil {
		placement.Arts = *input.Arts
	}
	for _, grade := range []float64{placement.Stem, placement.SocialSciences, placement.Arts} {
		if grade < 0 || grade > 100 {
			return nil, errors.ErrInvalidGrade
		}
	}
	if input.Pathway != "" {
		switch input.Pathway {
		case model.PathwayStem, model.PathwaySocialSciences, model.PathwayArts:
			placement.Pathway = input.Pathway
		default:
			return nil, errors.ErrInvalidPathway
		}
	}

	if err := s.placements.Update(ctx, placement); err != nil {
		return nil, fmt.Errorf("update placement: %w", err)
	}
	return placement, nil
}

func (s *placementService) Delete(ctx context.Context, id uint) error {
	if err := s.placements.Delete(ctx, id); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrPlacementNotFound
		}
		return err
	}
	return nil
}

func (s *placementService) ListUploads(ctx context.Context) ([]model.UploadedFile, error) {
	return s.uploads.List(ctx)
}

// derivePathway picks the track with the highest score. Ties break toward
// STEM, then social sciences, matching the column order of the grade sheet.
func derivePathway(stem, socialSciences, arts float64) string {
	best, pathway := stem, model.PathwayStem
	if socialSciences > best {
		best, pathway = socialSciences, model.PathwaySocialSciences
	}
	if arts > best {
		pathway = model.PathwayArts
	}
	return pathway
}
