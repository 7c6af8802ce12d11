package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"pathguider/internal/errors"
	"pathguider/internal/mailer"
	"pathguider/internal/model"
	"pathguider/internal/repository"
)

// AppealService owns the student appeal lifecycle: submission under a
// per-student quota, and the administrator's one-shot decision.
type AppealService interface {
	Submit(ctx context.Context, studentEmail, appealText string, placementID uint) (*model.Appeal, error)
	List(ctx context.Context) ([]model.Appeal, error)
	ListForStudent(ctx context.Context, email string) ([]model.Appeal, error)
	UpdateStatus(ctx context.Context, id uint, status, rejectionReason string) (*model.Appeal, error)
}

type appealService struct {
	appeals    repository.AppealRepository
	placements repository.PlacementRepository
	mail       mailer.Mailer
	limit      int
}

// NewAppealService builds an AppealService. limit caps appeals per student.
func NewAppealService(appeals repository.AppealRepository, placements repository.PlacementRepository, mail mailer.Mailer, limit int) AppealService {
	return &appealService{appeals: appeals, placements: placements, mail: mail, limit: limit}
}

// Submit files an appeal against a placement. Each student may appeal at
// most limit times across all placements.
func (s *appealService) Submit(ctx context.Context, studentEmail, appealText string, placementID uint) (*model.Appeal, error) {
	count, err := s.appeals.CountByStudent(ctx, studentEmail)
	if err != nil {
		return nil, fmt.Errorf("count appeals: %w", err)
	}
	if count >= int64(s.limit) {
		return nil, errors.ErrAppealLimitReached
	}

	if _, err := s.placements.FindByID(ctx, placementID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrPlacementNotFound
		}
		return nil, err
	}

	appeal := &model.Appeal{
		StudentEmail: studentEmail,
		AppealText:   appealText,
		PlacementID:  placementID,
		Status:       model.AppealPending,
	}
	if err := s.appeals.Create(ctx, appeal); err != nil {
		return nil, fmt.Errorf("create appeal: %w", err)
	}
	return appeal, nil
}

func (s *appealService) List(ctx context.Context) ([]model.Appeal, error) {
	return s.appeals.List(ctx)
}

func (s *appealService) ListForStudent(ctx context.Context, email string) ([]model.Appeal, error) {
	return s.appeals.ListByStudent(ctx, email)
}

// UpdateStatus applies an administrator's decision. Approved and rejected
// are terminal; a rejection must carry a non-empty reason. Decisions append
// an audit record and notify the student by email.
func (s *appealService) UpdateStatus(ctx context.Context, id uint, status, rejectionReason string) (*model.Appeal, error) {
	if !model.ValidAppealStatus(status) {
		return nil, errors.ErrInvalidAppealStatus
	}
	if status == model.AppealRejected && strings.TrimSpace(rejectionReason) == "" {
		return nil, errors.ErrRejectionReasonRequired
	}

	appeal, err := s.appeals.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrAppealNotFound
		}
		return nil, err
	}
	if appeal.Decided() {
		return nil, errors.ErrAppealAlreadyDecided
	}

	if err := s.appeals.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update appeal status: %w", err)
	}
	appeal.Status = status

	if status == model.AppealApproved || status == model.AppealRejected {
		decision := &model.AppealDecision{
			AppealID:    appeal.ID,
			PlacementID: appeal.PlacementID,
			Kind:        status,
			DecidedAt:   time.Now(),
		}
		if status == model.AppealRejected {
			decision.RejectionReason = rejectionReason
		}
		if err := s.appeals.RecordDecision(ctx, decision); err != nil {
			return nil, fmt.Errorf("record decision: %w", err)
		}
		if err := s.mail.SendAppealDecisionEmail(appeal.StudentEmail, status, decision.RejectionReason); err != nil {
			log.Printf("send appeal decision mail to %s: %v", appeal.StudentEmail, err)
		}
	}
	return appeal, nil
}
