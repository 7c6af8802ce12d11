package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pathguider/internal/cache"
	"pathguider/internal/config"
	"pathguider/internal/errors"
	"pathguider/internal/model"
	"pathguider/internal/repository"
)

const (
	roleCacheTTL = 5 * time.Minute
	// rolePickMS is how long the client shows the success notice before
	// following the redirect.
	rolePickMS = 1200
)

// RoleResolution tells the client whether to show the role picker or
// redirect. Choices is non-empty exactly when the role is unset.
type RoleResolution struct {
	Role            string   `json:"role"`
	Choices         []string `json:"choices,omitempty"`
	Next            string   `json:"next,omitempty"`
	RedirectAfterMS int      `json:"redirect_after_ms,omitempty"`
}

// ProfileService owns profile reads, first-login provisioning, the
// one-time role assignment and the admin user screens.
type ProfileService interface {
	// Me returns the caller's profile, provisioning a row on first login.
	Me(ctx context.Context, id uuid.UUID, email string) (*model.Profile, error)
	// RoleOf returns the caller's current role, cached briefly.
	RoleOf(ctx context.Context, id uuid.UUID) (string, error)
	ResolveRole(ctx context.Context, id uuid.UUID) (*RoleResolution, error)
	SetRole(ctx context.Context, id uuid.UUID, role string) (*RoleResolution, error)

	ListUsers(ctx context.Context, role string) ([]model.Profile, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	UpdateUserName(ctx context.Context, id uuid.UUID, firstName, lastName string) (*model.Profile, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type profileService struct {
	repo   repository.ProfileRepository
	cache  *cache.Client
	policy string
}

// NewProfileService builds a ProfileService with repository and cache.
func NewProfileService(repo repository.ProfileRepository, cache *cache.Client, cfg *config.Config) ProfileService {
	return &profileService{repo: repo, cache: cache, policy: cfg.RoleLookupFailurePolicy}
}

func roleCacheKey(id uuid.UUID) string {
	return "profile_role:" + id.String()
}

// Me returns the caller's profile. When the authenticated id has no profile
// row yet, one is provisioned from the token's email with empty names.
func (s *profileService) Me(ctx context.Context, id uuid.UUID, email string) (*model.Profile, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err == nil {
		return profile, nil
	}
	if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	provisioned := &model.Profile{
		ID:            id,
		Email:         email,
		EmailVerified: true, // only verified accounts hold session tokens
	}
	if err := s.repo.Create(ctx, provisioned); err != nil {
		return nil, fmt.Errorf("provision profile: %w", err)
	}
	return provisioned, nil
}

func (s *profileService) RoleOf(ctx context.Context, id uuid.UUID) (string, error) {
	if data, _ := s.cache.Get(ctx, roleCacheKey(id)); data != nil {
		var role string
		if err := json.Unmarshal(data, &role); err == nil {
			return role, nil
		}
	}

	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if payload, err := json.Marshal(profile.Role); err == nil {
		_ = s.cache.Set(ctx, roleCacheKey(id), payload, roleCacheTTL)
	}
	return profile.Role, nil
}

// ResolveRole implements the role resolver: set roles short-circuit to the
// matching dashboard and never re-offer the picker. A failed profile lookup
// follows the configured policy.
func (s *profileService) ResolveRole(ctx context.Context, id uuid.UUID) (*RoleResolution, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if s.policy == config.RolePolicyPicker {
			return pickerResolution(), nil
		}
		return nil, errors.ErrNoActiveSession
	}
	if profile.Role == model.RoleUnset {
		return pickerResolution(), nil
	}
	return &RoleResolution{Role: profile.Role, Next: "/" + profile.Role}, nil
}

// SetRole writes the role exactly once. A second write is rejected, keeping
// the dashboard reachable from a role stable for the account's lifetime.
func (s *profileService) SetRole(ctx context.Context, id uuid.UUID, role string) (*RoleResolution, error) {
	if !model.ValidRole(role) {
		return nil, errors.ErrInvalidRole
	}
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.ErrNoActiveSession
	}
	if profile.Role != model.RoleUnset {
		return nil, errors.ErrRoleAlreadySet
	}
	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	_ = s.cache.Delete(ctx, roleCacheKey(id))
	return &RoleResolution{Role: role, Next: "/" + role, RedirectAfterMS: rolePickMS}, nil
}

func pickerResolution() *RoleResolution {
	return &RoleResolution{
		Choices: []string{model.RoleAdministrator, model.RoleTeacher, model.RoleStudent},
	}
}

func (s *profileService) ListUsers(ctx context.Context, role string) ([]model.Profile, error) {
	if role != "" && !model.ValidRole(role) {
		return nil, errors.ErrInvalidRole
	}
	return s.repo.List(ctx, role)
}

func (s *profileService) GetUser(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *profileService) UpdateUserName(ctx context.Context, id uuid.UUID, firstName, lastName string) (*model.Profile, error) {
	profile, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	profile.FirstName = firstName
	profile.LastName = lastName
	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrProfileNotFound
		}
		return err
	}
	_ = s.cache.Delete(ctx, roleCacheKey(id))
	return nil
}
