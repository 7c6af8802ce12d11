package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"pathguider/internal/config"
	"pathguider/internal/errors"
	"pathguider/internal/model"
)

func newProfileServiceForTest(policy string) (ProfileService, *MockProfileRepository) {
	repo := new(MockProfileRepository)
	cfg := &config.Config{RoleLookupFailurePolicy: policy}
	return NewProfileService(repo, nil, cfg), repo
}

func TestProfileService_Me_ProvisionsOnFirstLogin(t *testing.T) {
	svc, repo := newProfileServiceForTest(config.RolePolicyDeny)

	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Profile) bool {
		return p.ID == id && p.Email == "s@example.com" && p.EmailVerified
	})).Return(nil)

	profile, err := svc.Me(context.Background(), id, "s@example.com")
	assert.NoError(t, err)
	assert.Equal(t, id, profile.ID)
	assert.Equal(t, model.RoleUnset, profile.Role)
	repo.AssertExpectations(t)
}

func TestProfileService_Me_ReturnsExistingProfile(t *testing.T) {
	svc, repo := newProfileServiceForTest(config.RolePolicyDeny)

	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(&model.Profile{ID: id, Email: "s@example.com"}, nil)

	profile, err := svc.Me(context.Background(), id, "s@example.com")
	assert.NoError(t, err)
	assert.Equal(t, id, profile.ID)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProfileService_ResolveRole(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name          string
		policy        string
		setupMock     func(*MockProfileRepository)
		expectedError error
		check         func(*testing.T, *RoleResolution)
	}{
		{
			name:   "set role short-circuits to its dashboard",
			policy: config.RolePolicyDeny,
			setupMock: func(repo *MockProfileRepository) {
				repo.On("FindByID", mock.Anything, id).Return(&model.Profile{ID: id, Role: model.RoleTeacher}, nil)
			},
			check: func(t *testing.T, res *RoleResolution) {
				assert.Equal(t, model.RoleTeacher, res.Role)
				assert.Equal(t, "/teacher", res.Next)
				assert.Empty(t, res.Choices)
			},
		},
		{
			name:   "unset role offers the picker",
			policy: config.RolePolicyDeny,
			setupMock: func(repo *MockProfileRepository) {
				repo.On("FindByID", mock.Anything, id).Return(&model.Profile{ID: id}, nil)
			},
			check: func(t *testing.T, res *RoleResolution) {
				assert.Equal(t, model.RoleUnset, res.Role)
				assert.ElementsMatch(t, []string{model.RoleAdministrator, model.RoleTeacher, model.RoleStudent}, res.Choices)
			},
		},
		{
			name:   "lookup failure denies under the deny policy",
			policy: config.RolePolicyDeny,
			setupMock: func(repo *MockProfileRepository) {
				repo.On("FindByID", mock.Anything, id).Return(nil, assert.AnError)
			},
			expectedError: errors.ErrNoActiveSession,
		},
		{
			name:   "lookup failure falls back to the picker under the picker policy",
			policy: config.RolePolicyPicker,
			setupMock: func(repo *MockProfileRepository) {
				repo.On("FindByID", mock.Anything, id).Return(nil, assert.AnError)
			},
			check: func(t *testing.T, res *RoleResolution) {
				assert.Len(t, res.Choices, 3)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newProfileServiceForTest(tt.policy)
			tt.setupMock(repo)

			res, err := svc.ResolveRole(context.Background(), id)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, res)
			} else {
				assert.NoError(t, err)
				tt.check(t, res)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestProfileService_SetRole(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name          string
		role          string
		setupMock     func(*MockProfileRepository)
		expectedError error
	}{
		{
			name: "first pick succeeds",
			role: model.RoleTeacher,
			setupMock: func(repo *MockProfileRepository) {
				repo.On("FindByID", mock.Anything, id).Return(&model.Profile{ID: id}, nil)
				repo.On("UpdateRole", mock.Anything, id, model.RoleTeacher).Return(nil)
			},
		},
		{
			name: "second pick is rejected",
			role: model.RoleStudent,
			setupMock: func(repo *MockProfileRepository) {
				repo.On("FindByID", mock.Anything, id).Return(&model.Profile{ID: id, Role: model.RoleTeacher}, nil)
			},
			expectedError: errors.ErrRoleAlreadySet,
		},
		{
			name:          "unknown role is rejected",
			role:          "superuser",
			setupMock:     func(repo *MockProfileRepository) {},
			expectedError: errors.ErrInvalidRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newProfileServiceForTest(config.RolePolicyDeny)
			tt.setupMock(repo)

			res, err := svc.SetRole(context.Background(), id, tt.role)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, res)
				repo.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.role, res.Role)
				assert.Equal(t, "/"+tt.role, res.Next)
				assert.Equal(t, rolePickMS, res.RedirectAfterMS)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestProfileService_RoleOf_ReadsRepositoryWithoutCache(t *testing.T) {
	svc, repo := newProfileServiceForTest(config.RolePolicyDeny)

	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(&model.Profile{ID: id, Role: model.RoleStudent}, nil)

	role, err := svc.RoleOf(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, model.RoleStudent, role)
}

func TestProfileService_DeleteUser_NotFound(t *testing.T) {
	svc, repo := newProfileServiceForTest(config.RolePolicyDeny)

	id := uuid.New()
	repo.On("Delete", mock.Anything, id).Return(gorm.ErrRecordNotFound)

	err := svc.DeleteUser(context.Background(), id)
	assert.Equal(t, errors.ErrProfileNotFound, err)
}

func TestProfileService_ListUsers_RejectsUnknownRoleFilter(t *testing.T) {
	svc, repo := newProfileServiceForTest(config.RolePolicyDeny)

	_, err := svc.ListUsers(context.Background(), "superuser")
	assert.Equal(t, errors.ErrInvalidRole, err)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}
