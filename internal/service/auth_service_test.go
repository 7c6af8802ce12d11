package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pathguider/internal/auth"
	"pathguider/internal/errors"
	"pathguider/internal/model"
)

// MockProfileRepository is a mock implementation of ProfileRepository.
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Create(ctx context.Context, profile *model.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) Update(ctx context.Context, profile *model.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) List(ctx context.Context, role string) ([]model.Profile, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Profile), args.Error(1)
}

func (m *MockProfileRepository) UpdateRole(ctx context.Context, id uuid.UUID, role string) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockProfileRepository) SetTotpEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	args := m.Called(ctx, id, enabled)
	return args.Error(0)
}

func (m *MockProfileRepository) SetEmailVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	args := m.Called(ctx, id, verified)
	return args.Error(0)
}

func (m *MockProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockVerificationTokenRepository is a mock implementation of VerificationTokenRepository.
type MockVerificationTokenRepository struct {
	mock.Mock
}

func (m *MockVerificationTokenRepository) Create(ctx context.Context, token *model.VerificationToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockVerificationTokenRepository) FindByHash(ctx context.Context, hash, kind string) (*model.VerificationToken, error) {
	args := m.Called(ctx, hash, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VerificationToken), args.Error(1)
}

func (m *MockVerificationTokenRepository) Consume(ctx context.Context, id uint, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockVerificationTokenRepository) DeletePendingByProfile(ctx context.Context, profileID uuid.UUID, kind string) error {
	args := m.Called(ctx, profileID, kind)
	return args.Error(0)
}

// MockTotpFactorRepository is a mock implementation of TotpFactorRepository.
type MockTotpFactorRepository struct {
	mock.Mock
}

func (m *MockTotpFactorRepository) Create(ctx context.Context, factor *model.TotpFactor) error {
	args := m.Called(ctx, factor)
	return args.Error(0)
}

func (m *MockTotpFactorRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.TotpFactor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TotpFactor), args.Error(1)
}

func (m *MockTotpFactorRepository) FindVerifiedByProfile(ctx context.Context, profileID uuid.UUID) (*model.TotpFactor, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TotpFactor), args.Error(1)
}

func (m *MockTotpFactorRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTotpFactorRepository) DeleteUnverifiedByProfile(ctx context.Context, profileID uuid.UUID) error {
	args := m.Called(ctx, profileID)
	return args.Error(0)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uuid.UUID, email string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, email, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uuid.UUID, string, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uuid.UUID), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenStore) StorePendingLogin(ctx context.Context, tokenID string, userID uuid.UUID, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) ConsumePendingLogin(ctx context.Context, tokenID string) (uuid.UUID, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// MockMailer is a mock implementation of mailer.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendVerificationEmail(to, link string) error {
	args := m.Called(to, link)
	return args.Error(0)
}

func (m *MockMailer) SendPasswordResetEmail(to, link string) error {
	args := m.Called(to, link)
	return args.Error(0)
}

func (m *MockMailer) SendAppealDecisionEmail(to, status, reason string) error {
	args := m.Called(to, status, reason)
	return args.Error(0)
}

type authServiceMocks struct {
	profiles   *MockProfileRepository
	tokens     *MockVerificationTokenRepository
	factors    *MockTotpFactorRepository
	tokenStore *MockTokenStore
	mailer     *MockMailer
	jwtService *auth.JWTService
	totp       *auth.TOTPProvider
}

func newAuthServiceForTest() (AuthService, *authServiceMocks) {
	m := &authServiceMocks{
		profiles:   new(MockProfileRepository),
		tokens:     new(MockVerificationTokenRepository),
		factors:    new(MockTotpFactorRepository),
		tokenStore: new(MockTokenStore),
		mailer:     new(MockMailer),
		jwtService: auth.NewJWTService("test-secret"),
		totp:       auth.NewTOTPProvider("PathGuider Test"),
	}
	svc := NewAuthService(m.profiles, m.tokens, m.factors, m.jwtService, m.tokenStore, m.totp, m.mailer, "http://localhost:3000")
	return svc, m
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		setupMock     func(*authServiceMocks)
		expectedError error
	}{
		{
			name:  "successful registration sends verification mail",
			email: "new@example.com",
			setupMock: func(m *authServiceMocks) {
				m.profiles.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.profiles.On("Create", mock.Anything, mock.AnythingOfType("*model.Profile")).Return(nil)
				m.tokens.On("DeletePendingByProfile", mock.Anything, mock.Anything, model.TokenKindEmailVerify).Return(nil)
				m.tokens.On("Create", mock.Anything, mock.AnythingOfType("*model.VerificationToken")).Return(nil)
				m.mailer.On("SendVerificationEmail", "new@example.com", mock.Anything).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:  "email already in use",
			email: "taken@example.com",
			setupMock: func(m *authServiceMocks) {
				m.profiles.On("FindByEmail", mock.Anything, "taken@example.com").Return(&model.Profile{Email: "taken@example.com"}, nil)
			},
			expectedError: errors.ErrEmailAlreadyInUse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newAuthServiceForTest()
			tt.setupMock(m)

			profile, err := svc.Register(context.Background(), "Ada", "Lovelace", tt.email, "password123")

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, profile)
				m.mailer.AssertNotCalled(t, "SendVerificationEmail", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, profile)
				assert.Equal(t, tt.email, profile.Email)
				assert.NotEmpty(t, profile.PasswordHash)
				assert.False(t, profile.EmailVerified)
			}

			m.profiles.AssertExpectations(t)
			m.tokens.AssertExpectations(t)
			m.mailer.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)
	profileID := uuid.New()

	tests := []struct {
		name          string
		password      string
		setupMock     func(*authServiceMocks)
		expectedError error
		check         func(*testing.T, *LoginResult)
	}{
		{
			name:     "verified account with role goes straight to its dashboard",
			password: "password123",
			setupMock: func(m *authServiceMocks) {
				m.profiles.On("FindByEmail", mock.Anything, "s@example.com").Return(&model.Profile{
					ID:            profileID,
					Email:         "s@example.com",
					PasswordHash:  string(hashed),
					EmailVerified: true,
					Role:          model.RoleStudent,
				}, nil)
				m.tokenStore.On("StoreRefreshToken", mock.Anything, mock.Anything, profileID, "s@example.com", mock.Anything).Return(nil)
			},
			check: func(t *testing.T, result *LoginResult) {
				assert.False(t, result.MFARequired)
				assert.NotEmpty(t, result.AccessToken)
				assert.NotEmpty(t, result.RefreshToken)
				assert.Equal(t, "/student", result.Next)
			},
		},
		{
			name:     "verified account without role is routed to the picker",
			password: "password123",
			setupMock: func(m *authServiceMocks) {
				m.profiles.On("FindByEmail", mock.Anything, "s@example.com").Return(&model.Profile{
					ID:            profileID,
					Email:         "s@example.com",
					PasswordHash:  string(hashed),
					EmailVerified: true,
				}, nil)
				m.tokenStore.On("StoreRefreshToken", mock.Anything, mock.Anything, profileID, "s@example.com", mock.Anything).Return(nil)
			},
			check: func(t *testing.T, result *LoginResult) {
				assert.Equal(t, NextRoleSelection, result.Next)
			},
		},
		{
			name:     "totp-enabled account gets a pending token, not a session",
			password: "password123",
			setupMock: func(m *authServiceMocks) {
				m.profiles.On("FindByEmail", mock.Anything, "s@example.com").Return(&model.Profile{
					ID:            profileID,
					Email:         "s@example.com",
					PasswordHash:  string(hashed),
					EmailVerified: true,
					TotpEnabled:   true,
				}, nil)
				m.tokenStore.On("StorePendingLogin", mock.Anything, mock.Anything, profileID, auth.PendingTokenExpiry).Return(nil)
			},
			check: func(t *testing.T, result *LoginResult) {
				assert.True(t, result.MFARequired)
				assert.NotEmpty(t, result.PendingToken)
				assert.Empty(t, result.AccessToken)
				assert.Empty(t, result.RefreshToken)
				assert.Equal(t, NextTotpVerify, result.Next)
			},
		},
		{
			name:     "unverified account is rejected without a session",
			password: "password123",
			setupMock: func(m *authServiceMocks) {
				m.profiles.On("FindByEmail", mock.Anything, "s@example.com").Return(&model.Profile{
					ID:           profileID,
					Email:        "s@example.com",
					PasswordHash: string(hashed),
				}, nil)
			},
			expectedError: errors.ErrEmailNotVerified,
		},
		{
			name:     "wrong password",
			password: "wrong-password",
			setupMock: func(m *authServiceMocks) {
				m.profiles.On("FindByEmail", mock.Anything, "s@example.com").Return(&model.Profile{
					ID:            profileID,
					Email:         "s@example.com",
					PasswordHash:  string(hashed),
					EmailVerified: true,
				}, nil)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
		{
			name:     "unknown account",
			password: "password123",
			setupMock: func(m *authServiceMocks) {
				m.profiles.On("FindByEmail", mock.Anything, "s@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newAuthServiceForTest()
			tt.setupMock(m)

			result, err := svc.Login(context.Background(), "s@example.com", tt.password)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, result)
				m.tokenStore.AssertNotCalled(t, "StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, result)
				tt.check(t, result)
			}

			m.profiles.AssertExpectations(t)
			m.tokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_VerifyEmail(t *testing.T) {
	profileID := uuid.New()
	consumedAt := time.Now().Add(-time.Hour)

	tests := []struct {
		name          string
		record        *model.VerificationToken
		expectedError error
	}{
		{
			name: "valid token marks the account verified",
			record: &model.VerificationToken{
				ID:        1,
				ProfileID: profileID,
				Kind:      model.TokenKindEmailVerify,
				ExpiresAt: time.Now().Add(time.Hour),
			},
		},
		{
			name: "expired token is rejected",
			record: &model.VerificationToken{
				ID:        2,
				ProfileID: profileID,
				Kind:      model.TokenKindEmailVerify,
				ExpiresAt: time.Now().Add(-time.Minute),
			},
			expectedError: errors.ErrInvalidVerificationToken,
		},
		{
			name: "consumed token is rejected",
			record: &model.VerificationToken{
				ID:         3,
				ProfileID:  profileID,
				Kind:       model.TokenKindEmailVerify,
				ExpiresAt:  time.Now().Add(time.Hour),
				ConsumedAt: &consumedAt,
			},
			expectedError: errors.ErrInvalidVerificationToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newAuthServiceForTest()
			raw := "emailed-token"
			m.tokens.On("FindByHash", mock.Anything, auth.HashLinkToken(raw), model.TokenKindEmailVerify).Return(tt.record, nil)
			if tt.expectedError == nil {
				m.profiles.On("SetEmailVerified", mock.Anything, profileID, true).Return(nil)
				m.tokens.On("Consume", mock.Anything, tt.record.ID, mock.Anything).Return(nil)
			}

			err := svc.VerifyEmail(context.Background(), raw)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				m.profiles.AssertNotCalled(t, "SetEmailVerified", mock.Anything, mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
			}
			m.tokens.AssertExpectations(t)
			m.profiles.AssertExpectations(t)
		})
	}
}

func TestAuthService_ActivateTotp(t *testing.T) {
	svc, m := newAuthServiceForTest()

	profileID := uuid.New()
	factorID := uuid.New()
	enrollment, err := m.totp.GenerateEnrollment("s@example.com")
	assert.NoError(t, err)
	code, err := totp.GenerateCode(enrollment.Secret, time.Now())
	assert.NoError(t, err)

	m.factors.On("FindByID", mock.Anything, factorID).Return(&model.TotpFactor{
		ID:        factorID,
		ProfileID: profileID,
		Secret:    enrollment.Secret,
	}, nil)
	m.factors.On("MarkVerified", mock.Anything, factorID).Return(nil)
	m.profiles.On("SetTotpEnabled", mock.Anything, profileID, true).Return(nil)

	activation, err := svc.ActivateTotp(context.Background(), profileID, factorID, code)
	assert.NoError(t, err)
	assert.Equal(t, NextRoleSelection, activation.Next)
	assert.Equal(t, totpSuccessMS, activation.RedirectAfterMS)
	m.factors.AssertExpectations(t)
	m.profiles.AssertExpectations(t)
}

func TestAuthService_ActivateTotp_BadCodeFormat(t *testing.T) {
	svc, m := newAuthServiceForTest()

	_, err := svc.ActivateTotp(context.Background(), uuid.New(), uuid.New(), "12 34")
	assert.Equal(t, errors.ErrInvalidCodeFormat, err)
	// format is rejected before any lookup happens
	m.factors.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestAuthService_ActivateTotp_ForeignFactor(t *testing.T) {
	svc, m := newAuthServiceForTest()

	factorID := uuid.New()
	m.factors.On("FindByID", mock.Anything, factorID).Return(&model.TotpFactor{
		ID:        factorID,
		ProfileID: uuid.New(), // someone else's factor
	}, nil)

	_, err := svc.ActivateTotp(context.Background(), uuid.New(), factorID, "123456")
	assert.Equal(t, errors.ErrFactorNotFound, err)
	m.factors.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything)
}

func TestAuthService_VerifyTotp(t *testing.T) {
	svc, m := newAuthServiceForTest()

	profileID := uuid.New()
	tokenID, pending, err := m.jwtService.GeneratePendingToken(profileID, "s@example.com")
	assert.NoError(t, err)

	enrollment, err := m.totp.GenerateEnrollment("s@example.com")
	assert.NoError(t, err)
	code, err := totp.GenerateCode(enrollment.Secret, time.Now())
	assert.NoError(t, err)

	m.tokenStore.On("ConsumePendingLogin", mock.Anything, tokenID).Return(profileID, nil)
	m.factors.On("FindVerifiedByProfile", mock.Anything, profileID).Return(&model.TotpFactor{
		ProfileID: profileID,
		Secret:    enrollment.Secret,
		Verified:  true,
	}, nil)
	m.profiles.On("FindByID", mock.Anything, profileID).Return(&model.Profile{
		ID:            profileID,
		Email:         "s@example.com",
		EmailVerified: true,
		TotpEnabled:   true,
		Role:          model.RoleStudent,
	}, nil)
	m.tokenStore.On("StoreRefreshToken", mock.Anything, mock.Anything, profileID, "s@example.com", mock.Anything).Return(nil)

	result, err := svc.VerifyTotp(context.Background(), pending, code)
	assert.NoError(t, err)
	assert.False(t, result.MFARequired)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "/student", result.Next)
	m.tokenStore.AssertExpectations(t)
}

func TestAuthService_VerifyTotp_WrongCodeReissuesPendingLogin(t *testing.T) {
	svc, m := newAuthServiceForTest()

	profileID := uuid.New()
	tokenID, pending, err := m.jwtService.GeneratePendingToken(profileID, "s@example.com")
	assert.NoError(t, err)

	enrollment, err := m.totp.GenerateEnrollment("s@example.com")
	assert.NoError(t, err)

	m.tokenStore.On("ConsumePendingLogin", mock.Anything, tokenID).Return(profileID, nil)
	m.factors.On("FindVerifiedByProfile", mock.Anything, profileID).Return(&model.TotpFactor{
		ProfileID: profileID,
		Secret:    enrollment.Secret,
		Verified:  true,
	}, nil)
	// the consumed pending login must come back so the user can retry
	m.tokenStore.On("StorePendingLogin", mock.Anything, tokenID, profileID, auth.PendingTokenExpiry).Return(nil)

	_, err = svc.VerifyTotp(context.Background(), pending, "000000")
	assert.Equal(t, errors.ErrInvalidCode, err)
	m.tokenStore.AssertExpectations(t)
}

func TestAuthService_VerifyTotp_RejectsNonPendingToken(t *testing.T) {
	svc, m := newAuthServiceForTest()

	// an access token must not stand in for a pending login token
	accessToken, err := m.jwtService.GenerateAccessToken(uuid.New(), "s@example.com")
	assert.NoError(t, err)

	_, err = svc.VerifyTotp(context.Background(), accessToken, "123456")
	assert.Equal(t, errors.ErrInvalidPendingToken, err)

	_, err = svc.VerifyTotp(context.Background(), "not-a-jwt", "123456")
	assert.Equal(t, errors.ErrInvalidPendingToken, err)
}

func TestAuthService_RefreshToken(t *testing.T) {
	svc, m := newAuthServiceForTest()

	profileID := uuid.New()
	tokenID, refresh, err := m.jwtService.GenerateRefreshToken(profileID, "s@example.com")
	assert.NoError(t, err)
	m.tokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(profileID, "s@example.com", nil)

	accessToken, err := svc.RefreshToken(context.Background(), refresh)
	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)

	claims, err := m.jwtService.ValidateTokenForPurpose(accessToken, auth.PurposeAccess)
	assert.NoError(t, err)
	assert.Equal(t, profileID.String(), claims.UserID)
}

func TestAuthService_RefreshToken_RevokedOrGarbage(t *testing.T) {
	svc, m := newAuthServiceForTest()

	profileID := uuid.New()
	tokenID, refresh, err := m.jwtService.GenerateRefreshToken(profileID, "s@example.com")
	assert.NoError(t, err)
	// store no longer has the token, e.g. after logout
	m.tokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uuid.Nil, "", assert.AnError)

	_, err = svc.RefreshToken(context.Background(), refresh)
	assert.Equal(t, errors.ErrInvalidRefreshToken, err)

	_, err = svc.RefreshToken(context.Background(), "not-a-jwt")
	assert.Equal(t, errors.ErrInvalidRefreshToken, err)
}

func TestAuthService_Logout_BlacklistsAccessAndDeletesRefresh(t *testing.T) {
	svc, m := newAuthServiceForTest()

	profileID := uuid.New()
	tokenID, refresh, err := m.jwtService.GenerateRefreshToken(profileID, "s@example.com")
	assert.NoError(t, err)
	access, err := m.jwtService.GenerateAccessToken(profileID, "s@example.com")
	assert.NoError(t, err)
	accessClaims, err := m.jwtService.ValidateTokenForPurpose(access, auth.PurposeAccess)
	assert.NoError(t, err)

	m.tokenStore.On("BlacklistAccessToken", mock.Anything, accessClaims.ID, mock.MatchedBy(func(ttl time.Duration) bool {
		return ttl > 0 && ttl <= auth.AccessTokenExpiry
	})).Return(nil)
	m.tokenStore.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)

	err = svc.Logout(context.Background(), refresh, access)
	assert.NoError(t, err)
	m.tokenStore.AssertExpectations(t)
}

func TestAuthService_Logout_WithoutAccessToken(t *testing.T) {
	svc, m := newAuthServiceForTest()

	profileID := uuid.New()
	tokenID, refresh, err := m.jwtService.GenerateRefreshToken(profileID, "s@example.com")
	assert.NoError(t, err)
	m.tokenStore.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)

	err = svc.Logout(context.Background(), refresh, "")
	assert.NoError(t, err)
	m.tokenStore.AssertNotCalled(t, "BlacklistAccessToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_Logout_RejectsNonRefreshToken(t *testing.T) {
	svc, m := newAuthServiceForTest()

	access, err := m.jwtService.GenerateAccessToken(uuid.New(), "s@example.com")
	assert.NoError(t, err)

	err = svc.Logout(context.Background(), access, "")
	assert.Equal(t, errors.ErrInvalidRefreshToken, err)
	m.tokenStore.AssertNotCalled(t, "DeleteRefreshToken", mock.Anything, mock.Anything)
}

func TestAuthService_ResendVerification_SilentForVerifiedAccounts(t *testing.T) {
	svc, m := newAuthServiceForTest()

	m.profiles.On("FindByEmail", mock.Anything, "done@example.com").Return(&model.Profile{
		Email:         "done@example.com",
		EmailVerified: true,
	}, nil)

	err := svc.ResendVerification(context.Background(), "done@example.com")
	assert.NoError(t, err)
	m.mailer.AssertNotCalled(t, "SendVerificationEmail", mock.Anything, mock.Anything)
}
