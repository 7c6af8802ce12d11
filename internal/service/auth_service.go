package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pathguider/internal/auth"
	"pathguider/internal/errors"
	"pathguider/internal/mailer"
	"pathguider/internal/model"
	"pathguider/internal/repository"
)

const (
	bcryptCost    = 10
	linkTokenTTL  = 24 * time.Hour
	totpSuccessMS = 900 // client renders the success state before redirecting
)

// Routing hints returned to the client so it knows which screen comes next.
const (
	NextRoleSelection = "/roleSelection"
	NextTotpVerify    = "/totp-verify"
)

// LoginResult is the outcome of a credential or TOTP sign-in step.
type LoginResult struct {
	MFARequired  bool           `json:"mfa_required"`
	PendingToken string         `json:"pending_token,omitempty"`
	AccessToken  string         `json:"access_token,omitempty"`
	RefreshToken string         `json:"refresh_token,omitempty"`
	Profile      *model.Profile `json:"profile,omitempty"`
	Next         string         `json:"next"`
}

// TotpEnrollment is a pending factor the client renders as a QR code.
type TotpEnrollment struct {
	FactorID string `json:"factor_id"`
	URI      string `json:"uri"`
}

// TotpActivation reports a successful factor activation together with the
// UX pacing the enrollment wizard uses before redirecting.
type TotpActivation struct {
	Next            string `json:"next"`
	RedirectAfterMS int    `json:"redirect_after_ms"`
}

// AuthService handles the identity enrollment flow: registration, email
// verification, sign-in, token refresh and the TOTP second factor.
type AuthService interface {
	Register(ctx context.Context, firstName, lastName, email, password string) (*model.Profile, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken, accessToken string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error

	EnrollTotp(ctx context.Context, profileID uuid.UUID) (*TotpEnrollment, error)
	ActivateTotp(ctx context.Context, profileID, factorID uuid.UUID, code string) (*TotpActivation, error)
	VerifyTotp(ctx context.Context, pendingToken, code string) (*LoginResult, error)
}

type authService struct {
	profiles   repository.ProfileRepository
	tokens     repository.VerificationTokenRepository
	factors    repository.TotpFactorRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	totp       *auth.TOTPProvider
	mail       mailer.Mailer
	baseURL    string
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	profiles repository.ProfileRepository,
	tokens repository.VerificationTokenRepository,
	factors repository.TotpFactorRepository,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	totp *auth.TOTPProvider,
	mail mailer.Mailer,
	baseURL string,
) AuthService {
	return &authService{
		profiles:   profiles,
		tokens:     tokens,
		factors:    factors,
		jwtService: jwtService,
		tokenStore: tokenStore,
		totp:       totp,
		mail:       mail,
		baseURL:    baseURL,
	}
}

// Register creates an unverified profile and emails a verification link.
// No session is issued: the account stays signed out until the email is
// verified.
func (s *authService) Register(ctx context.Context, firstName, lastName, email, password string) (*model.Profile, error) {
	existing, err := s.profiles.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, errors.ErrEmailAlreadyInUse
	}
	if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check profile existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	profile := &model.Profile{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	if err := s.issueLinkToken(ctx, profile, model.TokenKindEmailVerify); err != nil {
		return nil, err
	}
	return profile, nil
}

// VerifyEmail consumes a verification link token and marks the account verified.
func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	record, err := s.usableToken(ctx, token, model.TokenKindEmailVerify)
	if err != nil {
		return err
	}
	if err := s.profiles.SetEmailVerified(ctx, record.ProfileID, true); err != nil {
		return fmt.Errorf("mark email verified: %w", err)
	}
	return s.tokens.Consume(ctx, record.ID, time.Now())
}

// ResendVerification re-mints the verification link for an unverified
// account. Unknown or already-verified emails succeed silently so the
// endpoint cannot be used to probe for accounts.
func (s *authService) ResendVerification(ctx context.Context, email string) error {
	profile, err := s.profiles.FindByEmail(ctx, email)
	if err != nil || profile.EmailVerified {
		return nil
	}
	return s.issueLinkToken(ctx, profile, model.TokenKindEmailVerify)
}

// Login authenticates credentials. Unverified accounts are rejected without
// a session. Accounts with a TOTP factor get a short-lived pending token
// instead of session tokens; everyone else gets the full pair plus a routing
// hint that skips the role picker whenever the role is already set.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	profile, err := s.profiles.FindByEmail(ctx, email)
	if err != nil {
		return nil, errors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, errors.ErrInvalidCredentials
	}
	if !profile.EmailVerified {
		return nil, errors.ErrEmailNotVerified
	}

	if profile.TotpEnabled {
		tokenID, pending, err := s.jwtService.GeneratePendingToken(profile.ID, profile.Email)
		if err != nil {
			return nil, fmt.Errorf("generate pending token: %w", err)
		}
		if err := s.tokenStore.StorePendingLogin(ctx, tokenID, profile.ID, auth.PendingTokenExpiry); err != nil {
			return nil, fmt.Errorf("store pending login: %w", err)
		}
		return &LoginResult{
			MFARequired:  true,
			PendingToken: pending,
			Next:         NextTotpVerify,
		}, nil
	}

	return s.issueSession(ctx, profile)
}

func (s *authService) issueSession(ctx context.Context, profile *model.Profile) (*LoginResult, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(profile.ID, profile.Email)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(profile.ID, profile.Email)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, profile.ID, profile.Email, auth.RefreshTokenExpiry); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	next := NextRoleSelection
	if profile.Role != model.RoleUnset {
		next = "/" + profile.Role
	}
	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Profile:      profile,
		Next:         next,
	}, nil
}

// RefreshToken validates a refresh token and returns a new access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateTokenForPurpose(refreshToken, auth.PurposeRefresh)
	if err != nil {
		return "", errors.ErrInvalidRefreshToken
	}
	storedUserID, storedEmail, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil {
		return "", errors.ErrInvalidRefreshToken
	}
	if storedUserID.String() != claims.UserID || storedEmail != claims.Email {
		return "", errors.ErrInvalidRefreshToken
	}

	accessToken, err := s.jwtService.GenerateAccessToken(storedUserID, storedEmail)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout invalidates a refresh token and blacklists the caller's access
// token for its remaining lifetime, so the pair is dead immediately rather
// than when the access token expires.
func (s *authService) Logout(ctx context.Context, refreshToken, accessToken string) error {
	claims, err := s.jwtService.ValidateTokenForPurpose(refreshToken, auth.PurposeRefresh)
	if err != nil {
		return errors.ErrInvalidRefreshToken
	}

	if accessToken != "" {
		if access, err := s.jwtService.ValidateTokenForPurpose(accessToken, auth.PurposeAccess); err == nil {
			if ttl := time.Until(access.ExpiresAt.Time); ttl > 0 {
				if err := s.tokenStore.BlacklistAccessToken(ctx, access.ID, ttl); err != nil {
					log.Printf("blacklist access token: %v", err)
				}
			}
		}
	}

	return s.tokenStore.DeleteRefreshToken(ctx, claims.ID)
}

// ForgotPassword emails a reset link. Always succeeds from the caller's
// perspective.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	profile, err := s.profiles.FindByEmail(ctx, email)
	if err != nil {
		return nil
	}
	return s.issueLinkToken(ctx, profile, model.TokenKindPasswordReset)
}

// ResetPassword consumes a reset token and stores the new password hash.
func (s *authService) ResetPassword(ctx context.Context, token, password string) error {
	record, err := s.usableToken(ctx, token, model.TokenKindPasswordReset)
	if err != nil {
		return err
	}
	profile, err := s.profiles.FindByID(ctx, record.ProfileID)
	if err != nil {
		return errors.ErrInvalidVerificationToken
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	profile.PasswordHash = string(hashedPassword)
	if err := s.profiles.Update(ctx, profile); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return s.tokens.Consume(ctx, record.ID, time.Now())
}

// EnrollTotp generates a new unverified factor and its otpauth URI. Any
// abandoned unverified factors are discarded first.
func (s *authService) EnrollTotp(ctx context.Context, profileID uuid.UUID) (*TotpEnrollment, error) {
	profile, err := s.profiles.FindByID(ctx, profileID)
	if err != nil {
		return nil, errors.ErrProfileNotFound
	}
	if err := s.factors.DeleteUnverifiedByProfile(ctx, profileID); err != nil {
		return nil, fmt.Errorf("discard stale factors: %w", err)
	}

	enrollment, err := s.totp.GenerateEnrollment(profile.Email)
	if err != nil {
		return nil, fmt.Errorf("generate totp secret: %w", err)
	}
	factor := &model.TotpFactor{
		ProfileID: profileID,
		Secret:    enrollment.Secret,
	}
	if err := s.factors.Create(ctx, factor); err != nil {
		return nil, fmt.Errorf("create factor: %w", err)
	}
	return &TotpEnrollment{FactorID: factor.ID.String(), URI: enrollment.URI}, nil
}

// ActivateTotp verifies the first code against a pending factor, marks the
// factor verified and flips totp_enabled on the profile.
func (s *authService) ActivateTotp(ctx context.Context, profileID, factorID uuid.UUID, code string) (*TotpActivation, error) {
	code = auth.NormalizeCode(code)
	if !auth.ValidCodeFormat(code) {
		return nil, errors.ErrInvalidCodeFormat
	}

	factor, err := s.factors.FindByID(ctx, factorID)
	if err != nil || factor.ProfileID != profileID {
		return nil, errors.ErrFactorNotFound
	}
	if !s.totp.ValidateCode(code, factor.Secret) {
		return nil, errors.ErrInvalidCode
	}

	if err := s.factors.MarkVerified(ctx, factor.ID); err != nil {
		return nil, fmt.Errorf("mark factor verified: %w", err)
	}
	if err := s.profiles.SetTotpEnabled(ctx, profileID, true); err != nil {
		return nil, fmt.Errorf("enable totp on profile: %w", err)
	}
	return &TotpActivation{Next: NextRoleSelection, RedirectAfterMS: totpSuccessMS}, nil
}

// VerifyTotp completes a pending sign-in: the pending token is consumed, the
// code is checked against the account's verified factor, and the full
// session pair is issued with a routing hint straight to the dashboard when
// the role is already set.
func (s *authService) VerifyTotp(ctx context.Context, pendingToken, code string) (*LoginResult, error) {
	code = auth.NormalizeCode(code)
	if !auth.ValidCodeFormat(code) {
		return nil, errors.ErrInvalidCodeFormat
	}

	claims, err := s.jwtService.ValidateTokenForPurpose(pendingToken, auth.PurposeMFAPending)
	if err != nil {
		return nil, errors.ErrInvalidPendingToken
	}
	userID, err := s.tokenStore.ConsumePendingLogin(ctx, claims.ID)
	if err != nil || userID.String() != claims.UserID {
		return nil, errors.ErrInvalidPendingToken
	}

	factor, err := s.factors.FindVerifiedByProfile(ctx, userID)
	if err != nil {
		return nil, errors.ErrNoVerifiedFactor
	}
	if !s.totp.ValidateCode(code, factor.Secret) {
		// the pending login was consumed above; reissue so the user may retry
		if storeErr := s.tokenStore.StorePendingLogin(ctx, claims.ID, userID, auth.PendingTokenExpiry); storeErr != nil {
			log.Printf("reissue pending login: %v", storeErr)
		}
		return nil, errors.ErrInvalidCode
	}

	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.ErrProfileNotFound
	}
	return s.issueSession(ctx, profile)
}

func (s *authService) issueLinkToken(ctx context.Context, profile *model.Profile, kind string) error {
	raw, err := auth.NewLinkToken()
	if err != nil {
		return fmt.Errorf("generate link token: %w", err)
	}
	if err := s.tokens.DeletePendingByProfile(ctx, profile.ID, kind); err != nil {
		return fmt.Errorf("invalidate earlier tokens: %w", err)
	}
	record := &model.VerificationToken{
		ProfileID: profile.ID,
		TokenHash: auth.HashLinkToken(raw),
		Kind:      kind,
		ExpiresAt: time.Now().Add(linkTokenTTL),
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		return fmt.Errorf("store link token: %w", err)
	}

	var mailErr error
	switch kind {
	case model.TokenKindEmailVerify:
		mailErr = s.mail.SendVerificationEmail(profile.Email, s.baseURL+"/auth/callback?token="+raw)
	case model.TokenKindPasswordReset:
		mailErr = s.mail.SendPasswordResetEmail(profile.Email, s.baseURL+"/reset-password?token="+raw)
	}
	if mailErr != nil {
		log.Printf("send %s mail to %s: %v", kind, profile.Email, mailErr)
	}
	return nil
}

func (s *authService) usableToken(ctx context.Context, raw, kind string) (*model.VerificationToken, error) {
	record, err := s.tokens.FindByHash(ctx, auth.HashLinkToken(raw), kind)
	if err != nil {
		return nil, errors.ErrInvalidVerificationToken
	}
	if !record.Usable(time.Now()) {
		return nil, errors.ErrInvalidVerificationToken
	}
	return record, nil
}
