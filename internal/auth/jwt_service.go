package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	// AccessTokenExpiry is the duration for which access tokens are valid.
	AccessTokenExpiry = 15 * time.Minute
	// RefreshTokenExpiry is the duration for which refresh tokens are valid.
	RefreshTokenExpiry = 7 * 24 * time.Hour
	// PendingTokenExpiry bounds how long a password-verified sign-in may wait
	// for its second factor.
	PendingTokenExpiry = 5 * time.Minute
)

// Token purposes carried in claims so one token kind cannot stand in for
// another.
const (
	PurposeAccess     = "access"
	PurposeRefresh    = "refresh"
	PurposeMFAPending = "mfa_pending"
)

// Claims represents JWT claims.
type Claims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret []byte
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
	}
}

// GenerateAccessToken generates a new access token for the user. The token
// carries a JTI so logout can blacklist it for its remaining lifetime.
func (s *JWTService) GenerateAccessToken(userID uuid.UUID, email string) (string, error) {
	_, token, err := s.generateIdentified(userID, email, PurposeAccess, AccessTokenExpiry)
	return token, err
}

// GenerateRefreshToken generates a new refresh token for the user.
// The token ID is returned separately for storage in Redis.
func (s *JWTService) GenerateRefreshToken(userID uuid.UUID, email string) (tokenID string, token string, err error) {
	return s.generateIdentified(userID, email, PurposeRefresh, RefreshTokenExpiry)
}

// GeneratePendingToken generates a short-lived token representing a sign-in
// that still owes a TOTP code. Its ID is stored in Redis so the token can be
// consumed exactly once.
func (s *JWTService) GeneratePendingToken(userID uuid.UUID, email string) (tokenID string, token string, err error) {
	return s.generateIdentified(userID, email, PurposeMFAPending, PendingTokenExpiry)
}

func (s *JWTService) generateIdentified(userID uuid.UUID, email, purpose string, expiry time.Duration) (string, string, error) {
	tokenID := uuid.New().String()
	claims := &Claims{
		UserID:  userID.String(),
		Email:   email,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err := tokenObj.SignedString(s.secret)
	return tokenID, token, err
}

// ValidateToken validates a JWT token and returns the claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// ValidateTokenForPurpose validates a token and additionally checks its purpose.
func (s *JWTService) ValidateTokenForPurpose(tokenString, purpose string) (*Claims, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != purpose {
		return nil, errors.New("token purpose mismatch")
	}
	return claims, nil
}

// UserUUID parses the claims' user id.
func (c *Claims) UserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}
