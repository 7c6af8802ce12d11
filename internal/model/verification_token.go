package model

import (
	"time"

	"github.com/google/uuid"
)

// Kinds of single-use verification tokens.
const (
	TokenKindEmailVerify   = "email_verify"
	TokenKindPasswordReset = "password_reset"
)

// VerificationToken is a single-use emailed token. Only the SHA-256 hash is
// stored; the raw token travels in the emailed link and nowhere else.
type VerificationToken struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	ProfileID  uuid.UUID  `json:"profile_id" gorm:"type:char(36);not null;index"`
	TokenHash  string     `json:"-" gorm:"size:64;uniqueIndex;not null"`
	Kind       string     `json:"kind" gorm:"size:32;not null;index"`
	ExpiresAt  time.Time  `json:"expires_at"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Usable reports whether the token can still be consumed at now.
func (t *VerificationToken) Usable(now time.Time) bool {
	return t.ConsumedAt == nil && now.Before(t.ExpiresAt)
}
