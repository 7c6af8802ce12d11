package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles a profile can hold. RoleUnset means the account has signed in but
// never been through the role picker.
const (
	RoleUnset         = ""
	RoleStudent       = "student"
	RoleTeacher       = "teacher"
	RoleAdministrator = "administrator"
)

// ValidRole reports whether role is one of the three assignable roles.
func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleTeacher, RoleAdministrator:
		return true
	}
	return false
}

// Profile is the application-level user record, distinct from any session
// token. Role is written exactly once by the role resolver.
type Profile struct {
	ID            uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	FirstName     string         `json:"first_name" gorm:"size:255"`
	LastName      string         `json:"last_name" gorm:"size:255"`
	Email         string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash  string         `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	EmailVerified bool           `json:"email_verified" gorm:"default:false"`
	Role          string         `json:"role" gorm:"size:50;default:'';index"`
	TotpEnabled   bool           `json:"totp_enabled" gorm:"default:false"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
