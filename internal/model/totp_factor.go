package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TotpFactor is an enrolled authenticator-app factor. A factor stays
// unverified until the owner confirms a code against it; only verified
// factors are eligible for sign-in challenges.
type TotpFactor struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	ProfileID uuid.UUID `json:"profile_id" gorm:"type:char(36);not null;index"`
	Secret    string    `json:"-" gorm:"size:255;not null"` // base32, never exposed
	Verified  bool      `json:"verified" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (f *TotpFactor) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
