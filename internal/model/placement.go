package model

import "time"

// Academic pathways a student can be placed into. PathwayUnknown marks rows
// whose scores were never good enough to pick a track from.
const (
	PathwayStem           = "stem"
	PathwaySocialSciences = "social_sciences"
	PathwayArts           = "arts"
	PathwayUnknown        = "unknown"
)

// Placement is a student's pathway assignment with the per-subject scores
// that produced it. Rows are keyed by student email; re-entering grades for
// the same student replaces the earlier row.
type Placement struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	FirstName      string    `json:"first_name" gorm:"size:255"`
	LastName       string    `json:"last_name" gorm:"size:255"`
	Email          string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Stem           float64   `json:"stem"`
	SocialSciences float64   `json:"social_sciences"`
	Arts           float64   `json:"arts"`
	Pathway        string    `json:"pathway" gorm:"size:50;index"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
