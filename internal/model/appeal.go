package model

import "time"

// Appeal statuses. Approved and rejected are terminal.
const (
	AppealPending  = "pending"
	AppealApproved = "approved"
	AppealRejected = "rejected"
)

// ValidAppealStatus reports whether status is a known appeal status.
func ValidAppealStatus(status string) bool {
	switch status {
	case AppealPending, AppealApproved, AppealRejected:
		return true
	}
	return false
}

// Appeal is a student-initiated request to reconsider a placement. Created
// by a student action, mutated only by an administrator's status change.
type Appeal struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	StudentEmail string    `json:"student_email" gorm:"size:255;not null;index"`
	AppealText   string    `json:"appeal_text" gorm:"type:text;not null"`
	PlacementID  uint      `json:"placement_id" gorm:"not null;index"`
	Status       string    `json:"status" gorm:"size:32;default:'pending';index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Decided reports whether the appeal has reached a terminal status.
func (a *Appeal) Decided() bool {
	return a.Status == AppealApproved || a.Status == AppealRejected
}

// AppealDecision is the audit record written when an administrator decides
// an appeal. RejectionReason is set only for rejected decisions.
type AppealDecision struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	AppealID        uint      `json:"appeal_id" gorm:"not null;index"`
	PlacementID     uint      `json:"placement_id" gorm:"not null"`
	Kind            string    `json:"kind" gorm:"size:32;not null"`
	RejectionReason string    `json:"rejection_reason,omitempty" gorm:"type:text"`
	DecidedAt       time.Time `json:"decided_at"`
}
