package model

import "time"

// UploadedFile records metadata about a grade submission, mirroring the
// uploaded_files table the admin dashboard lists.
type UploadedFile struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"size:255;not null"`
	Size       int64     `json:"size"`
	Type       string    `json:"type" gorm:"size:255"`
	UploadedAt time.Time `json:"uploaded_at"`
}
