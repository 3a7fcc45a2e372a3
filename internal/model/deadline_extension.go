package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeadlineExtension grants one user of a course a later end time for a
// feedback session. Keyed by the user's email, so an instructor email change
// must cascade here.
type DeadlineExtension struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID     string    `gorm:"column:course_id;size:64;not null;index" json:"course_id"`
	SessionName  string    `gorm:"column:session_name;size:64;not null" json:"session_name"`
	UserEmail    string    `gorm:"column:user_email;size:254;not null;index" json:"user_email"`
	IsInstructor bool      `gorm:"not null;default:false" json:"is_instructor"`
	EndTime      time.Time `json:"end_time"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (d *DeadlineExtension) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
