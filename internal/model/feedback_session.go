package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeedbackSession is a placeholder row for the migrated feedback-session
// entity. The core only depends on its existence, its course ownership and
// its time zone; the session workflow itself still lives in the legacy store.
type FeedbackSession struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID  string     `gorm:"column:course_id;size:64;not null;index;uniqueIndex:idx_sessions_course_name" json:"course_id"`
	Name      string     `gorm:"size:64;not null;uniqueIndex:idx_sessions_course_name" json:"name"`
	TimeZone  string     `gorm:"column:timezone;size:64;not null" json:"time_zone"`
	StartTime time.Time  `json:"start_time"`
	EndTime   time.Time  `json:"end_time"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`
}

func (s *FeedbackSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
