package model

import (
	"strings"
	"time"
)

// Course is the relational-store row for a course. A non-nil DeletedAt means
// the course sits in the Recycle Bin; the soft-delete transition is driven
// explicitly by the repository, never by query-scoped delete hooks.
type Course struct {
	ID        string     `gorm:"primaryKey;size:64" json:"id"`
	Name      string     `gorm:"size:80;not null" json:"name"`
	TimeZone  string     `gorm:"column:timezone;size:64;not null" json:"time_zone"`
	Institute string     `gorm:"size:128" json:"institute"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`

	FeedbackSessions []FeedbackSession `gorm:"foreignKey:CourseID" json:"feedback_sessions,omitempty"`
}

// NewCourse builds a course row with a trimmed id.
func NewCourse(id, name, timeZone, institute string, deletedAt *time.Time) *Course {
	return &Course{
		ID:        strings.TrimSpace(id),
		Name:      strings.TrimSpace(name),
		TimeZone:  timeZone,
		Institute: institute,
		DeletedAt: deletedAt,
	}
}
