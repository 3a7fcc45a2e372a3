package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification target audiences and styles.
const (
	NotificationTargetGeneral    = "GENERAL"
	NotificationTargetInstructor = "INSTRUCTOR"
	NotificationTargetStudent    = "STUDENT"

	NotificationStyleInfo    = "INFO"
	NotificationStyleWarning = "WARNING"
	NotificationStyleDanger  = "DANGER"
)

// Notification is a platform-wide announcement shown to a target audience
// between StartTime and EndTime.
type Notification struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title      string    `gorm:"size:120;not null" json:"title"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	Style      string    `gorm:"size:20;not null" json:"style"`
	TargetUser string    `gorm:"size:20;not null" json:"target_user"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
