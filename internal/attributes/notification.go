package attributes

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"anoa.com/peerreview/internal/model"
	"anoa.com/peerreview/pkg/validator"
)

// NotificationAttributes is the value object for platform announcements.
type NotificationAttributes struct {
	ID         uuid.UUID
	Title      string `validate:"required,max=120"`
	Message    string `validate:"required"`
	Style      string `validate:"required,oneof=INFO WARNING DANGER"`
	TargetUser string `validate:"required,oneof=GENERAL INSTRUCTOR STUDENT"`
	StartTime  time.Time
	EndTime    time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NotificationAttributesOf(e *model.Notification) *NotificationAttributes {
	return &NotificationAttributes{
		ID:         e.ID,
		Title:      e.Title,
		Message:    e.Message,
		Style:      e.Style,
		TargetUser: e.TargetUser,
		StartTime:  e.StartTime,
		EndTime:    e.EndTime,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func (a *NotificationAttributes) SanitizeForSaving() {
	a.Title = strings.TrimSpace(a.Title)
	a.Message = strings.TrimSpace(a.Message)
	if a.Style == "" {
		a.Style = model.NotificationStyleInfo
	}
	if a.TargetUser == "" {
		a.TargetUser = model.NotificationTargetGeneral
	}
}

func (a *NotificationAttributes) InvalidityInfo() []string {
	reasons := validator.Struct(a)
	if !a.EndTime.After(a.StartTime) {
		reasons = append(reasons, "The notification end time must be after its start time")
	}
	return reasons
}

func (a *NotificationAttributes) IsValid() bool {
	return len(a.InvalidityInfo()) == 0
}

func (a *NotificationAttributes) ToEntity() *model.Notification {
	return &model.Notification{
		ID:         a.ID,
		Title:      a.Title,
		Message:    a.Message,
		Style:      a.Style,
		TargetUser: a.TargetUser,
		StartTime:  a.StartTime,
		EndTime:    a.EndTime,
	}
}
