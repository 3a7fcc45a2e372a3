package model

import (
	"time"
)

// Instructor associates an Account with a Course. The primary key is the
// composite string email + "%" + courseId; changing an instructor's email
// therefore means a new row, never an in-place rename.
type Instructor struct {
	ID                    string    `gorm:"primaryKey;size:320" json:"id"`
	AccountID             *string   `gorm:"column:account_id;size:64;uniqueIndex:idx_instructors_account_course" json:"account_id,omitempty"`
	CourseID              string    `gorm:"column:course_id;size:64;not null;index;uniqueIndex:idx_instructors_account_course" json:"course_id"`
	IsArchived            bool      `gorm:"not null;default:false" json:"is_archived"`
	Name                  string    `gorm:"size:100;not null" json:"name"`
	Email                 string    `gorm:"size:254;not null" json:"email"`
	RegistrationKey       string    `gorm:"size:255;not null;uniqueIndex" json:"-"`
	Role                  string    `gorm:"size:40;not null" json:"role"`
	IsDisplayedToStudents bool      `gorm:"not null;default:true" json:"is_displayed_to_students"`
	DisplayedName         string    `gorm:"size:100;not null" json:"displayed_name"`
	PrivilegesText        string    `gorm:"column:instructor_privileges;type:text;not null" json:"-"`
	CreatedAt             time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// GenerateInstructorID builds the composite unique id for an instructor.
// Format: email%courseId, e.g. "adam@gmail.com%cs1101".
func GenerateInstructorID(email, courseID string) string {
	return email + "%" + courseID
}
