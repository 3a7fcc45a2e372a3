package model

import "time"

// Student enrolls an Account in a Course. Shares the composite id format
// with Instructor: email%courseId.
type Student struct {
	ID              string    `gorm:"primaryKey;size:320" json:"id"`
	AccountID       *string   `gorm:"column:account_id;size:64;uniqueIndex:idx_students_account_course" json:"account_id,omitempty"`
	CourseID        string    `gorm:"column:course_id;size:64;not null;index;uniqueIndex:idx_students_account_course" json:"course_id"`
	Name            string    `gorm:"size:100;not null" json:"name"`
	Email           string    `gorm:"size:254;not null" json:"email"`
	Team            string    `gorm:"size:60" json:"team"`
	Section         string    `gorm:"size:60" json:"section"`
	Comments        string    `gorm:"type:text" json:"comments"`
	RegistrationKey string    `gorm:"size:255;not null;uniqueIndex" json:"-"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// GenerateStudentID builds the composite unique id for a student.
func GenerateStudentID(email, courseID string) string {
	return email + "%" + courseID
}
