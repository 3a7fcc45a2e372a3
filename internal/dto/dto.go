// Package dto holds the request shapes of the HTTP surface. Handlers bind
// these and hand validated attribute objects to the facade; nothing below
// the transport layer sees them.
package dto

import "time"

type CreateCourseRequest struct {
	CourseID  string `json:"course_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	TimeZone  string `json:"time_zone"`
	Institute string `json:"institute"`
}

type UpdateCourseRequest struct {
	Name      *string `json:"name"`
	TimeZone  *string `json:"time_zone"`
	Institute *string `json:"institute"`
}

type CreateInstructorRequest struct {
	Email                 string `json:"email" binding:"required,email"`
	Name                  string `json:"name" binding:"required"`
	Role                  string `json:"role"`
	DisplayedName         string `json:"displayed_name"`
	IsDisplayedToStudents *bool  `json:"is_displayed_to_students"`
}

type UpdateInstructorByEmailRequest struct {
	Name                  *string `json:"name"`
	IsArchived            *bool   `json:"is_archived"`
	Role                  *string `json:"role"`
	IsDisplayedToStudents *bool   `json:"is_displayed_to_students"`
	DisplayedName         *string `json:"displayed_name"`
}

type UpdateInstructorByAccountIDRequest struct {
	Name                  *string `json:"name"`
	Email                 *string `json:"email"`
	IsArchived            *bool   `json:"is_archived"`
	Role                  *string `json:"role"`
	IsDisplayedToStudents *bool   `json:"is_displayed_to_students"`
	DisplayedName         *string `json:"displayed_name"`
}

type CreateNotificationRequest struct {
	Title      string    `json:"title" binding:"required"`
	Message    string    `json:"message" binding:"required"`
	Style      string    `json:"style" binding:"required"`
	TargetUser string    `json:"target_user" binding:"required"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required"`
}
