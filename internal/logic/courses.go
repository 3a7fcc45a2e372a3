// Package logic enforces the cross-entity invariants and cascades of the
// relational store. Every operation runs inside the caller's unit of work, so
// a failed inner step rolls back the whole request.
package logic

import (
	"context"
	"fmt"
	"time"

	"anoa.com/peerreview/internal/attributes"
	"anoa.com/peerreview/internal/repository"
	"anoa.com/peerreview/pkg/apperror"
)

// CoursesLogic handles operations related to courses.
type CoursesLogic struct {
	coursesRepo      *repository.CoursesRepository
	usersRepo        *repository.UsersRepository
	sessionsRepo     *repository.FeedbackSessionsRepository
	extensionsRepo   *repository.DeadlineExtensionsRepository
	instructorsLogic *InstructorsLogic
}

func NewCoursesLogic(
	coursesRepo *repository.CoursesRepository,
	usersRepo *repository.UsersRepository,
	sessionsRepo *repository.FeedbackSessionsRepository,
	extensionsRepo *repository.DeadlineExtensionsRepository,
	instructorsLogic *InstructorsLogic,
) *CoursesLogic {
	return &CoursesLogic{
		coursesRepo:      coursesRepo,
		usersRepo:        usersRepo,
		sessionsRepo:     sessionsRepo,
		extensionsRepo:   extensionsRepo,
		instructorsLogic: instructorsLogic,
	}
}

// GetCourse gets a course by id, nil if not found.
func (l *CoursesLogic) GetCourse(ctx context.Context, courseID string) (*attributes.CourseAttributes, error) {
	return l.coursesRepo.GetCourse(ctx, courseID)
}

// GetCourseInstitute gets the institute of a course, "" if the course is not
// in this store.
func (l *CoursesLogic) GetCourseInstitute(ctx context.Context, courseID string) (string, error) {
	course, err := l.coursesRepo.GetCourse(ctx, courseID)
	if err != nil || course == nil {
		return "", err
	}
	return course.Institute, nil
}

// CreateCourse creates a course.
func (l *CoursesLogic) CreateCourse(ctx context.Context, course *attributes.CourseAttributes) (*attributes.CourseAttributes, error) {
	return l.coursesRepo.CreateCourse(ctx, course)
}

// CreateCourseAndInstructor creates a course and its first co-owner
// instructor in one unit of work. Any failure in the instructor step
// surfaces to the caller, whose rollback removes the course row as well.
func (l *CoursesLogic) CreateCourseAndInstructor(ctx context.Context, accountID string, course *attributes.CourseAttributes) error {
	creator, err := l.usersRepo.GetAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if creator == nil {
		return fmt.Errorf("%w: trying to create a course for non-existent account %s",
			apperror.ErrEntityDoesNotExist, accountID)
	}

	created, err := l.coursesRepo.CreateCourse(ctx, course)
	if err != nil {
		return err
	}

	instructor := attributes.NewInstructorAttributes(created.ID, creator.Email, creator.Name)
	instructor.AccountID = &creator.ID

	if _, err := l.instructorsLogic.CreateInstructor(ctx, instructor); err != nil {
		return fmt.Errorf("creating initial instructor for course %s: %w", created.ID, err)
	}
	return nil
}

// UpdateCourseCascade updates a course. A timezone change cascades to the
// course's migrated feedback sessions.
func (l *CoursesLogic) UpdateCourseCascade(ctx context.Context, opts attributes.CourseUpdateOptions) (*attributes.CourseAttributes, error) {
	oldCourse, err := l.coursesRepo.GetCourse(ctx, opts.CourseID)
	if err != nil {
		return nil, err
	}
	if oldCourse == nil {
		return nil, fmt.Errorf("%w: trying to update non-existent course %s",
			apperror.ErrEntityDoesNotExist, opts.CourseID)
	}

	updatedCourse, err := l.coursesRepo.UpdateCourse(ctx, opts)
	if err != nil {
		return nil, err
	}

	if updatedCourse.TimeZone != oldCourse.TimeZone {
		if err := l.sessionsRepo.UpdateTimeZoneForCourse(ctx, updatedCourse.ID, updatedCourse.TimeZone); err != nil {
			return nil, err
		}
	}
	return updatedCourse, nil
}

// DeleteCourseCascade hard-deletes a course with its instructors, students,
// feedback sessions and deadline extensions, leaves first. Fails silently if
// no such course.
func (l *CoursesLogic) DeleteCourseCascade(ctx context.Context, courseID string) error {
	course, err := l.coursesRepo.GetCourse(ctx, courseID)
	if err != nil {
		return err
	}
	if course == nil {
		return nil
	}

	if err := l.extensionsRepo.DeleteExtensionsForCourse(ctx, courseID); err != nil {
		return err
	}
	if err := l.sessionsRepo.DeleteSessionsForCourse(ctx, courseID); err != nil {
		return err
	}
	if err := l.usersRepo.DeleteStudentsForCourse(ctx, courseID); err != nil {
		return err
	}
	if err := l.instructorsLogic.DeleteInstructorsForCourse(ctx, courseID); err != nil {
		return err
	}
	return l.coursesRepo.DeleteCourse(ctx, courseID)
}

// MoveCourseToRecycleBin soft-deletes a course and returns the deletion time.
// A course already in the Recycle Bin can only be restored or hard-deleted.
func (l *CoursesLogic) MoveCourseToRecycleBin(ctx context.Context, courseID string) (time.Time, error) {
	course, err := l.coursesRepo.GetCourse(ctx, courseID)
	if err != nil {
		return time.Time{}, err
	}
	if course != nil && course.IsInRecycleBin() {
		return time.Time{}, fmt.Errorf("%w: course %s is already in the recycle bin",
			apperror.ErrBadRequest, courseID)
	}
	return l.coursesRepo.SoftDeleteCourse(ctx, courseID)
}

// RestoreCourseFromRecycleBin clears a course's soft-deletion.
func (l *CoursesLogic) RestoreCourseFromRecycleBin(ctx context.Context, courseID string) error {
	return l.coursesRepo.RestoreDeletedCourse(ctx, courseID)
}

// GetCoursesForInstructorAccount gets the courses an account teaches.
func (l *CoursesLogic) GetCoursesForInstructorAccount(ctx context.Context, accountID string) ([]*attributes.CourseAttributes, error) {
	instructors, err := l.instructorsLogic.GetInstructorsForAccountID(ctx, accountID, true)
	if err != nil {
		return nil, err
	}

	courseIDs := make([]string, 0, len(instructors))
	for _, instructor := range instructors {
		courseIDs = append(courseIDs, instructor.CourseID)
	}
	return l.coursesRepo.GetCourses(ctx, courseIDs)
}
