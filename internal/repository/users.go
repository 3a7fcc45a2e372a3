package repository

import (
	"context"
	"time"

	"anoa.com/peerreview/internal/model"
)

// UsersRepository is the companion repository over instructors, students and
// accounts: googleId-joined lookups, team- and section-scoped queries, and
// the count aggregates used for usage statistics.
type UsersRepository struct{}

func NewUsersRepository() *UsersRepository {
	return &UsersRepository{}
}

// GetAccount gets an account by id, nil if not found.
func (r *UsersRepository) GetAccount(ctx context.Context, accountID string) (*model.Account, error) {
	tx, err := ambient(ctx)
	if err != nil {
		return nil, err
	}
	return first[model.Account](tx, "id = ?", accountID)
}

// GetAccountForGoogleID gets an account by its google id, nil if not found.
func (r *UsersRepository) GetAccountForGoogleID(ctx context.Context, googleID string) (*model.Account, error) {
	tx, err := ambient(ctx)
	if err != nil {
		return nil, err
	}
	return first[model.Account](tx, "google_id = ?", googleID)
}

// CreateAccount stores a new account row.
func (r *UsersRepository) CreateAccount(ctx context.Context, account *model.Account) error {
	tx, err := ambient(ctx)
	if err != nil {
		return err
	}
	return tx.Create(account).Error
}

// GetInstructorsForGoogleID gets the instructors whose linked account has
// the given google id, joined through the accounts table.
func (r *UsersRepository) GetInstructorsForGoogleID(ctx context.Context, googleID string) ([]model.Instructor, error) {
	tx, err := ambient(ctx)
	if err != nil {
		return nil, err
	}

	var instructors []model.Instructor
	err = tx.Model(&model.Instructor{}).
		Joins("JOIN accounts ON accounts.id = instructors.account_id").
		Where("accounts.google_id = ?", googleID).
		Find(&instructors).Error
	return instructors, err
}

// GetStudentsForGoogleID gets the students whose linked account has the
// given google id.
func (r *UsersRepository) GetStudentsForGoogleID(ctx context.Context, googleID string) ([]model.Student, error) {
	tx, err := ambient(ctx)
	if err != nil {
		return nil, err
	}

	var students []model.Student
	err = tx.Model(&model.Student{}).
		Joins("JOIN accounts ON accounts.id = students.account_id").
		Where("accounts.google_id = ?", googleID).
		Find(&students).Error
	return students, err
}

// GetStudentsForCourse gets all students of a course.
func (r *UsersRepository) GetStudentsForCourse(ctx context.Context, courseID string) ([]model.Student, error) {
	tx, err := ambient(ctx)
	if err != nil {
		return nil, err
	}
	var students []model.Student
	err = tx.Where("course_id = ?", courseID).Find(&students).Error
	return students, err
}

// GetStudentsForTeam gets the students of one team inside a course.
func (r *UsersRepository) GetStudentsForTeam(ctx context.Context, teamName, courseID string) ([]model.Student, error) {
	tx, err := ambient(ctx)
	if err != nil {
		return nil, err
	}
	var students []model.Student
	err = tx.Where("course_id = ? AND team = ?", courseID, teamName).Find(&students).Error
	return students, err
}

// GetStudentsForSection gets the students of one section inside a course.
func (r *UsersRepository) GetStudentsForSection(ctx context.Context, sectionName, courseID string) ([]model.Student, error) {
	tx, err := ambient(ctx)
	if err != nil {
		return nil, err
	}
	var students []model.Student
	err = tx.Where("course_id = ? AND section = ?", courseID, sectionName).Find(&students).Error
	return students, err
}

// GetStudentCountForTeam counts the students of one team inside a course.
func (r *UsersRepository) GetStudentCountForTeam(ctx context.Context, teamName, courseID string) (int64, error) {
	tx, err := ambient(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	err = tx.Model(&model.Student{}).
		Where("course_id = ? AND team = ?", courseID, teamName).
		Count(&count).Error
	return count, err
}

// CountInstructorsCreatedWithin counts instructors created inside the time
// range, for usage statistics.
func (r *UsersRepository) CountInstructorsCreatedWithin(ctx context.Context, startTime, endTime time.Time) (int64, error) {
	tx, err := ambient(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	err = tx.Model(&model.Instructor{}).
		Where("created_at >= ? AND created_at < ?", startTime, endTime).
		Count(&count).Error
	return count, err
}

// CountStudentsCreatedWithin counts students created inside the time range.
func (r *UsersRepository) CountStudentsCreatedWithin(ctx context.Context, startTime, endTime time.Time) (int64, error) {
	tx, err := ambient(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	err = tx.Model(&model.Student{}).
		Where("created_at >= ? AND created_at < ?", startTime, endTime).
		Count(&count).Error
	return count, err
}

// DeleteStudentsForCourse removes all students of a course.
func (r *UsersRepository) DeleteStudentsForCourse(ctx context.Context, courseID string) error {
	tx, err := ambient(ctx)
	if err != nil {
		return err
	}
	return tx.Where("course_id = ?", courseID).Delete(&model.Student{}).Error
}
