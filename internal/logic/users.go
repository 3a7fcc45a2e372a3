package logic

import (
	"context"
	"time"

	"anoa.com/peerreview/internal/attributes"
	"anoa.com/peerreview/internal/model"
	"anoa.com/peerreview/internal/repository"
)

// UsersLogic handles account-centric lookups that span instructors and
// students.
type UsersLogic struct {
	usersRepo *repository.UsersRepository
}

func NewUsersLogic(usersRepo *repository.UsersRepository) *UsersLogic {
	return &UsersLogic{usersRepo: usersRepo}
}

// GetAccount gets an account by id, nil if not found.
func (l *UsersLogic) GetAccount(ctx context.Context, accountID string) (*model.Account, error) {
	return l.usersRepo.GetAccount(ctx, accountID)
}

// GetAccountForGoogleID gets an account by its google id, nil if not found.
func (l *UsersLogic) GetAccountForGoogleID(ctx context.Context, googleID string) (*model.Account, error) {
	return l.usersRepo.GetAccountForGoogleID(ctx, googleID)
}

// CreateAccount creates an account.
func (l *UsersLogic) CreateAccount(ctx context.Context, account *model.Account) error {
	return l.usersRepo.CreateAccount(ctx, account)
}

// GetInstructorsForGoogleID gets all instructor records of the account with
// the given google id.
func (l *UsersLogic) GetInstructorsForGoogleID(ctx context.Context, googleID string) ([]*attributes.InstructorAttributes, error) {
	entities, err := l.usersRepo.GetInstructorsForGoogleID(ctx, googleID)
	if err != nil {
		return nil, err
	}
	instructors := make([]*attributes.InstructorAttributes, 0, len(entities))
	for i := range entities {
		instructors = append(instructors, attributes.InstructorAttributesOf(&entities[i]))
	}
	return instructors, nil
}

// GetStudentsForGoogleID gets all student records of the account with the
// given google id.
func (l *UsersLogic) GetStudentsForGoogleID(ctx context.Context, googleID string) ([]model.Student, error) {
	return l.usersRepo.GetStudentsForGoogleID(ctx, googleID)
}

// GetStudentsForCourse gets the students of a course.
func (l *UsersLogic) GetStudentsForCourse(ctx context.Context, courseID string) ([]model.Student, error) {
	return l.usersRepo.GetStudentsForCourse(ctx, courseID)
}

// GetStudentsForTeam gets the students of a team within a course.
func (l *UsersLogic) GetStudentsForTeam(ctx context.Context, teamName, courseID string) ([]model.Student, error) {
	return l.usersRepo.GetStudentsForTeam(ctx, teamName, courseID)
}

// GetStudentsForSection gets the students of a section within a course.
func (l *UsersLogic) GetStudentsForSection(ctx context.Context, sectionName, courseID string) ([]model.Student, error) {
	return l.usersRepo.GetStudentsForSection(ctx, sectionName, courseID)
}

// UsageStatistics aggregates user creation counts over a time window.
type UsageStatistics struct {
	StartTime      time.Time
	EndTime        time.Time
	NumInstructors int64
	NumStudents    int64
}

// CalculateUsageStatistics counts instructors and students created within
// [startTime, endTime).
func (l *UsersLogic) CalculateUsageStatistics(ctx context.Context, startTime, endTime time.Time) (*UsageStatistics, error) {
	numInstructors, err := l.usersRepo.CountInstructorsCreatedWithin(ctx, startTime, endTime)
	if err != nil {
		return nil, err
	}
	numStudents, err := l.usersRepo.CountStudentsCreatedWithin(ctx, startTime, endTime)
	if err != nil {
		return nil, err
	}
	return &UsageStatistics{
		StartTime:      startTime,
		EndTime:        endTime,
		NumInstructors: numInstructors,
		NumStudents:    numStudents,
	}, nil
}
