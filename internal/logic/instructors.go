package logic

import (
	"context"
	"fmt"

	"anoa.com/peerreview/internal/attributes"
	"anoa.com/peerreview/internal/model"
	"anoa.com/peerreview/internal/repository"
	"anoa.com/peerreview/pkg/apperror"
)

// InstructorsLogic handles operations related to instructors.
type InstructorsLogic struct {
	instructorsRepo *repository.InstructorsRepository
	extensionsRepo  *repository.DeadlineExtensionsRepository
}

func NewInstructorsLogic(
	instructorsRepo *repository.InstructorsRepository,
	extensionsRepo *repository.DeadlineExtensionsRepository,
) *InstructorsLogic {
	return &InstructorsLogic{
		instructorsRepo: instructorsRepo,
		extensionsRepo:  extensionsRepo,
	}
}

// CreateInstructor creates an instructor.
func (l *InstructorsLogic) CreateInstructor(ctx context.Context, instructor *attributes.InstructorAttributes) (*attributes.InstructorAttributes, error) {
	return l.instructorsRepo.CreateInstructor(ctx, instructor)
}

// GetInstructorForEmail gets an instructor by (courseId, email), nil if not
// found.
func (l *InstructorsLogic) GetInstructorForEmail(ctx context.Context, courseID, email string) (*attributes.InstructorAttributes, error) {
	return l.instructorsRepo.GetInstructorForEmail(ctx, courseID, email)
}

// GetInstructorForAccountID gets an instructor by (courseId, accountId),
// nil if not found.
func (l *InstructorsLogic) GetInstructorForAccountID(ctx context.Context, courseID, accountID string) (*attributes.InstructorAttributes, error) {
	return l.instructorsRepo.GetInstructorForAccountID(ctx, courseID, accountID)
}

// GetInstructorForRegistrationKey gets an instructor by registration key,
// nil if not found.
func (l *InstructorsLogic) GetInstructorForRegistrationKey(ctx context.Context, registrationKey string) (*attributes.InstructorAttributes, error) {
	return l.instructorsRepo.GetInstructorForRegistrationKey(ctx, registrationKey)
}

// GetInstructorsForCourse gets the instructors of a course sorted by name.
func (l *InstructorsLogic) GetInstructorsForCourse(ctx context.Context, courseID string) ([]*attributes.InstructorAttributes, error) {
	instructors, err := l.instructorsRepo.GetInstructorsForCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	attributes.SortInstructorsByName(instructors)
	return instructors, nil
}

// GetInstructorsForAccountID gets the instructors an account stands for
// across courses.
func (l *InstructorsLogic) GetInstructorsForAccountID(ctx context.Context, accountID string, omitArchived bool) ([]*attributes.InstructorAttributes, error) {
	return l.instructorsRepo.GetInstructorsForAccountID(ctx, accountID, omitArchived)
}

// UpdateInstructorByEmail updates an instructor keyed by (courseId, email).
// The update is rejected when it would leave the course with no instructor
// displayed to students.
func (l *InstructorsLogic) UpdateInstructorByEmail(ctx context.Context, opts attributes.InstructorUpdateOptionsWithEmail) (*attributes.InstructorAttributes, error) {
	original, err := l.instructorsRepo.GetInstructorForEmail(ctx, opts.CourseID, opts.Email)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, fmt.Errorf("%w: trying to update non-existent %s",
			apperror.ErrEntityDoesNotExist, opts.String())
	}

	edited := original.Copy()
	edited.UpdateWithEmail(opts)
	if err := l.verifyAtLeastOneInstructorIsDisplayed(ctx, opts.CourseID,
		original.IsDisplayedToStudents, edited.IsDisplayedToStudents); err != nil {
		return nil, err
	}

	return l.instructorsRepo.UpdateInstructorByEmail(ctx, opts)
}

// UpdateInstructorByAccountIDCascade updates an instructor keyed by
// (courseId, accountId). An email change moves the instructor to a new
// identity and cascades to the user's deadline extensions.
func (l *InstructorsLogic) UpdateInstructorByAccountIDCascade(ctx context.Context, opts attributes.InstructorUpdateOptionsWithAccountID) (*attributes.InstructorAttributes, error) {
	original, err := l.instructorsRepo.GetInstructorForAccountID(ctx, opts.CourseID, opts.AccountID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, fmt.Errorf("%w: trying to update non-existent %s",
			apperror.ErrEntityDoesNotExist, opts.String())
	}

	edited := original.Copy()
	edited.UpdateWithAccountID(opts)
	if err := l.verifyAtLeastOneInstructorIsDisplayed(ctx, opts.CourseID,
		original.IsDisplayedToStudents, edited.IsDisplayedToStudents); err != nil {
		return nil, err
	}

	updated, err := l.instructorsRepo.UpdateInstructorByAccountID(ctx, opts)
	if err != nil {
		return nil, err
	}

	if updated.Email != original.Email {
		if err := l.extensionsRepo.RekeyExtensionsForUser(ctx, opts.CourseID, original.Email, updated.Email); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

// verifyAtLeastOneInstructorIsDisplayed rejects an edit that would leave
// the course with no instructor visible to students.
func (l *InstructorsLogic) verifyAtLeastOneInstructorIsDisplayed(ctx context.Context, courseID string,
	isOriginalInstructorDisplayed, isEditedInstructorDisplayed bool) error {
	displayed, err := l.instructorsRepo.GetInstructorsDisplayedToStudents(ctx, courseID)
	if err != nil {
		return err
	}

	isEditedInstructorChangedToNonVisible := isOriginalInstructorDisplayed && !isEditedInstructorDisplayed
	isNoInstructorMadeVisible := len(displayed) == 0 && !isEditedInstructorDisplayed

	if isNoInstructorMadeVisible ||
		len(displayed) == 1 && isEditedInstructorChangedToNonVisible {
		return apperror.NewInstructorUpdateError("At least one instructor must be displayed to students")
	}
	return nil
}

// UpdateToEnsureValidityOfInstructorsForTheCourse restores the privilege of
// an instructor to modify instructors if the edit would leave the course
// with nobody able to. The correction is applied to the candidate in place.
func (l *InstructorsLogic) UpdateToEnsureValidityOfInstructorsForTheCourse(ctx context.Context, courseID string, instructorToEdit *attributes.InstructorAttributes) error {
	instructors, err := l.instructorsRepo.GetInstructorsForCourse(ctx, courseID)
	if err != nil {
		return err
	}

	numCanModifyInstructor := 0
	var lastCanModify *attributes.InstructorAttributes
	for _, instructor := range instructors {
		if instructor.Privileges.CanModifyInstructor {
			numCanModifyInstructor++
			lastCanModify = instructor
		}
	}

	isLastInstructorWithPrivilege := numCanModifyInstructor <= 1 &&
		lastCanModify != nil &&
		(!lastCanModify.IsRegistered() || sameAccount(lastCanModify.AccountID, instructorToEdit.AccountID))
	if isLastInstructorWithPrivilege {
		instructorToEdit.Privileges.CanModifyInstructor = true
		if instructorToEdit.Role != model.RoleCoOwner {
			instructorToEdit.Role = model.RoleCustom
		}
	}
	return nil
}

// ResetInstructorAccountID clears or rebinds the account linkage of an
// instructor, keeping the registration key so the join link stays valid.
func (l *InstructorsLogic) ResetInstructorAccountID(ctx context.Context, courseID, email string, accountID *string) (*attributes.InstructorAttributes, error) {
	target := ""
	if accountID != nil {
		target = *accountID
	}
	return l.instructorsRepo.UpdateInstructorByEmail(ctx, attributes.InstructorUpdateOptionsWithEmail{
		CourseID:  courseID,
		Email:     email,
		AccountID: &target,
	})
}

// RegenerateRegistrationKey issues a fresh registration key for an
// instructor, invalidating any previously sent join link.
func (l *InstructorsLogic) RegenerateRegistrationKey(ctx context.Context, courseID, email string) (*attributes.InstructorAttributes, error) {
	return l.instructorsRepo.RegenerateRegistrationKey(ctx, courseID, email)
}

// DeleteInstructorCascade deletes an instructor and the user's deadline
// extensions in the course. Fails silently if no such instructor.
func (l *InstructorsLogic) DeleteInstructorCascade(ctx context.Context, courseID, email string) error {
	instructor, err := l.instructorsRepo.GetInstructorForEmail(ctx, courseID, email)
	if err != nil {
		return err
	}
	if instructor == nil {
		return nil
	}

	if err := l.extensionsRepo.DeleteExtensionsForUser(ctx, courseID, email); err != nil {
		return err
	}
	return l.instructorsRepo.DeleteInstructor(ctx, courseID, email)
}

// DeleteInstructorsForCourse removes all instructors of a course.
func (l *InstructorsLogic) DeleteInstructorsForCourse(ctx context.Context, courseID string) error {
	return l.instructorsRepo.DeleteInstructorsForCourse(ctx, courseID)
}

func sameAccount(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
