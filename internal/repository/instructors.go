package repository

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"anoa.com/peerreview/internal/attributes"
	"anoa.com/peerreview/internal/model"
	"anoa.com/peerreview/pkg/apperror"
)

// RegistrationKeyGenerator issues the opaque keys instructors and students
// use to join a course. Implemented by pkg/regkey.
type RegistrationKeyGenerator interface {
	Generate(uniqueID string) (string, error)
}

// InstructorsRepository handles CRUD operations for instructors.
type InstructorsRepository struct {
	entitiesRepo[model.Instructor, attributes.InstructorAttributes]
	keygen RegistrationKeyGenerator
}

func NewInstructorsRepository(keygen RegistrationKeyGenerator) *InstructorsRepository {
	r := &InstructorsRepository{keygen: keygen}
	r.ops = entityOps[model.Instructor, attributes.InstructorAttributes]{
		sanitize: func(a *attributes.InstructorAttributes) { a.SanitizeForSaving() },
		validate: func(a *attributes.InstructorAttributes) []string { return a.InvalidityInfo() },
		toEntity: func(a *attributes.InstructorAttributes) *model.Instructor { return a.ToEntity() },
		fromEntity: func(e *model.Instructor) *attributes.InstructorAttributes {
			return attributes.InstructorAttributesOf(e)
		},
		hasExisting: func(ctx context.Context, tx *gorm.DB, a *attributes.InstructorAttributes) (bool, error) {
			byID, err := first[model.Instructor](tx, "id = ?", a.UniqueID())
			if err != nil || byID != nil {
				return byID != nil, err
			}
			if a.AccountID == nil {
				return false, nil
			}
			byAccount, err := first[model.Instructor](tx,
				"course_id = ? AND account_id = ?", a.CourseID, *a.AccountID)
			return byAccount != nil, err
		},
		describe: func(a *attributes.InstructorAttributes) string { return "instructor " + a.UniqueID() },
	}
	return r
}

// CreateInstructor creates an instructor; a registration key is generated
// once here and then stays stable for the row's lifetime.
func (r *InstructorsRepository) CreateInstructor(ctx context.Context, instructor *attributes.InstructorAttributes) (*attributes.InstructorAttributes, error) {
	instructor.SanitizeForSaving()
	if instructor.RegistrationKey == "" {
		key, err := r.keygen.Generate(instructor.UniqueID())
		if err != nil {
			return nil, err
		}
		instructor.RegistrationKey = key
	}
	return r.createEntity(ctx, instructor)
}

// GetInstructorByID gets an instructor by its composite primary key.
func (r *InstructorsRepository) GetInstructorByID(ctx context.Context, courseID, email string) (*attributes.InstructorAttributes, error) {
	entity, err := r.getInstructorEntity(ctx, courseID, email)
	if err != nil {
		return nil, err
	}
	return r.makeAttributesOrNil(entity), nil
}

// GetInstructorForEmail gets an instructor by the unique constraint
// (courseId, email). The pair is the primary key, so this is an alias of
// GetInstructorByID.
func (r *InstructorsRepository) GetInstructorForEmail(ctx context.Context, courseID, email string) (*attributes.InstructorAttributes, error) {
	return r.GetInstructorByID(ctx, courseID, email)
}

// GetInstructorForAccountID gets an instructor by the unique constraint
// (courseId, accountId), nil if not found.
func (r *InstructorsRepository) GetInstructorForAccountID(ctx context.Context, courseID, accountID string) (*attributes.InstructorAttributes, error) {
	tx, err := ambient(ctx)
	if err != nil {
		return nil, err
	}
	entity, err := first[model.Instructor](tx, "course_id = ? AND account_id = ?", courseID, accountID)
	if err != nil {
		return nil, err
	}
	return r.makeAttributesOrNil(entity), nil
}

// GetInstructorForRegistrationKey gets the instructor holding the key. The
// key column is unique; duplicates would mean a generator fault, so they are
// logged and the first match returned.
func (r *InstructorsRepository) GetInstructorForRegistrationKey(ctx context.Context, registrationKey string) (*attributes.InstructorAttributes, error) {
	tx, err := ambient(ctx)
	if err != nil {
		return nil, err
	}

	var entities []model.Instructor
	if err := tx.Where("registration_key = ?", registrationKey).Find(&entities).Error; err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, nil
	}
	if len(entities) > 1 {
		log.Printf("WARN: %d instructors found holding one registration key", len(entities))
	}
	return r.makeAttributes(&entities[0]), nil
}

// GetInstructorsForCourse gets all instructors of a course.
func (r *InstructorsRepository) GetInstructorsForCourse(ctx context.Context, courseID string) ([]*attributes.InstructorAttributes, error) {
	tx, err := ambient(ctx)
	if err != nil {
		return nil, err
	}
	var entities []model.Instructor
	if err := tx.Where("course_id = ?", courseID).Find(&entities).Error; err != nil {
		return nil, err
	}
	return r.toAttributesList(entities), nil
}

// GetInstructorsForAccountID gets all instructors associated with an account,
// optionally skipping archived ones.
func (r *InstructorsRepository) GetInstructorsForAccountID(ctx context.Context, accountID string, omitArchived bool) ([]*attributes.InstructorAttributes, error) {
	tx, err := ambient(ctx)
	if err != nil {
		return nil, err
	}

	query := tx.Where("account_id = ?", accountID)
	if omitArchived {
		query = query.Where("is_archived = ?", false)
	}

	var entities []model.Instructor
	if err := query.Find(&entities).Error; err != nil {
		return nil, err
	}
	return r.toAttributesList(entities), nil
}

// GetInstructorsDisplayedToStudents gets the instructors of a course that
// are visible to its students.
func (r *InstructorsRepository) GetInstructorsDisplayedToStudents(ctx context.Context, courseID string) ([]*attributes.InstructorAttributes, error) {
	tx, err := ambient(ctx)
	if err != nil {
		return nil, err
	}
	var entities []model.Instructor
	if err := tx.Where("course_id = ? AND is_displayed_to_students = ?", courseID, true).
		Find(&entities).Error; err != nil {
		return nil, err
	}
	return r.toAttributesList(entities), nil
}

// UpdateInstructorByEmail applies an email-keyed update. The email is not
// mutable on this path, so the row keeps its composite id.
func (r *InstructorsRepository) UpdateInstructorByEmail(ctx context.Context, opts attributes.InstructorUpdateOptionsWithEmail) (*attributes.InstructorAttributes, error) {
	entity, err := r.getInstructorEntity(ctx, opts.CourseID, opts.Email)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, fmt.Errorf("%w: trying to update non-existent %s",
			apperror.ErrEntityDoesNotExist, opts)
	}

	newAttributes := r.makeAttributes(entity)
	newAttributes.UpdateWithEmail(opts)
	newAttributes.SanitizeForSaving()
	if reasons := newAttributes.InvalidityInfo(); len(reasons) > 0 {
		return nil, apperror.NewInvalidParameters(reasons)
	}

	if r.hasSameObservedAttributes(entity, newAttributes) {
		log.Printf(optimizedSavingPolicyApplied, "Instructor", opts)
		return newAttributes, nil
	}

	r.projectOntoEntity(entity, newAttributes)
	if err := r.saveEntity(ctx, entity); err != nil {
		return nil, err
	}
	return r.makeAttributes(entity), nil
}

// UpdateInstructorByAccountID applies an account-keyed update. Changing the
// email moves the instructor to a new composite id: the old row is removed
// and a new one created, preserving the registration key.
func (r *InstructorsRepository) UpdateInstructorByAccountID(ctx context.Context, opts attributes.InstructorUpdateOptionsWithAccountID) (*attributes.InstructorAttributes, error) {
	tx, err := ambient(ctx)
	if err != nil {
		return nil, err
	}
	entity, err := first[model.Instructor](tx, "course_id = ? AND account_id = ?", opts.CourseID, opts.AccountID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, fmt.Errorf("%w: trying to update non-existent %s",
			apperror.ErrEntityDoesNotExist, opts)
	}

	newAttributes := r.makeAttributes(entity)
	newAttributes.UpdateWithAccountID(opts)
	newAttributes.SanitizeForSaving()
	if reasons := newAttributes.InvalidityInfo(); len(reasons) > 0 {
		return nil, apperror.NewInvalidParameters(reasons)
	}

	if hasSameValue(entity.Email, newAttributes.Email) &&
		r.hasSameObservedAttributes(entity, newAttributes) {
		log.Printf(optimizedSavingPolicyApplied, "Instructor", opts)
		return newAttributes, nil
	}

	if !hasSameValue(entity.Email, newAttributes.Email) {
		replacement := newAttributes.ToEntity()
		replacement.RegistrationKey = entity.RegistrationKey
		replacement.CreatedAt = entity.CreatedAt
		if err := tx.Delete(entity).Error; err != nil {
			return nil, err
		}
		if err := tx.Create(replacement).Error; err != nil {
			return nil, err
		}
		return r.makeAttributes(replacement), nil
	}

	r.projectOntoEntity(entity, newAttributes)
	if err := r.saveEntity(ctx, entity); err != nil {
		return nil, err
	}
	return r.makeAttributes(entity), nil
}

// RegenerateRegistrationKey replaces the instructor's registration key with
// a freshly generated one.
func (r *InstructorsRepository) RegenerateRegistrationKey(ctx context.Context, courseID, email string) (*attributes.InstructorAttributes, error) {
	entity, err := r.getInstructorEntity(ctx, courseID, email)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, fmt.Errorf("%w: trying to regenerate key of non-existent instructor %s",
			apperror.ErrEntityDoesNotExist, model.GenerateInstructorID(email, courseID))
	}

	key, err := r.keygen.Generate(entity.ID)
	if err != nil {
		return nil, err
	}
	entity.RegistrationKey = key
	if err := r.saveEntity(ctx, entity); err != nil {
		return nil, err
	}
	return r.makeAttributes(entity), nil
}

// DeleteInstructor deletes an instructor. Fails silently if absent.
func (r *InstructorsRepository) DeleteInstructor(ctx context.Context, courseID, email string) error {
	entity, err := r.getInstructorEntity(ctx, courseID, email)
	if err != nil {
		return err
	}
	return r.deleteEntity(ctx, entity)
}

// DeleteInstructorsForCourse removes all instructors of a course.
func (r *InstructorsRepository) DeleteInstructorsForCourse(ctx context.Context, courseID string) error {
	tx, err := ambient(ctx)
	if err != nil {
		return err
	}
	return tx.Where("course_id = ?", courseID).Delete(&model.Instructor{}).Error
}

// hasSameObservedAttributes compares every attribute an update can touch,
// except the email, which the two update paths treat differently.
func (r *InstructorsRepository) hasSameObservedAttributes(entity *model.Instructor, newAttributes *attributes.InstructorAttributes) bool {
	return hasSameValue(entity.Name, newAttributes.Name) &&
		sameStringPtr(entity.AccountID, newAttributes.AccountID) &&
		hasSameValue(entity.IsArchived, newAttributes.IsArchived) &&
		hasSameValue(entity.Role, newAttributes.Role) &&
		hasSameValue(entity.IsDisplayedToStudents, newAttributes.IsDisplayedToStudents) &&
		hasSameValue(entity.DisplayedName, newAttributes.DisplayedName) &&
		hasSameValue(entity.PrivilegesText, newAttributes.Privileges.Encode())
}

func (r *InstructorsRepository) projectOntoEntity(entity *model.Instructor, newAttributes *attributes.InstructorAttributes) {
	entity.Name = newAttributes.Name
	entity.AccountID = newAttributes.AccountID
	entity.IsArchived = newAttributes.IsArchived
	entity.Role = newAttributes.Role
	entity.IsDisplayedToStudents = newAttributes.IsDisplayedToStudents
	entity.DisplayedName = newAttributes.DisplayedName
	entity.PrivilegesText = newAttributes.Privileges.Encode()
}

func (r *InstructorsRepository) toAttributesList(entities []model.Instructor) []*attributes.InstructorAttributes {
	instructors := make([]*attributes.InstructorAttributes, 0, len(entities))
	for i := range entities {
		instructors = append(instructors, r.makeAttributes(&entities[i]))
	}
	return instructors
}

func (r *InstructorsRepository) getInstructorEntity(ctx context.Context, courseID, email string) (*model.Instructor, error) {
	tx, err := ambient(ctx)
	if err != nil {
		return nil, err
	}
	return first[model.Instructor](tx, "id = ?", model.GenerateInstructorID(email, courseID))
}

func sameStringPtr(oldValue, newValue *string) bool {
	if oldValue == nil || newValue == nil {
		return oldValue == newValue
	}
	return *oldValue == *newValue
}
