package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"anoa.com/peerreview/internal/attributes"
	"anoa.com/peerreview/internal/model"
	"anoa.com/peerreview/pkg/apperror"
)

// CoursesRepository handles CRUD operations for courses.
type CoursesRepository struct {
	entitiesRepo[model.Course, attributes.CourseAttributes]
}

func NewCoursesRepository() *CoursesRepository {
	r := &CoursesRepository{}
	r.ops = entityOps[model.Course, attributes.CourseAttributes]{
		sanitize: func(a *attributes.CourseAttributes) { a.SanitizeForSaving() },
		validate: func(a *attributes.CourseAttributes) []string { return a.InvalidityInfo() },
		toEntity: func(a *attributes.CourseAttributes) *model.Course { return a.ToEntity() },
		fromEntity: func(e *model.Course) *attributes.CourseAttributes {
			return attributes.CourseAttributesOf(e)
		},
		hasExisting: func(ctx context.Context, tx *gorm.DB, a *attributes.CourseAttributes) (bool, error) {
			existing, err := first[model.Course](tx, "id = ?", a.ID)
			return existing != nil, err
		},
		describe: func(a *attributes.CourseAttributes) string { return "course " + a.ID },
	}
	return r
}

// CreateCourse creates a course.
func (r *CoursesRepository) CreateCourse(ctx context.Context, course *attributes.CourseAttributes) (*attributes.CourseAttributes, error) {
	return r.createEntity(ctx, course)
}

// GetCourse gets a course by id, nil if not found.
func (r *CoursesRepository) GetCourse(ctx context.Context, courseID string) (*attributes.CourseAttributes, error) {
	entity, err := r.getCourseEntity(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return r.makeAttributesOrNil(entity), nil
}

// UpdateCourse applies the update options to a stored course. When every
// observed attribute already holds the requested value the save is skipped.
func (r *CoursesRepository) UpdateCourse(ctx context.Context, opts attributes.CourseUpdateOptions) (*attributes.CourseAttributes, error) {
	entity, err := r.getCourseEntity(ctx, opts.CourseID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, fmt.Errorf("%w: trying to update non-existent course %s",
			apperror.ErrEntityDoesNotExist, opts.CourseID)
	}

	newAttributes := r.makeAttributes(entity)
	newAttributes.Update(opts)
	newAttributes.SanitizeForSaving()
	if reasons := newAttributes.InvalidityInfo(); len(reasons) > 0 {
		return nil, apperror.NewInvalidParameters(reasons)
	}

	hasSameAttributes := hasSameValue(entity.Name, newAttributes.Name) &&
		hasSameValue(entity.Institute, newAttributes.Institute) &&
		hasSameValue(entity.TimeZone, newAttributes.TimeZone)
	if hasSameAttributes {
		log.Printf(optimizedSavingPolicyApplied, "Course", opts)
		return newAttributes, nil
	}

	entity.Name = newAttributes.Name
	entity.TimeZone = newAttributes.TimeZone
	entity.Institute = newAttributes.Institute
	if err := r.saveEntity(ctx, entity); err != nil {
		return nil, err
	}
	return r.makeAttributes(entity), nil
}

// SoftDeleteCourse moves a course to the Recycle Bin and returns the
// deletion timestamp.
func (r *CoursesRepository) SoftDeleteCourse(ctx context.Context, courseID string) (time.Time, error) {
	entity, err := r.getCourseEntity(ctx, courseID)
	if err != nil {
		return time.Time{}, err
	}
	if entity == nil {
		return time.Time{}, fmt.Errorf("%w: trying to update non-existent course %s",
			apperror.ErrEntityDoesNotExist, courseID)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	entity.DeletedAt = &now
	if err := r.saveEntity(ctx, entity); err != nil {
		return time.Time{}, err
	}
	return now, nil
}

// RestoreDeletedCourse takes a course out of the Recycle Bin.
func (r *CoursesRepository) RestoreDeletedCourse(ctx context.Context, courseID string) error {
	entity, err := r.getCourseEntity(ctx, courseID)
	if err != nil {
		return err
	}
	if entity == nil {
		return fmt.Errorf("%w: trying to update non-existent course %s",
			apperror.ErrEntityDoesNotExist, courseID)
	}

	entity.DeletedAt = nil
	return r.saveEntity(ctx, entity)
}

// DeleteCourse hard-deletes a course row. Fails silently if absent.
func (r *CoursesRepository) DeleteCourse(ctx context.Context, courseID string) error {
	entity, err := r.getCourseEntity(ctx, courseID)
	if err != nil {
		return err
	}
	return r.deleteEntity(ctx, entity)
}

// GetCourses gets the courses with the given ids, skipping unknown ones.
func (r *CoursesRepository) GetCourses(ctx context.Context, courseIDs []string) ([]*attributes.CourseAttributes, error) {
	tx, err := ambient(ctx)
	if err != nil {
		return nil, err
	}

	var entities []model.Course
	if err := tx.Where("id IN ?", courseIDs).Find(&entities).Error; err != nil {
		return nil, err
	}

	courses := make([]*attributes.CourseAttributes, 0, len(entities))
	for i := range entities {
		courses = append(courses, r.makeAttributes(&entities[i]))
	}
	return courses, nil
}

func (r *CoursesRepository) getCourseEntity(ctx context.Context, courseID string) (*model.Course, error) {
	tx, err := ambient(ctx)
	if err != nil {
		return nil, err
	}
	return first[model.Course](tx, "id = ?", courseID)
}
