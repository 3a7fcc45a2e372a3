package repository

import (
	"context"

	"anoa.com/peerreview/internal/model"
)

// DeadlineExtensionsRepository handles the per-user deadline rows owned by a
// course. Extensions are keyed by user email, so instructor email changes
// and course deletion both fan out here.
type DeadlineExtensionsRepository struct{}

func NewDeadlineExtensionsRepository() *DeadlineExtensionsRepository {
	return &DeadlineExtensionsRepository{}
}

// CreateExtension stores a new deadline extension.
func (r *DeadlineExtensionsRepository) CreateExtension(ctx context.Context, extension *model.DeadlineExtension) error {
	tx, err := ambient(ctx)
	if err != nil {
		return err
	}
	return tx.Create(extension).Error
}

// GetExtensionsForUser gets the extensions of one user inside a course.
func (r *DeadlineExtensionsRepository) GetExtensionsForUser(ctx context.Context, courseID, userEmail string) ([]model.DeadlineExtension, error) {
	tx, err := ambient(ctx)
	if err != nil {
		return nil, err
	}
	var extensions []model.DeadlineExtension
	err = tx.Where("course_id = ? AND user_email = ?", courseID, userEmail).Find(&extensions).Error
	return extensions, err
}

// RekeyExtensionsForUser repoints a user's extensions to a new email.
func (r *DeadlineExtensionsRepository) RekeyExtensionsForUser(ctx context.Context, courseID, oldEmail, newEmail string) error {
	tx, err := ambient(ctx)
	if err != nil {
		return err
	}
	return tx.Model(&model.DeadlineExtension{}).
		Where("course_id = ? AND user_email = ?", courseID, oldEmail).
		Update("user_email", newEmail).Error
}

// DeleteExtensionsForUser removes a user's extensions inside a course.
func (r *DeadlineExtensionsRepository) DeleteExtensionsForUser(ctx context.Context, courseID, userEmail string) error {
	tx, err := ambient(ctx)
	if err != nil {
		return err
	}
	return tx.Where("course_id = ? AND user_email = ?", courseID, userEmail).
		Delete(&model.DeadlineExtension{}).Error
}

// DeleteExtensionsForCourse removes all extensions of a course.
func (r *DeadlineExtensionsRepository) DeleteExtensionsForCourse(ctx context.Context, courseID string) error {
	tx, err := ambient(ctx)
	if err != nil {
		return err
	}
	return tx.Where("course_id = ?", courseID).Delete(&model.DeadlineExtension{}).Error
}
