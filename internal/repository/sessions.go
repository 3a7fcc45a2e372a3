package repository

import (
	"context"

	"anoa.com/peerreview/internal/model"
)

// FeedbackSessionsRepository covers the narrow slice of session persistence
// the core owns: listing per course, the timezone cascade, and course-scoped
// deletion. The session workflow itself still lives in the legacy store.
type FeedbackSessionsRepository struct{}

func NewFeedbackSessionsRepository() *FeedbackSessionsRepository {
	return &FeedbackSessionsRepository{}
}

// GetSessionsForCourse gets the migrated feedback sessions of a course.
func (r *FeedbackSessionsRepository) GetSessionsForCourse(ctx context.Context, courseID string) ([]model.FeedbackSession, error) {
	tx, err := ambient(ctx)
	if err != nil {
		return nil, err
	}
	var sessions []model.FeedbackSession
	err = tx.Where("course_id = ?", courseID).Find(&sessions).Error
	return sessions, err
}

// UpdateTimeZoneForCourse rewrites the timezone of every session of a course.
func (r *FeedbackSessionsRepository) UpdateTimeZoneForCourse(ctx context.Context, courseID, timeZone string) error {
	tx, err := ambient(ctx)
	if err != nil {
		return err
	}
	return tx.Model(&model.FeedbackSession{}).
		Where("course_id = ?", courseID).
		Update("timezone", timeZone).Error
}

// DeleteSessionsForCourse removes all sessions of a course.
func (r *FeedbackSessionsRepository) DeleteSessionsForCourse(ctx context.Context, courseID string) error {
	tx, err := ambient(ctx)
	if err != nil {
		return err
	}
	return tx.Where("course_id = ?", courseID).Delete(&model.FeedbackSession{}).Error
}
