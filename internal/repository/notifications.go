package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"anoa.com/peerreview/internal/attributes"
	"anoa.com/peerreview/internal/model"
)

// NotificationsRepository handles CRUD operations for notifications. It runs
// on the same generic primitives as the course and instructor repositories.
type NotificationsRepository struct {
	entitiesRepo[model.Notification, attributes.NotificationAttributes]
}

func NewNotificationsRepository() *NotificationsRepository {
	r := &NotificationsRepository{}
	r.ops = entityOps[model.Notification, attributes.NotificationAttributes]{
		sanitize: func(a *attributes.NotificationAttributes) { a.SanitizeForSaving() },
		validate: func(a *attributes.NotificationAttributes) []string { return a.InvalidityInfo() },
		toEntity: func(a *attributes.NotificationAttributes) *model.Notification { return a.ToEntity() },
		fromEntity: func(e *model.Notification) *attributes.NotificationAttributes {
			return attributes.NotificationAttributesOf(e)
		},
		hasExisting: func(ctx context.Context, tx *gorm.DB, a *attributes.NotificationAttributes) (bool, error) {
			if a.ID == uuid.Nil {
				return false, nil
			}
			existing, err := first[model.Notification](tx, "id = ?", a.ID)
			return existing != nil, err
		},
		describe: func(a *attributes.NotificationAttributes) string { return "notification " + a.Title },
	}
	return r
}

// CreateNotification creates a notification.
func (r *NotificationsRepository) CreateNotification(ctx context.Context, notification *attributes.NotificationAttributes) (*attributes.NotificationAttributes, error) {
	return r.createEntity(ctx, notification)
}

// GetNotification gets a notification by id, nil if not found.
func (r *NotificationsRepository) GetNotification(ctx context.Context, id uuid.UUID) (*attributes.NotificationAttributes, error) {
	tx, err := ambient(ctx)
	if err != nil {
		return nil, err
	}
	entity, err := first[model.Notification](tx, "id = ?", id)
	if err != nil {
		return nil, err
	}
	return r.makeAttributesOrNil(entity), nil
}

// GetAllNotifications gets every notification, newest first.
func (r *NotificationsRepository) GetAllNotifications(ctx context.Context) ([]*attributes.NotificationAttributes, error) {
	tx, err := ambient(ctx)
	if err != nil {
		return nil, err
	}
	var entities []model.Notification
	if err := tx.Order("created_at DESC").Find(&entities).Error; err != nil {
		return nil, err
	}

	notifications := make([]*attributes.NotificationAttributes, 0, len(entities))
	for i := range entities {
		notifications = append(notifications, r.makeAttributes(&entities[i]))
	}
	return notifications, nil
}

// DeleteNotification deletes a notification. Fails silently if absent.
func (r *NotificationsRepository) DeleteNotification(ctx context.Context, id uuid.UUID) error {
	tx, err := ambient(ctx)
	if err != nil {
		return err
	}
	entity, err := first[model.Notification](tx, "id = ?", id)
	if err != nil {
		return err
	}
	return r.deleteEntity(ctx, entity)
}
