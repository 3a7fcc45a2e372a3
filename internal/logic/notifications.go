package logic

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"anoa.com/peerreview/internal/attributes"
	"anoa.com/peerreview/internal/repository"
)

// NotificationChannelPrefix is the redis pub/sub channel prefix for
// announcement fan-out; the target user group is appended after the colon.
const NotificationChannelPrefix = "notifications:"

// NotificationsLogic handles platform announcements. Created notifications
// are fanned out on redis pub/sub so connected clients see them live; the
// fan-out is best effort and never fails the write.
type NotificationsLogic struct {
	notificationsRepo *repository.NotificationsRepository
	redisClient       *redis.Client
}

func NewNotificationsLogic(notificationsRepo *repository.NotificationsRepository, redisClient *redis.Client) *NotificationsLogic {
	return &NotificationsLogic{
		notificationsRepo: notificationsRepo,
		redisClient:       redisClient,
	}
}

// CreateNotification creates a notification and publishes it to the target
// group's channel.
func (l *NotificationsLogic) CreateNotification(ctx context.Context, notification *attributes.NotificationAttributes) (*attributes.NotificationAttributes, error) {
	created, err := l.notificationsRepo.CreateNotification(ctx, notification)
	if err != nil {
		return nil, err
	}
	l.publish(ctx, created)
	return created, nil
}

// GetNotification gets a notification by id, nil if not found.
func (l *NotificationsLogic) GetNotification(ctx context.Context, id uuid.UUID) (*attributes.NotificationAttributes, error) {
	return l.notificationsRepo.GetNotification(ctx, id)
}

// GetAllNotifications gets all notifications, newest first.
func (l *NotificationsLogic) GetAllNotifications(ctx context.Context) ([]*attributes.NotificationAttributes, error) {
	return l.notificationsRepo.GetAllNotifications(ctx)
}

// GetActiveNotificationsForTarget gets the notifications currently within
// their display window for a target user group, including GENERAL ones.
func (l *NotificationsLogic) GetActiveNotificationsForTarget(ctx context.Context, targetUser string, now time.Time) ([]*attributes.NotificationAttributes, error) {
	all, err := l.notificationsRepo.GetAllNotifications(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]*attributes.NotificationAttributes, 0, len(all))
	for _, n := range all {
		if now.Before(n.StartTime) || !now.Before(n.EndTime) {
			continue
		}
		if n.TargetUser != "GENERAL" && !strings.EqualFold(n.TargetUser, targetUser) {
			continue
		}
		active = append(active, n)
	}
	return active, nil
}

// DeleteNotification deletes a notification. Fails silently if no such
// notification.
func (l *NotificationsLogic) DeleteNotification(ctx context.Context, id uuid.UUID) error {
	return l.notificationsRepo.DeleteNotification(ctx, id)
}

func (l *NotificationsLogic) publish(ctx context.Context, notification *attributes.NotificationAttributes) {
	if l.redisClient == nil {
		return
	}
	payload, err := json.Marshal(notification)
	if err != nil {
		log.Printf("skipping notification fan-out for %s: %v", notification.ID, err)
		return
	}
	channel := NotificationChannelPrefix + strings.ToLower(notification.TargetUser)
	if err := l.redisClient.Publish(ctx, channel, payload).Err(); err != nil {
		log.Printf("notification fan-out to %s failed: %v", channel, err)
	}
}
