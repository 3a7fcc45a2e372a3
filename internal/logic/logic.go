package logic

import (
	"github.com/redis/go-redis/v9"

	"anoa.com/peerreview/internal/repository"
)

// Logic bundles the domain components of the relational store under one
// explicitly wired entry point.
type Logic struct {
	Courses       *CoursesLogic
	Instructors   *InstructorsLogic
	Users         *UsersLogic
	Notifications *NotificationsLogic
}

// New wires the full logic layer on top of the given repositories. The
// redis client is only used for notification fan-out and may be nil in
// tests.
func New(
	coursesRepo *repository.CoursesRepository,
	instructorsRepo *repository.InstructorsRepository,
	usersRepo *repository.UsersRepository,
	sessionsRepo *repository.FeedbackSessionsRepository,
	extensionsRepo *repository.DeadlineExtensionsRepository,
	notificationsRepo *repository.NotificationsRepository,
	redisClient *redis.Client,
) *Logic {
	instructorsLogic := NewInstructorsLogic(instructorsRepo, extensionsRepo)
	return &Logic{
		Courses:       NewCoursesLogic(coursesRepo, usersRepo, sessionsRepo, extensionsRepo, instructorsLogic),
		Instructors:   instructorsLogic,
		Users:         NewUsersLogic(usersRepo),
		Notifications: NewNotificationsLogic(notificationsRepo, redisClient),
	}
}
