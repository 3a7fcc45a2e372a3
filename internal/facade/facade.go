package facade

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"anoa.com/peerreview/internal/attributes"
	"anoa.com/peerreview/internal/legacy"
	"anoa.com/peerreview/internal/logic"
	"anoa.com/peerreview/internal/model"
	"anoa.com/peerreview/internal/search"
)

// Facade bridges the two stores behind one surface. Reads consult the new
// store first and fall back to the legacy store when the new store has no
// answer; writes go to the store that owns the entity kind per ownerTable.
type Facade struct {
	logicNew    *logic.Logic
	logicLegacy *legacy.Logic
	searchSvc   search.SearchService
}

func New(logicNew *logic.Logic, logicLegacy *legacy.Logic, searchSvc search.SearchService) *Facade {
	if searchSvc == nil {
		searchSvc = search.NoopSearchService{}
	}
	return &Facade{
		logicNew:    logicNew,
		logicLegacy: logicLegacy,
		searchSvc:   searchSvc,
	}
}

// CourseAndFeedbackSessions pairs a course with its feedback sessions.
// Until sessions migrate, the course comes from the new store and the
// sessions from the legacy store.
type CourseAndFeedbackSessions struct {
	Course           *attributes.CourseAttributes
	FeedbackSessions []*legacy.FeedbackSessionDoc
}

// GetCourse reads a course; the new-store result wins when present.
func (f *Facade) GetCourse(ctx context.Context, courseID string) (*attributes.CourseAttributes, error) {
	course, err := f.logicNew.Courses.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course != nil {
		return course, nil
	}
	return f.logicLegacy.GetCourse(ctx, courseID)
}

// GetCourseInstitute reads a course's institute. The fallback keys on the
// course being absent from the new store, not on the institute being blank:
// a migrated course with no institute answers "".
func (f *Facade) GetCourseInstitute(ctx context.Context, courseID string) (string, error) {
	course, err := f.logicNew.Courses.GetCourse(ctx, courseID)
	if err != nil {
		return "", err
	}
	if course != nil {
		return course.Institute, nil
	}
	return f.logicLegacy.GetCourseInstitute(ctx, courseID)
}

// GetCourseAndFeedbackSessions builds the combined view: new-store course
// (legacy fallback) plus legacy-store sessions.
func (f *Facade) GetCourseAndFeedbackSessions(ctx context.Context, courseID string) (*CourseAndFeedbackSessions, error) {
	course, err := f.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, nil
	}
	var sessions []*legacy.FeedbackSessionDoc
	if OwnerOf(KindFeedbackSession) != OwnedByNew {
		sessions, err = f.logicLegacy.GetFeedbackSessionsForCourse(ctx, courseID)
		if err != nil {
			return nil, err
		}
	}
	return &CourseAndFeedbackSessions{Course: course, FeedbackSessions: sessions}, nil
}

// CreateCourseAndInstructor creates a course and its first instructor in
// the owning store.
func (f *Facade) CreateCourseAndInstructor(ctx context.Context, accountID string, course *attributes.CourseAttributes) error {
	if err := f.logicNew.Courses.CreateCourseAndInstructor(ctx, accountID, course); err != nil {
		return err
	}
	f.indexCourse(ctx, course.ID)
	return nil
}

// UpdateCourseCascade updates a course in the owning store. The timezone
// cascade reaches sessions on both sides: migrated rows via the course
// logic, legacy documents here.
func (f *Facade) UpdateCourseCascade(ctx context.Context, opts attributes.CourseUpdateOptions) (*attributes.CourseAttributes, error) {
	before, err := f.logicNew.Courses.GetCourse(ctx, opts.CourseID)
	if err != nil {
		return nil, err
	}

	updated, err := f.logicNew.Courses.UpdateCourseCascade(ctx, opts)
	if err != nil {
		return nil, err
	}

	if before != nil && updated.TimeZone != before.TimeZone {
		if err := f.logicLegacy.UpdateSessionTimeZonesForCourse(ctx, updated.ID, updated.TimeZone); err != nil {
			return nil, err
		}
	}

	if err := f.searchSvc.IndexCourse(updated); err != nil {
		log.Printf("search indexing of course %s failed: %v", updated.ID, err)
	}
	return updated, nil
}

// MoveCourseToRecycleBin soft-deletes a course and returns the deletion
// time.
func (f *Facade) MoveCourseToRecycleBin(ctx context.Context, courseID string) (time.Time, error) {
	return f.logicNew.Courses.MoveCourseToRecycleBin(ctx, courseID)
}

// RestoreCourseFromRecycleBin clears a course's soft-deletion.
func (f *Facade) RestoreCourseFromRecycleBin(ctx context.Context, courseID string) error {
	return f.logicNew.Courses.RestoreCourseFromRecycleBin(ctx, courseID)
}

// DeleteCourseCascade hard-deletes a course and everything under it on
// BOTH stores, leaves first on each side.
func (f *Facade) DeleteCourseCascade(ctx context.Context, courseID string) error {
	if err := f.logicLegacy.DeleteCourseCascade(ctx, courseID); err != nil {
		return err
	}
	if err := f.logicNew.Courses.DeleteCourseCascade(ctx, courseID); err != nil {
		return err
	}
	if err := f.searchSvc.DeleteCourse(courseID); err != nil {
		log.Printf("search removal of course %s failed: %v", courseID, err)
	}
	return nil
}

// GetCoursesForInstructorAccount gets the new-store courses an account
// teaches.
func (f *Facade) GetCoursesForInstructorAccount(ctx context.Context, accountID string) ([]*attributes.CourseAttributes, error) {
	return f.logicNew.Courses.GetCoursesForInstructorAccount(ctx, accountID)
}

// CreateInstructor creates an instructor in the owning store.
func (f *Facade) CreateInstructor(ctx context.Context, instructor *attributes.InstructorAttributes) (*attributes.InstructorAttributes, error) {
	created, err := f.logicNew.Instructors.CreateInstructor(ctx, instructor)
	if err != nil {
		return nil, err
	}
	if err := f.searchSvc.IndexInstructor(created); err != nil {
		log.Printf("search indexing of instructor %s failed: %v", created.UniqueID(), err)
	}
	return created, nil
}

// GetInstructor reads an instructor by (courseId, email); the new-store
// result wins when present.
func (f *Facade) GetInstructor(ctx context.Context, courseID, email string) (*attributes.InstructorAttributes, error) {
	instructor, err := f.logicNew.Instructors.GetInstructorForEmail(ctx, courseID, email)
	if err != nil {
		return nil, err
	}
	if instructor != nil || OwnerOf(KindInstructor) == OwnedByNew {
		return instructor, nil
	}
	return f.logicLegacy.GetInstructor(ctx, courseID, email)
}

// GetInstructorForAccountID reads an instructor by (courseId, accountId)
// from the new store.
func (f *Facade) GetInstructorForAccountID(ctx context.Context, courseID, accountID string) (*attributes.InstructorAttributes, error) {
	return f.logicNew.Instructors.GetInstructorForAccountID(ctx, courseID, accountID)
}

// GetInstructorForRegistrationKey resolves a join link. Keys are only
// issued by the new store, so there is no legacy fallback.
func (f *Facade) GetInstructorForRegistrationKey(ctx context.Context, registrationKey string) (*attributes.InstructorAttributes, error) {
	return f.logicNew.Instructors.GetInstructorForRegistrationKey(ctx, registrationKey)
}

// GetInstructorsForCourse merges the instructor lists of both stores; for
// an email present on both sides the new-store row wins.
func (f *Facade) GetInstructorsForCourse(ctx context.Context, courseID string) ([]*attributes.InstructorAttributes, error) {
	migrated, err := f.logicNew.Instructors.GetInstructorsForCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	var legacyOnes []*attributes.InstructorAttributes
	if OwnerOf(KindInstructor) != OwnedByNew {
		legacyOnes, err = f.logicLegacy.GetInstructorsForCourse(ctx, courseID)
		if err != nil {
			return nil, err
		}
	}

	seen := make(map[string]bool, len(migrated))
	for _, instructor := range migrated {
		seen[instructor.Email] = true
	}
	merged := migrated
	for _, instructor := range legacyOnes {
		if !seen[instructor.Email] {
			merged = append(merged, instructor)
		}
	}
	attributes.SortInstructorsByName(merged)
	return merged, nil
}

// GetInstructorsForAccountID gets the new-store instructor records of an
// account.
func (f *Facade) GetInstructorsForAccountID(ctx context.Context, accountID string, omitArchived bool) ([]*attributes.InstructorAttributes, error) {
	return f.logicNew.Instructors.GetInstructorsForAccountID(ctx, accountID, omitArchived)
}

// UpdateInstructorByEmail updates an instructor keyed by (courseId, email).
func (f *Facade) UpdateInstructorByEmail(ctx context.Context, opts attributes.InstructorUpdateOptionsWithEmail) (*attributes.InstructorAttributes, error) {
	updated, err := f.logicNew.Instructors.UpdateInstructorByEmail(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := f.searchSvc.IndexInstructor(updated); err != nil {
		log.Printf("search indexing of instructor %s failed: %v", updated.UniqueID(), err)
	}
	return updated, nil
}

// UpdateInstructorByAccountIDCascade updates an instructor keyed by
// (courseId, accountId), cascading an email change.
func (f *Facade) UpdateInstructorByAccountIDCascade(ctx context.Context, opts attributes.InstructorUpdateOptionsWithAccountID) (*attributes.InstructorAttributes, error) {
	before, err := f.logicNew.Instructors.GetInstructorForAccountID(ctx, opts.CourseID, opts.AccountID)
	if err != nil {
		return nil, err
	}

	updated, err := f.logicNew.Instructors.UpdateInstructorByAccountIDCascade(ctx, opts)
	if err != nil {
		return nil, err
	}

	if before != nil && before.Email != updated.Email {
		if err := f.searchSvc.DeleteInstructor(opts.CourseID, before.Email); err != nil {
			log.Printf("search removal of instructor %s failed: %v", before.UniqueID(), err)
		}
	}
	if err := f.searchSvc.IndexInstructor(updated); err != nil {
		log.Printf("search indexing of instructor %s failed: %v", updated.UniqueID(), err)
	}
	return updated, nil
}

// DeleteInstructorCascade deletes an instructor from both stores. Fails
// silently when neither store knows the instructor.
func (f *Facade) DeleteInstructorCascade(ctx context.Context, courseID, email string) error {
	if err := f.logicLegacy.Store().DeleteInstructor(ctx, courseID, email); err != nil {
		return err
	}
	if err := f.logicNew.Instructors.DeleteInstructorCascade(ctx, courseID, email); err != nil {
		return err
	}
	if err := f.searchSvc.DeleteInstructor(courseID, email); err != nil {
		log.Printf("search removal of instructor %s failed: %v", model.GenerateInstructorID(email, courseID), err)
	}
	return nil
}

// ResetInstructorAccountID clears or rebinds an instructor's account
// linkage.
func (f *Facade) ResetInstructorAccountID(ctx context.Context, courseID, email string, accountID *string) (*attributes.InstructorAttributes, error) {
	return f.logicNew.Instructors.ResetInstructorAccountID(ctx, courseID, email, accountID)
}

// RegenerateInstructorRegistrationKey issues a fresh registration key.
func (f *Facade) RegenerateInstructorRegistrationKey(ctx context.Context, courseID, email string) (*attributes.InstructorAttributes, error) {
	return f.logicNew.Instructors.RegenerateRegistrationKey(ctx, courseID, email)
}

// GetAccount gets an account by id from the new store.
func (f *Facade) GetAccount(ctx context.Context, accountID string) (*model.Account, error) {
	return f.logicNew.Users.GetAccount(ctx, accountID)
}

// GetAccountForGoogleID gets an account by google id from the new store.
func (f *Facade) GetAccountForGoogleID(ctx context.Context, googleID string) (*model.Account, error) {
	return f.logicNew.Users.GetAccountForGoogleID(ctx, googleID)
}

// CreateAccount creates an account in the new store.
func (f *Facade) CreateAccount(ctx context.Context, account *model.Account) error {
	return f.logicNew.Users.CreateAccount(ctx, account)
}

// CreateNotification creates a notification and fans it out.
func (f *Facade) CreateNotification(ctx context.Context, notification *attributes.NotificationAttributes) (*attributes.NotificationAttributes, error) {
	return f.logicNew.Notifications.CreateNotification(ctx, notification)
}

// GetNotification gets a notification by id.
func (f *Facade) GetNotification(ctx context.Context, id uuid.UUID) (*attributes.NotificationAttributes, error) {
	return f.logicNew.Notifications.GetNotification(ctx, id)
}

// GetAllNotifications gets all notifications, newest first.
func (f *Facade) GetAllNotifications(ctx context.Context) ([]*attributes.NotificationAttributes, error) {
	return f.logicNew.Notifications.GetAllNotifications(ctx)
}

// GetActiveNotificationsForTarget gets the notifications currently shown to
// a target user group.
func (f *Facade) GetActiveNotificationsForTarget(ctx context.Context, targetUser string, now time.Time) ([]*attributes.NotificationAttributes, error) {
	return f.logicNew.Notifications.GetActiveNotificationsForTarget(ctx, targetUser, now)
}

// DeleteNotification deletes a notification.
func (f *Facade) DeleteNotification(ctx context.Context, id uuid.UUID) error {
	return f.logicNew.Notifications.DeleteNotification(ctx, id)
}

// indexCourse loads and indexes a course after a write, best effort.
func (f *Facade) indexCourse(ctx context.Context, courseID string) {
	course, err := f.logicNew.Courses.GetCourse(ctx, courseID)
	if err != nil || course == nil {
		return
	}
	if err := f.searchSvc.IndexCourse(course); err != nil {
		log.Printf("search indexing of course %s failed: %v", course.ID, err)
	}
}
