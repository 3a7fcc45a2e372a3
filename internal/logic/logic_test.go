package logic_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"anoa.com/peerreview/internal/attributes"
	"anoa.com/peerreview/internal/logic"
	"anoa.com/peerreview/internal/model"
	"anoa.com/peerreview/internal/repository"
	"anoa.com/peerreview/internal/testutil"
	"anoa.com/peerreview/internal/uow"
	"anoa.com/peerreview/pkg/apperror"
)

func newLogic(t *testing.T) *logic.Logic {
	t.Helper()
	return logic.New(
		repository.NewCoursesRepository(),
		repository.NewInstructorsRepository(testutil.NewTestEncrypter(t)),
		repository.NewUsersRepository(),
		repository.NewFeedbackSessionsRepository(),
		repository.NewDeadlineExtensionsRepository(),
		repository.NewNotificationsRepository(),
		nil,
	)
}

func newSessionContext(t *testing.T, db *gorm.DB) context.Context {
	t.Helper()

	ctx, unit, err := uow.Begin(context.Background(), db)
	if err != nil {
		t.Fatalf("beginning unit of work: %v", err)
	}
	t.Cleanup(func() { unit.Rollback() })
	return ctx
}

func mustCreateAccount(t *testing.T, ctx context.Context, l *logic.Logic, id, email string) {
	t.Helper()

	err := l.Users.CreateAccount(ctx, &model.Account{
		ID:       id,
		GoogleID: id + "@google",
		Name:     "Adam",
		Email:    email,
	})
	if err != nil {
		t.Fatalf("creating account %s: %v", id, err)
	}
}

func TestCreateCourseAndInstructor(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := newSessionContext(t, db)
	l := newLogic(t)

	mustCreateAccount(t, ctx, l, "acct-1", "adam@gmail.com")

	course := attributes.NewCourseAttributes("cs1101", "Programming Methodology", "UTC", "NUS")
	if err := l.Courses.CreateCourseAndInstructor(ctx, "acct-1", course); err != nil {
		t.Fatal(err)
	}

	instructors, err := l.Instructors.GetInstructorsForCourse(ctx, "cs1101")
	if err != nil {
		t.Fatal(err)
	}
	if len(instructors) != 1 {
		t.Fatalf("course has %d instructors, want the creator only", len(instructors))
	}

	creator := instructors[0]
	if creator.Email != "adam@gmail.com" || creator.Role != model.RoleCoOwner {
		t.Errorf("creator instructor = %+v, want co-owner with account email", creator)
	}
	if creator.AccountID == nil || *creator.AccountID != "acct-1" {
		t.Error("creator instructor not linked to the creating account")
	}
	if !creator.Privileges.CanModifyInstructor {
		t.Error("creator lacks the co-owner privilege set")
	}
	if creator.RegistrationKey == "" {
		t.Error("creator has no registration key")
	}

	institute, err := l.Courses.GetCourseInstitute(ctx, "cs1101")
	if err != nil {
		t.Fatal(err)
	}
	if institute != "NUS" {
		t.Errorf("institute = %q, want NUS", institute)
	}
	if institute, err := l.Courses.GetCourseInstitute(ctx, "ghost"); err != nil || institute != "" {
		t.Errorf("unknown course institute = (%q, %v), want empty", institute, err)
	}
}

func TestCreateCourseAndInstructorUnknownAccount(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := newSessionContext(t, db)
	l := newLogic(t)

	course := attributes.NewCourseAttributes("cs1101", "X", "UTC", "")
	err := l.Courses.CreateCourseAndInstructor(ctx, "ghost", course)
	if !errors.Is(err, apperror.ErrEntityDoesNotExist) {
		t.Errorf("create for unknown account returned %v, want ErrEntityDoesNotExist", err)
	}
}

// If instructor creation fails, the course row committed earlier in the
// same unit of work must be rolled back with it.
func TestCreateCourseAndInstructorRollsBackCourse(t *testing.T) {
	db := testutil.OpenTestDB(t)
	l := newLogic(t)

	// An account with no email makes the synthesized instructor invalid.
	err := uow.RunInTransaction(context.Background(), db, func(ctx context.Context) error {
		if err := l.Users.CreateAccount(ctx, &model.Account{ID: "acct-1", GoogleID: "g", Name: "Adam"}); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	err = uow.RunInTransaction(context.Background(), db, func(ctx context.Context) error {
		course := attributes.NewCourseAttributes("cs1101", "X", "UTC", "")
		return l.Courses.CreateCourseAndInstructor(ctx, "acct-1", course)
	})
	if !errors.Is(err, apperror.ErrInvalidParameters) {
		t.Fatalf("create with invalid creator email returned %v, want ErrInvalidParameters", err)
	}

	var count int64
	if err := db.Model(&model.Course{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("course row survived the failed instructor creation: count = %d", count)
	}
}

func TestUpdateCourseCascadeTimeZone(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := newSessionContext(t, db)
	l := newLogic(t)

	mustCreateAccount(t, ctx, l, "acct-1", "adam@gmail.com")
	course := attributes.NewCourseAttributes("cs1101", "X", "UTC", "")
	if err := l.Courses.CreateCourseAndInstructor(ctx, "acct-1", course); err != nil {
		t.Fatal(err)
	}

	tx, err := uow.Current(ctx)
	if err != nil {
		t.Fatal(err)
	}
	session := model.FeedbackSession{
		CourseID:  "cs1101",
		Name:      "Midterm Feedback",
		TimeZone:  "UTC",
		StartTime: time.Now(),
		EndTime:   time.Now().Add(time.Hour),
	}
	if err := tx.Create(&session).Error; err != nil {
		t.Fatal(err)
	}

	tz := "Asia/Singapore"
	if _, err := l.Courses.UpdateCourseCascade(ctx, attributes.CourseUpdateOptions{
		CourseID: "cs1101",
		TimeZone: &tz,
	}); err != nil {
		t.Fatal(err)
	}

	var stored model.FeedbackSession
	if err := tx.First(&stored, "course_id = ?", "cs1101").Error; err != nil {
		t.Fatal(err)
	}
	if stored.TimeZone != tz {
		t.Errorf("session timezone = %q, want cascade to %q", stored.TimeZone, tz)
	}
}

func TestDeleteCourseCascade(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := newSessionContext(t, db)
	l := newLogic(t)

	mustCreateAccount(t, ctx, l, "acct-1", "adam@gmail.com")
	course := attributes.NewCourseAttributes("cs1101", "X", "UTC", "")
	if err := l.Courses.CreateCourseAndInstructor(ctx, "acct-1", course); err != nil {
		t.Fatal(err)
	}

	tx, err := uow.Current(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := tx.Create(&model.Student{
		ID: model.GenerateStudentID("stu@gmail.com", "cs1101"), CourseID: "cs1101",
		Name: "Stu", Email: "stu@gmail.com", RegistrationKey: "k-stu",
	}).Error; err != nil {
		t.Fatal(err)
	}
	if err := tx.Create(&model.FeedbackSession{
		CourseID: "cs1101", Name: "S1", TimeZone: "UTC",
		StartTime: time.Now(), EndTime: time.Now().Add(time.Hour),
	}).Error; err != nil {
		t.Fatal(err)
	}
	if err := tx.Create(&model.DeadlineExtension{
		CourseID: "cs1101", SessionName: "S1", UserEmail: "stu@gmail.com",
		EndTime: time.Now().Add(2 * time.Hour),
	}).Error; err != nil {
		t.Fatal(err)
	}

	if err := l.Courses.DeleteCourseCascade(ctx, "cs1101"); err != nil {
		t.Fatal(err)
	}

	for _, probe := range []struct {
		name  string
		model any
	}{
		{"courses", &model.Course{}},
		{"instructors", &model.Instructor{}},
		{"students", &model.Student{}},
		{"feedback sessions", &model.FeedbackSession{}},
		{"deadline extensions", &model.DeadlineExtension{}},
	} {
		var count int64
		if err := tx.Model(probe.model).Count(&count).Error; err != nil {
			t.Fatal(err)
		}
		if count != 0 {
			t.Errorf("%s not cascaded: %d rows remain", probe.name, count)
		}
	}

	// Deleting again is silent.
	if err := l.Courses.DeleteCourseCascade(ctx, "cs1101"); err != nil {
		t.Errorf("second cascade delete returned %v, want nil", err)
	}
}

func TestMoveCourseToRecycleBinTwice(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := newSessionContext(t, db)
	l := newLogic(t)

	if _, err := l.Courses.CreateCourse(ctx, attributes.NewCourseAttributes("cs1101", "X", "UTC", "")); err != nil {
		t.Fatal(err)
	}

	if _, err := l.Courses.MoveCourseToRecycleBin(ctx, "cs1101"); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Courses.MoveCourseToRecycleBin(ctx, "cs1101"); !errors.Is(err, apperror.ErrBadRequest) {
		t.Errorf("second soft delete returned %v, want ErrBadRequest", err)
	}

	if err := l.Courses.RestoreCourseFromRecycleBin(ctx, "cs1101"); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Courses.MoveCourseToRecycleBin(ctx, "cs1101"); err != nil {
		t.Errorf("soft delete after restore returned %v, want nil", err)
	}
}

func TestUpdateInstructorKeepsOneDisplayed(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := newSessionContext(t, db)
	l := newLogic(t)

	if _, err := l.Instructors.CreateInstructor(ctx,
		attributes.NewInstructorAttributes("cs1101", "adam@gmail.com", "Adam")); err != nil {
		t.Fatal(err)
	}

	hide := false
	_, err := l.Instructors.UpdateInstructorByEmail(ctx, attributes.InstructorUpdateOptionsWithEmail{
		CourseID:              "cs1101",
		Email:                 "adam@gmail.com",
		IsDisplayedToStudents: &hide,
	})

	var updateErr *apperror.InstructorUpdateError
	if !errors.As(err, &updateErr) {
		t.Fatalf("hiding the only displayed instructor returned %v, want InstructorUpdateError", err)
	}
	if updateErr.Message != "At least one instructor must be displayed to students" {
		t.Errorf("message = %q", updateErr.Message)
	}

	// With a second displayed instructor the same edit goes through.
	if _, err := l.Instructors.CreateInstructor(ctx,
		attributes.NewInstructorAttributes("cs1101", "beth@gmail.com", "Beth")); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Instructors.UpdateInstructorByEmail(ctx, attributes.InstructorUpdateOptionsWithEmail{
		CourseID:              "cs1101",
		Email:                 "adam@gmail.com",
		IsDisplayedToStudents: &hide,
	}); err != nil {
		t.Fatalf("hiding one of two displayed instructors returned %v", err)
	}
}

// The last instructor able to modify instructors keeps that privilege no
// matter what the edit asked for.
func TestUpdateToEnsureValidityOfInstructorsForTheCourse(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := newSessionContext(t, db)
	l := newLogic(t)

	accountID := "acct-1"
	owner := attributes.NewInstructorAttributes("cs1101", "adam@gmail.com", "Adam")
	owner.AccountID = &accountID
	if _, err := l.Instructors.CreateInstructor(ctx, owner); err != nil {
		t.Fatal(err)
	}

	edited := owner.Copy()
	edited.Role = model.RoleObserver
	edited.Privileges = model.PrivilegesForRole(model.RoleObserver)

	if err := l.Instructors.UpdateToEnsureValidityOfInstructorsForTheCourse(ctx, "cs1101", edited); err != nil {
		t.Fatal(err)
	}

	if !edited.Privileges.CanModifyInstructor {
		t.Error("last modify-instructor privilege was not restored")
	}
	if edited.Role != model.RoleCustom {
		t.Errorf("role = %q, want Custom after the forced privilege", edited.Role)
	}
}

func TestUpdateInstructorByAccountIDCascadesEmailChange(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := newSessionContext(t, db)
	l := newLogic(t)

	accountID := "acct-1"
	instructor := attributes.NewInstructorAttributes("cs1101", "adam@gmail.com", "Adam")
	instructor.AccountID = &accountID
	if _, err := l.Instructors.CreateInstructor(ctx, instructor); err != nil {
		t.Fatal(err)
	}
	// A second visible instructor so the displayed-instructor check passes.
	if _, err := l.Instructors.CreateInstructor(ctx,
		attributes.NewInstructorAttributes("cs1101", "beth@gmail.com", "Beth")); err != nil {
		t.Fatal(err)
	}

	tx, err := uow.Current(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := tx.Create(&model.DeadlineExtension{
		CourseID: "cs1101", SessionName: "S1", UserEmail: "adam@gmail.com", IsInstructor: true,
		EndTime: time.Now().Add(time.Hour),
	}).Error; err != nil {
		t.Fatal(err)
	}

	newEmail := "adam.b@gmail.com"
	if _, err := l.Instructors.UpdateInstructorByAccountIDCascade(ctx, attributes.InstructorUpdateOptionsWithAccountID{
		CourseID:  "cs1101",
		AccountID: accountID,
		Email:     &newEmail,
	}); err != nil {
		t.Fatal(err)
	}

	var extension model.DeadlineExtension
	if err := tx.First(&extension, "course_id = ?", "cs1101").Error; err != nil {
		t.Fatal(err)
	}
	if extension.UserEmail != newEmail {
		t.Errorf("deadline extension email = %q, want rekeyed to %q", extension.UserEmail, newEmail)
	}
}

func TestDeleteInstructorCascade(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := newSessionContext(t, db)
	l := newLogic(t)

	if _, err := l.Instructors.CreateInstructor(ctx,
		attributes.NewInstructorAttributes("cs1101", "adam@gmail.com", "Adam")); err != nil {
		t.Fatal(err)
	}

	tx, err := uow.Current(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := tx.Create(&model.DeadlineExtension{
		CourseID: "cs1101", SessionName: "S1", UserEmail: "adam@gmail.com", IsInstructor: true,
		EndTime: time.Now().Add(time.Hour),
	}).Error; err != nil {
		t.Fatal(err)
	}

	if err := l.Instructors.DeleteInstructorCascade(ctx, "cs1101", "adam@gmail.com"); err != nil {
		t.Fatal(err)
	}

	var count int64
	if err := tx.Model(&model.DeadlineExtension{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("%d deadline extensions left after instructor cascade", count)
	}

	// Unknown instructor fails silently.
	if err := l.Instructors.DeleteInstructorCascade(ctx, "cs1101", "ghost@gmail.com"); err != nil {
		t.Errorf("cascade delete of unknown instructor returned %v, want nil", err)
	}
}

func TestGetCoursesForInstructorAccount(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := newSessionContext(t, db)
	l := newLogic(t)

	mustCreateAccount(t, ctx, l, "acct-1", "adam@gmail.com")
	for _, id := range []string{"cs1101", "cs2103"} {
		course := attributes.NewCourseAttributes(id, "X", "UTC", "")
		if err := l.Courses.CreateCourseAndInstructor(ctx, "acct-1", course); err != nil {
			t.Fatal(err)
		}
	}

	courses, err := l.Courses.GetCoursesForInstructorAccount(ctx, "acct-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(courses) != 2 {
		t.Errorf("account teaches %d courses, want 2", len(courses))
	}
}

func TestCalculateUsageStatistics(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := newSessionContext(t, db)
	l := newLogic(t)

	if _, err := l.Instructors.CreateInstructor(ctx,
		attributes.NewInstructorAttributes("cs1101", "adam@gmail.com", "Adam")); err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	stats, err := l.Users.CalculateUsageStatistics(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if stats.NumInstructors != 1 || stats.NumStudents != 0 {
		t.Errorf("stats = %+v, want 1 instructor and 0 students", stats)
	}

	empty, err := l.Users.CalculateUsageStatistics(ctx, now.Add(-2*time.Hour), now.Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if empty.NumInstructors != 0 {
		t.Errorf("out-of-window count = %d, want 0", empty.NumInstructors)
	}
}
