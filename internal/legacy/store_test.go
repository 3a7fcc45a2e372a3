package legacy_test

import (
	"context"
	"testing"
	"time"

	"anoa.com/peerreview/internal/legacy"
	"anoa.com/peerreview/internal/model"
	"anoa.com/peerreview/internal/testutil"
)

func newTestStore(t *testing.T) *legacy.Store {
	t.Helper()
	return legacy.NewStore(testutil.OpenTestRedis(t))
}

func putTestCourse(t *testing.T, store *legacy.Store, courseID string) {
	t.Helper()

	err := store.PutCourse(context.Background(), &legacy.CourseDoc{
		ID:        courseID,
		Name:      "Programming Methodology",
		TimeZone:  "UTC",
		Institute: "NUS",
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("putting course %s: %v", courseID, err)
	}
}

func TestCourseRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	putTestCourse(t, store, "legacy.cs1101")

	course, err := store.GetCourse(ctx, "legacy.cs1101")
	if err != nil {
		t.Fatal(err)
	}
	if course == nil {
		t.Fatal("stored course not found")
	}
	if course.Name != "Programming Methodology" || course.Institute != "NUS" {
		t.Errorf("round-tripped course = %+v", course)
	}

	missing, err := store.GetCourse(ctx, "ghost")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Errorf("unknown course id resolved to %+v, want nil", missing)
	}

	if err := store.DeleteCourse(ctx, "legacy.cs1101"); err != nil {
		t.Fatal(err)
	}
	deleted, err := store.GetCourse(ctx, "legacy.cs1101")
	if err != nil {
		t.Fatal(err)
	}
	if deleted != nil {
		t.Error("course still readable after delete")
	}
}

func TestInstructorMembership(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, email := range []string{"adam@gmail.com", "beth@gmail.com"} {
		err := store.PutInstructor(ctx, &legacy.InstructorDoc{
			CourseID:              "legacy.cs1101",
			Email:                 email,
			Name:                  "Instructor",
			Role:                  model.RoleCoOwner,
			IsDisplayedToStudents: true,
			DisplayedName:         model.DefaultDisplayedName,
			Privileges:            model.PrivilegesForRole(model.RoleCoOwner),
			CreatedAt:             time.Now().UTC(),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	instructors, err := store.GetInstructorsForCourse(ctx, "legacy.cs1101")
	if err != nil {
		t.Fatal(err)
	}
	if len(instructors) != 2 {
		t.Fatalf("course lists %d instructors, want 2", len(instructors))
	}

	if err := store.DeleteInstructor(ctx, "legacy.cs1101", "adam@gmail.com"); err != nil {
		t.Fatal(err)
	}
	instructors, err = store.GetInstructorsForCourse(ctx, "legacy.cs1101")
	if err != nil {
		t.Fatal(err)
	}
	if len(instructors) != 1 || instructors[0].Email != "beth@gmail.com" {
		t.Errorf("after delete, course lists %d instructors", len(instructors))
	}

	if err := store.DeleteInstructorsForCourse(ctx, "legacy.cs1101"); err != nil {
		t.Fatal(err)
	}
	instructors, err = store.GetInstructorsForCourse(ctx, "legacy.cs1101")
	if err != nil {
		t.Fatal(err)
	}
	if len(instructors) != 0 {
		t.Errorf("bulk delete left %d instructors behind", len(instructors))
	}
}

func TestStudentRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.PutStudent(ctx, &legacy.StudentDoc{
		CourseID:        "legacy.cs1101",
		Email:           "stu@gmail.com",
		Name:            "Stu",
		Team:            "Team 1",
		Section:         "A",
		RegistrationKey: "k-stu",
		CreatedAt:       time.Now().UTC(),
	})
	if err != nil {
		t.Fatal(err)
	}

	student, err := store.GetStudent(ctx, "legacy.cs1101", "stu@gmail.com")
	if err != nil {
		t.Fatal(err)
	}
	if student == nil || student.Team != "Team 1" {
		t.Errorf("round-tripped student = %+v", student)
	}

	students, err := store.GetStudentsForCourse(ctx, "legacy.cs1101")
	if err != nil {
		t.Fatal(err)
	}
	if len(students) != 1 {
		t.Fatalf("course lists %d students, want 1", len(students))
	}
}

func TestUpdateTimeZoneForCourse(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Midterm Feedback", "Final Feedback"} {
		err := store.PutFeedbackSession(ctx, &legacy.FeedbackSessionDoc{
			CourseID:  "legacy.cs1101",
			Name:      name,
			TimeZone:  "UTC",
			StartTime: time.Now().UTC(),
			EndTime:   time.Now().UTC().Add(time.Hour),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	if err := store.UpdateTimeZoneForCourse(ctx, "legacy.cs1101", "Asia/Singapore"); err != nil {
		t.Fatal(err)
	}

	sessions, err := store.GetFeedbackSessionsForCourse(ctx, "legacy.cs1101")
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Fatalf("course lists %d sessions, want 2", len(sessions))
	}
	for _, session := range sessions {
		if session.TimeZone != "Asia/Singapore" {
			t.Errorf("session %s timezone = %q after update", session.Name, session.TimeZone)
		}
	}
}

func TestLogicDeleteCourseCascade(t *testing.T) {
	store := newTestStore(t)
	l := legacy.NewLogic(store)
	ctx := context.Background()

	putTestCourse(t, store, "legacy.cs1101")
	if err := store.PutInstructor(ctx, &legacy.InstructorDoc{
		CourseID: "legacy.cs1101", Email: "adam@gmail.com", Name: "Adam",
		Role: model.RoleCoOwner, Privileges: model.PrivilegesForRole(model.RoleCoOwner),
	}); err != nil {
		t.Fatal(err)
	}
	if err := store.PutStudent(ctx, &legacy.StudentDoc{
		CourseID: "legacy.cs1101", Email: "stu@gmail.com", Name: "Stu", RegistrationKey: "k",
	}); err != nil {
		t.Fatal(err)
	}
	if err := store.PutFeedbackSession(ctx, &legacy.FeedbackSessionDoc{
		CourseID: "legacy.cs1101", Name: "S1", TimeZone: "UTC",
	}); err != nil {
		t.Fatal(err)
	}

	if err := l.DeleteCourseCascade(ctx, "legacy.cs1101"); err != nil {
		t.Fatal(err)
	}

	if course, _ := store.GetCourse(ctx, "legacy.cs1101"); course != nil {
		t.Error("course survived the cascade")
	}
	if instructors, _ := store.GetInstructorsForCourse(ctx, "legacy.cs1101"); len(instructors) != 0 {
		t.Error("instructors survived the cascade")
	}
	if students, _ := store.GetStudentsForCourse(ctx, "legacy.cs1101"); len(students) != 0 {
		t.Error("students survived the cascade")
	}
	if sessions, _ := store.GetFeedbackSessionsForCourse(ctx, "legacy.cs1101"); len(sessions) != 0 {
		t.Error("feedback sessions survived the cascade")
	}
}

func TestLogicInstructorConversion(t *testing.T) {
	store := newTestStore(t)
	l := legacy.NewLogic(store)
	ctx := context.Background()

	if err := store.PutInstructor(ctx, &legacy.InstructorDoc{
		CourseID:              "legacy.cs1101",
		Email:                 "adam@gmail.com",
		Name:                  "Adam",
		GoogleID:              "adam-google",
		Role:                  model.RoleManager,
		IsDisplayedToStudents: true,
		DisplayedName:         "Prof Adam",
		Privileges:            model.PrivilegesForRole(model.RoleManager),
	}); err != nil {
		t.Fatal(err)
	}

	instructor, err := l.GetInstructor(ctx, "legacy.cs1101", "adam@gmail.com")
	if err != nil {
		t.Fatal(err)
	}
	if instructor == nil {
		t.Fatal("legacy instructor not found through logic")
	}
	if instructor.AccountID == nil || *instructor.AccountID != "adam-google" {
		t.Error("google id was not carried into the account linkage")
	}
	if instructor.Role != model.RoleManager || instructor.DisplayedName != "Prof Adam" {
		t.Errorf("converted instructor = %+v", instructor)
	}

	unlinked, err := l.GetInstructor(ctx, "legacy.cs1101", "ghost@gmail.com")
	if err != nil {
		t.Fatal(err)
	}
	if unlinked != nil {
		t.Error("unknown instructor resolved to a document")
	}
}
