package repository_test

import (
	"errors"
	"testing"
	"time"

	"anoa.com/peerreview/internal/attributes"
	"anoa.com/peerreview/internal/repository"
	"anoa.com/peerreview/internal/testutil"
	"anoa.com/peerreview/pkg/apperror"
)

func TestCreateAndGetCourse(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := newSessionContext(t, db)
	repo := repository.NewCoursesRepository()

	created, err := repo.CreateCourse(ctx, attributes.NewCourseAttributes("  cs1101  ", "Programming Methodology", "", "NUS"))
	if err != nil {
		t.Fatal(err)
	}
	if created.ID != "cs1101" {
		t.Errorf("stored id = %q, want trimmed", created.ID)
	}
	if created.TimeZone != "UTC" {
		t.Errorf("stored timezone = %q, want default", created.TimeZone)
	}

	got, err := repo.GetCourse(ctx, "cs1101")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Name != "Programming Methodology" {
		t.Errorf("GetCourse returned %+v", got)
	}

	missing, err := repo.GetCourse(ctx, "nope")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Errorf("GetCourse of unknown id returned %+v, want nil", missing)
	}
}

func TestCreateCourseRejectsInvalid(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := newSessionContext(t, db)
	repo := repository.NewCoursesRepository()

	_, err := repo.CreateCourse(ctx, attributes.NewCourseAttributes("cs 1101", "X", "UTC", ""))
	if !errors.Is(err, apperror.ErrInvalidParameters) {
		t.Errorf("create with bad id returned %v, want ErrInvalidParameters", err)
	}
}

func TestCreateCourseRejectsDuplicate(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := newSessionContext(t, db)
	repo := repository.NewCoursesRepository()

	mustCreateCourse(t, ctx, repo, "cs1101")
	_, err := repo.CreateCourse(ctx, attributes.NewCourseAttributes("cs1101", "Other", "UTC", ""))
	if !errors.Is(err, apperror.ErrEntityAlreadyExists) {
		t.Errorf("duplicate create returned %v, want ErrEntityAlreadyExists", err)
	}
}

func TestUpdateCourse(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := newSessionContext(t, db)
	repo := repository.NewCoursesRepository()

	mustCreateCourse(t, ctx, repo, "cs1101")

	name := "Programming Methodology II"
	tz := "Asia/Singapore"
	updated, err := repo.UpdateCourse(ctx, attributes.CourseUpdateOptions{
		CourseID: "cs1101",
		Name:     &name,
		TimeZone: &tz,
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != name || updated.TimeZone != tz {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.Institute != "NUS" {
		t.Errorf("unset field changed: institute = %q", updated.Institute)
	}
}

func TestUpdateCourseNotFound(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := newSessionContext(t, db)
	repo := repository.NewCoursesRepository()

	name := "X"
	_, err := repo.UpdateCourse(ctx, attributes.CourseUpdateOptions{CourseID: "nope", Name: &name})
	if !errors.Is(err, apperror.ErrEntityDoesNotExist) {
		t.Errorf("update of unknown course returned %v, want ErrEntityDoesNotExist", err)
	}
}

// A no-op update must not touch the row, so updatedAt stays stable.
func TestUpdateCourseSkipsNoopWrites(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := newSessionContext(t, db)
	repo := repository.NewCoursesRepository()

	created := mustCreateCourse(t, ctx, repo, "cs1101")

	sameName := created.Name
	updated, err := repo.UpdateCourse(ctx, attributes.CourseUpdateOptions{
		CourseID: "cs1101",
		Name:     &sameName,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !updated.UpdatedAt.Equal(created.UpdatedAt) {
		t.Errorf("updatedAt moved on a no-op update: %v -> %v", created.UpdatedAt, updated.UpdatedAt)
	}
}

func TestSoftDeleteAndRestoreCourse(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := newSessionContext(t, db)
	repo := repository.NewCoursesRepository()

	mustCreateCourse(t, ctx, repo, "cs1101")

	deletedAt, err := repo.SoftDeleteCourse(ctx, "cs1101")
	if err != nil {
		t.Fatal(err)
	}
	if deletedAt.IsZero() {
		t.Error("soft delete returned zero time")
	}

	binned, err := repo.GetCourse(ctx, "cs1101")
	if err != nil {
		t.Fatal(err)
	}
	if binned == nil || !binned.IsInRecycleBin() {
		t.Errorf("course not in recycle bin after soft delete: %+v", binned)
	}
	if !binned.DeletedAt.Equal(deletedAt) {
		t.Errorf("stored deletedAt %v != returned %v", binned.DeletedAt, deletedAt)
	}

	if err := repo.RestoreDeletedCourse(ctx, "cs1101"); err != nil {
		t.Fatal(err)
	}
	restored, err := repo.GetCourse(ctx, "cs1101")
	if err != nil {
		t.Fatal(err)
	}
	if restored.IsInRecycleBin() {
		t.Error("course still in recycle bin after restore")
	}
}

func TestDeleteCourseIsSilentWhenAbsent(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := newSessionContext(t, db)
	repo := repository.NewCoursesRepository()

	if err := repo.DeleteCourse(ctx, "nope"); err != nil {
		t.Errorf("delete of unknown course returned %v, want nil", err)
	}

	mustCreateCourse(t, ctx, repo, "cs1101")
	if err := repo.DeleteCourse(ctx, "cs1101"); err != nil {
		t.Fatal(err)
	}
	gone, err := repo.GetCourse(ctx, "cs1101")
	if err != nil {
		t.Fatal(err)
	}
	if gone != nil {
		t.Errorf("course still present after hard delete: %+v", gone)
	}
}

func TestGetCourses(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := newSessionContext(t, db)
	repo := repository.NewCoursesRepository()

	mustCreateCourse(t, ctx, repo, "cs1101")
	mustCreateCourse(t, ctx, repo, "cs2103")

	courses, err := repo.GetCourses(ctx, []string{"cs1101", "cs2103", "nope"})
	if err != nil {
		t.Fatal(err)
	}
	if len(courses) != 2 {
		t.Errorf("GetCourses returned %d courses, want 2", len(courses))
	}
}

func TestSoftDeleteTimestampIsUTC(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := newSessionContext(t, db)
	repo := repository.NewCoursesRepository()

	mustCreateCourse(t, ctx, repo, "cs1101")
	deletedAt, err := repo.SoftDeleteCourse(ctx, "cs1101")
	if err != nil {
		t.Fatal(err)
	}
	if deletedAt.Location() != time.UTC {
		t.Errorf("deletion timestamp location = %v, want UTC", deletedAt.Location())
	}
}
