package repository_test

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"anoa.com/peerreview/internal/attributes"
	"anoa.com/peerreview/internal/repository"
	"anoa.com/peerreview/internal/testutil"
	"anoa.com/peerreview/internal/uow"
)

// newSessionContext opens one unit of work for the whole test and rolls it
// back on cleanup, matching how a request would see the repositories.
func newSessionContext(t *testing.T, db *gorm.DB) context.Context {
	t.Helper()

	ctx, unit, err := uow.Begin(context.Background(), db)
	if err != nil {
		t.Fatalf("beginning unit of work: %v", err)
	}
	t.Cleanup(func() { unit.Rollback() })
	return ctx
}

func newInstructorsRepo(t *testing.T) *repository.InstructorsRepository {
	t.Helper()
	return repository.NewInstructorsRepository(testutil.NewTestEncrypter(t))
}

func mustCreateCourse(t *testing.T, ctx context.Context, repo *repository.CoursesRepository, id string) *attributes.CourseAttributes {
	t.Helper()

	course, err := repo.CreateCourse(ctx, attributes.NewCourseAttributes(id, "Programming Methodology", "UTC", "NUS"))
	if err != nil {
		t.Fatalf("creating course %s: %v", id, err)
	}
	return course
}

func mustCreateInstructor(t *testing.T, ctx context.Context, repo *repository.InstructorsRepository, courseID, email string) *attributes.InstructorAttributes {
	t.Helper()

	instructor, err := repo.CreateInstructor(ctx, attributes.NewInstructorAttributes(courseID, email, "Adam"))
	if err != nil {
		t.Fatalf("creating instructor %s in %s: %v", email, courseID, err)
	}
	return instructor
}
