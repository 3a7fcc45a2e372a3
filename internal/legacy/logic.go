package legacy

import (
	"context"

	"anoa.com/peerreview/internal/attributes"
)

// Logic is the legacy-side counterpart of the relational logic layer. It
// serves reads for entities still owned by the document store and cascades
// deletes there, converting documents to the shared attribute types at the
// boundary.
type Logic struct {
	store *Store
}

func NewLogic(store *Store) *Logic {
	return &Logic{store: store}
}

// Store exposes the underlying document store for migration tooling.
func (l *Logic) Store() *Store {
	return l.store
}

// GetCourse gets a legacy course as attributes, nil if absent.
func (l *Logic) GetCourse(ctx context.Context, courseID string) (*attributes.CourseAttributes, error) {
	doc, err := l.store.GetCourse(ctx, courseID)
	if err != nil || doc == nil {
		return nil, err
	}
	return courseAttributesOfDoc(doc), nil
}

// GetCourseInstitute gets the institute of a legacy course, "" if absent.
func (l *Logic) GetCourseInstitute(ctx context.Context, courseID string) (string, error) {
	doc, err := l.store.GetCourse(ctx, courseID)
	if err != nil || doc == nil {
		return "", err
	}
	return doc.Institute, nil
}

// GetInstructor gets a legacy instructor as attributes, nil if absent.
func (l *Logic) GetInstructor(ctx context.Context, courseID, email string) (*attributes.InstructorAttributes, error) {
	doc, err := l.store.GetInstructor(ctx, courseID, email)
	if err != nil || doc == nil {
		return nil, err
	}
	return instructorAttributesOfDoc(doc), nil
}

// GetInstructorsForCourse gets the legacy instructors of a course sorted by
// name.
func (l *Logic) GetInstructorsForCourse(ctx context.Context, courseID string) ([]*attributes.InstructorAttributes, error) {
	docs, err := l.store.GetInstructorsForCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	instructors := make([]*attributes.InstructorAttributes, 0, len(docs))
	for _, doc := range docs {
		instructors = append(instructors, instructorAttributesOfDoc(doc))
	}
	attributes.SortInstructorsByName(instructors)
	return instructors, nil
}

// GetFeedbackSessionsForCourse gets the legacy sessions of a course.
func (l *Logic) GetFeedbackSessionsForCourse(ctx context.Context, courseID string) ([]*FeedbackSessionDoc, error) {
	return l.store.GetFeedbackSessionsForCourse(ctx, courseID)
}

// UpdateSessionTimeZonesForCourse cascades a course timezone change to the
// legacy sessions.
func (l *Logic) UpdateSessionTimeZonesForCourse(ctx context.Context, courseID, timeZone string) error {
	return l.store.UpdateTimeZoneForCourse(ctx, courseID, timeZone)
}

// DeleteCourseCascade removes a legacy course with everything under it,
// leaves first.
func (l *Logic) DeleteCourseCascade(ctx context.Context, courseID string) error {
	if err := l.store.DeleteFeedbackSessionsForCourse(ctx, courseID); err != nil {
		return err
	}
	if err := l.store.DeleteStudentsForCourse(ctx, courseID); err != nil {
		return err
	}
	if err := l.store.DeleteInstructorsForCourse(ctx, courseID); err != nil {
		return err
	}
	return l.store.DeleteCourse(ctx, courseID)
}

func courseAttributesOfDoc(doc *CourseDoc) *attributes.CourseAttributes {
	return &attributes.CourseAttributes{
		ID:        doc.ID,
		Name:      doc.Name,
		TimeZone:  doc.TimeZone,
		Institute: doc.Institute,
		CreatedAt: doc.CreatedAt,
		DeletedAt: doc.DeletedAt,
	}
}

func instructorAttributesOfDoc(doc *InstructorDoc) *attributes.InstructorAttributes {
	a := &attributes.InstructorAttributes{
		CourseID:              doc.CourseID,
		Email:                 doc.Email,
		Name:                  doc.Name,
		IsArchived:            doc.IsArchived,
		Role:                  doc.Role,
		IsDisplayedToStudents: doc.IsDisplayedToStudents,
		DisplayedName:         doc.DisplayedName,
		Privileges:            doc.Privileges,
		RegistrationKey:       doc.RegistrationKey,
		CreatedAt:             doc.CreatedAt,
	}
	if doc.GoogleID != "" {
		googleID := doc.GoogleID
		a.AccountID = &googleID
	}
	return a
}
