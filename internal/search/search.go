// Package search mirrors courses and instructors into Meilisearch. Indexing
// is best effort: callers log failures and move on, the stores stay the
// source of truth.
package search

import (
	"log"

	"github.com/meilisearch/meilisearch-go"

	"anoa.com/peerreview/internal/attributes"
)

type SearchService interface {
	IndexCourse(course *attributes.CourseAttributes) error
	IndexInstructor(instructor *attributes.InstructorAttributes) error
	DeleteCourse(courseID string) error
	DeleteInstructor(courseID, email string) error
}

type meiliSearchService struct {
	client meilisearch.ServiceManager
}

func NewMeiliSearchService(client meilisearch.ServiceManager) SearchService {
	s := &meiliSearchService{client: client}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	courseFilterable := []string{"institute"}
	courseFilterableInterface := make([]any, len(courseFilterable))
	for i, v := range courseFilterable {
		courseFilterableInterface[i] = v
	}
	_, err := s.client.Index("courses").UpdateFilterableAttributes(&courseFilterableInterface)
	if err != nil {
		log.Printf("Failed to update courses filterable attributes: %v", err)
	}

	courseSortable := []string{"created_at"}
	_, err = s.client.Index("courses").UpdateSortableAttributes(&courseSortable)
	if err != nil {
		log.Printf("Failed to update courses sortable attributes: %v", err)
	}

	instructorFilterable := []string{"course_id", "role"}
	instructorFilterableInterface := make([]any, len(instructorFilterable))
	for i, v := range instructorFilterable {
		instructorFilterableInterface[i] = v
	}
	_, err = s.client.Index("instructors").UpdateFilterableAttributes(&instructorFilterableInterface)
	if err != nil {
		log.Printf("Failed to update instructors filterable attributes: %v", err)
	}

	log.Println("Meilisearch indexes initialized")
}

type meiliCourseDoc struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Institute string `json:"institute"`
	TimeZone  string `json:"time_zone"`
	CreatedAt int64  `json:"created_at"`
}

type meiliInstructorDoc struct {
	ID            string `json:"id"`
	CourseID      string `json:"course_id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	DisplayedName string `json:"displayed_name"`
}

func (s *meiliSearchService) IndexCourse(course *attributes.CourseAttributes) error {
	doc := meiliCourseDoc{
		ID:        course.ID,
		Name:      course.Name,
		Institute: course.Institute,
		TimeZone:  course.TimeZone,
		CreatedAt: course.CreatedAt.Unix(),
	}
	_, err := s.client.Index("courses").AddDocuments([]meiliCourseDoc{doc}, strPtr("id"))
	return err
}

func (s *meiliSearchService) IndexInstructor(instructor *attributes.InstructorAttributes) error {
	doc := meiliInstructorDoc{
		ID:            instructorDocID(instructor.CourseID, instructor.Email),
		CourseID:      instructor.CourseID,
		Email:         instructor.Email,
		Name:          instructor.Name,
		Role:          instructor.Role,
		DisplayedName: instructor.DisplayedName,
	}
	_, err := s.client.Index("instructors").AddDocuments([]meiliInstructorDoc{doc}, strPtr("id"))
	return err
}

func (s *meiliSearchService) DeleteCourse(courseID string) error {
	_, err := s.client.Index("courses").DeleteDocument(courseID)
	return err
}

func (s *meiliSearchService) DeleteInstructor(courseID, email string) error {
	_, err := s.client.Index("instructors").DeleteDocument(instructorDocID(courseID, email))
	return err
}

// instructorDocID keeps the document id free of characters Meilisearch
// rejects in primary keys.
func instructorDocID(courseID, email string) string {
	id := email + "--" + courseID
	out := make([]rune, 0, len(id))
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

func strPtr(s string) *string {
	return &s
}

// NoopSearchService satisfies SearchService without a Meilisearch backend,
// used in tests and when search is not configured.
type NoopSearchService struct{}

func (NoopSearchService) IndexCourse(*attributes.CourseAttributes) error         { return nil }
func (NoopSearchService) IndexInstructor(*attributes.InstructorAttributes) error { return nil }
func (NoopSearchService) DeleteCourse(string) error                              { return nil }
func (NoopSearchService) DeleteInstructor(string, string) error                  { return nil }
