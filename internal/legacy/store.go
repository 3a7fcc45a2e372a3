// Package legacy accesses the pre-migration document store. Entities not yet
// migrated to the relational schema still live here as JSON documents in
// redis, one document per entity plus a membership set per course.
package legacy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"anoa.com/peerreview/internal/model"
)

// CourseDoc is the stored shape of a not-yet-migrated course.
type CourseDoc struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	TimeZone  string     `json:"timeZone"`
	Institute string     `json:"institute"`
	CreatedAt time.Time  `json:"createdAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// InstructorDoc is the stored shape of a not-yet-migrated instructor. The
// account linkage is still the raw google id here.
type InstructorDoc struct {
	CourseID              string                     `json:"courseId"`
	Email                 string                     `json:"email"`
	Name                  string                     `json:"name"`
	GoogleID              string                     `json:"googleId,omitempty"`
	IsArchived            bool                       `json:"isArchived"`
	Role                  string                     `json:"role"`
	IsDisplayedToStudents bool                       `json:"isDisplayedToStudents"`
	DisplayedName         string                     `json:"displayedName"`
	RegistrationKey       string                     `json:"key"`
	Privileges            model.InstructorPrivileges `json:"privileges"`
	CreatedAt             time.Time                  `json:"createdAt"`
}

// StudentDoc is the stored shape of a not-yet-migrated student.
type StudentDoc struct {
	CourseID        string    `json:"courseId"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	GoogleID        string    `json:"googleId,omitempty"`
	Team            string    `json:"team"`
	Section         string    `json:"section"`
	Comments        string    `json:"comments,omitempty"`
	RegistrationKey string    `json:"key"`
	CreatedAt       time.Time `json:"createdAt"`
}

// FeedbackSessionDoc is the stored shape of a not-yet-migrated feedback
// session, keyed by (courseId, name).
type FeedbackSessionDoc struct {
	CourseID  string    `json:"courseId"`
	Name      string    `json:"name"`
	TimeZone  string    `json:"timeZone"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store reads and writes the legacy documents.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func courseKey(courseID string) string { return "legacy:course:" + courseID }

func instructorKey(courseID, email string) string {
	return fmt.Sprintf("legacy:instructor:%s:%s", courseID, email)
}

func studentKey(courseID, email string) string {
	return fmt.Sprintf("legacy:student:%s:%s", courseID, email)
}

func sessionKey(courseID, name string) string {
	return fmt.Sprintf("legacy:session:%s:%s", courseID, name)
}

func courseInstructorsKey(courseID string) string { return courseKey(courseID) + ":instructors" }
func courseStudentsKey(courseID string) string    { return courseKey(courseID) + ":students" }
func courseSessionsKey(courseID string) string    { return courseKey(courseID) + ":sessions" }

func (s *Store) putDoc(ctx context.Context, key string, doc any) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, payload, 0).Err()
}

// getDoc loads a document into out; found is false when the key is absent.
func (s *Store) getDoc(ctx context.Context, key string, out any) (bool, error) {
	payload, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(payload, out)
}

// PutCourse stores a course document.
func (s *Store) PutCourse(ctx context.Context, doc *CourseDoc) error {
	return s.putDoc(ctx, courseKey(doc.ID), doc)
}

// GetCourse gets a course document, nil if absent.
func (s *Store) GetCourse(ctx context.Context, courseID string) (*CourseDoc, error) {
	var doc CourseDoc
	found, err := s.getDoc(ctx, courseKey(courseID), &doc)
	if err != nil || !found {
		return nil, err
	}
	return &doc, nil
}

// DeleteCourse removes a course document. Its members are removed by the
// typed delete-for-course operations, leaves first.
func (s *Store) DeleteCourse(ctx context.Context, courseID string) error {
	return s.rdb.Del(ctx, courseKey(courseID)).Err()
}

// PutInstructor stores an instructor document and registers it with its
// course.
func (s *Store) PutInstructor(ctx context.Context, doc *InstructorDoc) error {
	if err := s.putDoc(ctx, instructorKey(doc.CourseID, doc.Email), doc); err != nil {
		return err
	}
	return s.rdb.SAdd(ctx, courseInstructorsKey(doc.CourseID), doc.Email).Err()
}

// GetInstructor gets an instructor document by (courseId, email), nil if
// absent.
func (s *Store) GetInstructor(ctx context.Context, courseID, email string) (*InstructorDoc, error) {
	var doc InstructorDoc
	found, err := s.getDoc(ctx, instructorKey(courseID, email), &doc)
	if err != nil || !found {
		return nil, err
	}
	return &doc, nil
}

// GetInstructorsForCourse gets all instructor documents of a course.
func (s *Store) GetInstructorsForCourse(ctx context.Context, courseID string) ([]*InstructorDoc, error) {
	emails, err := s.rdb.SMembers(ctx, courseInstructorsKey(courseID)).Result()
	if err != nil {
		return nil, err
	}
	docs := make([]*InstructorDoc, 0, len(emails))
	for _, email := range emails {
		doc, err := s.GetInstructor(ctx, courseID, email)
		if err != nil {
			return nil, err
		}
		if doc != nil {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// DeleteInstructor removes an instructor document and its course membership.
func (s *Store) DeleteInstructor(ctx context.Context, courseID, email string) error {
	if err := s.rdb.Del(ctx, instructorKey(courseID, email)).Err(); err != nil {
		return err
	}
	return s.rdb.SRem(ctx, courseInstructorsKey(courseID), email).Err()
}

// DeleteInstructorsForCourse removes all instructor documents of a course.
func (s *Store) DeleteInstructorsForCourse(ctx context.Context, courseID string) error {
	emails, err := s.rdb.SMembers(ctx, courseInstructorsKey(courseID)).Result()
	if err != nil {
		return err
	}
	for _, email := range emails {
		if err := s.rdb.Del(ctx, instructorKey(courseID, email)).Err(); err != nil {
			return err
		}
	}
	return s.rdb.Del(ctx, courseInstructorsKey(courseID)).Err()
}

// PutStudent stores a student document and registers it with its course.
func (s *Store) PutStudent(ctx context.Context, doc *StudentDoc) error {
	if err := s.putDoc(ctx, studentKey(doc.CourseID, doc.Email), doc); err != nil {
		return err
	}
	return s.rdb.SAdd(ctx, courseStudentsKey(doc.CourseID), doc.Email).Err()
}

// GetStudent gets a student document by (courseId, email), nil if absent.
func (s *Store) GetStudent(ctx context.Context, courseID, email string) (*StudentDoc, error) {
	var doc StudentDoc
	found, err := s.getDoc(ctx, studentKey(courseID, email), &doc)
	if err != nil || !found {
		return nil, err
	}
	return &doc, nil
}

// GetStudentsForCourse gets all student documents of a course.
func (s *Store) GetStudentsForCourse(ctx context.Context, courseID string) ([]*StudentDoc, error) {
	emails, err := s.rdb.SMembers(ctx, courseStudentsKey(courseID)).Result()
	if err != nil {
		return nil, err
	}
	docs := make([]*StudentDoc, 0, len(emails))
	for _, email := range emails {
		doc, err := s.GetStudent(ctx, courseID, email)
		if err != nil {
			return nil, err
		}
		if doc != nil {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// DeleteStudentsForCourse removes all student documents of a course.
func (s *Store) DeleteStudentsForCourse(ctx context.Context, courseID string) error {
	emails, err := s.rdb.SMembers(ctx, courseStudentsKey(courseID)).Result()
	if err != nil {
		return err
	}
	for _, email := range emails {
		if err := s.rdb.Del(ctx, studentKey(courseID, email)).Err(); err != nil {
			return err
		}
	}
	return s.rdb.Del(ctx, courseStudentsKey(courseID)).Err()
}

// PutFeedbackSession stores a session document and registers it with its
// course.
func (s *Store) PutFeedbackSession(ctx context.Context, doc *FeedbackSessionDoc) error {
	if err := s.putDoc(ctx, sessionKey(doc.CourseID, doc.Name), doc); err != nil {
		return err
	}
	return s.rdb.SAdd(ctx, courseSessionsKey(doc.CourseID), doc.Name).Err()
}

// GetFeedbackSession gets a session document by (courseId, name), nil if
// absent.
func (s *Store) GetFeedbackSession(ctx context.Context, courseID, name string) (*FeedbackSessionDoc, error) {
	var doc FeedbackSessionDoc
	found, err := s.getDoc(ctx, sessionKey(courseID, name), &doc)
	if err != nil || !found {
		return nil, err
	}
	return &doc, nil
}

// GetFeedbackSessionsForCourse gets all session documents of a course.
func (s *Store) GetFeedbackSessionsForCourse(ctx context.Context, courseID string) ([]*FeedbackSessionDoc, error) {
	names, err := s.rdb.SMembers(ctx, courseSessionsKey(courseID)).Result()
	if err != nil {
		return nil, err
	}
	docs := make([]*FeedbackSessionDoc, 0, len(names))
	for _, name := range names {
		doc, err := s.GetFeedbackSession(ctx, courseID, name)
		if err != nil {
			return nil, err
		}
		if doc != nil {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// UpdateTimeZoneForCourse rewrites the timezone of every session document
// of a course.
func (s *Store) UpdateTimeZoneForCourse(ctx context.Context, courseID, timeZone string) error {
	docs, err := s.GetFeedbackSessionsForCourse(ctx, courseID)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		doc.TimeZone = timeZone
		if err := s.PutFeedbackSession(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

// DeleteFeedbackSessionsForCourse removes all session documents of a course.
func (s *Store) DeleteFeedbackSessionsForCourse(ctx context.Context, courseID string) error {
	names, err := s.rdb.SMembers(ctx, courseSessionsKey(courseID)).Result()
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := s.rdb.Del(ctx, sessionKey(courseID, name)).Err(); err != nil {
			return err
		}
	}
	return s.rdb.Del(ctx, courseSessionsKey(courseID)).Err()
}
