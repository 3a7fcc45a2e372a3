package attributes

import (
	"fmt"
	"strings"
	"time"

	"anoa.com/peerreview/internal/model"
	"anoa.com/peerreview/pkg/validator"
)

const defaultTimeZone = "UTC"

// CourseAttributes is the validated value object for a course, the only
// course shape exposed above the repository layer.
type CourseAttributes struct {
	ID        string `validate:"required,max=64,courseid"`
	Name      string `validate:"required,max=80"`
	TimeZone  string `validate:"required,timezone_name"`
	Institute string `validate:"max=128"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// NewCourseAttributes builds attributes for a course that does not exist yet.
func NewCourseAttributes(id, name, timeZone, institute string) *CourseAttributes {
	return &CourseAttributes{
		ID:        id,
		Name:      name,
		TimeZone:  timeZone,
		Institute: institute,
	}
}

// CourseAttributesOf converts a stored entity to attributes.
func CourseAttributesOf(e *model.Course) *CourseAttributes {
	return &CourseAttributes{
		ID:        e.ID,
		Name:      e.Name,
		TimeZone:  e.TimeZone,
		Institute: e.Institute,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
		DeletedAt: e.DeletedAt,
	}
}

// CourseAttributesOrNil converts a possibly-nil entity.
func CourseAttributesOrNil(e *model.Course) *CourseAttributes {
	if e == nil {
		return nil
	}
	return CourseAttributesOf(e)
}

// SanitizeForSaving trims the identity and text fields and fills defaults.
func (a *CourseAttributes) SanitizeForSaving() {
	a.ID = strings.TrimSpace(a.ID)
	a.Name = strings.TrimSpace(a.Name)
	a.Institute = strings.TrimSpace(a.Institute)
	a.TimeZone = strings.TrimSpace(a.TimeZone)
	if a.TimeZone == "" {
		a.TimeZone = defaultTimeZone
	}
}

// InvalidityInfo returns the human-readable validation failures, or nil.
func (a *CourseAttributes) InvalidityInfo() []string {
	return validator.Struct(a)
}

// IsValid reports whether the attributes pass validation.
func (a *CourseAttributes) IsValid() bool {
	return len(a.InvalidityInfo()) == 0
}

// ToEntity converts the attributes to a storable entity.
func (a *CourseAttributes) ToEntity() *model.Course {
	return model.NewCourse(a.ID, a.Name, a.TimeZone, a.Institute, a.DeletedAt)
}

// Copy returns an independent copy of the attributes.
func (a *CourseAttributes) Copy() *CourseAttributes {
	clone := *a
	return &clone
}

// IsInRecycleBin reports whether the course has been soft-deleted.
func (a *CourseAttributes) IsInRecycleBin() bool {
	return a.DeletedAt != nil
}

// Update projects the set fields of opts onto the attributes.
func (a *CourseAttributes) Update(opts CourseUpdateOptions) {
	if opts.Name != nil {
		a.Name = *opts.Name
	}
	if opts.TimeZone != nil {
		a.TimeZone = *opts.TimeZone
	}
	if opts.Institute != nil {
		a.Institute = *opts.Institute
	}
}

// CourseUpdateOptions addresses a course by primary id; nil fields are left
// untouched by the update.
type CourseUpdateOptions struct {
	CourseID  string
	Name      *string
	TimeZone  *string
	Institute *string
}

func (o CourseUpdateOptions) String() string {
	var parts []string
	if o.Name != nil {
		parts = append(parts, "name="+*o.Name)
	}
	if o.TimeZone != nil {
		parts = append(parts, "timezone="+*o.TimeZone)
	}
	if o.Institute != nil {
		parts = append(parts, "institute="+*o.Institute)
	}
	return fmt.Sprintf("course %s {%s}", o.CourseID, strings.Join(parts, ", "))
}
