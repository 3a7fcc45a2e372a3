package attributes

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"anoa.com/peerreview/internal/model"
	"anoa.com/peerreview/pkg/validator"
)

// InstructorAttributes is the validated value object for an instructor.
// UniqueID() is derived, never stored, so the identity invariant
// uniqueId == email + "%" + courseId holds by construction.
type InstructorAttributes struct {
	CourseID              string `validate:"required,max=64,courseid"`
	Email                 string `validate:"required,email,max=254"`
	Name                  string `validate:"required,max=100"`
	AccountID             *string
	IsArchived            bool
	Role                  string `validate:"required,oneof=Co-owner Manager Observer Tutor Custom"`
	IsDisplayedToStudents bool
	DisplayedName         string `validate:"required,max=100"`
	Privileges            model.InstructorPrivileges
	RegistrationKey       string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NewInstructorAttributes builds attributes for a new instructor with the
// defaults of the co-owner role.
func NewInstructorAttributes(courseID, email, name string) *InstructorAttributes {
	return &InstructorAttributes{
		CourseID:              courseID,
		Email:                 email,
		Name:                  name,
		Role:                  model.RoleCoOwner,
		IsDisplayedToStudents: true,
		DisplayedName:         model.DefaultDisplayedName,
		Privileges:            model.PrivilegesForRole(model.RoleCoOwner),
	}
}

// InstructorAttributesOf converts a stored entity to attributes.
func InstructorAttributesOf(e *model.Instructor) *InstructorAttributes {
	return &InstructorAttributes{
		CourseID:              e.CourseID,
		Email:                 e.Email,
		Name:                  e.Name,
		AccountID:             e.AccountID,
		IsArchived:            e.IsArchived,
		Role:                  e.Role,
		IsDisplayedToStudents: e.IsDisplayedToStudents,
		DisplayedName:         e.DisplayedName,
		Privileges:            model.DecodePrivileges(e.PrivilegesText),
		RegistrationKey:       e.RegistrationKey,
		CreatedAt:             e.CreatedAt,
		UpdatedAt:             e.UpdatedAt,
	}
}

// InstructorAttributesOrNil converts a possibly-nil entity.
func InstructorAttributesOrNil(e *model.Instructor) *InstructorAttributes {
	if e == nil {
		return nil
	}
	return InstructorAttributesOf(e)
}

// UniqueID returns the composite identity email%courseId.
func (a *InstructorAttributes) UniqueID() string {
	return model.GenerateInstructorID(a.Email, a.CourseID)
}

// IsRegistered reports whether the instructor has linked an account.
func (a *InstructorAttributes) IsRegistered() bool {
	return a.AccountID != nil && *a.AccountID != ""
}

// SanitizeForSaving trims text fields and fills role-dependent defaults.
func (a *InstructorAttributes) SanitizeForSaving() {
	a.CourseID = strings.TrimSpace(a.CourseID)
	a.Email = strings.TrimSpace(a.Email)
	a.Name = strings.TrimSpace(a.Name)
	a.DisplayedName = strings.TrimSpace(a.DisplayedName)
	if a.Role == "" {
		a.Role = model.RoleCoOwner
		a.Privileges = model.PrivilegesForRole(a.Role)
	}
	if a.DisplayedName == "" {
		a.DisplayedName = model.DefaultDisplayedName
	}
	if a.AccountID != nil && strings.TrimSpace(*a.AccountID) == "" {
		a.AccountID = nil
	}
}

// InvalidityInfo returns the human-readable validation failures, or nil.
func (a *InstructorAttributes) InvalidityInfo() []string {
	return validator.Struct(a)
}

// IsValid reports whether the attributes pass validation.
func (a *InstructorAttributes) IsValid() bool {
	return len(a.InvalidityInfo()) == 0
}

// ToEntity converts the attributes to a storable entity. The registration
// key is left as-is; the repository generates one for new rows.
func (a *InstructorAttributes) ToEntity() *model.Instructor {
	return &model.Instructor{
		ID:                    a.UniqueID(),
		AccountID:             a.AccountID,
		CourseID:              a.CourseID,
		IsArchived:            a.IsArchived,
		Name:                  a.Name,
		Email:                 a.Email,
		RegistrationKey:       a.RegistrationKey,
		Role:                  a.Role,
		IsDisplayedToStudents: a.IsDisplayedToStudents,
		DisplayedName:         a.DisplayedName,
		PrivilegesText:        a.Privileges.Encode(),
	}
}

// Copy returns an independent copy of the attributes.
func (a *InstructorAttributes) Copy() *InstructorAttributes {
	clone := *a
	if a.AccountID != nil {
		accountID := *a.AccountID
		clone.AccountID = &accountID
	}
	return &clone
}

// UpdateWithEmail projects the set fields of an email-keyed update. The
// email itself is not mutable on this path.
func (a *InstructorAttributes) UpdateWithEmail(opts InstructorUpdateOptionsWithEmail) {
	if opts.Name != nil {
		a.Name = *opts.Name
	}
	if opts.AccountID != nil {
		a.AccountID = opts.AccountID
	}
	if opts.IsArchived != nil {
		a.IsArchived = *opts.IsArchived
	}
	if opts.Role != nil {
		a.Role = *opts.Role
	}
	if opts.IsDisplayedToStudents != nil {
		a.IsDisplayedToStudents = *opts.IsDisplayedToStudents
	}
	if opts.DisplayedName != nil {
		a.DisplayedName = *opts.DisplayedName
	}
	if opts.Privileges != nil {
		a.Privileges = *opts.Privileges
	}
}

// UpdateWithAccountID projects the set fields of an account-keyed update.
// The account id itself is not mutable on this path; the email is, which
// moves the row to a new composite id.
func (a *InstructorAttributes) UpdateWithAccountID(opts InstructorUpdateOptionsWithAccountID) {
	if opts.Name != nil {
		a.Name = *opts.Name
	}
	if opts.Email != nil {
		a.Email = *opts.Email
	}
	if opts.IsArchived != nil {
		a.IsArchived = *opts.IsArchived
	}
	if opts.Role != nil {
		a.Role = *opts.Role
	}
	if opts.IsDisplayedToStudents != nil {
		a.IsDisplayedToStudents = *opts.IsDisplayedToStudents
	}
	if opts.DisplayedName != nil {
		a.DisplayedName = *opts.DisplayedName
	}
	if opts.Privileges != nil {
		a.Privileges = *opts.Privileges
	}
}

// InstructorUpdateOptionsWithEmail addresses an instructor by
// (courseId, email); nil fields are left untouched.
type InstructorUpdateOptionsWithEmail struct {
	CourseID              string
	Email                 string
	Name                  *string
	AccountID             *string
	IsArchived            *bool
	Role                  *string
	IsDisplayedToStudents *bool
	DisplayedName         *string
	Privileges            *model.InstructorPrivileges
}

func (o InstructorUpdateOptionsWithEmail) String() string {
	return fmt.Sprintf("instructor %s", model.GenerateInstructorID(o.Email, o.CourseID))
}

// InstructorUpdateOptionsWithAccountID addresses an instructor by
// (courseId, accountId); nil fields are left untouched.
type InstructorUpdateOptionsWithAccountID struct {
	CourseID              string
	AccountID             string
	Name                  *string
	Email                 *string
	IsArchived            *bool
	Role                  *string
	IsDisplayedToStudents *bool
	DisplayedName         *string
	Privileges            *model.InstructorPrivileges
}

func (o InstructorUpdateOptionsWithAccountID) String() string {
	return fmt.Sprintf("instructor account %s in course %s", o.AccountID, o.CourseID)
}

// SortInstructorsByName orders instructors by name, then email.
func SortInstructorsByName(instructors []*InstructorAttributes) {
	sort.SliceStable(instructors, func(i, j int) bool {
		if instructors[i].Name != instructors[j].Name {
			return instructors[i].Name < instructors[j].Name
		}
		return instructors[i].Email < instructors[j].Email
	})
}
