package model

import "encoding/json"

// Instructor permission roles.
const (
	RoleCoOwner  = "Co-owner"
	RoleManager  = "Manager"
	RoleObserver = "Observer"
	RoleTutor    = "Tutor"
	RoleCustom   = "Custom"
)

// DefaultDisplayedName is used for instructors that never chose one.
const DefaultDisplayedName = "Instructor"

// InstructorPrivileges is the permission set persisted as JSON text on the
// instructors row.
type InstructorPrivileges struct {
	CanModifyCourse                    bool `json:"canModifyCourse"`
	CanModifyInstructor                bool `json:"canModifyInstructor"`
	CanModifySession                   bool `json:"canModifySession"`
	CanModifyStudent                   bool `json:"canModifyStudent"`
	CanViewStudentInSections           bool `json:"canViewStudentInSections"`
	CanViewSessionInSections           bool `json:"canViewSessionInSections"`
	CanSubmitSessionInSections         bool `json:"canSubmitSessionInSections"`
	CanModifySessionCommentsInSections bool `json:"canModifySessionCommentsInSections"`
}

// PrivilegesForRole returns the default permission set of a role.
func PrivilegesForRole(role string) InstructorPrivileges {
	switch role {
	case RoleCoOwner:
		return InstructorPrivileges{
			CanModifyCourse:                    true,
			CanModifyInstructor:                true,
			CanModifySession:                   true,
			CanModifyStudent:                   true,
			CanViewStudentInSections:           true,
			CanViewSessionInSections:           true,
			CanSubmitSessionInSections:         true,
			CanModifySessionCommentsInSections: true,
		}
	case RoleManager:
		return InstructorPrivileges{
			CanModifyInstructor:                true,
			CanModifySession:                   true,
			CanModifyStudent:                   true,
			CanViewStudentInSections:           true,
			CanViewSessionInSections:           true,
			CanSubmitSessionInSections:         true,
			CanModifySessionCommentsInSections: true,
		}
	case RoleObserver:
		return InstructorPrivileges{
			CanViewStudentInSections: true,
			CanViewSessionInSections: true,
		}
	case RoleTutor:
		return InstructorPrivileges{
			CanViewStudentInSections:   true,
			CanViewSessionInSections:   true,
			CanSubmitSessionInSections: true,
		}
	default:
		return InstructorPrivileges{}
	}
}

// Encode marshals the privileges to the JSON text stored on the row.
func (p InstructorPrivileges) Encode() string {
	raw, err := json.Marshal(p)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

// DecodePrivileges unmarshals the stored JSON text. Unknown or empty text
// yields the zero permission set.
func DecodePrivileges(text string) InstructorPrivileges {
	var p InstructorPrivileges
	if text == "" {
		return p
	}
	_ = json.Unmarshal([]byte(text), &p)
	return p
}
