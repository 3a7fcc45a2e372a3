package validator

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// courseIDPattern matches course ids: alphanumerics plus ".", "-", "_", "$".
var courseIDPattern = regexp.MustCompile(`^[a-zA-Z0-9.$_-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("courseid", func(fl validator.FieldLevel) bool {
		return courseIDPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("timezone_name", func(fl validator.FieldLevel) bool {
		_, err := time.LoadLocation(fl.Field().String())
		return err == nil
	})

	return v
}

// Struct validates a struct against its validate tags and returns the
// human-readable reasons for each failed field, or nil if the struct is valid.
func Struct(s interface{}) []string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	var reasons []string
	for _, fieldError := range validationErrors {
		reasons = append(reasons, getFieldErrorMessage(fieldError))
	}
	return reasons
}

// FormatValidationError flattens a validator error into one message string.
func FormatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, fieldError := range validationErrors {
			messages = append(messages, getFieldErrorMessage(fieldError))
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := getFieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The field '%s' is empty", field)
	case "email":
		return fmt.Sprintf("'%s' is not acceptable as an email", field)
	case "max":
		return fmt.Sprintf("'%s' is too long, it should be no longer than %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("'%s' is too short, it should be at least %s characters", field, fe.Param())
	case "courseid":
		return fmt.Sprintf("'%s' is not acceptable as a course ID, only alphanumerics, '.', '-', '_' and '$' are allowed", field)
	case "timezone_name":
		return fmt.Sprintf("'%s' is not a recognized time zone", field)
	case "oneof":
		return fmt.Sprintf("'%s' must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("The field '%s' is invalid", field)
	}
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"ID":            "course ID",
		"CourseID":      "course ID",
		"Name":          "name",
		"TimeZone":      "time zone",
		"Institute":     "institute",
		"Email":         "email",
		"Role":          "role",
		"DisplayedName": "displayed name",
		"Title":         "title",
		"Message":       "message",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
