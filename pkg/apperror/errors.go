package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrEntityAlreadyExists = errors.New("entity already exists")
	ErrEntityDoesNotExist  = errors.New("entity does not exist")
	ErrInvalidParameters   = errors.New("invalid parameters")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrBadRequest          = errors.New("bad request")
	ErrInternal            = errors.New("internal server error")
)

// InstructorUpdateError signals that an instructor update would break a
// course-level invariant, e.g. leaving no instructor displayed to students.
type InstructorUpdateError struct {
	Message string
}

func (e *InstructorUpdateError) Error() string {
	return e.Message
}

// NewInstructorUpdateError creates an InstructorUpdateError with the given message.
func NewInstructorUpdateError(message string) *InstructorUpdateError {
	return &InstructorUpdateError{Message: message}
}

// NewInvalidParameters wraps ErrInvalidParameters with the human-readable
// reasons produced by attribute validation.
func NewInvalidParameters(reasons []string) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameters, strings.Join(reasons, "; "))
}

// AppError is a custom error type that can hold an HTTP status code
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// MapErrorToStatus maps common errors to HTTP status codes
func MapErrorToStatus(err error) int {
	var updateErr *InstructorUpdateError
	if errors.As(err, &updateErr) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrEntityDoesNotExist) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrEntityAlreadyExists) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrInvalidParameters) {
		return http.StatusBadRequest
	}
	// Default to internal server error
	return http.StatusInternalServerError
}
