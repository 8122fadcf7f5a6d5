package services

import (
	"errors"
	"fmt"

	"github.com/esther-lms/learning-service/internal/validator"
)

// Sentinel errors returned by services. Handlers map these onto HTTP status
// codes in one place.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrModuleNotFound     = errors.New("module not found")
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrGroupNotFound      = errors.New("mentorship group not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")

	ErrEmailTaken      = errors.New("email already registered")
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
	ErrAlreadyMember   = errors.New("already a member of this group")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidRole        = errors.New("invalid role")

	ErrCourseNotPublished = errors.New("course is not published")
	ErrNotEnrolled        = errors.New("not enrolled in this course")
)

// PermissionError carries the who/what/why of a denied operation.
type PermissionError struct {
	UserID     string
	ResourceID string
	Resource   string
	Action     string
	Reason     string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s %s: %s",
		e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func NewPermissionError(userID, resourceID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// IsPermissionError reports whether err is a permission denial.
func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsValidationError reports whether err carries field validation failures.
func IsValidationError(err error) bool {
	var ve validator.ValidationErrors
	return errors.As(err, &ve)
}

// IsNotFoundError reports whether err is one of the not-found sentinels.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrCourseNotFound) ||
		errors.Is(err, ErrModuleNotFound) ||
		errors.Is(err, ErrQuizNotFound) ||
		errors.Is(err, ErrGroupNotFound) ||
		errors.Is(err, ErrEnrollmentNotFound)
}

// IsConflictError reports whether err is a uniqueness conflict.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrAlreadyEnrolled) ||
		errors.Is(err, ErrAlreadyMember)
}
