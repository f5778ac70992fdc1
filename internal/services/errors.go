package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/edusync-service/internal/policy"
	"github.com/SAP-F-2025/edusync-service/internal/validator"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrResultNotFound     = errors.New("result not found")
	ErrNotFound           = errors.New("not found")

	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrPersistence  = errors.New("persistence failure")
)

type ValidationErrors = validator.ValidationErrors

// ServiceError pairs a sentinel with a message that is safe to show the caller
type ServiceError struct {
	Err     error
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func newServiceError(err error, format string, args ...interface{}) *ServiceError {
	return &ServiceError{Err: err, Message: fmt.Sprintf(format, args...)}
}

// PermissionError is returned when an authenticated actor may not perform an action
type PermissionError struct {
	UserID   string
	Resource string
	Action   string
	Reason   string
}

func NewPermissionError(userID uuid.UUID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID.String(),
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s: %s", e.UserID, e.Action, e.Resource, e.Reason)
}

func (e *PermissionError) Is(target error) bool {
	return target == ErrForbidden
}

// IsNotFound reports whether err is any of the not-found sentinels
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrCourseNotFound) ||
		errors.Is(err, ErrAssessmentNotFound) ||
		errors.Is(err, ErrResultNotFound)
}

// authorize runs the policy and converts a denial into the service error taxonomy
func authorize(actor policy.Actor, action policy.Action, resource string, res policy.Resource) error {
	return fromDenial(actor, action, resource, policy.Check(actor, action, res))
}

func fromDenial(actor policy.Actor, action policy.Action, resource string, d *policy.Denial) error {
	if d == nil {
		return nil
	}

	switch d.Code {
	case policy.DenyForbidden:
		return NewPermissionError(actor.ID, resource, string(action), d.Reason)
	case policy.DenyNotFound:
		return newServiceError(ErrNotFound, "%s", d.Reason)
	case policy.DenyConflict:
		return newServiceError(ErrConflict, "%s", d.Reason)
	default:
		return newServiceError(ErrBadRequest, "%s", d.Reason)
	}
}
