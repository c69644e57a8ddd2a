package services

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	ErrorInvalid        ErrorCode = "invalid"
	ErrorNotFound       ErrorCode = "not_found"
	ErrorEmptyReviewSet ErrorCode = "empty_review_set"
)

var (
	// ErrEmptyReviewSet is returned when a summary is requested for zero reviews.
	ErrEmptyReviewSet = errors.New("review set is empty")
	// ErrRequestNotFound is returned when a submission references a missing review request.
	ErrRequestNotFound = errors.New("review request not found")
	// ErrUnknownPolicyLevel flags an anonymity level outside the defined set.
	ErrUnknownPolicyLevel = errors.New("unknown anonymity level")
)

// ServiceError carries a machine-readable code alongside the message shown to callers.
// Field names the offending question or attribute for input errors.
type ServiceError struct {
	Code    ErrorCode
	Message string
	Field   string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error { return e.Err }

func newRequestNotFoundError(id string) error {
	return &ServiceError{Code: ErrorNotFound, Message: fmt.Sprintf("review request %q not found", id), Err: ErrRequestNotFound}
}

// NewInputError reports a malformed answer or definition tied to one field.
func NewInputError(field, format string, args ...any) error {
	return &ServiceError{Code: ErrorInvalid, Field: field, Message: fmt.Sprintf(format, args...)}
}

func newEmptyReviewSetError(subjectID string) error {
	return &ServiceError{
		Code:    ErrorEmptyReviewSet,
		Message: fmt.Sprintf("no reviews for subject %q", subjectID),
		Err:     ErrEmptyReviewSet,
	}
}

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsInputError reports whether err is a rejected answer or definition.
func IsInputError(err error) bool {
	se, ok := AsServiceError(err)
	return ok && se.Code == ErrorInvalid
}
