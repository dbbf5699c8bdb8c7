// Package apperr is the error taxonomy shared by controllers and transport.
// Business-rule failures are created at the point of detection and passed up
// unchanged; infrastructure failures are wrapped as Unexpected and surfaced
// without internal detail.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/hrdesk/leave_service/internal/entity"
)

type Kind int

const (
	// KindValidation is malformed or rule-violating input; recoverable by
	// the caller correcting the input.
	KindValidation Kind = iota
	// KindNotFound is a missing referenced entity.
	KindNotFound
	// KindConflict is a state-dependent rule violation: duplicate email,
	// overlapping dates, already-reviewed.
	KindConflict
	// KindUnexpected is a store or infrastructure failure.
	KindUnexpected
)

type Error struct {
	Kind      Kind
	Message   string
	Conflicts []entity.OverlapInfo
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// ConflictWith attaches the conflicting requests so callers can display them.
func ConflictWith(conflicts []entity.OverlapInfo, format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...), Conflicts: conflicts}
}

// Unexpected wraps an infrastructure error behind a generic message.
func Unexpected(err error, message string) *Error {
	return &Error{Kind: KindUnexpected, Message: message, Err: err}
}

// As extracts the typed error, if err carries one.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf classifies any error; non-taxonomy errors count as unexpected.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindUnexpected
}

// HTTPStatus maps an error to the transport convention: 400 validation,
// 404 missing entity, 409 conflict, 500 otherwise.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
