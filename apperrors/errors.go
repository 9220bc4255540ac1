// Package apperrors defines the error kinds the registration workflow reports
// to its callers.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation    Kind = "validation"
	KindState         Kind = "state"
	KindPrecondition  Kind = "precondition"
	KindConflict      Kind = "conflict"
	KindAuthorization Kind = "authorization"
	KindNotFound      Kind = "not_found"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is lets errors.Is match on kind alone, e.g. errors.Is(err, &Error{Kind: KindState}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error   { return newf(KindValidation, format, args...) }
func State(format string, args ...any) *Error        { return newf(KindState, format, args...) }
func Precondition(format string, args ...any) *Error { return newf(KindPrecondition, format, args...) }
func Conflict(format string, args ...any) *Error     { return newf(KindConflict, format, args...) }
func Authorization(format string, args ...any) *Error {
	return newf(KindAuthorization, format, args...)
}
func NotFound(format string, args ...any) *Error { return newf(KindNotFound, format, args...) }

// KindOf returns the kind of the first *Error in err's chain, or "" when err
// did not originate from the workflow.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
