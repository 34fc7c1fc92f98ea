package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies service errors so the HTTP layer can map them to a
// status class without string matching.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation" // missing/illegal input, HTTP 400
	KindConflict   ErrorKind = "conflict"   // duplicate identifier, HTTP 409
	KindNotFound   ErrorKind = "not_found"  // no matching rows, HTTP 404
	KindCompleted  ErrorKind = "completed"  // write after stage latch, HTTP 409
)

// Error carries a kind plus a human-readable message. The message is the
// stable error shape callers rely on; nothing is retried automatically.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Completedf(format string, args ...any) *Error {
	return &Error{Kind: KindCompleted, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or "" when err is not a domain error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
