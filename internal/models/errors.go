package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain error so the transport layer can map it to
// a status code without string matching.
type ErrorKind string

const (
	// KindValidation: bad amount/description/date/count shape. Recoverable,
	// no mutation applied.
	KindValidation ErrorKind = "validation"

	// KindNotFound: unknown aggregate ID.
	KindNotFound ErrorKind = "not_found"

	// KindConflict: two active meal systems, or duplicate participant
	// identity within one system.
	KindConflict ErrorKind = "conflict"

	// KindZeroMeals: settlement requested with zero total meals. The
	// caller must add records first.
	KindZeroMeals ErrorKind = "zero_meals"
)

// Error is a typed domain error. All domain errors are local to a single
// operation; none are fatal to the process.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Validationf builds a validation error.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a not-found error.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflictf builds a conflict error.
func Conflictf(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// ErrZeroMeals is returned when a settlement is requested before any meal
// has been recorded (total meals would divide by zero).
var ErrZeroMeals = &Error{
	Kind:    KindZeroMeals,
	Message: "cannot settle: no meals recorded for this system",
}

// KindOf returns the kind of err if it is (or wraps) a domain Error, and
// "" otherwise.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
