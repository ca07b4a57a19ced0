package constraint

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure returned by Apply wraps exactly one of these, so
// callers can branch with errors.Is.
var (
	// ErrTypeMismatch is returned when a value cannot be coerced or has the wrong type.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrRangeViolation is returned when a value falls outside a range.
	ErrRangeViolation = errors.New("range violation")
	// ErrChoiceViolation is returned when a value is not one of the allowed choices.
	ErrChoiceViolation = errors.New("choice violation")
	// ErrValidation is returned when every alternative of an AnyOf failed.
	ErrValidation = errors.New("validation error")
)

// Error describes a rejected value.
type Error struct {
	// Err is the error kind (one of the Err* sentinels).
	Err error
	// Value is the rejected input.
	Value any
	// Msg is a human readable reason.
	Msg string
	// Causes holds the individual alternative failures of an AnyOf. It is
	// informational only; errors.Is does not look inside it.
	Causes error
}

func (e *Error) Error() string {
	return fmt.Sprintf("constraint: %s: %s", e.Err, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func typeMismatch(v any, format string, args ...any) error {
	return &Error{Err: ErrTypeMismatch, Value: v, Msg: fmt.Sprintf(format, args...)}
}
