package model

import (
	"errors"
	"fmt"
)

// Error taxonomy. Wrap with fmt.Errorf("...: %w") and test with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrUpstream        = errors.New("upstream failure")
)

// FieldError is an invalid-argument error naming the offending field(s).
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is(err, ErrInvalidArgument) match.
func (e *FieldError) Unwrap() error { return ErrInvalidArgument }

// InvalidArgument builds a FieldError.
func InvalidArgument(field, msg string) error {
	return &FieldError{Field: field, Message: msg}
}

// NotFound wraps ErrNotFound with a formatted message.
func NotFound(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// Upstream wraps a store or cache failure. The underlying error stays in the
// chain so callers can still inspect driver errors.
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	return &upstreamError{op: op, err: err}
}

type upstreamError struct {
	op  string
	err error
}

func (e *upstreamError) Error() string { return e.op + ": " + e.err.Error() }

func (e *upstreamError) Unwrap() []error { return []error{ErrUpstream, e.err} }
