// Package apperr carries the domain error taxonomy. Validation, not-found,
// conflict, capacity and auth errors are expected outcomes returned to the
// caller; an invariant error marks a defensive internal check that fired and
// must be logged and surfaced as an opaque internal failure.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindConflict
	KindCapacity
	KindAuth
	KindInvariant
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindCapacity:
		return "capacity"
	case KindAuth:
		return "auth"
	case KindInvariant:
		return "invariant"
	}
	return "unknown"
}

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func Validation(msg string) error { return &Error{Kind: KindValidation, Message: msg} }
func NotFound(msg string) error   { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) error   { return &Error{Kind: KindConflict, Message: msg} }
func Capacity(msg string) error   { return &Error{Kind: KindCapacity, Message: msg} }
func Auth(msg string) error       { return &Error{Kind: KindAuth, Message: msg} }

func Invariant(format string, args ...interface{}) error {
	return &Error{Kind: KindInvariant, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is (or wraps) an apperr of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// KindOf extracts the kind, with ok=false for non-taxonomy errors.
func KindOf(err error) (Kind, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return 0, false
}
