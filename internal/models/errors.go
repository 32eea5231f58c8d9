package models

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every failure surfaced by the services wraps exactly one of them.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrConflict          = errors.New("conflict")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrStoreFailure      = errors.New("store failure")
)

// Repository-level errors. Services translate these into the kinds above.
var (
	ErrNoRecord       = errors.New("models: no matching record found")
	ErrInvalidID      = errors.New("models: malformed document id")
	ErrDuplicateEmail = errors.New("models: duplicate email")
	ErrPerfilAssigned = errors.New("models: user already has a perfil")
	ErrBadReference   = errors.New("models: referenced record rejected by store")
)

// Error is a classified failure with a single user-facing message.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil && e.Kind == ErrStoreFailure {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func newError(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) error {
	return newError(ErrNotFound, format, args...)
}

func Forbidden(format string, args ...interface{}) error {
	return newError(ErrForbidden, format, args...)
}

func Unauthorized(format string, args ...interface{}) error {
	return newError(ErrUnauthorized, format, args...)
}

func Conflict(format string, args ...interface{}) error {
	return newError(ErrConflict, format, args...)
}

func InvalidInput(format string, args ...interface{}) error {
	return newError(ErrInvalidInput, format, args...)
}

// InvalidTransition names the rejected move and, when known, the moves
// that are allowed from the current status.
func InvalidTransition(from, to Status, allowed ...Status) error {
	if len(allowed) == 0 {
		return newError(ErrInvalidTransition, "cannot move solicitud from %s to %s", from, to)
	}
	names := make([]string, len(allowed))
	for i, st := range allowed {
		names[i] = string(st)
	}
	return newError(ErrInvalidTransition, "cannot move solicitud from %s to %s (allowed: %s)", from, to, strings.Join(names, ", "))
}

// StoreFailure wraps an unexpected persistence error.
func StoreFailure(op string, cause error) error {
	return &Error{Kind: ErrStoreFailure, Message: op, Cause: cause}
}

// Message returns the user-facing text of err without store internals.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Kind == ErrStoreFailure {
			return "internal store failure"
		}
		return e.Message
	}
	return "internal server error"
}
