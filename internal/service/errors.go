package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure; its value is the stable wire code
type Kind string

const (
	KindValidation   Kind = "validation_error"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindInternal     Kind = "internal_error"
)

// Error is returned by services for failures the caller can act on.
// Anything else is an internal error.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Message) }

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func ValidationError(format string, args ...any) *Error {
	return newError(KindValidation, format, args...)
}

func UnauthorizedError(format string, args ...any) *Error {
	return newError(KindUnauthorized, format, args...)
}

func ForbiddenError(format string, args ...any) *Error {
	return newError(KindForbidden, format, args...)
}

func NotFoundError(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

func ConflictError(format string, args ...any) *Error {
	return newError(KindConflict, format, args...)
}

// KindOf returns the kind of err, KindInternal when it is not an *Error
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

var (
	ErrInvalidCredentials = UnauthorizedError("invalid email or password")
	ErrInvalidToken       = UnauthorizedError("invalid or expired token")
	ErrInactiveAccount    = ForbiddenError("account is deactivated")
)
