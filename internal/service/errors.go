package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/mealplanner/backend/internal/nutrition"
	"github.com/pageza/mealplanner/backend/internal/spoonacular"
)

// Kind is the stable error category reported to callers.
type Kind string

const (
	KindInvalidInput        Kind = "InvalidInput"
	KindInvalidGender       Kind = "InvalidGender"
	KindIncompleteProfile   Kind = "IncompleteProfile"
	KindUnauthorized        Kind = "Unauthorized"
	KindForbidden           Kind = "Forbidden"
	KindNotFound            Kind = "NotFound"
	KindAlreadyStarred      Kind = "AlreadyStarred"
	KindConflict            Kind = "Conflict"
	KindUpstreamUnavailable Kind = "UpstreamUnavailable"
	KindPartialUpstreamData Kind = "PartialUpstreamData"
	KindStorage             Kind = "StorageError"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
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

func newError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func InvalidInput(format string, args ...any) *Error {
	return newError(KindInvalidInput, nil, format, args...)
}

func NotFound(resource string, id any) *Error {
	return newError(KindNotFound, nil, "%s %v not found", resource, id)
}

func Unauthorized(message string) *Error {
	return newError(KindUnauthorized, nil, "%s", message)
}

func Forbidden(message string) *Error {
	return newError(KindForbidden, nil, "%s", message)
}

func storageError(err error, action string) *Error {
	return newError(KindStorage, err, "failed to %s", action)
}

func upstreamError(err error, action string) *Error {
	return newError(KindUpstreamUnavailable, err, "failed to %s", action)
}

// profileError classifies calculator failures for an account's stored biometrics.
func profileError(err error) *Error {
	switch {
	case errors.Is(err, nutrition.ErrInvalidGender):
		return newError(KindInvalidGender, err, "unsupported gender")
	case errors.Is(err, nutrition.ErrIncompleteProfile):
		return newError(KindIncompleteProfile, err, "missing required user data")
	default:
		return newError(KindInvalidInput, err, "invalid profile")
	}
}

// KindOf reports the category of err, mapping well-known sentinels.
// Unrecognized errors are storage failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	switch {
	case errors.Is(err, nutrition.ErrInvalidGender):
		return KindInvalidGender
	case errors.Is(err, nutrition.ErrIncompleteProfile):
		return KindIncompleteProfile
	case errors.Is(err, spoonacular.ErrUpstreamUnavailable):
		return KindUpstreamUnavailable
	case errors.Is(err, gorm.ErrRecordNotFound):
		return KindNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return KindConflict
	}
	return KindStorage
}
