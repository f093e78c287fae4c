package models

import "errors"

// Validation errors (surfaced to the UI as field-level messages)
var (
	ErrEmptyField    = errors.New("required field is empty")
	ErrInvalidEmail  = errors.New("invalid email format")
	ErrInvalidUserID = errors.New("user id may only contain letters, numbers and underscore")
	ErrUserIDTooLong = errors.New("user id longer than 16 characters")
	ErrUserExists    = errors.New("user id already registered")
	ErrEmailExists   = errors.New("email already registered")
)

// Lookup errors
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailMismatch = errors.New("email does not match user")
	ErrNotFound      = errors.New("not found in catalog")
	ErrNoSession     = errors.New("no active session")
)

// IsValidation reports whether err belongs to the validation family, i.e.
// it should be shown next to a form field rather than treated as a failure.
func IsValidation(err error) bool {
	switch {
	case errors.Is(err, ErrEmptyField),
		errors.Is(err, ErrInvalidEmail),
		errors.Is(err, ErrInvalidUserID),
		errors.Is(err, ErrUserIDTooLong),
		errors.Is(err, ErrUserExists),
		errors.Is(err, ErrEmailExists),
		errors.Is(err, ErrEmailMismatch):
		return true
	}
	return false
}
