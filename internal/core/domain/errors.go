package domain

import "errors"

// Lookup misses. Callers treat these as local, non-fatal "no match" results.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrSessionNotFound      = errors.New("session not found")
)

// Uniqueness violations. The messages are shown to the end user as-is.
var (
	ErrDuplicateEmail         = errors.New("email already registered")
	ErrDuplicateUsername      = errors.New("username already taken")
	ErrDuplicateInvoiceNumber = errors.New("invoice number already exists")
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")
	ErrValidation         = errors.New("validation failed")
)
