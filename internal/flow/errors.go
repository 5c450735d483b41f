package flow

import "errors"

var (
	errInvalidPhone = errors.New("phone must be exactly 10 digits")
	errEmptyAnswer  = errors.New("answer must not be empty")

	// ErrUnknownVariant is returned when config names a variant that
	// is not built in.
	ErrUnknownVariant = errors.New("unknown flow variant")
	// ErrNoSession indicates an event for a user without an active dialogue.
	ErrNoSession = errors.New("no active session")
)
