package service

import "errors"

// Service-level errors. Handlers translate these into the API error
// taxonomy; everything else coming out of a service is a 500.
var (
	// ErrInvalidCredentials deliberately covers both unknown email and
	// wrong password so a caller cannot probe which emails exist.
	ErrInvalidCredentials = errors.New("Invalid Credentials")

	ErrPastDate        = errors.New("Event date must be in the future")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidDate     = errors.New("invalid date filter")
)
