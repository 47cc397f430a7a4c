package repository

import "errors"

// Sentinel errors returned by repositories. Services map these onto the
// API error taxonomy; repositories never speak HTTP.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailExists    = errors.New("email already registered")
	ErrUsernameExists = errors.New("username already taken")

	ErrEventNotFound     = errors.New("event not found")
	ErrAlreadyRegistered = errors.New("already registered")

	ErrInvalidID = errors.New("invalid object id")
)
