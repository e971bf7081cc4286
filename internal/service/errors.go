package service

import "errors"

// Common service errors
var (
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials is returned when the login does not match
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrStorageUnavailable is returned when plans could not be written
	ErrStorageUnavailable = errors.New("plan storage unavailable")
)
