package service

import "errors"

// Failure taxonomy surfaced to the HTTP layer. Handlers translate these to
// status codes; anything else is a 500.
var (
	ErrConflict           = errors.New("user already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidCode        = errors.New("invalid verification code")
	ErrCodeExpired        = errors.New("verification code expired")
)
