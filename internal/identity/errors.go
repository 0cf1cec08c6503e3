package identity

import "errors"

var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrDuplicateUsername    = errors.New("username already taken")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrProviderVerification = errors.New("provider verification failed")
	ErrUnknownProvider      = errors.New("unknown identity provider")
	ErrTooManyAttempts      = errors.New("too many login attempts")
)
