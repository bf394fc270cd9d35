package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailAlreadyInUse   = errors.New("an account with this email already exists")
	ErrRefreshTokenInvalid = errors.New("refresh token is invalid or expired")
	ErrTokenExpired        = errors.New("access token has expired")
	ErrTokenInvalid        = errors.New("access token is invalid")
	ErrUserNotFound        = errors.New("user not found")
)

// ValidationError carries every failed field rule from a single pass.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d invalid field(s)", len(e.Fields))
}

// RateLimitError reports the seconds remaining until the attempt window resets.
type RateLimitError struct {
	RetryAfter int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("too many failed login attempts, retry after %ds", e.RetryAfter)
}
