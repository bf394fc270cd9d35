package domain

import "time"

type User struct {
	ID             string
	Email          string
	PasswordSecret string
	CreatedAt      time.Time
}

// LimitDecision is the outcome of consulting the login-attempt counter.
// RetryAfter is only meaningful when Limited is true.
type LimitDecision struct {
	Limited    bool
	RetryAfter int
}
