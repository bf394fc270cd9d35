package domain

//go:generate mockgen -destination=../../mocks/mock_stores.go -package=mocks github.com/AnthoniusHendriyanto/authkit/internal/auth/domain UserStore,RefreshTokenStore,AttemptStore

import "context"

type UserStore interface {
	// GetByEmail returns (nil, nil) when no user exists for the email.
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByID returns (nil, nil) when no user exists for the id.
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) error
}

// RefreshTokenStore is the live set of issued refresh tokens. A token absent
// from the set is invalid whether it was never issued or already revoked.
type RefreshTokenStore interface {
	Add(ctx context.Context, token, userID string) error
	Lookup(ctx context.Context, token string) (userID string, ok bool, err error)
	Remove(ctx context.Context, token string) error
}

// AttemptStore tracks failed login attempts per key within a rolling window.
// Check never mutates the counter. RecordFailure increments it (creating it
// with a fresh window if absent or expired) and reports Limited when the new
// count reaches the cap.
type AttemptStore interface {
	Check(ctx context.Context, key string) (LimitDecision, error)
	RecordFailure(ctx context.Context, key string) (LimitDecision, error)
}
