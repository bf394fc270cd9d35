// Package memory provides the deterministic in-process stores used by the
// reference server and tests. All state is lost on restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/AnthoniusHendriyanto/authkit/internal/auth/domain"
	autherror "github.com/AnthoniusHendriyanto/authkit/internal/errors"
)

type UserStore struct {
	mu      sync.RWMutex
	byEmail map[string]*domain.User
	byID    map[string]*domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{
		byEmail: make(map[string]*domain.User),
		byID:    make(map[string]*domain.User),
	}
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byEmail[email]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (s *UserStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

// Create enforces the email uniqueness invariant atomically, so two
// concurrent registrations for the same email cannot both succeed.
func (s *UserStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[user.Email]; exists {
		return autherror.ErrEmailAlreadyInUse
	}

	copied := *user
	s.byEmail[copied.Email] = &copied
	s.byID[copied.ID] = &copied
	return nil
}

type RefreshTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewRefreshTokenStore() *RefreshTokenStore {
	return &RefreshTokenStore{tokens: make(map[string]string)}
}

func (s *RefreshTokenStore) Add(_ context.Context, token, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = userID
	return nil
}

func (s *RefreshTokenStore) Lookup(_ context.Context, token string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.tokens[token]
	return userID, ok, nil
}

func (s *RefreshTokenStore) Remove(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

type attempt struct {
	count   int
	resetAt time.Time
}

// AttemptStore counts failed logins per key within a rolling window. The
// check-then-increment sequence for one key is atomic under a single mutex.
type AttemptStore struct {
	mu          sync.Mutex
	maxAttempts int
	window      time.Duration
	attempts    map[string]*attempt
	now         func() time.Time
}

func NewAttemptStore(maxAttempts int, window time.Duration) *AttemptStore {
	return &AttemptStore{
		maxAttempts: maxAttempts,
		window:      window,
		attempts:    make(map[string]*attempt),
		now:         time.Now,
	}
}

func (s *AttemptStore) Check(_ context.Context, key string) (domain.LimitDecision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.attempts[key]
	if !ok {
		return domain.LimitDecision{}, nil
	}

	now := s.now()
	if now.After(a.resetAt) {
		delete(s.attempts, key)
		return domain.LimitDecision{}, nil
	}

	if a.count >= s.maxAttempts {
		return domain.LimitDecision{Limited: true, RetryAfter: retryAfter(a.resetAt, now)}, nil
	}

	return domain.LimitDecision{}, nil
}

func (s *AttemptStore) RecordFailure(_ context.Context, key string) (domain.LimitDecision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	a, ok := s.attempts[key]
	if !ok || now.After(a.resetAt) {
		a = &attempt{resetAt: now.Add(s.window)}
		s.attempts[key] = a
	}

	a.count++
	if a.count >= s.maxAttempts {
		return domain.LimitDecision{Limited: true, RetryAfter: retryAfter(a.resetAt, now)}, nil
	}

	return domain.LimitDecision{}, nil
}

func retryAfter(resetAt, now time.Time) int {
	secs := int((resetAt.Sub(now) + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}
