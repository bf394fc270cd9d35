// Package redisstore backs the login-attempt counter with redis so the rate
// limit survives restarts and is shared across server instances.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AnthoniusHendriyanto/authkit/internal/auth/domain"
	"github.com/redis/go-redis/v9"
)

type AttemptStore struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

func NewAttemptStore(client *redis.Client, maxAttempts int, window time.Duration) *AttemptStore {
	return &AttemptStore{
		client:      client,
		maxAttempts: maxAttempts,
		window:      window,
	}
}

func (s *AttemptStore) key(email string) string {
	return "login_attempts:" + email
}

func (s *AttemptStore) Check(ctx context.Context, email string) (domain.LimitDecision, error) {
	count, err := s.client.Get(ctx, s.key(email)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.LimitDecision{}, nil
		}
		return domain.LimitDecision{}, fmt.Errorf("failed to read attempt counter: %w", err)
	}

	if count >= s.maxAttempts {
		retryAfter, err := s.retryAfter(ctx, email)
		if err != nil {
			return domain.LimitDecision{}, err
		}
		return domain.LimitDecision{Limited: true, RetryAfter: retryAfter}, nil
	}

	return domain.LimitDecision{}, nil
}

func (s *AttemptStore) RecordFailure(ctx context.Context, email string) (domain.LimitDecision, error) {
	count, err := s.client.Incr(ctx, s.key(email)).Result()
	if err != nil {
		return domain.LimitDecision{}, fmt.Errorf("failed to increment attempt counter: %w", err)
	}

	// The key expiry is the attempt window; redis clears the counter for us.
	if count == 1 {
		if err := s.client.Expire(ctx, s.key(email), s.window).Err(); err != nil {
			return domain.LimitDecision{}, fmt.Errorf("failed to set attempt window: %w", err)
		}
	}

	if int(count) >= s.maxAttempts {
		retryAfter, err := s.retryAfter(ctx, email)
		if err != nil {
			return domain.LimitDecision{}, err
		}
		return domain.LimitDecision{Limited: true, RetryAfter: retryAfter}, nil
	}

	return domain.LimitDecision{}, nil
}

func (s *AttemptStore) retryAfter(ctx context.Context, email string) (int, error) {
	ttl, err := s.client.TTL(ctx, s.key(email)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read attempt window: %w", err)
	}
	secs := int((ttl + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs, nil
}
