package service

import (
	"context"
	"fmt"
	"time"

	"github.com/AnthoniusHendriyanto/authkit/internal/auth/domain"
	"github.com/AnthoniusHendriyanto/authkit/internal/auth/dto"
	"github.com/AnthoniusHendriyanto/authkit/internal/auth/password"
	"github.com/AnthoniusHendriyanto/authkit/internal/auth/validation"
	autherror "github.com/AnthoniusHendriyanto/authkit/internal/errors"
	"github.com/google/uuid"
)

type UserService struct {
	users         domain.UserStore
	refreshTokens domain.RefreshTokenStore
	attempts      domain.AttemptStore
	tokens        TokenGenerator
	scheme        password.Scheme
}

func NewUserService(
	users domain.UserStore,
	refreshTokens domain.RefreshTokenStore,
	attempts domain.AttemptStore,
	tokens TokenGenerator,
	scheme password.Scheme,
) *UserService {
	return &UserService{
		users:         users,
		refreshTokens: refreshTokens,
		attempts:      attempts,
		tokens:        tokens,
		scheme:        scheme,
	}
}

func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	if fields := validation.Server.Registration(input.Email, input.Password, input.ConfirmPassword); len(fields) > 0 {
		return nil, &autherror.ValidationError{Fields: fields}
	}

	existing, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, autherror.ErrEmailAlreadyInUse
	}

	secret, err := s.scheme.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:             uuid.NewString(),
		Email:          input.Email,
		PasswordSecret: secret,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login checks the attempt counter before consulting the credential store.
// A limited email is rejected without touching credentials or the counter.
// A failed credential check records the failure; when that failure itself
// fills the window the reply is already the rate-limited rejection.
// A successful login does not clear the counter; only window expiry does.
func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.TokenResponse, error) {
	decision, err := s.attempts.Check(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if decision.Limited {
		return nil, &autherror.RateLimitError{RetryAfter: decision.RetryAfter}
	}

	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}

	if user == nil || !s.scheme.Compare(user.PasswordSecret, input.Password) {
		recorded, recErr := s.attempts.RecordFailure(ctx, input.Email)
		if recErr != nil {
			return nil, recErr
		}
		if recorded.Limited {
			return nil, &autherror.RateLimitError{RetryAfter: recorded.RetryAfter}
		}
		return nil, autherror.ErrInvalidCredentials
	}

	accessToken, _, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	refreshToken := uuid.NewString()
	if err := s.refreshTokens.Add(ctx, refreshToken, user.ID); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &dto.TokenResponse{
		Success:      true,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.tokens.AccessTTL().Seconds()),
		TokenType:    dto.TokenTypeBearer,
	}, nil
}

// Refresh exchanges a live refresh token for a new access token. The refresh
// token itself is not rotated. A token outside the live set is rejected the
// same way whether it was never issued or already revoked.
func (s *UserService) Refresh(ctx context.Context, input dto.RefreshInput) (*dto.TokenResponse, error) {
	userID, ok, err := s.refreshTokens.Lookup(ctx, input.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, autherror.ErrRefreshTokenInvalid
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrRefreshTokenInvalid
	}

	accessToken, _, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	return &dto.TokenResponse{
		Success:     true,
		AccessToken: accessToken,
		ExpiresIn:   int(s.tokens.AccessTTL().Seconds()),
		TokenType:   dto.TokenTypeBearer,
	}, nil
}

// Logout revokes the supplied refresh token if any. It succeeds regardless
// of whether the token was in the live set.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.refreshTokens.Remove(ctx, refreshToken)
}

func (s *UserService) Profile(ctx context.Context, userID string) (*dto.ProfileData, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	return &dto.ProfileData{
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}
