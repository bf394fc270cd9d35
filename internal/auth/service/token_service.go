package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/AnthoniusHendriyanto/authkit/internal/auth/service TokenGenerator

import (
	"errors"
	"fmt"
	"time"

	autherror "github.com/AnthoniusHendriyanto/authkit/internal/errors"
	"github.com/golang-jwt/jwt/v5"
)

type TokenGenerator interface {
	Issue(userID, email string) (string, time.Time, error)
	Verify(tokenString string) (*AccessClaims, error)
	AccessTTL() time.Duration
}

type TokenService struct {
	secret    string
	accessTTL time.Duration
}

type AccessClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

func NewTokenService(secret string, accessTTL time.Duration) *TokenService {
	return &TokenService{
		secret:    secret,
		accessTTL: accessTTL,
	}
}

// Issue signs a new access token with the user id as subject and the access
// TTL as expiry. It also returns the expiry time for response metadata.
func (ts *TokenService) Issue(userID, email string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ts.accessTTL)

	claims := AccessClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ts.secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}

// Verify parses and validates an access token. A well-signed token past its
// expiry yields ErrTokenExpired; any other failure (bad signature, malformed
// input, wrong algorithm) yields ErrTokenInvalid. Callers rely on the split:
// an expired token can be refreshed, an invalid one cannot.
func (ts *TokenService) Verify(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ts.secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, autherror.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", autherror.ErrTokenInvalid, err)
	}

	if !token.Valid {
		return nil, autherror.ErrTokenInvalid
	}

	return claims, nil
}

func (ts *TokenService) AccessTTL() time.Duration {
	return ts.accessTTL
}
