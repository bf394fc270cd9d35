// Package client implements the session-manager side of the auth contract:
// a single token pair maintained against the remote API, with local input
// validation before any network call. Operations never return a Go error;
// every path resolves to a *Result.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/AnthoniusHendriyanto/authkit/internal/auth/validation"
	"go.uber.org/zap"
)

const defaultTimeout = 10 * time.Second

type Session struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger

	// callMu serializes the mutating operations (login, refresh, logout)
	// so overlapping calls cannot interleave partial token-pair writes.
	callMu sync.Mutex

	// mu guards the token pair itself.
	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

type Option func(*Session)

func WithHTTPClient(c *http.Client) Option {
	return func(s *Session) { s.httpClient = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.log = l }
}

func New(baseURL string, opts ...Option) *Session {
	s := &Session{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register validates the input locally and only dispatches when every rule
// passes. The server runs the same rules again; neither side trusts the
// other's pass.
func (s *Session) Register(ctx context.Context, email, password, confirmPassword string) *Result {
	if fields := validation.Client.Registration(email, password, confirmPassword); len(fields) > 0 {
		return &Result{
			Error:   ErrCodeValidation,
			Message: "Validation failed",
			Fields:  fields,
		}
	}

	return s.do(ctx, http.MethodPost, "/api/register", map[string]string{
		"email":           email,
		"password":        password,
		"confirmPassword": confirmPassword,
	}, "")
}

// Login dispatches immediately; the server is authoritative on rate
// limiting. Tokens present in the response replace the stored ones; a token
// absent from the response is preserved. Transport failures leave the
// stored pair untouched.
func (s *Session) Login(ctx context.Context, email, password string) *Result {
	s.callMu.Lock()
	defer s.callMu.Unlock()

	res := s.do(ctx, http.MethodPost, "/api/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")

	s.storeTokens(res)
	return res
}

// Refresh exchanges a refresh token for a new access token. An explicit
// token takes precedence over the stored one; with neither, the call fails
// locally without touching the network.
func (s *Session) Refresh(ctx context.Context, explicitToken string) *Result {
	s.callMu.Lock()
	defer s.callMu.Unlock()

	token := explicitToken
	if token == "" {
		s.mu.Lock()
		token = s.refreshToken
		s.mu.Unlock()
	}
	if token == "" {
		return localFailure("No refresh token available")
	}

	res := s.do(ctx, http.MethodPost, "/api/refresh", map[string]string{
		"refreshToken": token,
	}, "")

	s.storeTokens(res)
	return res
}

// Logout notifies the server on a best-effort basis and always forgets the
// stored pair: both tokens are cleared whether the call succeeded, was
// rejected, or never reached the server. With no tokens held it
// short-circuits locally.
func (s *Session) Logout(ctx context.Context) *Result {
	s.callMu.Lock()
	defer s.callMu.Unlock()

	s.mu.Lock()
	access, refresh := s.accessToken, s.refreshToken
	s.mu.Unlock()

	if access == "" && refresh == "" {
		return localFailure("Not logged in")
	}

	body := map[string]string{}
	if refresh != "" {
		body["refreshToken"] = refresh
	}

	res := s.do(ctx, http.MethodPost, "/api/logout", body, access)

	s.mu.Lock()
	s.accessToken = ""
	s.refreshToken = ""
	s.mu.Unlock()

	return res
}

// Profile fetches the caller's identity record. Without a stored access
// token it fails locally without a network call.
func (s *Session) Profile(ctx context.Context) *Result {
	s.mu.Lock()
	access := s.accessToken
	s.mu.Unlock()

	if access == "" {
		return localFailure("No access token available")
	}

	return s.do(ctx, http.MethodGet, "/api/protected/profile", nil, access)
}

// SetBaseURL points the session at a different server. The stored token
// pair is kept.
func (s *Session) SetBaseURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseURL = url
}

// BaseURL returns the server the session talks to.
func (s *Session) BaseURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseURL
}

// AccessToken returns the stored access token, empty when none is held.
func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// RefreshToken returns the stored refresh token, empty when none is held.
func (s *Session) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshToken
}

// ClearTokens drops the stored pair without contacting the server.
func (s *Session) ClearTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = ""
	s.refreshToken = ""
}

func (s *Session) storeTokens(res *Result) {
	if res.NetworkFailure() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if res.AccessToken != "" {
		s.accessToken = res.AccessToken
	}
	if res.RefreshToken != "" {
		s.refreshToken = res.RefreshToken
	}
}

// do sends one JSON request and decodes the JSON response into a Result.
// Every transport-level problem, including an unparseable body, collapses
// into the uniform network-failure result.
func (s *Session) do(ctx context.Context, method, path string, body any, bearer string) *Result {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.log.Debug("failed to encode request body", zap.Error(err))
			return networkFailure()
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	s.mu.Lock()
	base := s.baseURL
	s.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, method, base+path, reader)
	if err != nil {
		s.log.Debug("failed to build request", zap.Error(err))
		return networkFailure()
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.Debug("request failed", zap.String("path", path), zap.Error(err))
		return networkFailure()
	}
	defer resp.Body.Close()

	var res Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		s.log.Debug("failed to decode response", zap.String("path", path), zap.Error(err))
		return networkFailure()
	}

	res.StatusCode = resp.StatusCode
	return &res
}
