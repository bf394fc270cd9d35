package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/AnthoniusHendriyanto/authkit/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method        string
	Path          string
	Authorization string
	Body          map[string]string
}

// testServer replays a fixed JSON response and records what it received.
type testServer struct {
	*httptest.Server
	mu   sync.Mutex
	hits int
	last recordedRequest
}

func newTestServer(t *testing.T, status int, response any) *testServer {
	t.Helper()
	ts := &testServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
		}
		_ = json.NewDecoder(r.Body).Decode(&rec.Body)

		ts.mu.Lock()
		ts.hits++
		ts.last = rec
		ts.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(response)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) Hits() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.hits
}

func (ts *testServer) Last() recordedRequest {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.last
}

func relocate(t *testing.T, s *client.Session, url string) {
	t.Helper()
	s.SetBaseURL(url)
}

func loggedInSession(t *testing.T) *client.Session {
	t.Helper()
	srv := newTestServer(t, http.StatusOK, map[string]any{
		"success":      true,
		"accessToken":  "access-1",
		"refreshToken": "refresh-1",
		"expiresIn":    3600,
		"tokenType":    "Bearer",
	})
	s := client.New(srv.URL)
	res := s.Login(context.Background(), "a@b.com", "Passw0rd")
	require.True(t, res.Success)
	return s
}

func TestRegister_LocalValidationBlocksDispatch(t *testing.T) {
	srv := newTestServer(t, http.StatusCreated, map[string]any{"success": true})
	s := client.New(srv.URL)

	res := s.Register(context.Background(), "not-an-email", "short", "")

	assert.False(t, res.Success)
	assert.Equal(t, client.ErrCodeValidation, res.Error)
	assert.Contains(t, res.Fields, "email")
	assert.Contains(t, res.Fields, "password")
	assert.Contains(t, res.Fields, "confirmPassword")
	assert.Zero(t, srv.Hits(), "no request may be dispatched while a rule fails")
}

func TestRegister_PassesResponseThrough(t *testing.T) {
	srv := newTestServer(t, http.StatusCreated, map[string]any{
		"success": true,
		"message": "User registered successfully",
		"userId":  "user-1",
	})
	s := client.New(srv.URL)

	res := s.Register(context.Background(), "a@b.com", "Passw0rd", "Passw0rd")

	assert.True(t, res.Success)
	assert.Equal(t, "user-1", res.UserID)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, "/api/register", srv.Last().Path)
	assert.Equal(t, "Passw0rd", srv.Last().Body["confirmPassword"])
	assert.Empty(t, s.AccessToken(), "registration does not establish a session")
}

func TestLogin_StoresTokenPair(t *testing.T) {
	s := loggedInSession(t)

	assert.Equal(t, "access-1", s.AccessToken())
	assert.Equal(t, "refresh-1", s.RefreshToken())
}

func TestLogin_RejectionLeavesTokensUntouched(t *testing.T) {
	s := loggedInSession(t)

	srv := newTestServer(t, http.StatusUnauthorized, map[string]any{
		"success": false,
		"error":   "INVALID_CREDENTIALS",
	})
	s2 := client.New(srv.URL)
	res := s2.Login(context.Background(), "a@b.com", "Wrong123")
	assert.Equal(t, "INVALID_CREDENTIALS", res.Error)
	assert.Empty(t, s2.AccessToken())

	// The earlier session still holds its pair.
	assert.Equal(t, "access-1", s.AccessToken())
}

func TestLogin_NetworkFailure(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, map[string]any{"success": true})
	srv.Close()
	s := client.New(srv.URL)

	res := s.Login(context.Background(), "a@b.com", "Passw0rd")

	assert.True(t, res.NetworkFailure())
	assert.Equal(t, client.ErrCodeNetwork, res.Error)
	assert.Empty(t, s.AccessToken())
	assert.Empty(t, s.RefreshToken())
}

func TestRefresh_NoTokenFailsLocally(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, map[string]any{"success": true})
	s := client.New(srv.URL)

	res := s.Refresh(context.Background(), "")

	assert.False(t, res.Success)
	assert.Equal(t, "No refresh token available", res.Message)
	assert.Zero(t, srv.Hits())
}

func TestRefresh_UsesStoredTokenAndKeepsIt(t *testing.T) {
	s := loggedInSession(t)

	srv := newTestServer(t, http.StatusOK, map[string]any{
		"success":     true,
		"accessToken": "access-2",
		"expiresIn":   3600,
		"tokenType":   "Bearer",
	})
	relocate(t, s, srv.URL)

	res := s.Refresh(context.Background(), "")

	require.True(t, res.Success)
	assert.Equal(t, "refresh-1", srv.Last().Body["refreshToken"])
	assert.Equal(t, "access-2", s.AccessToken())
	assert.Equal(t, "refresh-1", s.RefreshToken(), "refresh token survives when the server does not rotate it")
}

func TestRefresh_ExplicitTokenWins(t *testing.T) {
	s := loggedInSession(t)

	srv := newTestServer(t, http.StatusOK, map[string]any{
		"success":     true,
		"accessToken": "access-3",
	})
	relocate(t, s, srv.URL)

	res := s.Refresh(context.Background(), "explicit-token")

	require.True(t, res.Success)
	assert.Equal(t, "explicit-token", srv.Last().Body["refreshToken"])
}

func TestRefresh_NetworkFailureLeavesStateUntouched(t *testing.T) {
	s := loggedInSession(t)

	srv := newTestServer(t, http.StatusOK, map[string]any{"success": true})
	srv.Close()
	relocate(t, s, srv.URL)

	res := s.Refresh(context.Background(), "")

	assert.True(t, res.NetworkFailure())
	assert.Equal(t, "access-1", s.AccessToken())
	assert.Equal(t, "refresh-1", s.RefreshToken())
}

func TestLogout_NotLoggedIn(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, map[string]any{"success": true})
	s := client.New(srv.URL)

	res := s.Logout(context.Background())

	assert.False(t, res.Success)
	assert.Equal(t, "Not logged in", res.Message)
	assert.Zero(t, srv.Hits())
}

func TestLogout_SendsCredentialsAndClears(t *testing.T) {
	s := loggedInSession(t)

	srv := newTestServer(t, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out successfully",
	})
	relocate(t, s, srv.URL)

	res := s.Logout(context.Background())

	require.True(t, res.Success)
	assert.Equal(t, "Bearer access-1", srv.Last().Authorization)
	assert.Equal(t, "refresh-1", srv.Last().Body["refreshToken"])
	assert.Empty(t, s.AccessToken())
	assert.Empty(t, s.RefreshToken())
}

func TestLogout_ClearsOnServerRejection(t *testing.T) {
	s := loggedInSession(t)

	srv := newTestServer(t, http.StatusInternalServerError, map[string]any{
		"success": false,
		"error":   "SERVER_ERROR",
	})
	relocate(t, s, srv.URL)

	res := s.Logout(context.Background())

	assert.Equal(t, "SERVER_ERROR", res.Error)
	assert.Empty(t, s.AccessToken())
	assert.Empty(t, s.RefreshToken())
}

func TestLogout_ClearsOnNetworkFailure(t *testing.T) {
	s := loggedInSession(t)

	srv := newTestServer(t, http.StatusOK, map[string]any{"success": true})
	srv.Close()
	relocate(t, s, srv.URL)

	res := s.Logout(context.Background())

	assert.True(t, res.NetworkFailure())
	assert.Empty(t, s.AccessToken())
	assert.Empty(t, s.RefreshToken())

	// A subsequent profile call fails locally without a network round trip.
	profile := s.Profile(context.Background())
	assert.False(t, profile.Success)
	assert.Equal(t, "No access token available", profile.Message)
}

func TestProfile_NoTokenFailsLocally(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, map[string]any{"success": true})
	s := client.New(srv.URL)

	res := s.Profile(context.Background())

	assert.False(t, res.Success)
	assert.Equal(t, "No access token available", res.Message)
	assert.Zero(t, srv.Hits())
}

func TestProfile_SendsBearer(t *testing.T) {
	s := loggedInSession(t)

	srv := newTestServer(t, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"userId":    "user-1",
			"email":     "a@b.com",
			"createdAt": "2025-06-01T12:00:00Z",
		},
	})
	relocate(t, s, srv.URL)

	res := s.Profile(context.Background())

	require.True(t, res.Success)
	assert.Equal(t, "Bearer access-1", srv.Last().Authorization)
	require.NotNil(t, res.Data)
	assert.Equal(t, "a@b.com", res.Data.Email)
	assert.Equal(t, "user-1", res.Data.UserID)
}

func TestNonJSONResponseIsNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>gateway error</html>"))
	}))
	t.Cleanup(srv.Close)
	s := client.New(srv.URL)

	res := s.Login(context.Background(), "a@b.com", "Passw0rd")

	assert.True(t, res.NetworkFailure())
	assert.Empty(t, s.AccessToken())
}
