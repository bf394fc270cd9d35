package client

// Error codes the session manager issues locally. The server never emits
// ErrCodeNetwork, so a caller can tell a transport failure apart from a
// request the server rejected.
const (
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeNetwork    = "NETWORK_ERROR"
)

type Profile struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

// Result is the uniform outcome of every session operation. Fields are
// populated from the server's JSON response verbatim; local failures fill
// only Success, Error, and Message (plus Fields for validation).
type Result struct {
	Success      bool              `json:"success"`
	Message      string            `json:"message,omitempty"`
	Error        string            `json:"error,omitempty"`
	Fields       map[string]string `json:"fields,omitempty"`
	UserID       string            `json:"userId,omitempty"`
	AccessToken  string            `json:"accessToken,omitempty"`
	RefreshToken string            `json:"refreshToken,omitempty"`
	ExpiresIn    int               `json:"expiresIn,omitempty"`
	TokenType    string            `json:"tokenType,omitempty"`
	RetryAfter   int               `json:"retryAfter,omitempty"`
	Data         *Profile          `json:"data,omitempty"`

	// StatusCode is the HTTP status of the server response, zero for
	// results produced locally.
	StatusCode int `json:"-"`
}

// NetworkFailure reports whether the result stands for a transport failure
// or an unparseable response rather than a server-issued rejection.
func (r *Result) NetworkFailure() bool {
	return r.Error == ErrCodeNetwork
}

func networkFailure() *Result {
	return &Result{
		Error:   ErrCodeNetwork,
		Message: "Network error occurred",
	}
}

func localFailure(message string) *Result {
	return &Result{
		Error:   ErrCodeValidation,
		Message: message,
	}
}
