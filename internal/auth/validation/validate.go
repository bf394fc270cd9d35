// Package validation holds the input rules enforced on both sides of the
// auth contract. The client and the server run the same rules independently;
// neither trusts the other's pass.
package validation

import "regexp"

const maxEmailLength = 254

// Field keys used in validation error maps.
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	upperPattern = regexp.MustCompile(`[A-Z]`)
	lowerPattern = regexp.MustCompile(`[a-z]`)
	digitPattern = regexp.MustCompile(`[0-9]`)
)

// Rules parameterizes the side-specific differences. The zero value is the
// client rule set; Server additionally caps the password length.
type Rules struct {
	MaxPasswordLen int
}

var (
	Client = Rules{}
	Server = Rules{MaxPasswordLen: 128}
)

// Email returns an empty string when valid, else the violation message.
func (r Rules) Email(email string) string {
	if email == "" {
		return "Email is required"
	}
	if len(email) > maxEmailLength {
		return "Email must not exceed 254 characters"
	}
	if !emailPattern.MatchString(email) {
		return "Invalid email format"
	}
	return ""
}

// Password returns an empty string when valid, else the violation message.
func (r Rules) Password(password string) string {
	if password == "" {
		return "Password is required"
	}
	if len(password) < 8 {
		return "Password must be at least 8 characters"
	}
	if r.MaxPasswordLen > 0 && len(password) > r.MaxPasswordLen {
		return "Password must not exceed 128 characters"
	}
	if !upperPattern.MatchString(password) {
		return "Password must contain at least one uppercase letter"
	}
	if !lowerPattern.MatchString(password) {
		return "Password must contain at least one lowercase letter"
	}
	if !digitPattern.MatchString(password) {
		return "Password must contain at least one digit"
	}
	return ""
}

// Registration runs every registration rule and collects all field errors
// rather than stopping at the first. An empty map means the input passed.
func (r Rules) Registration(email, password, confirmPassword string) map[string]string {
	fields := make(map[string]string)

	if msg := r.Email(email); msg != "" {
		fields[FieldEmail] = msg
	}
	if msg := r.Password(password); msg != "" {
		fields[FieldPassword] = msg
	}
	if confirmPassword == "" {
		fields[FieldConfirmPassword] = "Confirm password is required"
	} else if confirmPassword != password {
		fields[FieldConfirmPassword] = "Passwords do not match"
	}

	return fields
}
