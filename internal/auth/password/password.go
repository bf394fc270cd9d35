// Package password abstracts how credential secrets are stored and compared.
// The reference server keeps secrets in plain text so its responses stay
// deterministic for testing; production deployments should select Bcrypt.
package password

import "golang.org/x/crypto/bcrypt"

type Scheme interface {
	Hash(plain string) (string, error)
	Compare(secret, plain string) bool
}

// Plain stores the password as-is. Test fixture only.
type Plain struct{}

func (Plain) Hash(plain string) (string, error) {
	return plain, nil
}

func (Plain) Compare(secret, plain string) bool {
	return secret == plain
}

// Bcrypt stores a bcrypt hash of the password.
type Bcrypt struct{}

func (Bcrypt) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (Bcrypt) Compare(secret, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(secret), []byte(plain)) == nil
}

// FromName maps a config value to a scheme, defaulting to Plain.
func FromName(name string) Scheme {
	if name == "bcrypt" {
		return Bcrypt{}
	}
	return Plain{}
}
