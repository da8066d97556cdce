// Package password wraps bcrypt hashing for staff account credentials.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidPassword is returned when a password does not match its
// stored hash. Callers map it to an authentication failure without
// leaking whether the account exists.
var ErrInvalidPassword = errors.New("invalid password")

// Hash derives a bcrypt hash from a plaintext password using the
// library's default cost.
func Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", errors.New("password cannot be empty")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashed), nil
}

// Verify compares a plaintext password against a stored hash.
func Verify(plaintext, hash string) error {
	if plaintext == "" || hash == "" {
		return ErrInvalidPassword
	}

	switch err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)); {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrInvalidPassword
	default:
		return fmt.Errorf("failed to verify password: %w", err)
	}
}
