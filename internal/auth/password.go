// Package auth provides password hashing and JWT token management for the
// authentication service.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor used in production. Tests inject a
// lower cost to avoid the ~250ms per-hash overhead.
const defaultCost = 12

// bcrypt silently truncates inputs beyond 72 bytes
const maxPasswordBytes = 72

// PasswordHasher provides bcrypt hashing and verification.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a PasswordHasher with the default cost
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: defaultCost}
}

// NewPasswordHasherWithCost creates a PasswordHasher with a custom cost.
// Use bcrypt.MinCost in tests; never in production.
func NewPasswordHasherWithCost(cost int) *PasswordHasher {
	return &PasswordHasher{cost: cost}
}

// Hash hashes the given plaintext password with bcrypt. The returned string
// embeds the salt and cost, so it can be stored as-is.
func (p *PasswordHasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > maxPasswordBytes {
		return "", fmt.Errorf("auth: password must be %d bytes or fewer", maxPasswordBytes)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify reports whether the plaintext password matches the stored hash.
// A malformed hash is treated as a verification failure, not an error:
// the caller cannot distinguish it from a wrong password.
func (p *PasswordHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
