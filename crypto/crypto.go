// Package crypto wraps credential hashing. Passwords are stored only as
// salted bcrypt hashes; the plaintext never leaves the registration or
// login call path.
package crypto

import (
	"context"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt embeds a random salt per hash; cost 10 keeps login latency
// acceptable while staying CPU-hard.
const bcryptCost = 10

// HashPassword hashes the provided password using bcrypt.
func HashPassword(_ context.Context, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword compares the hashed password with the provided password.
func ComparePassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
