package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// passwordCost is the bcrypt work factor for member credentials.
const passwordCost = 12

// MinPasswordLen is the shortest password accepted at registration.
const MinPasswordLen = 8

// ErrPasswordTooShort indicates a password below MinPasswordLen.
var ErrPasswordTooShort = errors.New("password too short")

// HashPassword validates a plaintext password and hashes it with bcrypt.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLen {
		return "", ErrPasswordTooShort
	}
	digest, errHash := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if errHash != nil {
		return "", errHash
	}
	return string(digest), nil
}

// CheckPassword reports whether password matches the stored bcrypt digest.
func CheckPassword(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
