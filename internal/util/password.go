package util

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	// PasswordCost is the bcrypt work factor used for every stored password.
	PasswordCost      = 10
	MinPasswordLength = 6
	// MaxPasswordLength is bcrypt's input limit in bytes.
	MaxPasswordLength = 72
)

var ErrPasswordEmpty = errors.New("password cannot be empty")

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return errors.New("password must be at least 6 characters long")
	}
	if len(password) > MaxPasswordLength {
		return errors.New("password must be at most 72 bytes long")
	}
	return nil
}

// HashPassword returns a salted bcrypt digest of password.
func HashPassword(password string) (string, error) {
	if len(password) == 0 {
		return "", ErrPasswordEmpty
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches digest. Malformed digests
// and mismatches both yield false.
func VerifyPassword(password, digest string) bool {
	if len(password) == 0 || len(digest) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
