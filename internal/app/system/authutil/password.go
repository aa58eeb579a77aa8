// internal/app/system/authutil/password.go
package authutil

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Password validation constants. MaxPasswordLength matches bcrypt's input
// limit so no two accepted passwords can collide after truncation.
const (
	MinPasswordLength = 10
	MaxPasswordLength = 72
	BcryptCost        = 12
)

// Password validation errors
var (
	ErrPasswordTooShort = errors.New("Password must be at least 10 characters.")
	ErrPasswordTooLong  = errors.New("Password must be at most 72 bytes.")
	ErrPasswordCommon   = errors.New("This password is too common. Please choose a different one.")
)

// commonPasswords is a list of very common passwords that are blocked.
// Only entries at or above MinPasswordLength matter.
var commonPasswords = map[string]bool{
	"1234567890":    true,
	"0123456789":    true,
	"12345678910":   true,
	"password123":   true,
	"password1234":  true,
	"qwertyuiop":    true,
	"1q2w3e4r5t":    true,
	"iloveyou123":   true,
	"letmein1234":   true,
	"welcome123":    true,
	"admin12345":    true,
	"administrator": true,
	"changeme123":   true,
	"videoeditor":   true,
}

// PasswordRules returns a human-readable description of the password rules.
func PasswordRules() string {
	return "Password must be at least 10 characters and cannot be a common password like \"1234567890\" or \"password123\"."
}

// ValidatePassword checks if a password meets the requirements.
// Returns nil if valid, or an error describing the issue.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	if commonPasswords[strings.ToLower(password)] {
		return ErrPasswordCommon
	}
	return nil
}

// HashPassword hashes a password using bcrypt.
// The password should be validated with ValidatePassword first.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a plain-text password with a bcrypt hash.
// Returns true if the password matches, false otherwise.
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// dummyHash is compared against when the account does not exist so that
// unknown and known emails take the same time to reject.
var dummyHash = func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("reelsite-timing-equalizer"), BcryptCost)
	return h
}()

// BurnCompare performs a bcrypt comparison whose result is discarded.
func BurnCompare(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
