// internal/app/system/authutil/authutil.go
// Package authutil validates and hashes admin credentials. It is shared by
// startup seeding, the reelctl CLI and the login handler.
package authutil

import (
	"errors"
	"strings"

	"github.com/dalemusser/reelsite/internal/app/system/inputval"
	"github.com/dalemusser/reelsite/internal/app/system/normalize"
)

// AdminInput holds the raw values for creating or resetting an admin.
type AdminInput struct {
	FullName string
	Email    string
	Password string
}

// AdminResult holds the validated fields ready for storage.
type AdminResult struct {
	FullName     string
	Email        string // lowercase
	PasswordHash string
}

// Common validation errors
var (
	ErrEmailRequired = errors.New("Email is required.")
	ErrInvalidEmail  = errors.New("Please enter a valid email address.")
)

// ValidateAdmin checks an admin's email and password and hashes the
// password. An empty name falls back to the part of the email before '@'.
func ValidateAdmin(in AdminInput) (*AdminResult, error) {
	email := normalize.Email(in.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if !inputval.IsValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	name := normalize.Name(in.FullName)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	return &AdminResult{FullName: name, Email: email, PasswordHash: hash}, nil
}
