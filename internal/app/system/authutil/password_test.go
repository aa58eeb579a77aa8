package authutil

import (
	"strings"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		// Valid passwords
		{"valid min length", "abcdefgh12", nil},
		{"valid medium", "mySecurePassword", nil},
		{"valid max", strings.Repeat("a", 72), nil},
		{"valid with special chars", "P@ssw0rd!123", nil},
		{"valid with spaces", "my secret password", nil},

		// Too short
		{"too short 9 chars", "abcdefghi", ErrPasswordTooShort},
		{"old hard-coded password", "123", ErrPasswordTooShort},
		{"too short empty", "", ErrPasswordTooShort},

		// Too long
		{"too long", strings.Repeat("a", 73), ErrPasswordTooLong},

		// Common passwords
		{"common digits", "1234567890", ErrPasswordCommon},
		{"common password123", "password123", ErrPasswordCommon},
		{"common uppercase", "PASSWORD123", ErrPasswordCommon},
		{"common administrator", "Administrator", ErrPasswordCommon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if err != tt.wantErr {
				t.Errorf("ValidatePassword(%q) = %v, want %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword_CommonListRespectsMinLength(t *testing.T) {
	for pwd := range commonPasswords {
		if len(pwd) < MinPasswordLength {
			t.Errorf("common password %q is shorter than the minimum and can never match", pwd)
		}
	}
}

func TestHashPassword(t *testing.T) {
	password := "mySecurePassword123"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "" || hash == password {
		t.Error("HashPassword() returned empty or unhashed value")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("HashPassword() hash does not appear to be bcrypt: %s", hash)
	}

	hash2, _ := HashPassword(password)
	if hash == hash2 {
		t.Error("HashPassword() should produce different hashes for same password (due to salt)")
	}
}

func TestCheckPassword(t *testing.T) {
	password := "mySecurePassword123"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{"correct password", password, hash, true},
		{"wrong password", "wrongPassword456", hash, false},
		{"empty password", "", hash, false},
		{"empty hash", password, "", false},
		{"invalid hash format", password, "not-a-valid-hash", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPassword(tt.password, tt.hash); got != tt.want {
				t.Errorf("CheckPassword(%q, hash) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}

func TestBurnCompare(t *testing.T) {
	// Must not panic for any input.
	BurnCompare("")
	BurnCompare("anything at all")
}

func TestPasswordRules(t *testing.T) {
	if !strings.Contains(PasswordRules(), "10") {
		t.Error("PasswordRules() should mention minimum length of 10")
	}
}

func TestValidateAdmin(t *testing.T) {
	res, err := ValidateAdmin(AdminInput{Email: "  Editor@Studio.COM ", Password: "a-strong-passphrase"})
	if err != nil {
		t.Fatalf("ValidateAdmin() error = %v", err)
	}
	if res.Email != "editor@studio.com" {
		t.Errorf("Email = %q, want lowercased", res.Email)
	}
	if res.FullName != "editor" {
		t.Errorf("FullName = %q, want derived from email", res.FullName)
	}
	if !CheckPassword("a-strong-passphrase", res.PasswordHash) {
		t.Error("PasswordHash does not verify")
	}

	tests := []struct {
		name string
		in   AdminInput
		want error
	}{
		{"missing email", AdminInput{Password: "a-strong-passphrase"}, ErrEmailRequired},
		{"bad email", AdminInput{Email: "nope", Password: "a-strong-passphrase"}, ErrInvalidEmail},
		{"weak password", AdminInput{Email: "a@b.co", Password: "123"}, ErrPasswordTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateAdmin(tt.in); err != tt.want {
				t.Errorf("ValidateAdmin() error = %v, want %v", err, tt.want)
			}
		})
	}
}
