package security

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// HashPassword hashes a plaintext password with bcrypt. The hash is stored
// in pending registrations from intake onward; the plaintext is never
// persisted anywhere.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword reports whether plaintext matches the stored bcrypt hash.
func ComparePassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

const minPasswordLength = 8

// ValidatePassword checks the password policy and reports every unmet rule,
// not just the first one.
func ValidatePassword(password string) (bool, string) {
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	var unmet []string
	if !hasUpper {
		unmet = append(unmet, "one capital letter")
	}
	if !hasLower {
		unmet = append(unmet, "one small letter")
	}
	if !hasDigit {
		unmet = append(unmet, "one number")
	}
	if !hasSpecial {
		unmet = append(unmet, "one special character")
	}
	if len(password) < minPasswordLength {
		unmet = append(unmet, "at least 8 characters")
	}

	if len(unmet) == 0 {
		return true, ""
	}
	return false, "Password must contain at least " + strings.Join(unmet, ", ") + "."
}
