package auth

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"nxq-backend/internal/apperr"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the hashes already stored by existing installs.
const bcryptCost = 12

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_@.-]+$`)

// HashPassword generates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks if the provided password matches the hash
func VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// SanitizeCredentials trims the login input and checks its shape before any
// lookup is made.
func SanitizeCredentials(username, password string) (string, string, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	if username == "" || password == "" {
		return "", "", apperr.Validation("credentials", "username and password are required")
	}
	if n := utf8.RuneCountInString(username); n < 3 || n > 50 {
		return "", "", apperr.Validation("username", "must be between 3 and 50 characters")
	}
	if !usernamePattern.MatchString(username) {
		return "", "", apperr.Validation("username", "contains invalid characters")
	}
	if n := utf8.RuneCountInString(password); n < 6 || n > 128 {
		return "", "", apperr.Validation("password", "must be between 6 and 128 characters")
	}
	return username, password, nil
}
