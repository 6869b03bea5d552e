// Package validation holds input rules shared by the services.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 150
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9_.-]*[A-Za-z0-9])?$`)

var commonPasswords = map[string]struct{}{
	"password":   {},
	"password1":  {},
	"12345678":   {},
	"123456789":  {},
	"qwertyuiop": {},
	"iloveyou":   {},
	"sunshine1":  {},
	"letmein1":   {},
	"football":   {},
	"baseball":   {},
}

// ValidateUsername checks length and charset: letters, digits and _ . -
// with an alphanumeric first and last character.
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < MinUsernameLength || n > MaxUsernameLength {
		return fmt.Errorf("username must be between %d and %d characters", MinUsernameLength, MaxUsernameLength)
	}
	if !usernameRegex.MatchString(username) {
		return errors.New("username may only contain letters, digits, '_', '.' and '-', and must start and end with a letter or digit")
	}
	return nil
}

// ValidatePassword rejects passwords that are too short or long, entirely
// numeric, common, or that contain the username.
func ValidatePassword(password, username string) error {
	n := utf8.RuneCountInString(password)
	if n < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if n > MaxPasswordLength {
		return fmt.Errorf("password must be at most %d characters", MaxPasswordLength)
	}
	if strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) == -1 {
		return errors.New("password cannot be entirely numeric")
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		return errors.New("password is too common")
	}
	if u := strings.ToLower(strings.TrimSpace(username)); u != "" &&
		strings.Contains(strings.ToLower(password), u) {
		return errors.New("password is too similar to the username")
	}
	return nil
}
