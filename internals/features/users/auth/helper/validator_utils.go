package helpers

import (
	"errors"
	"regexp"
)

var (
	hasLetter = regexp.MustCompile(`[A-Za-z]`)
	hasNumber = regexp.MustCompile(`[0-9]`)
)

const MinPasswordLength = 8

// ValidatePasswordStrength: at least 8 chars, one letter, one digit.
func ValidatePasswordStrength(pw string) error {
	if len(pw) < MinPasswordLength {
		return errors.New("password must be at least 8 characters")
	}
	if !hasLetter.MatchString(pw) || !hasNumber.MatchString(pw) {
		return errors.New("password must contain letters and numbers")
	}
	return nil
}
