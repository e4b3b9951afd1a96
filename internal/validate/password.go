package validate

import (
	"strings"
	"unicode"
)

// Password policy defaults.
const (
	MinPasswordLength     = 8
	MinPasswordComplexity = 3
)

// PasswordComplexity returns the number of satisfied character classes
// (lowercase, uppercase, digit, symbol), from 0 to 4.
func PasswordComplexity(password string) int {
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	score := 0
	for _, ok := range []bool{lower, upper, digit, symbol} {
		if ok {
			score++
		}
	}
	return score
}

// CheckPassword enforces the administrator password policy: non-empty,
// minimum length, minimum complexity score, and no parentheses (they
// break the provisioning toolchain).
func CheckPassword(password string, minLength, minComplexity int) error {
	if password == "" {
		return errf("password", "password must not be empty")
	}
	if len(password) < minLength {
		return errf("password", "password must be at least %d characters", minLength)
	}
	if PasswordComplexity(password) < minComplexity {
		return errf("password", "password too weak: mix at least %d of uppercase, lowercase, digits and symbols", minComplexity)
	}
	if strings.ContainsAny(password, "()") {
		return errf("password", "password must not contain parentheses")
	}
	return nil
}
