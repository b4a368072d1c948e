package validation

import (
	"regexp"
	"unicode"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Principal addresses are assigned at registration: "PRN-" plus the first
// segment of an uppercased UUID.
var principalRe = regexp.MustCompile(`^PRN-[0-9A-F-]{13}$`)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

func IsValidPrincipal(principal string) bool {
	return principalRe.MatchString(principal)
}

// IsValidPassword requires at least 8 characters with at least one letter,
// one digit and one special character.
func IsValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter, hasDigit, hasSpecial := false, false, false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	return hasLetter && hasDigit && hasSpecial
}
