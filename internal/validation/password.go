package validation

import "regexp"

const MinPasswordLength = 8

var specialChars = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)

// HasSpecialChar checks if a string contains at least one special character
func HasSpecialChar(s string) bool {
	return specialChars.MatchString(s)
}

// ValidPassword checks the minimum password policy.
func ValidPassword(password string) bool {
	return len(password) >= MinPasswordLength && HasSpecialChar(password)
}
