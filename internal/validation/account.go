package validation

import "regexp"

var (
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)
)

// ValidEmail checks that the string looks like an email address.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidUsername checks the allowed username alphabet and length.
func ValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}
