// Package errors defines the domain error type shared across the API
// boundary. Service packages keep their own sentinel errors; handlers map
// them onto DomainError values for consistent JSON responses.
package errors

import "fmt"

// DomainError is a stable, user-presentable error with a machine code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
