package models

import "fmt"

// ValidationError reports a payload that fails schema rules.
// It maps to HTTP 400 in the API layer.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
