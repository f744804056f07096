package model

import (
	"fmt"
	"strings"
)

// ValidationErrors collects violation messages for a single operation.
// It is returned as an error so callers can surface every message at
// once instead of failing on the first.
type ValidationErrors struct {
	Violations []string
}

func (e *ValidationErrors) Addf(format string, args ...interface{}) {
	e.Violations = append(e.Violations, fmt.Sprintf(format, args...))
}

func (e *ValidationErrors) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// Err returns nil when no violations were recorded.
func (e *ValidationErrors) Err() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}

func IsValidation(err error) bool {
	_, ok := err.(*ValidationErrors)
	return ok
}
