package model

import (
	"fmt"
	"strings"
)

// MissingTableError reports every required table absent from the
// loaded set, not just the first.
type MissingTableError struct {
	Tables []string
}

func (e *MissingTableError) Error() string {
	return fmt.Sprintf("missing required tables: %s", strings.Join(e.Tables, ", "))
}

// InvalidInputError reports a constructor-time contract violation.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}
