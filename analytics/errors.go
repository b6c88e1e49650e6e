package analytics

import (
	"fmt"
	"strings"
)

// ============================================================================
// ANALYZER ERRORS — fail fast, enumerate every missing name
// ============================================================================

// InvalidInputError reports a constructor-time contract violation.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

// MissingColumnError reports required columns absent from a table.
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

// MissingCatalogError reports an operation that needs the catalog
// table when none was supplied at construction.
type MissingCatalogError struct {
	Op string
}

func (e *MissingCatalogError) Error() string {
	return fmt.Sprintf("catalog table is required for %s", e.Op)
}
