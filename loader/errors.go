package loader

import "fmt"

// ============================================================================
// LOADER ERRORS
// ============================================================================
// Loading fails fast: a missing directory, an empty directory or a
// structurally unreadable file aborts the whole load. Per-cell
// coercion failures are the one non-fatal case — they are recorded as
// warnings, never raised.
// ============================================================================

// NotFoundError reports a missing input directory or database file.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("input not found: %s", e.Path)
}

// EmptyInputError reports a directory with no tabular files.
type EmptyInputError struct {
	Dir string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("no tabular files found in %s", e.Dir)
}

// ParseError reports a file that could not be parsed at all.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
