package junitxml

// This file contains the per-file error taxonomy for report loading and
// model building. All three are recoverable at the invocation level: the
// pipeline records them and continues with the remaining files.

import "fmt"

// NotFoundError reports a missing input file.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("report not found: %s", e.Path)
}

// ParseError reports a file that could not be parsed as a test report.
type ParseError struct {
	Path   string
	Reason error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed report %s: %v", e.Path, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Reason
}

// StructureError reports pathological suite nesting beyond the configured
// depth ceiling.
type StructureError struct {
	Path  string
	Depth int
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("suite nesting in %s exceeds depth limit %d", e.Path, e.Depth)
}
