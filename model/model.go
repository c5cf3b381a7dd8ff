package model

import "time"

// Status is the normalized outcome of a single test case.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusError   Status = "error"
	StatusSkipped Status = "skipped"
)

// StatusOrder is the canonical ordering of statuses used everywhere a
// status breakdown is displayed or serialized.
var StatusOrder = []Status{StatusPassed, StatusFailed, StatusError, StatusSkipped}

// StatusFromString normalizes a status string from a report. The second
// return value is false when the string is not a recognized status; callers
// are expected to coerce such values to StatusError and record a warning.
func StatusFromString(s string) (Status, bool) {
	switch s {
	case "passed", "pass", "success":
		return StatusPassed, true
	case "failed", "failure", "fail":
		return StatusFailed, true
	case "error", "errored":
		return StatusError, true
	case "skipped", "skip", "disabled", "notrun":
		return StatusSkipped, true
	}
	return StatusError, false
}

// CaseID identifies a test case within a run. Suite is the flattened,
// path-qualified suite name, so the triple is unique per TestRun.
type CaseID struct {
	Suite string `json:"suite"`
	Class string `json:"class"`
	Name  string `json:"name"`
}

// String returns a stable single-string form of the identity, used for
// display and for deterministic tie-breaking in sorts.
func (id CaseID) String() string {
	if id.Class == "" {
		return id.Suite + "/" + id.Name
	}
	return id.Suite + "/" + id.Class + "." + id.Name
}

// TestCase is a single normalized test result. Immutable once built.
type TestCase struct {
	ID CaseID `json:"id"`
	// Normalized outcome
	Status Status `json:"status"`
	// Wall-clock duration; 0 when the report omits it
	DurationSeconds float64 `json:"duration_seconds"`
	// First line of the failure/error message, when present
	FailureMessage string `json:"failure_message,omitempty"`
	// Skip reason, when present
	SkippedMessage string `json:"skipped_message,omitempty"`
	// Captured system-out text, when present
	SystemOut string `json:"system_out,omitempty"`
	// Timestamp string as found in the report (not parsed)
	Timestamp string `json:"timestamp,omitempty"`
}

// TestSuite is an ordered collection of cases under one flattened suite
// name. Nested suites in the source document are flattened into separate
// TestSuite entries with path-qualified names.
type TestSuite struct {
	Name  string     `json:"name"`
	Cases []TestCase `json:"cases"`
}

// TotalDuration returns the summed duration of all cases in the suite.
func (s *TestSuite) TotalDuration() float64 {
	var total float64
	for _, c := range s.Cases {
		total += c.DurationSeconds
	}
	return total
}

// Counts returns the per-status counts for the suite. The sum of the
// counts always equals len(s.Cases).
func (s *TestSuite) Counts() StatusCounts {
	var counts StatusCounts
	for _, c := range s.Cases {
		counts.Add(c.Status)
	}
	return counts
}

// TestRun is the normalized result of one input report file. It is owned
// by the pipeline invocation and never mutated after the builder returns.
type TestRun struct {
	SourcePath string      `json:"source_path"`
	Suites     []TestSuite `json:"suites"`
	// Excluded from serialization so that summary output stays
	// byte-identical across invocations on the same input.
	LoadedAt time.Time `json:"-"`
}

// Cases returns all cases of the run in suite order.
func (r *TestRun) Cases() []TestCase {
	var cases []TestCase
	for _, s := range r.Suites {
		cases = append(cases, s.Cases...)
	}
	return cases
}
