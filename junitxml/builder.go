package junitxml

// This file contains the model builder: it walks the raw document and
// produces one normalized TestRun per input file.

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/qainsights/qainsights/model"
	"github.com/rs/zerolog"
)

// DefaultMaxDepth is the default ceiling for suite nesting. Generous for
// real reports; its purpose is to reject pathological input.
const DefaultMaxDepth = 64

// Timestamps sometimes only appear on the first line of system-out,
// in the form "YYYYMMDD HH:MM:SS".
var systemOutTimestamp = regexp.MustCompile(`^(\d{8} \d{2}:\d{2}:\d{2})`)

// Builder converts raw documents into TestRun values.
type Builder struct {
	logger   zerolog.Logger
	maxDepth int
}

// NewBuilder creates a builder with the given nesting ceiling. A maxDepth
// of 0 or less selects DefaultMaxDepth.
func NewBuilder(logger zerolog.Logger, maxDepth int) *Builder {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Builder{logger: logger, maxDepth: maxDepth}
}

// suiteAcc accumulates cases for one flattened suite name, preserving
// first-seen order while letting duplicate identities overwrite in place.
type suiteAcc struct {
	name  string
	order []model.CaseID
	cases map[model.CaseID]model.TestCase
}

// Build produces one TestRun from a raw document. Nested suites are
// flattened with path-qualified names; nesting beyond the configured depth
// fails with StructureError. Duplicate case identities within the run are
// merged last-write-wins with a warning.
func (b *Builder) Build(doc *Document) (*model.TestRun, error) {
	var (
		order  []string
		suites = make(map[string]*suiteAcc)
	)

	var walk func(s *Suite, prefix string, depth int) error
	walk = func(s *Suite, prefix string, depth int) error {
		if depth > b.maxDepth {
			return &StructureError{Path: doc.Path, Depth: b.maxDepth}
		}

		name := s.Name
		if name == "" {
			name = "unnamed"
		}
		if prefix != "" {
			name = prefix + "/" + name
		}

		if len(s.Cases) > 0 {
			acc, ok := suites[name]
			if !ok {
				acc = &suiteAcc{name: name, cases: make(map[model.CaseID]model.TestCase)}
				suites[name] = acc
				order = append(order, name)
			}
			for i := range s.Cases {
				tc := b.buildCase(doc.Path, name, &s.Cases[i])
				if _, dup := acc.cases[tc.ID]; dup {
					b.logger.Warn().
						Str("path", doc.Path).
						Str("case", tc.ID.String()).
						Msg("Duplicate test case identity, keeping last occurrence")
				} else {
					acc.order = append(acc.order, tc.ID)
				}
				acc.cases[tc.ID] = tc
			}
		}

		for i := range s.Suites {
			if err := walk(&s.Suites[i], name, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	for i := range doc.Suites {
		if err := walk(&doc.Suites[i], "", 1); err != nil {
			return nil, err
		}
	}

	run := &model.TestRun{
		SourcePath: doc.Path,
		LoadedAt:   time.Now(),
	}
	for _, name := range order {
		acc := suites[name]
		suite := model.TestSuite{Name: acc.name, Cases: make([]model.TestCase, 0, len(acc.order))}
		for _, id := range acc.order {
			suite.Cases = append(suite.Cases, acc.cases[id])
		}
		run.Suites = append(run.Suites, suite)
	}
	return run, nil
}

func (b *Builder) buildCase(path, suiteName string, c *Case) model.TestCase {
	id := model.CaseID{Suite: suiteName, Class: c.Classname, Name: c.Name}

	tc := model.TestCase{
		ID:        id,
		Status:    b.caseStatus(path, id, c),
		SystemOut: strings.TrimSpace(c.SystemOut),
		Timestamp: b.caseTimestamp(c),
	}

	if c.Time == "" {
		b.logger.Debug().
			Str("path", path).
			Str("case", id.String()).
			Msg("Test case has no duration, assuming 0")
	} else if secs, err := strconv.ParseFloat(c.Time, 64); err != nil || secs < 0 {
		b.logger.Warn().
			Str("path", path).
			Str("case", id.String()).
			Str("time", c.Time).
			Msg("Invalid test case duration, assuming 0")
	} else {
		tc.DurationSeconds = secs
	}

	switch tc.Status {
	case model.StatusFailed:
		tc.FailureMessage = outcomeReason(c.Failure)
	case model.StatusError:
		tc.FailureMessage = outcomeReason(c.Error)
	case model.StatusSkipped:
		if c.Skipped != nil {
			tc.SkippedMessage = c.Skipped.Message
		}
	}

	return tc
}

// caseStatus normalizes the two accepted outcome encodings. An explicit
// status attribute wins; otherwise the child elements are probed in the
// fixed priority order failure, skipped, error.
func (b *Builder) caseStatus(path string, id model.CaseID, c *Case) model.Status {
	if c.Status != "" {
		status, ok := model.StatusFromString(c.Status)
		if !ok {
			b.logger.Warn().
				Str("path", path).
				Str("case", id.String()).
				Str("status", c.Status).
				Msg("Unrecognized test status, coercing to error")
		}
		return status
	}
	switch {
	case c.Failure != nil:
		return model.StatusFailed
	case c.Skipped != nil:
		return model.StatusSkipped
	case c.Error != nil:
		return model.StatusError
	}
	return model.StatusPassed
}

// caseTimestamp prefers an explicit timestamp element and falls back to a
// timestamp on the first line of system-out.
func (b *Builder) caseTimestamp(c *Case) string {
	if ts := strings.TrimSpace(c.Timestamp); ts != "" {
		return ts
	}
	out := strings.TrimSpace(c.SystemOut)
	if out == "" {
		return ""
	}
	firstLine := out
	if idx := strings.IndexByte(out, '\n'); idx >= 0 {
		firstLine = out[:idx]
	}
	if m := systemOutTimestamp.FindString(strings.TrimSpace(firstLine)); m != "" {
		return m
	}
	return ""
}

// outcomeReason extracts the first line of the message attribute, falling
// back to the first line of the element text.
func outcomeReason(o *Outcome) string {
	if o == nil {
		return ""
	}
	text := strings.TrimSpace(o.Message)
	if text == "" {
		text = strings.TrimSpace(o.Text)
	}
	if text == "" {
		return ""
	}
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = strings.TrimSpace(text[:idx])
	}
	return text
}
