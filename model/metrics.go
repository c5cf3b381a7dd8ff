package model

// StatusCounts holds per-status case counts. Total is maintained by Add so
// the invariant total == passed+failed+errors+skipped always holds.
type StatusCounts struct {
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Errors  int `json:"errors"`
	Skipped int `json:"skipped"`
	Total   int `json:"total"`
}

func (c *StatusCounts) Add(st Status) {
	switch st {
	case StatusPassed:
		c.Passed++
	case StatusFailed:
		c.Failed++
	case StatusError:
		c.Errors++
	case StatusSkipped:
		c.Skipped++
	}
	c.Total++
}

// Get returns the count for a single status.
func (c StatusCounts) Get(st Status) int {
	switch st {
	case StatusPassed:
		return c.Passed
	case StatusFailed:
		return c.Failed
	case StatusError:
		return c.Errors
	case StatusSkipped:
		return c.Skipped
	}
	return 0
}

// Rates are per-status fractions of the total. All zero when the total is
// zero; otherwise they sum to 1 within floating-point tolerance.
type Rates struct {
	Pass  float64 `json:"pass"`
	Fail  float64 `json:"fail"`
	Error float64 `json:"error"`
	Skip  float64 `json:"skip"`
}

// DurationStats are nearest-rank percentiles plus the total over the
// underlying duration sample.
type DurationStats struct {
	TotalSeconds float64 `json:"total_seconds"`
	P50          float64 `json:"p50"`
	P90          float64 `json:"p90"`
	P100         float64 `json:"p100"`
}

// SlowCase is one entry of the slowest-N list.
type SlowCase struct {
	ID              CaseID  `json:"id"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// SuiteDuration is the total duration of one suite, used for the
// slowest-suites view.
type SuiteDuration struct {
	Name            string  `json:"name"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// MetricsSnapshot is the derived statistics for one run, or for the pool
// of all runs when Source is CombinedSource.
type MetricsSnapshot struct {
	Source    string          `json:"source"`
	Counts    StatusCounts    `json:"counts"`
	Rates     Rates           `json:"rates"`
	Durations DurationStats   `json:"durations"`
	Slowest   []SlowCase      `json:"slowest"`
	Suites    []SuiteDuration `json:"suite_durations"`
}

// CombinedSource is the Source value of the snapshot aggregated across all
// runs of an invocation.
const CombinedSource = "combined"

// InsightKind tags the Insight variant.
type InsightKind string

const (
	InsightFlaky       InsightKind = "flaky"
	InsightRegression  InsightKind = "regression"
	InsightSlowOutlier InsightKind = "slow_outlier"
)

// Insight is a detected anomaly. Kind selects which of the optional fields
// are populated:
//   - flaky: Statuses (per-run statuses in run order, runs where seen)
//   - regression: Baseline and Current
//   - slow_outlier: DurationSeconds and Threshold
type Insight struct {
	Kind            InsightKind `json:"kind"`
	ID              CaseID      `json:"id"`
	Statuses        []Status    `json:"statuses,omitempty"`
	Baseline        Status      `json:"baseline,omitempty"`
	Current         Status      `json:"current,omitempty"`
	DurationSeconds float64     `json:"duration_seconds,omitempty"`
	Threshold       float64     `json:"threshold,omitempty"`
}
