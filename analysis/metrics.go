package analysis

import (
	"sort"

	"github.com/qainsights/qainsights/model"
	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultTopN is the default length of the slowest-cases list.
	DefaultTopN = 10
	// DefaultOutlierSigma is the default k in the mean + k*stddev
	// slow-outlier threshold.
	DefaultOutlierSigma = 3.0
	// DefaultOutlierMinCases is the smallest suite size for which outlier
	// statistics are computed. Below it, stddev is meaningless.
	DefaultOutlierMinCases = 2
)

// Options are the tuning knobs for aggregation and detection.
type Options struct {
	TopN            int
	OutlierSigma    float64
	OutlierMinCases int
}

// WithDefaults fills zero values with package defaults.
func (o Options) WithDefaults() Options {
	if o.TopN <= 0 {
		o.TopN = DefaultTopN
	}
	if o.OutlierSigma <= 0 {
		o.OutlierSigma = DefaultOutlierSigma
	}
	if o.OutlierMinCases <= 0 {
		o.OutlierMinCases = DefaultOutlierMinCases
	}
	return o
}

// Aggregate computes one snapshot per run plus a combined snapshot over the
// pool of all cases. Counts and duration samples are pooled rather than
// averaged across runs, so small runs carry no extra weight.
func Aggregate(runs []*model.TestRun, opts Options) (perRun []model.MetricsSnapshot, combined model.MetricsSnapshot) {
	opts = opts.WithDefaults()

	var (
		allCases  []model.TestCase
		allSuites []model.TestSuite
	)
	for _, run := range runs {
		perRun = append(perRun, snapshot(run.SourcePath, run.Cases(), run.Suites, opts))
		allCases = append(allCases, run.Cases()...)
		allSuites = append(allSuites, run.Suites...)
	}
	combined = snapshot(model.CombinedSource, allCases, allSuites, opts)
	return perRun, combined
}

func snapshot(source string, cases []model.TestCase, suites []model.TestSuite, opts Options) model.MetricsSnapshot {
	snap := model.MetricsSnapshot{Source: source}

	durations := make([]float64, 0, len(cases))
	for _, c := range cases {
		snap.Counts.Add(c.Status)
		durations = append(durations, c.DurationSeconds)
	}
	snap.Rates = rates(snap.Counts)
	snap.Durations = durationStats(durations)
	snap.Slowest = SlowestCases(cases, opts.TopN)
	snap.Suites = suiteDurations(suites)
	return snap
}

func rates(c model.StatusCounts) model.Rates {
	if c.Total == 0 {
		return model.Rates{}
	}
	total := float64(c.Total)
	return model.Rates{
		Pass:  float64(c.Passed) / total,
		Fail:  float64(c.Failed) / total,
		Error: float64(c.Errors) / total,
		Skip:  float64(c.Skipped) / total,
	}
}

// durationStats computes nearest-rank percentiles. The empirical quantile
// on the sorted sample is exactly the nearest-rank value, so results do
// not depend on processing order.
func durationStats(durations []float64) model.DurationStats {
	var stats model.DurationStats
	for _, d := range durations {
		stats.TotalSeconds += d
	}
	if len(durations) == 0 {
		return stats
	}
	sorted := append([]float64(nil), durations...)
	sort.Float64s(sorted)
	stats.P50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	stats.P90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	stats.P100 = stat.Quantile(1, stat.Empirical, sorted, nil)
	return stats
}

// SlowestCases returns the top-n cases by duration. Ordering is stable and
// fully deterministic: duration descending, then identity ascending.
func SlowestCases(cases []model.TestCase, n int) []model.SlowCase {
	slow := make([]model.SlowCase, 0, len(cases))
	for _, c := range cases {
		slow = append(slow, model.SlowCase{ID: c.ID, DurationSeconds: c.DurationSeconds})
	}
	sort.SliceStable(slow, func(i, j int) bool {
		if slow[i].DurationSeconds != slow[j].DurationSeconds {
			return slow[i].DurationSeconds > slow[j].DurationSeconds
		}
		return slow[i].ID.String() < slow[j].ID.String()
	})
	if n < len(slow) {
		slow = slow[:n]
	}
	return slow
}

// CasesWithStatus returns every case whose status matches one of the given
// statuses, in run order, then suite and case order within each run.
func CasesWithStatus(runs []*model.TestRun, statuses ...model.Status) []model.TestCase {
	var out []model.TestCase
	for _, run := range runs {
		for _, c := range run.Cases() {
			for _, st := range statuses {
				if c.Status == st {
					out = append(out, c)
					break
				}
			}
		}
	}
	return out
}

// suiteDurations sums per-suite durations, merging suites that repeat
// across runs, ordered slowest first with name as the tie-break.
func suiteDurations(suites []model.TestSuite) []model.SuiteDuration {
	totals := make(map[string]float64)
	var names []string
	for i := range suites {
		if _, ok := totals[suites[i].Name]; !ok {
			names = append(names, suites[i].Name)
		}
		totals[suites[i].Name] += suites[i].TotalDuration()
	}
	out := make([]model.SuiteDuration, 0, len(names))
	for _, name := range names {
		out = append(out, model.SuiteDuration{Name: name, DurationSeconds: totals[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DurationSeconds != out[j].DurationSeconds {
			return out[i].DurationSeconds > out[j].DurationSeconds
		}
		return out[i].Name < out[j].Name
	})
	return out
}
