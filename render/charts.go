package render

// This file contains the pure chart-spec builders. Specs carry everything
// the renderer needs; building them has no side effects, so aggregation
// and detection stay independently testable.

import (
	"fmt"

	"github.com/qainsights/qainsights/model"
)

// ChartKind keys a chart artifact. The kind doubles as the artifact's
// stable file stem.
type ChartKind string

const (
	KindStatusDistribution   ChartKind = "status-distribution"
	KindDurationDistribution ChartKind = "duration-distribution"
	KindSlowestCases         ChartKind = "slowest-cases"
	KindFailedCases          ChartKind = "failed-cases"
	KindSkippedCases         ChartKind = "skipped-cases"
	KindInsights             ChartKind = "insights"
)

// StatusColors is the fixed per-status color contract. Re-running on
// identical input must render visually identical charts.
var StatusColors = map[model.Status]string{
	model.StatusPassed:  "#2e7d32",
	model.StatusFailed:  "#c62828",
	model.StatusError:   "#ef6c00",
	model.StatusSkipped: "#9e9e9e",
}

// ChartSpec is one renderable chart. Categories/Values/Colors drive the
// pie and bar kinds; Cases drives the failed/skipped listings; Insights
// drives the insight listing. NoData marks an empty dataset that should
// render as an explicit placeholder rather than omitting the artifact.
type ChartSpec struct {
	Kind       ChartKind
	Title      string
	Categories []string
	Values     []float64
	Colors     []string
	Cases      []model.TestCase
	Insights   []model.Insight
	NoData     bool
}

// Artifact is one rendered output file.
type Artifact struct {
	Name    string
	Content []byte
}

// Renderer turns chart specs into artifacts. It is injected into the
// pipeline so tests can substitute a fake.
type Renderer interface {
	Render(specs []ChartSpec) ([]Artifact, error)
}

// BuildCharts produces the fixed set of chart specs, always in the same
// order: status distribution, duration distribution, slowest cases,
// failed-case listing, skipped-case listing, insight listing.
func BuildCharts(combined model.MetricsSnapshot, insights []model.Insight, failed, skipped []model.TestCase) []ChartSpec {
	return []ChartSpec{
		statusSpec(combined),
		durationSpec(combined),
		slowestSpec(combined),
		caseListingSpec(KindFailedCases, "Failed test cases", failed),
		caseListingSpec(KindSkippedCases, "Skipped test cases", skipped),
		insightsSpec(insights),
	}
}

func caseListingSpec(kind ChartKind, title string, cases []model.TestCase) ChartSpec {
	return ChartSpec{
		Kind:   kind,
		Title:  title,
		Cases:  cases,
		NoData: len(cases) == 0,
	}
}

func statusSpec(snap model.MetricsSnapshot) ChartSpec {
	spec := ChartSpec{
		Kind:   KindStatusDistribution,
		Title:  "Status distribution",
		NoData: snap.Counts.Total == 0,
	}
	for _, st := range model.StatusOrder {
		spec.Categories = append(spec.Categories, string(st))
		spec.Values = append(spec.Values, float64(snap.Counts.Get(st)))
		spec.Colors = append(spec.Colors, StatusColors[st])
	}
	return spec
}

func durationSpec(snap model.MetricsSnapshot) ChartSpec {
	return ChartSpec{
		Kind:       KindDurationDistribution,
		Title:      "Duration distribution (seconds)",
		Categories: []string{"p50", "p90", "p100"},
		Values:     []float64{snap.Durations.P50, snap.Durations.P90, snap.Durations.P100},
		NoData:     snap.Counts.Total == 0,
	}
}

func slowestSpec(snap model.MetricsSnapshot) ChartSpec {
	spec := ChartSpec{
		Kind:   KindSlowestCases,
		Title:  fmt.Sprintf("Slowest %d test cases (seconds)", len(snap.Slowest)),
		NoData: len(snap.Slowest) == 0,
	}
	for _, slow := range snap.Slowest {
		spec.Categories = append(spec.Categories, slow.ID.String())
		spec.Values = append(spec.Values, slow.DurationSeconds)
	}
	return spec
}

func insightsSpec(insights []model.Insight) ChartSpec {
	return ChartSpec{
		Kind:     KindInsights,
		Title:    "Flaky, regression and slow outlier summary",
		Insights: insights,
		NoData:   len(insights) == 0,
	}
}
