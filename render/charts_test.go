package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qainsights/qainsights/model"
)

func sampleSnapshot() model.MetricsSnapshot {
	snap := model.MetricsSnapshot{Source: model.CombinedSource}
	snap.Counts = model.StatusCounts{Passed: 3, Failed: 1, Errors: 0, Skipped: 1, Total: 5}
	snap.Durations = model.DurationStats{TotalSeconds: 10, P50: 1, P90: 4, P100: 5}
	snap.Slowest = []model.SlowCase{
		{ID: model.CaseID{Suite: "s", Name: "slow"}, DurationSeconds: 5},
	}
	return snap
}

func TestBuildCharts_FixedSetAndOrder(t *testing.T) {
	specs := BuildCharts(sampleSnapshot(), nil, nil, nil)
	require.Len(t, specs, 6)
	require.Equal(t, KindStatusDistribution, specs[0].Kind)
	require.Equal(t, KindDurationDistribution, specs[1].Kind)
	require.Equal(t, KindSlowestCases, specs[2].Kind)
	require.Equal(t, KindFailedCases, specs[3].Kind)
	require.Equal(t, KindSkippedCases, specs[4].Kind)
	require.Equal(t, KindInsights, specs[5].Kind)
}

func TestBuildCharts_StatusCategoryContract(t *testing.T) {
	specs := BuildCharts(sampleSnapshot(), nil, nil, nil)
	status := specs[0]
	require.Equal(t, []string{"passed", "failed", "error", "skipped"}, status.Categories)
	require.Equal(t, []float64{3, 1, 0, 1}, status.Values)
	require.Equal(t, []string{
		StatusColors[model.StatusPassed],
		StatusColors[model.StatusFailed],
		StatusColors[model.StatusError],
		StatusColors[model.StatusSkipped],
	}, status.Colors)
}

func TestBuildCharts_EmptyDataDegradesToPlaceholders(t *testing.T) {
	specs := BuildCharts(model.MetricsSnapshot{Source: model.CombinedSource}, nil, nil, nil)
	require.Len(t, specs, 6)
	for _, spec := range specs {
		require.True(t, spec.NoData, string(spec.Kind))
	}
}

func TestBuildCharts_InsightListing(t *testing.T) {
	insights := []model.Insight{
		{Kind: model.InsightFlaky, ID: model.CaseID{Suite: "s", Name: "T"},
			Statuses: []model.Status{model.StatusPassed, model.StatusFailed}},
	}
	specs := BuildCharts(sampleSnapshot(), insights, nil, nil)
	require.False(t, specs[5].NoData)
	require.Equal(t, insights, specs[5].Insights)
}

func TestBuildCharts_CaseListings(t *testing.T) {
	failed := []model.TestCase{
		{ID: model.CaseID{Suite: "auth", Class: "Session", Name: "TestLogout"},
			Status: model.StatusFailed, DurationSeconds: 0.5, FailureMessage: "got 401"},
	}
	skipped := []model.TestCase{
		{ID: model.CaseID{Suite: "auth", Class: "Session", Name: "TestSSO"},
			Status: model.StatusSkipped, SkippedMessage: "needs IdP"},
	}
	specs := BuildCharts(sampleSnapshot(), nil, failed, skipped)

	require.Equal(t, failed, specs[3].Cases)
	require.False(t, specs[3].NoData)
	require.Equal(t, skipped, specs[4].Cases)
	require.False(t, specs[4].NoData)
}

func TestHTMLRenderer_CaseListingsCarryReasons(t *testing.T) {
	failed := []model.TestCase{
		{ID: model.CaseID{Suite: "auth", Class: "Session", Name: "TestLogout"},
			Status: model.StatusFailed, DurationSeconds: 0.5, FailureMessage: "got 401"},
	}
	skipped := []model.TestCase{
		{ID: model.CaseID{Suite: "auth", Class: "Session", Name: "TestSSO"},
			Status: model.StatusSkipped, SkippedMessage: "needs IdP"},
	}
	specs := BuildCharts(sampleSnapshot(), nil, failed, skipped)
	artifacts, err := NewHTMLRenderer().Render(specs)
	require.NoError(t, err)

	byName := make(map[string]string)
	for _, a := range artifacts {
		byName[a.Name] = string(a.Content)
	}
	require.Contains(t, byName["failed-cases.html"], "auth/Session.TestLogout")
	require.Contains(t, byName["failed-cases.html"], "got 401")
	require.Contains(t, byName["skipped-cases.html"], "auth/Session.TestSSO")
	require.Contains(t, byName["skipped-cases.html"], "needs IdP")
}

func TestHTMLRenderer_StableArtifactSet(t *testing.T) {
	specs := BuildCharts(sampleSnapshot(), nil, nil, nil)
	artifacts, err := NewHTMLRenderer().Render(specs)
	require.NoError(t, err)

	var names []string
	for _, a := range artifacts {
		names = append(names, a.Name)
		require.NotEmpty(t, a.Content)
	}
	require.Equal(t, []string{
		"status-distribution.html",
		"duration-distribution.html",
		"slowest-cases.html",
		"failed-cases.html",
		"skipped-cases.html",
		"insights.html",
		"report.html",
	}, names)
}

func TestHTMLRenderer_Deterministic(t *testing.T) {
	insights := []model.Insight{
		{Kind: model.InsightSlowOutlier, ID: model.CaseID{Suite: "s", Name: "slow"},
			DurationSeconds: 5, Threshold: 3},
	}
	specs := BuildCharts(sampleSnapshot(), insights, nil, nil)

	first, err := NewHTMLRenderer().Render(specs)
	require.NoError(t, err)
	second, err := NewHTMLRenderer().Render(specs)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		require.Equal(t, first[i].Name, second[i].Name)
		require.Equal(t, first[i].Content, second[i].Content, first[i].Name)
	}
}

func TestHTMLRenderer_NoDataStillProducesAllArtifacts(t *testing.T) {
	specs := BuildCharts(model.MetricsSnapshot{Source: model.CombinedSource}, nil, nil, nil)
	artifacts, err := NewHTMLRenderer().Render(specs)
	require.NoError(t, err)
	require.Len(t, artifacts, 7)
	for _, a := range artifacts {
		require.NotEmpty(t, a.Content, a.Name)
	}
}
