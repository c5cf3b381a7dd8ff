package analysis

// This file contains the cross-run insight detector. Run order is
// caller-significant: runs are compared exactly in the order supplied.

import (
	"sort"

	"github.com/qainsights/qainsights/model"
	"gonum.org/v1/gonum/stat"
)

// observation is one sighting of an identity in one run.
type observation struct {
	runIndex int
	status   model.Status
}

// Detect flags flaky identities, regressions and slow outliers. Flaky and
// Regression need at least two runs and are empty otherwise; SlowOutlier
// works on any number of runs. The result is ordered by kind, then
// identity, so output is reproducible.
func Detect(runs []*model.TestRun, opts Options) []model.Insight {
	opts = opts.WithDefaults()

	var (
		order    []model.CaseID
		observed = make(map[model.CaseID][]observation)
	)
	for i, run := range runs {
		for _, c := range run.Cases() {
			if _, ok := observed[c.ID]; !ok {
				order = append(order, c.ID)
			}
			observed[c.ID] = append(observed[c.ID], observation{runIndex: i, status: c.Status})
		}
	}

	var insights []model.Insight
	if len(runs) >= 2 {
		for _, id := range order {
			if in, ok := flaky(id, observed[id]); ok {
				insights = append(insights, in)
			}
		}
		for _, id := range order {
			if in, ok := regression(id, observed[id], len(runs)); ok {
				insights = append(insights, in)
			}
		}
	}
	insights = append(insights, slowOutliers(runs, opts)...)

	sort.SliceStable(insights, func(i, j int) bool {
		if insights[i].Kind != insights[j].Kind {
			return kindRank(insights[i].Kind) < kindRank(insights[j].Kind)
		}
		return insights[i].ID.String() < insights[j].ID.String()
	})
	return insights
}

func kindRank(k model.InsightKind) int {
	switch k {
	case model.InsightFlaky:
		return 0
	case model.InsightRegression:
		return 1
	}
	return 2
}

// flaky requires at least two sightings (one run is insufficient
// evidence), at least two distinct statuses, and not all sightings
// skipped.
func flaky(id model.CaseID, obs []observation) (model.Insight, bool) {
	if len(obs) < 2 {
		return model.Insight{}, false
	}
	distinct := make(map[model.Status]struct{})
	allSkipped := true
	statuses := make([]model.Status, 0, len(obs))
	for _, o := range obs {
		distinct[o.status] = struct{}{}
		if o.status != model.StatusSkipped {
			allSkipped = false
		}
		statuses = append(statuses, o.status)
	}
	if len(distinct) < 2 || allSkipped {
		return model.Insight{}, false
	}
	return model.Insight{Kind: model.InsightFlaky, ID: id, Statuses: statuses}, true
}

// regression compares the last run with the immediately preceding run
// among runs where the identity appears. Only that adjacent pair counts.
func regression(id model.CaseID, obs []observation, runCount int) (model.Insight, bool) {
	if len(obs) < 2 {
		return model.Insight{}, false
	}
	last := obs[len(obs)-1]
	if last.runIndex != runCount-1 {
		return model.Insight{}, false
	}
	if last.status != model.StatusFailed && last.status != model.StatusError {
		return model.Insight{}, false
	}
	prev := obs[len(obs)-2]
	if prev.status != model.StatusPassed {
		return model.Insight{}, false
	}
	return model.Insight{
		Kind:     model.InsightRegression,
		ID:       id,
		Baseline: prev.status,
		Current:  last.status,
	}, true
}

// slowOutliers flags cases whose duration exceeds mean + k*stddev of their
// suite's distribution. Suites below the minimum case count are exempt.
// An identity flagged in several runs is reported once, with its worst
// duration.
func slowOutliers(runs []*model.TestRun, opts Options) []model.Insight {
	var (
		order   []model.CaseID
		flagged = make(map[model.CaseID]model.Insight)
	)
	for _, run := range runs {
		for si := range run.Suites {
			suite := &run.Suites[si]
			if len(suite.Cases) < opts.OutlierMinCases {
				continue
			}
			durations := make([]float64, len(suite.Cases))
			for i, c := range suite.Cases {
				durations[i] = c.DurationSeconds
			}
			mean, stddev := stat.MeanStdDev(durations, nil)
			threshold := mean + opts.OutlierSigma*stddev
			for _, c := range suite.Cases {
				if c.DurationSeconds <= threshold {
					continue
				}
				prev, seen := flagged[c.ID]
				if !seen {
					order = append(order, c.ID)
				}
				if !seen || c.DurationSeconds > prev.DurationSeconds {
					flagged[c.ID] = model.Insight{
						Kind:            model.InsightSlowOutlier,
						ID:              c.ID,
						DurationSeconds: c.DurationSeconds,
						Threshold:       threshold,
					}
				}
			}
		}
	}
	out := make([]model.Insight, 0, len(order))
	for _, id := range order {
		out = append(out, flagged[id])
	}
	return out
}
