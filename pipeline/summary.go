package pipeline

import (
	"encoding/json"

	"github.com/qainsights/qainsights/model"
)

// SummaryName is the machine-readable summary artifact.
const SummaryName = "summary.json"

// FileFailure is one recoverable per-file error, recorded in the summary
// alongside the successful results.
type FileFailure struct {
	Path   string `json:"path"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

const (
	FailureNotFound  = "not_found"
	FailureParse     = "parse"
	FailureStructure = "structure"
	FailureOther     = "other"
)

// Summary is the structured summary artifact. Field order is fixed and no
// timestamps are included, so identical input produces byte-identical
// summary content.
type Summary struct {
	Sources      []SourceSummary       `json:"sources"`
	Combined     model.MetricsSnapshot `json:"combined"`
	Insights     []model.Insight       `json:"insights"`
	FailedCases  []CaseDetail          `json:"failed_cases"`
	SkippedCases []CaseDetail          `json:"skipped_cases"`
	Failures     []FileFailure         `json:"failures"`
}

// SourceSummary is the per-run section of the summary.
type SourceSummary struct {
	Path    string                `json:"path"`
	Metrics model.MetricsSnapshot `json:"metrics"`
}

// CaseDetail is one failed or skipped case with its extracted reason,
// mirroring the per-case listing artifacts.
type CaseDetail struct {
	ID              model.CaseID `json:"id"`
	Status          model.Status `json:"status"`
	DurationSeconds float64      `json:"duration_seconds"`
	Reason          string       `json:"reason,omitempty"`
	SystemOut       string       `json:"system_out,omitempty"`
	Timestamp       string       `json:"timestamp,omitempty"`
}

func caseDetails(cases []model.TestCase) []CaseDetail {
	details := make([]CaseDetail, 0, len(cases))
	for _, c := range cases {
		reason := c.FailureMessage
		if reason == "" {
			reason = c.SkippedMessage
		}
		details = append(details, CaseDetail{
			ID:              c.ID,
			Status:          c.Status,
			DurationSeconds: c.DurationSeconds,
			Reason:          reason,
			SystemOut:       c.SystemOut,
			Timestamp:       c.Timestamp,
		})
	}
	return details
}

func marshalSummary(result *Result, failed, skipped []model.TestCase) ([]byte, error) {
	summary := Summary{
		Sources:      make([]SourceSummary, 0, len(result.Runs)),
		Combined:     result.Combined,
		Insights:     result.Insights,
		FailedCases:  caseDetails(failed),
		SkippedCases: caseDetails(skipped),
		Failures:     result.Failures,
	}
	for i, run := range result.Runs {
		summary.Sources = append(summary.Sources, SourceSummary{
			Path:    run.SourcePath,
			Metrics: result.PerRun[i],
		})
	}
	// Keep empty collections as [] rather than null for a stable schema
	if summary.Insights == nil {
		summary.Insights = []model.Insight{}
	}
	if summary.Failures == nil {
		summary.Failures = []FileFailure{}
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
