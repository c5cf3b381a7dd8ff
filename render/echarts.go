package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/qainsights/qainsights/model"
)

// ReportName is the combined page embedding the pie and bar charts.
const ReportName = "report.html"

// HTMLRenderer renders chart specs to go-echarts HTML documents plus a
// combined report page. Chart IDs are fixed per kind so re-rendering the
// same input produces byte-identical artifacts.
type HTMLRenderer struct{}

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

// Render produces one artifact per spec and a trailing combined report
// page. Every spec yields an artifact even when it has no data.
func (r *HTMLRenderer) Render(specs []ChartSpec) ([]Artifact, error) {
	var (
		artifacts []Artifact
		charters  []components.Charter
	)
	for _, spec := range specs {
		var (
			content []byte
			err     error
		)
		switch spec.Kind {
		case KindStatusDistribution:
			pie := r.pie(spec)
			charters = append(charters, pie)
			content, err = renderChart(pie)
		case KindDurationDistribution, KindSlowestCases:
			bar := r.bar(spec)
			charters = append(charters, bar)
			content, err = renderChart(bar)
		case KindFailedCases, KindSkippedCases:
			content, err = r.caseListing(spec)
		case KindInsights:
			content, err = r.insightListing(spec)
		default:
			err = fmt.Errorf("unknown chart kind %q", spec.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", spec.Kind, err)
		}
		artifacts = append(artifacts, Artifact{Name: string(spec.Kind) + ".html", Content: content})
	}

	report, err := r.reportPage(charters)
	if err != nil {
		return nil, fmt.Errorf("failed to render report page: %w", err)
	}
	artifacts = append(artifacts, Artifact{Name: ReportName, Content: report})
	return artifacts, nil
}

func (r *HTMLRenderer) pie(spec ChartSpec) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{ChartID: string(spec.Kind)}),
		charts.WithTitleOpts(opts.Title{Title: spec.Title, Subtitle: subtitle(spec)}),
	)
	items := make([]opts.PieData, 0, len(spec.Categories))
	if !spec.NoData {
		for i, cat := range spec.Categories {
			items = append(items, opts.PieData{
				Name:      cat,
				Value:     spec.Values[i],
				ItemStyle: &opts.ItemStyle{Color: spec.Colors[i]},
			})
		}
	}
	pie.AddSeries("status", items)
	return pie
}

func (r *HTMLRenderer) bar(spec ChartSpec) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{ChartID: string(spec.Kind)}),
		charts.WithTitleOpts(opts.Title{Title: spec.Title, Subtitle: subtitle(spec)}),
	)
	values := make([]opts.BarData, 0, len(spec.Values))
	for i, v := range spec.Values {
		item := opts.BarData{Value: v}
		if i < len(spec.Colors) {
			item.ItemStyle = &opts.ItemStyle{Color: spec.Colors[i]}
		}
		values = append(values, item)
	}
	if spec.NoData {
		bar.SetXAxis([]string{}).AddSeries("seconds", nil)
	} else {
		bar.SetXAxis(spec.Categories).AddSeries("seconds", values)
	}
	return bar
}

func subtitle(spec ChartSpec) string {
	if spec.NoData {
		return "no data"
	}
	return ""
}

var caseTemplate = template.Must(template.New("cases").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{- if .Rows}}
<table border="1" cellpadding="4">
<tr><th>Test</th><th>Reason</th><th>Seconds</th></tr>
{{- range .Rows}}
<tr><td>{{.ID}}</td><td>{{.Reason}}</td><td>{{.Seconds}}</td></tr>
{{- end}}
</table>
{{- else}}
<p>no data</p>
{{- end}}
</body>
</html>
`))

type caseRow struct {
	ID      string
	Reason  string
	Seconds string
}

func (r *HTMLRenderer) caseListing(spec ChartSpec) ([]byte, error) {
	rows := make([]caseRow, 0, len(spec.Cases))
	for _, c := range spec.Cases {
		reason := c.FailureMessage
		if reason == "" {
			reason = c.SkippedMessage
		}
		rows = append(rows, caseRow{
			ID:      c.ID.String(),
			Reason:  reason,
			Seconds: fmt.Sprintf("%.3f", c.DurationSeconds),
		})
	}
	var buf bytes.Buffer
	err := caseTemplate.Execute(&buf, struct {
		Title string
		Rows  []caseRow
	}{Title: spec.Title, Rows: rows})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var insightTemplate = template.Must(template.New("insights").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{- if .Rows}}
<table border="1" cellpadding="4">
<tr><th>Kind</th><th>Test</th><th>Detail</th></tr>
{{- range .Rows}}
<tr><td>{{.Kind}}</td><td>{{.ID}}</td><td>{{.Detail}}</td></tr>
{{- end}}
</table>
{{- else}}
<p>no data</p>
{{- end}}
</body>
</html>
`))

type insightRow struct {
	Kind   string
	ID     string
	Detail string
}

func (r *HTMLRenderer) insightListing(spec ChartSpec) ([]byte, error) {
	rows := make([]insightRow, 0, len(spec.Insights))
	for _, in := range spec.Insights {
		rows = append(rows, insightRow{
			Kind:   string(in.Kind),
			ID:     in.ID.String(),
			Detail: insightDetail(in),
		})
	}
	var buf bytes.Buffer
	err := insightTemplate.Execute(&buf, struct {
		Title string
		Rows  []insightRow
	}{Title: spec.Title, Rows: rows})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func insightDetail(in model.Insight) string {
	switch in.Kind {
	case model.InsightFlaky:
		statuses := make([]string, len(in.Statuses))
		for i, st := range in.Statuses {
			statuses[i] = string(st)
		}
		return "statuses: " + strings.Join(statuses, ", ")
	case model.InsightRegression:
		return fmt.Sprintf("%s -> %s", in.Baseline, in.Current)
	case model.InsightSlowOutlier:
		return fmt.Sprintf("%.3fs above threshold %.3fs", in.DurationSeconds, in.Threshold)
	}
	return ""
}

func (r *HTMLRenderer) reportPage(charters []components.Charter) ([]byte, error) {
	page := components.NewPage()
	page.PageTitle = "Test results"
	page.AddCharts(charters...)
	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type renderable interface {
	Render(w io.Writer) error
}

func renderChart(c renderable) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
