package pipeline

// This file contains the pipeline orchestration: load and build per input
// file on a bounded worker pool, then aggregate, detect, render and write
// once every load task has finished.

import (
	"context"
	"errors"
	"fmt"

	"github.com/gammazero/workerpool"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/qainsights/qainsights/analysis"
	"github.com/qainsights/qainsights/junitxml"
	"github.com/qainsights/qainsights/model"
	"github.com/qainsights/qainsights/output"
	"github.com/qainsights/qainsights/render"
)

// DefaultMaxWorkers caps the load/build worker pool regardless of how many
// input files are supplied.
const DefaultMaxWorkers = 8

// Options configures one pipeline invocation.
type Options struct {
	// Suite nesting ceiling, see junitxml.DefaultMaxDepth
	MaxDepth int
	// Aggregation and detection tuning
	Analysis analysis.Options
	// Worker pool cap for per-file load and build
	MaxWorkers int
	// Chart renderer; defaults to render.NewHTMLRenderer
	Renderer render.Renderer
	Logger   zerolog.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxWorkers <= 0 {
		o.MaxWorkers = DefaultMaxWorkers
	}
	if o.Renderer == nil {
		o.Renderer = render.NewHTMLRenderer()
	}
	return o
}

// Result is everything one invocation produced.
type Result struct {
	Runs          []*model.TestRun
	PerRun        []model.MetricsSnapshot
	Combined      model.MetricsSnapshot
	Insights      []model.Insight
	Failures      []FileFailure
	ArtifactPaths []string
}

// Run executes the full pipeline: Load -> Build -> Aggregate -> Detect ->
// Render -> Write.
//
// Input order is caller-significant: runs are compared for flakiness and
// regressions exactly in the order the paths are supplied, regardless of
// which load task finishes first.
//
// Per-file load failures are recorded in the result and the summary; the
// invocation only fails when no input file is usable, when the context is
// canceled, or when the destination cannot be written.
func Run(ctx context.Context, paths []string, outDir string, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	logger := opts.Logger

	if len(paths) == 0 {
		return nil, errors.New("no input files supplied")
	}

	type slot struct {
		run *model.TestRun
		err error
	}
	slots := make([]slot, len(paths))
	builder := junitxml.NewBuilder(logger, opts.MaxDepth)

	workers := opts.MaxWorkers
	if len(paths) < workers {
		workers = len(paths)
	}
	pool := workerpool.New(workers)
	for i, path := range paths {
		// Cancellation stops issuing new tasks; tasks already submitted
		// run to completion so no partially built state is left behind.
		if ctx.Err() != nil {
			break
		}
		i, path := i, path
		pool.Submit(func() {
			doc, err := junitxml.Load(path)
			if err != nil {
				slots[i].err = err
				return
			}
			run, err := builder.Build(doc)
			if err != nil {
				slots[i].err = err
				return
			}
			slots[i].run = run
		})
	}
	pool.StopWait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("invocation canceled: %w", err)
	}

	result := &Result{}
	var loadErrs *multierror.Error
	for i := range slots {
		if slots[i].err != nil {
			logger.Warn().Err(slots[i].err).Str("path", paths[i]).Msg("Skipping unusable input file")
			result.Failures = append(result.Failures, classifyFailure(paths[i], slots[i].err))
			loadErrs = multierror.Append(loadErrs, slots[i].err)
			continue
		}
		result.Runs = append(result.Runs, slots[i].run)
	}
	if len(result.Runs) == 0 {
		return nil, fmt.Errorf("no usable input files: %w", loadErrs.ErrorOrNil())
	}

	result.PerRun, result.Combined = analysis.Aggregate(result.Runs, opts.Analysis)
	result.Insights = analysis.Detect(result.Runs, opts.Analysis)

	failed := analysis.CasesWithStatus(result.Runs, model.StatusFailed, model.StatusError)
	skipped := analysis.CasesWithStatus(result.Runs, model.StatusSkipped)

	specs := render.BuildCharts(result.Combined, result.Insights, failed, skipped)
	artifacts, err := opts.Renderer.Render(specs)
	if err != nil {
		return nil, err
	}
	summary, err := marshalSummary(result, failed, skipped)
	if err != nil {
		return nil, err
	}
	artifacts = append(artifacts, render.Artifact{Name: SummaryName, Content: summary})

	written, err := output.NewWriter(logger).Write(outDir, artifacts)
	if err != nil {
		return nil, err
	}
	result.ArtifactPaths = written
	return result, nil
}

func classifyFailure(path string, err error) FileFailure {
	failure := FileFailure{Path: path, Reason: err.Error()}
	var (
		notFound  *junitxml.NotFoundError
		parse     *junitxml.ParseError
		structure *junitxml.StructureError
	)
	switch {
	case errors.As(err, &notFound):
		failure.Kind = FailureNotFound
	case errors.As(err, &parse):
		failure.Kind = FailureParse
	case errors.As(err, &structure):
		failure.Kind = FailureStructure
	default:
		failure.Kind = FailureOther
	}
	return failure
}
