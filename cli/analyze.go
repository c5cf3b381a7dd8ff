package cli

// This file contains the analyze action: input expansion, running the
// pipeline and printing the human-readable result.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/qainsights/qainsights/analysis"
	"github.com/qainsights/qainsights/model"
	"github.com/qainsights/qainsights/pipeline"
)

func (a *App) analyze(ctx *cli.Context) error {
	inputs, err := expandInputs(a.logger, ctx.StringSlice("file"))
	if err != nil {
		return err
	}
	outDir := ctx.String("output")

	result, err := pipeline.Run(ctx.Context, inputs, outDir, pipeline.Options{
		MaxDepth: ctx.Int("max-depth"),
		Analysis: analysis.Options{
			TopN:         ctx.Int("top"),
			OutlierSigma: ctx.Float64("sigma"),
		},
		MaxWorkers: ctx.Int("workers"),
		Logger:     a.logger,
	})
	if err != nil {
		return err
	}

	printResult(result, outDir)
	return nil
}

// expandInputs resolves each --file argument. Directories expand to their
// XML entries in name order, so a directory input is deterministic.
// Missing files are kept in the list: the pipeline records them as
// per-file failures rather than aborting the whole invocation.
func expandInputs(logger zerolog.Logger, args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read input directory %s: %w", arg, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if !strings.EqualFold(filepath.Ext(entry.Name()), ".xml") {
				logger.Debug().Str("path", filepath.Join(arg, entry.Name())).Msg("Skipping non-XML file")
				continue
			}
			paths = append(paths, filepath.Join(arg, entry.Name()))
		}
	}
	return paths, nil
}

func printResult(result *pipeline.Result, outDir string) {
	counts := result.Combined.Counts
	fmt.Printf("\n=== Test results (%d runs, %d cases) ===\n\n", len(result.Runs), counts.Total)

	for _, st := range model.StatusOrder {
		fmt.Printf("%8s: %d\n", st, counts.Get(st))
	}
	if counts.Total > 0 {
		fmt.Printf("\nPass rate: %.1f%%\n", result.Combined.Rates.Pass*100)
	}
	fmt.Printf("Duration: total %.3fs, p50 %.3fs, p90 %.3fs, p100 %.3fs\n",
		result.Combined.Durations.TotalSeconds,
		result.Combined.Durations.P50,
		result.Combined.Durations.P90,
		result.Combined.Durations.P100)

	if len(result.Insights) > 0 {
		fmt.Printf("\nInsights (%d):\n", len(result.Insights))
		for _, in := range result.Insights {
			fmt.Printf("  [%s] %s\n", in.Kind, in.ID.String())
		}
	}

	if len(result.Failures) > 0 {
		fmt.Printf("\nSkipped inputs (%d):\n", len(result.Failures))
		for _, f := range result.Failures {
			fmt.Printf("  %s: %s\n", f.Path, f.Reason)
		}
	}

	fmt.Printf("\nReport: %s\n", filepath.Join(outDir, "report.html"))
}
