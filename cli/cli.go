package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/qainsights/qainsights/analysis"
	"github.com/qainsights/qainsights/junitxml"
	"github.com/qainsights/qainsights/pipeline"
)

const AppName = "qainsights"

// DefaultOutputDir is the destination used when --output is not given.
const DefaultOutputDir = "test-results-visualization"

type App struct {
	logger zerolog.Logger
	cli    *cli.App
}

func New() *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		})

	app := &App{
		logger: logger,
	}
	app.cli = &cli.App{
		Name:  AppName,
		Usage: "Analyze test reports and generate visualizations",
		Authors: []*cli.Author{
			{Name: "QA Insights Authors"},
		},
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Report file or directory with test result XML files (repeatable; order is significant for cross-run comparison)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Destination directory for charts and summary",
				Value:   DefaultOutputDir,
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"vv"},
				Usage:   "Enable verbose (debug) logging",
			},
			&cli.IntFlag{
				Name:  "top",
				Usage: "Number of slowest test cases to report",
				Value: analysis.DefaultTopN,
			},
			&cli.Float64Flag{
				Name:  "sigma",
				Usage: "Stddev multiplier for slow-outlier detection",
				Value: analysis.DefaultOutlierSigma,
			},
			&cli.IntFlag{
				Name:  "max-depth",
				Usage: "Maximum accepted suite nesting depth",
				Value: junitxml.DefaultMaxDepth,
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Worker pool cap for loading report files",
				Value: pipeline.DefaultMaxWorkers,
			},
		},
		Before: func(ctx *cli.Context) error {
			if ctx.Bool("verbose") {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			return nil
		},
		Action: app.analyze,
	}
	return app
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && commit != "" {
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit[:8], date)
	}
}
