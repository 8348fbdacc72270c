// Package app wires the loader, aggregator, detector and reporter into a
// single analysis run.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/chrissnell/rainhomog/internal/dataset"
	"github.com/chrissnell/rainhomog/internal/detector"
	"github.com/chrissnell/rainhomog/internal/regional"
	"github.com/chrissnell/rainhomog/internal/report"
	"github.com/chrissnell/rainhomog/internal/types"
	"github.com/chrissnell/rainhomog/pkg/config"
	"github.com/chrissnell/rainhomog/pkg/homogeneity"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"
)

// App represents the main application
type App struct {
	cfg    *config.ConfigData
	logger *zap.SugaredLogger
}

// New creates a new application instance
func New(cfg *config.ConfigData, logger *zap.SugaredLogger) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
	}
}

// Run performs one analysis: the summary of every configured test is
// written to stdout and the chart of the first test is saved to the
// output path. Nothing is written to disk if any stage fails.
func (a *App) Run(ctx context.Context, stdout io.Writer) error {
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := a.logger.With("run_id", uuid.NewString())

	tests, err := a.tests(logger)
	if err != nil {
		return err
	}

	grid, err := a.loadGrid(logger)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	series, err := regional.Mean(grid, regional.Options{SkipMissing: a.cfg.Input.SkipMissing}, logger)
	if err != nil {
		return err
	}
	if series.Len() == 0 {
		return fmt.Errorf("%s has no time steps", a.cfg.Input.Path)
	}
	logger.Infow("regional series ready",
		"variable", grid.Variable,
		"points", series.Len(),
		"start", series.At(0).Time.Format("2006-01-02"),
		"end", series.At(series.Len()-1).Time.Format("2006-01-02"),
	)

	var chart report.Figure
	for i, test := range tests {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := detector.Detect(series, test.Run)
		if err != nil {
			return fmt.Errorf("%s test: %w", test.Name, err)
		}
		class := detector.Classify(result, a.cfg.Analysis.Alpha)
		logger.Infow("homogeneity test complete", "test", test.Name, "classification", class.String())

		if i > 0 {
			fmt.Fprintln(stdout)
		}
		if err := report.WriteSummary(stdout, test.Name, result, class); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}

		if i == 0 {
			chart = report.Figure{
				TestName: test.Name,
				Series:   series,
				Result:   result,
				Class:    class,
			}
		}
	}

	return report.NewPlotter(a.style(), logger).Save(a.cfg.Output.Path, chart)
}

// tests resolves the configured test names. A result file replaces the
// computation of the first test.
func (a *App) tests(logger *zap.SugaredLogger) ([]detector.Test, error) {
	opts := homogeneity.Options{
		Alpha:       a.cfg.Analysis.Alpha,
		Simulations: a.cfg.Analysis.Simulations,
		Seed:        a.cfg.Analysis.Seed,
	}

	tests := make([]detector.Test, 0, len(a.cfg.Analysis.Tests))
	for _, name := range a.cfg.Analysis.Tests {
		test, err := detector.TestByName(name, opts)
		if err != nil {
			return nil, err
		}
		tests = append(tests, test)
	}

	if path := a.cfg.Analysis.ResultFile; path != "" {
		raw, err := detector.ReadResultFile(path)
		if err != nil {
			return nil, err
		}
		logger.Infow("using external test result", "path", path, "test", tests[0].Name)
		tests = []detector.Test{{Name: tests[0].Name, Run: detector.Fixed(raw)}}
	}

	for i := range tests {
		tests[i].Run = logRaw(tests[i], logger)
	}
	return tests, nil
}

func logRaw(test detector.Test, logger *zap.SugaredLogger) detector.RawTest {
	return func(series []float64) (any, error) {
		raw, err := test.Run(series)
		if err == nil {
			logger.Debugw("raw test result", "test", test.Name, "result", raw)
		}
		return raw, err
	}
}

func (a *App) loadGrid(logger *zap.SugaredLogger) (*types.Grid, error) {
	in := a.cfg.Input

	ds, err := dataset.Open(in.Path, logger)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	return ds.Grid(dataset.GridOptions{
		Variable: in.Variable,
		TimeName: in.TimeDim,
		LatNames: in.LatDims,
		LonNames: in.LonDims,
	})
}

func (a *App) style() report.Style {
	out := a.cfg.Output

	s := report.DefaultStyle()
	s.Title = out.Title
	s.XLabel = out.XLabel
	s.YLabel = out.YLabel
	s.Width = vg.Length(out.Width) * vg.Inch
	s.Height = vg.Length(out.Height) * vg.Inch
	s.DPI = out.DPI
	s.TickYears = out.TickYears
	return s
}
