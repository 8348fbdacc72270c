// Package regional reduces a gridded series to a single regional series by
// averaging over the spatial dimensions.
package regional

import (
	"errors"
	"fmt"
	"math"

	"github.com/chrissnell/rainhomog/internal/types"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var ErrGrid = errors.New("invalid grid")

// Options control how missing cells are treated.
type Options struct {
	// SkipMissing excludes NaN cells from each spatial mean. When false a
	// single NaN cell makes the whole time step NaN.
	SkipMissing bool
}

// Mean returns the arithmetic mean over latitude and longitude for every
// time step of grid.
func Mean(grid *types.Grid, opts Options, logger *zap.SugaredLogger) (types.RegionalSeries, error) {
	if grid == nil || grid.Len() != len(grid.Fields) {
		return types.RegionalSeries{}, fmt.Errorf("%w: time and field counts differ", ErrGrid)
	}

	values := make([]float64, len(grid.Fields))
	masked, empty := 0, 0

	for t, field := range grid.Fields {
		if field == nil || field.IsEmpty() {
			return types.RegionalSeries{}, fmt.Errorf("%w: empty field at time step %d", ErrGrid, t)
		}

		cells := field.RawMatrix()
		r, c := field.Dims()
		data := make([]float64, 0, r*c)
		for i := 0; i < r; i++ {
			data = append(data, cells.Data[i*cells.Stride:i*cells.Stride+c]...)
		}

		if !opts.SkipMissing {
			values[t] = stat.Mean(data, nil)
			continue
		}

		valid := data[:0]
		for _, v := range data {
			if math.IsNaN(v) {
				masked++
				continue
			}
			valid = append(valid, v)
		}
		if len(valid) == 0 {
			empty++
			values[t] = math.NaN()
			continue
		}
		values[t] = floats.Sum(valid) / float64(len(valid))
	}

	if masked > 0 {
		logger.Warnw("excluded missing grid cells from regional mean",
			"variable", grid.Variable, "cells", masked, "empty_time_steps", empty)
	}

	series := types.NewRegionalSeries(grid.Times, values)
	logger.Debugw("computed regional mean", "variable", grid.Variable, "points", series.Len())
	return series, nil
}
