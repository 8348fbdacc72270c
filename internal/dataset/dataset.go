// Package dataset loads gridded rainfall variables from NetCDF files.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/chrissnell/rainhomog/internal/types"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrDatasetOpen      = errors.New("dataset open")
	ErrVariableNotFound = errors.New("variable not found")
	ErrLayout           = errors.New("unsupported variable layout")
)

// GridOptions name the rainfall variable and its coordinates. LatNames and
// LonNames are tried in order; the first dimension present wins.
type GridOptions struct {
	Variable string
	TimeName string
	LatNames []string
	LonNames []string
}

// DefaultGridOptions returns the names used by CHIRPS/ENACT style files.
func DefaultGridOptions() GridOptions {
	return GridOptions{
		Variable: "pr",
		TimeName: "time",
		LatNames: []string{"lat", "latitude", "y"},
		LonNames: []string{"lon", "longitude", "x"},
	}
}

// source is the subset of a NetCDF group the loader reads from.
type source interface {
	ListVariables() []string
	GetVariable(name string) (*api.Variable, error)
}

// Dataset is an open NetCDF file.
type Dataset struct {
	path   string
	group  api.Group
	src    source
	logger *zap.SugaredLogger
}

// Open opens a NetCDF (classic or NetCDF-4) file for reading.
func Open(path string, logger *zap.SugaredLogger) (*Dataset, error) {
	group, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrDatasetOpen, path, err)
	}

	logger.Debugw("opened dataset", "path", path, "variables", group.ListVariables())

	return &Dataset{
		path:   path,
		group:  group,
		src:    group,
		logger: logger,
	}, nil
}

// Close releases the underlying file handle.
func (d *Dataset) Close() error {
	if d.group != nil {
		d.group.Close()
		d.group = nil
	}
	return nil
}

// Load opens path, reads the grid described by opts and closes the file.
func Load(path string, opts GridOptions, logger *zap.SugaredLogger) (*types.Grid, error) {
	d, err := Open(path, logger)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	return d.Grid(opts)
}

// Grid reads the configured variable as a time-major grid. Fill values
// become NaN and scale_factor/add_offset are applied.
func (d *Dataset) Grid(opts GridOptions) (*types.Grid, error) {
	vr, err := d.variable(opts.Variable)
	if err != nil {
		return nil, err
	}

	data, shape, err := flatten(vr.Values)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLayout, opts.Variable, err)
	}
	if len(shape) != len(vr.Dimensions) {
		return nil, fmt.Errorf("%w: %s has %d dimension names for %d axes",
			ErrLayout, opts.Variable, len(vr.Dimensions), len(shape))
	}

	axes, err := locateAxes(vr.Dimensions, shape, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLayout, opts.Variable, err)
	}

	maskAndScale(data, vr.Attributes)

	times, err := d.times(opts.TimeName)
	if err != nil {
		return nil, err
	}
	if len(times) != shape[axes.time] {
		return nil, fmt.Errorf("%w: %s has %d time steps but %s has %d values",
			ErrLayout, opts.Variable, shape[axes.time], opts.TimeName, len(times))
	}

	grid := &types.Grid{
		Variable: opts.Variable,
		Units:    stringAttr(vr.Attributes, "units"),
		Times:    times,
		Fields:   fields(data, shape, axes),
	}

	d.logger.Infow("loaded gridded series",
		"variable", grid.Variable,
		"time_steps", len(times),
		"lat", shape[axes.lat],
		"lon", shape[axes.lon],
	)

	return grid, nil
}

func (d *Dataset) variable(name string) (*api.Variable, error) {
	if !slices.Contains(d.src.ListVariables(), name) {
		return nil, fmt.Errorf("%w: %q in %s", ErrVariableNotFound, name, d.path)
	}
	vr, err := d.src.GetVariable(name)
	if err != nil || vr == nil {
		return nil, fmt.Errorf("%w: %q in %s: %v", ErrVariableNotFound, name, d.path, err)
	}
	return vr, nil
}

func (d *Dataset) times(name string) ([]time.Time, error) {
	vr, err := d.variable(name)
	if err != nil {
		return nil, err
	}

	values, shape, err := flatten(vr.Values)
	if err != nil || len(shape) != 1 {
		return nil, fmt.Errorf("%w: time coordinate %q must be a 1-D numeric variable", ErrLayout, name)
	}

	times, err := DecodeTimes(values, stringAttr(vr.Attributes, "units"), stringAttr(vr.Attributes, "calendar"))
	if err != nil {
		return nil, fmt.Errorf("decoding %q: %w", name, err)
	}

	for i := 1; i < len(times); i++ {
		if times[i].Before(times[i-1]) {
			return nil, fmt.Errorf("%w: time coordinate %q is not ascending at index %d", ErrLayout, name, i)
		}
	}
	return times, nil
}

type axes struct {
	time, lat, lon int
}

// locateAxes finds the time, latitude and longitude axes. Any other axis
// must have length 1.
func locateAxes(dims []string, shape []int, opts GridOptions) (axes, error) {
	a := axes{time: -1, lat: -1, lon: -1}
	a.time = slices.Index(dims, opts.TimeName)
	for _, name := range opts.LatNames {
		if i := slices.Index(dims, name); i >= 0 {
			a.lat = i
			break
		}
	}
	for _, name := range opts.LonNames {
		if i := slices.Index(dims, name); i >= 0 {
			a.lon = i
			break
		}
	}

	switch {
	case a.time < 0:
		return a, fmt.Errorf("no %q dimension in %v", opts.TimeName, dims)
	case a.lat < 0:
		return a, fmt.Errorf("no latitude dimension (%v) in %v", opts.LatNames, dims)
	case a.lon < 0:
		return a, fmt.Errorf("no longitude dimension (%v) in %v", opts.LonNames, dims)
	}

	for i, n := range shape {
		if i != a.time && i != a.lat && i != a.lon && n != 1 {
			return a, fmt.Errorf("extra dimension %q has length %d", dims[i], n)
		}
	}
	return a, nil
}

// fields slices row-major data into one lat x lon matrix per time step.
func fields(data []float64, shape []int, a axes) []*mat.Dense {
	strides := make([]int, len(shape))
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= shape[i]
	}

	nt, ny, nx := shape[a.time], shape[a.lat], shape[a.lon]
	out := make([]*mat.Dense, nt)
	for t := 0; t < nt; t++ {
		field := make([]float64, ny*nx)
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				field[y*nx+x] = data[t*strides[a.time]+y*strides[a.lat]+x*strides[a.lon]]
			}
		}
		out[t] = mat.NewDense(ny, nx, field)
	}
	return out
}

func maskAndScale(data []float64, attrs api.AttributeMap) {
	var fills []float64
	for _, key := range []string{"_FillValue", "missing_value"} {
		if v, ok := numberAttr(attrs, key); ok {
			fills = append(fills, v)
		}
	}
	scale, hasScale := numberAttr(attrs, "scale_factor")
	offset, hasOffset := numberAttr(attrs, "add_offset")

	for i, v := range data {
		if slices.Contains(fills, v) {
			data[i] = math.NaN()
			continue
		}
		if hasScale {
			v *= scale
		}
		if hasOffset {
			v += offset
		}
		data[i] = v
	}
}
