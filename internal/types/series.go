package types

import (
	"time"

	"gonum.org/v1/gonum/mat"
)

// Grid is a gridded rainfall variable: one latitude x longitude field per
// time step. Times are ascending and len(Times) == len(Fields).
type Grid struct {
	Variable string
	Units    string
	Times    []time.Time
	Fields   []*mat.Dense
}

// Len returns the number of time steps in the grid.
func (g *Grid) Len() int {
	return len(g.Times)
}

// Point is a single (timestamp, value) sample of a regional series.
type Point struct {
	Time  time.Time
	Value float64
}

// RegionalSeries is a spatially averaged rainfall series, one point per
// time step of the source grid.
type RegionalSeries struct {
	points []Point
}

// NewRegionalSeries builds a series from parallel time and value slices.
// The inputs are copied.
func NewRegionalSeries(times []time.Time, values []float64) RegionalSeries {
	n := min(len(times), len(values))
	points := make([]Point, n)
	for i := 0; i < n; i++ {
		points[i] = Point{Time: times[i], Value: values[i]}
	}
	return RegionalSeries{points: points}
}

// Len returns the number of points in the series.
func (s RegionalSeries) Len() int {
	return len(s.points)
}

// At returns the i-th point.
func (s RegionalSeries) At(i int) Point {
	return s.points[i]
}

// Values returns a copy of the series values.
func (s RegionalSeries) Values() []float64 {
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = p.Value
	}
	return out
}

// Times returns a copy of the series timestamps.
func (s RegionalSeries) Times() []time.Time {
	out := make([]time.Time, len(s.points))
	for i, p := range s.points {
		out[i] = p.Time
	}
	return out
}
