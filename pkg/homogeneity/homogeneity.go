// Package homogeneity implements single change-point homogeneity tests for
// climate series: Pettitt, the standard normal homogeneity test (SNHT) and the
// Buishand range test.
//
// All tests locate at most one shift in the series. CP is the 0-based index of
// the last observation before the shift. P-values are either the asymptotic
// approximation (Pettitt only) or a permutation Monte Carlo estimate when
// Options.Simulations is positive.
package homogeneity

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultAlpha is the significance level used when Options.Alpha is zero.
	DefaultAlpha = 0.05

	// DefaultSimulations is used by tests that have no closed-form p-value.
	DefaultSimulations = 20000

	minLength = 3
)

var (
	ErrTooShort  = errors.New("series is too short for a homogeneity test")
	ErrNonFinite = errors.New("series contains NaN or infinite values")
)

// Options control significance and p-value estimation.
type Options struct {
	Alpha       float64
	Simulations int
	Seed        uint64
}

func (o Options) alpha() float64 {
	if o.Alpha <= 0 {
		return DefaultAlpha
	}
	return o.Alpha
}

// Result is the outcome of a homogeneity test.
type Result struct {
	// H is true when the series is inhomogeneous at the requested alpha.
	H    bool
	CP   int
	P    float64
	Stat float64

	// Mu1 and Mu2 are the means before and after the change point.
	Mu1 float64
	Mu2 float64
}

// statistic returns the test statistic of x and the 0-based change point.
type statistic func(x []float64) (float64, int)

func run(x []float64, opts Options, f statistic, asymptotic func(k float64, n int) float64) (Result, error) {
	if err := validate(x); err != nil {
		return Result{}, err
	}

	k, cp := f(x)

	var p float64
	switch {
	case opts.Simulations > 0:
		p = simulate(x, k, f, opts.Simulations, opts.Seed)
	case asymptotic != nil:
		p = asymptotic(k, len(x))
	default:
		p = simulate(x, k, f, DefaultSimulations, opts.Seed)
	}

	r := Result{
		H:    p < opts.alpha(),
		CP:   cp,
		P:    p,
		Stat: k,
		Mu1:  stat.Mean(x[:cp+1], nil),
		Mu2:  math.NaN(),
	}
	if cp+1 < len(x) {
		r.Mu2 = stat.Mean(x[cp+1:], nil)
	}
	return r, nil
}

func validate(x []float64) error {
	if len(x) < minLength {
		return ErrTooShort
	}
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrNonFinite
		}
	}
	return nil
}
