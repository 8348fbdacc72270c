// Package detector runs a change-point test on a regional series and
// normalizes whatever the test returns into a TestResult.
package detector

import "fmt"

// DefaultAlpha is the significance threshold: p-values above it are
// classified homogeneous.
const DefaultAlpha = 0.05

// Optional holds a value that may be undefined.
type Optional[T any] struct {
	value T
	ok    bool
}

// Some returns a defined Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// None returns an undefined Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is defined.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

// Defined reports whether the value is present.
func (o Optional[T]) Defined() bool {
	return o.ok
}

// TestResult is the normalized outcome of a change-point test.
type TestResult struct {
	Statistic   Optional[float64]
	PValue      Optional[float64]
	ChangePoint Optional[int]
}

// ChangePointWithin returns the change-point index only when it is defined
// and addresses one of n points.
func (r TestResult) ChangePointWithin(n int) (int, bool) {
	cp, ok := r.ChangePoint.Get()
	if !ok || cp < 0 || cp >= n {
		return 0, false
	}
	return cp, true
}

// Classification is the homogeneity verdict for a TestResult.
type Classification int

const (
	Inhomogeneous Classification = iota
	Homogeneous
)

func (c Classification) String() string {
	switch c {
	case Homogeneous:
		return "homogeneous"
	case Inhomogeneous:
		return "inhomogeneous"
	}
	return fmt.Sprintf("Classification(%d)", int(c))
}

// Classify returns Homogeneous when the p-value exceeds alpha. An undefined
// p-value is never homogeneous.
func Classify(r TestResult, alpha float64) Classification {
	if p, ok := r.PValue.Get(); ok && p > alpha {
		return Homogeneous
	}
	return Inhomogeneous
}
