package detector

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/chrissnell/rainhomog/internal/types"
	"github.com/chrissnell/rainhomog/pkg/homogeneity"
)

var (
	ErrMissingValues = errors.New("regional series contains missing or infinite values")
	ErrUnknownTest   = errors.New("unknown homogeneity test")
)

// RawTest is a change-point test whose result shape is only known at run
// time. Its result is passed through Normalize.
type RawTest func(series []float64) (any, error)

// Test pairs a RawTest with the name used in reports.
type Test struct {
	Name string
	Run  RawTest
}

// Detect runs test on the values of series and normalizes its result.
func Detect(series types.RegionalSeries, test RawTest) (TestResult, error) {
	values := series.Values()
	missing := 0
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			missing++
		}
	}
	if missing > 0 {
		return TestResult{}, fmt.Errorf("%w: %d of %d points", ErrMissingValues, missing, len(values))
	}

	raw, err := test(values)
	if err != nil {
		return TestResult{}, fmt.Errorf("running change-point test: %w", err)
	}
	return Normalize(raw)
}

// Fixed returns a RawTest that ignores its input and yields raw. It lets a
// result computed elsewhere go through the same normalization.
func Fixed(raw any) RawTest {
	return func([]float64) (any, error) {
		return raw, nil
	}
}

// PettittTest adapts homogeneity.Pettitt.
func PettittTest(opts homogeneity.Options) RawTest {
	return wrap(homogeneity.Pettitt, opts)
}

// SNHTTest adapts homogeneity.SNHT.
func SNHTTest(opts homogeneity.Options) RawTest {
	return wrap(homogeneity.SNHT, opts)
}

// BuishandTest adapts homogeneity.BuishandRange.
func BuishandTest(opts homogeneity.Options) RawTest {
	return wrap(homogeneity.BuishandRange, opts)
}

func wrap(f func([]float64, homogeneity.Options) (homogeneity.Result, error), opts homogeneity.Options) RawTest {
	return func(series []float64) (any, error) {
		return f(series, opts)
	}
}

// TestByName looks up a built-in test ("pettitt", "snht", "buishand").
func TestByName(name string, opts homogeneity.Options) (Test, error) {
	switch strings.ToLower(name) {
	case "pettitt":
		return Test{Name: "Pettitt", Run: PettittTest(opts)}, nil
	case "snht":
		return Test{Name: "SNHT", Run: SNHTTest(opts)}, nil
	case "buishand", "buishand_range":
		return Test{Name: "Buishand", Run: BuishandTest(opts)}, nil
	}
	return Test{}, fmt.Errorf("%w: %q", ErrUnknownTest, name)
}
