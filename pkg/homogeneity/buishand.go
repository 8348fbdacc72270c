package homogeneity

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// BuishandRange runs the Buishand range test on the rescaled adjusted
// partial sums of x. Stat is R/sqrt(n).
func BuishandRange(x []float64, opts Options) (Result, error) {
	return run(x, opts, buishandStat, nil)
}

func buishandStat(x []float64) (float64, int) {
	n := len(x)
	mean, std := stat.PopMeanStdDev(x, nil)
	if std == 0 {
		return 0, 0
	}

	var s, hi, lo, peak float64
	loc := 0
	for k, v := range x {
		s += v - mean
		hi = math.Max(hi, s)
		lo = math.Min(lo, s)
		if math.Abs(s) > peak {
			peak = math.Abs(s)
			loc = k
		}
	}
	return (hi - lo) / std / math.Sqrt(float64(n)), loc
}
