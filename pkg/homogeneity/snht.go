package homogeneity

import "gonum.org/v1/gonum/stat"

// SNHT runs Alexandersson's standard normal homogeneity test for a single
// shift in the mean. It has no closed-form p-value, so it is always simulated.
func SNHT(x []float64, opts Options) (Result, error) {
	return run(x, opts, snhtStat, nil)
}

func snhtStat(x []float64) (float64, int) {
	n := len(x)
	mean, std := stat.PopMeanStdDev(x, nil)
	if std == 0 {
		return 0, 0
	}

	z := make([]float64, n)
	var total float64
	for i, v := range x {
		z[i] = (v - mean) / std
		total += z[i]
	}

	var cum, best float64
	loc := 0
	for k := 1; k < n; k++ {
		cum += z[k-1]
		z1 := cum / float64(k)
		z2 := (total - cum) / float64(n-k)
		t := float64(k)*z1*z1 + float64(n-k)*z2*z2
		if t > best {
			best = t
			loc = k - 1
		}
	}
	return best, loc
}
