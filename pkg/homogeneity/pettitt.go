package homogeneity

import "math"

// Pettitt runs the non-parametric Pettitt test. Stat is K = max|U_t| where
// U_t = 2*sum(r_1..r_t) - t(n+1) and r are the ranks of x.
func Pettitt(x []float64, opts Options) (Result, error) {
	return run(x, opts, pettittStat, pettittP)
}

func pettittStat(x []float64) (float64, int) {
	n := len(x)
	r := rank(x)

	var s, k float64
	loc := 0
	for t := 1; t <= n; t++ {
		s += r[t-1]
		u := math.Abs(2*s - float64(t*(n+1)))
		if u > k {
			k = u
			loc = t - 1
		}
	}
	return k, loc
}

func pettittP(k float64, n int) float64 {
	nf := float64(n)
	p := 2 * math.Exp(-6*k*k/(nf*nf*nf+nf*nf))
	return math.Min(p, 1)
}
