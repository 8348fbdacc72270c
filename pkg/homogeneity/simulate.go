package homogeneity

import "math/rand/v2"

// simTolerance absorbs float noise when a permutation reproduces the
// observed arrangement.
const simTolerance = 1e-9

// simulate estimates the p-value of observed as the fraction of random
// permutations of x whose statistic is at least as large.
func simulate(x []float64, observed float64, f statistic, sims int, seed uint64) float64 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	y := make([]float64, len(x))
	copy(y, x)

	hits := 0
	for i := 0; i < sims; i++ {
		rng.Shuffle(len(y), func(a, b int) { y[a], y[b] = y[b], y[a] })
		if k, _ := f(y); k >= observed-simTolerance {
			hits++
		}
	}
	return float64(hits) / float64(sims)
}
