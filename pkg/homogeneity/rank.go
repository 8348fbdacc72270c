package homogeneity

import "gonum.org/v1/gonum/floats"

// rank returns 1-based ranks of x, averaging the ranks of tied values.
func rank(x []float64) []float64 {
	n := len(x)
	sorted := make([]float64, n)
	copy(sorted, x)
	idx := make([]int, n)
	floats.Argsort(sorted, idx)

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && sorted[j+1] == sorted[i] {
			j++
		}
		r := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = r
		}
		i = j + 1
	}
	return ranks
}
