package homogeneity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	levelShift = []float64{10, 12, 11, 13, 50, 52, 49, 51, 48, 53, 50, 52}

	// Gaussian noise, mean 100, sd 10, drawn once with a fixed seed.
	noise = []float64{
		123.4, 93.4, 103.9, 101.5, 108.4, 86.0, 95.9, 92.5, 89.3, 91.6,
		94.9, 97.1, 90.9, 104.2, 94.5, 68.0, 111.9, 96.1, 92.6, 102.7,
		102.3, 100.5, 91.5, 101.9, 84.6, 114.4, 87.3, 97.9, 100.2, 102.2,
		97.5, 104.8, 63.7, 97.7, 97.1, 94.4, 114.0, 88.9, 97.9, 78.3,
	}
)

func step(n int, a, b float64) []float64 {
	x := make([]float64, n)
	for i := range x {
		if i < n/2 {
			x[i] = a
		} else {
			x[i] = b
		}
	}
	return x
}

func TestRank(t *testing.T) {
	tests := []struct {
		name     string
		input    []float64
		expected []float64
	}{
		{"distinct", []float64{3, 1, 2}, []float64{3, 1, 2}},
		{"ties averaged", []float64{5, 1, 5, 2}, []float64{3.5, 1, 3.5, 2}},
		{"all equal", []float64{7, 7, 7}, []float64{2, 2, 2}},
		{"ties across unsorted input", []float64{4, 2, 9, 2, 4, 1}, []float64{4.5, 2.5, 6, 2.5, 4.5, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := append([]float64(nil), tt.input...)
			assert.Equal(t, tt.expected, rank(input))
			assert.Equal(t, tt.input, input, "rank must not reorder its input")
		})
	}
}

func TestPettittAsymptotic(t *testing.T) {
	r, err := Pettitt(levelShift, Options{})
	require.NoError(t, err)

	assert.Equal(t, 32.0, r.Stat)
	assert.Equal(t, 3, r.CP)
	assert.InDelta(t, 0.0751, r.P, 1e-4)
	assert.False(t, r.H)
	assert.InDelta(t, 11.5, r.Mu1, 1e-9)
	assert.InDelta(t, 50.625, r.Mu2, 1e-9)
}

func TestPettittSimulated(t *testing.T) {
	opts := Options{Simulations: DefaultSimulations, Seed: 42}

	r, err := Pettitt(levelShift, opts)
	require.NoError(t, err)

	assert.Equal(t, 3, r.CP)
	assert.Less(t, r.P, 0.05)
	assert.Greater(t, r.P, 0.005)
	assert.True(t, r.H)

	again, err := Pettitt(levelShift, opts)
	require.NoError(t, err)
	assert.Equal(t, r.P, again.P, "same seed must give the same p-value")
}

func TestTestsOnStep(t *testing.T) {
	x := step(20, 5, 15)
	opts := Options{Simulations: 2000, Seed: 7}

	tests := []struct {
		name string
		run  func([]float64, Options) (Result, error)
	}{
		{"pettitt", Pettitt},
		{"snht", SNHT},
		{"buishand", BuishandRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := tt.run(x, opts)
			require.NoError(t, err)
			assert.Equal(t, 9, r.CP)
			assert.LessOrEqual(t, r.P, 0.05)
			assert.True(t, r.H)
			assert.Equal(t, 5.0, r.Mu1)
			assert.Equal(t, 15.0, r.Mu2)
		})
	}
}

func TestTestsOnNoise(t *testing.T) {
	opts := Options{Simulations: 5000, Seed: 1}

	tests := []struct {
		name string
		run  func([]float64, Options) (Result, error)
	}{
		{"pettitt", Pettitt},
		{"snht", SNHT},
		{"buishand", BuishandRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := tt.run(noise, opts)
			require.NoError(t, err)
			assert.Greater(t, r.P, 0.05)
			assert.False(t, r.H)
		})
	}

	r, err := Pettitt(noise, Options{})
	require.NoError(t, err)
	assert.InDelta(t, 0.8458, r.P, 1e-3)
}

func TestConstantSeries(t *testing.T) {
	x := []float64{4, 4, 4, 4, 4}

	r, err := Pettitt(x, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1.0, r.P)
	assert.Equal(t, 0.0, r.Stat)

	r, err = SNHT(x, Options{Simulations: 100})
	require.NoError(t, err)
	assert.Equal(t, 1.0, r.P)
}

func TestInvalidInput(t *testing.T) {
	_, err := Pettitt([]float64{1, 2}, Options{})
	assert.ErrorIs(t, err, ErrTooShort)

	_, err = SNHT([]float64{1, math.NaN(), 3, 4}, Options{})
	assert.ErrorIs(t, err, ErrNonFinite)

	_, err = BuishandRange([]float64{1, 2, math.Inf(1)}, Options{})
	assert.ErrorIs(t, err, ErrNonFinite)
}
