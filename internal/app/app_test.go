package app

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/batchatco/go-native-netcdf/netcdf/util"
	"github.com/chrissnell/rainhomog/internal/dataset"
	"github.com/chrissnell/rainhomog/internal/detector"
	"github.com/chrissnell/rainhomog/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var stepRainfall = []float64{10, 12, 11, 13, 50, 52, 49, 51, 48, 53, 50, 52}

func attrs(t *testing.T, kv map[string]interface{}) api.AttributeMap {
	t.Helper()
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	m, err := util.NewOrderedMap(keys, kv)
	require.NoError(t, err)
	return m
}

// writeDataset writes a monthly 2x2 grid whose spatial mean at step i is
// values[i].
func writeDataset(t *testing.T, values []float64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pr.nc")
	epoch := time.Date(1983, 1, 1, 0, 0, 0, 0, time.UTC)

	days := make([]float64, len(values))
	pr := make([][][]float64, len(values))
	for i, v := range values {
		days[i] = epoch.AddDate(0, i, 0).Sub(epoch).Hours() / 24
		pr[i] = [][]float64{{v - 1, v + 1}, {v - 2, v + 2}}
	}

	w, err := cdf.OpenWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.AddVar("time", api.Variable{
		Values:     days,
		Dimensions: []string{"time"},
		Attributes: attrs(t, map[string]interface{}{"units": "days since 1983-01-01", "calendar": "standard"}),
	}))
	require.NoError(t, w.AddVar("pr", api.Variable{
		Values:     pr,
		Dimensions: []string{"time", "lat", "lon"},
		Attributes: attrs(t, map[string]interface{}{"units": "mm/month"}),
	}))
	require.NoError(t, w.Close())
	return path
}

func testConfig(t *testing.T, input string) *config.ConfigData {
	cfg := config.Defaults()
	cfg.Input.Path = input
	cfg.Output.Path = filepath.Join(t.TempDir(), "chart.png")
	cfg.Output.Width = 4
	cfg.Output.Height = 2
	cfg.Output.DPI = 30
	return cfg
}

func writeResult(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRunStepSeries(t *testing.T) {
	cfg := testConfig(t, writeDataset(t, stepRainfall))

	var stdout bytes.Buffer
	require.NoError(t, New(cfg, zap.NewNop().Sugar()).Run(context.Background(), &stdout))

	out := stdout.String()
	assert.Contains(t, out, "===== Pettitt Homogeneity Test =====")
	assert.Contains(t, out, "Statistic = 32.000\n")
	assert.Contains(t, out, "Change point index = 3\n")
	assert.Contains(t, out, "Significant change detected")
	assert.FileExists(t, cfg.Output.Path)
}

func TestRunAllTests(t *testing.T) {
	cfg := testConfig(t, writeDataset(t, stepRainfall))
	cfg.Analysis.Tests = []string{"pettitt", "snht", "buishand"}
	cfg.Analysis.Simulations = 2000

	var stdout bytes.Buffer
	require.NoError(t, New(cfg, zap.NewNop().Sugar()).Run(context.Background(), &stdout))

	out := stdout.String()
	for _, name := range []string{"Pettitt", "SNHT", "Buishand"} {
		assert.Contains(t, out, "===== "+name+" Homogeneity Test =====")
	}
	assert.FileExists(t, cfg.Output.Path)
}

func TestRunResultFile(t *testing.T) {
	cfg := testConfig(t, writeDataset(t, stepRainfall))
	cfg.Analysis.ResultFile = writeResult(t, "result.json", `[1.2, 0.3]`)

	var stdout bytes.Buffer
	require.NoError(t, New(cfg, zap.NewNop().Sugar()).Run(context.Background(), &stdout))

	out := stdout.String()
	assert.Contains(t, out, "Change point index = undefined\n")
	assert.Contains(t, out, "temporally homogeneous")
	assert.FileExists(t, cfg.Output.Path)
}

func TestRunScalarResultWritesNothing(t *testing.T) {
	cfg := testConfig(t, writeDataset(t, stepRainfall))
	cfg.Analysis.ResultFile = writeResult(t, "result.json", `3.5`)

	var stdout bytes.Buffer
	err := New(cfg, zap.NewNop().Sugar()).Run(context.Background(), &stdout)
	assert.ErrorIs(t, err, detector.ErrUnexpectedResultFormat)
	assert.Empty(t, stdout.String())
	assert.NoFileExists(t, cfg.Output.Path)
}

func TestRunInfiniteValuesKeepPreviousChart(t *testing.T) {
	values := append([]float64(nil), stepRainfall...)
	values[5] = math.Inf(1)

	cfg := testConfig(t, writeDataset(t, values))
	cfg.Analysis.ResultFile = writeResult(t, "result.json", `[1.2, 0.3, 2]`)
	previous := []byte("previous chart")
	require.NoError(t, os.WriteFile(cfg.Output.Path, previous, 0o600))

	var stdout bytes.Buffer
	err := New(cfg, zap.NewNop().Sugar()).Run(context.Background(), &stdout)
	assert.ErrorIs(t, err, detector.ErrMissingValues)
	assert.Empty(t, stdout.String())

	got, err := os.ReadFile(cfg.Output.Path)
	require.NoError(t, err)
	assert.Equal(t, previous, got)
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name   string
		mutate func(*config.ConfigData)
		target error
	}{
		{"missing dataset", func(c *config.ConfigData) { c.Input.Path = filepath.Join(dir, "absent.nc") }, dataset.ErrDatasetOpen},
		{"missing variable", func(c *config.ConfigData) { c.Input.Variable = "tp" }, dataset.ErrVariableNotFound},
		{"unknown test", func(c *config.ConfigData) { c.Analysis.Tests = []string{"cusum"} }, detector.ErrUnknownTest},
	}

	input := writeDataset(t, stepRainfall)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t, input)
			tt.mutate(cfg)

			err := New(cfg, zap.NewNop().Sugar()).Run(context.Background(), &bytes.Buffer{})
			assert.ErrorIs(t, err, tt.target)
			assert.NoFileExists(t, cfg.Output.Path)
		})
	}
}

func TestRunInvalidConfig(t *testing.T) {
	cfg := testConfig(t, "rain.nc")
	cfg.Analysis.Alpha = 0

	err := New(cfg, zap.NewNop().Sugar()).Run(context.Background(), &bytes.Buffer{})
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestRunCancelled(t *testing.T) {
	cfg := testConfig(t, writeDataset(t, stepRainfall))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(cfg, zap.NewNop().Sugar()).Run(ctx, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, cfg.Output.Path)
}
