package config

import (
	"errors"
	"fmt"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration of an analysis run
type ConfigData struct {
	Input    InputData    `json:"input"`
	Analysis AnalysisData `json:"analysis"`
	Output   OutputData   `json:"output"`
}

// InputData describes the gridded dataset and how to read it
type InputData struct {
	Path        string   `json:"path"`
	Variable    string   `json:"variable"`
	TimeDim     string   `json:"time_dim"`
	LatDims     []string `json:"lat_dims"`
	LonDims     []string `json:"lon_dims"`
	SkipMissing bool     `json:"skip_missing"`
}

// AnalysisData holds the change-point test settings
type AnalysisData struct {
	Tests       []string `json:"tests"`
	Alpha       float64  `json:"alpha"`
	Simulations int      `json:"simulations"`
	Seed        uint64   `json:"seed"`
	// ResultFile, when set, replaces the computed test with a result
	// decoded from a JSON or msgpack file.
	ResultFile string `json:"result_file,omitempty"`
}

// OutputData holds the chart settings
type OutputData struct {
	Path      string  `json:"path"`
	Title     string  `json:"title"`
	XLabel    string  `json:"x_label"`
	YLabel    string  `json:"y_label"`
	Width     float64 `json:"width_in"`
	Height    float64 `json:"height_in"`
	DPI       int     `json:"dpi"`
	TickYears int     `json:"tick_years"`
}

// Defaults returns the configuration used when no config file is given.
func Defaults() *ConfigData {
	return &ConfigData{
		Input: InputData{
			Path:        "pr_Lake_tana_19830101_20131231_month.nc",
			Variable:    "pr",
			TimeDim:     "time",
			LatDims:     []string{"lat", "latitude", "y"},
			LonDims:     []string{"lon", "longitude", "x"},
			SkipMissing: true,
		},
		Analysis: AnalysisData{
			Tests:       []string{"pettitt"},
			Alpha:       0.05,
			Simulations: 20000,
			Seed:        42,
		},
		Output: OutputData{
			Path:      "Pettitt_Homogeneity_Rainfall.png",
			Title:     "Temporal Homogeneity of Regional Rainfall",
			XLabel:    "Year",
			YLabel:    "Rainfall (mm)",
			Width:     12,
			Height:    6,
			DPI:       300,
			TickYears: 5,
		},
	}
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *ConfigData) Validate() error {
	var errs []error

	if c.Input.Path == "" {
		errs = append(errs, errors.New("input path is required"))
	}
	if c.Input.Variable == "" {
		errs = append(errs, errors.New("input variable is required"))
	}
	if len(c.Analysis.Tests) == 0 {
		errs = append(errs, errors.New("at least one test is required"))
	}
	if c.Analysis.Alpha <= 0 || c.Analysis.Alpha >= 1 {
		errs = append(errs, fmt.Errorf("alpha must be between 0 and 1, got %v", c.Analysis.Alpha))
	}
	if c.Analysis.Simulations < 0 {
		errs = append(errs, fmt.Errorf("simulations must not be negative, got %d", c.Analysis.Simulations))
	}
	if c.Output.Path == "" {
		errs = append(errs, errors.New("output path is required"))
	}
	if c.Output.Width <= 0 || c.Output.Height <= 0 {
		errs = append(errs, fmt.Errorf("figure size must be positive, got %vx%v", c.Output.Width, c.Output.Height))
	}
	if c.Output.DPI <= 0 {
		errs = append(errs, fmt.Errorf("dpi must be positive, got %d", c.Output.DPI))
	}
	if c.Output.TickYears <= 0 {
		errs = append(errs, fmt.Errorf("tick_years must be positive, got %d", c.Output.TickYears))
	}

	return errors.Join(errs...)
}

// DefaultsProvider implements ConfigProvider with the built-in defaults
type DefaultsProvider struct{}

// NewDefaultsProvider creates a provider that needs no config file
func NewDefaultsProvider() *DefaultsProvider {
	return &DefaultsProvider{}
}

// LoadConfig returns a fresh copy of the defaults
func (DefaultsProvider) LoadConfig() (*ConfigData, error) {
	return Defaults(), nil
}

// IsReadOnly always returns true
func (DefaultsProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op
func (DefaultsProvider) Close() error {
	return nil
}
