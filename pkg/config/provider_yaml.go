package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files.
// Keys missing from the file keep their default values.
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		Input    InputYAML    `yaml:"input,omitempty"`
		Analysis AnalysisYAML `yaml:"analysis,omitempty"`
		Output   OutputYAML   `yaml:"output,omitempty"`
	}

	err = yaml.UnmarshalStrict(cfgFile, &yamlConfig)
	if err != nil {
		return nil, err
	}

	config := Defaults()

	// Convert input
	in := yamlConfig.Input
	setString(&config.Input.Path, in.Path)
	setString(&config.Input.Variable, in.Variable)
	setString(&config.Input.TimeDim, in.TimeDim)
	if len(in.LatDims) > 0 {
		config.Input.LatDims = in.LatDims
	}
	if len(in.LonDims) > 0 {
		config.Input.LonDims = in.LonDims
	}
	if in.SkipMissing != nil {
		config.Input.SkipMissing = *in.SkipMissing
	}

	// Convert analysis
	an := yamlConfig.Analysis
	if len(an.Tests) > 0 {
		config.Analysis.Tests = an.Tests
	}
	if an.Alpha != nil {
		config.Analysis.Alpha = *an.Alpha
	}
	if an.Simulations != nil {
		config.Analysis.Simulations = *an.Simulations
	}
	if an.Seed != nil {
		config.Analysis.Seed = *an.Seed
	}
	setString(&config.Analysis.ResultFile, an.ResultFile)

	// Convert output
	out := yamlConfig.Output
	setString(&config.Output.Path, out.Path)
	setString(&config.Output.Title, out.Title)
	setString(&config.Output.XLabel, out.XLabel)
	setString(&config.Output.YLabel, out.YLabel)
	if out.Width > 0 {
		config.Output.Width = out.Width
	}
	if out.Height > 0 {
		config.Output.Height = out.Height
	}
	if out.DPI != 0 {
		config.Output.DPI = out.DPI
	}
	if out.TickYears != 0 {
		config.Output.TickYears = out.TickYears
	}

	y.config = config
	return config, nil
}

// IsReadOnly returns true since YAML files are read-only through this interface
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// YAML-specific structs. Pointer fields distinguish an explicit zero from
// an omitted key.
type InputYAML struct {
	Path        string   `yaml:"path,omitempty"`
	Variable    string   `yaml:"variable,omitempty"`
	TimeDim     string   `yaml:"time-dim,omitempty"`
	LatDims     []string `yaml:"lat-dims,omitempty"`
	LonDims     []string `yaml:"lon-dims,omitempty"`
	SkipMissing *bool    `yaml:"skip-missing,omitempty"`
}

type AnalysisYAML struct {
	Tests       []string `yaml:"tests,omitempty"`
	Alpha       *float64 `yaml:"alpha,omitempty"`
	Simulations *int     `yaml:"simulations,omitempty"`
	Seed        *uint64  `yaml:"seed,omitempty"`
	ResultFile  string   `yaml:"result-file,omitempty"`
}

type OutputYAML struct {
	Path      string  `yaml:"path,omitempty"`
	Title     string  `yaml:"title,omitempty"`
	XLabel    string  `yaml:"x-label,omitempty"`
	YLabel    string  `yaml:"y-label,omitempty"`
	Width     float64 `yaml:"width-in,omitempty"`
	Height    float64 `yaml:"height-in,omitempty"`
	DPI       int     `yaml:"dpi,omitempty"`
	TickYears int     `yaml:"tick-years,omitempty"`
}
