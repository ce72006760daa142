package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
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

	config, err := parseYAML(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", y.filename, err)
	}
	y.config = config
	return config, nil
}

func parseYAML(data []byte) (*ConfigData, error) {
	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		Solver  SolverYAML  `yaml:"solver,omitempty"`
		Logging LoggingYAML `yaml:"logging,omitempty"`
	}

	if err := yaml.UnmarshalStrict(data, &yamlConfig); err != nil {
		return nil, err
	}

	config := &ConfigData{
		Solver: SolverData{
			ResidualTolerance:     yamlConfig.Solver.ResidualTolerance,
			Criterion:             yamlConfig.Solver.Criterion,
			TemperatureTolerance:  yamlConfig.Solver.TemperatureTolerance,
			MaxIterations:         yamlConfig.Solver.MaxIterations,
			FloorTemperature:      yamlConfig.Solver.FloorTemperature,
			MoistFloorTemperature: yamlConfig.Solver.MoistFloorTemperature,
			CeilingMargin:         yamlConfig.Solver.CeilingMargin,
			Workers:               yamlConfig.Solver.Workers,
		},
		Logging: LoggingData{
			Debug: yamlConfig.Logging.Debug,
			Level: yamlConfig.Logging.Level,
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// GetSolverConfig returns solver configuration
func (y *YAMLProvider) GetSolverConfig() (*SolverData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &y.config.Solver, nil
}

// GetLoggingConfig returns logging configuration
func (y *YAMLProvider) GetLoggingConfig() (*LoggingData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &y.config.Logging, nil
}

// IsReadOnly returns true since YAML files are read-only through this interface
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// YAML-specific structs with proper YAML tags
type SolverYAML struct {
	ResidualTolerance     float64 `yaml:"residual-tolerance,omitempty"`
	Criterion             string  `yaml:"criterion,omitempty"`
	TemperatureTolerance  float64 `yaml:"temperature-tolerance,omitempty"`
	MaxIterations         int     `yaml:"max-iterations,omitempty"`
	FloorTemperature      float64 `yaml:"floor-temperature,omitempty"`
	MoistFloorTemperature float64 `yaml:"moist-floor-temperature,omitempty"`
	CeilingMargin         float64 `yaml:"ceiling-margin,omitempty"`
	Workers               int     `yaml:"workers,omitempty"`
}

type LoggingYAML struct {
	Debug bool   `yaml:"debug,omitempty"`
	Level string `yaml:"level,omitempty"`
}
