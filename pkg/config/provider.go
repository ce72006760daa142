package config

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/chrissnell/skewt/pkg/thermo"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetSolverConfig() (*SolverData, error)
	GetLoggingConfig() (*LoggingData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Solver  SolverData  `json:"solver"`
	Logging LoggingData `json:"logging,omitempty"`
}

// SolverData holds the convergence settings of the equilibrium solvers.
// Zero values select the defaults of thermo.DefaultSolverParams.
type SolverData struct {
	ResidualTolerance     float64 `json:"residual_tolerance,omitempty"`
	Criterion             string  `json:"criterion,omitempty"`
	TemperatureTolerance  float64 `json:"temperature_tolerance,omitempty"`
	MaxIterations         int     `json:"max_iterations,omitempty"`
	FloorTemperature      float64 `json:"floor_temperature,omitempty"`
	MoistFloorTemperature float64 `json:"moist_floor_temperature,omitempty"`
	CeilingMargin         float64 `json:"ceiling_margin,omitempty"`
	Workers               int     `json:"workers,omitempty"`
}

// LoggingData holds logger settings
type LoggingData struct {
	Debug bool   `json:"debug,omitempty"`
	Level string `json:"level,omitempty"`
}

// Validate rejects settings no solver can run with.
func (s SolverData) Validate() error {
	var errs []error
	if s.ResidualTolerance < 0 {
		errs = append(errs, fmt.Errorf("residual tolerance must not be negative"))
	}
	if s.TemperatureTolerance < 0 {
		errs = append(errs, fmt.Errorf("temperature tolerance must not be negative"))
	}
	if s.MaxIterations < 0 {
		errs = append(errs, fmt.Errorf("max iterations must not be negative"))
	}
	if s.FloorTemperature < 0 || s.MoistFloorTemperature < 0 {
		errs = append(errs, fmt.Errorf("floor temperatures must not be negative"))
	}
	if s.CeilingMargin < 0 {
		errs = append(errs, fmt.Errorf("ceiling margin must not be negative"))
	}
	if s.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative"))
	}
	if s.Criterion != "" {
		if _, err := thermo.ParseCriterion(s.Criterion); err != nil {
			errs = append(errs, err)
		}
	}
	return multierr.Combine(errs...)
}

// Params converts the configured values to solver parameters, taking every
// unset field from thermo.DefaultSolverParams. Call Validate first: an
// unknown criterion falls back to the default.
func (s SolverData) Params() thermo.SolverParams {
	p := thermo.DefaultSolverParams()
	if s.ResidualTolerance > 0 {
		p.ResidualTolerance = s.ResidualTolerance
	}
	if c, err := thermo.ParseCriterion(s.Criterion); err == nil {
		p.ResidualCriterion = c
	}
	if s.TemperatureTolerance > 0 {
		p.TemperatureTolerance = s.TemperatureTolerance
	}
	if s.MaxIterations > 0 {
		p.MaxIterations = s.MaxIterations
	}
	if s.FloorTemperature > 0 {
		p.FloorTemperature = s.FloorTemperature
	}
	if s.MoistFloorTemperature > 0 {
		p.MoistFloorTemperature = s.MoistFloorTemperature
	}
	if s.CeilingMargin > 0 {
		p.CeilingMargin = s.CeilingMargin
	}
	if s.Workers > 0 {
		p.Workers = s.Workers
	}
	return p
}

// Validate checks every section of the configuration.
func (c *ConfigData) Validate() error {
	if err := c.Solver.Validate(); err != nil {
		return fmt.Errorf("solver: %w", err)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging: unknown level %q", c.Logging.Level)
	}
	return nil
}
