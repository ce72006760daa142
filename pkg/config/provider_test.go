package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chrissnell/skewt/pkg/thermo"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "skewt.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestYAMLProviderLoadConfig(t *testing.T) {
	path := writeConfig(t, `
solver:
  residual-tolerance: 1.0e-8
  criterion: midpoint-residual
  temperature-tolerance: 0.001
  max-iterations: 300
  workers: 2
logging:
  debug: true
  level: warn
`)
	p := NewYAMLProvider(path)
	defer p.Close()

	cfg, err := p.LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Solver.Criterion != "midpoint-residual" || cfg.Solver.MaxIterations != 300 {
		t.Errorf("unexpected solver config %+v", cfg.Solver)
	}
	if !cfg.Logging.Debug || cfg.Logging.Level != "warn" {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}

	params := cfg.Solver.Params()
	want := thermo.DefaultSolverParams()
	want.ResidualTolerance = 1e-8
	want.ResidualCriterion = thermo.MidpointResidual
	want.TemperatureTolerance = 0.001
	want.MaxIterations = 300
	want.Workers = 2
	if params != want {
		t.Errorf("Params() = %+v, want %+v", params, want)
	}

	if !p.IsReadOnly() {
		t.Error("YAML provider should be read-only")
	}
}

func TestYAMLProviderSections(t *testing.T) {
	p := NewYAMLProvider(writeConfig(t, "logging:\n  level: error\n"))

	solver, err := p.GetSolverConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if solver.Params() != thermo.DefaultSolverParams() {
		t.Errorf("empty solver section should give defaults, got %+v", solver.Params())
	}

	logging, err := p.GetLoggingConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logging.Level != "error" {
		t.Errorf("level = %q, want error", logging.Level)
	}
}

func TestYAMLProviderErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "unknown criterion", body: "solver:\n  criterion: newton\n", wantErr: "newton"},
		{name: "negative tolerance", body: "solver:\n  residual-tolerance: -1\n", wantErr: "residual tolerance"},
		{name: "negative iterations", body: "solver:\n  max-iterations: -3\n", wantErr: "max iterations"},
		{name: "unknown level", body: "logging:\n  level: chatty\n", wantErr: "chatty"},
		{name: "unknown key", body: "solver:\n  tolerance: 1\n", wantErr: "tolerance"},
		{name: "malformed", body: "solver: [", wantErr: "yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewYAMLProvider(writeConfig(t, tt.body)).LoadConfig()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}

	if _, err := NewYAMLProvider(filepath.Join(t.TempDir(), "missing.yaml")).LoadConfig(); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestSolverDataValidateCollectsErrors(t *testing.T) {
	err := SolverData{ResidualTolerance: -1, Workers: -1, CeilingMargin: -5}.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, part := range []string{"residual tolerance", "workers", "ceiling margin"} {
		if !strings.Contains(err.Error(), part) {
			t.Errorf("error %q does not mention %q", err, part)
		}
	}
}
