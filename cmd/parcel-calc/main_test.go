package main

import (
	"context"
	"math"
	"testing"

	"github.com/chrissnell/skewt/pkg/thermo"
)

func TestLiftedPath(t *testing.T) {
	solver := thermo.NewSolver(thermo.Standard, thermo.DefaultSolverParams(), nil)
	sum, err := solver.Parcel(276.15, 60000, 268.15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path, err := liftedPath(context.Background(), solver, sum, 30000, 5000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path[0].Pressure != 60000 || math.Abs(path[0].Temperature-276.15) > 1e-9 {
		t.Errorf("path should start at the parcel, got %+v", path[0])
	}
	// The moist leg is stepped from the LCL, so it stops within one step of
	// the top.
	if last := path[len(path)-1]; last.Pressure < 30000 || last.Pressure >= 35000 {
		t.Errorf("path should end within a step of 30000 Pa, got %+v", last)
	}
	for i := 1; i < len(path); i++ {
		if path[i].Pressure >= path[i-1].Pressure || path[i].Temperature >= path[i-1].Temperature {
			t.Errorf("parcel must cool while rising: %+v then %+v", path[i-1], path[i])
		}
	}

	if _, err := liftedPath(context.Background(), solver, sum, 70000, 5000); err == nil {
		t.Error("expected error for a top below the parcel")
	}
}
