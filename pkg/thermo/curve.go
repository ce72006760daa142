package thermo

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
)

// Point is a single (pressure, temperature) sample of a curve.
type Point struct {
	Pressure    float64 // Pa
	Temperature float64 // K
}

// Curve is an ordered sequence of samples along an adiabat or isopleth,
// with strictly monotonic pressure.
type Curve []Point

// Pressures returns the pressure of every sample.
func (c Curve) Pressures() []float64 {
	out := make([]float64, len(c))
	for i, pt := range c {
		out[i] = pt.Pressure
	}
	return out
}

// Temperatures returns the temperature of every sample.
func (c Curve) Temperatures() []float64 {
	out := make([]float64, len(c))
	for i, pt := range c {
		out[i] = pt.Temperature
	}
	return out
}

// PressureLevels returns the evenly stepped pressures from p1 toward p2,
// both included when the span is a whole number of steps. The direction
// follows the sign of p2 - p1; step is always positive.
func PressureLevels(p1, p2, step float64) ([]float64, error) {
	if !finite(p1, p2, step) || p1 <= 0 || p2 <= 0 {
		return nil, domainErrorf("pressure bounds [%g, %g] must be positive", p1, p2)
	}
	if step <= 0 {
		return nil, domainErrorf("pressure step %g must be positive", step)
	}

	dir := -1.0
	if p2 > p1 {
		dir = 1.0
	}
	n := int(math.Floor(math.Abs(p1-p2)/step+1e-9)) + 1

	levels := make([]float64, n)
	for i := range levels {
		levels[i] = p1 + dir*float64(i)*step
	}
	return levels, nil
}

// DryAdiabat returns the dry adiabat of potential temperature theta from p1
// to p2. It is closed form and needs no iteration.
func (c Constants) DryAdiabat(theta, p1, p2, step float64) (Curve, error) {
	if !finite(theta) || theta <= 0 {
		return nil, domainErrorf("potential temperature %g K must be positive", theta)
	}
	levels, err := PressureLevels(p1, p2, step)
	if err != nil {
		return nil, err
	}
	curve := make(Curve, len(levels))
	for i, p := range levels {
		curve[i] = Point{Pressure: p, Temperature: c.TemperatureFromPotential(theta, p)}
	}
	return curve, nil
}

// MixingRatioLine returns the saturation mixing-ratio line w from p1 to p2,
// solving one isopleth point per level.
func (s *Solver) MixingRatioLine(ctx context.Context, w, p1, p2, step float64) (Curve, error) {
	return s.curve(ctx, p1, p2, step, func(p float64) (float64, error) {
		return s.IsoplethTemperature(w, p)
	})
}

// MoistAdiabat returns the moist adiabat of equivalent potential temperature
// thetaE from p1 to p2, solving one moist-adiabat point per level.
func (s *Solver) MoistAdiabat(ctx context.Context, thetaE, p1, p2, step float64) (Curve, error) {
	return s.curve(ctx, p1, p2, step, func(p float64) (float64, error) {
		return s.MoistAdiabatTemperature(thetaE, p)
	})
}

func (s *Solver) curve(ctx context.Context, p1, p2, step float64, solve func(p float64) (float64, error)) (Curve, error) {
	levels, err := PressureLevels(p1, p2, step)
	if err != nil {
		return nil, err
	}

	curve := make(Curve, len(levels))
	err = s.EachLevel(ctx, len(levels), func(i int) error {
		t, err := solve(levels[i])
		if err != nil {
			return err
		}
		curve[i] = Point{Pressure: levels[i], Temperature: t}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return curve, nil
}

// EachLevel calls fn for every index in [0, n) on at most Workers
// goroutines. Each call must only write to its own index. The first error
// cancels the levels not yet started and is returned.
func (s *Solver) EachLevel(ctx context.Context, n int, fn func(i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.params.Workers)

	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(i)
		})
	}
	return g.Wait()
}
