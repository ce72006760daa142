package sounding

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/chrissnell/skewt/pkg/thermo"
)

// ErrNoCrossing is returned when the parcel and environment virtual
// temperatures never cross in the searched column.
var ErrNoCrossing = errors.New("sounding: no buoyancy crossing in range")

// BuoyancyOptions configures the equilibrium level and level of free
// convection searches.
type BuoyancyOptions struct {
	// Origin is the pressure (Pa) the parcel is lifted from. Zero selects
	// the sounding surface.
	Origin float64

	// Accuracy (Pa) is half the spacing of the search grid; the returned
	// level is within Accuracy of the true crossing.
	Accuracy float64
}

// DefaultBuoyancyOptions lifts a surface parcel on a 100 Pa grid.
func DefaultBuoyancyOptions() BuoyancyOptions {
	return BuoyancyOptions{Accuracy: 50}
}

func (o BuoyancyOptions) resolve(s *Sounding) (BuoyancyOptions, error) {
	if o.Origin == 0 {
		o.Origin = s.Surface().Pressure
	}
	if math.IsNaN(o.Accuracy) || o.Accuracy <= 0 {
		return o, fmt.Errorf("%w: accuracy %g Pa must be positive", thermo.ErrDomain, o.Accuracy)
	}
	return o, nil
}

// Level pairs the parcel and environment virtual temperatures at one
// pressure.
type Level struct {
	Pressure      float64
	ParcelTv      float64
	EnvironmentTv float64
}

// Column builds co-indexed parcel and environment virtual temperatures on
// the grid from p1 down to p2.
func (b *Builder) Column(ctx context.Context, s *Sounding, origin, p1, p2, step float64) ([]Level, error) {
	env, err := b.EnvironmentProfile(ctx, s, EnvironmentOptions{P1: p1, P2: p2, Step: step})
	if err != nil {
		return nil, fmt.Errorf("environment profile: %w", err)
	}
	parcel, err := b.ParcelProfile(ctx, s, origin, ParcelOptions{P1: p1, P2: p2, Step: step})
	if err != nil {
		return nil, fmt.Errorf("parcel profile: %w", err)
	}
	if !floats.Equal(env.Pressure, parcel.Pressure) {
		return nil, fmt.Errorf("parcel and environment grids differ")
	}

	c := b.solver.Constants()
	envTv, err := env.VirtualTemperatures(c)
	if err != nil {
		return nil, err
	}
	parcelTv, err := parcel.VirtualTemperatures(c)
	if err != nil {
		return nil, err
	}

	levels := make([]Level, env.Len())
	for i := range levels {
		levels[i] = Level{Pressure: env.Pressure[i], ParcelTv: parcelTv[i], EnvironmentTv: envTv[i]}
	}
	return levels, nil
}

// EquilibriumLevel returns the pressure above which the lifted parcel is no
// longer warmer than its environment. The column is scanned from the top
// down; the result is the first sample where parcel and environment virtual
// temperatures are equal, or the midpoint between the first warmer-parcel
// sample and the sample above it.
func (b *Builder) EquilibriumLevel(ctx context.Context, s *Sounding, opts BuoyancyOptions) (float64, error) {
	opts, err := opts.resolve(s)
	if err != nil {
		return 0, err
	}
	return b.equilibriumLevel(ctx, s, opts)
}

func (b *Builder) equilibriumLevel(ctx context.Context, s *Sounding, opts BuoyancyOptions) (float64, error) {
	levels, err := b.Column(ctx, s, opts.Origin, s.Surface().Pressure, s.Top().Pressure, 2*opts.Accuracy)
	if err != nil {
		return 0, err
	}
	el, err := findCrossing(levels, parcelWarmer)
	if err != nil {
		return 0, fmt.Errorf("equilibrium level: %w", err)
	}
	b.logger.Debugf("equilibrium level for parcel from %.0f Pa: %.1f Pa", opts.Origin, el)
	return el, nil
}

// LevelOfFreeConvection returns the pressure below the equilibrium level at
// which the lifted parcel first becomes warmer than its environment. The
// column between the surface and the equilibrium level is scanned from the
// top down for the first sample where the parcel is colder.
func (b *Builder) LevelOfFreeConvection(ctx context.Context, s *Sounding, opts BuoyancyOptions) (float64, error) {
	opts, err := opts.resolve(s)
	if err != nil {
		return 0, err
	}
	el, err := b.equilibriumLevel(ctx, s, opts)
	if err != nil {
		return 0, err
	}
	return b.levelOfFreeConvection(ctx, s, opts, el)
}

func (b *Builder) levelOfFreeConvection(ctx context.Context, s *Sounding, opts BuoyancyOptions, el float64) (float64, error) {
	levels, err := b.Column(ctx, s, opts.Origin, s.Surface().Pressure, el, 2*opts.Accuracy)
	if err != nil {
		return 0, err
	}
	lfc, err := findCrossing(levels, parcelColder)
	if err != nil {
		return 0, fmt.Errorf("level of free convection: %w", err)
	}
	b.logger.Debugf("level of free convection for parcel from %.0f Pa: %.1f Pa", opts.Origin, lfc)
	return lfc, nil
}

// Analysis summarizes the convective properties of one lifted parcel.
// Levels that do not exist in the sounding are NaN.
type Analysis struct {
	Parcel                thermo.ParcelSummary
	EquilibriumLevel      float64
	LevelOfFreeConvection float64
}

// Analyze lifts the parcel selected by opts and reports its derived
// quantities together with its equilibrium level and level of free
// convection.
func (b *Builder) Analyze(ctx context.Context, s *Sounding, opts BuoyancyOptions) (*Analysis, error) {
	opts, err := opts.resolve(s)
	if err != nil {
		return nil, err
	}
	start, err := s.At(opts.Origin)
	if err != nil {
		return nil, err
	}

	a := &Analysis{EquilibriumLevel: math.NaN(), LevelOfFreeConvection: math.NaN()}
	if a.Parcel, err = b.solver.Parcel(start.Temperature, start.Pressure, start.DewPoint); err != nil {
		return nil, err
	}

	el, err := b.equilibriumLevel(ctx, s, opts)
	switch {
	case errors.Is(err, ErrNoCrossing):
		return a, nil
	case err != nil:
		return nil, err
	}
	a.EquilibriumLevel = el

	lfc, err := b.levelOfFreeConvection(ctx, s, opts, el)
	switch {
	case errors.Is(err, ErrNoCrossing):
	case err != nil:
		return nil, err
	default:
		a.LevelOfFreeConvection = lfc
	}
	return a, nil
}

func parcelWarmer(l Level) bool { return l.ParcelTv > l.EnvironmentTv }

func parcelColder(l Level) bool { return l.ParcelTv < l.EnvironmentTv }

// span is a pair of consecutive samples; top is set for the uppermost
// sample, which has nothing above it.
type span struct {
	above Level
	below Level
	top   bool
}

// downward yields the column as consecutive pairs from the top to the
// surface.
func downward(levels []Level) iter.Seq[span] {
	return func(yield func(span) bool) {
		for i := len(levels) - 1; i >= 0; i-- {
			sp := span{below: levels[i], top: i == len(levels)-1}
			if !sp.top {
				sp.above = levels[i+1]
			}
			if !yield(sp) {
				return
			}
		}
	}
}

// detect inspects one pair. done is set once the scan can stop; found
// reports whether pressure holds a crossing.
func detect(sp span, crossed func(Level) bool) (pressure float64, found, done bool) {
	switch {
	case sp.below.ParcelTv == sp.below.EnvironmentTv:
		return sp.below.Pressure, true, true
	case !crossed(sp.below):
		return 0, false, false
	case sp.top:
		// Already crossed at the top of the column: the level lies above it.
		return 0, false, true
	default:
		return 0.5 * (sp.below.Pressure + sp.above.Pressure), true, true
	}
}

func findCrossing(levels []Level, crossed func(Level) bool) (float64, error) {
	for sp := range downward(levels) {
		pressure, found, done := detect(sp, crossed)
		if !done {
			continue
		}
		if !found {
			return 0, fmt.Errorf("%w: crossed above %g Pa", ErrNoCrossing, sp.below.Pressure)
		}
		return pressure, nil
	}
	return 0, ErrNoCrossing
}
