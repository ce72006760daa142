package sounding

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/chrissnell/skewt/pkg/thermo"
)

// Profile holds co-indexed pressure, temperature and dew point samples with
// pressure strictly decreasing (surface to space).
type Profile struct {
	Pressure    []float64
	Temperature []float64
	DewPoint    []float64
}

func newProfile(levels []float64) Profile {
	return Profile{
		Pressure:    levels,
		Temperature: make([]float64, len(levels)),
		DewPoint:    make([]float64, len(levels)),
	}
}

// Len returns the number of samples.
func (p *Profile) Len() int {
	return len(p.Pressure)
}

// VirtualTemperatures returns the virtual temperature of every sample.
func (p *Profile) VirtualTemperatures(c thermo.Constants) ([]float64, error) {
	tv := make([]float64, len(p.Pressure))
	for i := range p.Pressure {
		w, err := c.MixingRatio(p.DewPoint[i], p.Pressure[i])
		if err != nil {
			return nil, fmt.Errorf("virtual temperature at %g Pa: %w", p.Pressure[i], err)
		}
		tv[i] = c.VirtualTemperature(p.Temperature[i], w)
	}
	return tv, nil
}

// ParcelProfile is the trajectory of a lifted parcel: a dry adiabat and
// constant mixing-ratio dew point up to the LCL, then a saturated moist
// adiabat.
type ParcelProfile struct {
	Profile
	Origin thermo.State
	LCL    thermo.LCL
}

// SwitchIndex returns the last sample still on the dry segment, that is
// with pressure at or above the LCL pressure, or -1 if the whole profile
// lies above the LCL.
func (p *ParcelProfile) SwitchIndex() int {
	idx := -1
	for i, pr := range p.Pressure {
		if pr >= p.LCL.Pressure {
			idx = i
		}
	}
	return idx
}

// Builder composes the thermo solvers into full-column profiles.
type Builder struct {
	solver *thermo.Solver
	logger *zap.SugaredLogger
}

// NewBuilder returns a profile builder using solver for every level.
func NewBuilder(solver *thermo.Solver) *Builder {
	return &Builder{solver: solver, logger: solver.Logger()}
}

// Solver returns the underlying solver.
func (b *Builder) Solver() *thermo.Solver {
	return b.solver
}

// ParcelOptions selects the pressure levels of a parcel profile. With a zero
// Step the sounding's own levels are used; otherwise levels run from P1 to
// P2 (defaulting to the sounding surface and top) every Step pascals.
type ParcelOptions struct {
	Step float64
	P1   float64
	P2   float64
}

// ParcelProfile lifts the parcel found at pressure origin in the sounding.
func (b *Builder) ParcelProfile(ctx context.Context, s *Sounding, origin float64, opts ParcelOptions) (*ParcelProfile, error) {
	start, err := s.At(origin)
	if err != nil {
		return nil, fmt.Errorf("parcel origin: %w", err)
	}

	var levels []float64
	if opts.Step == 0 {
		levels = s.Pressures()
	} else {
		p1, p2 := opts.P1, opts.P2
		if p1 == 0 {
			p1 = s.Surface().Pressure
		}
		if p2 == 0 {
			p2 = s.Top().Pressure
		}
		if p1 <= p2 {
			return nil, fmt.Errorf("%w: parcel levels must run from high to low pressure (%g, %g)", thermo.ErrDomain, p1, p2)
		}
		if levels, err = thermo.PressureLevels(p1, p2, opts.Step); err != nil {
			return nil, err
		}
	}

	c := b.solver.Constants()
	lcl, err := b.solver.LCL(start.Temperature, start.Pressure, start.DewPoint)
	if err != nil {
		return nil, err
	}
	theta := c.PotentialTemperature(start.Temperature, start.Pressure)
	thetaE, err := b.solver.EquivalentPotentialTemperature(start.Temperature, start.Pressure, start.DewPoint)
	if err != nil {
		return nil, err
	}
	w, err := c.MixingRatio(start.DewPoint, start.Pressure)
	if err != nil {
		return nil, err
	}

	prof := &ParcelProfile{Profile: newProfile(levels), Origin: start, LCL: lcl}
	err = b.solver.EachLevel(ctx, len(levels), func(i int) error {
		p := levels[i]
		if p >= lcl.Pressure {
			td, err := b.solver.IsoplethTemperature(w, p)
			if err != nil {
				return fmt.Errorf("parcel dew point at %g Pa: %w", p, err)
			}
			prof.Temperature[i] = c.TemperatureFromPotential(theta, p)
			prof.DewPoint[i] = td
			return nil
		}

		t, err := b.solver.MoistAdiabatTemperature(thetaE, p)
		if err != nil {
			return fmt.Errorf("parcel temperature at %g Pa: %w", p, err)
		}
		prof.Temperature[i] = t
		prof.DewPoint[i] = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	b.logger.Debugf("parcel from %.0f Pa: LCL %.0f Pa / %.2f K, %d levels, switch index %d",
		origin, lcl.Pressure, lcl.Temperature, len(levels), prof.SwitchIndex())
	return prof, nil
}

// EnvironmentOptions defines the pressure grid of an environmental profile.
type EnvironmentOptions struct {
	P1   float64 // highest pressure (Pa)
	P2   float64 // lowest pressure (Pa)
	Step float64 // grid spacing (Pa)
}

// DefaultEnvironmentOptions returns a 1000 to 100 hPa grid every 10 hPa.
func DefaultEnvironmentOptions() EnvironmentOptions {
	return EnvironmentOptions{P1: 100000, P2: 10000, Step: 1000}
}

// EnvironmentProfile resamples the sounding onto a regular pressure grid.
// Inside the observed range the sounding is interpolated in log-pressure;
// beyond it the nearest boundary level is carried along a dry adiabat, with
// its mixing ratio held constant for the dew point.
func (b *Builder) EnvironmentProfile(ctx context.Context, s *Sounding, opts EnvironmentOptions) (*Profile, error) {
	if opts.P1 <= opts.P2 {
		return nil, fmt.Errorf("%w: environment grid must run from high to low pressure (%g, %g)", thermo.ErrDomain, opts.P1, opts.P2)
	}
	levels, err := thermo.PressureLevels(opts.P1, opts.P2, opts.Step)
	if err != nil {
		return nil, err
	}

	c := b.solver.Constants()
	surface, top := s.Surface(), s.Top()
	below, err := extrapolation(c, surface)
	if err != nil {
		return nil, err
	}
	above, err := extrapolation(c, top)
	if err != nil {
		return nil, err
	}

	prof := newProfile(levels)
	err = b.solver.EachLevel(ctx, len(levels), func(i int) error {
		p := levels[i]

		var ext boundary
		switch {
		case p > surface.Pressure:
			ext = below
		case p < top.Pressure:
			ext = above
		default:
			st, err := s.At(p)
			if err != nil {
				return err
			}
			prof.Temperature[i] = st.Temperature
			prof.DewPoint[i] = st.DewPoint
			return nil
		}

		td, err := b.solver.IsoplethTemperature(ext.w, p)
		if err != nil {
			return fmt.Errorf("environment dew point at %g Pa: %w", p, err)
		}
		prof.Temperature[i] = c.TemperatureFromPotential(ext.theta, p)
		prof.DewPoint[i] = td
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &prof, nil
}

// boundary holds the conserved quantities used to extend a sounding past
// one of its ends.
type boundary struct {
	theta float64
	w     float64
}

func extrapolation(c thermo.Constants, st thermo.State) (boundary, error) {
	w, err := c.MixingRatio(st.DewPoint, st.Pressure)
	if err != nil {
		return boundary{}, err
	}
	return boundary{theta: c.PotentialTemperature(st.Temperature, st.Pressure), w: w}, nil
}
