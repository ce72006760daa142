// Package sounding builds parcel and environmental profiles from an observed
// vertical sounding and searches them for the equilibrium level and the
// level of free convection.
package sounding

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/interp"

	"github.com/chrissnell/skewt/pkg/thermo"
)

var (
	ErrLengthMismatch   = fmt.Errorf("%w: sounding arrays differ in length", thermo.ErrDomain)
	ErrTooFewLevels     = fmt.Errorf("%w: sounding needs at least two levels", thermo.ErrDomain)
	ErrUnsortedSounding = fmt.Errorf("%w: sounding pressures must strictly decrease", thermo.ErrDomain)
	ErrOutOfRange       = fmt.Errorf("%w: pressure outside sounding range", thermo.ErrDomain)
)

// Sounding is an observed vertical profile ordered from the surface
// (highest pressure) to the top (lowest pressure).
type Sounding struct {
	pressure    []float64
	temperature []float64
	dewPoint    []float64

	// temperature and dew point against -ln(p), which increases upward
	tInterp  interp.PiecewiseLinear
	tdInterp interp.PiecewiseLinear
}

// New validates the three co-indexed arrays (Pa, K, K) and returns a
// sounding. The arrays are copied.
func New(pressure, temperature, dewPoint []float64) (*Sounding, error) {
	s := &Sounding{
		pressure:    slices.Clone(pressure),
		temperature: slices.Clone(temperature),
		dewPoint:    slices.Clone(dewPoint),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	xs := make([]float64, len(s.pressure))
	for i, p := range s.pressure {
		xs[i] = -math.Log(p)
	}
	if err := s.tInterp.Fit(xs, s.temperature); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsortedSounding, err)
	}
	if err := s.tdInterp.Fit(xs, s.dewPoint); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsortedSounding, err)
	}
	return s, nil
}

// Validate checks the array lengths, every level's state and the ordering
// of the pressures.
func (s *Sounding) Validate() error {
	n := len(s.pressure)
	if len(s.temperature) != n || len(s.dewPoint) != n {
		return fmt.Errorf("%w (p=%d, t=%d, td=%d)", ErrLengthMismatch, n, len(s.temperature), len(s.dewPoint))
	}
	if n < 2 {
		return ErrTooFewLevels
	}
	for i := 0; i < n; i++ {
		if err := s.Level(i).Validate(); err != nil {
			return fmt.Errorf("level %d: %w", i, err)
		}
		if i > 0 && s.pressure[i] >= s.pressure[i-1] {
			return fmt.Errorf("%w (level %d: %g Pa after %g Pa)", ErrUnsortedSounding, i, s.pressure[i], s.pressure[i-1])
		}
	}
	return nil
}

// Len returns the number of levels.
func (s *Sounding) Len() int {
	return len(s.pressure)
}

// Level returns the state of level i.
func (s *Sounding) Level(i int) thermo.State {
	return thermo.State{Pressure: s.pressure[i], Temperature: s.temperature[i], DewPoint: s.dewPoint[i]}
}

// Surface returns the lowest (highest pressure) level.
func (s *Sounding) Surface() thermo.State {
	return s.Level(0)
}

// Top returns the highest (lowest pressure) level.
func (s *Sounding) Top() thermo.State {
	return s.Level(len(s.pressure) - 1)
}

// Pressures returns a copy of the sounding pressures.
func (s *Sounding) Pressures() []float64 {
	return slices.Clone(s.pressure)
}

// Contains reports whether p lies within the observed pressure range.
func (s *Sounding) Contains(p float64) bool {
	return p <= s.pressure[0] && p >= s.pressure[len(s.pressure)-1]
}

// At returns the state at pressure p: the observed level itself when p is
// one, otherwise a linear interpolation in log-pressure between the two
// bracketing levels.
func (s *Sounding) At(p float64) (thermo.State, error) {
	if math.IsNaN(p) || !s.Contains(p) {
		return thermo.State{}, fmt.Errorf("%w: %g Pa not in [%g, %g]", ErrOutOfRange, p, s.Top().Pressure, s.Surface().Pressure)
	}
	if i := slices.Index(s.pressure, p); i >= 0 {
		return s.Level(i), nil
	}
	x := -math.Log(p)
	return thermo.State{
		Pressure:    p,
		Temperature: s.tInterp.Predict(x),
		DewPoint:    s.tdInterp.Predict(x),
	}, nil
}
