package thermo

import (
	"fmt"
	"math"
	"runtime"

	"go.uber.org/zap"
)

// SolverParams defines the brackets and convergence settings of the
// equilibrium solvers.
type SolverParams struct {
	// ResidualTolerance is the tolerance of the LCL and wet-bulb bisections.
	ResidualTolerance float64

	// ResidualCriterion selects the stopping test of the LCL and wet-bulb
	// bisections. ResidualMagnitude is the default.
	ResidualCriterion Criterion

	// TemperatureTolerance (K) is the bracket width at which the isopleth
	// and moist-adiabat bisections stop.
	TemperatureTolerance float64

	// MaxIterations caps every bisection.
	MaxIterations int

	// FloorTemperature (K) is the cold end of the LCL and isopleth brackets.
	FloorTemperature float64

	// MoistFloorTemperature (K) is the cold end of the moist-adiabat and
	// wet-bulb brackets.
	MoistFloorTemperature float64

	// CeilingMargin (Pa) places the warm end of the isopleth and moist-adiabat
	// brackets at the temperature where p - e_s(T) equals this margin.
	CeilingMargin float64

	// Workers bounds the number of levels solved concurrently by the curve
	// and profile builders.
	Workers int
}

// DefaultSolverParams returns the standard solver parameters.
func DefaultSolverParams() SolverParams {
	return SolverParams{
		ResidualTolerance:     1e-6,
		ResidualCriterion:     ResidualMagnitude,
		TemperatureTolerance:  0.01,
		MaxIterations:         DefaultMaxIterations,
		FloorTemperature:      150.0,
		MoistFloorTemperature: 100.0,
		CeilingMargin:         5000.0,
		Workers:               runtime.GOMAXPROCS(0),
	}
}

// Solver evaluates the iterative thermodynamic quantities. A Solver holds no
// mutable state and is safe for concurrent use.
type Solver struct {
	c      Constants
	params SolverParams
	logger *zap.SugaredLogger
}

// NewSolver creates a solver. A nil logger discards all output.
func NewSolver(c Constants, params SolverParams, logger *zap.SugaredLogger) *Solver {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if params.Workers < 1 {
		params.Workers = 1
	}
	return &Solver{c: c, params: params, logger: logger}
}

// Constants returns the constants the solver was built with.
func (s *Solver) Constants() Constants {
	return s.c
}

// Params returns the solver parameters.
func (s *Solver) Params() SolverParams {
	return s.params
}

// Logger returns the solver's logger.
func (s *Solver) Logger() *zap.SugaredLogger {
	return s.logger
}

func (s *Solver) residualConvergence() Convergence {
	return Convergence{
		Criterion:     s.params.ResidualCriterion,
		Tolerance:     s.params.ResidualTolerance,
		MaxIterations: s.params.MaxIterations,
	}
}

func (s *Solver) widthConvergence() Convergence {
	return Convergence{
		Criterion:     IntervalWidth,
		Tolerance:     s.params.TemperatureTolerance,
		MaxIterations: s.params.MaxIterations,
	}
}

// LCL is the lifting condensation level of a parcel.
type LCL struct {
	Temperature float64 // K
	Pressure    float64 // Pa
}

// LCL finds the level at which a parcel lifted dry-adiabatically from
// (t, p) with dew point td becomes saturated. Below the LCL both the mixing
// ratio and the potential temperature are conserved, so the LCL temperature
// is the root of w - w_s(T, p(T)), with p(T) given by Poisson's relation.
func (s *Solver) LCL(t, p, td float64) (LCL, error) {
	if err := (State{Pressure: p, Temperature: t, DewPoint: td}).Validate(); err != nil {
		return LCL{}, err
	}
	if t == td {
		return LCL{Temperature: t, Pressure: p}, nil
	}

	w, err := s.c.MixingRatio(td, p)
	if err != nil {
		return LCL{}, err
	}

	exponent := s.c.Cp / s.c.Rd
	pressureAt := func(tl float64) float64 {
		return math.Pow(tl/t, exponent) * p
	}
	residual := func(tl float64) (float64, error) {
		ws, err := s.c.MixingRatio(tl, pressureAt(tl))
		if err != nil {
			return 0, err
		}
		return w - ws, nil
	}

	tl, err := Bisect(residual, s.params.FloorTemperature, t, s.residualConvergence())
	if err != nil {
		s.logger.Warnf("LCL search failed for t=%.2f K p=%.1f Pa td=%.2f K: %v", t, p, td, err)
		return LCL{}, fmt.Errorf("lcl: %w", err)
	}
	return LCL{Temperature: tl, Pressure: pressureAt(tl)}, nil
}

// condensed returns the LCL, the mixing ratio at the LCL and the dry
// potential temperature of the LCL state.
func (s *Solver) condensed(t, p, td float64) (LCL, float64, float64, error) {
	lcl, err := s.LCL(t, p, td)
	if err != nil {
		return LCL{}, 0, 0, err
	}
	w, err := s.c.MixingRatio(lcl.Temperature, lcl.Pressure)
	if err != nil {
		return LCL{}, 0, 0, err
	}
	e := s.c.SaturationVaporPressure(lcl.Temperature)
	thetaDry := lcl.Temperature * math.Pow(s.c.ReferencePressure/(lcl.Pressure-e), s.c.Kappa())
	return lcl, w, thetaDry, nil
}

// EquivalentPotentialTemperature returns θe of the parcel (t, p, td).
func (s *Solver) EquivalentPotentialTemperature(t, p, td float64) (float64, error) {
	lcl, w, thetaDry, err := s.condensed(t, p, td)
	if err != nil {
		return 0, err
	}
	return thetaDry * math.Exp((s.c.Lv*w)/(s.c.Cp*lcl.Temperature)), nil
}

// SaturatedEquivalentPotentialTemperature returns θe of saturated air at
// (t, p).
func (s *Solver) SaturatedEquivalentPotentialTemperature(t, p float64) (float64, error) {
	return s.EquivalentPotentialTemperature(t, p, t)
}

// WetBulbPotentialTemperature returns the potential temperature the parcel
// reaches when it is saturated by evaporation and brought to the reference
// pressure along a moist adiabat.
func (s *Solver) WetBulbPotentialTemperature(t, p, td float64) (float64, error) {
	lcl, w, thetaDry, err := s.condensed(t, p, td)
	if err != nil {
		return 0, err
	}

	ratio := s.c.Lv / s.c.Cp
	p0 := s.c.ReferencePressure
	residual := func(theta float64) (float64, error) {
		ws, err := s.c.MixingRatio(theta, p0)
		if err != nil {
			return 0, err
		}
		return thetaDry*math.Exp(ratio*(w/lcl.Temperature-ws/theta)) - theta, nil
	}

	// The cold end of the bracket is the one whose residual sign is tracked.
	theta, err := Bisect(residual, thetaDry, s.params.MoistFloorTemperature, s.residualConvergence())
	if err != nil {
		s.logger.Warnf("wet-bulb potential temperature search failed for t=%.2f K p=%.1f Pa td=%.2f K: %v", t, p, td, err)
		return 0, fmt.Errorf("wet-bulb potential temperature: %w", err)
	}
	return theta, nil
}

// ceiling returns the warm end of the isopleth and moist-adiabat brackets:
// the temperature at which p - e_s(T) equals the ceiling margin.
func (s *Solver) ceiling(p float64) (float64, error) {
	if !finite(p) || p <= s.params.CeilingMargin {
		return 0, domainErrorf("pressure %g Pa at or below ceiling margin %g Pa", p, s.params.CeilingMargin)
	}
	return s.c.TemperatureAtVaporPressure(p - s.params.CeilingMargin)
}

// IsoplethTemperature returns the temperature at pressure p at which
// saturated air has mixing ratio w, i.e. the point at p of the constant
// mixing-ratio line w.
func (s *Solver) IsoplethTemperature(w, p float64) (float64, error) {
	if !finite(w) || w <= 0 {
		return 0, domainErrorf("mixing ratio %g must be positive", w)
	}
	top, err := s.ceiling(p)
	if err != nil {
		return 0, err
	}

	residual := func(t float64) (float64, error) {
		ws, err := s.c.MixingRatio(t, p)
		if err != nil {
			return 0, err
		}
		return ws - w, nil
	}

	t, err := Bisect(residual, s.params.FloorTemperature, top, s.widthConvergence())
	if err != nil {
		s.logger.Warnf("isopleth search failed for w=%.5f p=%.1f Pa: %v", w, p, err)
		return 0, fmt.Errorf("isopleth temperature: %w", err)
	}
	return t, nil
}

// MoistAdiabatTemperature returns the temperature at pressure p on the
// moist adiabat of equivalent potential temperature thetaE.
func (s *Solver) MoistAdiabatTemperature(thetaE, p float64) (float64, error) {
	if !finite(thetaE) || thetaE <= 0 {
		return 0, domainErrorf("equivalent potential temperature %g K must be positive", thetaE)
	}
	top, err := s.ceiling(p)
	if err != nil {
		return 0, err
	}

	residual := func(t float64) (float64, error) {
		theta, err := s.SaturatedEquivalentPotentialTemperature(t, p)
		if err != nil {
			return 0, err
		}
		return theta - thetaE, nil
	}

	t, err := Bisect(residual, s.params.MoistFloorTemperature, top, s.widthConvergence())
	if err != nil {
		s.logger.Warnf("moist adiabat search failed for θe=%.2f K p=%.1f Pa: %v", thetaE, p, err)
		return 0, fmt.Errorf("moist adiabat temperature: %w", err)
	}
	return t, nil
}

// ParcelSummary collects the derived quantities of a single parcel.
type ParcelSummary struct {
	State                                   State
	LCL                                     LCL
	MixingRatio                             float64
	PotentialTemperature                    float64
	EquivalentTemperature                   float64
	EquivalentPotentialTemperature          float64
	SaturatedEquivalentPotentialTemperature float64
	WetBulbPotentialTemperature             float64
}

// Parcel computes every derived quantity of the parcel (t, p, td).
func (s *Solver) Parcel(t, p, td float64) (ParcelSummary, error) {
	sum := ParcelSummary{State: State{Pressure: p, Temperature: t, DewPoint: td}}

	var err error
	if sum.LCL, err = s.LCL(t, p, td); err != nil {
		return sum, err
	}
	if sum.MixingRatio, err = s.c.MixingRatio(td, p); err != nil {
		return sum, err
	}
	sum.PotentialTemperature = s.c.PotentialTemperature(t, p)
	if sum.EquivalentTemperature, err = s.c.EquivalentTemperature(t, p, td); err != nil {
		return sum, err
	}
	if sum.EquivalentPotentialTemperature, err = s.EquivalentPotentialTemperature(t, p, td); err != nil {
		return sum, err
	}
	if sum.SaturatedEquivalentPotentialTemperature, err = s.SaturatedEquivalentPotentialTemperature(t, p); err != nil {
		return sum, err
	}
	if sum.WetBulbPotentialTemperature, err = s.WetBulbPotentialTemperature(t, p, td); err != nil {
		return sum, err
	}
	return sum, nil
}
