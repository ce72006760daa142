// Package thermo provides the thermodynamic state equations and the
// bisection-based equilibrium solvers used to analyze atmospheric parcels:
// lifting condensation level, equivalent and wet-bulb potential temperature,
// constant mixing-ratio lines and dry/moist adiabats.
//
// All temperatures are in kelvin, pressures in pascals and mixing ratios
// in kg/kg.
package thermo

// Constants holds the physical constants shared by every state equation
// and solver. Values are immutable once a Solver has been built from them.
type Constants struct {
	Rd      float64 // gas constant for dry air (J/kg*K)
	Rv      float64 // gas constant for water vapor (J/kg*K)
	Cp      float64 // specific heat of dry air at constant pressure (J/kg*K)
	Cw      float64 // specific heat of liquid water (J/kg*K)
	Lv      float64 // enthalpy of vaporization (J/kg)
	Epsilon float64 // molar mass ratio of water vapor to dry air

	// E0 is the saturation vapor pressure (Pa) at T0 (K), the anchor of the
	// Clausius-Clapeyron relation.
	E0 float64
	T0 float64

	// ReferencePressure is the pressure (Pa) potential temperatures refer to.
	ReferencePressure float64

	// VirtualFactor is the coefficient of w in T_v = T(1 + VirtualFactor*w).
	VirtualFactor float64

	// SingularMargin is the smallest dry-air partial pressure (Pa) for which
	// a mixing ratio is evaluated.
	SingularMargin float64
}

// Standard is the usual sounding-analysis constant set.
var Standard = Constants{
	Rd:                287.04,
	Rv:                461.5,
	Cp:                1005.0,
	Cw:                4218.0,
	Lv:                2.5e6,
	Epsilon:           0.622,
	E0:                611.0,
	T0:                273.15,
	ReferencePressure: 100000.0,
	VirtualFactor:     0.61,
	SingularMargin:    1.0,
}

// Kappa returns Rd/Cp, the Poisson exponent.
func (c Constants) Kappa() float64 {
	return c.Rd / c.Cp
}
