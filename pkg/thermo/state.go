package thermo

import "math"

// State is a thermodynamic state of a parcel or sounding level.
type State struct {
	Pressure    float64 // Pa
	Temperature float64 // K
	DewPoint    float64 // K
}

// Validate checks that the state is physically meaningful: all values
// finite, pressure and temperatures positive, dew point not above the
// temperature.
func (s State) Validate() error {
	if !finite(s.Pressure, s.Temperature, s.DewPoint) {
		return domainErrorf("non-finite state (p=%g, t=%g, td=%g)", s.Pressure, s.Temperature, s.DewPoint)
	}
	if s.Pressure <= 0 {
		return domainErrorf("pressure %g Pa must be positive", s.Pressure)
	}
	if s.Temperature <= 0 || s.DewPoint <= 0 {
		return domainErrorf("absolute temperatures must be positive (t=%g, td=%g)", s.Temperature, s.DewPoint)
	}
	if s.DewPoint > s.Temperature {
		return domainErrorf("dew point %g K above temperature %g K", s.DewPoint, s.Temperature)
	}
	return nil
}

// SaturationVaporPressure returns the equilibrium vapor pressure (Pa) over
// liquid water at temperature t, from the Clausius-Clapeyron equation.
func (c Constants) SaturationVaporPressure(t float64) float64 {
	return c.E0 * math.Exp((c.Lv/c.Rv)*((1/c.T0)-(1/t)))
}

// TemperatureAtVaporPressure inverts SaturationVaporPressure: it returns the
// temperature at which the saturation vapor pressure equals e.
func (c Constants) TemperatureAtVaporPressure(e float64) (float64, error) {
	if !finite(e) || e <= 0 {
		return 0, domainErrorf("vapor pressure %g Pa must be positive", e)
	}
	inv := 1/c.T0 - (c.Rv/c.Lv)*math.Log(e/c.E0)
	if inv <= 0 {
		return 0, domainErrorf("no temperature has saturation vapor pressure %g Pa", e)
	}
	return 1 / inv, nil
}

// MixingRatio returns the mixing ratio (kg/kg) of air with dew point td at
// pressure p. At saturation (td equal to the air temperature) this is the
// saturation mixing ratio.
func (c Constants) MixingRatio(td, p float64) (float64, error) {
	if !finite(td, p) || p <= 0 || td <= 0 {
		return 0, domainErrorf("mixing ratio undefined for td=%g K, p=%g Pa", td, p)
	}
	e := c.SaturationVaporPressure(td)
	dry := p - e
	if dry <= c.SingularMargin {
		return 0, ErrSingular
	}
	return c.Epsilon * e / dry, nil
}

// PotentialTemperature returns the temperature a parcel at (t, p) would have
// if brought dry-adiabatically to the reference pressure.
func (c Constants) PotentialTemperature(t, p float64) float64 {
	return t * math.Pow(c.ReferencePressure/p, c.Kappa())
}

// TemperatureFromPotential returns the temperature at pressure p on the dry
// adiabat with potential temperature theta.
func (c Constants) TemperatureFromPotential(theta, p float64) float64 {
	return theta * math.Pow(p/c.ReferencePressure, c.Kappa())
}

// VirtualTemperature returns the virtual temperature of air at temperature t
// with mixing ratio w.
func (c Constants) VirtualTemperature(t, w float64) float64 {
	return t * (1 + c.VirtualFactor*w)
}

// DewPointFromRH returns the dew point of air at temperature t and relative
// humidity rh, given as a fraction in (0, 1].
func (c Constants) DewPointFromRH(t, rh float64) (float64, error) {
	if !finite(t, rh) || t <= 0 || rh <= 0 || rh > 1 {
		return 0, domainErrorf("dew point undefined for t=%g K, rh=%g", t, rh)
	}
	return c.TemperatureAtVaporPressure(rh * c.SaturationVaporPressure(t))
}

// EquivalentTemperature returns the temperature air at (t, p, td) would
// reach if all its vapor condensed and the latent heat warmed the parcel.
func (c Constants) EquivalentTemperature(t, p, td float64) (float64, error) {
	w, err := c.MixingRatio(td, p)
	if err != nil {
		return 0, err
	}
	return t + (c.Lv*w)/(c.Cp+w*c.Cw), nil
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
