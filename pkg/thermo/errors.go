package thermo

import (
	"errors"
	"fmt"
)

var (
	// ErrDomain is returned when an input lies outside the physical domain
	// of a state equation or solver (non-positive pressure, dew point above
	// temperature, non-finite values, ...).
	ErrDomain = errors.New("thermo: input outside physical domain")

	// ErrSingular is returned when the vapor pressure is so close to the
	// ambient pressure that the mixing ratio diverges.
	ErrSingular = fmt.Errorf("%w: mixing ratio is singular", ErrDomain)

	// ErrNoSignChange is returned by Bisect when the function has the same
	// sign at both ends of the initial bracket.
	ErrNoSignChange = fmt.Errorf("%w: bracket does not contain a sign change", ErrDomain)

	// ErrNoConvergence is wrapped by ConvergenceError.
	ErrNoConvergence = errors.New("thermo: bisection did not converge")
)

// ConvergenceError reports a bisection that hit its iteration cap. Lower
// and Upper are the tightest bracket reached.
type ConvergenceError struct {
	Lower      float64
	Upper      float64
	Iterations int
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%v after %d iterations (bracket [%g, %g])",
		ErrNoConvergence, e.Iterations, e.Lower, e.Upper)
}

func (e *ConvergenceError) Unwrap() error {
	return ErrNoConvergence
}

func domainErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrDomain, fmt.Sprintf(format, args...))
}
