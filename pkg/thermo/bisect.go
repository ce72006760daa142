package thermo

import (
	"fmt"
	"math"
)

// Func is a scalar function whose root is searched by Bisect. It may fail,
// for example when a mixing ratio becomes singular.
type Func func(x float64) (float64, error)

// Criterion selects when a bisection stops.
type Criterion int

const (
	// ResidualMagnitude stops once the absolute residuals at both ends of
	// the bracket agree: ||f(upper)| - |f(lower)|| <= tolerance. This is the
	// default test of the LCL and wet-bulb solvers.
	ResidualMagnitude Criterion = iota
	// MidpointResidual stops once |f(mid)| <= tolerance, or when the bracket
	// can no longer be split in float64.
	MidpointResidual
	// IntervalWidth stops once |upper - lower| <= tolerance.
	IntervalWidth
)

func (c Criterion) String() string {
	switch c {
	case ResidualMagnitude:
		return "residual-magnitude"
	case MidpointResidual:
		return "midpoint-residual"
	case IntervalWidth:
		return "interval-width"
	default:
		return "unknown"
	}
}

// ParseCriterion returns the Criterion named by s, as printed by String.
func ParseCriterion(s string) (Criterion, error) {
	for _, c := range []Criterion{ResidualMagnitude, MidpointResidual, IntervalWidth} {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown convergence criterion %q", s)
}

// DefaultMaxIterations caps a bisection when Convergence.MaxIterations is
// not set.
const DefaultMaxIterations = 200

// Convergence configures a single Bisect call.
type Convergence struct {
	Criterion     Criterion
	Tolerance     float64
	MaxIterations int
}

// Bracket is the state of a bisection: two abscissae and the function
// values there. Lower is not required to be smaller than Upper.
type Bracket struct {
	Lower, Upper   float64
	FLower, FUpper float64
}

// Mid returns the midpoint of the bracket.
func (b Bracket) Mid() float64 {
	return 0.5 * (b.Lower + b.Upper)
}

// Width returns the absolute distance between the ends of the bracket.
func (b Bracket) Width() float64 {
	return math.Abs(b.Upper - b.Lower)
}

// converged reports whether the bracket satisfies an end-point criterion.
// MidpointResidual is decided inside the loop.
func (b Bracket) converged(c Convergence) bool {
	switch c.Criterion {
	case ResidualMagnitude:
		return math.Abs(math.Abs(b.FUpper)-math.Abs(b.FLower)) <= c.Tolerance
	case IntervalWidth:
		return b.Width() <= c.Tolerance
	}
	return false
}

// Bisect finds a root of f between lower and upper by repeated halving.
//
// At each step the midpoint replaces the end whose value has the same sign
// as f(mid); a midpoint value of exactly zero replaces upper. The result is
// the midpoint of the final bracket, not the last point evaluated.
//
// f(lower) and f(upper) must differ in sign (or one of them be zero),
// otherwise ErrNoSignChange is returned. A *ConvergenceError is returned
// when the iteration cap is reached first.
func Bisect(f Func, lower, upper float64, c Convergence) (float64, error) {
	if !finite(lower, upper) {
		return 0, domainErrorf("non-finite bracket [%g, %g]", lower, upper)
	}
	maxIter := c.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	b := Bracket{Lower: lower, Upper: upper}
	var err error
	if b.FLower, err = eval(f, lower); err != nil {
		return 0, err
	}
	if b.FUpper, err = eval(f, upper); err != nil {
		return 0, err
	}
	if sameSide(b.FLower, b.FUpper) {
		return 0, ErrNoSignChange
	}

	for i := 0; !b.converged(c); i++ {
		if i >= maxIter {
			return 0, &ConvergenceError{Lower: b.Lower, Upper: b.Upper, Iterations: i}
		}

		mid := b.Mid()
		fMid, err := eval(f, mid)
		if err != nil {
			return 0, err
		}

		if c.Criterion == MidpointResidual {
			if math.Abs(fMid) <= c.Tolerance || mid == b.Lower || mid == b.Upper {
				return mid, nil
			}
		}

		if opposite(b.FUpper, fMid) {
			b.Lower, b.FLower = mid, fMid
		} else {
			b.Upper, b.FUpper = mid, fMid
		}
	}

	return b.Mid(), nil
}

func eval(f Func, x float64) (float64, error) {
	y, err := f(x)
	if err != nil {
		return 0, err
	}
	if !finite(y) {
		return 0, domainErrorf("function value at %g is not finite", x)
	}
	return y, nil
}

func opposite(a, b float64) bool {
	return (a > 0 && b < 0) || (a < 0 && b > 0)
}

func sameSide(a, b float64) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}
