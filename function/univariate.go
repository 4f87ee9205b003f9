// Package function implements real functions of one or two parameters that
// are restricted to a domain.
//
// Functions are evaluated through [Value] and [ValueFuzzy], which check the
// domain before delegating to the function's unbounded evaluation. The
// unbounded evaluation is only meant to be called once domain membership has
// been established; it is exported so that packages building on this one can
// implement their own functions.
package function

import (
	"fmt"
	"math"
	"strings"

	"honnef.co/go/roadgeom"
	"honnef.co/go/roadgeom/interval"
)

// Univariate is a function of one real parameter.
type Univariate interface {
	Domain() interval.Range
	// ValueUnbounded evaluates the function without checking the domain.
	ValueUnbounded(x float64) (float64, error)
}

// Differentiable is implemented by functions that can compute their slope.
type Differentiable interface {
	Univariate
	// SlopeUnbounded evaluates the first derivative without checking the
	// domain.
	SlopeUnbounded(x float64) (float64, error)
}

// fuzzyValuer is implemented by functions that need to know the tolerance to
// resolve fuzzy evaluation, such as concatenations.
type fuzzyValuer interface {
	valueFuzzy(x, tol float64) (float64, error)
}

type fuzzySloper interface {
	slopeFuzzy(x, tol float64) (float64, error)
}

// Value evaluates f at x. It returns a [roadgeom.DomainError] if x lies
// outside of f's domain.
func Value(f Univariate, x float64) (float64, error) {
	if !f.Domain().Contains(x) {
		return math.NaN(), &roadgeom.DomainError{Parameter: x, Domain: f.Domain()}
	}
	return f.ValueUnbounded(x)
}

// ValueFuzzy is like [Value] but accepts x within tol of the domain.
func ValueFuzzy(f Univariate, x, tol float64) (float64, error) {
	if fv, ok := f.(fuzzyValuer); ok {
		return fv.valueFuzzy(x, tol)
	}
	if !f.Domain().FuzzyContains(x, tol) {
		return math.NaN(), &roadgeom.DomainError{Parameter: x, Domain: f.Domain()}
	}
	return f.ValueUnbounded(x)
}

// Slope evaluates the first derivative of f at x.
func Slope(f Differentiable, x float64) (float64, error) {
	if !f.Domain().Contains(x) {
		return math.NaN(), &roadgeom.DomainError{Parameter: x, Domain: f.Domain()}
	}
	return f.SlopeUnbounded(x)
}

// SlopeFuzzy is like [Slope] but accepts x within tol of the domain.
func SlopeFuzzy(f Differentiable, x, tol float64) (float64, error) {
	if fs, ok := f.(fuzzySloper); ok {
		return fs.slopeFuzzy(x, tol)
	}
	if !f.Domain().FuzzyContains(x, tol) {
		return math.NaN(), &roadgeom.DomainError{Parameter: x, Domain: f.Domain()}
	}
	return f.SlopeUnbounded(x)
}

// Constant is a constant function.
type Constant struct {
	C float64
	// D is the domain. The zero value is (-∞, ∞).
	D interval.Range
}

var _ Differentiable = Constant{}

func (c Constant) Domain() interval.Range                   { return c.D }
func (c Constant) ValueUnbounded(float64) (float64, error) { return c.C, nil }
func (c Constant) SlopeUnbounded(float64) (float64, error) { return 0, nil }

// Linear is the function f(x) = Intercept + Slope·x.
type Linear struct {
	Intercept float64
	Slope     float64
	D         interval.Range
}

var _ Differentiable = Linear{}

// LinearThrough returns the linear function through (x0, y0) and (x1, y1),
// restricted to domain. It returns an error wrapping [roadgeom.ErrDegenerate]
// if x0 == x1 or if any coordinate isn't finite.
func LinearThrough(x0, y0, x1, y1 float64, domain interval.Range) (Linear, error) {
	for _, v := range [...]float64{x0, y0, x1, y1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Linear{}, roadgeom.Degeneratef("linear function through (%g, %g) and (%g, %g)", x0, y0, x1, y1)
		}
	}
	if x0 == x1 {
		return Linear{}, roadgeom.Degeneratef("linear function through two points with equal x %g", x0)
	}
	slope := (y1 - y0) / (x1 - x0)
	return Linear{
		Intercept: y0 - slope*x0,
		Slope:     slope,
		D:         domain,
	}, nil
}

func (l Linear) Domain() interval.Range { return l.D }

func (l Linear) ValueUnbounded(x float64) (float64, error) {
	return l.Intercept + l.Slope*x, nil
}

func (l Linear) SlopeUnbounded(float64) (float64, error) { return l.Slope, nil }

// Polynomial is the function f(x) = c[0] + c[1]·x + c[2]·x² + …
type Polynomial struct {
	coefficients []float64
	derivative   []float64
	domain       interval.Range
}

var _ Differentiable = Polynomial{}

// NewPolynomial returns the polynomial with the given coefficients in order
// of increasing degree. It returns an error wrapping [roadgeom.ErrDegenerate]
// if there are no coefficients or if any coefficient isn't finite.
func NewPolynomial(coefficients []float64, domain interval.Range) (Polynomial, error) {
	if len(coefficients) == 0 {
		return Polynomial{}, roadgeom.Degeneratef("polynomial without coefficients")
	}
	for i, c := range coefficients {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return Polynomial{}, roadgeom.Degeneratef("coefficient %d of polynomial is %g", i, c)
		}
	}
	deriv := make([]float64, max(len(coefficients)-1, 1))
	for i := 1; i < len(coefficients); i++ {
		deriv[i-1] = float64(i) * coefficients[i]
	}
	return Polynomial{
		coefficients: append([]float64(nil), coefficients...),
		derivative:   deriv,
		domain:       domain,
	}, nil
}

// MustPolynomial is like [NewPolynomial] but panics on error.
func MustPolynomial(coefficients []float64, domain interval.Range) Polynomial {
	p, err := NewPolynomial(coefficients, domain)
	if err != nil {
		panic(fmt.Sprintf("function.MustPolynomial: %s", err))
	}
	return p
}

func (p Polynomial) Domain() interval.Range { return p.domain }

// Coefficients returns a copy of the coefficients.
func (p Polynomial) Coefficients() []float64 { return append([]float64(nil), p.coefficients...) }

// Degree returns the number of coefficients minus one.
func (p Polynomial) Degree() int { return len(p.coefficients) - 1 }

func (p Polynomial) ValueUnbounded(x float64) (float64, error) {
	return horner(p.coefficients, x), nil
}

func (p Polynomial) SlopeUnbounded(x float64) (float64, error) {
	return horner(p.derivative, x), nil
}

func (p Polynomial) String() string {
	var sb strings.Builder
	for i, c := range p.coefficients {
		if i > 0 {
			sb.WriteString(" + ")
		}
		switch i {
		case 0:
			fmt.Fprintf(&sb, "%g", c)
		case 1:
			fmt.Fprintf(&sb, "%g·x", c)
		default:
			fmt.Fprintf(&sb, "%g·x^%d", c, i)
		}
	}
	return sb.String()
}

func horner(coefficients []float64, x float64) float64 {
	var acc float64
	for i := len(coefficients) - 1; i >= 0; i-- {
		acc = acc*x + coefficients[i]
	}
	return acc
}
