package function

import (
	"math"
	"slices"

	"honnef.co/go/roadgeom"
	"honnef.co/go/roadgeom/interval"
)

// Bivariate is a function of two real parameters.
type Bivariate interface {
	DomainX() interval.Range
	DomainY() interval.Range
	// ValueUnbounded evaluates the function without checking the domain.
	ValueUnbounded(x, y float64) (float64, error)
}

// Value2 evaluates f at (x, y), checking both domains.
func Value2(f Bivariate, x, y float64) (float64, error) {
	if !f.DomainX().Contains(x) {
		return math.NaN(), &roadgeom.DomainError{Parameter: x, Domain: f.DomainX()}
	}
	if !f.DomainY().Contains(y) {
		return math.NaN(), &roadgeom.DomainError{Parameter: y, Domain: f.DomainY()}
	}
	return f.ValueUnbounded(x, y)
}

// Value2Fuzzy is like [Value2] but accepts parameters within tol of the
// domains.
func Value2Fuzzy(f Bivariate, x, y, tol float64) (float64, error) {
	if !f.DomainX().FuzzyContains(x, tol) {
		return math.NaN(), &roadgeom.DomainError{Parameter: x, Domain: f.DomainX()}
	}
	if !f.DomainY().FuzzyContains(y, tol) {
		return math.NaN(), &roadgeom.DomainError{Parameter: y, Domain: f.DomainY()}
	}
	if s, ok := f.(*Shape); ok {
		return s.value(x, y, tol)
	}
	return f.ValueUnbounded(x, y)
}

// Plane is the function f(x, y) = Intercept + SlopeX·x + SlopeY·y over the
// whole plane.
type Plane struct {
	Intercept float64
	SlopeX    float64
	SlopeY    float64
}

var _ Bivariate = Plane{}

func (Plane) DomainX() interval.Range { return interval.All() }
func (Plane) DomainY() interval.Range { return interval.All() }

func (p Plane) ValueUnbounded(x, y float64) (float64, error) {
	return p.Intercept + p.SlopeX*x + p.SlopeY*y, nil
}

// Shape is a bivariate function described by cross sections: at each stored
// x, a univariate function of y. Between stored cross sections, the values
// of the two neighbouring cross sections are linearly interpolated.
//
// In road terms, x is the position along the reference line, y the lateral
// position and the result the height of the lateral profile.
type Shape struct {
	xs       []float64
	sections []Univariate

	extrapolateX bool
	extrapolateY bool
}

var _ Bivariate = (*Shape)(nil)

// ShapeOptions controls how a [Shape] treats parameters outside of its
// cross sections.
type ShapeOptions struct {
	// ExtrapolateX clamps x to the first or last cross section instead of
	// failing.
	ExtrapolateX bool
	// ExtrapolateY clamps y to the domain of each cross section's function
	// instead of failing.
	ExtrapolateY bool
}

// NewShape returns the shape with cross sections sections[i] at xs[i]. The
// positions have to be finite and strictly increasing.
func NewShape(xs []float64, sections []Univariate, opts ShapeOptions) (*Shape, error) {
	if len(xs) == 0 {
		return nil, roadgeom.Invariantf("shape needs at least one cross section")
	}
	if len(xs) != len(sections) {
		return nil, roadgeom.Invariantf("got %d positions but %d cross sections", len(xs), len(sections))
	}
	if err := checkStrictlyIncreasing(xs); err != nil {
		return nil, err
	}
	return &Shape{
		xs:           slices.Clone(xs),
		sections:     slices.Clone(sections),
		extrapolateX: opts.ExtrapolateX,
		extrapolateY: opts.ExtrapolateY,
	}, nil
}

// DomainX returns the range between the first and last cross section, or
// (-∞, ∞) if x is extrapolated.
func (s *Shape) DomainX() interval.Range {
	if s.extrapolateX {
		return interval.All()
	}
	return interval.Closed(s.xs[0], s.xs[len(s.xs)-1])
}

// DomainY returns the span of the cross sections' domains, or (-∞, ∞) if y
// is extrapolated.
func (s *Shape) DomainY() interval.Range {
	if s.extrapolateY {
		return interval.All()
	}
	domains := make([]interval.Range, len(s.sections))
	for i, f := range s.sections {
		domains[i] = f.Domain()
	}
	return interval.Span(domains...)
}

func (s *Shape) ValueUnbounded(x, y float64) (float64, error) {
	return s.value(x, y, 0)
}

func (s *Shape) value(x, y, tol float64) (float64, error) {
	first, last := s.xs[0], s.xs[len(s.xs)-1]
	if (x < first-tol || x > last+tol) && !s.extrapolateX {
		return math.NaN(), &roadgeom.DomainError{Parameter: x, Domain: interval.Closed(first, last)}
	}
	x = min(max(x, first), last)

	i, exact := slices.BinarySearch(s.xs, x)
	if exact {
		return s.section(i, y, tol)
	}
	// s.xs[i-1] < x < s.xs[i]
	z0, err := s.section(i-1, y, tol)
	if err != nil {
		return math.NaN(), err
	}
	z1, err := s.section(i, y, tol)
	if err != nil {
		return math.NaN(), err
	}
	t := (x - s.xs[i-1]) / (s.xs[i] - s.xs[i-1])
	return z0 + t*(z1-z0), nil
}

func (s *Shape) section(i int, y, tol float64) (float64, error) {
	f := s.sections[i]
	if s.extrapolateY {
		d := f.Domain()
		if lo, ok := d.Lower(); ok && y < lo {
			y = lo
		}
		if hi, ok := d.Upper(); ok && y > hi {
			y = hi
		}
		// clamping to an open bound still lands outside; resolve fuzzily
		return ValueFuzzy(f, y, max(tol, DefaultTolerance))
	}
	return ValueFuzzy(f, y, tol)
}
