package function

import (
	"errors"
	"math"
	"slices"

	"honnef.co/go/roadgeom"
	"honnef.co/go/roadgeom/concat"
	"honnef.co/go/roadgeom/interval"
)

// DefaultTolerance is used by the concatenation constructors if no tolerance
// is given.
const DefaultTolerance = 1e-7

// Concatenated is a piecewise function whose pieces are placed end-to-end.
type Concatenated struct {
	container *concat.Container[Univariate]
}

var _ Differentiable = (*Concatenated)(nil)

// NewConcatenated places member i at absolute start starts[i]. Member i is
// evaluated with the parameter relative to its start. See [concat.New] for the
// invariants that members and starts have to satisfy.
func NewConcatenated(members []Univariate, starts []float64, tol float64) (*Concatenated, error) {
	c, err := concat.New(members, starts, tol)
	if err != nil {
		return nil, err
	}
	return &Concatenated{container: c}, nil
}

// ConcatOptions controls the open ends of concatenations built by
// [ConcatenatedOfLinear] and [ConcatenatedOfPolynomials].
type ConcatOptions struct {
	// PrependConstant extends the function to (-∞, first start) with the
	// value at the first start.
	PrependConstant bool
	// AppendConstant extends the function to [last end, ∞) with the value at
	// the last end. For polynomials, End must be set.
	AppendConstant bool
	// End is the nominal end of the last polynomial. It is only used by
	// [ConcatenatedOfPolynomials] together with AppendConstant.
	End float64
	// Tolerance is used for fuzzy evaluation and for validating the
	// placement. If it is zero, DefaultTolerance is used.
	Tolerance float64
}

func (opts ConcatOptions) tolerance() float64 {
	if opts.Tolerance == 0 {
		return DefaultTolerance
	}
	return opts.Tolerance
}

// ConcatenatedOfLinear returns the function that linearly interpolates
// between consecutive (starts[i], intercepts[i]) pairs. The result is
// continuous by construction: the slope of piece i is derived from the
// intercepts of piece i and i+1. Without AppendConstant, the function ends at
// the last start.
//
// Starts must be strictly increasing.
func ConcatenatedOfLinear(starts, intercepts []float64, opts ConcatOptions) (*Concatenated, error) {
	if len(starts) != len(intercepts) {
		return nil, roadgeom.Invariantf("got %d starts but %d intercepts", len(starts), len(intercepts))
	}
	if len(starts) == 0 {
		return nil, roadgeom.Invariantf("linear concatenation needs at least one intercept")
	}
	if len(starts) == 1 && !opts.PrependConstant && !opts.AppendConstant {
		return nil, roadgeom.Invariantf("linear concatenation of a single intercept needs a constant extension")
	}
	if err := checkStrictlyIncreasing(starts); err != nil {
		return nil, err
	}
	for i, c := range intercepts {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, roadgeom.Degeneratef("intercept %d is %g", i, c)
		}
	}

	var members []Univariate
	var absStarts []float64
	if opts.PrependConstant {
		members = append(members, Constant{C: intercepts[0], D: interval.LessThan(0)})
		absStarts = append(absStarts, starts[0])
	}
	n := len(starts)
	for i := 0; i < n-1; i++ {
		length := starts[i+1] - starts[i]
		domain := interval.ClosedOpen(0, length)
		if i == n-2 && !opts.AppendConstant {
			domain = interval.Closed(0, length)
		}
		l, err := LinearThrough(0, intercepts[i], length, intercepts[i+1], domain)
		if err != nil {
			return nil, err
		}
		members = append(members, l)
		absStarts = append(absStarts, starts[i])
	}
	if opts.AppendConstant {
		members = append(members, Constant{C: intercepts[n-1], D: interval.AtLeast(0)})
		absStarts = append(absStarts, starts[n-1])
	} else if n == 1 {
		// only a prepended constant; close it at the single start
		members[0] = Constant{C: intercepts[0], D: interval.AtMost(0)}
	}
	return NewConcatenated(members, absStarts, opts.tolerance())
}

// ConcatenatedOfPolynomials returns the piecewise polynomial whose piece i
// starts at starts[i] and is evaluated relative to it. The pieces are taken
// as is; there is no forced continuity. The last polynomial extends to +∞,
// unless AppendConstant is set, in which case it ends at End and is followed
// by its value at End.
//
// Starts must be strictly increasing.
func ConcatenatedOfPolynomials(starts []float64, coefficients [][]float64, opts ConcatOptions) (*Concatenated, error) {
	if len(starts) != len(coefficients) {
		return nil, roadgeom.Invariantf("got %d starts but %d coefficient lists", len(starts), len(coefficients))
	}
	if len(starts) == 0 {
		return nil, roadgeom.Invariantf("polynomial concatenation needs at least one polynomial")
	}
	if err := checkStrictlyIncreasing(starts); err != nil {
		return nil, err
	}
	n := len(starts)
	if opts.AppendConstant && !(opts.End > starts[n-1]) {
		return nil, roadgeom.Invariantf("end %g must lie after the last start %g", opts.End, starts[n-1])
	}

	var members []Univariate
	var absStarts []float64
	for i := range n {
		var domain interval.Range
		switch {
		case i < n-1:
			domain = interval.ClosedOpen(0, starts[i+1]-starts[i])
		case opts.AppendConstant:
			domain = interval.ClosedOpen(0, opts.End-starts[i])
		default:
			domain = interval.AtLeast(0)
		}
		p, err := NewPolynomial(coefficients[i], domain)
		if err != nil {
			return nil, err
		}
		members = append(members, p)
		absStarts = append(absStarts, starts[i])
	}
	if opts.PrependConstant {
		// The pieces are validated, so the first one has a value at 0.
		first, _ := members[0].ValueUnbounded(0)
		members = slices.Insert(members, 0, Univariate(Constant{C: first, D: interval.LessThan(0)}))
		absStarts = slices.Insert(absStarts, 0, starts[0])
	}
	if opts.AppendConstant {
		last := members[len(members)-1].(Polynomial)
		v, _ := last.ValueUnbounded(opts.End - starts[n-1])
		members = append(members, Constant{C: v, D: interval.AtLeast(0)})
		absStarts = append(absStarts, opts.End)
	}
	return NewConcatenated(members, absStarts, opts.tolerance())
}

func checkStrictlyIncreasing(starts []float64) error {
	for i, s := range starts {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return roadgeom.Invariantf("start %d is not finite", i)
		}
		if i > 0 && !(s > starts[i-1]) {
			return roadgeom.Invariantf("starts aren't strictly increasing at index %d (%g after %g)", i, s, starts[i-1])
		}
	}
	return nil
}

func (c *Concatenated) Domain() interval.Range { return c.container.Domain() }

// Tolerance returns the tolerance used for fuzzy member selection.
func (c *Concatenated) Tolerance() float64 { return c.container.Tolerance() }

// Members returns the pieces in order.
func (c *Concatenated) Members() []Univariate { return c.container.Members() }

// Starts returns the absolute start of each piece.
func (c *Concatenated) Starts() []float64 { return c.container.AbsoluteStarts() }

func (c *Concatenated) ValueUnbounded(x float64) (float64, error) {
	sel, err := c.container.StrictSelect(x)
	if err != nil {
		return math.NaN(), err
	}
	return sel.Member.ValueUnbounded(sel.Local)
}

func (c *Concatenated) valueFuzzy(x, tol float64) (float64, error) {
	sel, err := c.container.FuzzySelect(x, tol)
	if err != nil {
		return math.NaN(), err
	}
	return sel.Member.ValueUnbounded(sel.Local)
}

func (c *Concatenated) SlopeUnbounded(x float64) (float64, error) {
	sel, err := c.container.StrictSelect(x)
	if err != nil {
		return math.NaN(), err
	}
	return slopeOf(sel.Member, sel.Local)
}

func (c *Concatenated) slopeFuzzy(x, tol float64) (float64, error) {
	sel, err := c.container.FuzzySelect(x, tol)
	if err != nil {
		return math.NaN(), err
	}
	return slopeOf(sel.Member, sel.Local)
}

var errNotDifferentiable = errors.New("function isn't differentiable")

func slopeOf(f Univariate, x float64) (float64, error) {
	d, ok := f.(Differentiable)
	if !ok {
		return math.NaN(), errNotDifferentiable
	}
	return d.SlopeUnbounded(x)
}
