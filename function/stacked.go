package function

import (
	"math"

	"honnef.co/go/roadgeom"
	"honnef.co/go/roadgeom/interval"
)

// Reducer combines the values of stacked functions at one parameter.
type Reducer func(values []float64) float64

// Sum adds all values.
func Sum(values []float64) float64 {
	var acc float64
	for _, v := range values {
		acc += v
	}
	return acc
}

// Product multiplies all values.
func Product(values []float64) float64 {
	acc := 1.0
	for _, v := range values {
		acc *= v
	}
	return acc
}

// Stacked combines member functions pointwise.
//
// Without a default value, the domain is the intersection of the members'
// domains and every member has to be defined at an evaluated parameter. With
// a default value, the domain is the span of the members' domains and
// members that aren't defined at a parameter contribute the default value
// instead.
type Stacked struct {
	members    []Univariate
	reduce     Reducer
	hasDefault bool
	def        float64
	domain     interval.Range
}

var _ Univariate = (*Stacked)(nil)

// NewStacked returns the stacked function over the intersection of the
// members' domains. It returns an error wrapping [roadgeom.ErrInvariant] if
// there are no members or if the intersection is empty.
func NewStacked(members []Univariate, reduce Reducer) (*Stacked, error) {
	if len(members) == 0 {
		return nil, roadgeom.Invariantf("stacked function needs at least one member")
	}
	domain := members[0].Domain()
	for i, m := range members[1:] {
		x, ok := domain.Intersection(m.Domain())
		if !ok || x.IsEmpty() {
			return nil, roadgeom.Invariantf("domain of member %d doesn't intersect the domains of the previous members", i+1)
		}
		domain = x
	}
	return &Stacked{
		members: append([]Univariate(nil), members...),
		reduce:  reduce,
		domain:  domain,
	}, nil
}

// NewStackedWithDefault returns the stacked function over the span of the
// members' domains. The default value has to be finite.
func NewStackedWithDefault(members []Univariate, reduce Reducer, def float64) (*Stacked, error) {
	if len(members) == 0 {
		return nil, roadgeom.Invariantf("stacked function needs at least one member")
	}
	if math.IsNaN(def) || math.IsInf(def, 0) {
		return nil, roadgeom.Degeneratef("default value %g isn't finite", def)
	}
	domains := make([]interval.Range, len(members))
	for i, m := range members {
		domains[i] = m.Domain()
	}
	return &Stacked{
		members:    append([]Univariate(nil), members...),
		reduce:     reduce,
		hasDefault: true,
		def:        def,
		domain:     interval.Span(domains...),
	}, nil
}

// NewSum returns the stacked sum of the members over the intersection of their
// domains.
func NewSum(members ...Univariate) (*Stacked, error) {
	return NewStacked(members, Sum)
}

func (st *Stacked) Domain() interval.Range { return st.domain }

// Members returns the stacked functions.
func (st *Stacked) Members() []Univariate { return append([]Univariate(nil), st.members...) }

func (st *Stacked) ValueUnbounded(x float64) (float64, error) {
	return st.evaluate(x, func(f Univariate) (float64, error) { return Value(f, x) }, func(r interval.Range) bool { return r.Contains(x) })
}

func (st *Stacked) valueFuzzy(x, tol float64) (float64, error) {
	return st.evaluate(x, func(f Univariate) (float64, error) { return ValueFuzzy(f, x, tol) }, func(r interval.Range) bool { return r.FuzzyContains(x, tol) })
}

func (st *Stacked) evaluate(x float64, value func(Univariate) (float64, error), contains func(interval.Range) bool) (float64, error) {
	values := make([]float64, len(st.members))
	for i, m := range st.members {
		if st.hasDefault && !contains(m.Domain()) {
			values[i] = st.def
			continue
		}
		v, err := value(m)
		if err != nil {
			return math.NaN(), err
		}
		values[i] = v
	}
	return st.reduce(values), nil
}
