// Package concat places domain-restricted members end-to-end on an absolute
// axis and resolves absolute parameters to a member and a local parameter.
//
// A road attribute such as the elevation profile is described as a list of
// segments, each valid from its start parameter until the start of the next
// one. The nominal end of one segment and the start of the next are expected
// to coincide, but after decoding they often differ by a few units in the last
// place. [Container.FuzzySelect] absorbs those differences while
// [Container.StrictSelect] keeps the exact semantics.
package concat

import (
	"errors"
	"fmt"
	"math"

	"honnef.co/go/roadgeom"
	"honnef.co/go/roadgeom/interval"
)

// Member is anything with a local domain.
type Member interface {
	Domain() interval.Range
}

// Container is an immutable sequence of members placed at absolute starts.
type Container[T Member] struct {
	members         []T
	absoluteStarts  []float64
	absoluteDomains []interval.Range
	tolerance       float64
}

// Selection is the result of resolving an absolute parameter.
type Selection[T Member] struct {
	Index  int
	Member T
	// Local is the parameter relative to the member's absolute start.
	Local float64
}

// New places member i at absoluteStarts[i]. Member i is responsible for the
// absolute range [absoluteStarts[i], absoluteStarts[i+1]). The first member's
// lower bound and the last member's upper bound are taken from the members'
// own domains, which allows the first member to reach to -∞ and the last one
// to +∞.
//
// New returns an error wrapping [roadgeom.ErrInvariant] if the starts aren't
// sorted, if any absolute domain is empty, if the absolute domains overlap or
// leave gaps, or if a member's domain doesn't enclose its absolute domain
// within tolerance.
func New[T Member](members []T, absoluteStarts []float64, tolerance float64) (*Container[T], error) {
	if len(members) == 0 {
		return nil, roadgeom.Invariantf("container needs at least one member")
	}
	if len(members) != len(absoluteStarts) {
		return nil, roadgeom.Invariantf("got %d members but %d starts", len(members), len(absoluteStarts))
	}
	if tolerance < 0 || math.IsNaN(tolerance) {
		return nil, roadgeom.Invariantf("invalid tolerance %g", tolerance)
	}
	for i, s := range absoluteStarts {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, roadgeom.Invariantf("start %d is not finite", i)
		}
		if i > 0 && s < absoluteStarts[i-1] {
			return nil, roadgeom.Invariantf("starts aren't sorted: start %d (%g) is below start %d (%g)", i, s, i-1, absoluteStarts[i-1])
		}
	}

	n := len(members)
	domains := make([]interval.Range, n)
	for i, m := range members {
		shifted := m.Domain().Shift(absoluteStarts[i])

		lo, loType := absoluteStarts[i], interval.BoundClosed
		if i == 0 {
			lo, _ = shifted.Lower()
			loType = shifted.LowerType()
		}
		hi, hiType := 0.0, interval.BoundOpen
		if i < n-1 {
			hi = absoluteStarts[i+1]
		} else {
			hi, _ = shifted.Upper()
			hiType = shifted.UpperType()
		}
		if loType != interval.Unbounded && hiType != interval.Unbounded && lo > hi {
			return nil, roadgeom.Invariantf("member %d ends before it starts", i)
		}

		abs := interval.New(lo, loType, hi, hiType)
		if abs.IsEmpty() {
			return nil, roadgeom.Invariantf("member %d has an empty absolute domain %s", i, abs)
		}
		if !shifted.FuzzyEncloses(abs, tolerance) {
			return nil, roadgeom.Invariantf("member %d with domain %s doesn't cover its absolute domain %s", i, shifted, abs)
		}
		domains[i] = abs
	}

	if !interval.Sorted(domains) {
		return nil, roadgeom.Invariantf("absolute domains aren't sorted")
	}
	if interval.Overlapping(domains) {
		return nil, roadgeom.Invariantf("absolute domains overlap")
	}
	if !interval.Connected(domains) {
		return nil, roadgeom.Invariantf("absolute domains aren't connected")
	}

	return &Container[T]{
		members:         append([]T(nil), members...),
		absoluteStarts:  append([]float64(nil), absoluteStarts...),
		absoluteDomains: domains,
		tolerance:       tolerance,
	}, nil
}

// Must is like [New] but panics on error.
func Must[T Member](members []T, absoluteStarts []float64, tolerance float64) *Container[T] {
	c, err := New(members, absoluteStarts, tolerance)
	if err != nil {
		panic(fmt.Sprintf("concat.Must: %s", err))
	}
	return c
}

func (c *Container[T]) Len() int { return len(c.members) }

func (c *Container[T]) Tolerance() float64 { return c.tolerance }

// Members returns a copy of the members.
func (c *Container[T]) Members() []T { return append([]T(nil), c.members...) }

// AbsoluteStarts returns a copy of the absolute starts.
func (c *Container[T]) AbsoluteStarts() []float64 { return append([]float64(nil), c.absoluteStarts...) }

// AbsoluteDomains returns a copy of the absolute domains.
func (c *Container[T]) AbsoluteDomains() []interval.Range {
	return append([]interval.Range(nil), c.absoluteDomains...)
}

// Domain returns the span of all absolute domains.
func (c *Container[T]) Domain() interval.Range {
	return interval.Span(c.absoluteDomains...)
}

// StrictSelect returns the member whose absolute domain contains p.
func (c *Container[T]) StrictSelect(p float64) (Selection[T], error) {
	return c.selectBy(p, func(r interval.Range) bool { return r.Contains(p) })
}

// FuzzySelect is like [Container.StrictSelect], but falls back to tolerant
// containment if no member contains p exactly.
func (c *Container[T]) FuzzySelect(p, tol float64) (Selection[T], error) {
	sel, err := c.StrictSelect(p)
	if err == nil {
		return sel, nil
	}
	if !errors.Is(err, roadgeom.ErrDomain) {
		return sel, err
	}
	return c.selectBy(p, func(r interval.Range) bool { return r.FuzzyContains(p, tol) })
}

func (c *Container[T]) selectBy(p float64, contains func(interval.Range) bool) (Selection[T], error) {
	found := -1
	var ambiguous []int
	for i, r := range c.absoluteDomains {
		if !contains(r) {
			continue
		}
		if found == -1 {
			found = i
			continue
		}
		if ambiguous == nil {
			ambiguous = []int{found}
		}
		ambiguous = append(ambiguous, i)
	}

	switch {
	case found == -1:
		return Selection[T]{}, &roadgeom.DomainError{Parameter: p, Domain: c.Domain()}
	case ambiguous != nil:
		return Selection[T]{}, &roadgeom.AmbiguousError{Parameter: p, Members: ambiguous}
	default:
		return Selection[T]{
			Index:  found,
			Member: c.members[found],
			Local:  p - c.absoluteStarts[found],
		}, nil
	}
}
