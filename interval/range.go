// Package interval implements ranges of real numbers whose endpoints can each
// be open, closed or absent.
//
// Ranges are values. The zero Range is (-∞, ∞).
package interval

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// BoundType describes one endpoint of a [Range].
type BoundType uint8

const (
	// Unbounded means that the range extends to infinity in that direction.
	Unbounded BoundType = iota
	// BoundOpen means that the endpoint is not part of the range.
	BoundOpen
	// BoundClosed means that the endpoint is part of the range.
	BoundClosed
)

func (bt BoundType) String() string {
	switch bt {
	case Unbounded:
		return "unbounded"
	case BoundOpen:
		return "open"
	case BoundClosed:
		return "closed"
	default:
		return "BoundType(" + strconv.Itoa(int(bt)) + ")"
	}
}

// Range is an interval of real numbers.
type Range struct {
	lo, hi         float64
	loType, hiType BoundType
}

// New returns the range with the given endpoints and bound types. Infinite
// endpoints are treated as unbounded, regardless of their bound type.
//
// New panics if an endpoint is NaN or if lo > hi with both endpoints bounded.
func New(lo float64, loType BoundType, hi float64, hiType BoundType) Range {
	if math.IsInf(lo, -1) {
		loType = Unbounded
	}
	if math.IsInf(hi, 1) {
		hiType = Unbounded
	}
	if loType == Unbounded {
		lo = 0
	}
	if hiType == Unbounded {
		hi = 0
	}
	if loType != Unbounded && (math.IsNaN(lo) || math.IsInf(lo, 1)) {
		panic(fmt.Sprintf("invalid lower endpoint %g", lo))
	}
	if hiType != Unbounded && (math.IsNaN(hi) || math.IsInf(hi, -1)) {
		panic(fmt.Sprintf("invalid upper endpoint %g", hi))
	}
	if loType != Unbounded && hiType != Unbounded && lo > hi {
		panic(fmt.Sprintf("lower endpoint %g is greater than upper endpoint %g", lo, hi))
	}
	return Range{lo: lo, hi: hi, loType: loType, hiType: hiType}
}

// All returns (-∞, ∞).
func All() Range { return Range{} }

// Closed returns [lo, hi].
func Closed(lo, hi float64) Range { return New(lo, BoundClosed, hi, BoundClosed) }

// Open returns (lo, hi).
func Open(lo, hi float64) Range { return New(lo, BoundOpen, hi, BoundOpen) }

// ClosedOpen returns [lo, hi).
func ClosedOpen(lo, hi float64) Range { return New(lo, BoundClosed, hi, BoundOpen) }

// OpenClosed returns (lo, hi].
func OpenClosed(lo, hi float64) Range { return New(lo, BoundOpen, hi, BoundClosed) }

// AtLeast returns [lo, ∞).
func AtLeast(lo float64) Range { return New(lo, BoundClosed, 0, Unbounded) }

// GreaterThan returns (lo, ∞).
func GreaterThan(lo float64) Range { return New(lo, BoundOpen, 0, Unbounded) }

// AtMost returns (-∞, hi].
func AtMost(hi float64) Range { return New(0, Unbounded, hi, BoundClosed) }

// LessThan returns (-∞, hi).
func LessThan(hi float64) Range { return New(0, Unbounded, hi, BoundOpen) }

// Singleton returns [v, v].
func Singleton(v float64) Range { return Closed(v, v) }

func (r Range) HasLowerBound() bool { return r.loType != Unbounded }
func (r Range) HasUpperBound() bool { return r.hiType != Unbounded }

// Lower returns the lower endpoint. The boolean is false if the range has no
// lower bound.
func (r Range) Lower() (float64, bool) { return r.lo, r.loType != Unbounded }

// Upper returns the upper endpoint. The boolean is false if the range has no
// upper bound.
func (r Range) Upper() (float64, bool) { return r.hi, r.hiType != Unbounded }

func (r Range) LowerType() BoundType { return r.loType }
func (r Range) UpperType() BoundType { return r.hiType }

// LowerOrInf returns the lower endpoint, or -∞ if there is none.
func (r Range) LowerOrInf() float64 {
	if r.loType == Unbounded {
		return math.Inf(-1)
	}
	return r.lo
}

// UpperOrInf returns the upper endpoint, or +∞ if there is none.
func (r Range) UpperOrInf() float64 {
	if r.hiType == Unbounded {
		return math.Inf(1)
	}
	return r.hi
}

// IsEmpty reports whether the range contains no values at all, such as [1, 1).
func (r Range) IsEmpty() bool {
	return r.loType != Unbounded && r.hiType != Unbounded &&
		r.lo == r.hi && (r.loType == BoundOpen || r.hiType == BoundOpen)
}

// Length returns the distance between the endpoints, or +∞ for ranges that
// aren't bounded on both ends.
func (r Range) Length() float64 {
	return r.UpperOrInf() - r.LowerOrInf()
}

// Contains reports whether v lies in the range.
func (r Range) Contains(v float64) bool {
	return r.FuzzyContains(v, 0)
}

// FuzzyContains reports whether v lies in the range after moving both
// endpoints outwards by tol.
func (r Range) FuzzyContains(v, tol float64) bool {
	if math.IsNaN(v) {
		return false
	}
	switch r.loType {
	case BoundClosed:
		if v < r.lo-tol {
			return false
		}
	case BoundOpen:
		if v <= r.lo-tol {
			return false
		}
	}
	switch r.hiType {
	case BoundClosed:
		if v > r.hi+tol {
			return false
		}
	case BoundOpen:
		if v >= r.hi+tol {
			return false
		}
	}
	return true
}

// Widen moves both bounded endpoints outwards by tol, keeping their bound
// types.
func (r Range) Widen(tol float64) Range {
	if r.loType != Unbounded {
		r.lo -= tol
	}
	if r.hiType != Unbounded {
		r.hi += tol
	}
	return r
}

// Encloses reports whether o is a subset of r.
func (r Range) Encloses(o Range) bool {
	return r.lowerBelowOrAt(o) && r.upperAboveOrAt(o)
}

// FuzzyEncloses reports whether o is a subset of r after widening r by tol.
func (r Range) FuzzyEncloses(o Range, tol float64) bool {
	return r.Widen(tol).Encloses(o)
}

func (r Range) lowerBelowOrAt(o Range) bool {
	switch {
	case r.loType == Unbounded:
		return true
	case o.loType == Unbounded:
		return false
	case r.lo != o.lo:
		return r.lo < o.lo
	default:
		return r.loType == BoundClosed || o.loType == BoundOpen
	}
}

func (r Range) upperAboveOrAt(o Range) bool {
	switch {
	case r.hiType == Unbounded:
		return true
	case o.hiType == Unbounded:
		return false
	case r.hi != o.hi:
		return r.hi > o.hi
	default:
		return r.hiType == BoundClosed || o.hiType == BoundOpen
	}
}

// Shift translates both endpoints by delta.
func (r Range) Shift(delta float64) Range {
	if r.loType != Unbounded {
		r.lo += delta
	}
	if r.hiType != Unbounded {
		r.hi += delta
	}
	return r
}

// Intersection returns the largest range enclosed by both r and o. The
// boolean is false if the ranges aren't connected.
func (r Range) Intersection(o Range) (Range, bool) {
	if !r.IsConnected(o) {
		return Range{}, false
	}
	out := r
	if r.lowerBelowOrAt(o) {
		out.lo, out.loType = o.lo, o.loType
	}
	if r.upperAboveOrAt(o) {
		out.hi, out.hiType = o.hi, o.hiType
	}
	return out, true
}

// Span returns the smallest range enclosing both r and o.
func (r Range) Span(o Range) Range {
	out := r
	if !r.lowerBelowOrAt(o) {
		out.lo, out.loType = o.lo, o.loType
	}
	if !r.upperAboveOrAt(o) {
		out.hi, out.hiType = o.hi, o.hiType
	}
	return out
}

// IsConnected reports whether there exists a (possibly empty) range enclosed
// by both r and o. [1, 3) and [3, 5] are connected, [1, 3) and (3, 5] are not.
func (r Range) IsConnected(o Range) bool {
	return lowerNotAboveUpper(r, o) && lowerNotAboveUpper(o, r)
}

// lowerNotAboveUpper reports whether a's lower bound lies at or below b's
// upper bound.
func lowerNotAboveUpper(a, b Range) bool {
	if a.loType == Unbounded || b.hiType == Unbounded {
		return true
	}
	if a.lo != b.hi {
		return a.lo < b.hi
	}
	return a.loType == BoundClosed || b.hiType == BoundClosed
}

func (r Range) String() string {
	var sb strings.Builder
	switch r.loType {
	case Unbounded:
		sb.WriteString("(-∞")
	case BoundOpen:
		fmt.Fprintf(&sb, "(%g", r.lo)
	case BoundClosed:
		fmt.Fprintf(&sb, "[%g", r.lo)
	}
	sb.WriteString(", ")
	switch r.hiType {
	case Unbounded:
		sb.WriteString("∞)")
	case BoundOpen:
		fmt.Fprintf(&sb, "%g)", r.hi)
	case BoundClosed:
		fmt.Fprintf(&sb, "%g]", r.hi)
	}
	return sb.String()
}

// Span returns the smallest range enclosing all ranges. It panics if no
// ranges are given.
func Span(ranges ...Range) Range {
	if len(ranges) == 0 {
		panic("span of no ranges")
	}
	out := ranges[0]
	for _, r := range ranges[1:] {
		out = out.Span(r)
	}
	return out
}

// Overlapping reports whether any two of the ranges intersect in more than a
// single point.
func Overlapping(ranges []Range) bool {
	for i := range ranges {
		for j := i + 1; j < len(ranges); j++ {
			x, ok := ranges[i].Intersection(ranges[j])
			if ok && !x.IsEmpty() && x.Length() > 0 {
				return true
			}
		}
	}
	return false
}

// Sorted reports whether the ranges are sorted by their lower bounds, with
// unbounded lower bounds first.
func Sorted(ranges []Range) bool {
	return slices.IsSortedFunc(ranges, compareLower)
}

// Connected reports whether the union of the ranges is itself a range, that
// is, whether there are no gaps between them. No ranges and a single range
// are trivially connected.
func Connected(ranges []Range) bool {
	if len(ranges) < 2 {
		return true
	}
	sorted := slices.Clone(ranges)
	slices.SortStableFunc(sorted, compareLower)
	union := sorted[0]
	for _, r := range sorted[1:] {
		if !union.IsConnected(r) {
			return false
		}
		union = union.Span(r)
	}
	return true
}

func compareLower(a, b Range) int {
	switch {
	case a.lowerBelowOrAt(b) && b.lowerBelowOrAt(a):
		return 0
	case a.lowerBelowOrAt(b):
		return -1
	default:
		return 1
	}
}
