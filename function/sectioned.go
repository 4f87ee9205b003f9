package function

import (
	"math"

	"honnef.co/go/roadgeom"
	"honnef.co/go/roadgeom/interval"
)

// Sectioned is a sub-range of a complete function, re-based so that its
// domain starts at 0.
type Sectioned struct {
	complete Univariate
	offset   float64
	domain   interval.Range
}

var _ Differentiable = (*Sectioned)(nil)

// NewSectioned extracts section from f. The section must have a lower bound
// and must intersect f's domain; the result's domain is the intersection,
// shifted so that the section's lower bound maps to 0.
func NewSectioned(f Univariate, section interval.Range) (*Sectioned, error) {
	lo, ok := section.Lower()
	if !ok {
		return nil, roadgeom.Invariantf("section %s has no lower bound", section)
	}
	x, ok := f.Domain().Intersection(section)
	if !ok || x.IsEmpty() {
		return nil, roadgeom.Invariantf("section %s doesn't intersect domain %s", section, f.Domain())
	}
	return &Sectioned{
		complete: f,
		offset:   lo,
		domain:   x.Shift(-lo),
	}, nil
}

func (sf *Sectioned) Domain() interval.Range { return sf.domain }

// Offset returns the parameter of the complete function at which the
// section starts.
func (sf *Sectioned) Offset() float64 { return sf.offset }

func (sf *Sectioned) ValueUnbounded(x float64) (float64, error) {
	return sf.complete.ValueUnbounded(x + sf.offset)
}

func (sf *Sectioned) valueFuzzy(x, tol float64) (float64, error) {
	if !sf.domain.FuzzyContains(x, tol) {
		return math.NaN(), &roadgeom.DomainError{Parameter: x, Domain: sf.domain}
	}
	return ValueFuzzy(sf.complete, x+sf.offset, tol)
}

func (sf *Sectioned) SlopeUnbounded(x float64) (float64, error) {
	return slopeOf(sf.complete, x+sf.offset)
}
