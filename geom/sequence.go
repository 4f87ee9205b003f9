package geom

import "slices"

// AffineSequence is an ordered chain of nested coordinate frames, outermost
// first. A geometry defined in a lane frame that lives in a road frame that
// lives in the model frame carries the sequence (model←road, road←lane).
//
// The zero value is the empty sequence, which solves to the identity.
type AffineSequence struct {
	transforms []Affine3
}

// NewAffineSequence returns the sequence of the given transforms, outermost
// first.
func NewAffineSequence(transforms ...Affine3) AffineSequence {
	return AffineSequence{transforms: slices.Clone(transforms)}
}

// Len returns the number of transforms.
func (seq AffineSequence) Len() int { return len(seq.transforms) }

// Transforms returns a copy of the transforms, outermost first.
func (seq AffineSequence) Transforms() []Affine3 { return slices.Clone(seq.transforms) }

// Append returns the sequence with aff nested inside the innermost frame.
func (seq AffineSequence) Append(aff Affine3) AffineSequence {
	out := make([]Affine3, 0, len(seq.transforms)+1)
	out = append(out, seq.transforms...)
	return AffineSequence{transforms: append(out, aff)}
}

// Concat returns the sequence with inner nested inside the innermost frame of
// seq.
func (seq AffineSequence) Concat(inner AffineSequence) AffineSequence {
	out := make([]Affine3, 0, len(seq.transforms)+len(inner.transforms))
	out = append(out, seq.transforms...)
	return AffineSequence{transforms: append(out, inner.transforms...)}
}

// Solve composes the chain into a single transform. The innermost transform
// is applied first.
func (seq AffineSequence) Solve() Affine3 {
	out := Identity3
	for i := len(seq.transforms) - 1; i >= 0; i-- {
		out = seq.transforms[i].Mul(out)
	}
	return out
}

// Transform maps a point from the innermost frame to the outermost one.
func (seq AffineSequence) Transform(p Vec3) Vec3 {
	return p.Transform(seq.Solve())
}
