package geom

import (
	"fmt"
	"math"
	"slices"
)

// Affine3 is an affine transform in space, consisting of a linear part M
// (row-major) followed by a translation T.
//
// As with [Affine2], (A * B) * v == A * (B * v).
type Affine3 struct {
	M [3][3]float64
	T Vec3
}

// Identity3 is the spatial identity transform.
var Identity3 = Affine3{M: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}

// Translate3 creates an affine transform representing translation.
func Translate3(v Vec3) Affine3 {
	aff := Identity3
	aff.T = v
	return aff
}

// Scale3 creates an affine transform representing non-uniform scaling.
func Scale3(x, y, z float64) Affine3 {
	return Affine3{M: [3][3]float64{{x, 0, 0}, {0, y, 0}, {0, 0, z}}}
}

// NewRotation3 creates an affine transform representing the rotation r.
func NewRotation3(r Rotation3) Affine3 {
	return Affine3{M: r.Matrix()}
}

// FromPose2 lifts a planar pose into space: a rotation about z by the
// heading and a translation to the point at height z.
func FromPose2(p Pose2, z float64) Affine3 {
	return NewRotation3(Rotation3{Heading: p.Heading}).ThenTranslate(p.Point.To3(z))
}

func (aff Affine3) String() string {
	return fmt.Sprintf("affine(%v, %s)", aff.M, aff.T)
}

func (aff Affine3) Mul(o Affine3) Affine3 {
	var out Affine3
	for i := range 3 {
		for j := range 3 {
			out.M[i][j] = aff.M[i][0]*o.M[0][j] + aff.M[i][1]*o.M[1][j] + aff.M[i][2]*o.M[2][j]
		}
	}
	out.T = o.T.TransformDirection(aff).Add(aff.T)
	return out
}

// ThenTranslate creates aff followed by a translation of v.
func (aff Affine3) ThenTranslate(v Vec3) Affine3 {
	aff.T = aff.T.Add(v)
	return aff
}

// PreTranslate creates a translation of v followed by aff.
func (aff Affine3) PreTranslate(v Vec3) Affine3 {
	return aff.Mul(Translate3(v))
}

// Determinant computes the determinant of the linear part.
func (aff Affine3) Determinant() float64 {
	m := aff.M
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Invert computes the inverse transform.
//
// Produces NaN or infinite values when the determinant is zero.
func (aff Affine3) Invert() Affine3 {
	m := aff.M
	invDet := 1 / aff.Determinant()
	var out Affine3
	out.M[0][0] = (m[1][1]*m[2][2] - m[1][2]*m[2][1]) * invDet
	out.M[0][1] = (m[0][2]*m[2][1] - m[0][1]*m[2][2]) * invDet
	out.M[0][2] = (m[0][1]*m[1][2] - m[0][2]*m[1][1]) * invDet
	out.M[1][0] = (m[1][2]*m[2][0] - m[1][0]*m[2][2]) * invDet
	out.M[1][1] = (m[0][0]*m[2][2] - m[0][2]*m[2][0]) * invDet
	out.M[1][2] = (m[0][2]*m[1][0] - m[0][0]*m[1][2]) * invDet
	out.M[2][0] = (m[1][0]*m[2][1] - m[1][1]*m[2][0]) * invDet
	out.M[2][1] = (m[0][1]*m[2][0] - m[0][0]*m[2][1]) * invDet
	out.M[2][2] = (m[0][0]*m[1][1] - m[0][1]*m[1][0]) * invDet
	out.T = aff.T.TransformDirection(out).Negate()
	return out
}

// Translation returns the translation component.
func (aff Affine3) Translation() Vec3 { return aff.T }

// IsNaN reports whether any coefficient is NaN.
func (aff Affine3) IsNaN() bool {
	for _, row := range aff.M {
		if slices.ContainsFunc(row[:], math.IsNaN) {
			return true
		}
	}
	return aff.T.IsNaN()
}

// Transform applies aff to the point v.
func (v Vec3) Transform(aff Affine3) Vec3 {
	return v.TransformDirection(aff).Add(aff.T)
}

// TransformDirection applies the linear part of aff to the vector v.
func (v Vec3) TransformDirection(aff Affine3) Vec3 {
	m := aff.M
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// TransformAll applies aff to each point.
func TransformAll(points []Vec3, aff Affine3) []Vec3 {
	out := make([]Vec3, len(points))
	for i, p := range points {
		out[i] = p.Transform(aff)
	}
	return out
}
