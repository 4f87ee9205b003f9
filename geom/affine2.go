package geom

import (
	"math"
)

// Affine2 describes a planar affine transform via coefficients.
//
// If the coefficients are (a, b, c, d, e, f), then the resulting
// transformation represents this augmented matrix:
//
//	| a c e |
//	| b d f |
//	| 0 0 1 |
//
// The convention is that (A * B) * v == A * (B * v).
type Affine2 struct {
	// Affine2 is a struct instead of an array so that the compiler can keep
	// the coefficients in registers.

	N0, N1, N2, N3, N4, N5 float64
}

// Identity2 is the planar identity transform.
var Identity2 = Affine2{1, 0, 0, 1, 0, 0}

// Scale creates an affine transform representing non-uniform scaling with
// different scale values for x and y
func Scale(x, y float64) Affine2 {
	return Affine2{x, 0, 0, y, 0, 0}
}

// Translate creates an affine transform representing translation.
func Translate(v Vec2) Affine2 {
	return Affine2{1, 0, 0, 1, v.X, v.Y}
}

// Rotate creates an affine transform representing rotation.
//
// A positive angle rotates the positive x direction into positive y, that
// is, counterclockwise in the y-up frames used for road geometry.
//
// The angle th is expressed in radians.
func Rotate(th float64) Affine2 {
	sin, cos := math.Sincos(th)
	return Affine2{cos, sin, -sin, cos, 0, 0}
}

// RotateAbout creates an affine transform representing a rotation of th radians
// about center.
func RotateAbout(th float64, center Vec2) Affine2 {
	return Translate(center.Negate()).ThenRotate(th).ThenTranslate(center)
}

// Coefficients returns the the coefficients of the transform.
func (aff Affine2) Coefficients() [6]float64 {
	return [6]float64{aff.N0, aff.N1, aff.N2, aff.N3, aff.N4, aff.N5}
}

func (aff Affine2) Mul(o Affine2) Affine2 {
	return Affine2{
		aff.N0*o.N0 + aff.N2*o.N1,
		aff.N1*o.N0 + aff.N3*o.N1,
		aff.N0*o.N2 + aff.N2*o.N3,
		aff.N1*o.N2 + aff.N3*o.N3,
		aff.N0*o.N4 + aff.N2*o.N5 + aff.N4,
		aff.N1*o.N4 + aff.N3*o.N5 + aff.N5,
	}
}

// ThenRotate creates aff followed by a rotation of th.
//
// Equivalent to "Rotate(th) * aff"
func (aff Affine2) ThenRotate(th float64) Affine2 {
	return Rotate(th).Mul(aff)
}

// PreRotate creates a rotation by th followed by aff.
//
// Equivalent to "aff * Rotate(th)"
func (aff Affine2) PreRotate(th float64) Affine2 {
	return aff.Mul(Rotate(th))
}

// ThenTranslate creates aff followed by a translation of v.
//
// Equivalent to "Translate(v) * aff"
func (aff Affine2) ThenTranslate(v Vec2) Affine2 {
	aff.N4 += v.X
	aff.N5 += v.Y
	return aff
}

// PreTranslate creates a translation of v followed by aff.
//
// Equivalent to "aff * Translate(v)"
func (aff Affine2) PreTranslate(v Vec2) Affine2 {
	return aff.Mul(Translate(v))
}

// Determinant computes the determinant.
func (aff Affine2) Determinant() float64 {
	return aff.N0*aff.N3 - aff.N1*aff.N2
}

// Invert computes the inverse transform.
//
// Produces NaN values when the determinant is zero.
func (aff Affine2) Invert() Affine2 {
	invDet := 1 / aff.Determinant()
	return Affine2{
		+invDet * aff.N3,
		-invDet * aff.N1,
		-invDet * aff.N2,
		+invDet * aff.N0,
		+invDet * (aff.N2*aff.N5 - aff.N3*aff.N4),
		+invDet * (aff.N1*aff.N4 - aff.N0*aff.N5),
	}
}

// Translation returns the translation component of this affine transformation.
func (aff Affine2) Translation() Vec2 {
	return Vec2{
		X: aff.N4,
		Y: aff.N5,
	}
}

// RotationAngle returns the angle by which the transform rotates the x axis.
func (aff Affine2) RotationAngle() float64 {
	return math.Atan2(aff.N1, aff.N0)
}

func (aff Affine2) IsNaN() bool {
	return math.IsNaN(aff.N0) ||
		math.IsNaN(aff.N1) ||
		math.IsNaN(aff.N2) ||
		math.IsNaN(aff.N3) ||
		math.IsNaN(aff.N4) ||
		math.IsNaN(aff.N5)
}

// Transform applies aff to the point v.
func (v Vec2) Transform(aff Affine2) Vec2 {
	return Vec2{
		X: aff.N0*v.X + aff.N2*v.Y + aff.N4,
		Y: aff.N1*v.X + aff.N3*v.Y + aff.N5,
	}
}

// TransformDirection applies the linear part of aff to the vector v,
// ignoring the translation.
func (v Vec2) TransformDirection(aff Affine2) Vec2 {
	return Vec2{
		X: aff.N0*v.X + aff.N2*v.Y,
		Y: aff.N1*v.X + aff.N3*v.Y,
	}
}
