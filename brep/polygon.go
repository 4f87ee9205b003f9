// Package brep implements boundary representations: planar polygons in
// space and the surfaces of road objects built from them.
package brep

import (
	"fmt"
	"math"
	"slices"

	"honnef.co/go/roadgeom"
	"honnef.co/go/roadgeom/geom"

	"gonum.org/v1/gonum/mat"
)

// Polygon3D is a planar polygon in space, defined in a local frame that is
// placed by an affine sequence. Its vertices are implicitly closed; the last
// vertex connects to the first.
type Polygon3D struct {
	vertices  []geom.Vec3
	tolerance float64
	frames    geom.AffineSequence
}

// NewPolygon3D validates and returns a polygon. It returns an error wrapping
// [roadgeom.ErrInvariant], checking in this order, if there are fewer than
// three vertices, if two consecutive vertices coincide within tolerance, if
// the vertices don't span a plane or if they don't all lie in one plane
// within tolerance.
//
// The polygon is defined in the innermost frame of frames.
func NewPolygon3D(vertices []geom.Vec3, tolerance float64, frames ...geom.Affine3) (Polygon3D, error) {
	if err := validate(vertices, tolerance); err != nil {
		return Polygon3D{}, err
	}
	return Polygon3D{
		vertices:  slices.Clone(vertices),
		tolerance: tolerance,
		frames:    geom.NewAffineSequence(frames...),
	}, nil
}

// MustPolygon3D is like [NewPolygon3D] but panics on error.
func MustPolygon3D(vertices []geom.Vec3, tolerance float64, frames ...geom.Affine3) Polygon3D {
	p, err := NewPolygon3D(vertices, tolerance, frames...)
	if err != nil {
		panic(err)
	}
	return p
}

func validate(vertices []geom.Vec3, tol float64) error {
	if len(vertices) < 3 {
		return roadgeom.Invariantf("polygon needs at least 3 vertices, got %d", len(vertices))
	}
	for i, v := range vertices {
		if v.IsNaN() || v.IsInf() {
			return roadgeom.Invariantf("vertex %d is not finite: %s", i, v)
		}
	}
	for i, v := range vertices {
		j := (i + 1) % len(vertices)
		if v.FuzzyEquals(vertices[j], tol) {
			return roadgeom.Invariantf("vertices %d and %d coincide at %s", i, j, v)
		}
	}
	if r := rank(vertices, tol); r < 2 {
		return roadgeom.Invariantf("vertices span %d dimensions, need 2", r)
	}
	n, err := newellNormal(vertices).Normalize()
	if err != nil {
		return roadgeom.Invariantf("polygon has no area: %s", err)
	}
	c := geom.Centroid(vertices)
	for i, v := range vertices {
		if d := math.Abs(n.Dot(v.Sub(c))); d > tol {
			return roadgeom.Invariantf("vertex %d is %g off the polygon's plane", i, d)
		}
	}
	return nil
}

// rank returns the number of dimensions spanned by the differences of the
// vertices to the first vertex.
func rank(vertices []geom.Vec3, tol float64) int {
	base := vertices[0]
	m := mat.NewDense(len(vertices)-1, 3, nil)
	for i, v := range vertices[1:] {
		d := v.Sub(base)
		m.SetRow(i, []float64{d.X, d.Y, d.Z})
	}
	var svd mat.SVD
	if !svd.Factorize(m, mat.SVDNone) {
		return 0
	}
	r := 0
	for _, sv := range svd.Values(nil) {
		if sv > tol {
			r++
		}
	}
	return r
}

// newellNormal returns the area-weighted normal of the vertex loop.
func newellNormal(vertices []geom.Vec3) geom.Vec3 {
	var n geom.Vec3
	for i, a := range vertices {
		b := vertices[(i+1)%len(vertices)]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n
}

func (p Polygon3D) String() string {
	return fmt.Sprintf("polygon%v", p.vertices)
}

// Vertices returns the vertices in the polygon's local frame.
func (p Polygon3D) Vertices() []geom.Vec3 { return slices.Clone(p.vertices) }

// Tolerance returns the distance tolerance the polygon was validated with.
func (p Polygon3D) Tolerance() float64 { return p.tolerance }

// Frames returns the frames the polygon is defined in.
func (p Polygon3D) Frames() geom.AffineSequence { return p.frames }

// Normal returns the unit normal of the polygon in its local frame. Its
// orientation follows the right-hand rule over the vertex order.
func (p Polygon3D) Normal() (geom.Vec3, error) {
	return newellNormal(p.vertices).Normalize()
}

// Transform applies aff to the vertices. The result is validated again, as
// a singular transform may collapse the polygon.
func (p Polygon3D) Transform(aff geom.Affine3) (Polygon3D, error) {
	return NewPolygon3D(geom.TransformAll(p.vertices, aff), p.tolerance, p.frames.Transforms()...)
}

// Global resolves the polygon's frames, returning the same polygon in the
// outermost frame.
func (p Polygon3D) Global() (Polygon3D, error) {
	if p.frames.Len() == 0 {
		return p, nil
	}
	return NewPolygon3D(geom.TransformAll(p.vertices, p.frames.Solve()), p.tolerance)
}

// Reversed returns the polygon with the opposite vertex order, flipping its
// normal.
func (p Polygon3D) Reversed() Polygon3D {
	vs := slices.Clone(p.vertices)
	slices.Reverse(vs)
	p.vertices = vs
	return p
}

// Within returns the polygon nested in the additional outer frames, given
// outermost first.
func (p Polygon3D) Within(outer ...geom.Affine3) Polygon3D {
	p.frames = geom.NewAffineSequence(outer...).Concat(p.frames)
	return p
}
