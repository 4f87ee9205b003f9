package brep

import (
	"errors"
	"fmt"

	"honnef.co/go/roadgeom"
	"honnef.co/go/roadgeom/curve3d"
	"honnef.co/go/roadgeom/function"
	"honnef.co/go/roadgeom/geom"
)

// Sweep is a cross-section swept along a curve, as used for repeated road
// objects such as guard rails, walls and markings. The cross-section at arc
// length s is a rectangle of width Width(s), centered on the curve, reaching
// Height(s) upwards. If Height is nil, the sweep is a flat strip.
//
// Offset and Base shift the cross-section's center to the left of and above
// the curve. Nil means 0.
type Sweep struct {
	Curve  curve3d.Curve
	Width  function.Univariate
	Height function.Univariate
	Offset function.Univariate
	Base   function.Univariate
	// Step is the discretization step along the curve.
	Step float64
	Tol  float64
}

func (sw *Sweep) Tolerance() float64 { return sw.Tol }

// crossSection returns the corners of the cross-section at s: right bottom,
// left bottom, left top and right top. As a loop, its normal points along
// the curve. Flat strips only have the bottom corners.
func (sw *Sweep) crossSection(s float64) ([]geom.Vec3, error) {
	tol := sw.Curve.Tolerance()
	w, err := function.ValueFuzzy(sw.Width, s, tol)
	if err != nil {
		return nil, err
	}
	var h float64
	if sw.Height != nil {
		h, err = function.ValueFuzzy(sw.Height, s, tol)
		if err != nil {
			return nil, err
		}
	}
	t, err := valueOrZero(sw.Offset, s, tol)
	if err != nil {
		return nil, err
	}
	b, err := valueOrZero(sw.Base, s, tol)
	if err != nil {
		return nil, err
	}
	offsets := [4][2]float64{{t - w/2, b}, {t + w/2, b}, {t + w/2, b + h}, {t - w/2, b + h}}
	n := 4
	if sw.Height == nil {
		n = 2
	}
	out := make([]geom.Vec3, n)
	for i := range n {
		out[i], err = sw.Curve.PointAtOffset(s, offsets[i][0], offsets[i][1])
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func valueOrZero(f function.Univariate, s, tol float64) (float64, error) {
	if f == nil {
		return 0, nil
	}
	return function.ValueFuzzy(f, s, tol)
}

// quad returns the quadrilateral as one polygon, or as two triangles if it
// isn't planar within tolerance.
func (sw *Sweep) quad(a, b, c, d geom.Vec3) ([]Polygon3D, error) {
	p, err := NewPolygon3D([]geom.Vec3{a, b, c, d}, sw.Tol)
	if err == nil {
		return []Polygon3D{p}, nil
	}
	t1, err1 := NewPolygon3D([]geom.Vec3{a, b, c}, sw.Tol)
	t2, err2 := NewPolygon3D([]geom.Vec3{a, c, d}, sw.Tol)
	if err := errors.Join(err1, err2); err != nil {
		return nil, err
	}
	return []Polygon3D{t1, t2}, nil
}

func (sw *Sweep) GlobalPolygons() ([]Polygon3D, error) {
	if sw.Width == nil {
		return nil, &GenerationError{Reason: "sweep has no width"}
	}
	if !(sw.Step > 0) {
		return nil, &GenerationError{Reason: fmt.Sprintf("invalid step size %g", sw.Step)}
	}

	var rings [][]geom.Vec3
	for s := range curve3d.Parameters(sw.Curve.Domain(), sw.Step) {
		ring, err := sw.crossSection(s)
		if err != nil {
			return nil, generationErrorf(err, "sweep cross-section at %g", s)
		}
		rings = append(rings, ring)
	}
	if len(rings) < 2 {
		return nil, &GenerationError{Reason: "sweep along a curve of zero length", Err: roadgeom.ErrDegenerate}
	}

	var polys []Polygon3D
	for i := 0; i+1 < len(rings); i++ {
		r0, r1 := rings[i], rings[i+1]
		if len(r0) == 2 {
			// Flat strips face up.
			ps, err := sw.quad(r0[0], r1[0], r1[1], r0[1])
			if err != nil {
				return nil, generationErrorf(err, "sweep strip at step %d", i)
			}
			polys = append(polys, ps...)
			continue
		}
		for j := range r0 {
			k := (j + 1) % len(r0)
			ps, err := sw.quad(r0[j], r0[k], r1[k], r1[j])
			if err != nil {
				return nil, generationErrorf(err, "sweep face %d at step %d", j, i)
			}
			polys = append(polys, ps...)
		}
	}

	if len(rings[0]) == 4 {
		start, err := NewPolygon3D(rings[0], sw.Tol)
		if err != nil {
			return nil, generationErrorf(err, "sweep start cap")
		}
		end, err := NewPolygon3D(rings[len(rings)-1], sw.Tol)
		if err != nil {
			return nil, generationErrorf(err, "sweep end cap")
		}
		polys = append(polys, start.Reversed(), end)
	}
	return polys, nil
}
