// Package curve3d lifts planar reference curves into space with a height
// function and a torsion (superelevation) function along the arc length.
package curve3d

import (
	"iter"
	"math"

	"honnef.co/go/roadgeom"
	"honnef.co/go/roadgeom/curve2d"
	"honnef.co/go/roadgeom/function"
	"honnef.co/go/roadgeom/geom"
	"honnef.co/go/roadgeom/interval"
)

// Curve is a curve in space: a planar curve, a height above the plane and a
// roll angle about the tangent, all parametrized by the planar arc length.
// It is immutable and safe for concurrent use.
type Curve struct {
	planar  curve2d.Curve
	height  function.Univariate
	torsion function.Univariate
}

// New combines a planar curve with height and torsion functions. A nil
// function is treated as constant 0. Both functions must cover the planar
// curve's domain within its tolerance.
func New(planar curve2d.Curve, height, torsion function.Univariate) (Curve, error) {
	if height == nil {
		height = function.Constant{}
	}
	if torsion == nil {
		torsion = function.Constant{}
	}
	tol := planar.Tolerance()
	if !height.Domain().FuzzyEncloses(planar.Domain(), tol) {
		return Curve{}, roadgeom.Invariantf("height domain %s doesn't cover curve domain %s", height.Domain(), planar.Domain())
	}
	if !torsion.Domain().FuzzyEncloses(planar.Domain(), tol) {
		return Curve{}, roadgeom.Invariantf("torsion domain %s doesn't cover curve domain %s", torsion.Domain(), planar.Domain())
	}
	return Curve{planar: planar, height: height, torsion: torsion}, nil
}

// Flat returns the curve at height 0 without torsion.
func Flat(planar curve2d.Curve) Curve {
	return Curve{planar: planar, height: function.Constant{}, torsion: function.Constant{}}
}

func (c Curve) Domain() interval.Range       { return c.planar.Domain() }
func (c Curve) Length() float64              { return c.planar.Length() }
func (c Curve) Tolerance() float64           { return c.planar.Tolerance() }
func (c Curve) Planar() curve2d.Curve        { return c.planar }
func (c Curve) Height() function.Univariate  { return c.height }
func (c Curve) Torsion() function.Univariate { return c.torsion }

// PointAt returns the point at arc length s.
func (c Curve) PointAt(s float64) (geom.Vec3, error) {
	return c.PointAtOffset(s, 0, 0)
}

// PointAtOffset returns the point at arc length s, displaced by t to the left
// and by h upwards, both measured in the frame rolled by the torsion at s.
func (c Curve) PointAtOffset(s, t, h float64) (geom.Vec3, error) {
	pose, err := c.planar.PoseAt(s)
	if err != nil {
		return geom.Vec3{}, err
	}
	tol := c.planar.Tolerance()
	z, err := function.ValueFuzzy(c.height, s, tol)
	if err != nil {
		return geom.Vec3{}, err
	}
	roll, err := function.ValueFuzzy(c.torsion, s, tol)
	if err != nil {
		return geom.Vec3{}, err
	}
	rot := geom.NewRotation3(geom.Rotation3{Heading: pose.Heading, Roll: roll})
	return pose.Point.To3(z).Add(geom.V3(0, t, h).TransformDirection(rot)), nil
}

// PoseAt returns the pose at arc length s. The pitch follows the slope of
// the height function if it is differentiable and is 0 otherwise.
func (c Curve) PoseAt(s float64) (geom.Pose3, error) {
	pose, err := c.planar.PoseAt(s)
	if err != nil {
		return geom.Pose3{}, err
	}
	tol := c.planar.Tolerance()
	z, err := function.ValueFuzzy(c.height, s, tol)
	if err != nil {
		return geom.Pose3{}, err
	}
	roll, err := function.ValueFuzzy(c.torsion, s, tol)
	if err != nil {
		return geom.Pose3{}, err
	}
	var pitch float64
	if d, ok := c.height.(function.Differentiable); ok {
		slope, err := function.SlopeFuzzy(d, s, tol)
		if err != nil {
			return geom.Pose3{}, err
		}
		// Positive pitch lowers the x axis.
		pitch = -math.Atan(slope)
	}
	return geom.Pose3{
		Point:    pose.Point.To3(z),
		Rotation: geom.Rotation3{Heading: pose.Heading, Pitch: pitch, Roll: roll},
	}, nil
}

// AffineAt returns the transform from the local frame at arc length s to
// the frame of the curve.
func (c Curve) AffineAt(s float64) (geom.Affine3, error) {
	pose, err := c.PoseAt(s)
	if err != nil {
		return geom.Affine3{}, err
	}
	return pose.Affine(), nil
}

// Section returns the part of the curve within r, re-parametrized so that
// r's lower bound maps to 0.
func (c Curve) Section(r interval.Range) (Curve, error) {
	planar, err := c.planar.Section(r)
	if err != nil {
		return Curve{}, err
	}
	height, err := function.NewSectioned(c.height, r)
	if err != nil {
		return Curve{}, err
	}
	torsion, err := function.NewSectioned(c.torsion, r)
	if err != nil {
		return Curve{}, err
	}
	return Curve{planar: planar, height: height, torsion: torsion}, nil
}

// Parameters yields arc length parameters from the start to the end of
// domain, step apart, always including the end.
func Parameters(domain interval.Range, step float64) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		lo, hi := domain.LowerOrInf(), domain.UpperOrInf()
		n := int(math.Ceil((hi - lo) / step))
		for i := range n {
			s := lo + float64(i)*step
			// Skip samples that would nearly coincide with the end.
			if s >= hi-step*1e-9 {
				break
			}
			if !yield(s) {
				return
			}
		}
		yield(hi)
	}
}

// Sample evaluates the curve at parameters step apart, including both ends.
// step must be positive and finite.
func (c Curve) Sample(step float64) ([]geom.Vec3, error) {
	return c.SampleOffset(step, 0, 0)
}

// SampleOffset is like [Curve.Sample] but evaluates the points displaced by
// t and h as in [Curve.PointAtOffset].
func (c Curve) SampleOffset(step, t, h float64) ([]geom.Vec3, error) {
	if !(step > 0) || math.IsInf(step, 0) {
		return nil, roadgeom.Invariantf("invalid step size %g", step)
	}
	var out []geom.Vec3
	for s := range Parameters(c.Domain(), step) {
		p, err := c.PointAtOffset(s, t, h)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
