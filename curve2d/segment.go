// Package curve2d implements planar reference curves built from line, arc,
// clothoid and parametric cubic segments placed end to end.
package curve2d

import (
	"math"

	"honnef.co/go/roadgeom/geom"
	"honnef.co/go/roadgeom/interval"
)

// Segment is one piece of a planar curve, parametrized by arc length over
// [0, length] and placed in the plane by its start pose.
//
// The set of segments is closed; it consists of [Line], [Arc], [Spiral] and
// [ParamPoly3].
type Segment interface {
	Domain() interval.Range
	// PoseAt returns the pose at the local parameter s. It doesn't check the
	// domain; segments extrapolate smoothly past their ends.
	PoseAt(s float64) geom.Pose2
	segment()
}

var (
	_ Segment = Line{}
	_ Segment = Arc{}
	_ Segment = Spiral{}
	_ Segment = ParamPoly3{}
)

func segmentDomain(length float64) interval.Range {
	return interval.Closed(0, length)
}

// Line is a straight segment.
type Line struct {
	Start  geom.Pose2
	Length float64
}

func (Line) segment() {}

func (l Line) Domain() interval.Range { return segmentDomain(l.Length) }

func (l Line) PoseAt(s float64) geom.Pose2 {
	return geom.Pose2{
		Point:   l.Start.Point.Add(l.Start.Tangent().Mul(s)),
		Heading: l.Start.Heading,
	}
}

// Arc is a segment of constant curvature. Positive curvature turns left.
type Arc struct {
	Start     geom.Pose2
	Length    float64
	Curvature float64
}

func (Arc) segment() {}

func (a Arc) Domain() interval.Range { return segmentDomain(a.Length) }

func (a Arc) PoseAt(s float64) geom.Pose2 {
	return a.Start.Compose(arcLocal(s, a.Curvature))
}

// arcLocal returns the pose at arc length s on the arc of curvature k that
// starts at the origin heading along the x axis.
func arcLocal(s, k float64) geom.Pose2 {
	if k == 0 {
		return geom.Pose2{Point: geom.Vec2{X: s}}
	}
	th := k * s
	sinHalf := math.Sin(th / 2)
	return geom.Pose2{
		Point: geom.Vec2{
			X: math.Sin(th) / k,
			Y: 2 * sinHalf * sinHalf / k,
		},
		Heading: th,
	}
}

// Spiral is a clothoid segment whose curvature changes linearly from
// CurvStart to CurvEnd over its length.
type Spiral struct {
	Start     geom.Pose2
	Length    float64
	CurvStart float64
	CurvEnd   float64
}

func (Spiral) segment() {}

func (sp Spiral) Domain() interval.Range { return segmentDomain(sp.Length) }

// CurvatureRate returns the change of curvature per unit of arc length.
func (sp Spiral) CurvatureRate() float64 {
	if sp.Length == 0 {
		return 0
	}
	return (sp.CurvEnd - sp.CurvStart) / sp.Length
}

func (sp Spiral) PoseAt(s float64) geom.Pose2 {
	cdot := sp.CurvatureRate()
	if cdot == 0 {
		return sp.Start.Compose(arcLocal(s, sp.CurvStart))
	}

	// The standard spiral has curvature cdot·u at parameter u, so the part
	// that matters starts at u0 = CurvStart / cdot. Cut it out and move it
	// to the origin.
	u0 := sp.CurvStart / cdot
	p0, th0 := StandardSpiral(u0, cdot)
	p, th := StandardSpiral(u0+s, cdot)
	local := geom.Pose2{
		Point:   p.Sub(p0).Rotate(-th0),
		Heading: th - th0,
	}
	return sp.Start.Compose(local)
}

// ParamPoly3 is a segment given by two cubic polynomials u(p) and v(p) in the
// local frame of the start pose, u along the start heading and v to its left.
type ParamPoly3 struct {
	Start          geom.Pose2
	Length         float64
	AU, BU, CU, DU float64
	AV, BV, CV, DV float64
	// Normalized selects the parameter range [0, 1] instead of
	// [0, Length]. The segment is parametrized by Length either way.
	Normalized bool
}

func (ParamPoly3) segment() {}

func (pp ParamPoly3) Domain() interval.Range { return segmentDomain(pp.Length) }

func (pp ParamPoly3) PoseAt(s float64) geom.Pose2 {
	p := s
	if pp.Normalized && pp.Length != 0 {
		p = s / pp.Length
	}
	u := pp.AU + p*(pp.BU+p*(pp.CU+p*pp.DU))
	v := pp.AV + p*(pp.BV+p*(pp.CV+p*pp.DV))
	du := pp.BU + p*(2*pp.CU+p*3*pp.DU)
	dv := pp.BV + p*(2*pp.CV+p*3*pp.DV)
	return pp.Start.Compose(geom.Pose2{
		Point:   geom.Vec2{X: u, Y: v},
		Heading: math.Atan2(dv, du),
	})
}

// End returns the pose at the end of seg.
func End(seg Segment) geom.Pose2 {
	hi, _ := seg.Domain().Upper()
	return seg.PoseAt(hi)
}
