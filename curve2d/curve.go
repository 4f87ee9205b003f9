package curve2d

import (
	"math"

	"honnef.co/go/roadgeom"
	"honnef.co/go/roadgeom/concat"
	"honnef.co/go/roadgeom/geom"
	"honnef.co/go/roadgeom/interval"
)

// Curve is a planar curve made of segments placed end to end along an
// absolute arc length axis. It is immutable and safe for concurrent use.
//
// The zero Curve has no segments and an empty domain; every evaluation
// yields a [roadgeom.DomainError].
type Curve struct {
	segments *concat.Container[Segment]
	// offset is added to parameters before resolving them; it is non-zero
	// for sections.
	offset float64
	domain interval.Range
}

// New places segment i at absolute arc length starts[i]. The starts must be
// sorted and each segment must reach the start of the next one within tol.
// Geometric continuity between segments isn't checked here; see
// [Curve.Discontinuities].
func New(starts []float64, segments []Segment, tol float64) (Curve, error) {
	for i, seg := range segments {
		l := segmentLength(seg)
		if l < 0 || math.IsNaN(l) || math.IsInf(l, 0) {
			return Curve{}, roadgeom.Invariantf("segment %d has invalid length %g", i, l)
		}
	}
	c, err := concat.New(segments, starts, tol)
	if err != nil {
		return Curve{}, err
	}
	return Curve{segments: c, domain: c.Domain()}, nil
}

// Must is like [New] but panics on error.
func Must(starts []float64, segments []Segment, tol float64) Curve {
	c, err := New(starts, segments, tol)
	if err != nil {
		panic(err)
	}
	return c
}

func segmentLength(seg Segment) float64 {
	switch seg := seg.(type) {
	case Line:
		return seg.Length
	case Arc:
		return seg.Length
	case Spiral:
		return seg.Length
	case ParamPoly3:
		return seg.Length
	default:
		panic("unreachable")
	}
}

// Domain returns the range of valid arc length parameters.
func (c Curve) Domain() interval.Range {
	if c.segments == nil {
		return interval.Open(0, 0)
	}
	return c.domain
}

// Length returns the length of the curve.
func (c Curve) Length() float64 { return c.Domain().Length() }

// Tolerance returns the tolerance used for resolving parameters.
func (c Curve) Tolerance() float64 {
	if c.segments == nil {
		return 0
	}
	return c.segments.Tolerance()
}

// Segments returns the segments of the complete curve, ignoring sectioning.
func (c Curve) Segments() []Segment {
	if c.segments == nil {
		return nil
	}
	return c.segments.Members()
}

// PoseAt returns the pose at arc length s. Parameters within the curve's
// tolerance of the domain are accepted; others yield a
// [roadgeom.DomainError].
func (c Curve) PoseAt(s float64) (geom.Pose2, error) {
	if c.segments == nil {
		return geom.Pose2{}, &roadgeom.DomainError{Parameter: s, Domain: c.Domain()}
	}
	tol := c.segments.Tolerance()
	if !c.domain.FuzzyContains(s, tol) {
		return geom.Pose2{}, &roadgeom.DomainError{Parameter: s, Domain: c.domain}
	}
	sel, err := c.segments.FuzzySelect(s+c.offset, tol)
	if err != nil {
		return geom.Pose2{}, err
	}
	return sel.Member.PoseAt(sel.Local), nil
}

// PointAt returns the point at arc length s.
func (c Curve) PointAt(s float64) (geom.Vec2, error) {
	p, err := c.PoseAt(s)
	return p.Point, err
}

// PointAtOffset returns the point at arc length s, displaced laterally by t.
// Positive t lies to the left of the direction of travel.
func (c Curve) PointAtOffset(s, t float64) (geom.Vec2, error) {
	p, err := c.PoseAt(s)
	if err != nil {
		return geom.Vec2{}, err
	}
	return p.Lateral(t), nil
}

// Section returns the part of the curve within r, re-parametrized so that
// r's lower bound maps to 0. r must have a lower bound and intersect the
// curve's domain.
func (c Curve) Section(r interval.Range) (Curve, error) {
	lo, ok := r.Lower()
	if !ok {
		return Curve{}, roadgeom.Invariantf("section %s has no lower bound", r)
	}
	x, ok := c.Domain().Intersection(r)
	if !ok || x.IsEmpty() {
		return Curve{}, roadgeom.Invariantf("section %s doesn't intersect domain %s", r, c.Domain())
	}
	return Curve{
		segments: c.segments,
		offset:   c.offset + lo,
		domain:   x.Shift(-lo),
	}, nil
}

// Discontinuity describes a geometric gap between the end of one segment and
// the start of the next.
type Discontinuity struct {
	// Index is the index of the segment that ends at the gap.
	Index int
	// Start is the absolute arc length at which the next segment starts.
	Start float64
	// Distance is the distance between the two poses.
	Distance float64
	// HeadingDelta is the change in heading across the gap, in (-π, π].
	HeadingDelta float64
}

// Discontinuities reports every pair of consecutive segments whose meeting
// poses are more than distTol apart or whose headings differ by more than
// angleTol radians.
func (c Curve) Discontinuities(distTol, angleTol float64) []Discontinuity {
	if c.segments == nil {
		return nil
	}
	segs := c.segments.Members()
	starts := c.segments.AbsoluteStarts()
	var out []Discontinuity
	for i := 0; i+1 < len(segs); i++ {
		end := segs[i].PoseAt(starts[i+1] - starts[i])
		next := segs[i+1].PoseAt(0)
		d := end.Point.Distance(next.Point)
		dh := normalizeAngle(next.Heading - end.Heading)
		if d > distTol || math.Abs(dh) > angleTol {
			out = append(out, Discontinuity{
				Index:        i,
				Start:        starts[i+1],
				Distance:     d,
				HeadingDelta: dh,
			})
		}
	}
	return out
}

// normalizeAngle maps th to (-π, π].
func normalizeAngle(th float64) float64 {
	th = math.Remainder(th, 2*math.Pi)
	if th <= -math.Pi {
		th += 2 * math.Pi
	}
	return th
}
