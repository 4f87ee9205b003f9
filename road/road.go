package road

import (
	"context"
	"errors"
	"fmt"

	"honnef.co/go/roadgeom"
	"honnef.co/go/roadgeom/brep"
	"honnef.co/go/roadgeom/config"
	"honnef.co/go/roadgeom/curve2d"
	"honnef.co/go/roadgeom/curve3d"
	"honnef.co/go/roadgeom/function"
	"honnef.co/go/roadgeom/geom"
	"honnef.co/go/roadgeom/interval"
	"honnef.co/go/roadgeom/logging"
)

// Road is the geometry of one road.
type Road struct {
	ID string
	// Reference is the reference line with elevation and superelevation.
	Reference curve3d.Curve
	// LaneOffset is the lateral offset of the center lane from the
	// reference line.
	LaneOffset function.Univariate
	// Shape is the lateral profile, a height over (s, t). It is nil if the
	// road has no lateral shape.
	Shape function.Bivariate
	// Objects are the road objects in description order.
	Objects []Object3D
	// Gaps are the geometric discontinuities of the plan view.
	Gaps []curve2d.Discontinuity

	step float64
}

// Object3D is a road object with its surface in the road's coordinate
// reference system.
type Object3D struct {
	ID, Name, Type string
	Surface        brep.Surface
}

// Build builds the road described by desc. Tolerances and the
// discretization step are taken from cfg. Diagnostics are logged to the
// logger in ctx.
func Build(ctx context.Context, desc Description, cfg config.Config) (*Road, error) {
	log := logging.FromContext(ctx).With(logging.String("road", desc.ID))

	planar, err := planView(desc.PlanView, cfg.Tolerance.Number)
	if err != nil {
		return nil, fmt.Errorf("road %s: plan view: %w", desc.ID, err)
	}
	gaps := planar.Discontinuities(cfg.Tolerance.Distance, cfg.Tolerance.Angle)
	for _, g := range gaps {
		log.Warn(ctx, "plan view discontinuity",
			logging.Int("segment", g.Index),
			logging.Float64("s", g.Start),
			logging.Float64("distance", g.Distance),
			logging.Float64("headingDelta", g.HeadingDelta))
	}

	opts := function.ConcatOptions{PrependConstant: true, Tolerance: cfg.Tolerance.Number}
	height, err := polynomials(desc.Elevation, opts)
	if err != nil {
		return nil, fmt.Errorf("road %s: elevation: %w", desc.ID, err)
	}
	torsion, err := polynomials(desc.Superelevation, opts)
	if err != nil {
		return nil, fmt.Errorf("road %s: superelevation: %w", desc.ID, err)
	}
	laneOffset, err := polynomials(desc.LaneOffset, opts)
	if err != nil {
		return nil, fmt.Errorf("road %s: lane offset: %w", desc.ID, err)
	}
	if laneOffset == nil {
		laneOffset = function.Constant{}
	}
	ref, err := curve3d.New(planar, height, torsion)
	if err != nil {
		return nil, fmt.Errorf("road %s: reference line: %w", desc.ID, err)
	}

	r := &Road{
		ID:         desc.ID,
		Reference:  ref,
		LaneOffset: laneOffset,
		Gaps:       gaps,
		step:       cfg.DiscretizationStepSize,
	}
	if len(desc.Shape) > 0 {
		shape, err := lateralShape(desc.Shape, opts)
		if err != nil {
			return nil, fmt.Errorf("road %s: shape: %w", desc.ID, err)
		}
		r.Shape = shape
	}
	for _, o := range desc.Objects {
		obj, err := r.object(o, cfg)
		if err != nil {
			return nil, fmt.Errorf("road %s: object %s: %w", desc.ID, o.ID, err)
		}
		r.Objects = append(r.Objects, obj)
	}

	log.Debug(ctx, "road built",
		logging.Float64("length", ref.Length()),
		logging.Any("domain", ref.Domain()),
		logging.Int("segments", len(desc.PlanView)),
		logging.Int("objects", len(r.Objects)))
	return r, nil
}

func planView(geoms []Geometry, tol float64) (curve2d.Curve, error) {
	if len(geoms) == 0 {
		return curve2d.Curve{}, roadgeom.Invariantf("no geometries")
	}
	starts := make([]float64, len(geoms))
	segs := make([]curve2d.Segment, len(geoms))
	for i, g := range geoms {
		seg, err := g.segment()
		if err != nil {
			return curve2d.Curve{}, fmt.Errorf("geometry %d: %w", i, err)
		}
		starts[i] = g.S
		segs[i] = seg
	}
	return curve2d.New(starts, segs, tol)
}

func (g Geometry) segment() (curve2d.Segment, error) {
	start := geom.Pose2{Point: geom.V2(g.X, g.Y), Heading: g.Hdg}
	var (
		seg curve2d.Segment
		n   int
	)
	if g.Line != nil {
		seg = curve2d.Line{Start: start, Length: g.Length}
		n++
	}
	if g.Arc != nil {
		seg = curve2d.Arc{Start: start, Length: g.Length, Curvature: g.Arc.Curvature}
		n++
	}
	if g.Spiral != nil {
		seg = curve2d.Spiral{Start: start, Length: g.Length, CurvStart: g.Spiral.CurvStart, CurvEnd: g.Spiral.CurvEnd}
		n++
	}
	if pp := g.ParamPoly3; pp != nil {
		var normalized bool
		switch pp.PRange {
		case "", "arcLength":
		case "normalized":
			normalized = true
		default:
			return nil, roadgeom.Invariantf("unknown pRange %q", pp.PRange)
		}
		seg = curve2d.ParamPoly3{
			Start:      start,
			Length:     g.Length,
			AU:         pp.AU,
			BU:         pp.BU,
			CU:         pp.CU,
			DU:         pp.DU,
			AV:         pp.AV,
			BV:         pp.BV,
			CV:         pp.CV,
			DV:         pp.DV,
			Normalized: normalized,
		}
		n++
	}
	if n != 1 {
		return nil, roadgeom.Invariantf("geometry at s=%g must have exactly one kind, has %d", g.S, n)
	}
	return seg, nil
}

// polynomials concatenates the records, or returns nil if there are none.
func polynomials(ps []Polynomial, opts function.ConcatOptions) (function.Univariate, error) {
	if len(ps) == 0 {
		return nil, nil
	}
	starts := make([]float64, len(ps))
	coeffs := make([][]float64, len(ps))
	for i, p := range ps {
		starts[i] = p.S
		coeffs[i] = p.coefficients()
	}
	f, err := function.ConcatenatedOfPolynomials(starts, coeffs, opts)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// lateralShape groups consecutive records with equal s into cross sections.
func lateralShape(records []Shape, opts function.ConcatOptions) (*function.Shape, error) {
	var (
		xs       []float64
		sections []function.Univariate
	)
	for i := 0; i < len(records); {
		j := i
		var ts []float64
		var coeffs [][]float64
		for ; j < len(records) && records[j].S == records[i].S; j++ {
			r := records[j]
			ts = append(ts, r.T)
			coeffs = append(coeffs, []float64{r.A, r.B, r.C, r.D})
		}
		f, err := function.ConcatenatedOfPolynomials(ts, coeffs, opts)
		if err != nil {
			return nil, fmt.Errorf("cross section at s=%g: %w", records[i].S, err)
		}
		xs = append(xs, records[i].S)
		sections = append(sections, f)
		i = j
	}
	return function.NewShape(xs, sections, function.ShapeOptions{ExtrapolateX: true})
}

// height returns the lateral shape's height at (s, t).
func (r *Road) height(s, t float64) (float64, error) {
	if r.Shape == nil {
		return 0, nil
	}
	return function.Value2Fuzzy(r.Shape, s, t, r.Reference.Tolerance())
}

// SurfacePoint returns the point of the road surface at arc length s and
// lateral position t from the reference line, including the lateral shape.
func (r *Road) SurfacePoint(s, t float64) (geom.Vec3, error) {
	h, err := r.height(s, t)
	if err != nil {
		return geom.Vec3{}, err
	}
	return r.Reference.PointAtOffset(s, t, h)
}

// CenterLanePoint returns the surface point at arc length s, shifted by the
// lane offset.
func (r *Road) CenterLanePoint(s float64) (geom.Vec3, error) {
	t, err := function.ValueFuzzy(r.LaneOffset, s, r.Reference.Tolerance())
	if err != nil {
		return geom.Vec3{}, err
	}
	return r.SurfacePoint(s, t)
}

// SampleCenterLane samples the center lane with the configured
// discretization step.
func (r *Road) SampleCenterLane() ([]geom.Vec3, error) {
	var out []geom.Vec3
	for s := range curve3d.Parameters(r.Reference.Domain(), r.step) {
		p, err := r.CenterLanePoint(s)
		if err != nil {
			return nil, fmt.Errorf("center lane at s=%g: %w", s, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// ObjectSurface combines the surfaces of all objects. It returns nil if the
// road has no objects.
func (r *Road) ObjectSurface() (*brep.CompositeSurface, error) {
	if len(r.Objects) == 0 {
		return nil, nil
	}
	members := make([]brep.Surface, len(r.Objects))
	for i, o := range r.Objects {
		members[i] = o.Surface
	}
	return brep.NewCompositeSurface(members...)
}

func (r *Road) object(o Object, cfg config.Config) (Object3D, error) {
	out := Object3D{ID: o.ID, Name: o.Name, Type: o.Type}
	tol := cfg.Tolerance.Distance
	if o.Repeat != nil {
		sw, err := r.sweep(*o.Repeat, cfg)
		if err != nil {
			return Object3D{}, err
		}
		out.Surface = sw
		return out, nil
	}

	// The object's frame is its local pose within the road frame at s.
	roadFrame, err := r.Reference.AffineAt(o.S)
	if err != nil {
		return Object3D{}, err
	}
	h, err := r.height(o.S, o.T)
	if err != nil {
		return Object3D{}, err
	}
	local := geom.Pose3{
		Point:    geom.V3(0, o.T, h+o.ZOffset),
		Rotation: geom.Rotation3{Heading: o.Hdg, Pitch: o.Pitch, Roll: o.Roll},
	}
	frames := geom.NewAffineSequence(roadFrame, local.Affine())

	switch {
	case o.Radius > 0:
		out.Surface = &brep.Circle{Radius: o.Radius, Frames: frames, Tol: tol}
	case o.Height > 0:
		out.Surface = &brep.Cuboid{Length: o.Length, Width: o.Width, Height: o.Height, Frames: frames, Tol: tol}
	default:
		out.Surface = &brep.Rectangle{Length: o.Length, Width: o.Width, Frames: frames, Tol: tol}
	}
	return out, nil
}

func (r *Road) sweep(rep Repeat, cfg config.Config) (*brep.Sweep, error) {
	if !(rep.Length > 0) {
		return nil, roadgeom.Degeneratef("repeat of length %g", rep.Length)
	}
	section, err := r.Reference.Section(interval.Closed(rep.S, rep.S+rep.Length))
	if err != nil {
		return nil, err
	}
	domain := interval.Closed(0, rep.Length)
	var errs []error
	linear := func(name string, start, end float64) function.Univariate {
		f, err := function.LinearThrough(0, start, rep.Length, end, domain)
		if err != nil {
			errs = append(errs, fmt.Errorf("repeat %s: %w", name, err))
		}
		return f
	}

	sw := &brep.Sweep{
		Curve:  section,
		Width:  linear("width", rep.WidthStart, rep.WidthEnd),
		Offset: linear("t", rep.TStart, rep.TEnd),
		Base:   linear("zOffset", rep.ZOffsetStart, rep.ZOffsetEnd),
		Step:   cfg.DiscretizationStepSize,
		Tol:    cfg.Tolerance.Distance,
	}
	if rep.HeightStart > 0 || rep.HeightEnd > 0 {
		sw.Height = linear("height", rep.HeightStart, rep.HeightEnd)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return sw, nil
}
