package curve2d

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"honnef.co/go/roadgeom"
	"honnef.co/go/roadgeom/geom"
	"honnef.co/go/roadgeom/interval"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

var approx = cmpopts.EquateApprox(0, 1e-9)

// integrate follows the heading function numerically with the midpoint rule.
func integrate(start geom.Pose2, heading func(s float64) float64, length float64, steps int) geom.Vec2 {
	p := start.Point
	h := length / float64(steps)
	for i := range steps {
		th := start.Heading + heading((float64(i)+0.5)*h)
		p = p.Add(geom.VecFromAngle(th).Mul(h))
	}
	return p
}

func TestLine(t *testing.T) {
	l := Line{Start: geom.Pose2{Point: geom.V2(1, 1), Heading: math.Pi / 2}, Length: 10}
	diff(t, geom.Pose2{Point: geom.V2(1, 6), Heading: math.Pi / 2}, l.PoseAt(5), approx)
	diff(t, interval.Closed(0, 10), l.Domain(), cmp.AllowUnexported(interval.Range{}))
}

func TestArc(t *testing.T) {
	quarter := Arc{Length: math.Pi / 2 / 0.1, Curvature: 0.1}
	diff(t, geom.Pose2{Point: geom.V2(10, 10), Heading: math.Pi / 2}, End(quarter), approx)

	right := Arc{Start: geom.Pose2{Point: geom.V2(5, 0)}, Length: math.Pi / 0.5, Curvature: -0.5}
	diff(t, geom.Pose2{Point: geom.V2(5, -4), Heading: -math.Pi}, End(right), approx)

	straight := Arc{Length: 3}
	diff(t, geom.Pose2{Point: geom.V2(3, 0)}, End(straight), approx)
}

func TestSpiralFromZeroCurvature(t *testing.T) {
	sp := Spiral{Length: 50, CurvStart: 0, CurvEnd: 0.02}
	p, th := StandardSpiral(30, sp.CurvatureRate())
	diff(t, geom.Pose2{Point: p, Heading: th}, sp.PoseAt(30), approx)
}

func TestSpiralWithStartCurvature(t *testing.T) {
	tests := []struct {
		name           string
		k0, k1, length float64
	}{
		{"increasing", 0.02, 0.04, 100},
		{"decreasing", 0.04, 0.01, 80},
		{"inflection", -0.03, 0.03, 60},
		{"right", -0.01, -0.05, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := geom.Pose2{Point: geom.V2(100, -20), Heading: 0.3}
			sp := Spiral{Start: start, Length: tt.length, CurvStart: tt.k0, CurvEnd: tt.k1}
			cdot := (tt.k1 - tt.k0) / tt.length
			heading := func(s float64) float64 { return tt.k0*s + cdot*s*s/2 }

			end := End(sp)
			if d := end.Heading - (start.Heading + heading(tt.length)); math.Abs(d) > 1e-9 {
				t.Errorf("heading off by %g", d)
			}
			want := integrate(start, heading, tt.length, 100_000)
			if d := end.Point.Distance(want); d > 1e-6 {
				t.Errorf("got end %s, want %s", end.Point, want)
			}
		})
	}
}

func TestSpiralWithoutCurvatureChange(t *testing.T) {
	sp := Spiral{Length: 20, CurvStart: 0.05, CurvEnd: 0.05}
	arc := Arc{Length: 20, Curvature: 0.05}
	diff(t, End(arc), End(sp), approx)
}

func TestParamPoly3(t *testing.T) {
	start := geom.Pose2{Point: geom.V2(1, 2), Heading: math.Pi / 2}
	straight := ParamPoly3{Start: start, Length: 4, BU: 1}
	diff(t, geom.Pose2{Point: geom.V2(1, 6), Heading: math.Pi / 2}, End(straight), approx)

	normalized := ParamPoly3{Start: start, Length: 4, BU: 4, Normalized: true}
	diff(t, End(straight), End(normalized), approx)

	// v = p² bends left with slope 2p.
	bend := ParamPoly3{Length: 1, BU: 1, CV: 1}
	diff(t, geom.Pose2{Point: geom.V2(1, 1), Heading: math.Atan2(2, 1)}, End(bend), approx)
}

func newTestCurve(t *testing.T) Curve {
	t.Helper()
	line := Line{Length: 10}
	arc := Arc{Start: End(line), Length: math.Pi / 2 / 0.1, Curvature: 0.1}
	c, err := New([]float64{0, 10}, []Segment{line, arc}, 1e-7)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestCurve(t *testing.T) {
	c := newTestCurve(t)
	if want := 10 + math.Pi/2/0.1; math.Abs(c.Length()-want) > 1e-12 {
		t.Errorf("got length %g, want %g", c.Length(), want)
	}

	p, err := c.PointAt(5)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, geom.V2(5, 0), p, approx)

	pose, err := c.PoseAt(c.Length())
	if err != nil {
		t.Fatal(err)
	}
	diff(t, geom.Pose2{Point: geom.V2(20, 10), Heading: math.Pi / 2}, pose, approx)

	p, err = c.PointAtOffset(5, 2)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, geom.V2(5, 2), p, approx)
	p, err = c.PointAtOffset(5, -2)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, geom.V2(5, -2), p, approx)
}

func TestCurveDomain(t *testing.T) {
	c := newTestCurve(t)
	for _, s := range []float64{-1, c.Length() + 1, -2e-7} {
		if _, err := c.PoseAt(s); !errors.Is(err, roadgeom.ErrDomain) {
			t.Errorf("PoseAt(%g): got %v, want domain error", s, err)
		}
	}
	for _, s := range []float64{-5e-8, c.Length() + 5e-8} {
		if _, err := c.PoseAt(s); err != nil {
			t.Errorf("PoseAt(%g): %s", s, err)
		}
	}
}

func TestCurveSection(t *testing.T) {
	c := newTestCurve(t)
	sec, err := c.Section(interval.Closed(5, 12))
	if err != nil {
		t.Fatal(err)
	}
	diff(t, 7.0, sec.Length(), approx)

	p, err := sec.PointAt(0)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, geom.V2(5, 0), p, approx)

	want, _ := c.PointAt(12)
	got, err := sec.PointAt(7)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, want, got, approx)

	if _, err := sec.PointAt(8); !errors.Is(err, roadgeom.ErrDomain) {
		t.Errorf("got %v, want domain error", err)
	}

	nested, err := sec.Section(interval.AtLeast(2))
	if err != nil {
		t.Fatal(err)
	}
	got, err = nested.PointAt(5)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, want, got, approx)

	if _, err := c.Section(interval.AtMost(3)); !errors.Is(err, roadgeom.ErrInvariant) {
		t.Errorf("got %v, want invariant error", err)
	}
	if _, err := c.Section(interval.Closed(100, 200)); !errors.Is(err, roadgeom.ErrInvariant) {
		t.Errorf("got %v, want invariant error", err)
	}
}

func TestCurveDiscontinuities(t *testing.T) {
	c := newTestCurve(t)
	if d := c.Discontinuities(1e-9, 1e-9); len(d) != 0 {
		t.Errorf("got %v, want no discontinuities", d)
	}

	line := Line{Length: 10}
	kinked := Line{Start: geom.Pose2{Point: geom.V2(10, 0.5), Heading: 0.1}, Length: 5}
	gapped := Must([]float64{0, 10}, []Segment{line, kinked}, 1e-7)
	got := gapped.Discontinuities(1e-3, 1e-3)
	want := []Discontinuity{{Index: 0, Start: 10, Distance: 0.5, HeadingDelta: 0.1}}
	diff(t, want, got, approx)
}

func TestCurveHeadingDiscontinuity(t *testing.T) {
	// The segments meet, but the heading jumps by 0.05 rad.
	line := Line{Length: 10}
	kinked := Line{Start: geom.Pose2{Point: geom.V2(10, 0), Heading: 0.05}, Length: 5}
	c := Must([]float64{0, 10}, []Segment{line, kinked}, 1e-7)

	got := c.Discontinuities(0.1, 1e-3)
	want := []Discontinuity{{Index: 0, Start: 10, Distance: 0, HeadingDelta: 0.05}}
	diff(t, want, got, approx)

	if d := c.Discontinuities(0.1, 0.1); len(d) != 0 {
		t.Errorf("got %v, want no discontinuities within 0.1 rad", d)
	}
}

func TestCurveInvalid(t *testing.T) {
	tests := []struct {
		name     string
		starts   []float64
		segments []Segment
	}{
		{"empty", nil, nil},
		{"negative length", []float64{0}, []Segment{Line{Length: -1}}},
		{"gap", []float64{0, 11}, []Segment{Line{Length: 10}, Line{Length: 1}}},
		{"unsorted", []float64{10, 0}, []Segment{Line{Length: 10}, Line{Length: 10}}},
		{"mismatched", []float64{0}, []Segment{Line{Length: 10}, Line{Length: 10}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.starts, tt.segments, 1e-7); !errors.Is(err, roadgeom.ErrInvariant) {
				t.Errorf("got %v, want invariant error", err)
			}
		})
	}
}

func TestZeroCurve(t *testing.T) {
	var c Curve
	if !c.Domain().IsEmpty() {
		t.Errorf("domain %s isn't empty", c.Domain())
	}
	diff(t, 0.0, c.Length())
	diff(t, 0.0, c.Tolerance())
	if len(c.Segments()) != 0 || len(c.Discontinuities(1e-9, 1e-9)) != 0 {
		t.Error("zero curve has segments")
	}
	for _, s := range []float64{0, 1} {
		if _, err := c.PoseAt(s); !errors.Is(err, roadgeom.ErrDomain) {
			t.Errorf("PoseAt(%g): got %v, want domain error", s, err)
		}
	}
	if _, err := c.Section(interval.Closed(0, 1)); !errors.Is(err, roadgeom.ErrInvariant) {
		t.Errorf("got %v, want invariant error", err)
	}
}

func TestNormalizeAngle(t *testing.T) {
	for in, want := range map[float64]float64{
		0:               0,
		math.Pi:         math.Pi,
		-math.Pi:        math.Pi,
		3 * math.Pi / 2: -math.Pi / 2,
		7 * math.Pi / 2: -math.Pi / 2,
	} {
		if got := normalizeAngle(in); math.Abs(got-want) > 1e-12 {
			t.Errorf("normalizeAngle(%g) = %g, want %g", in, got, want)
		}
	}
}
