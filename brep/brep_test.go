package brep

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"honnef.co/go/roadgeom"
	"honnef.co/go/roadgeom/curve2d"
	"honnef.co/go/roadgeom/curve3d"
	"honnef.co/go/roadgeom/function"
	"honnef.co/go/roadgeom/geom"
	"honnef.co/go/roadgeom/interval"
)

const tol = 1e-7

func assertVecNear(t *testing.T, want, got geom.Vec3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9, "x of %s", got)
	assert.InDelta(t, want.Y, got.Y, 1e-9, "y of %s", got)
	assert.InDelta(t, want.Z, got.Z, 1e-9, "z of %s", got)
}

func TestPolygonNormal(t *testing.T) {
	tri, err := NewPolygon3D([]geom.Vec3{geom.V3(1, 1, 1), geom.V3(2, 1, 1), geom.V3(2, 2, 1)}, tol)
	require.NoError(t, err)
	n, err := tri.Normal()
	require.NoError(t, err)
	assert.Equal(t, geom.V3(0, 0, 1), n)

	quad, err := NewPolygon3D([]geom.Vec3{geom.V3(0, 0, 0), geom.V3(1, 0, 0), geom.V3(1, 0, 1), geom.V3(0, 0, 1)}, tol)
	require.NoError(t, err)
	n, err = quad.Normal()
	require.NoError(t, err)
	assert.Equal(t, geom.V3(0, -1, 0), n)

	n, err = quad.Reversed().Normal()
	require.NoError(t, err)
	assert.Equal(t, geom.V3(0, 1, 0), n)
}

func TestPolygonValidation(t *testing.T) {
	tests := []struct {
		name     string
		vertices []geom.Vec3
	}{
		{"none", nil},
		{"two", []geom.Vec3{geom.V3(0, 0, 0), geom.V3(1, 0, 0)}},
		{"colinear", []geom.Vec3{geom.V3(0, 0, 0), geom.V3(1, 1, 1), geom.V3(2, 2, 2)}},
		{"duplicate", []geom.Vec3{geom.V3(0, 0, 0), geom.V3(1, 0, 0), geom.V3(1, 0, 0), geom.V3(0, 1, 0)}},
		{"closed", []geom.Vec3{geom.V3(0, 0, 0), geom.V3(1, 0, 0), geom.V3(0, 1, 0), geom.V3(0, 0, 0)}},
		{"non-planar", []geom.Vec3{geom.V3(0, 0, 0), geom.V3(1, 0, 0), geom.V3(1, 1, 1), geom.V3(0, 1, 0)}},
		{"nan", []geom.Vec3{geom.V3(0, 0, 0), geom.V3(1, 0, 0), geom.V3(math.NaN(), 1, 0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPolygon3D(tt.vertices, tol)
			assert.ErrorIs(t, err, roadgeom.ErrInvariant)
		})
	}
}

func TestPolygonPlanarWithinTolerance(t *testing.T) {
	_, err := NewPolygon3D([]geom.Vec3{geom.V3(0, 0, 0), geom.V3(1, 0, 0), geom.V3(1, 1, 1e-9), geom.V3(0, 1, 0)}, tol)
	assert.NoError(t, err)
}

func TestPolygonFrames(t *testing.T) {
	local := []geom.Vec3{geom.V3(0, 0, 0), geom.V3(1, 0, 0), geom.V3(0, 1, 0)}
	model := geom.Translate3(geom.V3(10, 0, 0))
	road := geom.NewRotation3(geom.Rotation3{Roll: math.Pi / 2})
	p, err := NewPolygon3D(local, tol, model, road)
	require.NoError(t, err)

	g, err := p.Global()
	require.NoError(t, err)
	assert.Equal(t, 0, g.Frames().Len())
	vs := g.Vertices()
	assertVecNear(t, geom.V3(10, 0, 0), vs[0])
	assertVecNear(t, geom.V3(11, 0, 0), vs[1])
	assertVecNear(t, geom.V3(10, 0, 1), vs[2])

	n, err := g.Normal()
	require.NoError(t, err)
	assertVecNear(t, geom.V3(0, -1, 0), n)

	// Within adds outer frames.
	outer := p.Within(geom.Translate3(geom.V3(0, 0, 5)))
	g, err = outer.Global()
	require.NoError(t, err)
	assertVecNear(t, geom.V3(10, 0, 5), g.Vertices()[0])
}

func TestPolygonTransformCollapse(t *testing.T) {
	p := MustPolygon3D([]geom.Vec3{geom.V3(0, 0, 0), geom.V3(1, 0, 0), geom.V3(0, 1, 0)}, tol)
	_, err := p.Transform(geom.Scale3(1, 0, 1))
	assert.ErrorIs(t, err, roadgeom.ErrInvariant)

	moved, err := p.Transform(geom.Translate3(geom.V3(0, 0, 3)))
	require.NoError(t, err)
	assertVecNear(t, geom.V3(1, 0, 3), moved.Vertices()[1])
}

func TestRectangleAndCircle(t *testing.T) {
	place := geom.NewAffineSequence(geom.Translate3(geom.V3(5, 5, 1)))

	rect := &Rectangle{Length: 4, Width: 2, Frames: place, Tol: tol}
	polys, err := rect.GlobalPolygons()
	require.NoError(t, err)
	require.Len(t, polys, 1)
	assertVecNear(t, geom.V3(3, 4, 1), polys[0].Vertices()[0])
	n, err := polys[0].Normal()
	require.NoError(t, err)
	assertVecNear(t, geom.UnitZ, n)

	circle := &Circle{Radius: 1, Segments: 8, Frames: place, Tol: tol}
	polys, err = circle.GlobalPolygons()
	require.NoError(t, err)
	require.Len(t, polys, 1)
	assert.Len(t, polys[0].Vertices(), 8)
	for _, v := range polys[0].Vertices() {
		assert.InDelta(t, 1, v.Sub(geom.V3(5, 5, 1)).Norm(), 1e-12)
	}

	_, err = (&Rectangle{Length: 0, Width: 2, Tol: tol}).GlobalPolygons()
	var gerr *GenerationError
	assert.ErrorAs(t, err, &gerr)
	_, err = (&Circle{Radius: -1, Tol: tol}).GlobalPolygons()
	assert.ErrorAs(t, err, &gerr)
}

func TestCuboidFacesPointOutwards(t *testing.T) {
	c := &Cuboid{Length: 2, Width: 2, Height: 2, Tol: tol}
	polys, err := c.GlobalPolygons()
	require.NoError(t, err)
	require.Len(t, polys, 6)

	center := geom.V3(0, 0, 1)
	for i, p := range polys {
		n, err := p.Normal()
		require.NoError(t, err)
		out := geom.Centroid(p.Vertices()).Sub(center)
		assert.Greater(t, n.Dot(out), 0.0, "face %d points inwards", i)
	}
}

func straightCurve(t *testing.T, length float64) curve3d.Curve {
	t.Helper()
	planar, err := curve2d.New([]float64{0}, []curve2d.Segment{curve2d.Line{Length: length}}, tol)
	require.NoError(t, err)
	return curve3d.Flat(planar)
}

func TestSweepBox(t *testing.T) {
	sw := &Sweep{
		Curve:  straightCurve(t, 10),
		Width:  function.Constant{C: 2},
		Height: function.Constant{C: 1},
		Step:   5,
		Tol:    tol,
	}
	polys, err := sw.GlobalPolygons()
	require.NoError(t, err)
	// Two steps of four sides, plus two caps.
	require.Len(t, polys, 10)

	center := geom.V3(5, 0, 0.5)
	for i, p := range polys {
		n, err := p.Normal()
		require.NoError(t, err)
		out := geom.Centroid(p.Vertices()).Sub(center)
		assert.Greater(t, n.Dot(out), 0.0, "face %d points inwards", i)
	}
}

func TestSweepStrip(t *testing.T) {
	sw := &Sweep{
		Curve: straightCurve(t, 10),
		Width: function.Constant{C: 0.3},
		Step:  2.5,
		Tol:   tol,
	}
	polys, err := sw.GlobalPolygons()
	require.NoError(t, err)
	require.Len(t, polys, 4)
	for _, p := range polys {
		n, err := p.Normal()
		require.NoError(t, err)
		assertVecNear(t, geom.UnitZ, n)
	}
}

func TestSweepOffsetAndBase(t *testing.T) {
	sw := &Sweep{
		Curve:  straightCurve(t, 4),
		Width:  function.Constant{C: 1},
		Height: function.Constant{C: 2},
		Offset: function.Constant{C: 3},
		Base:   function.Constant{C: 0.5},
		Step:   4,
		Tol:    tol,
	}
	polys, err := sw.GlobalPolygons()
	require.NoError(t, err)
	require.Len(t, polys, 6)

	// The end cap is the last cross-section: right bottom, left bottom,
	// left top, right top.
	want := []geom.Vec3{
		geom.V3(4, 2.5, 0.5),
		geom.V3(4, 3.5, 0.5),
		geom.V3(4, 3.5, 2.5),
		geom.V3(4, 2.5, 2.5),
	}
	got := polys[len(polys)-1].Vertices()
	require.Len(t, got, len(want))
	for i := range want {
		assertVecNear(t, want[i], got[i])
	}
}

func TestSweepTwisted(t *testing.T) {
	// A linearly increasing roll makes the side faces non-planar; they are
	// split into triangles.
	planar, err := curve2d.New([]float64{0}, []curve2d.Segment{curve2d.Line{Length: 10}}, tol)
	require.NoError(t, err)
	c, err := curve3d.New(planar, nil, function.Linear{Slope: 0.1})
	require.NoError(t, err)
	sw := &Sweep{Curve: c, Width: function.Constant{C: 2}, Height: function.Constant{C: 1}, Step: 10, Tol: tol}
	polys, err := sw.GlobalPolygons()
	require.NoError(t, err)
	assert.Len(t, polys, 4*2+2)
}

func TestSweepErrors(t *testing.T) {
	var gerr *GenerationError

	sw := &Sweep{Curve: straightCurve(t, 10), Width: function.Linear{Slope: 1, D: interval.Closed(0, 5)}, Step: 1, Tol: tol}
	_, err := sw.GlobalPolygons()
	require.ErrorAs(t, err, &gerr)
	assert.ErrorIs(t, err, roadgeom.ErrDomain)

	sw = &Sweep{Curve: straightCurve(t, 10), Width: function.Constant{C: 0}, Step: 1, Tol: tol}
	_, err = sw.GlobalPolygons()
	require.ErrorAs(t, err, &gerr)
	assert.ErrorIs(t, err, roadgeom.ErrInvariant)

	sw = &Sweep{Curve: straightCurve(t, 10), Step: 1, Tol: tol}
	_, err = sw.GlobalPolygons()
	assert.ErrorAs(t, err, &gerr)
}

func TestCompositeSurface(t *testing.T) {
	rect := &Rectangle{Length: 1, Width: 1, Tol: tol}
	box := &Cuboid{Length: 1, Width: 1, Height: 1, Tol: tol}
	cs, err := NewCompositeSurface(rect, box)
	require.NoError(t, err)
	polys, err := cs.GlobalPolygons()
	require.NoError(t, err)
	assert.Len(t, polys, 7)

	_, err = NewCompositeSurface()
	assert.ErrorIs(t, err, roadgeom.ErrInvariant)
	_, err = NewCompositeSurface(rect, &Cuboid{Length: 1, Width: 1, Height: 1, Tol: 1e-3})
	assert.ErrorIs(t, err, roadgeom.ErrInvariant)

	broken, err := NewCompositeSurface(rect, &Rectangle{Tol: tol})
	require.NoError(t, err)
	_, err = broken.GlobalPolygons()
	var gerr *GenerationError
	require.True(t, errors.As(err, &gerr))
	assert.Contains(t, gerr.Reason, "degenerate")
}
