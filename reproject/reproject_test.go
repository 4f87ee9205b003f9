package reproject

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"honnef.co/go/roadgeom"
	"honnef.co/go/roadgeom/brep"
	"honnef.co/go/roadgeom/config"
	"honnef.co/go/roadgeom/geom"
	"honnef.co/go/roadgeom/logging"
)

func newEstimator(buf *bytes.Buffer) *Estimator {
	cfg := config.Default().Reprojection
	cfg.SampleExtent = 100
	cfg.SampleCount = 3
	return NewEstimator(cfg, logging.New(logging.Config{Level: "debug", Output: buf}))
}

func TestGrid(t *testing.T) {
	e := &Estimator{SampleExtent: 10, SampleCount: 3}
	grid := e.Grid(geom.V3(100, 200, 5))
	require.Len(t, grid, 18)
	assert.Equal(t, geom.V3(90, 190, 5), grid[0])
	assert.Equal(t, geom.V3(100, 200, 5), grid[4])
	assert.Equal(t, geom.V3(110, 210, 15), grid[17])
}

func TestEstimateRigidProjection(t *testing.T) {
	var buf bytes.Buffer
	e := newEstimator(&buf)

	want := geom.NewRotation3(geom.Rotation3{Heading: 0.01}).ThenTranslate(geom.V3(-500000, -5400000, 0))
	project := func(p geom.Vec3) (geom.Vec3, error) { return p.Transform(want), nil }

	res, err := e.Estimate(context.Background(), geom.V3(500000, 5400000, 300), project)
	require.NoError(t, err)
	assert.True(t, res.Accurate)
	assert.Equal(t, 18, res.Samples)
	assert.Less(t, res.MaxDeviation, 1e-6)

	p := geom.V3(500123, 5400456, 310)
	got := p.Transform(res.Transform)
	assert.InDelta(t, 0, got.Distance(p.Transform(want)), 1e-6)

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.NotContains(t, buf.String(), "level=WARN")
}

func TestEstimateWarnsAboveThreshold(t *testing.T) {
	var buf bytes.Buffer
	e := newEstimator(&buf)

	// A projection with scale distortion, as in conformal map projections
	// away from the central meridian.
	project := func(p geom.Vec3) (geom.Vec3, error) {
		return geom.V3(p.X*1.0004, p.Y*1.0004, p.Z), nil
	}
	res, err := e.Estimate(context.Background(), geom.V3(0, 0, 0), project)
	require.NoError(t, err)
	assert.False(t, res.Accurate)
	assert.Greater(t, res.MaxDeviation, e.MaxDeviation)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "maxDeviation=")
}

func TestEstimateErrors(t *testing.T) {
	e := &Estimator{SampleExtent: 10, SampleCount: 3}

	boom := errors.New("boom")
	_, err := e.Estimate(context.Background(), geom.Vec3{}, func(geom.Vec3) (geom.Vec3, error) {
		return geom.Vec3{}, boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = e.Estimate(context.Background(), geom.Vec3{}, func(geom.Vec3) (geom.Vec3, error) {
		return geom.V3(1, 2, 3), nil
	})
	assert.ErrorIs(t, err, roadgeom.ErrDegenerate)

	_, err = e.Fit(context.Background(), []geom.Vec3{{}}, nil)
	assert.ErrorIs(t, err, roadgeom.ErrDegenerate)
}

func TestApplyPolygons(t *testing.T) {
	e := &Estimator{SampleExtent: 10, SampleCount: 2, MaxDeviation: 0.01}
	shift := geom.Translate3(geom.V3(1, 2, 3))
	res, err := e.Estimate(context.Background(), geom.Vec3{}, func(p geom.Vec3) (geom.Vec3, error) {
		return p.Transform(shift), nil
	})
	require.NoError(t, err)

	poly := brep.MustPolygon3D([]geom.Vec3{geom.V3(0, 0, 0), geom.V3(1, 0, 0), geom.V3(0, 1, 0)}, 1e-7)
	out, err := res.ApplyPolygons([]brep.Polygon3D{poly})
	require.NoError(t, err)
	require.Len(t, out, 1)
	v := out[0].Vertices()[1]
	assert.InDelta(t, 2, v.X, 1e-9)
	assert.InDelta(t, 2, v.Y, 1e-9)
	assert.InDelta(t, 3, v.Z, 1e-9)
}
