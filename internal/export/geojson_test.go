package export

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"honnef.co/go/roadgeom/brep"
	"honnef.co/go/roadgeom/config"
	"honnef.co/go/roadgeom/geom"
	"honnef.co/go/roadgeom/road"
)

const testRoad = `
id: r7
planView:
  - {s: 0, x: 0, y: 0, hdg: 0, length: 10, line: {}}
objects:
  - {id: mark, type: roadMark, s: 5, t: 0, length: 2, width: 1}
  - {id: box, type: building, s: 5, t: 3, length: 2, width: 2, height: 1}
`

func TestFootprintOrientation(t *testing.T) {
	cw := []geom.Vec3{geom.V3(0, 0, 1), geom.V3(0, 1, 1), geom.V3(1, 1, 1), geom.V3(1, 0, 1)}
	ring := footprint(cw)
	require.Len(t, ring, 5)
	assert.True(t, ring.Closed())
	assert.Equal(t, orb.CCW, ring.Orientation())
}

func TestAddRoad(t *testing.T) {
	desc, err := road.Decode(strings.NewReader(testRoad))
	require.NoError(t, err)
	r, err := road.Build(context.Background(), desc, config.Default())
	require.NoError(t, err)

	c := New(Options{Simplify: 0.01, MinArea: 1e-9})
	require.NoError(t, c.AddRoad(r))

	var buf bytes.Buffer
	_, err = c.WriteTo(&buf)
	require.NoError(t, err)
	fc, err := geojson.UnmarshalFeatureCollection(buf.Bytes())
	require.NoError(t, err)

	// The center lane, the marking and the box's top and bottom. The box's
	// sides have no footprint.
	require.Len(t, fc.Features, 4)

	line, ok := fc.Features[0].Geometry.(orb.LineString)
	require.True(t, ok)
	assert.Equal(t, orb.LineString{{0, 0}, {10, 0}}, line)
	assert.Equal(t, "centerLane", fc.Features[0].Properties["kind"])
	assert.Equal(t, "r7", fc.Features[0].Properties["road"])

	mark, ok := fc.Features[1].Geometry.(orb.Polygon)
	require.True(t, ok)
	assert.Equal(t, orb.Bound{Min: orb.Point{4, -0.5}, Max: orb.Point{6, 0.5}}, mark.Bound())
	assert.Equal(t, "mark", fc.Features[1].Properties["id"])
	assert.Equal(t, "roadMark", fc.Features[1].Properties["type"])

	for _, f := range fc.Features[2:] {
		assert.Equal(t, "box", f.Properties["id"])
		assert.Equal(t, orb.CCW, f.Geometry.(orb.Polygon)[0].Orientation())
	}
	assert.Equal(t, 0.0, fc.Features[2].Properties["zMax"])
	assert.Equal(t, 1.0, fc.Features[3].Properties["zMin"])
}

func TestAddPolygonsMinArea(t *testing.T) {
	small := brep.MustPolygon3D([]geom.Vec3{geom.V3(0, 0, 0), geom.V3(0.1, 0, 0), geom.V3(0, 0.1, 0)}, 1e-7)
	large := brep.MustPolygon3D([]geom.Vec3{geom.V3(0, 0, 0), geom.V3(10, 0, 0), geom.V3(0, 10, 0)}, 1e-7)

	c := New(Options{MinArea: 1})
	n, err := c.AddPolygons([]brep.Polygon3D{small, large}, geojson.Properties{"kind": "test"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, c.FeatureCollection().Features, 1)
	assert.Equal(t, "test", c.FeatureCollection().Features[0].Properties["kind"])

	c.AddLine([]geom.Vec3{geom.V3(1, 2, 3)}, nil)
	assert.Len(t, c.FeatureCollection().Features, 1)
}
