// Package export writes sampled road geometry as GeoJSON for inspection in
// GIS tools. Coordinates are the plan view; heights go into properties.
package export

import (
	"fmt"
	"io"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"

	"honnef.co/go/roadgeom/brep"
	"honnef.co/go/roadgeom/geom"
	"honnef.co/go/roadgeom/road"
)

// Options controls the export.
type Options struct {
	// Simplify is the Douglas-Peucker threshold applied to sampled lines.
	// Zero keeps every sample.
	Simplify float64
	// MinArea drops polygon footprints smaller than this, such as those of
	// vertical faces. Zero drops only empty footprints.
	MinArea float64
}

// Collection accumulates features.
type Collection struct {
	opts Options
	fc   *geojson.FeatureCollection
}

func New(opts Options) *Collection {
	return &Collection{opts: opts, fc: geojson.NewFeatureCollection()}
}

// FeatureCollection returns the accumulated features.
func (c *Collection) FeatureCollection() *geojson.FeatureCollection { return c.fc }

// withHeights copies props and adds the height range of points.
func withHeights(props geojson.Properties, points []geom.Vec3) geojson.Properties {
	out := make(geojson.Properties, len(props)+2)
	for k, v := range props {
		out[k] = v
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		lo = min(lo, p.Z)
		hi = max(hi, p.Z)
	}
	out["zMin"], out["zMax"] = lo, hi
	return out
}

// AddLine adds the points as a line string. Lines with fewer than two points
// are ignored.
func (c *Collection) AddLine(points []geom.Vec3, props geojson.Properties) {
	if len(points) < 2 {
		return
	}
	ls := make(orb.LineString, len(points))
	for i, p := range points {
		ls[i] = orb.Point{p.X, p.Y}
	}
	if c.opts.Simplify > 0 {
		ls = simplify.DouglasPeucker(c.opts.Simplify).Simplify(ls).(orb.LineString)
	}
	f := geojson.NewFeature(ls)
	f.Properties = withHeights(props, points)
	c.fc.Append(f)
}

// footprint returns the polygon's outline projected onto the plan view, as a
// closed counterclockwise ring.
func footprint(vertices []geom.Vec3) orb.Ring {
	ring := make(orb.Ring, 0, len(vertices)+1)
	for _, v := range vertices {
		ring = append(ring, orb.Point{v.X, v.Y})
	}
	ring = append(ring, ring[0])
	if ring.Orientation() == orb.CW {
		ring.Reverse()
	}
	return ring
}

// AddPolygons adds the footprints of the polygons' global vertices. It
// returns the number of footprints added.
func (c *Collection) AddPolygons(polys []brep.Polygon3D, props geojson.Properties) (int, error) {
	var n int
	for i, p := range polys {
		g, err := p.Global()
		if err != nil {
			return n, fmt.Errorf("polygon %d: %w", i, err)
		}
		vs := g.Vertices()
		ring := footprint(vs)
		if area := math.Abs(planar.Area(ring)); area <= c.opts.MinArea {
			continue
		}
		f := geojson.NewFeature(orb.Polygon{ring})
		f.Properties = withHeights(props, vs)
		c.fc.Append(f)
		n++
	}
	return n, nil
}

// AddRoad adds the road's center lane and the footprints of its objects.
func (c *Collection) AddRoad(r *road.Road) error {
	center, err := r.SampleCenterLane()
	if err != nil {
		return fmt.Errorf("road %s: %w", r.ID, err)
	}
	c.AddLine(center, geojson.Properties{"road": r.ID, "kind": "centerLane"})

	for _, o := range r.Objects {
		polys, err := o.Surface.GlobalPolygons()
		if err != nil {
			return fmt.Errorf("road %s: object %s: %w", r.ID, o.ID, err)
		}
		props := geojson.Properties{"road": r.ID, "kind": "object", "id": o.ID}
		if o.Type != "" {
			props["type"] = o.Type
		}
		if o.Name != "" {
			props["name"] = o.Name
		}
		if _, err := c.AddPolygons(polys, props); err != nil {
			return fmt.Errorf("road %s: object %s: %w", r.ID, o.ID, err)
		}
	}
	return nil
}

// WriteTo writes the collection as JSON.
func (c *Collection) WriteTo(w io.Writer) (int64, error) {
	data, err := c.fc.MarshalJSON()
	if err != nil {
		return 0, fmt.Errorf("marshaling GeoJSON: %w", err)
	}
	n, err := w.Write(data)
	return int64(n), err
}
