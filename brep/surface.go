package brep

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"honnef.co/go/roadgeom"
	"honnef.co/go/roadgeom/geom"
)

// Surface is anything that can be resolved to polygons in the global frame.
type Surface interface {
	// GlobalPolygons returns a non-empty list of polygons in the outermost
	// frame, or a *GenerationError.
	GlobalPolygons() ([]Polygon3D, error)
	Tolerance() float64
}

var (
	_ Surface = (*CompositeSurface)(nil)
	_ Surface = (*Rectangle)(nil)
	_ Surface = (*Circle)(nil)
	_ Surface = (*Cuboid)(nil)
	_ Surface = (*Sweep)(nil)
)

// GenerationError reports why a surface couldn't be converted to polygons.
type GenerationError struct {
	Reason string
	Err    error
}

func (err *GenerationError) Error() string {
	if err.Err == nil {
		return "generating boundary representation: " + err.Reason
	}
	return fmt.Sprintf("generating boundary representation: %s: %s", err.Reason, err.Err)
}

func (err *GenerationError) Unwrap() error { return err.Err }

func generationErrorf(err error, format string, args ...any) error {
	var gerr *GenerationError
	if errors.As(err, &gerr) {
		return err
	}
	return &GenerationError{Reason: fmt.Sprintf(format, args...), Err: err}
}

// globalize resolves every polygon's frames and wraps failures.
func globalize(polys []Polygon3D, what string) ([]Polygon3D, error) {
	if len(polys) == 0 {
		return nil, &GenerationError{Reason: what + " produced no polygons"}
	}
	out := make([]Polygon3D, len(polys))
	for i, p := range polys {
		g, err := p.Global()
		if err != nil {
			return nil, generationErrorf(err, "%s: resolving polygon %d", what, i)
		}
		out[i] = g
	}
	return out, nil
}

// CompositeSurface joins the polygons of its members.
type CompositeSurface struct {
	members   []Surface
	tolerance float64
}

// NewCompositeSurface returns the composite of members, which must be
// non-empty and share one tolerance.
func NewCompositeSurface(members ...Surface) (*CompositeSurface, error) {
	if len(members) == 0 {
		return nil, roadgeom.Invariantf("composite surface needs at least one member")
	}
	tol := members[0].Tolerance()
	for i, m := range members[1:] {
		if m.Tolerance() != tol {
			return nil, roadgeom.Invariantf("member %d has tolerance %g, want %g", i+1, m.Tolerance(), tol)
		}
	}
	return &CompositeSurface{members: slices.Clone(members), tolerance: tol}, nil
}

func (cs *CompositeSurface) Tolerance() float64 { return cs.tolerance }
func (cs *CompositeSurface) Members() []Surface { return slices.Clone(cs.members) }

func (cs *CompositeSurface) GlobalPolygons() ([]Polygon3D, error) {
	var out []Polygon3D
	for i, m := range cs.members {
		polys, err := m.GlobalPolygons()
		if err != nil {
			return nil, generationErrorf(err, "composite member %d", i)
		}
		out = append(out, polys...)
	}
	return out, nil
}

// Rectangle is an axis-aligned rectangle in the xy plane of its local frame,
// centered at the origin and facing up.
type Rectangle struct {
	Length, Width float64
	Frames        geom.AffineSequence
	Tol           float64
}

func (r *Rectangle) Tolerance() float64 { return r.Tol }

func (r *Rectangle) GlobalPolygons() ([]Polygon3D, error) {
	if !(r.Length > r.Tol) || !(r.Width > r.Tol) {
		return nil, &GenerationError{Reason: fmt.Sprintf("rectangle of %g×%g is degenerate", r.Length, r.Width)}
	}
	l, w := r.Length/2, r.Width/2
	p, err := NewPolygon3D([]geom.Vec3{
		geom.V3(-l, -w, 0),
		geom.V3(l, -w, 0),
		geom.V3(l, w, 0),
		geom.V3(-l, w, 0),
	}, r.Tol, r.Frames.Transforms()...)
	if err != nil {
		return nil, generationErrorf(err, "rectangle")
	}
	return globalize([]Polygon3D{p}, "rectangle")
}

// Circle is a disk in the xy plane of its local frame, centered at the
// origin, facing up and approximated by a regular polygon.
type Circle struct {
	Radius float64
	// Segments is the number of polygon edges. Values below 3 select a
	// default of 16.
	Segments int
	Frames   geom.AffineSequence
	Tol      float64
}

func (c *Circle) Tolerance() float64 { return c.Tol }

func (c *Circle) ring(z float64) []geom.Vec3 {
	n := c.Segments
	if n < 3 {
		n = 16
	}
	vs := make([]geom.Vec3, n)
	for i := range vs {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(n))
		vs[i] = geom.V3(c.Radius*cos, c.Radius*sin, z)
	}
	return vs
}

func (c *Circle) GlobalPolygons() ([]Polygon3D, error) {
	if !(c.Radius > c.Tol) {
		return nil, &GenerationError{Reason: fmt.Sprintf("circle of radius %g is degenerate", c.Radius)}
	}
	p, err := NewPolygon3D(c.ring(0), c.Tol, c.Frames.Transforms()...)
	if err != nil {
		return nil, generationErrorf(err, "circle")
	}
	return globalize([]Polygon3D{p}, "circle")
}

// Cuboid is a box standing on the xy plane of its local frame, centered on
// the z axis. Its faces point outwards.
type Cuboid struct {
	Length, Width, Height float64
	Frames                geom.AffineSequence
	Tol                   float64
}

func (c *Cuboid) Tolerance() float64 { return c.Tol }

func (c *Cuboid) GlobalPolygons() ([]Polygon3D, error) {
	if !(c.Length > c.Tol) || !(c.Width > c.Tol) || !(c.Height > c.Tol) {
		return nil, &GenerationError{Reason: fmt.Sprintf("cuboid of %g×%g×%g is degenerate", c.Length, c.Width, c.Height)}
	}
	l, w, h := c.Length/2, c.Width/2, c.Height
	v := [8]geom.Vec3{
		geom.V3(-l, -w, 0), geom.V3(l, -w, 0), geom.V3(l, w, 0), geom.V3(-l, w, 0),
		geom.V3(-l, -w, h), geom.V3(l, -w, h), geom.V3(l, w, h), geom.V3(-l, w, h),
	}
	faces := [6][4]int{
		{0, 3, 2, 1}, // bottom
		{4, 5, 6, 7}, // top
		{0, 1, 5, 4}, // front
		{1, 2, 6, 5}, // right
		{2, 3, 7, 6}, // back
		{3, 0, 4, 7}, // left
	}
	polys := make([]Polygon3D, 0, len(faces))
	for i, f := range faces {
		p, err := NewPolygon3D([]geom.Vec3{v[f[0]], v[f[1]], v[f[2]], v[f[3]]}, c.Tol, c.Frames.Transforms()...)
		if err != nil {
			return nil, generationErrorf(err, "cuboid face %d", i)
		}
		polys = append(polys, p)
	}
	return globalize(polys, "cuboid")
}
