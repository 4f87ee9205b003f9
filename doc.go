// Package roadgeom provides the numeric core for turning piecewise-parametric
// road descriptions, such as those of OpenDRIVE, into continuous 3D geometry
// and boundary representations. It was designed to serve a converter from road
// networks to semantic city models, but its packages are general enough to be
// useful for other applications that need to evaluate locally defined
// polynomial segments as one continuous function.
//
// # Packages
//
// The module is layered, leaves first:
//
//   - [honnef.co/go/roadgeom/interval] implements bounded ranges of real
//     numbers with open, closed and unbounded endpoints, and tolerant
//     containment.
//   - [honnef.co/go/roadgeom/concat] places domain-restricted members
//     end-to-end and resolves an absolute parameter to a member and a local
//     parameter.
//   - [honnef.co/go/roadgeom/function] builds univariate and bivariate
//     functions on top of it: polynomials, concatenated (piecewise) functions,
//     stacked functions, sectioned functions and cross-sectional shapes.
//   - [honnef.co/go/roadgeom/geom] contains vectors, poses, affine transforms,
//     affine sequences and rigid transform estimation.
//   - [honnef.co/go/roadgeom/curve2d] assembles planar curves from lines,
//     arcs, clothoid spirals and parametric cubics.
//   - [honnef.co/go/roadgeom/curve3d] pairs a planar curve with height and
//     torsion functions and maps curve-relative coordinates to 3D points.
//   - [honnef.co/go/roadgeom/brep] builds validated planar polygons and
//     surfaces made of them.
//
// # Tolerances
//
// There is no global epsilon. Every comparison that needs slack takes an
// explicit tolerance, and objects that need one at evaluation time store the
// tolerance they were constructed with.
//
// # Errors
//
// Evaluation never panics. Asking for a value outside of a function's or
// curve's domain returns an error that wraps [ErrDomain]. Constructors
// validate their input and return an error wrapping [ErrInvariant] instead of
// building a malformed object. Numerical degeneracies, such as normalizing a
// zero-length vector or fitting a rotation to colinear points, wrap
// [ErrDegenerate].
//
// All types are immutable values and safe for concurrent use.
package roadgeom
