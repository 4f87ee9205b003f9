// Package reproject approximates a change of coordinate reference system by
// a rigid transform.
//
// A city model header stores a single offset, which can't represent a
// non-linear geographic projection exactly. The approximation is estimated
// from sample points around a model origin; its maximum deviation from the
// exact projection is reported, and callers decide whether it is good
// enough.
package reproject

import (
	"context"
	"fmt"

	"honnef.co/go/roadgeom/brep"
	"honnef.co/go/roadgeom/config"
	"honnef.co/go/roadgeom/geom"
	"honnef.co/go/roadgeom/logging"
)

// Projection maps a point from the source to the target coordinate
// reference system. It is typically backed by a projection library.
type Projection func(geom.Vec3) (geom.Vec3, error)

// Estimator estimates rigid reprojections.
type Estimator struct {
	// Logger receives a warning when a fit exceeds MaxDeviation. Nil
	// disables logging.
	Logger logging.Logger
	// MaxDeviation is the deviation above which a fit is reported as
	// inaccurate.
	MaxDeviation float64
	// SampleExtent is half the edge length of the sample grid.
	SampleExtent float64
	// SampleCount is the number of samples along each edge of the grid.
	SampleCount int
}

// NewEstimator returns an estimator configured by cfg.
func NewEstimator(cfg config.Reprojection, logger logging.Logger) *Estimator {
	return &Estimator{
		Logger:       logger,
		MaxDeviation: cfg.MaxDeviation,
		SampleExtent: cfg.SampleExtent,
		SampleCount:  cfg.SampleCount,
	}
}

// Result is a rigid fit with its diagnostics.
type Result struct {
	geom.RigidFit
	// Samples is the number of point pairs the fit was estimated from.
	Samples int
	// Accurate reports whether MaxDeviation stayed within the estimator's
	// threshold.
	Accurate bool
}

func (e *Estimator) logger() logging.Logger {
	if e.Logger == nil {
		return logging.Noop()
	}
	return e.Logger
}

// Fit estimates the rigid transform from paired source and target samples.
// A deviation above the threshold is logged as a warning, not returned as an
// error.
func (e *Estimator) Fit(ctx context.Context, source, target []geom.Vec3) (Result, error) {
	fit, err := geom.EstimateRigid(source, target)
	if err != nil {
		return Result{}, fmt.Errorf("estimating rigid reprojection: %w", err)
	}
	res := Result{
		RigidFit: fit,
		Samples:  len(source),
		Accurate: fit.MaxDeviation <= e.MaxDeviation,
	}
	fields := []logging.Field{
		logging.Float64("maxDeviation", fit.MaxDeviation),
		logging.Float64("threshold", e.MaxDeviation),
		logging.Int("samples", res.Samples),
	}
	if res.Accurate {
		e.logger().Debug(ctx, "rigid reprojection estimated", fields...)
	} else {
		e.logger().Warn(ctx, "rigid reprojection deviates from the exact projection", fields...)
	}
	return res, nil
}

// Grid returns the sample points: a square grid of SampleCount×SampleCount
// points around origin, at the origin's height and SampleExtent above it.
func (e *Estimator) Grid(origin geom.Vec3) []geom.Vec3 {
	n := max(e.SampleCount, 2)
	step := 2 * e.SampleExtent / float64(n-1)
	out := make([]geom.Vec3, 0, 2*n*n)
	for _, dz := range []float64{0, e.SampleExtent} {
		for i := range n {
			for j := range n {
				out = append(out, origin.Add(geom.V3(
					-e.SampleExtent+float64(i)*step,
					-e.SampleExtent+float64(j)*step,
					dz,
				)))
			}
		}
	}
	return out
}

// Estimate samples the grid around origin, projects every sample and fits a
// rigid transform to the pairs.
func (e *Estimator) Estimate(ctx context.Context, origin geom.Vec3, project Projection) (Result, error) {
	source := e.Grid(origin)
	target := make([]geom.Vec3, len(source))
	for i, p := range source {
		q, err := project(p)
		if err != nil {
			return Result{}, fmt.Errorf("projecting sample %s: %w", p, err)
		}
		target[i] = q
	}
	return e.Fit(ctx, source, target)
}

// ApplyPolygons places polygons in the fitted transform's target frame and
// resolves their frames.
func (r Result) ApplyPolygons(polys []brep.Polygon3D) ([]brep.Polygon3D, error) {
	out := make([]brep.Polygon3D, len(polys))
	for i, p := range polys {
		q, err := p.Within(r.Transform).Global()
		if err != nil {
			return nil, fmt.Errorf("reprojecting polygon %d: %w", i, err)
		}
		out[i] = q
	}
	return out, nil
}
