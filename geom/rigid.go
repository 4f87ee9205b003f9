package geom

import (
	"honnef.co/go/roadgeom"

	"gonum.org/v1/gonum/mat"
)

// rankEpsilon is the relative size below which a singular value counts as
// zero.
const rankEpsilon = 1e-12

// RigidFit is the best-fit rotation and translation mapping a source point
// cloud onto a target point cloud.
type RigidFit struct {
	// Transform maps source points onto target points.
	Transform Affine3
	// Rotation is the linear part of Transform, row-major.
	Rotation [3][3]float64
	// Translation is the translation part of Transform.
	Translation Vec3
	// MaxDeviation is the largest distance between a transformed source
	// point and its target. It is zero, up to rounding, if the target cloud
	// is an exact rigid motion of the source cloud.
	MaxDeviation float64
}

// EstimateRigid estimates the rigid transform that best maps source onto
// target in the least squares sense, by singular value decomposition of the
// cross-covariance of the centered clouds (the Kabsch algorithm).
//
// The clouds must be of equal length, with at least three points not all on a
// line. Otherwise an error wrapping [roadgeom.ErrDegenerate] is returned.
func EstimateRigid(source, target []Vec3) (RigidFit, error) {
	if len(source) != len(target) {
		return RigidFit{}, roadgeom.Degeneratef("point clouds have different sizes %d and %d", len(source), len(target))
	}
	if len(source) < 3 {
		return RigidFit{}, roadgeom.Degeneratef("need at least 3 point pairs, got %d", len(source))
	}

	cs := Centroid(source)
	ct := Centroid(target)

	h := mat.NewDense(3, 3, nil)
	for i := range source {
		a := source[i].Sub(cs)
		b := target[i].Sub(ct)
		av := [3]float64{a.X, a.Y, a.Z}
		bv := [3]float64{b.X, b.Y, b.Z}
		for r := range 3 {
			for c := range 3 {
				h.Set(r, c, h.At(r, c)+av[r]*bv[c])
			}
		}
	}

	var svd mat.SVD
	if !svd.Factorize(h, mat.SVDFull) {
		return RigidFit{}, roadgeom.Degeneratef("singular value decomposition of cross-covariance failed")
	}
	values := svd.Values(nil)
	if values[0] == 0 || values[1] <= rankEpsilon*values[0] {
		return RigidFit{}, roadgeom.Degeneratef("cross-covariance has rank below 2, singular values %v", values)
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	var r mat.Dense
	r.Mul(&v, u.T())
	if mat.Det(&r) < 0 {
		// Reflection; flip the axis of the smallest singular value.
		for i := range 3 {
			v.Set(i, 2, -v.At(i, 2))
		}
		r.Mul(&v, u.T())
	}

	var fit RigidFit
	for i := range 3 {
		for j := range 3 {
			fit.Rotation[i][j] = r.At(i, j)
		}
	}
	rot := Affine3{M: fit.Rotation}
	fit.Translation = ct.Sub(cs.Transform(rot))
	fit.Transform = rot.ThenTranslate(fit.Translation)

	for i, p := range source {
		if d := p.Transform(fit.Transform).Distance(target[i]); d > fit.MaxDeviation {
			fit.MaxDeviation = d
		}
	}
	return fit, nil
}
