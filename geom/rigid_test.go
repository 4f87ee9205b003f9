package geom

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
	"honnef.co/go/roadgeom"
)

var cloud = []Vec3{
	V3(0, 0, 0),
	V3(10, 0, 0),
	V3(0, 10, 0),
	V3(0, 0, 10),
	V3(3, 7, -2),
	V3(-5, 1, 4),
}

func TestEstimateRigidRecoversMotion(t *testing.T) {
	tests := []struct {
		name     string
		rotation Rotation3
		offset   Vec3
	}{
		{"identity", Rotation3{}, Vec3{}},
		{"translation", Rotation3{}, V3(1000, -250, 3)},
		{"heading", Rotation3{Heading: 0.7}, V3(5, 6, 7)},
		{"full", Rotation3{Heading: -2.1, Pitch: 0.3, Roll: -0.05}, V3(-12.5, 400, 0.25)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := NewRotation3(tt.rotation).ThenTranslate(tt.offset)
			fit, err := EstimateRigid(cloud, TransformAll(cloud, want))
			if err != nil {
				t.Fatal(err)
			}
			diff(t, want, fit.Transform, cmpopts.EquateApprox(0, 1e-9))
			diff(t, want.M, fit.Rotation, cmpopts.EquateApprox(0, 1e-9))
			diff(t, tt.offset, fit.Translation, cmpopts.EquateApprox(0, 1e-9))
			if fit.MaxDeviation > 1e-9 {
				t.Errorf("got deviation %g, want ≈0", fit.MaxDeviation)
			}
		})
	}
}

func TestEstimateRigidPlanarCloud(t *testing.T) {
	// All points at z = 0, as produced by a horizontal sample grid.
	src := []Vec3{V3(0, 0, 0), V3(1, 0, 0), V3(0, 1, 0), V3(1, 1, 0)}
	want := NewRotation3(Rotation3{Heading: 0.25}).ThenTranslate(V3(2, 3, 0))
	fit, err := EstimateRigid(src, TransformAll(src, want))
	if err != nil {
		t.Fatal(err)
	}
	diff(t, want, fit.Transform, cmpopts.EquateApprox(0, 1e-9))
	if d := fit.Transform.Determinant(); math.Abs(d-1) > 1e-9 {
		t.Errorf("got determinant %g, want a proper rotation", d)
	}
}

func TestEstimateRigidDeviation(t *testing.T) {
	src := []Vec3{V3(-1, -1, 0), V3(1, -1, 0), V3(1, 1, 0), V3(-1, 1, 0)}
	// Scaling is not a rigid motion; the best fit is the identity and every
	// point is off by its distance to the scaled position.
	dst := TransformAll(src, Scale3(1.1, 1.1, 1))
	fit, err := EstimateRigid(src, dst)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, Identity3, fit.Transform, cmpopts.EquateApprox(0, 1e-9))
	if want := 0.1 * math.Sqrt2; math.Abs(fit.MaxDeviation-want) > 1e-9 {
		t.Errorf("got deviation %g, want %g", fit.MaxDeviation, want)
	}
}

func TestEstimateRigidDegenerate(t *testing.T) {
	tests := []struct {
		name     string
		src, dst []Vec3
	}{
		{"mismatched", cloud, cloud[:4]},
		{"too few", cloud[:2], cloud[:2]},
		{"colinear", []Vec3{V3(0, 0, 0), V3(1, 1, 1), V3(2, 2, 2)}, []Vec3{V3(0, 0, 0), V3(1, 1, 1), V3(2, 2, 2)}},
		{"coincident", []Vec3{V3(1, 1, 1), V3(1, 1, 1), V3(1, 1, 1)}, []Vec3{V3(0, 0, 0), V3(0, 0, 0), V3(0, 0, 0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := EstimateRigid(tt.src, tt.dst); !errors.Is(err, roadgeom.ErrDegenerate) {
				t.Errorf("got %v, want degeneracy error", err)
			}
		})
	}
}

func TestAffineSequence(t *testing.T) {
	const epsilon = 1e-9

	var empty AffineSequence
	diff(t, Identity3, empty.Solve())

	model := Translate3(V3(100, 0, 0))
	road := NewRotation3(Rotation3{Heading: math.Pi / 2})
	lane := Translate3(V3(0, 2, 0))
	seq := NewAffineSequence(model, road).Append(lane)

	if seq.Len() != 3 {
		t.Fatalf("got %d transforms, want 3", seq.Len())
	}
	// The lane offset applies first, in road coordinates, then the road is
	// rotated and finally placed in the model.
	assertNear3(t, seq.Transform(V3(1, 0, 0)), V3(98, 1, 0), epsilon)
	assertNear3(t, V3(1, 0, 0).Transform(seq.Solve()), V3(98, 1, 0), epsilon)

	joined := NewAffineSequence(model).Concat(NewAffineSequence(road, lane))
	diff(t, seq.Solve(), joined.Solve(), cmpopts.EquateApprox(0, 1e-12))

	// Appending must not alias the receiver's storage.
	a := NewAffineSequence(model, road)
	b := a.Append(lane)
	c := a.Append(Identity3)
	diff(t, lane, b.Transforms()[2])
	diff(t, Identity3, c.Transforms()[2])
}
