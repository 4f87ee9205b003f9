package geom

import (
	"fmt"
	"math"
)

// Pose2 is a position and heading in the plane.
type Pose2 struct {
	Point Vec2
	// Heading is the angle in radians between the positive x axis and the
	// direction of travel, counterclockwise.
	Heading float64
}

func (p Pose2) String() string {
	return fmt.Sprintf("pose(%s, %g)", p.Point, p.Heading)
}

// Tangent returns the unit vector in the direction of the heading.
func (p Pose2) Tangent() Vec2 {
	return VecFromAngle(p.Heading)
}

// Normal returns the unit vector pointing to the left of the heading.
func (p Pose2) Normal() Vec2 {
	return VecFromAngle(p.Heading + math.Pi/2)
}

// Lateral returns the point that lies t to the left of the pose. Negative
// values of t lie to the right.
func (p Pose2) Lateral(t float64) Vec2 {
	return p.Point.Add(p.Normal().Mul(t))
}

// Affine returns the transform from the pose's local frame, in which the pose
// sits at the origin heading along the x axis, to the frame of the pose.
func (p Pose2) Affine() Affine2 {
	return Rotate(p.Heading).ThenTranslate(p.Point)
}

// Compose returns the pose local, expressed in p's local frame, expressed in
// the frame of p.
func (p Pose2) Compose(local Pose2) Pose2 {
	return Pose2{
		Point:   local.Point.Transform(p.Affine()),
		Heading: p.Heading + local.Heading,
	}
}

// Rotation3 describes an orientation by heading (about z), pitch (about y)
// and roll (about x), applied in that order to the local frame.
type Rotation3 struct {
	Heading float64
	Pitch   float64
	Roll    float64
}

// Matrix returns the rotation as a row-major 3×3 matrix.
func (r Rotation3) Matrix() [3][3]float64 {
	sh, ch := math.Sincos(r.Heading)
	sp, cp := math.Sincos(r.Pitch)
	sr, cr := math.Sincos(r.Roll)
	// Rz(h) · Ry(p) · Rx(r)
	return [3][3]float64{
		{ch * cp, ch*sp*sr - sh*cr, ch*sp*cr + sh*sr},
		{sh * cp, sh*sp*sr + ch*cr, sh*sp*cr - ch*sr},
		{-sp, cp * sr, cp * cr},
	}
}

// Pose3 is a position and orientation in space.
type Pose3 struct {
	Point    Vec3
	Rotation Rotation3
}

func (p Pose3) String() string {
	return fmt.Sprintf("pose(%s, h=%g p=%g r=%g)", p.Point, p.Rotation.Heading, p.Rotation.Pitch, p.Rotation.Roll)
}

// Affine returns the transform from the pose's local frame to the frame of
// the pose.
func (p Pose3) Affine() Affine3 {
	return NewRotation3(p.Rotation).ThenTranslate(p.Point)
}
