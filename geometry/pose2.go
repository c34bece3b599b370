package geometry

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/rdk/spatialmath"
	"gonum.org/v1/gonum/mat"
)

// planarOrientationEpsilon bounds how far a spatialmath orientation axis may
// deviate from +Z before a pose is rejected as non-planar.
const planarOrientationEpsilon = 1e-9

// Pose2 is a planar rigid pose value: position and heading. The heading is
// unconstrained in representation; composition and inverse composition always
// standardize the heading they produce.
type Pose2 struct {
	X, Y, Theta float64
}

// Vector returns the pose in vector form (x, y, theta).
func (p Pose2) Vector() *mat.VecDense {
	return mat.NewVecDense(PoseDim, []float64{p.X, p.Y, p.Theta})
}

// Pose2FromVector builds a pose from its vector form.
func Pose2FromVector(v mat.Vector) (Pose2, error) {
	if v.Len() != PoseDim {
		return Pose2{}, errors.Errorf("pose vector must have dimension %d, got %d", PoseDim, v.Len())
	}
	return Pose2{X: v.AtVec(0), Y: v.AtVec(1), Theta: v.AtVec(2)}, nil
}

// Point returns the position component of the pose.
func (p Pose2) Point() Point2 {
	return Point2{X: p.X, Y: p.Y}
}

// Oplus composes d, expressed in p's frame, into the global frame: d's
// translation is rotated by p's heading and added to p's position, and the
// headings add. Used to predict a second pose from a first pose plus a
// relative measurement.
func (p Pose2) Oplus(d Pose2) Pose2 {
	c := math.Cos(p.Theta)
	s := math.Sin(p.Theta)
	return Pose2{
		X:     p.X + c*d.X - s*d.Y,
		Y:     p.Y + s*d.X + c*d.Y,
		Theta: StandardizeRadians(p.Theta + d.Theta),
	}
}

// Ominus returns p expressed in base's frame, the inverse of Oplus:
// base.Oplus(p.Ominus(base)) == p. Used to derive a relative measurement from
// two absolute poses.
func (p Pose2) Ominus(base Pose2) Pose2 {
	c := math.Cos(base.Theta)
	s := math.Sin(base.Theta)
	dx := p.X - base.X
	dy := p.Y - base.Y
	return Pose2{
		X:     c*dx + s*dy,
		Y:     -s*dx + c*dy,
		Theta: StandardizeRadians(p.Theta - base.Theta),
	}
}

// Inverse returns the pose that composes with p to the identity:
// p.Oplus(p.Inverse()) and p.Inverse().Oplus(p) are both the zero pose.
func (p Pose2) Inverse() Pose2 {
	c := math.Cos(p.Theta)
	s := math.Sin(p.Theta)
	return Pose2{
		X:     -(c*p.X + s*p.Y),
		Y:     s*p.X - c*p.Y,
		Theta: StandardizeRadians(-p.Theta),
	}
}

// TransformTo expresses the global point q in p's local frame.
func (p Pose2) TransformTo(q Point2) Point2 {
	c := math.Cos(p.Theta)
	s := math.Sin(p.Theta)
	dx := q.X - p.X
	dy := q.Y - p.Y
	return Point2{X: c*dx + s*dy, Y: -s*dx + c*dy}
}

// TransformFrom expresses the local point q, given in p's frame, in the
// global frame. Inverse of TransformTo.
func (p Pose2) TransformFrom(q Point2) Point2 {
	c := math.Cos(p.Theta)
	s := math.Sin(p.Theta)
	return Point2{X: p.X + c*q.X - s*q.Y, Y: p.Y + s*q.X + c*q.Y}
}

// Pose returns the pose as a spatialmath.Pose with the heading taken about +Z.
func (p Pose2) Pose() spatialmath.Pose {
	return spatialmath.NewPose(
		r3.Vector{X: p.X, Y: p.Y},
		&spatialmath.OrientationVector{OZ: 1, Theta: p.Theta},
	)
}

// Pose2FromPose projects a spatialmath.Pose into the plane. The orientation
// must be a rotation about +Z; anything else is rejected.
func Pose2FromPose(pose spatialmath.Pose) (Pose2, error) {
	ov := pose.Orientation().OrientationVectorRadians()
	if math.Abs(ov.OX) > planarOrientationEpsilon ||
		math.Abs(ov.OY) > planarOrientationEpsilon ||
		math.Abs(ov.OZ-1) > planarOrientationEpsilon {
		return Pose2{}, errors.Errorf("pose orientation %v is not a rotation about +Z", ov)
	}
	pt := pose.Point()
	return Pose2{X: pt.X, Y: pt.Y, Theta: StandardizeRadians(ov.Theta)}, nil
}

func (p Pose2) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Theta)
}
