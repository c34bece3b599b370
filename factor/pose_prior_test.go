package factor

import (
	"bytes"
	"math"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"github.com/viam-modules/planar-slam/geometry"
	"github.com/viam-modules/planar-slam/node"
)

func TestPosePriorInitialize(t *testing.T) {
	pose := node.NewPose2Node(0)
	prior := geometry.Pose2{X: 1, Y: 2, Theta: 0.5}
	f, err := NewPosePrior(pose, prior, eye(3))
	test.That(t, err, test.ShouldBeNil)

	test.That(t, f.Initialize(), test.ShouldBeNil)
	test.That(t, pose.Initialized(), test.ShouldBeTrue)
	test.That(t, pose.Value(), test.ShouldResemble, prior)
}

func TestPosePriorHeadingWrap(t *testing.T) {
	// pi and -pi are the same heading; the standardized error must be zero
	pose := node.NewPose2Node(0)
	f, err := NewPosePrior(pose, geometry.Pose2{Theta: math.Pi}, eye(3))
	test.That(t, err, test.ShouldBeNil)

	e, err := f.BasicError([]mat.Vector{geometry.Pose2{Theta: -math.Pi}.Vector()})
	test.That(t, err, test.ShouldBeNil)
	vecShouldAlmostBeZero(t, e, 1e-12)
}

func TestPosePriorJacobian(t *testing.T) {
	pose := node.NewPose2Node(0)
	prior := geometry.Pose2{X: 1, Y: 2, Theta: 0.5}
	s := mat.NewTriDense(3, mat.Upper, []float64{
		10, 0, 0,
		0, 10, 0,
		0, 0, 100,
	})
	f, err := NewPosePrior(pose, prior, s)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, f.Initialize(), test.ShouldBeNil)

	jac, err := f.Jacobian()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, jac.Terms, test.ShouldHaveLength, 1)
	matricesShouldAlmostEqual(t, jac.Terms[0].Matrix, s, 1e-12)
	vecShouldAlmostBeZero(t, jac.Residual, 1e-12)

	// the residual is evaluated at the linearization point, not the current
	// value, so moving the current value alone must not change it
	pose.SetValue(geometry.Pose2{X: 5, Y: 5, Theta: 1})
	jac, err = f.Jacobian()
	test.That(t, err, test.ShouldBeNil)
	vecShouldAlmostBeZero(t, jac.Residual, 1e-12)

	pose.Relinearize()
	jac, err = f.Jacobian()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, jac.Residual.AtVec(0), test.ShouldAlmostEqual, 40, 1e-12)
	test.That(t, jac.Residual.AtVec(1), test.ShouldAlmostEqual, 30, 1e-12)
	test.That(t, jac.Residual.AtVec(2), test.ShouldAlmostEqual, 50, 1e-12)
}

func TestPosePriorMatchesNumericalJacobian(t *testing.T) {
	pose := node.NewPose2Node(0)
	s := mat.NewTriDense(3, mat.Upper, []float64{
		10, 1, 0,
		0, 10, 2,
		0, 0, 100,
	})
	f, err := NewPosePrior(pose, geometry.Pose2{X: 1, Y: 2, Theta: 0.5}, s)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pose.Init(geometry.Pose2{X: 1.5, Y: 1.5, Theta: 0.25}), test.ShouldBeNil)

	analytic, err := f.Jacobian()
	test.That(t, err, test.ShouldBeNil)
	numerical, err := NumericalJacobian(f, 0)
	test.That(t, err, test.ShouldBeNil)
	matricesShouldAlmostEqual(t, analytic.Terms[0].Matrix, numerical.Terms[0].Matrix, 1e-5)
	for i := 0; i < analytic.Residual.Len(); i++ {
		test.That(t, analytic.Residual.AtVec(i), test.ShouldAlmostEqual, numerical.Residual.AtVec(i), 1e-9)
	}
}

func TestPosePriorWrite(t *testing.T) {
	pose := node.NewPose2Node(0)
	s := mat.NewTriDense(3, mat.Upper, []float64{
		10, 0, 0,
		0, 10, 0,
		0, 0, 100,
	})
	f, err := NewPosePrior(pose, geometry.Pose2{X: 1, Y: 2, Theta: 0.5}, s)
	test.That(t, err, test.ShouldBeNil)

	var buf bytes.Buffer
	test.That(t, f.Write(&buf), test.ShouldBeNil)
	test.That(t, buf.String(), test.ShouldEqual, "Pose2Prior (0) (1, 2, 0.5) {10,0,0,10,0,100}")
}
