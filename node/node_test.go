package node

import (
	"errors"
	"testing"

	"go.viam.com/test"

	"github.com/viam-modules/planar-slam/geometry"
)

func TestInitOnce(t *testing.T) {
	n := NewPose2Node(7)
	test.That(t, n.Initialized(), test.ShouldBeFalse)

	err := n.Init(geometry.Pose2{X: 1, Y: 2, Theta: 0.5})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, n.Initialized(), test.ShouldBeTrue)
	test.That(t, n.Value(), test.ShouldResemble, geometry.Pose2{X: 1, Y: 2, Theta: 0.5})
	test.That(t, n.Value0(), test.ShouldResemble, n.Value())

	err = n.Init(geometry.Pose2{})
	test.That(t, errors.Is(err, ErrAlreadyInitialized), test.ShouldBeTrue)
	// the first value survives the rejected second init
	test.That(t, n.Value(), test.ShouldResemble, geometry.Pose2{X: 1, Y: 2, Theta: 0.5})
}

func TestLinearizationPointLag(t *testing.T) {
	n := NewPoint2Node(3)
	test.That(t, n.Init(geometry.Point2{X: 1, Y: 1}), test.ShouldBeNil)

	n.SetValue(geometry.Point2{X: 2, Y: 2})
	test.That(t, n.Value(), test.ShouldResemble, geometry.Point2{X: 2, Y: 2})
	test.That(t, n.Value0(), test.ShouldResemble, geometry.Point2{X: 1, Y: 1})

	n.Relinearize()
	test.That(t, n.Value0(), test.ShouldResemble, geometry.Point2{X: 2, Y: 2})
}

func TestTypedAccessors(t *testing.T) {
	pose := NewPose2Node(0)
	point := NewPoint2Node(1)

	got, err := Pose2NodeFrom(pose)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldEqual, pose)

	_, err = Pose2NodeFrom(point)
	test.That(t, errors.Is(err, ErrWrongNodeType), test.ShouldBeTrue)

	_, err = Point2NodeFrom(pose)
	test.That(t, errors.Is(err, ErrWrongNodeType), test.ShouldBeTrue)
}

func TestStringForms(t *testing.T) {
	n := NewPose2Node(4)
	test.That(t, n.String(), test.ShouldEqual, "Pose2 4 uninitialized")
	test.That(t, n.Init(geometry.Pose2{X: 1, Y: 2, Theta: 0.5}), test.ShouldBeNil)
	test.That(t, n.String(), test.ShouldEqual, "Pose2 4 (1, 2, 0.5)")
}
