// Package node provides the unknown-variable handles a factor graph estimates:
// uniquely identified, manifold-valued slots with initialize-once semantics.
//
// Node creation and initialization are owned by the graph-construction
// authority; factors hold non-owning references and may request initialization
// of a node at most once, enforced here by a runtime flag rather than caller
// discipline.
package node

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/viam-modules/planar-slam/geometry"
)

// Tags identifying the concrete node types.
const (
	Pose2Tag  = "Pose2"
	Point2Tag = "Point2"
)

var (
	// ErrAlreadyInitialized denotes that Init was called on a node that is already initialized.
	ErrAlreadyInitialized = errors.New("node is already initialized")

	// ErrWrongNodeType denotes that a typed accessor was applied to a node of a different concrete type.
	ErrWrongNodeType = errors.New("node has a different concrete type")
)

// Node is a handle on one unknown variable of the estimation problem. It holds
// a current value and a linearization-point value; the linearization point is
// the value derivatives were last computed at and may lag the current value
// during incremental updates.
type Node interface {
	ID() int64
	Tag() string
	Dim() int
	Initialized() bool
	// Vector returns the current value in vector form.
	Vector() mat.Vector
	// Vector0 returns the linearization-point value in vector form.
	Vector0() mat.Vector
	// Relinearize moves the linearization point to the current value.
	Relinearize()
}

// Pose2Node is an unknown planar pose.
type Pose2Node struct {
	id          int64
	initialized bool
	value       geometry.Pose2
	value0      geometry.Pose2
}

// NewPose2Node returns an uninitialized pose node with the given unique id.
func NewPose2Node(id int64) *Pose2Node {
	return &Pose2Node{id: id}
}

// ID returns the node's unique id.
func (n *Pose2Node) ID() int64 { return n.id }

// Tag returns the node type tag.
func (n *Pose2Node) Tag() string { return Pose2Tag }

// Dim returns the vector dimension of the node value.
func (n *Pose2Node) Dim() int { return geometry.PoseDim }

// Initialized reports whether the node has been given an initial value.
func (n *Pose2Node) Initialized() bool { return n.initialized }

// Init gives the node its initial value, setting both the current value and
// the linearization point. Calling it a second time is a contract violation.
func (n *Pose2Node) Init(value geometry.Pose2) error {
	if n.initialized {
		return errors.Wrapf(ErrAlreadyInitialized, "%s node %d", n.Tag(), n.id)
	}
	n.value = value
	n.value0 = value
	n.initialized = true
	return nil
}

// Value returns the current value.
func (n *Pose2Node) Value() geometry.Pose2 { return n.value }

// Value0 returns the linearization-point value.
func (n *Pose2Node) Value0() geometry.Pose2 { return n.value0 }

// SetValue updates the current value, leaving the linearization point alone.
func (n *Pose2Node) SetValue(value geometry.Pose2) { n.value = value }

// Relinearize moves the linearization point to the current value.
func (n *Pose2Node) Relinearize() { n.value0 = n.value }

// Vector returns the current value in vector form.
func (n *Pose2Node) Vector() mat.Vector { return n.value.Vector() }

// Vector0 returns the linearization-point value in vector form.
func (n *Pose2Node) Vector0() mat.Vector { return n.value0.Vector() }

func (n *Pose2Node) String() string {
	if !n.initialized {
		return fmt.Sprintf("%s %d uninitialized", n.Tag(), n.id)
	}
	return fmt.Sprintf("%s %d %s", n.Tag(), n.id, n.value)
}

// Point2Node is an unknown planar point, typically a landmark.
type Point2Node struct {
	id          int64
	initialized bool
	value       geometry.Point2
	value0      geometry.Point2
}

// NewPoint2Node returns an uninitialized point node with the given unique id.
func NewPoint2Node(id int64) *Point2Node {
	return &Point2Node{id: id}
}

// ID returns the node's unique id.
func (n *Point2Node) ID() int64 { return n.id }

// Tag returns the node type tag.
func (n *Point2Node) Tag() string { return Point2Tag }

// Dim returns the vector dimension of the node value.
func (n *Point2Node) Dim() int { return geometry.PointDim }

// Initialized reports whether the node has been given an initial value.
func (n *Point2Node) Initialized() bool { return n.initialized }

// Init gives the node its initial value, setting both the current value and
// the linearization point. Calling it a second time is a contract violation.
func (n *Point2Node) Init(value geometry.Point2) error {
	if n.initialized {
		return errors.Wrapf(ErrAlreadyInitialized, "%s node %d", n.Tag(), n.id)
	}
	n.value = value
	n.value0 = value
	n.initialized = true
	return nil
}

// Value returns the current value.
func (n *Point2Node) Value() geometry.Point2 { return n.value }

// Value0 returns the linearization-point value.
func (n *Point2Node) Value0() geometry.Point2 { return n.value0 }

// SetValue updates the current value, leaving the linearization point alone.
func (n *Point2Node) SetValue(value geometry.Point2) { n.value = value }

// Relinearize moves the linearization point to the current value.
func (n *Point2Node) Relinearize() { n.value0 = n.value }

// Vector returns the current value in vector form.
func (n *Point2Node) Vector() mat.Vector { return n.value.Vector() }

// Vector0 returns the linearization-point value in vector form.
func (n *Point2Node) Vector0() mat.Vector { return n.value0.Vector() }

func (n *Point2Node) String() string {
	if !n.initialized {
		return fmt.Sprintf("%s %d uninitialized", n.Tag(), n.id)
	}
	return fmt.Sprintf("%s %d %s", n.Tag(), n.id, n.value)
}

// Pose2NodeFrom recovers the concrete pose node behind a generic reference,
// failing loudly on a type mismatch.
func Pose2NodeFrom(n Node) (*Pose2Node, error) {
	pn, ok := n.(*Pose2Node)
	if !ok {
		return nil, errors.Wrapf(ErrWrongNodeType, "expected %s, got %s node %d", Pose2Tag, n.Tag(), n.ID())
	}
	return pn, nil
}

// Point2NodeFrom recovers the concrete point node behind a generic reference,
// failing loudly on a type mismatch.
func Point2NodeFrom(n Node) (*Point2Node, error) {
	pn, ok := n.(*Point2Node)
	if !ok {
		return nil, errors.Wrapf(ErrWrongNodeType, "expected %s, got %s node %d", Point2Tag, n.Tag(), n.ID())
	}
	return pn, nil
}
