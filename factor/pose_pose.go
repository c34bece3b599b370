package factor

import (
	"fmt"
	"io"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/viam-modules/planar-slam/geometry"
	"github.com/viam-modules/planar-slam/node"
)

// PosePose constrains the relative transform between two poses: odometry and
// loop closures, and, in the anchored form, the rigid merge of two
// independently parameterized trajectories.
//
// The measurement is pose2 expressed in pose1's frame. With anchors, each pose
// is first lifted into the shared frame via its anchor before the same
// relative residual is computed, so fusing two trajectories costs one extra
// unknown transform per pair instead of rederiving every pose.
type PosePose struct {
	base
	pose1, pose2     *node.Pose2Node
	anchor1, anchor2 *node.Pose2Node // both set or both nil
	measure          geometry.Pose2
}

// NewPosePose builds a relative constraint between pose1 and pose2 with a 3x3
// upper-triangular square root information matrix.
func NewPosePose(pose1, pose2 *node.Pose2Node, measure geometry.Pose2, sqrtinf *mat.TriDense) (*PosePose, error) {
	b, err := newBase(PosePoseTag, geometry.PoseDim, []node.Node{pose1, pose2}, sqrtinf)
	if err != nil {
		return nil, err
	}
	return &PosePose{base: b, pose1: pose1, pose2: pose2, measure: measure}, nil
}

// NewAnchoredPosePose builds the anchored form, tying the relative frames of
// the two trajectories pose1 and pose2 belong to. Supplying exactly one of
// the anchors is a contract violation, rejected before any node is touched.
func NewAnchoredPosePose(
	pose1, pose2, anchor1, anchor2 *node.Pose2Node,
	measure geometry.Pose2,
	sqrtinf *mat.TriDense,
) (*PosePose, error) {
	if (anchor1 == nil) != (anchor2 == nil) {
		return nil, errors.Wrap(ErrAnchorPair, PosePoseTag)
	}
	if anchor1 == nil {
		return NewPosePose(pose1, pose2, measure, sqrtinf)
	}
	b, err := newBase(PosePoseTag, geometry.PoseDim,
		[]node.Node{pose1, pose2, anchor1, anchor2}, sqrtinf)
	if err != nil {
		return nil, err
	}
	return &PosePose{
		base: b, pose1: pose1, pose2: pose2,
		anchor1: anchor1, anchor2: anchor2, measure: measure,
	}, nil
}

// Measure returns the fixed relative measurement.
func (f *PosePose) Measure() geometry.Pose2 { return f.measure }

// Anchored reports whether the factor carries anchor nodes.
func (f *PosePose) Anchored() bool { return f.anchor1 != nil }

// Initialize predicts pose2 from pose1 and the measurement if pose2 is still
// uninitialized, and, in the anchored form, derives anchor2 from everything
// else. pose1 (and anchor1) carry the information all derivations start from,
// so they must already be initialized; there is nothing to derive them from.
func (f *PosePose) Initialize() error {
	if !f.pose1.Initialized() {
		return errors.Wrapf(ErrNodeUninitialized, "%s: pose1 (node %d)", f.tag, f.pose1.ID())
	}
	if !f.pose2.Initialized() {
		if err := f.pose2.Init(f.pose1.Value().Oplus(f.measure)); err != nil {
			return err
		}
	}
	if f.anchor1 == nil {
		return nil
	}
	if !f.anchor1.Initialized() {
		return errors.Wrapf(ErrNodeUninitialized, "%s: anchor1 (node %d)", f.tag, f.anchor1.ID())
	}
	if !f.anchor2.Initialized() {
		// every other transform in the anchored relation
		// anchor2*pose2 == anchor1*pose1*measure is known at this point of
		// the construction order, so solve it for anchor2; the derived value
		// makes the anchored error vanish exactly
		a := f.pose1.Value()
		b := f.pose2.Value()
		b1 := f.anchor1.Value()
		if err := f.anchor2.Init(b1.Oplus(a).Oplus(f.measure).Oplus(b.Inverse())); err != nil {
			return err
		}
	}
	return nil
}

// BasicError returns the predicted relative pose minus the measurement,
// heading standardized. With anchors the poses are lifted into the shared
// frame first.
func (f *PosePose) BasicError(values []mat.Vector) (*mat.VecDense, error) {
	if err := f.checkValues(values); err != nil {
		return nil, err
	}
	p1, err := geometry.Pose2FromVector(values[0])
	if err != nil {
		return nil, err
	}
	p2, err := geometry.Pose2FromVector(values[1])
	if err != nil {
		return nil, err
	}
	var predicted geometry.Pose2
	if len(values) == 4 {
		a1, err := geometry.Pose2FromVector(values[2])
		if err != nil {
			return nil, err
		}
		a2, err := geometry.Pose2FromVector(values[3])
		if err != nil {
			return nil, err
		}
		predicted = a2.Oplus(p2).Ominus(a1.Oplus(p1))
	} else {
		predicted = p2.Ominus(p1)
	}
	return mat.NewVecDense(geometry.PoseDim, []float64{
		predicted.X - f.measure.X,
		predicted.Y - f.measure.Y,
		geometry.StandardizeRadians(predicted.Theta - f.measure.Theta),
	}), nil
}

// Jacobian returns the analytic linearization in the two-node case. The
// anchored form falls back to numerical differentiation; the analytic
// derivative was only worked out for two nodes.
func (f *PosePose) Jacobian() (Jacobian, error) {
	if f.anchor1 != nil {
		return NumericalJacobian(f, 0)
	}
	p1 := f.pose1.Value0()
	p2 := f.pose2.Value0()
	p := p2.Ominus(p1)
	c := math.Cos(p1.Theta)
	s := math.Sin(p1.Theta)
	m1 := mat.NewDense(geometry.PoseDim, geometry.PoseDim, []float64{
		-c, -s, p.Y,
		s, -c, -p.X,
		0, 0, -1,
	})
	m2 := mat.NewDense(geometry.PoseDim, geometry.PoseDim, []float64{
		c, s, 0,
		-s, c, 0,
		0, 0, 1,
	})
	err := mat.NewVecDense(geometry.PoseDim, []float64{
		p.X - f.measure.X,
		p.Y - f.measure.Y,
		geometry.StandardizeRadians(p.Theta - f.measure.Theta),
	})
	return Jacobian{
		Residual: f.weight(err),
		Terms: []Term{
			{Node: f.pose1, Matrix: f.weightMat(m1)},
			{Node: f.pose2, Matrix: f.weightMat(m2)},
		},
	}, nil
}

// Write emits the textual form of the factor; the anchored form appends the
// two anchor node ids.
func (f *PosePose) Write(w io.Writer) error {
	if err := f.writeHeader(w); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, " %s %s", f.measure, EncodeSqrtInf(f.sqrtinf)); err != nil {
		return err
	}
	if f.anchor1 != nil {
		if _, err := fmt.Fprintf(w, " %d %d", f.anchor1.ID(), f.anchor2.ID()); err != nil {
			return err
		}
	}
	return nil
}
