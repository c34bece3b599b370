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

// PosePoint is a landmark observation: a point measured in the observing
// pose's local frame.
type PosePoint struct {
	base
	pose    *node.Pose2Node
	point   *node.Point2Node
	measure geometry.Point2
}

// NewPosePoint builds a landmark observation with a 2x2 upper-triangular
// square root information matrix. The node order is pose, then point.
func NewPosePoint(pose *node.Pose2Node, point *node.Point2Node,
	measure geometry.Point2, sqrtinf *mat.TriDense,
) (*PosePoint, error) {
	b, err := newBase(PosePointTag, geometry.PointDim, []node.Node{pose, point}, sqrtinf)
	if err != nil {
		return nil, err
	}
	return &PosePoint{base: b, pose: pose, point: point, measure: measure}, nil
}

// Measure returns the fixed local-frame observation.
func (f *PosePoint) Measure() geometry.Point2 { return f.measure }

// Initialize predicts the landmark position from the pose and the observation
// if the point is still uninitialized. The pose must already be initialized;
// an observation alone carries no absolute information.
func (f *PosePoint) Initialize() error {
	if !f.pose.Initialized() {
		return errors.Wrapf(ErrNodeUninitialized, "%s: pose (node %d)", f.tag, f.pose.ID())
	}
	if f.point.Initialized() {
		return nil
	}
	return f.point.Init(f.pose.Value().TransformFrom(f.measure))
}

// BasicError returns the point expressed in the pose's frame minus the
// measurement.
func (f *PosePoint) BasicError(values []mat.Vector) (*mat.VecDense, error) {
	if err := f.checkValues(values); err != nil {
		return nil, err
	}
	po, err := geometry.Pose2FromVector(values[0])
	if err != nil {
		return nil, err
	}
	pt, err := geometry.Point2FromVector(values[1])
	if err != nil {
		return nil, err
	}
	p := po.TransformTo(pt)
	return mat.NewVecDense(geometry.PointDim, []float64{p.X - f.measure.X, p.Y - f.measure.Y}), nil
}

// Jacobian returns the analytic linearization at the linearization point.
func (f *PosePoint) Jacobian() (Jacobian, error) {
	po := f.pose.Value0()
	pt := f.point.Value0()
	c := math.Cos(po.Theta)
	s := math.Sin(po.Theta)
	dx := pt.X - po.X
	dy := pt.Y - po.Y
	xRel := c*dx + s*dy  // forward offset of the landmark in the pose's frame
	yRel := -s*dx + c*dy // lateral offset to the left
	m1 := mat.NewDense(geometry.PointDim, geometry.PoseDim, []float64{
		-c, -s, yRel,
		s, -c, -xRel,
	})
	m2 := mat.NewDense(geometry.PointDim, geometry.PointDim, []float64{
		c, s,
		-s, c,
	})
	err := mat.NewVecDense(geometry.PointDim, []float64{
		xRel - f.measure.X,
		yRel - f.measure.Y,
	})
	return Jacobian{
		Residual: f.weight(err),
		Terms: []Term{
			{Node: f.pose, Matrix: f.weightMat(m1)},
			{Node: f.point, Matrix: f.weightMat(m2)},
		},
	}, nil
}

// Write emits the textual form of the factor.
func (f *PosePoint) Write(w io.Writer) error {
	if err := f.writeHeader(w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, " %s %s", f.measure, EncodeSqrtInf(f.sqrtinf))
	return err
}
