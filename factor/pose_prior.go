package factor

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/viam-modules/planar-slam/geometry"
	"github.com/viam-modules/planar-slam/node"
)

// PosePrior anchors a single pose to an absolute estimate, typically fixing
// the gauge freedom of the first pose in a trajectory.
type PosePrior struct {
	base
	pose  *node.Pose2Node
	prior geometry.Pose2
}

// NewPosePrior builds a prior on a pose node with a 3x3 upper-triangular
// square root information matrix.
func NewPosePrior(pose *node.Pose2Node, prior geometry.Pose2, sqrtinf *mat.TriDense) (*PosePrior, error) {
	b, err := newBase(PosePriorTag, geometry.PoseDim, []node.Node{pose}, sqrtinf)
	if err != nil {
		return nil, err
	}
	return &PosePrior{base: b, pose: pose, prior: prior}, nil
}

// Prior returns the fixed prior value.
func (f *PosePrior) Prior() geometry.Pose2 { return f.prior }

// Initialize seeds the pose with the prior if nothing initialized it yet.
func (f *PosePrior) Initialize() error {
	if f.pose.Initialized() {
		return nil
	}
	return f.pose.Init(f.prior)
}

// BasicError returns the pose value minus the prior, heading standardized.
func (f *PosePrior) BasicError(values []mat.Vector) (*mat.VecDense, error) {
	if err := f.checkValues(values); err != nil {
		return nil, err
	}
	p, err := geometry.Pose2FromVector(values[0])
	if err != nil {
		return nil, err
	}
	return mat.NewVecDense(geometry.PoseDim, []float64{
		p.X - f.prior.X,
		p.Y - f.prior.Y,
		geometry.StandardizeRadians(p.Theta - f.prior.Theta),
	}), nil
}

// Jacobian returns the analytic linearization. The error is affine in the
// pose once the angle wrap is ignored, so the derivative block is the
// weighting matrix itself; the residual is still recomputed with the wrapped
// heading at the linearization point.
func (f *PosePrior) Jacobian() (Jacobian, error) {
	p := f.pose.Value0()
	err := mat.NewVecDense(geometry.PoseDim, []float64{
		p.X - f.prior.X,
		p.Y - f.prior.Y,
		geometry.StandardizeRadians(p.Theta - f.prior.Theta),
	})
	return Jacobian{
		Residual: f.weight(err),
		Terms:    []Term{{Node: f.pose, Matrix: mat.DenseCopyOf(f.sqrtinf)}},
	}, nil
}

// Write emits the textual form of the factor.
func (f *PosePrior) Write(w io.Writer) error {
	if err := f.writeHeader(w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, " %s %s", f.prior, EncodeSqrtInf(f.sqrtinf))
	return err
}
