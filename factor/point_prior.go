package factor

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/viam-modules/planar-slam/geometry"
	"github.com/viam-modules/planar-slam/node"
)

// PointPrior anchors a single landmark to an absolute position estimate.
type PointPrior struct {
	base
	point *node.Point2Node
	prior geometry.Point2
}

// NewPointPrior builds a prior on a point node with a 2x2 upper-triangular
// square root information matrix.
func NewPointPrior(point *node.Point2Node, prior geometry.Point2, sqrtinf *mat.TriDense) (*PointPrior, error) {
	b, err := newBase(PointPriorTag, geometry.PointDim, []node.Node{point}, sqrtinf)
	if err != nil {
		return nil, err
	}
	return &PointPrior{base: b, point: point, prior: prior}, nil
}

// Prior returns the fixed prior value.
func (f *PointPrior) Prior() geometry.Point2 { return f.prior }

// Initialize seeds the point with the prior if nothing initialized it yet. A
// prior is self-sufficient, so no neighbor needs to be initialized first.
func (f *PointPrior) Initialize() error {
	if f.point.Initialized() {
		return nil
	}
	return f.point.Init(f.prior)
}

// BasicError returns the point value minus the prior.
func (f *PointPrior) BasicError(values []mat.Vector) (*mat.VecDense, error) {
	if err := f.checkValues(values); err != nil {
		return nil, err
	}
	p, err := geometry.Point2FromVector(values[0])
	if err != nil {
		return nil, err
	}
	return mat.NewVecDense(geometry.PointDim, []float64{p.X - f.prior.X, p.Y - f.prior.Y}), nil
}

// Jacobian falls back to numerical differentiation; the residual is linear in
// the point, so the central difference is exact up to rounding.
func (f *PointPrior) Jacobian() (Jacobian, error) {
	return NumericalJacobian(f, 0)
}

// Write emits the textual form of the factor.
func (f *PointPrior) Write(w io.Writer) error {
	if err := f.writeHeader(w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, " %s %s", f.prior, EncodeSqrtInf(f.sqrtinf))
	return err
}
