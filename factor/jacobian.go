package factor

import (
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"

	"github.com/viam-modules/planar-slam/node"
)

// DefaultNumericalStep is the central-difference step used when no step size
// is configured.
const DefaultNumericalStep = 1e-6

// Term couples one node with its weighted derivative block.
type Term struct {
	Node   node.Node
	Matrix *mat.Dense
}

// Jacobian is a linearized factor: the weighted residual at the linearization
// point and one weighted derivative term per coupled node, in node order.
type Jacobian struct {
	Residual *mat.VecDense
	Terms    []Term
}

// NumericalJacobian linearizes f about the linearization points of its nodes
// by central differences over BasicError. Factors without an analytic
// derivative fall back to it; residual semantics are identical either way.
// A non-positive step selects DefaultNumericalStep.
func NumericalJacobian(f Factor, step float64) (Jacobian, error) {
	if step <= 0 {
		step = DefaultNumericalStep
	}
	nodes := f.Nodes()
	total := 0
	for _, n := range nodes {
		total += n.Dim()
	}
	x0 := make([]float64, 0, total)
	for _, n := range nodes {
		v := n.Vector0()
		for i := 0; i < v.Len(); i++ {
			x0 = append(x0, v.AtVec(i))
		}
	}

	split := func(x []float64) []mat.Vector {
		values := make([]mat.Vector, len(nodes))
		off := 0
		for i, n := range nodes {
			d := n.Dim()
			values[i] = mat.NewVecDense(d, x[off:off+d])
			off += d
		}
		return values
	}

	var evalErr error
	eval := func(y, x []float64) {
		r, err := f.BasicError(split(x))
		if err != nil {
			if evalErr == nil {
				evalErr = err
			}
			for i := range y {
				y[i] = 0
			}
			return
		}
		for i := range y {
			y[i] = r.AtVec(i)
		}
	}

	dst := mat.NewDense(f.Dim(), total, nil)
	fd.Jacobian(dst, eval, x0, &fd.JacobianSettings{Formula: fd.Central, Step: step})
	if evalErr != nil {
		return Jacobian{}, evalErr
	}

	basic, err := f.BasicError(split(x0))
	if err != nil {
		return Jacobian{}, err
	}

	var weighted mat.Dense
	weighted.Mul(f.SqrtInf(), dst)
	var residual mat.VecDense
	residual.MulVec(f.SqrtInf(), basic)

	terms := make([]Term, len(nodes))
	off := 0
	for i, n := range nodes {
		d := n.Dim()
		terms[i] = Term{Node: n, Matrix: mat.DenseCopyOf(weighted.Slice(0, f.Dim(), off, off+d))}
		off += d
	}
	return Jacobian{Residual: &residual, Terms: terms}, nil
}
