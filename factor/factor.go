// Package factor implements the measurement factors of a planar SLAM graph:
// priors on poses and points, relative pose constraints (odometry, loop
// closures and anchored multi-trajectory merges) and landmark observations.
// Each factor turns one measurement into a weighted residual and analytic or
// numerically differentiated derivative blocks for the sparse solver.
package factor

import (
	"io"
	"strconv"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/viam-modules/planar-slam/node"
)

// Tags identifying the concrete factor types.
const (
	PointPriorTag = "Point2Prior"
	PosePriorTag  = "Pose2Prior"
	PosePoseTag   = "Pose2Pose2"
	PosePointTag  = "Pose2Point2"
)

var (
	// ErrSqrtInfShape denotes a weighting matrix that is not upper triangular
	// with side length equal to the factor's residual dimension.
	ErrSqrtInfShape = errors.New("square root information matrix must be upper triangular with side equal to the factor dimension")

	// ErrNodeUninitialized denotes an initialization hook invoked while a node
	// it must derive values from is still uninitialized.
	ErrNodeUninitialized = errors.New("required node is not initialized")

	// ErrAnchorPair denotes a relative pose factor constructed with exactly one
	// of the two anchor nodes.
	ErrAnchorPair = errors.New("anchor nodes must be supplied either both or not at all")

	// ErrWrongValues denotes a residual evaluation with the wrong number or
	// dimension of node values.
	ErrWrongValues = errors.New("values do not match the factor's node list")
)

// A Factor is one weighted cost term of the nonlinear least-squares objective,
// coupling a fixed, ordered set of unknown-variable nodes.
type Factor interface {
	// Tag returns the factor type tag.
	Tag() string
	// Dim returns the residual dimension.
	Dim() int
	// Nodes returns the coupled nodes; order and arity are fixed at construction.
	Nodes() []node.Node
	// SqrtInf returns the upper-triangular square root information matrix.
	SqrtInf() *mat.TriDense
	// Initialize seeds any not-yet-initialized referenced node from its
	// already-initialized neighbors. The graph-construction authority calls it
	// exactly once, right after the factor is added.
	Initialize() error
	// BasicError returns the unweighted residual at the given node values,
	// ordered as Nodes().
	BasicError(values []mat.Vector) (*mat.VecDense, error)
	// Jacobian returns the weighted residual and per-node weighted derivative
	// blocks at the current linearization point.
	Jacobian() (Jacobian, error)
	// Write emits the textual form of the factor.
	Write(w io.Writer) error
}

// base carries the state common to all factors.
type base struct {
	tag     string
	dim     int
	nodes   []node.Node
	sqrtinf *mat.TriDense
}

func newBase(tag string, dim int, nodes []node.Node, sqrtinf *mat.TriDense) (base, error) {
	if sqrtinf == nil {
		return base{}, errors.Wrapf(ErrSqrtInfShape, "%s: matrix is nil", tag)
	}
	n, kind := sqrtinf.Triangle()
	if n != dim || kind != mat.Upper {
		return base{}, errors.Wrapf(ErrSqrtInfShape, "%s: matrix is %dx%d, want %dx%d upper", tag, n, n, dim, dim)
	}
	return base{tag: tag, dim: dim, nodes: nodes, sqrtinf: sqrtinf}, nil
}

// Tag returns the factor type tag.
func (b *base) Tag() string { return b.tag }

// Dim returns the residual dimension.
func (b *base) Dim() int { return b.dim }

// Nodes returns the coupled nodes in their fixed order.
func (b *base) Nodes() []node.Node { return b.nodes }

// SqrtInf returns the upper-triangular square root information matrix.
func (b *base) SqrtInf() *mat.TriDense { return b.sqrtinf }

// checkValues validates a value list against the node list.
func (b *base) checkValues(values []mat.Vector) error {
	if len(values) != len(b.nodes) {
		return errors.Wrapf(ErrWrongValues, "%s: got %d values, want %d", b.tag, len(values), len(b.nodes))
	}
	for i, v := range values {
		if v.Len() != b.nodes[i].Dim() {
			return errors.Wrapf(ErrWrongValues, "%s: value %d has dimension %d, want %d",
				b.tag, i, v.Len(), b.nodes[i].Dim())
		}
	}
	return nil
}

// weight multiplies the basic error by the weighting matrix.
func (b *base) weight(err *mat.VecDense) *mat.VecDense {
	var r mat.VecDense
	r.MulVec(b.sqrtinf, err)
	return &r
}

// weightMat premultiplies a derivative block by the weighting matrix.
func (b *base) weightMat(m mat.Matrix) *mat.Dense {
	var w mat.Dense
	w.Mul(b.sqrtinf, m)
	return &w
}

// writeHeader emits "tag (id1 id2 ...)".
func (b *base) writeHeader(w io.Writer) error {
	if _, err := io.WriteString(w, b.tag+" ("); err != nil {
		return err
	}
	for i, n := range b.nodes {
		sep := " "
		if i == 0 {
			sep = ""
		}
		if _, err := io.WriteString(w, sep+strconv.FormatInt(n.ID(), 10)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, ")")
	return err
}
