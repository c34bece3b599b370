// Package geometry provides the planar value types of the factor layer: a 2D
// point and a 2D rigid pose with closed-form composition and frame transforms.
package geometry

import (
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

const (
	// PointDim is the vector dimension of a planar point.
	PointDim = 2
	// PoseDim is the vector dimension of a planar pose.
	PoseDim = 3
)

// Point2 is a planar point value.
type Point2 struct {
	X, Y float64
}

// Vector returns the point in vector form (x, y).
func (p Point2) Vector() *mat.VecDense {
	return mat.NewVecDense(PointDim, []float64{p.X, p.Y})
}

// Point2FromVector builds a point from its vector form.
func Point2FromVector(v mat.Vector) (Point2, error) {
	if v.Len() != PointDim {
		return Point2{}, errors.Errorf("point vector must have dimension %d, got %d", PointDim, v.Len())
	}
	return Point2{X: v.AtVec(0), Y: v.AtVec(1)}, nil
}

// R2 returns the point as an r2.Point.
func (p Point2) R2() r2.Point {
	return r2.Point{X: p.X, Y: p.Y}
}

// Point2FromR2 builds a point from an r2.Point.
func Point2FromR2(q r2.Point) Point2 {
	return Point2{X: q.X, Y: q.Y}
}

// Distance returns the Euclidean distance to q.
func (p Point2) Distance(q Point2) float64 {
	return p.R2().Sub(q.R2()).Norm()
}

func (p Point2) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}
