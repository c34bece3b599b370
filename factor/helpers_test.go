package factor

import (
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

// eye returns an identity upper-triangular weighting matrix of the given side.
func eye(n int) *mat.TriDense {
	s := mat.NewTriDense(n, mat.Upper, nil)
	for i := 0; i < n; i++ {
		s.SetTri(i, i, 1)
	}
	return s
}

// nodeValues gathers the current value of every node of f, in node order.
func nodeValues(f Factor) []mat.Vector {
	nodes := f.Nodes()
	values := make([]mat.Vector, len(nodes))
	for i, n := range nodes {
		values[i] = n.Vector()
	}
	return values
}

func vecShouldAlmostBeZero(t *testing.T, v *mat.VecDense, tolerance float64) {
	t.Helper()
	for i := 0; i < v.Len(); i++ {
		test.That(t, v.AtVec(i), test.ShouldAlmostEqual, 0, tolerance)
	}
}

func matricesShouldAlmostEqual(t *testing.T, got, want mat.Matrix, tolerance float64) {
	t.Helper()
	gr, gc := got.Dims()
	wr, wc := want.Dims()
	test.That(t, gr, test.ShouldEqual, wr)
	test.That(t, gc, test.ShouldEqual, wc)
	for r := 0; r < gr; r++ {
		for c := 0; c < gc; c++ {
			test.That(t, got.At(r, c), test.ShouldAlmostEqual, want.At(r, c), tolerance)
		}
	}
}
