package factor

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrSqrtInfEncoding denotes malformed textual form of a weighting matrix.
var ErrSqrtInfEncoding = errors.New("malformed square root information encoding")

// EncodeSqrtInf renders an upper-triangular weighting matrix as a
// brace-delimited, comma-separated list of its upper-triangular entries in
// row-major order: row 0 all columns, then row 1 from the diagonal rightward,
// and so on.
func EncodeSqrtInf(sqrtinf *mat.TriDense) string {
	n, _ := sqrtinf.Triangle()
	var b strings.Builder
	b.WriteByte('{')
	first := true
	for r := 0; r < n; r++ {
		for c := r; c < n; c++ {
			if !first {
				b.WriteByte(',')
			}
			first = false
			b.WriteString(strconv.FormatFloat(sqrtinf.At(r, c), 'g', -1, 64))
		}
	}
	b.WriteByte('}')
	return b.String()
}

// DecodeSqrtInf parses the encoding produced by EncodeSqrtInf back into an
// upper-triangular matrix of the given side length. The entry count must
// match dim exactly.
func DecodeSqrtInf(text string, dim int) (*mat.TriDense, error) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 2 || trimmed[0] != '{' || trimmed[len(trimmed)-1] != '}' {
		return nil, errors.Wrapf(ErrSqrtInfEncoding, "missing braces in %q", text)
	}
	parts := strings.Split(trimmed[1:len(trimmed)-1], ",")
	want := dim * (dim + 1) / 2
	if len(parts) != want {
		return nil, errors.Wrapf(ErrSqrtInfEncoding, "got %d entries, want %d for a %dx%d matrix",
			len(parts), want, dim, dim)
	}
	sqrtinf := mat.NewTriDense(dim, mat.Upper, nil)
	i := 0
	for r := 0; r < dim; r++ {
		for c := r; c < dim; c++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
			if err != nil {
				return nil, errors.Wrapf(ErrSqrtInfEncoding, "entry %d: %v", i, err)
			}
			sqrtinf.SetTri(r, c, v)
			i++
		}
	}
	return sqrtinf, nil
}
