package anf

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// checkSquare returns the dimension of m or ErrShapeMismatch if m is not
// square or is empty.
func checkSquare(m mat.Matrix) (int, error) {
	if m == nil {
		return 0, fmt.Errorf("%w: matrix is nil", ErrShapeMismatch)
	}
	r, c := m.Dims()
	if r != c {
		return 0, fmt.Errorf("%w: matrix is %dx%d, want square", ErrShapeMismatch, r, c)
	}
	if r == 0 {
		return 0, fmt.Errorf("%w: matrix is empty", ErrShapeMismatch)
	}
	return r, nil
}

// rowNormalize scales each row of m in place to sum to 1. Rows whose sum
// is not positive are replaced by the uniform distribution. Returns the
// number of such fallback rows, so callers can surface a numeric warning.
func rowNormalize(m *mat.Dense) int {
	n, cols := m.Dims()
	fallbacks := 0
	for i := 0; i < n; i++ {
		row := m.RawRowView(i)
		sum := floats.Sum(row)
		if sum <= 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
			for j := range row {
				row[j] = 1 / float64(cols)
			}
			fallbacks++
			continue
		}
		floats.Scale(1/sum, row)
	}
	return fallbacks
}

// symmetrized returns (m + mᵀ)/2 as a new matrix.
func symmetrized(m mat.Matrix) *mat.Dense {
	n, _ := m.Dims()
	out := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		out.Set(i, i, m.At(i, i))
		for j := i + 1; j < n; j++ {
			v := (m.At(i, j) + m.At(j, i)) / 2
			out.Set(i, j, v)
			out.Set(j, i, v)
		}
	}
	return out
}

// addScaled accumulates dst += c*m.
func addScaled(dst *mat.Dense, c float64, m mat.Matrix) {
	n, cols := dst.Dims()
	for i := 0; i < n; i++ {
		row := dst.RawRowView(i)
		for j := 0; j < cols; j++ {
			row[j] += c * m.At(i, j)
		}
	}
}

// maxRowSumDrift reports the largest |rowSum - 1| across rows of m.
func maxRowSumDrift(m *mat.Dense) float64 {
	n, _ := m.Dims()
	drift := 0.0
	for i := 0; i < n; i++ {
		d := math.Abs(floats.Sum(m.RawRowView(i)) - 1)
		if d > drift {
			drift = d
		}
	}
	return drift
}

// frobeniusNorm computes sqrt(sum of squared entries) of m.
func frobeniusNorm(m *mat.Dense) float64 {
	return mat.Norm(m, 2)
}
