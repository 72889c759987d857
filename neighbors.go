package anf

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// NeighborGraph sparsifies an affinity matrix to its K-nearest-neighbor
// subgraph and returns it as a row-stochastic transition matrix.
//
// For each row i, the k columns with greatest affinity (excluding the
// diagonal) are retained and row-normalized to sum to 1; every other
// off-diagonal entry is zero. Ties between equal affinities are broken by
// the lower column index, so the selection is deterministic. If all
// retained affinities are zero, the row falls back to uniform weight over
// the k selected neighbors.
//
// The result is generally asymmetric: i selecting j as a neighbor does
// not make j select i. That asymmetry is intentional and preserved;
// symmetrization, where a fusion term needs it, happens inside Fuse.
func NeighborGraph(aff mat.Matrix, k int) (*mat.Dense, error) {
	n, err := checkSquare(aff)
	if err != nil {
		return nil, err
	}
	if k < 1 || k >= n {
		return nil, fmt.Errorf("%w: K must be in [1, %d), got %d", ErrInvalidParameter, n, k)
	}

	s := mat.NewDense(n, n, nil)
	idx := make([]int, 0, n-1)
	for i := 0; i < n; i++ {
		idx = idx[:0]
		for j := 0; j < n; j++ {
			if j != i {
				idx = append(idx, j)
			}
		}
		// Stable sort on a slice already ordered by column index keeps
		// the lower index first among equal affinities.
		sort.SliceStable(idx, func(a, b int) bool {
			return aff.At(i, idx[a]) > aff.At(i, idx[b])
		})

		top := idx[:k]
		var sum float64
		for _, j := range top {
			sum += aff.At(i, j)
		}
		if sum <= 0 {
			for _, j := range top {
				s.Set(i, j, 1/float64(k))
			}
			continue
		}
		for _, j := range top {
			s.Set(i, j, aff.At(i, j)/sum)
		}
	}
	return s, nil
}

// fullTransition row-normalizes an affinity matrix into a full (dense)
// transition matrix, with no sparsification. Returns the number of rows
// that needed the uniform fallback.
func fullTransition(aff mat.Matrix) (*mat.Dense, int) {
	n, _ := aff.Dims()
	p := mat.NewDense(n, n, nil)
	p.Copy(aff)
	fallbacks := rowNormalize(p)
	return p, fallbacks
}
