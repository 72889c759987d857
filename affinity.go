package anf

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// DefaultSigma is the default kernel bandwidth multiplier for Affinity.
const DefaultSigma = 0.5

// epsFloor is the smallest allowed local-scaling denominator. Rows whose
// K nearest neighbors all sit at distance zero would otherwise divide by
// zero in the kernel.
const epsFloor = 1e-12

// Affinity converts a pairwise distance matrix into a similarity matrix
// using a local-scaling Gaussian kernel.
//
// For each object i, let mu_i be the mean distance from i to its k nearest
// neighbors (excluding itself). The pairwise scale is
// eps_ij = (mu_i + mu_j + D_ij)/3, clamped to a small positive floor, and
//
//	A_ij = exp(-D_ij² / (sigma·eps_ij²))
//
// The kernel is monotonically decreasing in distance, maps zero distance
// to affinity 1, and the diagonal is fixed at 1 (self-affinity). The
// result is explicitly symmetrized as (A+Aᵀ)/2 so downstream stages see
// exact symmetry even for slightly asymmetric inputs.
//
// k must satisfy 1 <= k < n and sigma must be positive.
func Affinity(dist mat.Matrix, k int, sigma float64) (*mat.Dense, error) {
	n, err := checkSquare(dist)
	if err != nil {
		return nil, err
	}
	if k < 1 || k >= n {
		return nil, fmt.Errorf("%w: K must be in [1, %d), got %d", ErrInvalidParameter, n, k)
	}
	if sigma <= 0 || math.IsNaN(sigma) {
		return nil, fmt.Errorf("%w: sigma must be > 0, got %v", ErrInvalidParameter, sigma)
	}

	mu := knnMeanDistances(dist, n, k)

	a := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		a.Set(i, i, 1)
		for j := i + 1; j < n; j++ {
			d := dist.At(i, j)
			eps := (mu[i] + mu[j] + d) / 3
			if eps < epsFloor {
				eps = epsFloor
			}
			v := math.Exp(-d * d / (sigma * eps * eps))
			a.Set(i, j, v)
			// Mirror entry computed independently so asymmetric inputs
			// average out in the symmetrization below.
			dj := dist.At(j, i)
			epsj := (mu[i] + mu[j] + dj) / 3
			if epsj < epsFloor {
				epsj = epsFloor
			}
			a.Set(j, i, math.Exp(-dj*dj/(sigma*epsj*epsj)))
		}
	}
	return symmetrized(a), nil
}

// knnMeanDistances returns, for each row i, the mean distance from i to
// its k nearest neighbors, excluding the diagonal.
func knnMeanDistances(dist mat.Matrix, n, k int) []float64 {
	mu := make([]float64, n)
	neighbors := make([]float64, 0, n-1)
	for i := 0; i < n; i++ {
		neighbors = neighbors[:0]
		for j := 0; j < n; j++ {
			if j != i {
				neighbors = append(neighbors, dist.At(i, j))
			}
		}
		sort.Float64s(neighbors)
		var sum float64
		for _, d := range neighbors[:k] {
			sum += d
		}
		mu[i] = sum / float64(k)
	}
	return mu
}
