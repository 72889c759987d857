package anf

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// DistanceMetric measures dissimilarity between two feature vectors.
// Metrics must be symmetric and return 0 for identical vectors.
type DistanceMetric interface {
	Distance(a, b []float64) float64
}

// DistanceFunc adapts a plain function into a DistanceMetric.
type DistanceFunc func(a, b []float64) float64

func (f DistanceFunc) Distance(a, b []float64) float64 { return f(a, b) }

// EuclideanMetric computes the Euclidean (L2) distance.
type EuclideanMetric struct{}

func (EuclideanMetric) Distance(a, b []float64) float64 {
	return math.Sqrt(euclideanSumOfSquares(a, b))
}

// SquaredEuclideanMetric computes squared Euclidean distance (skips sqrt).
type SquaredEuclideanMetric struct{}

func (SquaredEuclideanMetric) Distance(a, b []float64) float64 {
	return euclideanSumOfSquares(a, b)
}

func euclideanSumOfSquares(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// ManhattanMetric computes the Manhattan (L1 / city-block) distance.
type ManhattanMetric struct{}

func (ManhattanMetric) Distance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum
}

// CosineMetric computes the cosine distance: 1 - cosine_similarity.
// For two zero vectors, the result is NaN (0/0).
type CosineMetric struct{}

func (CosineMetric) Distance(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	return 1.0 - dot/math.Sqrt(normA*normB)
}

// PairwiseDistances computes the full n×n distance matrix over the rows
// of data. All rows must have the same dimensionality. The result is a
// symmetric matrix with zero diagonal, suitable as input to Affinity.
func PairwiseDistances(data [][]float64, metric DistanceMetric) (*mat.Dense, error) {
	return PairwiseDistancesParallel(data, metric, 1)
}

// PairwiseDistancesParallel is PairwiseDistances with the upper-triangle
// rows split across numWorkers goroutines. The result is bitwise identical
// to the sequential computation; numWorkers <= 1 runs sequentially.
func PairwiseDistancesParallel(data [][]float64, metric DistanceMetric, numWorkers int) (*mat.Dense, error) {
	n := len(data)
	if n == 0 {
		return nil, fmt.Errorf("%w: no data rows", ErrShapeMismatch)
	}
	if metric == nil {
		return nil, fmt.Errorf("%w: metric is nil", ErrInvalidParameter)
	}
	dims := len(data[0])
	for i, row := range data {
		if len(row) != dims {
			return nil, fmt.Errorf("%w: row %d has %d features, row 0 has %d",
				ErrShapeMismatch, i, len(row), dims)
		}
	}

	out := mat.NewDense(n, n, nil)
	fill := func(start, end int) {
		for i := start; i < end; i++ {
			for j := i + 1; j < n; j++ {
				d := metric.Distance(data[i], data[j])
				out.Set(i, j, d)
				out.Set(j, i, d)
			}
		}
	}

	if numWorkers <= 1 || n <= 1 {
		fill(0, n)
		return out, nil
	}
	parallelRows(n, numWorkers, fill)
	return out, nil
}
