package anf

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// kmeansLabels partitions the rows of points into k clusters with
// k-means++ initialization and Lloyd refinement. The whole procedure is
// deterministic for a given seed. Empty clusters are reseeded to the
// point farthest from its current centroid.
func kmeansLabels(points *mat.Dense, k int, seed int64, maxIter int, tol float64) []int {
	n, dims := points.Dims()
	rng := rand.New(rand.NewSource(seed))

	centroids := kmeansPlusPlusInit(points, k, rng)
	labels := make([]int, n)

	for iter := 0; iter < maxIter; iter++ {
		moved := assignLabels(points, centroids, labels)
		shift := recomputeCentroids(points, labels, centroids, dims)
		if moved == 0 || shift <= tol {
			break
		}
	}
	return labels
}

// kmeansPlusPlusInit chooses k initial centroids: the first uniformly at
// random, each next one sampled proportionally to its squared distance
// from the nearest centroid chosen so far.
func kmeansPlusPlusInit(points *mat.Dense, k int, rng *rand.Rand) [][]float64 {
	n, dims := points.Dims()
	centroids := make([][]float64, 0, k)

	first := make([]float64, dims)
	copy(first, points.RawRowView(rng.Intn(n)))
	centroids = append(centroids, first)

	d2 := make([]float64, n)
	for len(centroids) < k {
		var total float64
		for i := 0; i < n; i++ {
			d2[i] = sqDistToNearest(points.RawRowView(i), centroids)
			total += d2[i]
		}

		var next int
		if total <= 0 {
			// All points coincide with a centroid; any choice works.
			next = rng.Intn(n)
		} else {
			target := rng.Float64() * total
			var cum float64
			next = n - 1
			for i := 0; i < n; i++ {
				cum += d2[i]
				if cum >= target {
					next = i
					break
				}
			}
		}

		c := make([]float64, dims)
		copy(c, points.RawRowView(next))
		centroids = append(centroids, c)
	}
	return centroids
}

// assignLabels moves each point to its nearest centroid and returns how
// many assignments changed.
func assignLabels(points *mat.Dense, centroids [][]float64, labels []int) int {
	n, _ := points.Dims()
	moved := 0
	for i := 0; i < n; i++ {
		row := points.RawRowView(i)
		best, bestDist := 0, sqDist(row, centroids[0])
		for c := 1; c < len(centroids); c++ {
			if d := sqDist(row, centroids[c]); d < bestDist {
				best, bestDist = c, d
			}
		}
		if labels[i] != best {
			labels[i] = best
			moved++
		}
	}
	return moved
}

// recomputeCentroids replaces each centroid with the mean of its members
// and returns the total squared centroid movement. An empty cluster takes
// over the point farthest from its assigned centroid, which keeps k
// clusters alive deterministically.
func recomputeCentroids(points *mat.Dense, labels []int, centroids [][]float64, dims int) float64 {
	n, _ := points.Dims()
	k := len(centroids)

	sums := make([][]float64, k)
	counts := make([]int, k)
	for c := range sums {
		sums[c] = make([]float64, dims)
	}
	for i := 0; i < n; i++ {
		row := points.RawRowView(i)
		c := labels[i]
		counts[c]++
		for j, v := range row {
			sums[c][j] += v
		}
	}

	var shift float64
	for c := 0; c < k; c++ {
		if counts[c] == 0 {
			far := farthestPoint(points, labels, centroids)
			shift += sqDist(centroids[c], points.RawRowView(far))
			copy(centroids[c], points.RawRowView(far))
			labels[far] = c
			continue
		}
		for j := range sums[c] {
			sums[c][j] /= float64(counts[c])
		}
		shift += sqDist(centroids[c], sums[c])
		copy(centroids[c], sums[c])
	}
	return shift
}

// farthestPoint returns the index of the point with the greatest squared
// distance to its assigned centroid.
func farthestPoint(points *mat.Dense, labels []int, centroids [][]float64) int {
	n, _ := points.Dims()
	best, bestDist := 0, -1.0
	for i := 0; i < n; i++ {
		if d := sqDist(points.RawRowView(i), centroids[labels[i]]); d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func sqDistToNearest(p []float64, centroids [][]float64) float64 {
	best := sqDist(p, centroids[0])
	for _, c := range centroids[1:] {
		if d := sqDist(p, c); d < best {
			best = d
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
