package anf

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestKMeansLabels_WellSeparatedGroups(t *testing.T) {
	// Five points near the origin, five near (10,10).
	points := mat.NewDense(10, 2, []float64{
		0, 0, 0.1, 0, 0, 0.1, 0.1, 0.1, 0.05, 0.05,
		10, 10, 10.1, 10, 10, 10.1, 10.1, 10.1, 10.05, 10.05,
	})
	labels := kmeansLabels(points, 2, 1, 100, 1e-6)
	truth := []int{0, 0, 0, 0, 0, 1, 1, 1, 1, 1}
	if !samePartition(labels, truth) {
		t.Errorf("did not separate the two groups: %v", labels)
	}
}

func TestKMeansLabels_DeterministicForFixedSeed(t *testing.T) {
	points := mat.NewDense(20, 3, nil)
	for i := 0; i < 20; i++ {
		for j := 0; j < 3; j++ {
			points.Set(i, j, float64((i*7+j*3)%13))
		}
	}
	a := kmeansLabels(points, 4, 5, 100, 1e-6)
	b := kmeansLabels(points, 4, 5, 100, 1e-6)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("labels differ at %d for the same seed", i)
		}
	}
}

func TestKMeansLabels_AllIdenticalPoints(t *testing.T) {
	// Degenerate input: every point coincides. No panic, valid labels.
	points := mat.NewDense(8, 2, nil)
	labels := kmeansLabels(points, 2, 3, 100, 1e-6)
	if len(labels) != 8 {
		t.Fatalf("expected 8 labels, got %d", len(labels))
	}
	for i, l := range labels {
		if l < 0 || l >= 2 {
			t.Errorf("label[%d] = %d out of range", i, l)
		}
	}
}

func TestKMeansPlusPlusInit_DistinctCentroidsWhenPossible(t *testing.T) {
	points := mat.NewDense(4, 1, []float64{0, 1, 10, 11})
	rngSeeds := []int64{1, 2, 3}
	for _, seed := range rngSeeds {
		labels := kmeansLabels(points, 2, seed, 100, 1e-6)
		truth := []int{0, 0, 1, 1}
		if !samePartition(labels, truth) {
			t.Errorf("seed %d: expected split {0,1}|{10,11}, got %v", seed, labels)
		}
	}
}

func TestSqDist(t *testing.T) {
	if d := sqDist([]float64{0, 0}, []float64{3, 4}); d != 25 {
		t.Errorf("got %v, want 25", d)
	}
}
