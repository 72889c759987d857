package anf

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestEuclideanDistance_HandComputed(t *testing.T) {
	m := EuclideanMetric{}
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}
	// sqrt((4-1)^2 + (6-2)^2 + (3-3)^2) = sqrt(9+16) = 5
	if d := m.Distance(a, b); !almostEqual(d, 5.0, floatTol) {
		t.Errorf("expected 5.0, got %v", d)
	}
}

func TestEuclideanDistance_IdenticalVectors(t *testing.T) {
	m := EuclideanMetric{}
	a := []float64{1, 2, 3}
	if d := m.Distance(a, a); d != 0 {
		t.Errorf("expected 0, got %v", d)
	}
}

func TestSquaredEuclideanDistance(t *testing.T) {
	m := SquaredEuclideanMetric{}
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}
	if d := m.Distance(a, b); !almostEqual(d, 25.0, floatTol) {
		t.Errorf("expected 25.0, got %v", d)
	}
}

func TestManhattanDistance_HandComputed(t *testing.T) {
	m := ManhattanMetric{}
	a := []float64{1, 2, 3}
	b := []float64{4, 0, 3}
	if d := m.Distance(a, b); !almostEqual(d, 5.0, floatTol) {
		t.Errorf("expected 5.0, got %v", d)
	}
}

func TestCosineDistance_OrthogonalVectors(t *testing.T) {
	m := CosineMetric{}
	a := []float64{1, 0}
	b := []float64{0, 1}
	if d := m.Distance(a, b); !almostEqual(d, 1.0, floatTol) {
		t.Errorf("expected 1.0, got %v", d)
	}
}

func TestDistanceFunc_Adapter(t *testing.T) {
	f := DistanceFunc(func(a, b []float64) float64 { return 42 })
	if d := f.Distance(nil, nil); d != 42 {
		t.Errorf("expected 42, got %v", d)
	}
}

func TestPairwiseDistances_SymmetricZeroDiagonal(t *testing.T) {
	data := [][]float64{{0, 0}, {3, 4}, {6, 8}}
	d, err := PairwiseDistances(data, EuclideanMetric{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, _ := d.Dims()
	for i := 0; i < n; i++ {
		if d.At(i, i) != 0 {
			t.Errorf("diagonal (%d,%d): got %v, want 0", i, i, d.At(i, i))
		}
		for j := 0; j < n; j++ {
			if d.At(i, j) != d.At(j, i) {
				t.Errorf("asymmetric at (%d,%d)", i, j)
			}
		}
	}
	if !almostEqual(d.At(0, 1), 5, floatTol) {
		t.Errorf("d(0,1): got %v, want 5", d.At(0, 1))
	}
	if !almostEqual(d.At(0, 2), 10, floatTol) {
		t.Errorf("d(0,2): got %v, want 10", d.At(0, 2))
	}
}

func TestPairwiseDistancesParallel_MatchesSequential(t *testing.T) {
	data := generateFeatureRows(57, 3, 7)
	seq, err := PairwiseDistances(data, EuclideanMetric{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, workers := range []int{2, 4, 16} {
		par, err := PairwiseDistancesParallel(data, EuclideanMetric{}, workers)
		if err != nil {
			t.Fatalf("unexpected error with %d workers: %v", workers, err)
		}
		if !mat.Equal(seq, par) {
			t.Errorf("parallel result with %d workers differs from sequential", workers)
		}
	}
}

func TestPairwiseDistances_Errors(t *testing.T) {
	if _, err := PairwiseDistances(nil, EuclideanMetric{}); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("empty data: expected ErrShapeMismatch, got %v", err)
	}
	ragged := [][]float64{{1, 2}, {1, 2, 3}}
	if _, err := PairwiseDistances(ragged, EuclideanMetric{}); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("ragged data: expected ErrShapeMismatch, got %v", err)
	}
	if _, err := PairwiseDistances([][]float64{{1}}, nil); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("nil metric: expected ErrInvalidParameter, got %v", err)
	}
}
