package anf

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// generateFeatureRows builds n rows of dims pseudo-random features.
func generateFeatureRows(n, dims int, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	data := make([][]float64, n)
	for i := range data {
		data[i] = make([]float64, dims)
		for j := range data[i] {
			data[i][j] = rng.Float64() * 100
		}
	}
	return data
}

// randomDistances builds a random symmetric distance matrix with zero
// diagonal and positive off-diagonal entries.
func randomDistances(n int, seed int64) *mat.Dense {
	rng := rand.New(rand.NewSource(seed))
	d := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := rng.Float64()*9 + 1
			d.Set(i, j, v)
			d.Set(j, i, v)
		}
	}
	return d
}

// randomAffinity builds an affinity matrix from random distances. Panics
// on error; the fixed parameters are always valid.
func randomAffinity(n, k int, seed int64) *mat.Dense {
	a, err := Affinity(randomDistances(n, seed), k, DefaultSigma)
	if err != nil {
		panic(err)
	}
	return a
}

// --- Affinity ---

func benchAffinity(b *testing.B, n int) {
	b.Helper()
	d := randomDistances(n, 42)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Affinity(d, 20, DefaultSigma); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAffinity_100(b *testing.B) { benchAffinity(b, 100) }
func BenchmarkAffinity_500(b *testing.B) { benchAffinity(b, 500) }

// --- NeighborGraph ---

func benchNeighborGraph(b *testing.B, n int) {
	b.Helper()
	a := randomAffinity(n, 20, 42)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := NeighborGraph(a, 20); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkNeighborGraph_100(b *testing.B) { benchNeighborGraph(b, 100) }
func BenchmarkNeighborGraph_500(b *testing.B) { benchNeighborGraph(b, 500) }

// --- Fuse ---

func benchFuse(b *testing.B, n int, mode FuseMode, workers int) {
	b.Helper()
	views := []View{
		{Name: "v1", Affinity: randomAffinity(n, 20, 1), Weight: 1},
		{Name: "v2", Affinity: randomAffinity(n, 20, 2), Weight: 1},
		{Name: "v3", Affinity: randomAffinity(n, 20, 3), Weight: 1},
	}
	cfg := DefaultFuseConfig()
	cfg.Mode = mode
	cfg.Workers = workers
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Fuse(views, cfg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFuseOneStep_100(b *testing.B)          { benchFuse(b, 100, ModeOneStep, 1) }
func BenchmarkFuseTwoStep_100(b *testing.B)          { benchFuse(b, 100, ModeTwoStep, 1) }
func BenchmarkFuseTwoStep_100_Parallel(b *testing.B) { benchFuse(b, 100, ModeTwoStep, 0) }
func BenchmarkFuseTwoStep_300(b *testing.B)          { benchFuse(b, 300, ModeTwoStep, 0) }

// --- SpectralCluster ---

func benchSpectral(b *testing.B, n int) {
	b.Helper()
	w := symmetrized(randomAffinity(n, 20, 42))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := SpectralCluster(w, 5, DefaultSpectralConfig()); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSpectralCluster_100(b *testing.B) { benchSpectral(b, 100) }
func BenchmarkSpectralCluster_300(b *testing.B) { benchSpectral(b, 300) }
