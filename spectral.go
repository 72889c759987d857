package anf

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// SpectralConfig controls the spectral clustering step.
// Start with [DefaultSpectralConfig] and override the fields you need.
type SpectralConfig struct {
	// Seed fixes the k-means initialization for reproducibility. Results
	// may still vary slightly across numerical-library backends when the
	// Laplacian has degenerate eigenvalue clusters.
	Seed int64

	// MaxIterations caps the k-means refinement loop. 0 means 100.
	MaxIterations int

	// Tolerance stops k-means once total centroid movement falls below
	// it. 0 means 1e-6.
	Tolerance float64

	// Verbose enables diagnostic logging through Logger.
	Verbose bool

	// Logger receives diagnostics when Verbose is set.
	Logger zerolog.Logger
}

// DefaultSpectralConfig returns a SpectralConfig with reasonable defaults.
func DefaultSpectralConfig() SpectralConfig {
	return SpectralConfig{
		Seed:          1,
		MaxIterations: 100,
		Tolerance:     1e-6,
		Logger:        zerolog.Nop(),
	}
}

// SpectralResult contains the output of spectral clustering.
type SpectralResult struct {
	// Labels assigns each object to a cluster in [0, k).
	Labels []int

	// Eigenvalues are the k smallest eigenvalues of the normalized
	// Laplacian, in ascending order.
	Eigenvalues []float64

	// Embedding is the n×k spectral embedding the labels were computed
	// from: the k bottom eigenvectors as columns, rows scaled to unit
	// norm. Useful for inspection or custom post-processing.
	Embedding *mat.Dense
}

// SpectralCluster partitions the n objects of a similarity or transition
// matrix w into k clusters.
//
// w is symmetrized as (w+wᵀ)/2, turned into the symmetric normalized
// Laplacian L = I - D^{-1/2}·W·D^{-1/2}, and the eigenvectors of the k
// smallest eigenvalues form an n×k embedding. Embedding rows are scaled
// to unit norm to mitigate eigenvector scale skew, then partitioned with
// seeded k-means++.
//
// k must satisfy 1 < k <= n. Zero-degree objects (no similarity to
// anything) get an isolated Laplacian row; this is clamped rather than an
// error and reported when Verbose is set.
func SpectralCluster(w mat.Matrix, k int, cfg SpectralConfig) (*SpectralResult, error) {
	n, err := checkSquare(w)
	if err != nil {
		return nil, err
	}
	if k <= 1 || k > n {
		return nil, fmt.Errorf("%w: k must be in (1, %d], got %d", ErrInvalidParameter, n, k)
	}
	applySpectralDefaults(&cfg)
	diag := newDiagnostics(cfg.Verbose, cfg.Logger)

	ws := symmetrized(w)

	// D^{-1/2}, with zero-degree rows clamped to 0 so the Laplacian row
	// degenerates to the identity row instead of dividing by zero.
	invSqrtDeg := make([]float64, n)
	isolated := 0
	for i := 0; i < n; i++ {
		d := floats.Sum(ws.RawRowView(i))
		if d <= 0 {
			isolated++
			continue
		}
		invSqrtDeg[i] = 1 / math.Sqrt(d)
	}
	diag.Instability("laplacian", isolated)

	lap := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := -invSqrtDeg[i] * ws.At(i, j) * invSqrtDeg[j]
			if i == j {
				v += 1
			}
			lap.SetSym(i, j, v)
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(lap, true) {
		return nil, fmt.Errorf("anf: eigendecomposition of the normalized Laplacian did not converge")
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	// EigenSym orders eigenvalues ascending, so the first k columns are
	// the bottom eigenvectors.
	values := eig.Values(nil)

	emb := mat.NewDense(n, k, nil)
	zeroRows := 0
	for i := 0; i < n; i++ {
		row := emb.RawRowView(i)
		for j := 0; j < k; j++ {
			row[j] = vecs.At(i, j)
		}
		norm := floats.Norm(row, 2)
		if norm <= 0 {
			zeroRows++
			continue
		}
		floats.Scale(1/norm, row)
	}
	diag.Instability("embedding", zeroRows)

	labels := kmeansLabels(emb, k, cfg.Seed, cfg.MaxIterations, cfg.Tolerance)

	return &SpectralResult{
		Labels:      labels,
		Eigenvalues: values[:k:k],
		Embedding:   emb,
	}, nil
}

func applySpectralDefaults(cfg *SpectralConfig) {
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = 100
	}
	if cfg.Tolerance == 0 {
		cfg.Tolerance = 1e-6
	}
}
