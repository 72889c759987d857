package anf

import (
	"fmt"
	"math"
	"runtime"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
)

// FuseMode selects the fusion strategy.
type FuseMode string

const (
	// ModeOneStep blends the views' full transition matrices by weighted
	// average, with no cross-view interaction terms.
	ModeOneStep FuseMode = "one-step"
	// ModeTwoStep combines eight structurally distinct diffusion terms
	// built from sparse/full walk products across view pairs.
	ModeTwoStep FuseMode = "two-step"
)

// View is one measurement modality over the shared object set: an
// affinity matrix plus its fusion weight. All views passed to Fuse must
// have the same dimension and the same implicit object ordering.
type View struct {
	// Name identifies the view in errors and diagnostics. Optional.
	Name string

	// Affinity is the view's n×n similarity matrix, e.g. from Affinity.
	Affinity *mat.Dense

	// Weight is the view's non-negative fusion weight. Weights are
	// normalized to sum to 1 across views before use; they must not all
	// be zero.
	Weight float64
}

// FuseConfig controls the fusion engine.
// Start with [DefaultFuseConfig] and override the fields you need.
type FuseConfig struct {
	// K is the neighbor count for each view's sparsified transition
	// matrix. Must satisfy 1 <= K < n. 0 means min(20, n-1).
	K int

	// Mode is the fusion strategy. Default: ModeTwoStep.
	Mode FuseMode

	// Alpha weights the eight two-step diffusion terms. Entries must be
	// non-negative and not all zero; they are normalized to sum to 1
	// over the feasible terms. Ignored in one-step mode. The zero value
	// is replaced by DefaultAlpha.
	Alpha [8]float64

	// Workers controls the number of goroutines for per-view transition
	// computation. 0 means runtime.NumCPU(); 1 disables parallelism.
	Workers int

	// Verbose enables diagnostic logging of per-term contributions and
	// clamped numeric edge cases through Logger. Diagnostics never alter
	// numerical results.
	Verbose bool

	// Logger receives diagnostics when Verbose is set.
	Logger zerolog.Logger
}

// DefaultAlpha returns the default two-step term weights: only the two
// empirically dominant terms are active -- each view's own self-diffusion
// and the symmetric cross-view double sparsification.
func DefaultAlpha() [8]float64 {
	return [8]float64{1, 1, 0, 0, 0, 0, 0, 0}
}

// DefaultFuseConfig returns a FuseConfig with reasonable defaults.
func DefaultFuseConfig() FuseConfig {
	return FuseConfig{
		Mode:   ModeTwoStep,
		Alpha:  DefaultAlpha(),
		Logger: zerolog.Nop(),
	}
}

// Fuse combines the weighted views into a single row-stochastic fused
// transition matrix.
//
// For each view it derives the full transition matrix P_v (row-normalized
// affinity) and the KNN transition matrix S_v, then blends them according
// to cfg.Mode: one-step returns the weighted average of the P_v; two-step
// combines eight diffusion terms selected by cfg.Alpha (see twostep.go).
// The result is row-renormalized so the transition invariant holds despite
// floating-point drift from summing averaged stochastic matrices.
//
// Structural and parameter errors (dimension mismatch, all-zero weights,
// K out of range, unknown mode) are rejected before any computation and
// wrap ErrShapeMismatch or ErrInvalidParameter. Two-step fusion with a
// single view degrades to the self-diffusion terms only, since cross-view
// terms have no pairs to sum over; it is an error if Alpha selects none
// of the feasible terms.
//
// Caller-supplied views, weights, and matrices are never mutated.
func Fuse(views []View, cfg FuseConfig) (*mat.Dense, error) {
	n, err := validateViews(views)
	if err != nil {
		return nil, err
	}
	applyFuseDefaults(&cfg, n)
	if err := validateFuseConfig(&cfg, n); err != nil {
		return nil, err
	}

	diag := newDiagnostics(cfg.Verbose, cfg.Logger)
	weights := normalizedWeights(views)

	trans, clamped := computeViewTransitions(views, cfg.K, cfg.Workers)
	diag.Instability("transition", clamped)

	var fused *mat.Dense
	switch cfg.Mode {
	case ModeOneStep:
		fused = fuseOneStep(trans, weights, n)
	case ModeTwoStep:
		fused, err = fuseTwoStep(trans, weights, cfg.Alpha, n, diag)
		if err != nil {
			return nil, err
		}
	}

	diag.Fused(cfg.Mode, len(views), maxRowSumDrift(fused))
	clamped = rowNormalize(fused)
	diag.Instability("fused", clamped)
	return fused, nil
}

// fuseOneStep returns the weighted average of the full transition
// matrices. Weights sum to 1, so the result is row-stochastic up to
// floating-point drift.
func fuseOneStep(trans []viewTransition, weights []float64, n int) *mat.Dense {
	fused := mat.NewDense(n, n, nil)
	for v, t := range trans {
		if weights[v] == 0 {
			continue
		}
		addScaled(fused, weights[v], t.full)
	}
	return fused
}

// validateViews checks the view set for structural errors and returns the
// shared dimension n.
func validateViews(views []View) (int, error) {
	if len(views) == 0 {
		return 0, fmt.Errorf("%w: no views supplied", ErrInvalidParameter)
	}

	var n int
	for i, v := range views {
		// Concrete nil check: a nil *mat.Dense wrapped in the mat.Matrix
		// interface would slip past checkSquare's interface comparison.
		if v.Affinity == nil {
			return 0, fmt.Errorf("%w: view %s has nil affinity matrix",
				ErrShapeMismatch, viewLabel(i, v))
		}
		vn, err := checkSquare(v.Affinity)
		if err != nil {
			return 0, fmt.Errorf("view %s: %w", viewLabel(i, v), err)
		}
		if i == 0 {
			n = vn
		} else if vn != n {
			return 0, fmt.Errorf("%w: view %s is %dx%d, view %s is %dx%d",
				ErrShapeMismatch, viewLabel(i, v), vn, vn, viewLabel(0, views[0]), n, n)
		}
		if v.Weight < 0 || math.IsNaN(v.Weight) {
			return 0, fmt.Errorf("%w: view %s has weight %v, want >= 0",
				ErrInvalidParameter, viewLabel(i, v), v.Weight)
		}
	}

	var sum float64
	for _, v := range views {
		sum += v.Weight
	}
	if sum <= 0 {
		return 0, fmt.Errorf("%w: view weights must not be all zero", ErrInvalidParameter)
	}
	return n, nil
}

// applyFuseDefaults fills in zero-valued config fields with their defaults.
func applyFuseDefaults(cfg *FuseConfig, n int) {
	if cfg.K == 0 {
		cfg.K = min(20, n-1)
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeTwoStep
	}
	if cfg.Alpha == ([8]float64{}) {
		cfg.Alpha = DefaultAlpha()
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
}

// validateFuseConfig checks parameters against the shared dimension.
func validateFuseConfig(cfg *FuseConfig, n int) error {
	if cfg.K < 1 || cfg.K >= n {
		return fmt.Errorf("%w: K must be in [1, %d), got %d", ErrInvalidParameter, n, cfg.K)
	}
	switch cfg.Mode {
	case ModeOneStep, ModeTwoStep:
	default:
		return fmt.Errorf("%w: unsupported fusion mode %q", ErrInvalidParameter, cfg.Mode)
	}
	if cfg.Mode == ModeTwoStep {
		var sum float64
		for t, a := range cfg.Alpha {
			if a < 0 || math.IsNaN(a) {
				return fmt.Errorf("%w: alpha[%d] is %v, want >= 0", ErrInvalidParameter, t, a)
			}
			sum += a
		}
		if sum <= 0 {
			return fmt.Errorf("%w: alpha must not be all zero", ErrInvalidParameter)
		}
	}
	return nil
}

// normalizedWeights returns a fresh weight slice scaled to sum to 1.
// The views themselves are left untouched.
func normalizedWeights(views []View) []float64 {
	weights := make([]float64, len(views))
	var sum float64
	for i, v := range views {
		weights[i] = v.Weight
		sum += v.Weight
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

func viewLabel(i int, v View) string {
	if v.Name != "" {
		return fmt.Sprintf("%q", v.Name)
	}
	return fmt.Sprintf("#%d", i)
}
