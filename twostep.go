package anf

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// The eight two-step diffusion terms. Each term composes one view's
// sparsified walk S with another's (or its own) full walk P, in one of
// four structural families:
//
//	term 1: S_v·P_v         self pure-diffusion (sparse-then-full walk)
//	term 2: S_u·P_v·S_uᵀ    symmetric cross double-sparsification, u != v
//	term 3: S_u·P_v         cross pure-diffusion, u != v
//	term 4: S_v·P_v·S_vᵀ    self symmetric double-sparsification
//	term 5: S_v·P_v·P_v     self chained, extra diffusion hop
//	term 6: S_u·P_v·P_v     cross chained, extra diffusion hop, u != v
//	term 7: S_u·S_v·P_v     cross chained, extra sparsification hop, u != v
//	term 8: S_u·P_v·P_v·S_uᵀ symmetric chained, u != v
//
// Self terms sum over views with coefficient w_v; pair terms sum over
// ordered pairs u != v with coefficient w_u·w_v, renormalized so the
// coefficients are convex. Every term is row-renormalized before the
// outer alpha weighting, so each is a valid transition matrix on its own
// (the transposed factors would otherwise break row-stochasticity).
const numTwoStepTerms = 8

// pairTerm reports whether term t sums over ordered view pairs u != v
// (as opposed to over single views).
func pairTerm(t int) bool {
	switch t {
	case 1, 2, 5, 6, 7:
		return true
	}
	return false
}

// fuseTwoStep combines the eight diffusion terms selected by alpha.
// Pair terms are infeasible when there is a single view, or when one view
// carries all the weight (every w_u·w_v with u != v is zero); alpha is
// renormalized over the feasible terms, and selecting only infeasible
// terms is an error.
func fuseTwoStep(trans []viewTransition, weights []float64, alpha [8]float64, n int, diag diagnostics) (*mat.Dense, error) {
	pairTotal := pairWeightTotal(weights)
	feasible := func(t int) bool { return !pairTerm(t) || pairTotal > 0 }

	var alphaSum float64
	for t := 0; t < numTwoStepTerms; t++ {
		if feasible(t) {
			alphaSum += alpha[t]
		}
	}
	if alphaSum <= 0 {
		return nil, fmt.Errorf(
			"%w: alpha selects only cross-view terms, but %d view(s) carry weight",
			ErrInvalidParameter, len(trans))
	}

	fused := mat.NewDense(n, n, nil)
	for t := 0; t < numTwoStepTerms; t++ {
		if !feasible(t) || alpha[t] == 0 {
			continue
		}
		term := twoStepTerm(t, trans, weights, pairTotal, n)
		clamped := rowNormalize(term)
		c := alpha[t] / alphaSum
		diag.Instability(fmt.Sprintf("term-%d", t+1), clamped)
		diag.Term(t, c, frobeniusNorm(term))
		addScaled(fused, c, term)
	}
	return fused, nil
}

// pairWeightTotal is the sum of w_u·w_v over ordered pairs u != v.
func pairWeightTotal(weights []float64) float64 {
	var total float64
	for u := range weights {
		for v := range weights {
			if u != v {
				total += weights[u] * weights[v]
			}
		}
	}
	return total
}

// twoStepTerm builds term t as a weighted sum over views or view pairs.
func twoStepTerm(t int, trans []viewTransition, weights []float64, pairTotal float64, n int) *mat.Dense {
	switch t {
	case 0: // S_v·P_v
		return combineSelf(trans, weights, n, func(v viewTransition, out *mat.Dense) {
			out.Mul(v.sparse, v.full)
		})
	case 1: // S_u·P_v·S_uᵀ
		return combinePairs(trans, weights, pairTotal, n, func(u, v viewTransition, out *mat.Dense) {
			var sp mat.Dense
			sp.Mul(u.sparse, v.full)
			out.Mul(&sp, u.sparse.T())
		})
	case 2: // S_u·P_v
		return combinePairs(trans, weights, pairTotal, n, func(u, v viewTransition, out *mat.Dense) {
			out.Mul(u.sparse, v.full)
		})
	case 3: // S_v·P_v·S_vᵀ
		return combineSelf(trans, weights, n, func(v viewTransition, out *mat.Dense) {
			var sp mat.Dense
			sp.Mul(v.sparse, v.full)
			out.Mul(&sp, v.sparse.T())
		})
	case 4: // S_v·P_v·P_v
		return combineSelf(trans, weights, n, func(v viewTransition, out *mat.Dense) {
			var sp mat.Dense
			sp.Mul(v.sparse, v.full)
			out.Mul(&sp, v.full)
		})
	case 5: // S_u·P_v·P_v
		return combinePairs(trans, weights, pairTotal, n, func(u, v viewTransition, out *mat.Dense) {
			var sp mat.Dense
			sp.Mul(u.sparse, v.full)
			out.Mul(&sp, v.full)
		})
	case 6: // S_u·S_v·P_v
		return combinePairs(trans, weights, pairTotal, n, func(u, v viewTransition, out *mat.Dense) {
			var ss mat.Dense
			ss.Mul(u.sparse, v.sparse)
			out.Mul(&ss, v.full)
		})
	case 7: // S_u·P_v·P_v·S_uᵀ
		return combinePairs(trans, weights, pairTotal, n, func(u, v viewTransition, out *mat.Dense) {
			var sp, spp mat.Dense
			sp.Mul(u.sparse, v.full)
			spp.Mul(&sp, v.full)
			out.Mul(&spp, u.sparse.T())
		})
	}
	panic(fmt.Sprintf("anf: unknown two-step term %d", t))
}

// combineSelf accumulates Σ_v w_v·f(v). Weights sum to 1, so the result
// is a convex combination of the per-view products.
func combineSelf(trans []viewTransition, weights []float64, n int, f func(v viewTransition, out *mat.Dense)) *mat.Dense {
	acc := mat.NewDense(n, n, nil)
	out := mat.NewDense(n, n, nil)
	for i, v := range trans {
		if weights[i] == 0 {
			continue
		}
		f(v, out)
		addScaled(acc, weights[i], out)
	}
	return acc
}

// combinePairs accumulates Σ_{u != v} w_u·w_v·f(u, v), scaled by 1/pairTotal
// so the pair coefficients are convex.
func combinePairs(trans []viewTransition, weights []float64, pairTotal float64, n int, f func(u, v viewTransition, out *mat.Dense)) *mat.Dense {
	acc := mat.NewDense(n, n, nil)
	out := mat.NewDense(n, n, nil)
	for u := range trans {
		for v := range trans {
			if u == v {
				continue
			}
			c := weights[u] * weights[v] / pairTotal
			if c == 0 {
				continue
			}
			f(trans[u], trans[v], out)
			addScaled(acc, c, out)
		}
	}
	return acc
}
