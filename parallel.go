package anf

import (
	"sync"

	"gonum.org/v1/gonum/mat"
)

// parallelRows splits the half-open range [0, n) into contiguous chunks
// and runs fn on each chunk in its own goroutine. Chunks never overlap,
// so fn may write to disjoint row ranges without synchronization.
func parallelRows(n, numWorkers int, fn func(start, end int)) {
	var wg sync.WaitGroup
	rowsPerWorker := (n + numWorkers - 1) / numWorkers

	for w := 0; w < numWorkers; w++ {
		start := w * rowsPerWorker
		end := start + rowsPerWorker
		if end > n {
			end = n
		}
		if start >= n {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(start, end)
	}
	wg.Wait()
}

// viewTransition holds the two per-view transition matrices fusion works
// with: the full row-stochastic walk P and the sparsified KNN walk S.
type viewTransition struct {
	full   *mat.Dense // P_v: row-normalized affinity, no sparsification
	sparse *mat.Dense // S_v: KNN subgraph, row-stochastic
}

// computeViewTransitions derives P_v and S_v for every view, fanning the
// per-view work out across numWorkers goroutines. Each view's computation
// reads only its own affinity matrix, so there are no shared-state
// hazards. numWorkers <= 1 runs sequentially.
//
// Inputs are validated by the caller; NeighborGraph cannot fail here.
// Returns the transitions and the total count of rows that needed the
// uniform row-normalization fallback (a numeric-instability signal).
func computeViewTransitions(views []View, k, numWorkers int) ([]viewTransition, int) {
	m := len(views)
	trans := make([]viewTransition, m)
	fallbacks := make([]int, m)

	compute := func(start, end int) {
		for v := start; v < end; v++ {
			p, fb := fullTransition(views[v].Affinity)
			s, err := NeighborGraph(views[v].Affinity, k)
			if err != nil {
				// Unreachable after Fuse validation; keep the zero matrix
				// rather than panic inside a worker.
				continue
			}
			trans[v] = viewTransition{full: p, sparse: s}
			fallbacks[v] = fb
		}
	}

	if numWorkers <= 1 || m <= 1 {
		compute(0, m)
	} else {
		parallelRows(m, numWorkers, compute)
	}

	total := 0
	for _, fb := range fallbacks {
		total += fb
	}
	return trans, total
}
