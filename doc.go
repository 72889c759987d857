// Package anf implements Affinity Network Fusion (ANF) for multi-view
// clustering.
//
// ANF combines several similarity networks defined over the same set of
// objects -- one per measurement view -- into a single consensus transition
// matrix via one-step or two-step random-walk fusion, and partitions the
// fused network with spectral clustering.
//
// Basic usage, starting from one distance matrix per view:
//
//	a1, _ := anf.Affinity(dist1, 20, 0.5)
//	a2, _ := anf.Affinity(dist2, 20, 0.5)
//	fused, err := anf.Fuse([]anf.View{
//	    {Name: "mrna", Affinity: a1, Weight: 1},
//	    {Name: "methylation", Affinity: a2, Weight: 1},
//	}, anf.DefaultFuseConfig())
//	result, err := anf.SpectralCluster(fused, 4, anf.DefaultSpectralConfig())
//	// result.Labels[i] is the cluster ID for object i
//
// For raw feature tables, PairwiseDistances builds the input distance
// matrix with a pluggable metric:
//
//	dist, err := anf.PairwiseDistances(features, anf.EuclideanMetric{})
//
// # Fusion modes
//
// One-step fusion (ModeOneStep) is the weighted average of each view's
// full random-walk transition matrix. It is the cheapest and most stable
// combination and appropriate when the views largely agree.
//
// Two-step fusion (ModeTwoStep, the default) uses each view's K-nearest-
// neighbor graph as a sparsifying operator around another view's diffusion
// step, producing eight structurally distinct terms selected by
// FuseConfig.Alpha. The default alpha activates the two empirically
// dominant terms: each view's own sparse-then-full walk, and the
// symmetric cross-view double sparsification.
//
// All operations are pure: inputs are never mutated, every stage returns
// a fresh matrix, and no component retains state across calls.
package anf
