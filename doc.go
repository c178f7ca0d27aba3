// Package snn builds shared-nearest-neighbor (SNN) graphs.
//
// Each point is connected to every other point that shares at least one
// member of its k-nearest-neighbor neighborhood (the point itself counts as
// a member of its own neighborhood). The edge weight measures how strong the
// overlap is, under one of three schemes:
//
//   - SchemeRanked: k - 0.5*r, where r is the smallest sum of the ranks a
//     shared neighbor has in both neighborhoods.
//   - SchemeNumber: the number of shared neighbors.
//   - SchemeJaccard: shared / (2*(k+1) - shared).
//
// Weights are floored at MinWeight. The result is an edge list meant to be
// handed to a community-detection algorithm.
//
// Basic usage:
//
//	opts := snn.DefaultOptions()
//	opts.NumNeighbors = 15
//	opts.Scheme = snn.SchemeJaccard
//	res, err := snn.Build(points, opts)
//	// res.Edges[2*e], res.Edges[2*e+1] are the endpoints of edge e
//	// res.Weights[e] is its weight
//
// For neighbors computed elsewhere:
//
//	nn, err := snn.FindNearestNeighbors(ctx, searcher, k, workers)
//	res, err := snn.BuildFromNeighbors(nn, opts)
//
// # Neighbor search
//
// By default (Algorithm: "auto") the k-nearest neighbors are found with an
// exact KD-tree for axis-decomposable metrics in up to 60 dimensions, a ball
// tree for other tree-compatible metrics, and brute force otherwise. Any
// type implementing Searcher can be supplied instead through
// BuildFromSearcher.
//
// # Determinism
//
// The edge list is ordered by the larger endpoint, then the smaller one, and
// is identical for every value of Options.Workers.
package snn
