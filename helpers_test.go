package snn

import (
	"math"
	"math/rand"
	"sort"
)

const floatTol = 1e-10

func generateFlatData(n, dims int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	data := make([]float64, n*dims)
	for i := range data {
		data[i] = rng.Float64()
	}
	return data
}

func generateData(n, dims int, seed int64) [][]float64 {
	flat := generateFlatData(n, dims, seed)
	data := make([][]float64, n)
	for i := range data {
		data[i] = flat[i*dims : (i+1)*dims]
	}
	return data
}

// bruteForceKNN returns the k nearest points to queryIdx, excluding itself,
// ordered by (distance, index).
func bruteForceKNN(data []float64, n, dims, queryIdx, k int, metric DistanceMetric) ([]int, []float64) {
	type distIdx struct {
		dist  float64
		index int
	}
	query := data[queryIdx*dims : (queryIdx+1)*dims]
	all := make([]distIdx, 0, n-1)
	for i := 0; i < n; i++ {
		if i == queryIdx {
			continue
		}
		all = append(all, distIdx{dist: metric.Distance(query, data[i*dims:(i+1)*dims]), index: i})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].dist == all[j].dist {
			return all[i].index < all[j].index
		}
		return all[i].dist < all[j].dist
	})
	k = min(k, len(all))
	idx := make([]int, k)
	dists := make([]float64, k)
	for i := 0; i < k; i++ {
		idx[i] = all[i].index
		dists[i] = all[i].dist
	}
	return idx, dists
}

func bruteForceNeighbors(data []float64, n, dims, k int) [][]int {
	lists := make([][]int, n)
	for i := range lists {
		lists[i], _ = bruteForceKNN(data, n, dims, i, k, EuclideanMetric{})
	}
	return lists
}

type weightedEdge struct {
	i, j   int
	weight float64
}

// referenceGraph evaluates every pair with map-based ranking tables and no
// candidate pruning.
func referenceGraph(lists [][]int, scheme Scheme) []weightedEdge {
	output := []weightedEdge{}
	for i := range lists {
		neighbors := lists[i]
		rankings := map[int]int{i: 0}
		for r := 1; r <= len(neighbors); r++ {
			rankings[neighbors[r-1]] = r
		}

		for j := 0; j < i; j++ {
			nnOfJ := lists[j]
			weight := 0.0
			found := false
			for r := 0; r <= len(nnOfJ); r++ {
				candidate := j
				if r > 0 {
					candidate = nnOfJ[r-1]
				}
				rank, ok := rankings[candidate]
				if !ok {
					continue
				}
				if scheme == SchemeRanked {
					other := float64(rank + r)
					if !found || other < weight {
						weight = other
					}
				} else {
					weight++
				}
				found = true
			}
			if !found {
				continue
			}
			switch scheme {
			case SchemeRanked:
				weight = float64(len(neighbors)) - 0.5*weight
			case SchemeJaccard:
				weight /= 2*float64(len(neighbors)+1) - weight
			}
			output = append(output, weightedEdge{i: i, j: j, weight: math.Max(weight, 1e-6)})
		}
	}
	return output
}

func toEdges(res *Result) []weightedEdge {
	out := make([]weightedEdge, res.NumEdges())
	for e := range out {
		i, j, w := res.Edge(e)
		out[e] = weightedEdge{i: i, j: j, weight: w}
	}
	return out
}

func sortEdges(edges []weightedEdge) {
	sort.Slice(edges, func(a, b int) bool {
		if edges[a].i != edges[b].i {
			return edges[a].i < edges[b].i
		}
		if edges[a].j != edges[b].j {
			return edges[a].j < edges[b].j
		}
		return edges[a].weight < edges[b].weight
	})
}
