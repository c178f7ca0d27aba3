package snn

import (
	"fmt"
	"time"
)

// NewSearcher builds the neighbor searcher selected by opts.Algorithm and
// opts.Metric over a flat row-major buffer of n points with dims features.
// The buffer is copied; later changes to data do not affect the searcher.
func NewSearcher(data []float64, n, dims int, opts Options) (Searcher, error) {
	opts, err := prepare(opts)
	if err != nil {
		return nil, err
	}
	if n < 0 || dims < 0 {
		return nil, fmt.Errorf("%w: n and dims must be >= 0, got n=%d dims=%d", ErrDimensionMismatch, n, dims)
	}
	if len(data) != n*dims {
		return nil, fmt.Errorf("%w: data length %d does not match n*dims = %d (n=%d, dims=%d)",
			ErrDimensionMismatch, len(data), n*dims, n, dims)
	}
	return newSearcher(data, n, dims, opts)
}

// newSearcher expects validated options and a correctly sized buffer.
func newSearcher(data []float64, n, dims int, opts Options) (Searcher, error) {
	algo, err := selectAlgorithm(opts, dims)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var s Searcher
	switch algo {
	case AlgorithmKDTree:
		s = &treeSearcher{tree: NewKDTree(data, n, dims, opts.Metric, opts.LeafSize)}
	case AlgorithmBallTree:
		s = &treeSearcher{tree: NewBallTree(data, n, dims, opts.Metric, opts.LeafSize)}
	case AlgorithmGonumKDTree:
		s = newGonumSearcher(data, n, dims)
	default:
		s = newBruteSearcher(data, n, dims, opts.Metric)
	}

	opts.Logger.Debug("neighbor index built",
		"algorithm", string(algo),
		"points", n,
		"dims", dims,
		"elapsed", time.Since(start),
	)
	return s, nil
}

// treeSearcher adapts a SpatialTree to the Searcher interface.
type treeSearcher struct {
	tree SpatialTree
}

func (s *treeSearcher) NumPoints() int { return s.tree.NumPoints() }

func (s *treeSearcher) Search(i, k int) ([]int, []float64, error) {
	if err := checkPoint(i, s.tree.NumPoints()); err != nil {
		return nil, nil, err
	}
	dims := s.tree.NumFeatures()
	// One extra slot for the query point itself, which the tree returns.
	idx, dist := s.tree.QueryPoint(s.tree.Data()[i*dims:(i+1)*dims], k+1)
	idx, dist = excludeSelf(i, k, idx, dist)
	return idx, dist, nil
}

// bruteSearcher scans every point for each query. It supports any metric,
// including DistanceFunc and CosineMetric.
type bruteSearcher struct {
	data   []float64
	n      int
	dims   int
	metric DistanceMetric
}

func newBruteSearcher(data []float64, n, dims int, metric DistanceMetric) *bruteSearcher {
	dataCopy := make([]float64, len(data))
	copy(dataCopy, data)
	return &bruteSearcher{data: dataCopy, n: n, dims: dims, metric: metric}
}

func (s *bruteSearcher) NumPoints() int { return s.n }

func (s *bruteSearcher) Search(i, k int) ([]int, []float64, error) {
	if err := checkPoint(i, s.n); err != nil {
		return nil, nil, err
	}
	if k <= 0 {
		return []int{}, []float64{}, nil
	}
	query := s.data[i*s.dims : (i+1)*s.dims]
	h := make(knnHeap, 0, k)
	for j := 0; j < s.n; j++ {
		if j == i {
			continue
		}
		h.offer(k, j, s.metric.Distance(query, s.data[j*s.dims:(j+1)*s.dims]))
	}
	idx, dist := h.drain()
	return idx, dist, nil
}

func checkPoint(i, n int) error {
	if i < 0 || i >= n {
		return fmt.Errorf("point %d out of range [0, %d)", i, n)
	}
	return nil
}

// excludeSelf removes point i from a result sorted by distance and trims it
// to at most k entries.
func excludeSelf(i, k int, idx []int, dist []float64) ([]int, []float64) {
	for r, p := range idx {
		if p == i {
			idx = append(idx[:r], idx[r+1:]...)
			dist = append(dist[:r], dist[r+1:]...)
			break
		}
	}
	if len(idx) > k {
		idx, dist = idx[:k], dist[:k]
	}
	return idx, dist
}
