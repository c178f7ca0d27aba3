package snn

import "container/heap"

// NodeData describes a single node in a spatial tree.
type NodeData struct {
	IdxStart, IdxEnd int
	IsLeaf           bool
	Radius           float64 // ball tree radius; 0 for KD-tree
}

// SpatialTree is the read interface shared by KDTree and BallTree.
// A built tree is immutable, so queries may run concurrently.
type SpatialTree interface {
	// QueryPoint finds the k nearest points to query, sorted by distance
	// (ties by index). The query point itself is not excluded.
	QueryPoint(query []float64, k int) (indices []int, distances []float64)

	// Data returns the flat row-major point data owned by the tree.
	Data() []float64

	// NumPoints returns the number of points in the tree.
	NumPoints() int

	// NumFeatures returns the dimensionality of each point.
	NumFeatures() int

	// IdxArray returns the permutation array mapping tree-order positions
	// back to original point indices.
	IdxArray() []int

	// NodeDataArray returns the metadata for every node in the tree.
	NodeDataArray() []NodeData
}

// --- max-heap for KNN queries ---

type knnItem struct {
	index int
	dist  float64
}

// knnHeap is a max-heap of knnItem used as a bounded priority queue. The
// top is the current worst neighbor: largest distance, then largest index.
type knnHeap []knnItem

func (h knnHeap) Len() int { return len(h) }
func (h knnHeap) Less(i, j int) bool {
	if h[i].dist == h[j].dist {
		return h[i].index > h[j].index
	}
	return h[i].dist > h[j].dist
}
func (h knnHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *knnHeap) Push(x interface{}) { *h = append(*h, x.(knnItem)) }
func (h *knnHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// offer adds a candidate if the heap has room or the candidate beats the
// current worst entry.
func (h *knnHeap) offer(k, index int, dist float64) {
	if h.Len() < k {
		heap.Push(h, knnItem{index: index, dist: dist})
		return
	}
	top := (*h)[0]
	if dist < top.dist || (dist == top.dist && index < top.index) {
		(*h)[0] = knnItem{index: index, dist: dist}
		heap.Fix(h, 0)
	}
}

// drain empties the heap into ascending (distance, index) order.
func (h *knnHeap) drain() ([]int, []float64) {
	nResults := h.Len()
	idx := make([]int, nResults)
	dist := make([]float64, nResults)
	for i := nResults - 1; i >= 0; i-- {
		item := heap.Pop(h).(knnItem)
		idx[i] = item.index
		dist[i] = item.dist
	}
	return idx, dist
}
