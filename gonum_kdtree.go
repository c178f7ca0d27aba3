package snn

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// gonumSearcher answers Euclidean queries with gonum's KD-tree.
type gonumSearcher struct {
	tree   *kdtree.Tree
	points gonumPoints // original order; the tree holds a reordered copy
}

func newGonumSearcher(data []float64, n, dims int) *gonumSearcher {
	points := make(gonumPoints, n)
	for i := range points {
		coords := make([]float64, dims)
		copy(coords, data[i*dims:(i+1)*dims])
		points[i] = gonumPoint{coords: coords, index: i}
	}

	s := &gonumSearcher{points: points}
	if n > 0 {
		treePoints := make(gonumPoints, n)
		copy(treePoints, points)
		s.tree = kdtree.New(treePoints, false)
	}
	return s
}

func (s *gonumSearcher) NumPoints() int { return len(s.points) }

func (s *gonumSearcher) Search(i, k int) ([]int, []float64, error) {
	if err := checkPoint(i, len(s.points)); err != nil {
		return nil, nil, err
	}
	if k <= 0 {
		return []int{}, []float64{}, nil
	}

	keep := kdtree.NewNKeeper(k + 1)
	s.tree.NearestSet(keep, s.points[i])

	found := make([]knnItem, 0, keep.Len())
	for _, c := range keep.Heap {
		if c.Comparable == nil {
			continue // sentinel left in an unfilled keeper
		}
		found = append(found, knnItem{index: c.Comparable.(gonumPoint).index, dist: math.Sqrt(c.Dist)})
	}
	sort.Slice(found, func(a, b int) bool {
		if found[a].dist == found[b].dist {
			return found[a].index < found[b].index
		}
		return found[a].dist < found[b].dist
	})

	idx := make([]int, len(found))
	dist := make([]float64, len(found))
	for r, f := range found {
		idx[r] = f.index
		dist[r] = f.dist
	}
	idx, dist = excludeSelf(i, k, idx, dist)
	return idx, dist, nil
}

// gonumPoint is a kdtree.Comparable that remembers its original index.
type gonumPoint struct {
	coords []float64
	index  int
}

func (p gonumPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return p.coords[d] - c.(gonumPoint).coords[d]
}

func (p gonumPoint) Dims() int { return len(p.coords) }

// Distance returns the squared Euclidean distance, as kdtree expects.
func (p gonumPoint) Distance(c kdtree.Comparable) float64 {
	return euclideanSumOfSquares(p.coords, c.(gonumPoint).coords)
}

// gonumPoints implements kdtree.Interface.
type gonumPoints []gonumPoint

func (p gonumPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p gonumPoints) Len() int                      { return len(p) }
func (p gonumPoints) Pivot(d kdtree.Dim) int        { return gonumPlane{points: p, dim: d}.Pivot() }
func (p gonumPoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}

// gonumPlane sorts gonumPoints along one dimension for pivoting.
type gonumPlane struct {
	points gonumPoints
	dim    kdtree.Dim
}

func (p gonumPlane) Len() int { return len(p.points) }
func (p gonumPlane) Less(i, j int) bool {
	return p.points[i].coords[p.dim] < p.points[j].coords[p.dim]
}
func (p gonumPlane) Swap(i, j int) { p.points[i], p.points[j] = p.points[j], p.points[i] }
func (p gonumPlane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}
func (p gonumPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
