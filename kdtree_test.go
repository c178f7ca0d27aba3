package snn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Construction tests ---

func TestKDTree_Construction_BasicProperties(t *testing.T) {
	// 6 points in 2D
	data := []float64{
		0, 0,
		1, 0,
		2, 0,
		0, 3,
		1, 3,
		2, 3,
	}
	n, dims := 6, 2
	tree := NewKDTree(data, n, dims, EuclideanMetric{}, 2)

	assert.Equal(t, n, tree.NumPoints())
	assert.Equal(t, dims, tree.NumFeatures())
	assert.NotEmpty(t, tree.NodeDataArray())
	assertPermutation(t, tree.IdxArray(), n)
}

func TestKDTree_Construction_LeafSize1(t *testing.T) {
	data := []float64{0, 0, 1, 1, 2, 2, 3, 3}
	tree := NewKDTree(data, 4, 2, EuclideanMetric{}, 1)

	for _, nd := range tree.NodeDataArray() {
		if nd.IsLeaf {
			assert.Equal(t, 1, nd.IdxEnd-nd.IdxStart)
		}
	}
}

func TestKDTree_Construction_LeafSizeLargerThanN(t *testing.T) {
	tree := NewKDTree([]float64{1, 2, 3, 4}, 2, 2, EuclideanMetric{}, 100)

	nodes := tree.NodeDataArray()
	require.Len(t, nodes, 1)
	assert.True(t, nodes[0].IsLeaf)
}

func TestKDTree_CopiesData(t *testing.T) {
	data := []float64{0, 0, 1, 1, 5, 5}
	tree := NewKDTree(data, 3, 2, EuclideanMetric{}, 1)
	data[0] = 100

	idx, _ := tree.QueryPoint([]float64{0, 0}, 1)
	assert.Equal(t, []int{0}, idx)
}

func TestKDTree_EmptyData(t *testing.T) {
	tree := NewKDTree(nil, 0, 2, EuclideanMetric{}, 10)
	idx, dist := tree.QueryPoint([]float64{0, 0}, 3)
	assert.Empty(t, idx)
	assert.Empty(t, dist)
}

// --- KNN query tests ---

func TestKDTree_KNN_BruteForceMatch(t *testing.T) {
	data := []float64{
		0, 0,
		3, 0,
		0, 4,
		3, 4,
		1.5, 2,
	}
	n, dims := 5, 2

	for _, metric := range []DistanceMetric{
		EuclideanMetric{},
		ManhattanMetric{},
		ChebyshevMetric{},
	} {
		s := &treeSearcher{tree: NewKDTree(data, n, dims, metric, 1)}
		for k := 1; k < n; k++ {
			for q := 0; q < n; q++ {
				wantIdx, wantDist := bruteForceKNN(data, n, dims, q, k, metric)
				idx, dist, err := s.Search(q, k)
				require.NoError(t, err)
				assert.Equal(t, wantIdx, idx, "metric=%T k=%d query=%d", metric, k, q)
				assert.InDeltaSlice(t, wantDist, dist, floatTol, "metric=%T k=%d query=%d", metric, k, q)
			}
		}
	}
}

func TestKDTree_KNN_LargerDataset(t *testing.T) {
	n, dims, k := 500, 4, 12
	data := generateFlatData(n, dims, 42)

	for _, metric := range []DistanceMetric{EuclideanMetric{}, ManhattanMetric{}, MinkowskiMetric{P: 3}} {
		s := &treeSearcher{tree: NewKDTree(data, n, dims, metric, 20)}
		for q := 0; q < n; q += 7 {
			wantIdx, wantDist := bruteForceKNN(data, n, dims, q, k, metric)
			idx, dist, err := s.Search(q, k)
			require.NoError(t, err)
			assert.Equal(t, wantIdx, idx, "metric=%T query=%d", metric, q)
			assert.InDeltaSlice(t, wantDist, dist, 1e-12, "metric=%T query=%d", metric, q)
		}
	}
}

// Equal distances resolve to the smaller index, including across leaves.
func TestKDTree_KNN_AllSamePoints(t *testing.T) {
	data := []float64{5, 5, 5, 5, 5, 5, 5, 5, 5, 5}
	n, dims := 5, 2
	tree := NewKDTree(data, n, dims, EuclideanMetric{}, 1)

	idx, dist := tree.QueryPoint([]float64{5, 5}, 3)
	assert.Equal(t, []int{0, 1, 2}, idx)
	assert.Equal(t, []float64{0, 0, 0}, dist)

	s := &treeSearcher{tree: tree}
	idx, _, err := s.Search(0, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, idx)
	idx, _, err = s.Search(4, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, idx)
}

func TestKDTree_KNN_KEqualsN(t *testing.T) {
	data := []float64{0, 0, 1, 1, 2, 2}
	n, dims := 3, 2
	tree := NewKDTree(data, n, dims, EuclideanMetric{}, 1)

	for q := 0; q < n; q++ {
		indices, distances := tree.QueryPoint(data[q*dims:(q+1)*dims], n)
		require.Len(t, indices, n)
		assert.Equal(t, q, indices[0])
		assert.Zero(t, distances[0])
	}
}

func TestKDTree_MinRdistPoint_LowerBound(t *testing.T) {
	data := []float64{
		0, 0,
		1, 1,
		5, 5,
		6, 6,
	}
	for _, metric := range []DistanceMetric{EuclideanMetric{}, ManhattanMetric{}, ChebyshevMetric{}} {
		tree := NewKDTree(data, 4, 2, metric, 1)
		for _, pt := range [][]float64{{3, 3}, {-1, -1}, {10, 10}, {0, 0}} {
			for nodeID := range tree.NodeDataArray() {
				lb := tree.minRdistPoint(nodeID, pt)
				actual := minRdistPointToNode(tree, nodeID, pt, metric)
				assert.LessOrEqual(t, lb, actual+floatTol, "metric=%T node=%d point=%v", metric, nodeID, pt)
			}
		}
	}
}

func assertPermutation(t *testing.T, idx []int, n int) {
	t.Helper()
	require.Len(t, idx, n)
	seen := make(map[int]bool)
	for _, v := range idx {
		assert.True(t, v >= 0 && v < n, "index %d out of range", v)
		assert.False(t, seen[v], "duplicate index %d", v)
		seen[v] = true
	}
}

// minRdistPointToNode computes the actual minimum reduced distance from
// a point to any point in a tree node.
func minRdistPointToNode(tree SpatialTree, nodeID int, point []float64, metric DistanceMetric) float64 {
	nodes := tree.NodeDataArray()
	if nodeID >= len(nodes) {
		return math.Inf(1)
	}
	nd := nodes[nodeID]
	data, idxArray, dims := tree.Data(), tree.IdxArray(), tree.NumFeatures()
	minRdist := math.Inf(1)
	for i := nd.IdxStart; i < nd.IdxEnd; i++ {
		pi := idxArray[i]
		rd := metric.ReducedDistance(point, data[pi*dims:(pi+1)*dims])
		minRdist = math.Min(minRdist, rd)
	}
	return minRdist
}
