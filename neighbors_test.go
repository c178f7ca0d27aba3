package snn

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) NumPoints() int {
	return m.Called().Int(0)
}

func (m *mockSearcher) Search(i, k int) ([]int, []float64, error) {
	args := m.Called(i, k)
	idx, _ := args.Get(0).([]int)
	dist, _ := args.Get(1).([]float64)
	return idx, dist, args.Error(2)
}

func TestFindNearestNeighbors_SearchFailure(t *testing.T) {
	errBoom := errors.New("index unavailable")
	s := &mockSearcher{}
	s.On("NumPoints").Return(10)
	s.On("Search", 3, 4).Return(nil, nil, errBoom)
	s.On("Search", mock.Anything, 4).Return([]int{}, nil, nil)

	nn, err := FindNearestNeighbors(t.Context(), s, 4, 1)
	require.ErrorIs(t, err, ErrSearch)
	require.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "point 3")
	assert.Nil(t, nn)
	s.AssertNotCalled(t, "Search", 4, 4)
}

func TestBuildFromSearcher_SearchFailure(t *testing.T) {
	errBoom := errors.New("index unavailable")
	s := &mockSearcher{}
	s.On("NumPoints").Return(50)
	s.On("Search", 17, mock.Anything).Return(nil, nil, errBoom)
	s.On("Search", mock.Anything, mock.Anything).Return([]int{}, []float64{}, nil)

	opts := DefaultOptions()
	opts.Workers = 4
	res, err := BuildFromSearcher(t.Context(), s, opts)
	require.ErrorIs(t, err, ErrSearch)
	assert.Nil(t, res)
}

func TestFindNearestNeighbors_InvalidProviderOutput(t *testing.T) {
	tests := []struct {
		name    string
		idx     []int
		dist    []float64
		wantErr error
	}{
		{"too many", []int{1, 2, 3}, nil, ErrSearch},
		{"self", []int{0, 1}, nil, ErrInvalidNeighbors},
		{"out of range", []int{9}, nil, ErrInvalidNeighbors},
		{"distance length", []int{1, 2}, []float64{0.5}, ErrSearch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &mockSearcher{}
			s.On("NumPoints").Return(4)
			s.On("Search", 0, 2).Return(tt.idx, tt.dist, nil)

			_, err := FindNearestNeighbors(t.Context(), s, 2, 1)
			require.ErrorIs(t, err, ErrSearch)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFindNearestNeighbors_ClampsK(t *testing.T) {
	s := &mockSearcher{}
	s.On("NumPoints").Return(3)
	s.On("Search", 0, 2).Return([]int{1, 2}, []float64{1, 2}, nil)
	s.On("Search", 1, 2).Return([]int{0, 2}, []float64{1, 1}, nil)
	s.On("Search", 2, 2).Return([]int{1, 0}, []float64{1, 2}, nil)

	nn, err := FindNearestNeighbors(t.Context(), s, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 2}, {0, 2}, {1, 0}}, nn.Indices)
	s.AssertExpectations(t)
}

func TestFindNearestNeighbors_InvalidArguments(t *testing.T) {
	s := &Neighbors{Indices: [][]int{{1}, {0}}}

	_, err := FindNearestNeighbors(t.Context(), s, 0, 1)
	require.ErrorIs(t, err, ErrInvalidOptions)
	_, err = FindNearestNeighbors(t.Context(), s, 1, 0)
	require.ErrorIs(t, err, ErrInvalidOptions)
}

func TestFindNearestNeighbors_Canceled(t *testing.T) {
	n, dims := 100, 2
	s, err := NewSearcher(generateFlatData(n, dims, 1), n, dims, DefaultOptions())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	nn, err := FindNearestNeighbors(ctx, s, 5, 3)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, nn)
}

func TestFindNearestNeighbors_Empty(t *testing.T) {
	nn, err := FindNearestNeighbors(t.Context(), &Neighbors{}, 5, 2)
	require.NoError(t, err)
	assert.Empty(t, nn.Indices)
}

func TestFindNearestNeighbors_WorkerCountInvariance(t *testing.T) {
	n, dims := 700, 3
	s, err := NewSearcher(generateFlatData(n, dims, 2), n, dims, DefaultOptions())
	require.NoError(t, err)

	base, err := FindNearestNeighbors(t.Context(), s, 8, 1)
	require.NoError(t, err)
	for _, workers := range []int{2, 5, 16} {
		nn, err := FindNearestNeighbors(t.Context(), s, 8, workers)
		require.NoError(t, err)
		assert.Equal(t, base, nn, "workers=%d", workers)
	}
}

// Precomputed lists can be served back through the Searcher interface,
// truncated to the requested k.
func TestNeighbors_AsSearcher(t *testing.T) {
	nn := &Neighbors{
		Indices:   [][]int{{1, 2, 3}, {0, 2, 3}, {3, 1, 0}, {2, 1, 0}},
		Distances: [][]float64{{1, 2, 3}, {1, 1, 2}, {1, 1, 2}, {1, 2, 3}},
	}
	require.NoError(t, nn.validate())

	opts := DefaultOptions()
	opts.NumNeighbors = 2
	opts.ReportNeighbors = true
	res, err := BuildFromSearcher(t.Context(), nn, opts)
	require.NoError(t, err)

	truncated := &Neighbors{Indices: [][]int{{1, 2}, {0, 2}, {3, 1}, {2, 1}}}
	want, err := BuildFromNeighbors(truncated, opts)
	require.NoError(t, err)
	assert.Equal(t, want.Edges, res.Edges)
	assert.Equal(t, want.Weights, res.Weights)
	assert.Equal(t, truncated.Indices, res.Neighbors.Indices)
	assert.Equal(t, []float64{1, 1}, res.Neighbors.Distances[2])

	_, _, err = nn.Search(4, 1)
	assert.Error(t, err)
}

func TestNeighbors_AsSearcherMismatchedDistances(t *testing.T) {
	tests := []struct {
		name string
		nn   *Neighbors
	}{
		{
			name: "short distance list",
			nn: &Neighbors{
				Indices:   [][]int{{1, 2}, {0, 2}, {0, 1}},
				Distances: [][]float64{{1}, {1, 2}, {1, 2}},
			},
		},
		{
			name: "missing distance lists",
			nn: &Neighbors{
				Indices:   [][]int{{1, 2}, {0, 2}, {0, 1}},
				Distances: [][]float64{{1, 2}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := BuildFromSearcher(t.Context(), tt.nn, DefaultOptions())
			require.ErrorIs(t, err, ErrSearch)
			assert.Nil(t, res)
		})
	}
}

func TestBuildFromSearcher_NilSearcher(t *testing.T) {
	res, err := BuildFromSearcher(t.Context(), nil, DefaultOptions())
	require.ErrorIs(t, err, ErrInvalidOptions)
	assert.Nil(t, res)

	nn, err := FindNearestNeighbors(t.Context(), nil, 3, 1)
	require.ErrorIs(t, err, ErrInvalidOptions)
	assert.Nil(t, nn)
}
