package snn

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Searcher is the nearest-neighbor search collaborator.
//
// Search returns the k nearest other points of point i, nearest first, with
// i itself excluded. Fewer than k results are allowed when the point set is
// small. distances may be nil when the provider does not expose them.
// Implementations must be safe for concurrent calls to Search.
type Searcher interface {
	NumPoints() int
	Search(i, k int) (indices []int, distances []float64, err error)
}

// Neighbors holds one ordered neighbor list per point.
type Neighbors struct {
	// Indices[i] lists the neighbors of point i, nearest first, excluding i.
	Indices [][]int

	// Distances[i][r] is the distance from point i to Indices[i][r].
	// Nil when the lists were supplied without distances.
	Distances [][]float64
}

// NumPoints returns the number of points the lists describe.
func (nn *Neighbors) NumPoints() int { return len(nn.Indices) }

// Search returns the first k entries of point i's list, so precomputed
// lists can stand in for a live index.
func (nn *Neighbors) Search(i, k int) ([]int, []float64, error) {
	if i < 0 || i >= len(nn.Indices) {
		return nil, nil, fmt.Errorf("point %d out of range [0, %d)", i, len(nn.Indices))
	}
	idx := nn.Indices[i]
	k = min(k, len(idx))
	var dist []float64
	if nn.Distances != nil {
		if i >= len(nn.Distances) {
			return nil, nil, fmt.Errorf("point %d has no distance list (%d lists)", i, len(nn.Distances))
		}
		if d := nn.Distances[i]; d != nil {
			if len(d) < k {
				return nil, nil, fmt.Errorf("point %d has %d neighbors but %d distances", i, len(idx), len(d))
			}
			dist = d[:k]
		}
	}
	return idx[:k], dist, nil
}

// validate checks that every list only names other points in range.
func (nn *Neighbors) validate() error {
	if nn == nil {
		return fmt.Errorf("%w: nil neighbor lists", ErrInvalidNeighbors)
	}
	n := len(nn.Indices)
	if nn.Distances != nil && len(nn.Distances) != n {
		return fmt.Errorf("%w: %d distance lists for %d points", ErrInvalidNeighbors, len(nn.Distances), n)
	}
	for i, list := range nn.Indices {
		if err := checkList(i, n, list); err != nil {
			return err
		}
		if nn.Distances != nil && nn.Distances[i] != nil && len(nn.Distances[i]) != len(list) {
			return fmt.Errorf("%w: point %d has %d neighbors but %d distances",
				ErrInvalidNeighbors, i, len(list), len(nn.Distances[i]))
		}
	}
	return nil
}

func checkList(i, n int, list []int) error {
	for r, j := range list {
		if j < 0 || j >= n {
			return fmt.Errorf("%w: neighbor %d of point %d is %d, outside [0, %d)", ErrInvalidNeighbors, r, i, j, n)
		}
		if j == i {
			return fmt.Errorf("%w: point %d lists itself as neighbor %d", ErrInvalidNeighbors, i, r)
		}
	}
	return nil
}

// FindNearestNeighbors queries s for the k nearest neighbors of every point
// using up to workers concurrent searches. k is clamped to NumPoints()-1.
// The first failing search cancels the remaining ones and its error is
// returned wrapped in ErrSearch; no partial result is returned.
func FindNearestNeighbors(ctx context.Context, s Searcher, k, workers int) (*Neighbors, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: NumNeighbors must be >= 1, got %d", ErrInvalidOptions, k)
	}
	if workers < 1 {
		return nil, fmt.Errorf("%w: Workers must be >= 1, got %d", ErrInvalidOptions, workers)
	}

	if s == nil {
		return nil, fmt.Errorf("%w: nil Searcher", ErrInvalidOptions)
	}

	n := s.NumPoints()
	k = min(k, max(n-1, 0))
	nn := &Neighbors{
		Indices:   make([][]int, n),
		Distances: make([][]float64, n),
	}
	if n == 0 {
		return nn, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	// Each task searches a contiguous block of at most 256 points.
	blockSize := max((n+workers-1)/workers, 1)
	blockSize = min(blockSize, 256)
	for start := 0; start < n; start += blockSize {
		end := min(start+blockSize, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				idx, dist, err := s.Search(i, k)
				if err != nil {
					return fmt.Errorf("%w: point %d: %w", ErrSearch, i, err)
				}
				if len(idx) > k {
					return fmt.Errorf("%w: point %d: provider returned %d neighbors, asked for %d", ErrSearch, i, len(idx), k)
				}
				if dist != nil && len(dist) != len(idx) {
					return fmt.Errorf("%w: point %d: %d indices but %d distances", ErrSearch, i, len(idx), len(dist))
				}
				if err := checkList(i, n, idx); err != nil {
					return fmt.Errorf("%w: %w", ErrSearch, err)
				}
				nn.Indices[i] = idx
				nn.Distances[i] = dist
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return nn, nil
}
