package snn

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// MinWeight is the smallest weight ever stored on an edge. Downstream
// consumers commonly treat non-positive weights as a missing edge.
const MinWeight = 1e-6

// Scheme selects how the shared-neighbor overlap of two points is turned
// into an edge weight.
type Scheme int

const (
	// SchemeRanked weights an edge by the smallest combined rank of any
	// shared neighbor: k - 0.5*minRank.
	SchemeRanked Scheme = iota
	// SchemeNumber weights an edge by the number of shared neighbors.
	SchemeNumber
	// SchemeJaccard weights an edge by the Jaccard index of the two
	// neighborhoods (each including the point itself).
	SchemeJaccard
)

func (s Scheme) String() string {
	switch s {
	case SchemeRanked:
		return "ranked"
	case SchemeNumber:
		return "number"
	case SchemeJaccard:
		return "jaccard"
	default:
		return fmt.Sprintf("Scheme(%d)", int(s))
	}
}

// ParseScheme maps "ranked", "number" or "jaccard" (case-insensitive) to a Scheme.
func ParseScheme(s string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ranked", "rank":
		return SchemeRanked, nil
	case "number":
		return SchemeNumber, nil
	case "jaccard":
		return SchemeJaccard, nil
	}
	return 0, fmt.Errorf("%w: unknown weighting scheme %q", ErrInvalidOptions, s)
}

// Algorithm selects the nearest-neighbor search provider used when the
// graph is built from coordinates.
type Algorithm string

const (
	AlgorithmAuto        Algorithm = "auto"
	AlgorithmBrute       Algorithm = "brute"
	AlgorithmKDTree      Algorithm = "kdtree"
	AlgorithmBallTree    Algorithm = "balltree"
	AlgorithmGonumKDTree Algorithm = "gonum_kdtree"
)

// Options controls SNN graph construction.
// Start with [DefaultOptions] and override the fields you need.
type Options struct {
	// NumNeighbors is the number of nearest neighbors (k) looked up for every
	// point. Values above n-1 are clamped to n-1. Must be >= 1. Default: 10.
	NumNeighbors int

	// Scheme is the edge weighting scheme. Default: SchemeRanked.
	Scheme Scheme

	// Workers is the number of goroutines used for the neighbor search and
	// for graph assembly. The output does not depend on it. Must be >= 1.
	// Default: 1.
	Workers int

	// Metric is the distance used by the built-in neighbor searchers.
	// Ignored by BuildFromSearcher and BuildFromNeighbors.
	// Default: EuclideanMetric.
	Metric DistanceMetric

	// Algorithm selects the built-in neighbor searcher.
	// "auto" picks a KD-tree for axis-decomposable metrics in up to 60
	// dimensions, a ball tree for other tree-compatible metrics and brute
	// force otherwise. "gonum_kdtree" only supports EuclideanMetric.
	// Default: "auto".
	Algorithm Algorithm

	// LeafSize is the maximum number of points in a spatial tree leaf.
	// Default: 40.
	LeafSize int

	// ReportNeighbors stores the neighbor lists used to build the graph in
	// Result.Neighbors. When false that field is left nil. Default: false.
	ReportNeighbors bool

	// Logger receives debug records about each stage. Default: slog.Default().
	Logger *slog.Logger
}

// Result is a weighted undirected graph in edge-list form.
type Result struct {
	// NumCells is the number of nodes (points).
	NumCells int

	// Edges holds 2*E node indices; edge e joins Edges[2*e] and Edges[2*e+1].
	// The first endpoint is always the larger index.
	Edges []int

	// Weights holds one weight per edge, each >= MinWeight.
	Weights []float64

	// Neighbors is set only when Options.ReportNeighbors is true.
	Neighbors *Neighbors
}

// DefaultOptions returns Options with reasonable defaults.
func DefaultOptions() Options {
	return Options{
		NumNeighbors: 10,
		Scheme:       SchemeRanked,
		Workers:      1,
		Metric:       EuclideanMetric{},
		Algorithm:    AlgorithmAuto,
		LeafSize:     40,
	}
}

// applyDefaults fills in zero-valued config fields with their defaults.
// NumNeighbors and Workers have no zero-value default.
func applyDefaults(opts *Options) {
	if opts.Metric == nil {
		opts.Metric = EuclideanMetric{}
	}
	if opts.Algorithm == "" {
		opts.Algorithm = AlgorithmAuto
	}
	if opts.LeafSize == 0 {
		opts.LeafSize = 40
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
}

// validateOptions checks that opts fields are valid and returns a descriptive error if not.
func validateOptions(opts *Options) error {
	if opts.NumNeighbors < 1 {
		return fmt.Errorf("%w: NumNeighbors must be >= 1, got %d", ErrInvalidOptions, opts.NumNeighbors)
	}
	if opts.Workers < 1 {
		return fmt.Errorf("%w: Workers must be >= 1, got %d", ErrInvalidOptions, opts.Workers)
	}
	switch opts.Scheme {
	case SchemeRanked, SchemeNumber, SchemeJaccard:
		// valid
	default:
		return fmt.Errorf("%w: invalid Scheme %d", ErrInvalidOptions, int(opts.Scheme))
	}
	switch opts.Algorithm {
	case AlgorithmAuto, AlgorithmBrute, AlgorithmKDTree, AlgorithmBallTree, AlgorithmGonumKDTree:
		// valid
	default:
		return fmt.Errorf("%w: invalid Algorithm %q", ErrInvalidOptions, opts.Algorithm)
	}
	if opts.LeafSize < 1 {
		return fmt.Errorf("%w: LeafSize must be >= 1, got %d", ErrInvalidOptions, opts.LeafSize)
	}
	if m, ok := opts.Metric.(MinkowskiMetric); ok && m.P < 1 {
		return fmt.Errorf("%w: MinkowskiMetric.P must be >= 1, got %f", ErrInvalidOptions, m.P)
	}
	return nil
}

// prepare applies defaults to a copy of opts and validates it.
func prepare(opts Options) (Options, error) {
	applyDefaults(&opts)
	if err := validateOptions(&opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// Build constructs the SNN graph for data, where each element is a point and
// all points have the same dimensionality.
func Build(data [][]float64, opts Options) (*Result, error) {
	opts, err := prepare(opts)
	if err != nil {
		return nil, err
	}

	n := len(data)
	if n == 0 {
		return emptyResult(0, opts), nil
	}

	dims := len(data[0])
	flatData := make([]float64, n*dims)
	for i, row := range data {
		if len(row) != dims {
			return nil, fmt.Errorf("%w: point %d has %d features, point 0 has %d", ErrDimensionMismatch, i, len(row), dims)
		}
		copy(flatData[i*dims:], row)
	}

	return buildFlat(flatData, n, dims, opts)
}

// BuildFlat constructs the SNN graph from a flat row-major buffer holding n
// points of dimensionality dims.
func BuildFlat(data []float64, n, dims int, opts Options) (*Result, error) {
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
	if n == 0 {
		return emptyResult(0, opts), nil
	}
	return buildFlat(data, n, dims, opts)
}

func buildFlat(data []float64, n, dims int, opts Options) (*Result, error) {
	searcher, err := newSearcher(data, n, dims, opts)
	if err != nil {
		return nil, err
	}
	return buildFromSearcher(context.Background(), searcher, opts)
}

// BuildFromSearcher constructs the SNN graph using a caller-supplied
// nearest-neighbor search collaborator. All neighbor lists are gathered
// before assembly starts; the first search failure aborts the build.
func BuildFromSearcher(ctx context.Context, s Searcher, opts Options) (*Result, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil Searcher", ErrInvalidOptions)
	}
	opts, err := prepare(opts)
	if err != nil {
		return nil, err
	}
	return buildFromSearcher(ctx, s, opts)
}

func buildFromSearcher(ctx context.Context, s Searcher, opts Options) (*Result, error) {
	nn, err := FindNearestNeighbors(ctx, s, opts.NumNeighbors, opts.Workers)
	if err != nil {
		return nil, err
	}
	n := len(nn.Indices)
	k := min(opts.NumNeighbors, max(n-1, 0))
	if k < opts.NumNeighbors {
		opts.Logger.Debug("NumNeighbors clamped to n-1", "requested", opts.NumNeighbors, "k", k)
	}
	opts.Logger.Debug("neighbor search complete",
		"points", n,
		"k", k,
		"searcher", fmt.Sprintf("%T", s),
	)
	return assemble(nn, opts), nil
}

// BuildFromNeighbors constructs the SNN graph from precomputed neighbor
// lists. Only Scheme, Workers, ReportNeighbors and Logger are used from opts;
// each list's length plays the role of k.
func BuildFromNeighbors(nn *Neighbors, opts Options) (*Result, error) {
	opts, err := prepare(opts)
	if err != nil {
		return nil, err
	}
	if err := nn.validate(); err != nil {
		return nil, err
	}
	return assemble(nn, opts), nil
}

// emptyResult returns a Result with no edges for n points.
func emptyResult(n int, opts Options) *Result {
	r := &Result{
		NumCells: n,
		Edges:    []int{},
		Weights:  []float64{},
	}
	if opts.ReportNeighbors {
		r.Neighbors = &Neighbors{Indices: make([][]int, n)}
	}
	return r
}
