package snn

import "fmt"

// KDTreeValidMetric reports whether the metric supports KD-tree acceleration.
// KD-trees require metrics that decompose along coordinate axes:
// Euclidean, Manhattan, Chebyshev, Minkowski.
func KDTreeValidMetric(m DistanceMetric) bool {
	switch m.(type) {
	case EuclideanMetric, ManhattanMetric, ChebyshevMetric, MinkowskiMetric:
		return true
	default:
		return false
	}
}

// BallTreeValidMetric reports whether the metric supports ball tree acceleration.
// Ball trees work with any metric that satisfies the triangle inequality;
// cosine distance does not.
func BallTreeValidMetric(m DistanceMetric) bool {
	switch m.(type) {
	case EuclideanMetric, ManhattanMetric, ChebyshevMetric, MinkowskiMetric:
		return true
	default:
		return false
	}
}

// selectAlgorithm resolves AlgorithmAuto into a concrete neighbor searcher
// based on the metric and data dimensionality, and validates that forced
// choices are compatible with the metric.
func selectAlgorithm(opts Options, dims int) (Algorithm, error) {
	algo := opts.Algorithm

	if algo == AlgorithmAuto {
		if !BallTreeValidMetric(opts.Metric) {
			return AlgorithmBrute, nil
		}
		if KDTreeValidMetric(opts.Metric) && dims <= 60 {
			return AlgorithmKDTree, nil
		}
		return AlgorithmBallTree, nil
	}

	switch algo {
	case AlgorithmKDTree:
		if !KDTreeValidMetric(opts.Metric) {
			return "", fmt.Errorf("%w: metric %T is not supported by the KD-tree searcher", ErrInvalidOptions, opts.Metric)
		}
	case AlgorithmBallTree:
		if !BallTreeValidMetric(opts.Metric) {
			return "", fmt.Errorf("%w: metric %T is not supported by the ball tree searcher", ErrInvalidOptions, opts.Metric)
		}
	case AlgorithmGonumKDTree:
		if _, ok := opts.Metric.(EuclideanMetric); !ok {
			return "", fmt.Errorf("%w: metric %T is not supported by the gonum KD-tree searcher", ErrInvalidOptions, opts.Metric)
		}
	}

	return algo, nil
}
