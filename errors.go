package snn

import "errors"

// Sentinel errors returned (wrapped) by the Build functions. Use errors.Is to
// branch on them; the wrapped message names the offending field or point.
var (
	// ErrInvalidOptions reports an Options value that fails validation.
	ErrInvalidOptions = errors.New("snn: invalid options")

	// ErrDimensionMismatch reports a coordinate buffer whose shape does not
	// match the declared point count and dimensionality.
	ErrDimensionMismatch = errors.New("snn: dimension mismatch")

	// ErrInvalidNeighbors reports malformed precomputed neighbor lists.
	ErrInvalidNeighbors = errors.New("snn: invalid neighbor lists")

	// ErrSearch reports a failure of the nearest-neighbor search provider.
	ErrSearch = errors.New("snn: neighbor search failed")
)
