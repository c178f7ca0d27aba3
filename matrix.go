package snn

import (
	"gonum.org/v1/gonum/mat"
)

// Layout describes how points are laid out in a matrix.
type Layout int

const (
	// PointsInRows treats an n×d matrix as n points with d features.
	PointsInRows Layout = iota
	// PointsInColumns treats a d×n matrix as n points with d features.
	PointsInColumns
)

// BuildFromMatrix constructs the SNN graph from a gonum matrix. The matrix
// is read once into a private row-major buffer.
func BuildFromMatrix(m mat.Matrix, layout Layout, opts Options) (*Result, error) {
	data, n, dims := flattenMatrix(m, layout)
	return BuildFlat(data, n, dims, opts)
}

// flattenMatrix copies m into a flat row-major buffer of points.
func flattenMatrix(m mat.Matrix, layout Layout) (data []float64, n, dims int) {
	r, c := m.Dims()
	if layout == PointsInColumns {
		n, dims = c, r
	} else {
		n, dims = r, c
	}

	data = make([]float64, n*dims)
	for i := 0; i < n; i++ {
		row := data[i*dims : (i+1)*dims]
		if layout == PointsInColumns {
			mat.Col(row, i, m)
		} else {
			mat.Row(row, i, m)
		}
	}
	return data, n, dims
}
