package main

import (
	"fmt"
	"io"

	"github.com/TrevorS/snn"
	"github.com/spf13/cobra"
)

func newNeighborsCmd(a *app) *cobra.Command {
	var (
		flags  config
		input  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "neighbors",
		Short: "Compute k-nearest-neighbor lists",
		Long: `Compute the k nearest neighbors of every point in a CSV file and write
them as JSON ({"indices": [...], "distances": [...]}). The output can be
passed to "snngraph build --neighbors-file".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config(cmd, flags)
			if err != nil {
				return err
			}
			opts, err := cfg.options(a.logger)
			if err != nil {
				return err
			}

			var points [][]float64
			err = withInput(cmd, input, func(r io.Reader) error {
				points, err = readPoints(r)
				return err
			})
			if err != nil {
				return err
			}

			data, n, dims, err := flattenPoints(points)
			if err != nil {
				return err
			}
			s, err := snn.NewSearcher(data, n, dims, opts)
			if err != nil {
				return err
			}
			nn, err := snn.FindNearestNeighbors(cmd.Context(), s, opts.NumNeighbors, opts.Workers)
			if err != nil {
				return err
			}

			a.logger.Info("neighbors computed", "points", n, "k", opts.NumNeighbors)
			return withOutput(cmd, output, func(w io.Writer) error {
				return writeNeighbors(w, nn)
			})
		},
	}

	bindOptionFlags(cmd, &flags)
	cmd.Flags().StringVarP(&input, "input", "i", "-", "CSV file with one point per row (- for stdin)")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file (- for stdout)")
	return cmd
}

// flattenPoints packs equal-length rows into a row-major buffer.
func flattenPoints(points [][]float64) (data []float64, n, dims int, err error) {
	n = len(points)
	if n == 0 {
		return nil, 0, 0, nil
	}
	dims = len(points[0])
	data = make([]float64, 0, n*dims)
	for i, p := range points {
		if len(p) != dims {
			return nil, 0, 0, fmt.Errorf("%w: point %d has %d features, point 0 has %d", snn.ErrDimensionMismatch, i, len(p), dims)
		}
		data = append(data, p...)
	}
	return data, n, dims, nil
}
