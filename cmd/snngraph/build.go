package main

import (
	"fmt"
	"io"

	"github.com/TrevorS/snn"
	"github.com/spf13/cobra"
)

func newBuildCmd(a *app) *cobra.Command {
	var (
		flags         config
		input         string
		neighborsPath string
		output        string
		components    bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the SNN graph",
		Long: `Build the shared-nearest-neighbor graph and write its edge list.

Points are read from a CSV file (--input), or precomputed neighbor lists from
the JSON written by "snngraph neighbors" (--neighbors-file). With neighbor
lists, each list's length is used as k and the search flags are ignored.

CSV output has the header i,j,weight with i > j on every row.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config(cmd, flags)
			if err != nil {
				return err
			}
			if cfg.Format != formatCSV && cfg.Format != formatJSON {
				return fmt.Errorf("%w: unknown output format %q", snn.ErrInvalidOptions, cfg.Format)
			}
			opts, err := cfg.options(a.logger)
			if err != nil {
				return err
			}

			var res *snn.Result
			if neighborsPath != "" {
				var nn *snn.Neighbors
				err = withInput(cmd, neighborsPath, func(r io.Reader) error {
					nn, err = readNeighbors(r)
					return err
				})
				if err != nil {
					return err
				}
				res, err = snn.BuildFromNeighbors(nn, opts)
			} else {
				var points [][]float64
				err = withInput(cmd, input, func(r io.Reader) error {
					points, err = readPoints(r)
					return err
				})
				if err != nil {
					return err
				}
				res, err = snn.Build(points, opts)
			}
			if err != nil {
				return err
			}

			a.logger.Info("snn graph built", "points", res.NumCells, "edges", res.NumEdges(), "scheme", opts.Scheme.String())
			err = withOutput(cmd, output, func(w io.Writer) error {
				if cfg.Format == formatJSON {
					return writeEdgesJSON(w, res, opts.Scheme)
				}
				return writeEdgesCSV(w, res)
			})
			if err != nil {
				return err
			}

			if components {
				printComponents(cmd.ErrOrStderr(), res)
			}
			return nil
		},
	}

	bindOptionFlags(cmd, &flags)
	cmd.Flags().StringVar(&flags.Format, "format", formatCSV, "output format: csv or json")
	cmd.Flags().StringVarP(&input, "input", "i", "-", "CSV file with one point per row (- for stdin)")
	cmd.Flags().StringVar(&neighborsPath, "neighbors-file", "", "JSON neighbor lists written by the neighbors command")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file (- for stdout)")
	cmd.Flags().BoolVar(&components, "components", false, "print a connected-component summary to stderr")
	cmd.MarkFlagsMutuallyExclusive("input", "neighbors-file")
	return cmd
}

// printComponents writes the component count and the size of the largest
// component.
func printComponents(w io.Writer, res *snn.Result) {
	labels, count := res.Components()
	sizes := make([]int, count)
	for _, l := range labels {
		sizes[l]++
	}
	largest := 0
	for _, s := range sizes {
		largest = max(largest, s)
	}
	fmt.Fprintf(w, "points=%d edges=%d components=%d largest=%d\n", res.NumCells, res.NumEdges(), count, largest)
}
