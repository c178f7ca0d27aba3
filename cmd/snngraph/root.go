package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

// app carries state shared by every subcommand.
type app struct {
	configPath string
	verbose    bool
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "snngraph",
		Short: "Build shared-nearest-neighbor graphs",
		Long: `snngraph builds shared-nearest-neighbor (SNN) graphs from points.

Subcommands:
  neighbors  - Compute k-nearest-neighbor lists and write them as JSON
  build      - Build the SNN graph from points or from neighbor lists

Settings can be read from a YAML file with --config; flags given on the
command line take precedence over the file.

Examples:
  snngraph neighbors -i cells.csv -k 15 -o nn.json
  snngraph build -i cells.csv -k 15 --scheme jaccard -o edges.csv
  snngraph build --neighbors-file nn.json --format json --components`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if a.verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug records to stderr")

	root.AddCommand(newNeighborsCmd(a))
	root.AddCommand(newBuildCmd(a))
	return root
}

// config loads the config file, if any, and applies the flags explicitly set
// on cmd.
func (a *app) config(cmd *cobra.Command, flags config) (config, error) {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return cfg, err
	}
	overrideConfig(cmd, &cfg, flags)
	return cfg, nil
}
