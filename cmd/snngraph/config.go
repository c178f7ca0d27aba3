package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/TrevorS/snn"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// config mirrors the YAML config file. Every field can also be set by a flag.
type config struct {
	Neighbors  int     `yaml:"neighbors"`
	Scheme     string  `yaml:"scheme"`
	Workers    int     `yaml:"workers"`
	Metric     string  `yaml:"metric"`
	MinkowskiP float64 `yaml:"minkowski_p"`
	Algorithm  string  `yaml:"algorithm"`
	LeafSize   int     `yaml:"leaf_size"`
	Format     string  `yaml:"format"`
}

func defaultConfig() config {
	opts := snn.DefaultOptions()
	return config{
		Neighbors:  opts.NumNeighbors,
		Scheme:     opts.Scheme.String(),
		Workers:    opts.Workers,
		Metric:     "euclidean",
		MinkowskiP: 2,
		Algorithm:  string(opts.Algorithm),
		LeafSize:   opts.LeafSize,
		Format:     formatCSV,
	}
}

// loadConfig reads path over the defaults. An empty path returns the defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("snngraph: open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("snngraph: parse config %s: %w", path, err)
	}
	return cfg, nil
}

// bindOptionFlags registers the graph option flags on cmd, storing values in cfg.
func bindOptionFlags(cmd *cobra.Command, cfg *config) {
	def := defaultConfig()
	f := cmd.Flags()
	f.IntVarP(&cfg.Neighbors, "neighbors", "k", def.Neighbors, "nearest neighbors per point")
	f.StringVar(&cfg.Scheme, "scheme", def.Scheme, "edge weighting scheme: ranked, number or jaccard")
	f.IntVarP(&cfg.Workers, "workers", "w", def.Workers, "worker goroutines")
	f.StringVar(&cfg.Metric, "metric", def.Metric, "distance: euclidean, manhattan, cosine, chebyshev or minkowski")
	f.Float64Var(&cfg.MinkowskiP, "minkowski-p", def.MinkowskiP, "exponent for the minkowski metric")
	f.StringVar(&cfg.Algorithm, "algorithm", def.Algorithm, "neighbor search: auto, brute, kdtree, balltree or gonum_kdtree")
	f.IntVar(&cfg.LeafSize, "leaf-size", def.LeafSize, "maximum points per spatial tree leaf")
}

// overrideConfig copies every flag explicitly set on cmd from flags into cfg.
func overrideConfig(cmd *cobra.Command, cfg *config, flags config) {
	changed := cmd.Flags().Changed
	if changed("neighbors") {
		cfg.Neighbors = flags.Neighbors
	}
	if changed("scheme") {
		cfg.Scheme = flags.Scheme
	}
	if changed("workers") {
		cfg.Workers = flags.Workers
	}
	if changed("metric") {
		cfg.Metric = flags.Metric
	}
	if changed("minkowski-p") {
		cfg.MinkowskiP = flags.MinkowskiP
	}
	if changed("algorithm") {
		cfg.Algorithm = flags.Algorithm
	}
	if changed("leaf-size") {
		cfg.LeafSize = flags.LeafSize
	}
	if changed("format") {
		cfg.Format = flags.Format
	}
}

// options converts cfg into library options.
func (c config) options(logger *slog.Logger) (snn.Options, error) {
	scheme, err := snn.ParseScheme(c.Scheme)
	if err != nil {
		return snn.Options{}, err
	}
	metric, err := parseMetric(c.Metric, c.MinkowskiP)
	if err != nil {
		return snn.Options{}, err
	}

	opts := snn.DefaultOptions()
	opts.NumNeighbors = c.Neighbors
	opts.Scheme = scheme
	opts.Workers = c.Workers
	opts.Metric = metric
	opts.Algorithm = snn.Algorithm(strings.ToLower(c.Algorithm))
	opts.LeafSize = c.LeafSize
	opts.Logger = logger
	return opts, nil
}

func parseMetric(name string, p float64) (snn.DistanceMetric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "euclidean", "l2":
		return snn.EuclideanMetric{}, nil
	case "manhattan", "l1", "cityblock":
		return snn.ManhattanMetric{}, nil
	case "cosine":
		return snn.CosineMetric{}, nil
	case "chebyshev", "linf":
		return snn.ChebyshevMetric{}, nil
	case "minkowski":
		return snn.MinkowskiMetric{P: p}, nil
	}
	return nil, fmt.Errorf("%w: unknown metric %q", snn.ErrInvalidOptions, name)
}
