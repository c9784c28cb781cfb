// Command xmeans clusters the rows of a delimited numeric file.
//
// With -k it runs plain k-means at that cluster count; otherwise it runs
// X-means starting from --mink clusters. Centroids are printed one per line.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/TrevorS/xmeans"
	"github.com/TrevorS/xmeans/internal/dataset"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(argv []string, stdout, stderr io.Writer) int {
	args, err := parseArgs(argv)
	if err != nil {
		if help, ok := isHelp(err); ok {
			fmt.Fprintln(stdout, help)
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 1
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: "15:04:05"}).
		Level(args.LogLevel).
		With().Timestamp().Logger()

	cfg, err := buildConfig(args)
	if err != nil {
		logger.Error().Err(err).Msg("load configuration")
		return 1
	}
	cfg.Logger = logger

	reg := prometheus.NewRegistry()
	if args.MetricsFile != "" {
		cfg.Metrics = xmeans.NewPrometheusMetrics(reg)
	}

	points, dims, err := dataset.Parse(args.FilePath, args.Delim)
	if err != nil {
		logger.Error().Err(err).Str("file", args.FilePath).Msg("read data")
		return 1
	}
	n := len(points) / dims
	logger.Info().Int("points", n).Int("dims", dims).Msg("data loaded")

	var state *xmeans.State
	if args.K > 0 {
		state, err = xmeans.Fit(points, n, dims, args.K, cfg)
		if err != nil {
			logger.Error().Err(err).Int("k", args.K).Msg("k-means failed")
			return 1
		}
		logger.Info().Int("k", state.K).Float64("distortion", state.Distortion).Msg("k-means complete")
	} else {
		result, err := xmeans.ClusterFlat(points, n, dims, cfg)
		if err != nil {
			logger.Error().Err(err).Msg("x-means failed")
			return 1
		}
		state = result.State
		logger.Info().
			Int("k", state.K).
			Int("rounds", result.Rounds).
			Bool("converged", result.Converged).
			Float64("bic", result.BIC).
			Msg("x-means complete")
	}

	if err := writeCentroids(stdout, state); err != nil {
		logger.Error().Err(err).Msg("write centroids")
		return 1
	}

	if args.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(args.MetricsFile, reg); err != nil {
			logger.Error().Err(err).Str("file", args.MetricsFile).Msg("write metrics")
			return 1
		}
	}
	return 0
}
