package xmeans

import (
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"
)

// Config controls X-means clustering.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// MinK is the cluster count of the initial k-means++ fit.
	// Must be >= 1. Default: 2.
	MinK int `yaml:"min_k"`

	// MaxRounds bounds the number of split/refit rounds. Reaching it is a
	// normal stop; the current centroids are returned. Must be >= 1.
	// Default: 50.
	MaxRounds int `yaml:"max_rounds"`

	// MaxIterations caps Lloyd iterations in every k-means run, including
	// split attempts and refits. Must be >= 1. Default: 100.
	MaxIterations int `yaml:"max_iterations"`

	// MinSplitSize is the largest cluster that is never split. A cluster
	// needs more than MinSplitSize points before a two-way split is tried.
	// Must be >= 2. Default: 5.
	MinSplitSize int `yaml:"min_split_size"`

	// Seed initialises the random source used for k-means++ seeding and
	// random partitions. Default: 1.
	Seed int64 `yaml:"seed"`

	// Logger receives per-round and per-split debug events. The zero value
	// discards everything.
	Logger zerolog.Logger `yaml:"-"`

	// Metrics observes rounds and split decisions. nil means NoopMetrics.
	Metrics MetricsCollector `yaml:"-"`
}

// Result is the outcome of X-means refinement.
type Result struct {
	// State is the final clustering.
	State *State

	// Rounds is the number of splitting rounds that ran.
	Rounds int

	// Converged is true when the last round accepted no split, false when
	// MaxRounds stopped the loop.
	Converged bool

	// BIC is the final state's score with its own pooled variance.
	BIC float64
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		MinK:          2,
		MaxRounds:     50,
		MaxIterations: 100,
		MinSplitSize:  5,
		Seed:          1,
		Logger:        zerolog.Nop(),
		Metrics:       NoopMetrics{},
	}
}

// validateConfig checks that cfg fields are valid and returns a descriptive error if not.
func validateConfig(cfg *Config) error {
	if cfg.MinK < 1 {
		return fmt.Errorf("xmeans: MinK must be >= 1, got %d", cfg.MinK)
	}
	if cfg.MaxRounds < 1 {
		return fmt.Errorf("xmeans: MaxRounds must be >= 1, got %d", cfg.MaxRounds)
	}
	if cfg.MaxIterations < 1 {
		return fmt.Errorf("xmeans: MaxIterations must be >= 1, got %d", cfg.MaxIterations)
	}
	if cfg.MinSplitSize < 2 {
		return fmt.Errorf("xmeans: MinSplitSize must be >= 2, got %d", cfg.MinSplitSize)
	}
	return nil
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.MinK == 0 {
		cfg.MinK = def.MinK
	}
	if cfg.MaxRounds == 0 {
		cfg.MaxRounds = def.MaxRounds
	}
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = def.MaxIterations
	}
	if cfg.MinSplitSize == 0 {
		cfg.MinSplitSize = def.MinSplitSize
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NoopMetrics{}
	}
}

func prepareConfig(cfg *Config) error {
	applyDefaults(cfg)
	return validateConfig(cfg)
}

// flatten copies rows into a flat row-major buffer, rejecting ragged input.
func flatten(data [][]float64) ([]float64, int, int, error) {
	n := len(data)
	if n == 0 {
		return nil, 0, 0, fmt.Errorf("xmeans: no data points")
	}
	dims := len(data[0])
	if dims == 0 {
		return nil, 0, 0, fmt.Errorf("xmeans: points must have at least one coordinate")
	}
	flat := make([]float64, n*dims)
	for i, row := range data {
		if len(row) != dims {
			return nil, 0, 0, fmt.Errorf("xmeans: point %d has %d coordinates, want %d", i, len(row), dims)
		}
		copy(flat[i*dims:], row)
	}
	return flat, n, dims, nil
}

// Cluster runs X-means on the given data. Each element is a point; all
// points must have the same dimensionality.
func Cluster(data [][]float64, cfg Config) (*Result, error) {
	flat, n, dims, err := flatten(data)
	if err != nil {
		return nil, err
	}
	return ClusterFlat(flat, n, dims, cfg)
}

// ClusterFlat runs X-means on flat row-major data with n rows and dims
// columns: a k-means++ fit at cfg.MinK clusters followed by Refine.
func ClusterFlat(points []float64, n, dims int, cfg Config) (*Result, error) {
	if err := prepareConfig(&cfg); err != nil {
		return nil, err
	}
	if cfg.MinK > n {
		return nil, fmt.Errorf("xmeans: MinK=%d exceeds the number of points %d", cfg.MinK, n)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	seed, err := fit(points, n, dims, cfg.MinK, cfg, rng)
	if err != nil {
		return nil, err
	}
	return refine(points, n, dims, seed, cfg, rng)
}

// Fit runs a single k-means++ initialised k-means with exactly k clusters.
func Fit(points []float64, n, dims, k int, cfg Config) (*State, error) {
	if err := prepareConfig(&cfg); err != nil {
		return nil, err
	}
	return fit(points, n, dims, k, cfg, rand.New(rand.NewSource(cfg.Seed)))
}

func fit(points []float64, n, dims, k int, cfg Config, rng *rand.Rand) (*State, error) {
	km, err := NewKMeans(points, n, dims)
	if err != nil {
		return nil, err
	}
	return km.Run(k, cfg.MaxIterations, InitKMeansPlusPlus, KMeansConfig{Rand: rng})
}
