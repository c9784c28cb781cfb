package xmeans

import (
	"bytes"
	"sort"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MinK != 2 {
		t.Errorf("MinK: got %d, want 2", cfg.MinK)
	}
	if cfg.MaxRounds != 50 {
		t.Errorf("MaxRounds: got %d, want 50", cfg.MaxRounds)
	}
	if cfg.MaxIterations != 100 {
		t.Errorf("MaxIterations: got %d, want 100", cfg.MaxIterations)
	}
	if cfg.MinSplitSize != 5 {
		t.Errorf("MinSplitSize: got %d, want 5", cfg.MinSplitSize)
	}
	if cfg.Seed != 1 {
		t.Errorf("Seed: got %d, want 1", cfg.Seed)
	}
	if _, ok := cfg.Metrics.(NoopMetrics); !ok {
		t.Errorf("Metrics: got %T, want NoopMetrics", cfg.Metrics)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative MinK", func(c *Config) { c.MinK = -1 }},
		{"negative MaxRounds", func(c *Config) { c.MaxRounds = -3 }},
		{"negative MaxIterations", func(c *Config) { c.MaxIterations = -1 }},
		{"MinSplitSize < 2", func(c *Config) { c.MinSplitSize = 1 }},
	}

	data := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := Cluster(data, cfg); err == nil {
				t.Errorf("expected error for %s", tt.name)
			}
		})
	}
}

func TestZeroConfigUsesDefaults(t *testing.T) {
	data := [][]float64{{0}, {0.1}, {10}, {10.1}}
	res, err := Cluster(data, Config{})
	if err != nil {
		t.Fatalf("zero Config rejected: %v", err)
	}
	if res.State.K != 2 {
		t.Errorf("K = %d, want the default MinK of 2", res.State.K)
	}
}

func TestCluster_InputValidation(t *testing.T) {
	tests := []struct {
		name string
		data [][]float64
	}{
		{"empty", nil},
		{"zero dims", [][]float64{{}, {}}},
		{"ragged", [][]float64{{1, 2}, {3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Cluster(tt.data, DefaultConfig()); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCluster_MinKExceedsPoints(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinK = 4
	if _, err := Cluster([][]float64{{1}, {2}, {3}}, cfg); err == nil {
		t.Error("expected error when MinK exceeds the point count")
	}
}

func TestCluster_ThreeBlobsTwoDims(t *testing.T) {
	var data [][]float64
	for _, x := range threeBlobs1D() {
		data = append(data, []float64{x, 0})
	}
	cfg := DefaultConfig()
	cfg.MinK = 1

	res, err := Cluster(data, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Converged || res.State.K != 3 {
		t.Fatalf("K=%d converged=%v, want 3 converged clusters", res.State.K, res.Converged)
	}
	var xs []float64
	for c := 0; c < res.State.K; c++ {
		centroid := res.State.Centroid(c)
		if !almostEqual(centroid[1], 0, 1e-12) {
			t.Errorf("centroid %d has y = %v", c, centroid[1])
		}
		xs = append(xs, centroid[0])
	}
	sort.Float64s(xs)
	for i, want := range []float64{1, 10, 30} {
		if !almostEqual(xs[i], want, 1e-9) {
			t.Errorf("centroid x coordinates %v, want [1 10 30]", xs)
			break
		}
	}
}

func TestCluster_DoesNotModifyInput(t *testing.T) {
	data := [][]float64{{0, 1}, {0.2, 1}, {5, 5}, {5.1, 5}}
	cfg := DefaultConfig()
	if _, err := Cluster(data, cfg); err != nil {
		t.Fatal(err)
	}
	if data[0][0] != 0 || data[1][0] != 0.2 || data[3][0] != 5.1 {
		t.Errorf("input modified: %v", data)
	}
}

func TestFit(t *testing.T) {
	points := twoBlobs1D6()
	s, err := Fit(points, len(points), 1, 2, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	got := sortedCentroids(s)
	if !almostEqual(got[0], 1, 1e-9) || !almostEqual(got[1], 10, 1e-9) {
		t.Errorf("centroids %v, want [1 10]", got)
	}

	if _, err := Fit(points, len(points), 1, len(points)+1, DefaultConfig()); err == nil {
		t.Error("expected error for k above the point count")
	}
}

func TestCluster_LogsRounds(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.MinK = 1
	cfg.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)

	points := twoBlobs1D6()
	if _, err := ClusterFlat(points, len(points), 1, cfg); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{`"message":"refinement round"`, `"message":"split attempt"`, `"accepted":true`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}
}

func TestCluster_SilentByDefault(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Logger = zerolog.New(&buf).Level(zerolog.InfoLevel)

	points := twoBlobs1D6()
	if _, err := ClusterFlat(points, len(points), 1, cfg); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected log output at info level:\n%s", buf.String())
	}
}
