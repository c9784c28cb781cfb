package xmeans

import (
	"fmt"
	"math/rand"
)

// Refine grows a clustering by repeated split rounds, starting from seed.
// points is flat row-major with n rows and dims columns; seed must cluster
// exactly those points. seed is not modified.
//
// Each round offers every cluster a two-way split (see SplitCluster). If no
// cluster accepts, the current state is returned with Converged set. If some
// do, k-means is re-run over all points starting from the candidate
// centroids and the next round begins. Hitting cfg.MaxRounds returns the
// current state with Converged false.
func Refine(points []float64, n, dims int, seed *State, cfg Config) (*Result, error) {
	if err := prepareConfig(&cfg); err != nil {
		return nil, err
	}
	if err := checkState(seed, n, dims); err != nil {
		return nil, err
	}
	return refine(points, n, dims, seed, cfg, rand.New(rand.NewSource(cfg.Seed)))
}

// NextCentroids runs one splitting round over state and returns the
// candidate centroid set, flat row-major. The candidate count equals
// state.K exactly when no cluster accepted a split.
func NextCentroids(points []float64, state *State, cfg Config, rng *rand.Rand) ([]float64, error) {
	if err := prepareConfig(&cfg); err != nil {
		return nil, err
	}
	if state == nil || state.Dims < 1 {
		return nil, fmt.Errorf("xmeans: state must have dims >= 1")
	}
	if err := checkState(state, len(points)/state.Dims, state.Dims); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}
	return nextCentroids(points, state, cfg, rng)
}

func checkState(s *State, n, dims int) error {
	switch {
	case s == nil:
		return fmt.Errorf("xmeans: nil state")
	case s.Dims != dims:
		return fmt.Errorf("xmeans: state dims %d does not match data dims %d", s.Dims, dims)
	case s.K < 1:
		return fmt.Errorf("xmeans: state must have K >= 1, got %d", s.K)
	case len(s.Centroids) != s.K*s.Dims:
		return fmt.Errorf("xmeans: state has %d centroid values, want K*dims = %d", len(s.Centroids), s.K*s.Dims)
	case len(s.Assignments) != n:
		return fmt.Errorf("xmeans: state has %d assignments for %d points", len(s.Assignments), n)
	}
	for i, c := range s.Assignments {
		if c < 0 || c >= s.K {
			return fmt.Errorf("xmeans: assignment %d of point %d is outside [0, %d)", c, i, s.K)
		}
	}
	return nil
}

func nextCentroids(points []float64, state *State, cfg Config, rng *rand.Rand) ([]float64, error) {
	shared := ModelStdDev(points, state)
	cfg.Logger.Debug().Int("k", state.K).Float64("shared_stddev", shared).Msg("scoring clusters")
	next := make([]float64, 0, 2*len(state.Centroids))
	for c := 0; c < state.K; c++ {
		centroids, _, err := splitCluster(state.Members(points, c), state.Centroid(c), shared, cfg, rng)
		if err != nil {
			return nil, fmt.Errorf("xmeans: split cluster %d: %w", c, err)
		}
		next = append(next, centroids...)
	}
	return next, nil
}

func refine(points []float64, n, dims int, seed *State, cfg Config, rng *rand.Rand) (*Result, error) {
	km, err := NewKMeans(points, n, dims)
	if err != nil {
		return nil, err
	}

	current := seed
	for round := 1; round <= cfg.MaxRounds; round++ {
		candidates, err := nextCentroids(points, current, cfg, rng)
		if err != nil {
			return nil, err
		}
		candidateK := len(candidates) / dims

		cfg.Logger.Debug().
			Int("round", round).
			Int("k", current.K).
			Int("candidate_k", candidateK).
			Msg("refinement round")
		cfg.Metrics.RecordRound(current.K, candidateK)

		if candidateK == current.K {
			return finish(points, current, round, true, cfg), nil
		}

		next, err := km.Run(candidateK, cfg.MaxIterations, InitPrecomputed(candidates), KMeansConfig{Rand: rng})
		if err != nil {
			return nil, fmt.Errorf("xmeans: refit at k=%d: %w", candidateK, err)
		}
		current = next
	}

	cfg.Logger.Debug().Int("rounds", cfg.MaxRounds).Int("k", current.K).Msg("round limit reached")
	return finish(points, current, cfg.MaxRounds, false, cfg), nil
}

func finish(points []float64, s *State, rounds int, converged bool, cfg Config) *Result {
	cfg.Metrics.RecordResult(s.K, rounds, converged)
	return &Result{
		State:     s,
		Rounds:    rounds,
		Converged: converged,
		BIC:       BIC(points, s, EstimateStdDev),
	}
}
