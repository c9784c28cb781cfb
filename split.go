package xmeans

import (
	"fmt"
	"math/rand"
)

// SplitCluster decides whether the points of one cluster are better
// explained by two centroids than by centroid alone. members is flat
// row-major with len(centroid) columns. Both models are scored with BIC on
// the shared standard deviation sharedStdDev, normally ModelStdDev of the
// model the cluster belongs to.
//
// It returns the winning centroids (one or two, flat) and whether the split
// was accepted. Clusters with at most cfg.MinSplitSize points are returned
// unchanged without an attempt.
func SplitCluster(members, centroid []float64, sharedStdDev float64, cfg Config, rng *rand.Rand) ([]float64, bool, error) {
	if err := prepareConfig(&cfg); err != nil {
		return nil, false, err
	}
	if len(centroid) == 0 {
		return nil, false, fmt.Errorf("xmeans: centroid must have at least one coordinate")
	}
	if len(members)%len(centroid) != 0 {
		return nil, false, fmt.Errorf("xmeans: members length %d is not a multiple of dims %d", len(members), len(centroid))
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}
	return splitCluster(members, centroid, sharedStdDev, cfg, rng)
}

func splitCluster(members, centroid []float64, sharedStdDev float64, cfg Config, rng *rand.Rand) ([]float64, bool, error) {
	keep := append([]float64(nil), centroid...)
	dims := len(centroid)
	n := len(members) / dims
	if n <= cfg.MinSplitSize {
		return keep, false, nil
	}

	km, err := NewKMeans(members, n, dims)
	if err != nil {
		return nil, false, err
	}
	children, err := km.Run(2, cfg.MaxIterations, InitRandomPartition, KMeansConfig{Rand: rng})
	if err != nil {
		return nil, false, err
	}

	parent := &State{
		Centroids:   keep,
		Assignments: make([]int, n),
		K:           1,
		Dims:        dims,
	}
	parentBIC := BIC(members, parent, sharedStdDev)
	childBIC := BIC(members, children, sharedStdDev)

	accepted := !(parentBIC < childBIC)
	cfg.Logger.Debug().
		Int("points", n).
		Floats64("centroid", centroid).
		Float64("parent_bic", parentBIC).
		Floats64("children", children.Centroids).
		Float64("split_bic", childBIC).
		Bool("accepted", accepted).
		Msg("split attempt")
	cfg.Metrics.RecordSplit(accepted)

	if !accepted {
		return keep, false, nil
	}
	return children.Centroids, true, nil
}
