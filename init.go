package xmeans

import (
	"fmt"
	"math/rand"
)

// InitKind enumerates the ways KMeans.Run can choose its starting centroids.
type InitKind int

const (
	// KMeansPlusPlus samples seeds with probability proportional to their
	// squared distance from the seeds already chosen.
	KMeansPlusPlus InitKind = iota

	// RandomPartition assigns every point to a random cluster and starts
	// from the cluster means. Used for split attempts so the two children
	// do not start from already well-separated seeds.
	RandomPartition

	// Precomputed starts from centroids supplied by the caller.
	Precomputed
)

func (k InitKind) String() string {
	switch k {
	case KMeansPlusPlus:
		return "kmeans++"
	case RandomPartition:
		return "random-partition"
	case Precomputed:
		return "precomputed"
	default:
		return fmt.Sprintf("InitKind(%d)", int(k))
	}
}

// Init selects the initialisation for KMeans.Run. Use InitKMeansPlusPlus,
// InitRandomPartition or InitPrecomputed.
type Init struct {
	Kind InitKind

	// centroids is only set for Precomputed.
	centroids []float64
}

var (
	InitKMeansPlusPlus  = Init{Kind: KMeansPlusPlus}
	InitRandomPartition = Init{Kind: RandomPartition}
)

// InitPrecomputed starts KMeans.Run from the given flat row-major centroids.
// The slice is copied when the run starts.
func InitPrecomputed(centroids []float64) Init {
	return Init{Kind: Precomputed, centroids: centroids}
}

// seed returns a fresh flat buffer of k starting centroids.
func (in Init) seed(km *KMeans, k int, rng *rand.Rand) ([]float64, error) {
	switch in.Kind {
	case KMeansPlusPlus:
		return seedPlusPlus(km, k, rng), nil
	case RandomPartition:
		return seedRandomPartition(km, k, rng), nil
	case Precomputed:
		if len(in.centroids) != k*km.dims {
			return nil, fmt.Errorf("xmeans: precomputed centroids length %d does not match k*dims = %d (k=%d, dims=%d)",
				len(in.centroids), k*km.dims, k, km.dims)
		}
		return append([]float64(nil), in.centroids...), nil
	default:
		return nil, fmt.Errorf("xmeans: unknown init %v", in.Kind)
	}
}

func seedPlusPlus(km *KMeans, k int, rng *rand.Rand) []float64 {
	dims := km.dims
	centroids := make([]float64, 0, k*dims)
	centroids = append(centroids, km.point(rng.Intn(km.n))...)

	// minDist[i] is the squared distance from point i to its nearest seed.
	minDist := make([]float64, km.n)
	for i := range minDist {
		minDist[i] = squaredDistance(km.point(i), centroids[:dims])
	}

	for c := 1; c < k; c++ {
		var total float64
		for _, d := range minDist {
			total += d
		}

		next := -1
		if total > 0 {
			target := rng.Float64() * total
			for i, d := range minDist {
				target -= d
				if target < 0 {
					next = i
					break
				}
			}
		}
		if next < 0 {
			// All points coincide with a seed, or rounding ran past the end.
			next = rng.Intn(km.n)
		}

		seed := km.point(next)
		centroids = append(centroids, seed...)
		for i := range minDist {
			if d := squaredDistance(km.point(i), seed); d < minDist[i] {
				minDist[i] = d
			}
		}
	}
	return centroids
}

// seedRandomPartition draws a random partition in which every cluster holds
// at least one point and returns the partition means.
func seedRandomPartition(km *KMeans, k int, rng *rand.Rand) []float64 {
	dims := km.dims
	labels := make([]int, km.n)
	for pos, i := range rng.Perm(km.n) {
		if pos < k {
			labels[i] = pos
		} else {
			labels[i] = rng.Intn(k)
		}
	}

	centroids := make([]float64, k*dims)
	counts := make([]int, k)
	for i, c := range labels {
		counts[c]++
		p := km.point(i)
		for d := 0; d < dims; d++ {
			centroids[c*dims+d] += p[d]
		}
	}
	for c := 0; c < k; c++ {
		for d := 0; d < dims; d++ {
			centroids[c*dims+d] /= float64(counts[c])
		}
	}
	return centroids
}
