package xmeans

import (
	"fmt"
	"math"
	"math/rand"
)

// defaultRandSeed seeds the generator when a KMeansConfig carries none, so
// runs are reproducible by default.
const defaultRandSeed = 1

// State is one clustering of a point set: k centroids, the cluster of every
// point, and the total squared distance of points to their centroids.
// A State is never edited after it is returned; refinement produces a new one
// each round.
type State struct {
	// Centroids is flat row-major with K rows and Dims columns.
	Centroids []float64

	// Assignments maps point index to centroid index in [0, K).
	Assignments []int

	// Distortion is the sum of squared point-to-centroid distances.
	Distortion float64

	K    int
	Dims int
}

// Centroid returns the i-th centroid. The slice aliases s.Centroids.
func (s *State) Centroid(i int) []float64 {
	return s.Centroids[i*s.Dims : (i+1)*s.Dims]
}

// Sizes returns the number of points assigned to each centroid.
func (s *State) Sizes() []int {
	sizes := make([]int, s.K)
	for _, c := range s.Assignments {
		sizes[c]++
	}
	return sizes
}

// Members copies the points assigned to cluster c into a new flat buffer.
func (s *State) Members(points []float64, c int) []float64 {
	dims := s.Dims
	var out []float64
	for i, a := range s.Assignments {
		if a == c {
			out = append(out, points[i*dims:(i+1)*dims]...)
		}
	}
	return out
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	c := *s
	c.Centroids = append([]float64(nil), s.Centroids...)
	c.Assignments = append([]int(nil), s.Assignments...)
	return &c
}

// KMeansConfig carries per-run options for KMeans.Run.
type KMeansConfig struct {
	// Rand drives k-means++ sampling and random partitions. nil uses a
	// generator seeded with a fixed value.
	Rand *rand.Rand
}

func (c KMeansConfig) rand() *rand.Rand {
	if c.Rand != nil {
		return c.Rand
	}
	return rand.New(rand.NewSource(defaultRandSeed))
}

// KMeans is Lloyd's algorithm bound to one immutable point set.
// data is flat row-major with n rows and dims columns and is never modified.
type KMeans struct {
	data []float64
	n    int
	dims int
}

// NewKMeans binds a point set for repeated k-means runs.
func NewKMeans(data []float64, n, dims int) (*KMeans, error) {
	if n < 1 {
		return nil, fmt.Errorf("xmeans: need at least one point, got %d", n)
	}
	if dims < 1 {
		return nil, fmt.Errorf("xmeans: dims must be >= 1, got %d", dims)
	}
	if len(data) != n*dims {
		return nil, fmt.Errorf("xmeans: data length %d does not match n*dims = %d (n=%d, dims=%d)", len(data), n*dims, n, dims)
	}
	return &KMeans{data: data, n: n, dims: dims}, nil
}

// N returns the number of points.
func (km *KMeans) N() int { return km.n }

// Dims returns the dimensionality of each point.
func (km *KMeans) Dims() int { return km.dims }

func (km *KMeans) point(i int) []float64 {
	return km.data[i*km.dims : (i+1)*km.dims]
}

// Run clusters the point set into k clusters, starting from init and
// iterating assignment and centroid update until no assignment changes or
// maxIters updates have been made.
func (km *KMeans) Run(k, maxIters int, init Init, cfg KMeansConfig) (*State, error) {
	if k < 1 {
		return nil, fmt.Errorf("xmeans: k must be >= 1, got %d", k)
	}
	if k > km.n {
		return nil, fmt.Errorf("xmeans: k=%d exceeds the number of points %d", k, km.n)
	}
	if maxIters < 1 {
		return nil, fmt.Errorf("xmeans: maxIters must be >= 1, got %d", maxIters)
	}

	centroids, err := init.seed(km, k, cfg.rand())
	if err != nil {
		return nil, err
	}

	assignments := make([]int, km.n)
	for i := range assignments {
		assignments[i] = -1
	}

	converged := false
	for iter := 0; iter < maxIters; iter++ {
		if !km.assign(centroids, k, assignments) {
			converged = true
			break
		}
		km.update(centroids, k, assignments)
	}
	if !converged {
		// The last update moved the centroids; bring assignments back in line.
		km.assign(centroids, k, assignments)
	}

	var distortion float64
	for i, c := range assignments {
		distortion += squaredDistance(km.point(i), centroids[c*km.dims:(c+1)*km.dims])
	}

	return &State{
		Centroids:   centroids,
		Assignments: assignments,
		Distortion:  distortion,
		K:           k,
		Dims:        km.dims,
	}, nil
}

// assign moves every point to its nearest centroid and reports whether any
// assignment changed. Ties go to the lower centroid index.
func (km *KMeans) assign(centroids []float64, k int, assignments []int) bool {
	idx := newCentroidIndex(centroids, k, km.dims)
	changed := false
	for i := 0; i < km.n; i++ {
		best, _ := idx.nearest(km.point(i))
		if assignments[i] != best {
			assignments[i] = best
			changed = true
		}
	}
	return changed
}

// update recomputes every centroid as the mean of its points. An empty
// cluster takes over the point farthest from its own centroid, drawn from a
// cluster that can spare one.
func (km *KMeans) update(centroids []float64, k int, assignments []int) {
	dims := km.dims
	counts := make([]int, k)
	for _, c := range assignments {
		counts[c]++
	}

	for j := 0; j < k; j++ {
		if counts[j] > 0 {
			continue
		}
		far := km.farthestDonor(centroids, assignments, counts)
		if far < 0 {
			continue
		}
		counts[assignments[far]]--
		assignments[far] = j
		counts[j] = 1
	}

	sums := make([]float64, k*dims)
	for i, c := range assignments {
		p := km.point(i)
		for d := 0; d < dims; d++ {
			sums[c*dims+d] += p[d]
		}
	}
	for j := 0; j < k; j++ {
		if counts[j] == 0 {
			continue
		}
		scale := 1.0 / float64(counts[j])
		for d := 0; d < dims; d++ {
			centroids[j*dims+d] = sums[j*dims+d] * scale
		}
	}
}

// farthestDonor returns the point with the largest distance to its centroid
// among clusters holding more than one point, or -1 if there is none.
func (km *KMeans) farthestDonor(centroids []float64, assignments, counts []int) int {
	dims := km.dims
	best := -1
	bestDist := math.Inf(-1)
	for i, c := range assignments {
		if counts[c] < 2 {
			continue
		}
		d := squaredDistance(km.point(i), centroids[c*dims:(c+1)*dims])
		if d > bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}
