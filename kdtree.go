package xmeans

import (
	"math"
	"sort"
)

// kdTreeMinCentroids is the centroid count from which nearest-centroid
// lookups go through a KD-tree instead of a linear scan.
const kdTreeMinCentroids = 32

// kdLeafSize is the maximum number of centroids per KD-tree leaf.
const kdLeafSize = 8

// centroidIndex answers nearest-centroid queries. Implementations must agree
// exactly, including ties, which go to the lower centroid index.
type centroidIndex interface {
	// nearest returns the index of the closest centroid to p and the squared
	// distance to it.
	nearest(p []float64) (int, float64)
}

func newCentroidIndex(centroids []float64, k, dims int) centroidIndex {
	if k >= kdTreeMinCentroids {
		return newKDTree(centroids, k, dims, kdLeafSize)
	}
	return linearIndex{centroids: centroids, k: k, dims: dims}
}

type linearIndex struct {
	centroids []float64
	k, dims   int
}

func (l linearIndex) nearest(p []float64) (int, float64) {
	best := 0
	bestDist := math.Inf(1)
	for j := 0; j < l.k; j++ {
		d := squaredDistance(p, l.centroids[j*l.dims:(j+1)*l.dims])
		if d < bestDist {
			bestDist = d
			best = j
		}
	}
	return best, bestDist
}

// kdNode describes a single node of a kdTree.
type kdNode struct {
	idxStart, idxEnd int
	isLeaf           bool
	used             bool
}

// kdTree is a KD-tree over a set of centroids, stored as a complete binary
// tree in array form:
//   - node i has children at 2*i+1 and 2*i+2
//   - node bounds are stored as min/max per dimension per node
type kdTree struct {
	data     []float64 // flat row-major centroids (n * dims), not copied
	n        int
	dims     int
	leafSize int
	idxArray []int // tree-order position → centroid index
	nodes    []kdNode
	// boundsMin[node*dims + j] = min value of feature j in node
	boundsMin []float64
	// boundsMax[node*dims + j] = max value of feature j in node
	boundsMax []float64
}

func newKDTree(data []float64, n, dims, leafSize int) *kdTree {
	if leafSize < 1 {
		leafSize = 1
	}
	idxArray := make([]int, n)
	for i := range idxArray {
		idxArray[i] = i
	}

	maxNodes := kdMaxNodes(n, leafSize)
	t := &kdTree{
		data:      data,
		n:         n,
		dims:      dims,
		leafSize:  leafSize,
		idxArray:  idxArray,
		nodes:     make([]kdNode, maxNodes),
		boundsMin: make([]float64, maxNodes*dims),
		boundsMax: make([]float64, maxNodes*dims),
	}
	if n > 0 {
		t.buildNode(0, 0, n)
	}
	return t
}

// kdMaxNodes returns an upper bound on the number of nodes needed for a
// binary tree with n points and the given leaf size.
func kdMaxNodes(n, leafSize int) int {
	if n == 0 {
		return 1
	}
	leaves := (n + leafSize - 1) / leafSize
	depth := 0
	v := 1
	for v < leaves {
		v *= 2
		depth++
	}
	return (1 << (depth + 1)) - 1 + 2
}

// buildNode recursively builds the tree for centroids in idxArray[start:end].
func (t *kdTree) buildNode(nodeID, start, end int) {
	for nodeID >= len(t.nodes) {
		t.nodes = append(t.nodes, kdNode{})
		t.boundsMin = append(t.boundsMin, make([]float64, t.dims)...)
		t.boundsMax = append(t.boundsMax, make([]float64, t.dims)...)
	}

	t.computeNodeBounds(nodeID, start, end)

	count := end - start
	if count <= t.leafSize {
		t.nodes[nodeID] = kdNode{idxStart: start, idxEnd: end, isLeaf: true, used: true}
		return
	}

	// Split along the dimension with the greatest spread, at the median.
	splitDim := 0
	maxSpread := -1.0
	for d := 0; d < t.dims; d++ {
		spread := t.boundsMax[nodeID*t.dims+d] - t.boundsMin[nodeID*t.dims+d]
		if spread > maxSpread {
			maxSpread = spread
			splitDim = d
		}
	}

	sub := t.idxArray[start:end]
	sort.Slice(sub, func(i, j int) bool {
		return t.data[sub[i]*t.dims+splitDim] < t.data[sub[j]*t.dims+splitDim]
	})
	mid := start + count/2

	t.nodes[nodeID] = kdNode{idxStart: start, idxEnd: end, used: true}
	t.buildNode(2*nodeID+1, start, mid)
	t.buildNode(2*nodeID+2, mid, end)
}

func (t *kdTree) computeNodeBounds(nodeID, start, end int) {
	base := nodeID * t.dims
	for d := 0; d < t.dims; d++ {
		t.boundsMin[base+d] = math.Inf(1)
		t.boundsMax[base+d] = math.Inf(-1)
	}
	for i := start; i < end; i++ {
		c := t.idxArray[i]
		for d := 0; d < t.dims; d++ {
			v := t.data[c*t.dims+d]
			if v < t.boundsMin[base+d] {
				t.boundsMin[base+d] = v
			}
			if v > t.boundsMax[base+d] {
				t.boundsMax[base+d] = v
			}
		}
	}
}

func (t *kdTree) nearest(p []float64) (int, float64) {
	best, bestDist := -1, math.Inf(1)
	t.search(0, p, &best, &bestDist)
	if best < 0 {
		// Only reachable with NaN coordinates; match linearIndex.
		return 0, bestDist
	}
	return best, bestDist
}

// search descends nearer child first and prunes a subtree only when its box
// is strictly farther than the current best, so equal-distance centroids
// with a lower index are still found.
func (t *kdTree) search(nodeID int, p []float64, best *int, bestDist *float64) {
	if nodeID >= len(t.nodes) || !t.nodes[nodeID].used {
		return
	}
	node := t.nodes[nodeID]

	if node.isLeaf {
		for i := node.idxStart; i < node.idxEnd; i++ {
			c := t.idxArray[i]
			d := squaredDistance(p, t.data[c*t.dims:(c+1)*t.dims])
			if d < *bestDist || (d == *bestDist && c < *best) {
				*bestDist = d
				*best = c
			}
		}
		return
	}

	left, right := 2*nodeID+1, 2*nodeID+2
	leftBound := t.minDistToBox(left, p)
	rightBound := t.minDistToBox(right, p)

	near, far := left, right
	nearBound, farBound := leftBound, rightBound
	if rightBound < leftBound {
		near, far = right, left
		nearBound, farBound = rightBound, leftBound
	}

	if nearBound <= *bestDist {
		t.search(near, p, best, bestDist)
	}
	if farBound <= *bestDist {
		t.search(far, p, best, bestDist)
	}
}

// minDistToBox is a lower bound on the squared distance from p to any
// centroid inside node.
func (t *kdTree) minDistToBox(node int, p []float64) float64 {
	if node >= len(t.nodes) || !t.nodes[node].used {
		return math.Inf(1)
	}
	base := node * t.dims
	var sum float64
	for j := 0; j < t.dims; j++ {
		lo, hi := t.boundsMin[base+j], t.boundsMax[base+j]
		var d float64
		if p[j] < lo {
			d = lo - p[j]
		} else if p[j] > hi {
			d = p[j] - hi
		}
		sum += d * d
	}
	return sum
}
