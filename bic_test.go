package xmeans

import (
	"math"
	"testing"
)

// oneDimModel builds a 1-D State from centroids and assignments.
func oneDimModel(centroids []float64, assignments []int) *State {
	return &State{
		Centroids:   centroids,
		Assignments: assignments,
		K:           len(centroids),
		Dims:        1,
	}
}

func TestFreeParams(t *testing.T) {
	tests := []struct {
		k, d, want int
	}{
		{1, 1, 2},
		{2, 1, 4},
		{3, 1, 6},
		{1, 2, 3},
		{2, 3, 8},
		{5, 10, 55},
	}
	for _, tt := range tests {
		if got := FreeParams(tt.k, tt.d); got != tt.want {
			t.Errorf("FreeParams(%d, %d) = %d, want %d", tt.k, tt.d, got, tt.want)
		}
	}
}

func TestPooledStdDev_Sentinel(t *testing.T) {
	tests := []struct {
		name       string
		residuals  []float64
		freeParams int
	}{
		{"empty", nil, 2},
		{"one residual", []float64{1}, 2},
		{"n equals free params", []float64{1, 2}, 2},
		{"n below free params", []float64{1, 2, 3}, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if sd := PooledStdDev(tt.residuals, tt.freeParams); !math.IsInf(sd, 1) {
				t.Errorf("expected +Inf, got %v", sd)
			}
		})
	}
}

func TestPooledStdDev_Finite(t *testing.T) {
	// sqrt((1+4+4) / (3-1)) = sqrt(4.5)
	sd := PooledStdDev([]float64{1, 2, 2}, 1)
	if !almostEqual(sd, math.Sqrt(4.5), floatTol) {
		t.Errorf("expected %v, got %v", math.Sqrt(4.5), sd)
	}
	if sd <= 0 || math.IsInf(sd, 0) {
		t.Errorf("expected finite positive value, got %v", sd)
	}
}

func TestGroupLogLikelihood_InfiniteStdDevIsZero(t *testing.T) {
	if ll := GroupLogLikelihood([]float64{1, 2, 3}, 2, math.Inf(1)); ll != 0 {
		t.Errorf("expected 0, got %v", ll)
	}
}

func TestGroupLogLikelihood_DegenerateStdDevIsZero(t *testing.T) {
	for _, sd := range []float64{0, math.NaN()} {
		if ll := GroupLogLikelihood([]float64{0, 0, 0, 0}, 2, sd); ll != 0 {
			t.Errorf("sd=%v: expected 0, got %v", sd, ll)
		}
	}
	// Estimated deviation of all-zero residuals is 0, which is also degenerate.
	if ll := GroupLogLikelihood([]float64{0, 0, 0, 0}, 2, EstimateStdDev); ll != 0 {
		t.Errorf("estimated zero sd: expected 0, got %v", ll)
	}
}

func TestGroupLogLikelihood_HandComputed(t *testing.T) {
	residuals := []float64{0.5, 1, 1.5}
	sd := 2.0
	var want float64
	for _, r := range residuals {
		want += math.Log(2 / (sd * math.Sqrt(2*math.Pi)) * math.Exp(-r*r/(2*sd*sd)))
	}
	if got := GroupLogLikelihood(residuals, 2, sd); !almostEqual(got, want, 1e-9) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestGroupLogLikelihood_EstimatesWhenNegative(t *testing.T) {
	residuals := []float64{0.5, 1, 1.5, 0.2}
	sd := PooledStdDev(residuals, 2)
	want := GroupLogLikelihood(residuals, 2, sd)
	if got := GroupLogLikelihood(residuals, 2, EstimateStdDev); !almostEqual(got, want, floatTol) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestBIC_Deterministic(t *testing.T) {
	points := []float64{1.0, 1.1, 3.0, 3.1, 5.0, 5.1}
	model := oneDimModel([]float64{2.05, 5.05}, []int{0, 0, 0, 0, 1, 1})
	first := BIC(points, model, EstimateStdDev)
	for i := 0; i < 10; i++ {
		if got := BIC(points, model, EstimateStdDev); got != first {
			t.Fatalf("call %d: got %v, first call %v", i, got, first)
		}
	}
	shared := 0.7
	a, b := BIC(points, model, shared), BIC(points, model, shared)
	if a != b {
		t.Errorf("shared stddev: got %v then %v", a, b)
	}
}

func TestBIC_TwoClustersBeatThree(t *testing.T) {
	points := []float64{1.0, 1.1, 3.0, 3.1}
	two := oneDimModel([]float64{1.05, 3.05}, []int{0, 0, 1, 1})
	three := oneDimModel([]float64{1.05, 3.0, 3.1}, []int{0, 0, 1, 2})

	b2 := BIC(points, two, EstimateStdDev)
	b3 := BIC(points, three, EstimateStdDev)
	if !(b2 < b3) {
		t.Errorf("expected BIC(k=2)=%v < BIC(k=3)=%v", b2, b3)
	}
}

func TestBIC_ThreeClustersBeatTwo(t *testing.T) {
	points := []float64{1.0, 1.1, 3.0, 3.1, 5.0, 5.1}
	three := oneDimModel([]float64{1.05, 3.05, 5.05}, []int{0, 0, 1, 1, 2, 2})
	two := oneDimModel([]float64{2.05, 5.05}, []int{0, 0, 0, 0, 1, 1})

	b3 := BIC(points, three, EstimateStdDev)
	b2 := BIC(points, two, EstimateStdDev)
	if !(b3 < b2) {
		t.Errorf("expected BIC(k=3)=%v < BIC(k=2)=%v", b3, b2)
	}
}

func TestBIC_SentinelPathIsPenaltyOnly(t *testing.T) {
	// n=4 <= FreeParams(2,1)=4: likelihood drops out, leaving p*ln(n).
	points := []float64{1.0, 1.1, 3.0, 3.1}
	model := oneDimModel([]float64{1.05, 3.05}, []int{0, 0, 1, 1})
	want := 4 * math.Log(4)
	if got := BIC(points, model, EstimateStdDev); !almostEqual(got, want, floatTol) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestBIC_SmallClusters(t *testing.T) {
	tests := []struct {
		name   string
		points []float64
	}{
		{"empty", nil},
		{"single point", []float64{2.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assignments := make([]int, len(tt.points))
			model := oneDimModel([]float64{2.5}, assignments)
			for _, shared := range []float64{EstimateStdDev, 1.0, math.Inf(1)} {
				b := BIC(tt.points, model, shared)
				if math.IsNaN(b) || math.IsInf(b, 0) {
					t.Errorf("shared=%v: BIC=%v", shared, b)
				}
			}
			sd := ModelStdDev(tt.points, model)
			if !math.IsInf(sd, 1) {
				t.Errorf("ModelStdDev: expected +Inf, got %v", sd)
			}
		})
	}
}

func TestBIC_SharedScaleFavoursTighterFit(t *testing.T) {
	points := []float64{0, 0.1, 10, 10.1, 0.05, 10.05, 0.02, 10.02}
	one := oneDimModel([]float64{5.05}, make([]int, len(points)))
	two := oneDimModel([]float64{0.0425, 10.0425}, []int{0, 0, 1, 1, 0, 1, 0, 1})

	shared := ModelStdDev(points, one)
	if !(BIC(points, two, shared) < BIC(points, one, shared)) {
		t.Errorf("expected the two-centroid model to score lower on the parent's scale")
	}
}

func TestModelStdDev(t *testing.T) {
	points := []float64{1, 2, 3, 4, 5}
	model := oneDimModel([]float64{3}, make([]int, 5))
	// residuals 2,1,0,1,2 -> sum sq 10, p=2 -> sqrt(10/3)
	want := math.Sqrt(10.0 / 3.0)
	if got := ModelStdDev(points, model); !almostEqual(got, want, floatTol) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
