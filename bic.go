package xmeans

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// EstimateStdDev can be passed as the sharedStdDev argument of BIC and
// GroupLogLikelihood to have the variance pooled from the scored model's own
// residuals instead of borrowed from another model.
const EstimateStdDev = -1.0

// FreeParams returns the number of parameters a k-cluster model over
// d-dimensional points estimates: k−1 mixture weights, d·k centroid
// coordinates and one shared variance.
func FreeParams(k, d int) int {
	return (k - 1) + d*k + 1
}

// PooledStdDev estimates a single noise spread from residual distances:
// sqrt(Σr² / (n − freeParams)). When n <= freeParams the variance cannot be
// identified and +Inf is returned. +Inf is a sentinel, not an error; callers
// treat it as "uninformative".
func PooledStdDev(residuals []float64, freeParams int) float64 {
	n := len(residuals)
	if n <= freeParams {
		return math.Inf(1)
	}
	return math.Sqrt(floats.Dot(residuals, residuals) / float64(n-freeParams))
}

// GroupLogLikelihood returns the natural-log likelihood of residuals drawn
// from a folded zero-mean normal with standard deviation sharedStdDev. A
// negative sharedStdDev (see EstimateStdDev) pools the deviation from the
// residuals using freeParams.
//
// The result is 0 when the deviation is +Inf, zero or NaN: with too few
// points, or no spread at all, the model is neither rewarded nor penalised.
func GroupLogLikelihood(residuals []float64, freeParams int, sharedStdDev float64) float64 {
	sd := sharedStdDev
	if sd < 0 {
		sd = PooledStdDev(residuals, freeParams)
	}
	if math.IsInf(sd, 1) || !(sd > 0) {
		return 0
	}

	normal := distuv.Normal{Mu: 0, Sigma: sd}
	var ll float64
	for _, r := range residuals {
		// Folding doubles the density on the non-negative half-line.
		ll += math.Ln2 + normal.LogProb(r)
	}
	return ll
}

// BIC scores model on points as freeParams·ln(n) − 2·logLikelihood.
// Lower is better. points is flat row-major with model.Dims columns and
// model.Assignments must cover every point. Pass EstimateStdDev to pool the
// variance from the model itself, or a parent's ModelStdDev to compare
// several models on one variance scale.
//
// Scoring zero points returns 0.
func BIC(points []float64, model *State, sharedStdDev float64) float64 {
	n := len(points) / model.Dims
	if n == 0 {
		return 0
	}
	p := FreeParams(model.K, model.Dims)
	ll := GroupLogLikelihood(Residuals(points, model), p, sharedStdDev)
	return float64(p)*math.Log(float64(n)) - 2*ll
}

// ModelStdDev returns the pooled standard deviation of model over points,
// with the model's own free-parameter count. It is the shared scale used to
// judge each cluster of model against its proposed split.
func ModelStdDev(points []float64, model *State) float64 {
	return PooledStdDev(Residuals(points, model), FreeParams(model.K, model.Dims))
}
