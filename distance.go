package xmeans

import "gonum.org/v1/gonum/floats"

// Distance returns the Euclidean distance between x and y.
// Both points must have the same dimensionality.
func Distance(x, y []float64) float64 {
	return floats.Distance(x, y, 2)
}

// squaredDistance returns the squared Euclidean distance (skips sqrt).
// Used wherever only the ordering of distances matters.
func squaredDistance(x, y []float64) float64 {
	var sum float64
	for i := range x {
		d := x[i] - y[i]
		sum += d * d
	}
	return sum
}

// Residuals returns the distance from every point to the centroid it is
// assigned to in model. points is flat row-major with model.Dims columns.
func Residuals(points []float64, model *State) []float64 {
	dims := model.Dims
	n := len(points) / dims
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = Distance(points[i*dims:(i+1)*dims], model.Centroid(model.Assignments[i]))
	}
	return out
}
