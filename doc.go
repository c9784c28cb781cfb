// Package xmeans implements X-means clustering: k-means that chooses its own
// cluster count.
//
// Starting from a k-means fit at Config.MinK clusters, every refinement round
// tries to split each cluster into two sub-clusters. A split is kept unless
// it raises the Bayesian Information Criterion (BIC) of the cluster's
// points, scored on one shared variance scale taken from the whole model.
// When a round produces new clusters, k-means is re-run over the full data
// seeded with the candidate centroids, and the loop continues until no split
// is accepted or Config.MaxRounds is reached.
//
// Basic usage:
//
//	cfg := xmeans.DefaultConfig()
//	cfg.MinK = 1
//	result, err := xmeans.Cluster(data, cfg)
//	// result.State.K is the chosen cluster count
//	// result.State.Centroid(i) is the i-th centroid
//	// result.State.Assignments[j] is the cluster of point j
//
// # Scoring
//
// BIC follows the Schwarz form, freeParams·ln(n) − 2·logLikelihood, so lower
// is better. Residual distances are modelled as a folded zero-mean normal.
// When a model has no more points than free parameters its variance cannot
// be estimated; PooledStdDev then returns +Inf and the log-likelihood is 0.
//
// # Base routine
//
// The k-means routine used underneath (KMeans.Run) supports three
// initialisations: k-means++ for the first global fit, random partition for
// split attempts, and precomputed centroids for refits.
package xmeans
