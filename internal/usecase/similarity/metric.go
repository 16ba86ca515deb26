package similarity

import (
	"fmt"
	"math"
)

// Metric is a pairwise distance strategy over feature vectors.
type Metric string

// Supported distance metrics.
const (
	// Euclidean is the default L2 distance.
	Euclidean Metric = "euclidean"
	// Manhattan is the L1 distance.
	Manhattan Metric = "manhattan"
	// Cosine is 1 minus cosine similarity.
	Cosine Metric = "cosine"
)

// ParseMetric resolves a metric name. Empty input selects Euclidean.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case "":
		return Euclidean, nil
	case Euclidean, Manhattan, Cosine:
		return Metric(s), nil
	}
	return "", fmt.Errorf("unsupported distance metric %q", s)
}

// Distance computes the distance between two equal-length vectors.
func (m Metric) Distance(a, b []float64) float64 {
	switch m {
	case Manhattan:
		var sum float64
		for i := range a {
			sum += math.Abs(a[i] - b[i])
		}
		return sum
	case Cosine:
		return cosineDistance(a, b)
	default:
		var sum float64
		for i := range a {
			d := a[i] - b[i]
			sum += d * d
		}
		return math.Sqrt(sum)
	}
}

// cosineDistance returns 1 - cos(a, b). A zero-norm vector is maximally
// dissimilar to everything except another zero-norm vector.
func cosineDistance(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 && nb == 0 {
		return 0
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}
