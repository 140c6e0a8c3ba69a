// internal/stats/exact.go
// Package: stats
package stats

import (
	"math"
	"slices"
)

// nearestRank returns the element of sorted at rank round(p/100*(n-1)).
// Ties round to even, matching numpy's "nearest" percentile method.
func nearestRank(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	r := int(math.RoundToEven(p / 100 * float64(n-1)))
	r = max(0, min(r, n-1))
	return sorted[r]
}

// exactQuantiles returns the nearest-rank value for each of Percentiles (copy-safe).
func exactQuantiles(values []float64) []float64 {
	cp := slices.Clone(values)
	slices.Sort(cp)
	out := make([]float64, len(Percentiles))
	for i, p := range Percentiles {
		out[i] = nearestRank(cp, p)
	}
	return out
}
