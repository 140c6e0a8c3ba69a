// internal/stats/histogram.go
// Package: stats
package stats

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Histogram is an equal-width binning of a latency series.
type Histogram struct {
	Edges   []float64 `json:"edges"`
	Centers []float64 `json:"centers"`
	Widths  []float64 `json:"widths"`
	Counts  []int     `json:"counts"`
	Percent []float64 `json:"percent"`
	Total   int       `json:"total"`
}

// NewHistogram bins values into equal-width buckets spanning [min, max].
// The last bucket is closed on the right. When every value is equal the
// range is widened to [v-0.5, v+0.5]. NaN and infinite values are not
// counted.
func NewHistogram(values []float64, bins int) Histogram {
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 {
		return Histogram{}
	}
	if bins < 1 {
		bins = 1
	}
	slices.Sort(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	edges := floats.Span(make([]float64, bins+1), lo, hi)

	// stat.Histogram buckets are half-open; nudge the last divider so hi lands
	// in the final bucket.
	dividers := slices.Clone(edges)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	weights := stat.Histogram(nil, dividers, sorted, nil)

	h := Histogram{
		Edges:   edges,
		Centers: make([]float64, bins),
		Widths:  make([]float64, bins),
		Counts:  make([]int, bins),
		Percent: make([]float64, bins),
		Total:   len(sorted),
	}
	for i := 0; i < bins; i++ {
		h.Centers[i] = (edges[i] + edges[i+1]) / 2
		h.Widths[i] = edges[i+1] - edges[i]
		h.Counts[i] = int(weights[i])
		h.Percent[i] = weights[i] / float64(len(sorted)) * 100
	}
	return h
}

// Peak returns the largest bucket percentage, or 100 for an empty histogram.
func (h Histogram) Peak() float64 {
	if len(h.Percent) == 0 {
		return 100
	}
	return slices.Max(h.Percent)
}
