// internal/stats/tdigest.go
// Package: stats
package stats

import (
	"github.com/influxdata/tdigest"
)

// digestCompression is the sketch compression used for every series.
const digestCompression = 100

// digestQuantiles inserts values one at a time, in input order, into a fresh
// t-digest and reads the summary quantiles back.
//
// Min and Max are the raw extremes rather than the sketch's boundary estimate.
// Interior quantiles are clamped into [Min, Max] and forced non-decreasing.
func digestQuantiles(values []float64) []float64 {
	td := tdigest.NewWithCompression(digestCompression)
	lo, hi := values[0], values[0]
	for _, v := range values {
		td.Add(v, 1)
		lo = min(lo, v)
		hi = max(hi, v)
	}

	out := make([]float64, len(Percentiles))
	out[0] = lo
	out[len(out)-1] = hi
	prev := lo
	for i := 1; i < len(Percentiles)-1; i++ {
		q := td.Quantile(Percentiles[i] / 100)
		q = max(prev, min(q, hi))
		out[i] = q
		prev = q
	}
	return out
}
