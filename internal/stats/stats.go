// internal/stats/stats.go

// Package stats computes fixed latency summaries from response time samples.
// Two interchangeable algorithms are available: an exact nearest-rank method
// and an approximate t-digest built by sequential inserts.
package stats

import (
	"fmt"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Sample is one normalized latency observation. Start and End are zero when
// the source row did not carry a usable timestamp.
type Sample struct {
	Value float64   `json:"value"`
	Start time.Time `json:"start,omitempty"`
	End   time.Time `json:"end,omitempty"`
}

// HasEnd reports whether the sample carries an end instant.
func (s Sample) HasEnd() bool { return !s.End.IsZero() }

// Values extracts the latency values of samples in input order.
func Values(samples []Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Value
	}
	return out
}

// Algorithm selects how quantiles are computed.
type Algorithm int

const (
	// Exact sorts the samples and picks the nearest-rank element.
	Exact Algorithm = iota
	// TDigest streams the samples into a t-digest sketch.
	TDigest
)

func (a Algorithm) String() string {
	switch a {
	case Exact:
		return "exact"
	case TDigest:
		return "tdigest"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// ParseAlgorithm maps a configuration or flag value to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exact":
		return Exact, nil
	case "tdigest", "t-digest":
		return TDigest, nil
	default:
		return Exact, fmt.Errorf("unknown percentile method %q (want exact or tdigest)", s)
	}
}

// Keys are the summary quantile names in ascending order.
var Keys = []string{"min", "50th", "75th", "95th", "99th", "max"}

// Percentiles holds the percentile requested for each entry of Keys.
var Percentiles = []float64{0, 50, 75, 95, 99, 100}

// Summary is the fixed per-request latency record.
type Summary struct {
	Min   float64 `json:"min"`
	P50   float64 `json:"50th"`
	P75   float64 `json:"75th"`
	P95   float64 `json:"95th"`
	P99   float64 `json:"99th"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
}

// Get returns the quantile stored under one of Keys.
func (s Summary) Get(key string) (float64, bool) {
	switch key {
	case "min":
		return s.Min, true
	case "50th":
		return s.P50, true
	case "75th":
		return s.P75, true
	case "95th":
		return s.P95, true
	case "99th":
		return s.P99, true
	case "max":
		return s.Max, true
	}
	return 0, false
}

// Quantiles returns the six quantiles in Keys order.
func (s Summary) Quantiles() []float64 {
	return []float64{s.Min, s.P50, s.P75, s.P95, s.P99, s.Max}
}

func fromQuantiles(q []float64, count int, mean float64) Summary {
	return Summary{
		Min:   q[0],
		P50:   q[1],
		P75:   q[2],
		P95:   q[3],
		P99:   q[4],
		Max:   q[5],
		Count: count,
		Mean:  mean,
	}
}

// Compute summarizes values with the chosen algorithm. It never fails:
// an empty input yields the zero Summary.
func Compute(values []float64, alg Algorithm) Summary {
	switch len(values) {
	case 0:
		return Summary{}
	case 1:
		v := values[0]
		return Summary{Min: v, P50: v, P75: v, P95: v, P99: v, Max: v, Count: 1, Mean: v}
	}

	mean := stat.Mean(values, nil)
	if alg == TDigest {
		return fromQuantiles(digestQuantiles(values), len(values), mean)
	}
	return fromQuantiles(exactQuantiles(values), len(values), mean)
}
