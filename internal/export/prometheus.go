// internal/export/prometheus.go
// Package: export
package export

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/mwiater/gstat/internal/dataset"
	"github.com/mwiater/gstat/internal/stats"
)

const namespace = "gstat"

var seriesLabels = []string{"simulation", "run", "request"}

// NewRegistry registers the summary gauges of every series in ds on a fresh
// registry.
func NewRegistry(ds *dataset.Dataset) (*prometheus.Registry, error) {
	quantiles := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "response_time_ms",
		Help:      "Response time quantiles per request series in milliseconds.",
	}, append(seriesLabels, "quantile"))
	means := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "response_time_mean_ms",
		Help:      "Mean response time per request series in milliseconds.",
	}, seriesLabels)
	counts := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Successful requests per request series.",
	}, seriesLabels)

	reg := prometheus.NewRegistry()
	for _, c := range []prometheus.Collector{quantiles, means, counts} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}

	for _, row := range Rows(ds) {
		for i, q := range row.Summary.Quantiles() {
			quantiles.WithLabelValues(row.Simulation, row.Run, row.Request, stats.Keys[i]).Set(q)
		}
		means.WithLabelValues(row.Simulation, row.Run, row.Request).Set(row.Summary.Mean)
		counts.WithLabelValues(row.Simulation, row.Run, row.Request).Set(float64(row.Summary.Count))
	}
	return reg, nil
}

// WritePrometheus writes the summaries of ds in the text exposition format.
func WritePrometheus(w io.Writer, ds *dataset.Dataset) error {
	reg, err := NewRegistry(ds)
	if err != nil {
		return err
	}
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
