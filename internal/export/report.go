// internal/export/report.go

// Package export writes dataset summaries as CSV, JSON reports or Prometheus
// text exposition.
package export

import (
	"cmp"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/igrmk/treemap/v2"
	jsoniter "github.com/json-iterator/go"

	"github.com/mwiater/gstat/internal/dataset"
	"github.com/mwiater/gstat/internal/stats"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Format is an output format of the summary command.
type Format int

const (
	FormatCSV Format = iota
	FormatJSON
	FormatPrometheus
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatPrometheus:
		return "prom"
	default:
		return "csv"
	}
}

// ParseFormat accepts csv, json, prom or prometheus.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "prom", "prometheus":
		return FormatPrometheus, nil
	}
	return FormatCSV, fmt.Errorf("unknown format %q (want csv, json or prom)", s)
}

// Row is the summary of one request series.
type Row struct {
	Simulation string        `json:"simulation"`
	Run        string        `json:"run"`
	RunLabel   string        `json:"run_timestamp"`
	Request    string        `json:"request"`
	Directory  string        `json:"directory"`
	Summary    stats.Summary `json:"summary"`
}

// Report is the JSON artifact of the summary command.
type Report struct {
	Root        string    `json:"root"`
	Method      string    `json:"method"`
	Rows        []Row     `json:"rows"`
	GeneratedAt time.Time `json:"generated_at"`
}

type rowKey struct {
	simulation, run, request string
}

func lessRowKey(a, b rowKey) bool {
	if c := cmp.Compare(a.simulation, b.simulation); c != 0 {
		return c < 0
	}
	if c := cmp.Compare(a.run, b.run); c != 0 {
		return c < 0
	}
	return a.request < b.request
}

// Rows returns one row per series sorted by simulation, run token and
// request name.
func Rows(ds *dataset.Dataset) []Row {
	tm := treemap.NewWithKeyCompare[rowKey, Row](lessRowKey)
	ds.Walk(func(sim string, run *dataset.Run, s *dataset.RequestSeries) {
		tm.Set(rowKey{sim, run.Token, s.Name}, Row{
			Simulation: sim,
			Run:        run.Token,
			RunLabel:   run.Label,
			Request:    s.Name,
			Directory:  run.Dir,
			Summary:    s.Summary,
		})
	})

	rows := make([]Row, 0, tm.Len())
	for it := tm.Iterator(); it.Valid(); it.Next() {
		rows = append(rows, it.Value())
	}
	return rows
}

// BuildReport packs the rows of ds with a timestamp.
func BuildReport(ds *dataset.Dataset, now time.Time) Report {
	return Report{
		Root:        ds.Root(),
		Method:      ds.Algorithm().String(),
		Rows:        Rows(ds),
		GeneratedAt: now,
	}
}

// WriteJSON writes the report of ds as indented JSON.
func WriteJSON(w io.Writer, ds *dataset.Dataset, now time.Time) error {
	b, err := json.MarshalIndent(BuildReport(ds, now), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// Write dispatches to the writer of f.
func Write(w io.Writer, ds *dataset.Dataset, f Format) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, ds, time.Now())
	case FormatPrometheus:
		return WritePrometheus(w, ds)
	default:
		return WriteCSV(w, ds)
	}
}
