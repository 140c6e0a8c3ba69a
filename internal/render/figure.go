// internal/render/figure.go

// Package render hands trace indexes to output formats: a JSON figure
// document for interactive front ends, and static images drawn with
// gonum/plot.
package render

import (
	"fmt"
	"io"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"

	"github.com/mwiater/gstat/internal/trace"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Figure is the full handoff to an interactive renderer: every trace with its
// initial visibility and, per axis, the visibility vector of each menu entry.
type Figure struct {
	Mode    trace.Mode    `json:"mode"`
	Title   string        `json:"title"`
	XAxis   string        `json:"xaxis"`
	YAxis   string        `json:"yaxis"`
	Default trace.Key     `json:"default"`
	Traces  []trace.Trace `json:"traces"`
	Menus   []trace.Menu  `json:"menus"`
}

// NewFigure assembles the figure of idx.
func NewFigure(idx *trace.Index) Figure {
	x, y := AxisTitles(idx)
	return Figure{
		Mode:    idx.Mode(),
		Title:   fmt.Sprintf("%s: %s", idx.Mode(), idx.Default()),
		XAxis:   x,
		YAxis:   y,
		Default: idx.Default(),
		Traces:  idx.Traces(),
		Menus:   idx.Menus(),
	}
}

// AxisTitles returns the x and y axis titles of the index's mode.
func AxisTitles(idx *trace.Index) (string, string) {
	var root string
	if idx.Dataset() != nil && idx.Dataset().Root() != "" {
		root = filepath.Base(filepath.Clean(idx.Dataset().Root()))
	}
	of := func(s string) string {
		if root == "" {
			return s
		}
		return s + " of " + root
	}
	switch idx.Mode() {
	case trace.Stacked:
		return of("Runs"), "Response Time (ms)"
	case trace.Scatter:
		return of("Time"), "Response Time (ms)"
	case trace.ScatterAll:
		return of("Request Number"), "Response Time (ms)"
	default:
		return of("Response Time (ms)"), "Requests (%)"
	}
}

// WriteJSON writes the figure of idx.
func WriteJSON(w io.Writer, idx *trace.Index) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewFigure(idx)); err != nil {
		return fmt.Errorf("encode figure: %w", err)
	}
	return nil
}
