// internal/trace/style.go
// Package: trace
package trace

import (
	"fmt"
	"strings"
)

// Mode selects how the dataset is laid out as traces.
type Mode int

const (
	// Distribution draws a histogram per series with percentile and mean lines.
	Distribution Mode = iota
	// Stacked draws percentile bands per simulation and request, one bar per run.
	Stacked
	// Scatter draws each sample at its end time with percentile and mean lines.
	Scatter
	// ScatterAll draws every series at once against its request number, with
	// no filter axes.
	ScatterAll
)

// Modes lists every mode in display order.
var Modes = []Mode{Distribution, Stacked, Scatter, ScatterAll}

func (m Mode) String() string {
	switch m {
	case Distribution:
		return "distribution"
	case Stacked:
		return "stacked"
	case Scatter:
		return "scatter"
	case ScatterAll:
		return "scatter-all"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// ParseMode maps a mode name to a Mode. The empty string is Distribution.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "distribution", "histogram":
		return Distribution, nil
	case "stacked":
		return Stacked, nil
	case "scatter":
		return Scatter, nil
	case "scatter-all", "scatter_all":
		return ScatterAll, nil
	}
	return Distribution, fmt.Errorf("unknown plot mode %q (want distribution, stacked, scatter or scatter-all)", s)
}

// Axes returns the filter axes of the mode in menu order.
func (m Mode) Axes() []Axis {
	switch m {
	case Stacked:
		return []Axis{AxisSimulation, AxisRequest}
	case ScatterAll:
		return nil
	default:
		return []Axis{AxisSimulation, AxisRequest, AxisRun}
	}
}

// Next cycles through Modes.
func (m Mode) Next() Mode {
	return Modes[(int(m)+1)%len(Modes)]
}

// Line is a percentile drawn as a marker line.
type Line struct {
	Key   string
	Color string
}

// Band is the stacked segment between two summary keys.
type Band struct {
	Name  string
	Lower string
	Upper string
	Color string
}

// Style is the static color and layout table handed to Build.
type Style struct {
	Lines          []Line
	Bands          []Band
	MeanColor      string
	HistogramColor string
	MarkerColor    string
	// Palette colors the series of the scatter-all mode in turn.
	Palette []string
	Bins    int
}

// DefaultStyle returns the standard palette with 50 histogram bins.
func DefaultStyle() Style {
	return Style{
		Lines: []Line{
			{Key: "50th", Color: "#28a745"},
			{Key: "75th", Color: "#A23B72"},
			{Key: "95th", Color: "#F18F01"},
			{Key: "99th", Color: "#C73E1D"},
		},
		Bands: []Band{
			{Name: "0-50th", Lower: "min", Upper: "50th", Color: "#28a745"},
			{Name: "50th-75th", Lower: "50th", Upper: "75th", Color: "#A23B72"},
			{Name: "75th-95th", Lower: "75th", Upper: "95th", Color: "#F18F01"},
			{Name: "95th-99th", Lower: "95th", Upper: "99th", Color: "#C73E1D"},
			{Name: "99th-max", Lower: "99th", Upper: "max", Color: "#8B0000"},
		},
		MeanColor:      "#2E86AB",
		HistogramColor: "#ADD8E6",
		MarkerColor:    "#ADD8E6",
		Palette: []string{
			"#636EFA", "#EF553B", "#00CC96", "#AB63FA", "#FFA15A",
			"#19D3F3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
		},
		Bins: 50,
	}
}
