// internal/trace/index.go
// Package: trace
package trace

import (
	"fmt"

	"github.com/mwiater/gstat/internal/dataset"
	"github.com/mwiater/gstat/internal/stats"
)

// Kind is the drawable shape of a trace.
type Kind int

const (
	KindHistogram Kind = iota
	KindMarkers
	KindPercentileLine
	KindMeanLine
	KindBand
)

func (k Kind) String() string {
	switch k {
	case KindHistogram:
		return "histogram"
	case KindMarkers:
		return "markers"
	case KindPercentileLine:
		return "percentile"
	case KindMeanLine:
		return "mean"
	case KindBand:
		return "band"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Trace is one visual element. X and Y are always the same length; Base,
// Width, Counts and Text are set only by the kinds that need them.
type Trace struct {
	Index   int       `json:"index"`
	Kind    Kind      `json:"kind"`
	Name    string    `json:"name"`
	Key     Key       `json:"key"`
	Label   string    `json:"label,omitempty"`
	Color   string    `json:"color"`
	X       []float64 `json:"x"`
	Y       []float64 `json:"y"`
	Base    []float64 `json:"base,omitempty"`
	Width   []float64 `json:"width,omitempty"`
	Counts  []int     `json:"counts,omitempty"`
	Text    []string  `json:"text,omitempty"`
	Dir     string    `json:"dir,omitempty"`
	Visible bool      `json:"visible"`
}

// Index is the flat trace list of a dataset in one mode plus the ranges each
// selection key owns.
type Index struct {
	mode     Mode
	ds       *dataset.Dataset
	traces   []Trace
	ranges   map[Key][]Range
	fullKeys []Key
	def      Key
}

// Build walks ds in canonical order and emits the traces of mode. ds must be
// finalized.
func Build(ds *dataset.Dataset, mode Mode, style Style) *Index {
	idx := &Index{
		mode:   mode,
		ds:     ds,
		ranges: make(map[Key][]Range),
	}
	if style.Bins < 1 {
		style.Bins = DefaultStyle().Bins
	}

	switch mode {
	case Stacked:
		idx.buildStacked(style)
	case Scatter:
		idx.buildSeries(func(key Key, run *dataset.Run, s *dataset.RequestSeries) {
			idx.emitScatter(key, run, s, style)
		})
	case ScatterAll:
		idx.buildAll(style)
	default:
		idx.buildSeries(func(key Key, run *dataset.Run, s *dataset.RequestSeries) {
			idx.emitDistribution(key, run, s, style)
		})
	}

	for _, r := range idx.ranges[idx.def] {
		for i := r.Start; i < r.End; i++ {
			idx.traces[i].Visible = true
		}
	}
	return idx
}

func (idx *Index) buildSeries(emit func(Key, *dataset.Run, *dataset.RequestSeries)) {
	for _, sim := range idx.ds.Simulations() {
		for _, token := range idx.ds.Runs(sim) {
			run := idx.ds.Run(sim, token)
			for _, req := range run.Requests() {
				s := run.Series(req)
				if s == nil || len(s.Samples) == 0 {
					continue
				}
				key := Triple(sim, token, req)
				start := len(idx.traces)
				emit(key, run, s)
				idx.record(key, Range{Start: start, End: len(idx.traces)})
			}
		}
	}
}

func (idx *Index) emitDistribution(key Key, run *dataset.Run, s *dataset.RequestSeries, style Style) {
	h := stats.NewHistogram(s.Values(), style.Bins)
	peak := h.Peak()
	idx.add(Trace{
		Kind:   KindHistogram,
		Name:   fmt.Sprintf("%s_%s_%s_histogram", key.Simulation, key.Run, key.Request),
		Key:    key,
		Color:  style.HistogramColor,
		X:      h.Centers,
		Y:      h.Percent,
		Width:  h.Widths,
		Counts: h.Counts,
		Dir:    run.Dir,
	})
	for _, line := range style.Lines {
		v, ok := s.Summary.Get(line.Key)
		if !ok {
			continue
		}
		idx.add(Trace{
			Kind:  KindPercentileLine,
			Name:  line.Key,
			Key:   key,
			Label: fmt.Sprintf("%s: %.0fms", line.Key, v),
			Color: line.Color,
			X:     []float64{v, v},
			Y:     []float64{0, peak},
		})
	}
	mean := s.Summary.Mean
	idx.add(Trace{
		Kind:  KindMeanLine,
		Name:  "mean",
		Key:   key,
		Label: fmt.Sprintf("Mean: %.0fms", mean),
		Color: style.MeanColor,
		X:     []float64{mean, mean},
		Y:     []float64{0, peak},
	})
}

func (idx *Index) emitScatter(key Key, run *dataset.Run, s *dataset.RequestSeries, style Style) {
	var xs, ys []float64
	for _, sample := range s.Samples {
		if !sample.HasEnd() {
			continue
		}
		xs = append(xs, float64(sample.End.UnixMilli()))
		ys = append(ys, sample.Value)
	}
	if len(xs) == 0 {
		return
	}
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		lo, hi = min(lo, x), max(hi, x)
	}

	idx.add(Trace{
		Kind:  KindMarkers,
		Name:  fmt.Sprintf("%s_%s_%s", key.Simulation, key.Run, key.Request),
		Key:   key,
		Color: style.MarkerColor,
		X:     xs,
		Y:     ys,
		Dir:   run.Dir,
	})
	for _, line := range style.Lines {
		v, ok := s.Summary.Get(line.Key)
		if !ok {
			continue
		}
		idx.add(Trace{
			Kind:  KindPercentileLine,
			Name:  line.Key,
			Key:   key,
			Label: fmt.Sprintf("%s: %.0fms", line.Key, v),
			Color: line.Color,
			X:     []float64{lo, hi},
			Y:     []float64{v, v},
		})
	}
	mean := s.Summary.Mean
	idx.add(Trace{
		Kind:  KindMeanLine,
		Name:  "mean",
		Key:   key,
		Label: fmt.Sprintf("Mean: %.0fms", mean),
		Color: style.MeanColor,
		X:     []float64{lo, hi},
		Y:     []float64{mean, mean},
	})
}

// buildAll emits one marker trace per series against its request number.
// Every trace is owned by the zero Key, which is also the default, so the
// whole figure is visible and no menus are offered.
func (idx *Index) buildAll(style Style) {
	palette := style.Palette
	if len(palette) == 0 {
		palette = []string{style.MarkerColor}
	}
	idx.buildSeries(func(key Key, run *dataset.Run, s *dataset.RequestSeries) {
		ys := s.Values()
		idx.add(Trace{
			Kind:  KindMarkers,
			Name:  fmt.Sprintf("%s_%s_%s", key.Simulation, key.Run, key.Request),
			Key:   key,
			Color: palette[len(idx.traces)%len(palette)],
			X:     ordinals(len(ys)),
			Y:     ys,
			Dir:   run.Dir,
		})
	})
	idx.def = Key{}
	if n := len(idx.traces); n > 0 {
		idx.ranges[Key{}] = []Range{{Start: 0, End: n}}
	}
}

// buildStacked emits the bands of every (simulation, request) group, then one
// mean line per group so the lines draw above every bar.
func (idx *Index) buildStacked(style Style) {
	type group struct {
		key  Key
		runs []string
	}
	var groups []group

	requests := idx.ds.AllRequests()
	for _, sim := range idx.ds.Simulations() {
		for _, req := range requests {
			runs := idx.ds.RunsWithRequest(sim, req)
			if len(runs) == 0 {
				continue
			}
			key := Pair(sim, req)
			groups = append(groups, group{key: key, runs: runs})

			summaries := make([]stats.Summary, len(runs))
			labels := make([]string, len(runs))
			for i, token := range runs {
				summaries[i] = idx.ds.Series(sim, token, req).Summary
				labels[i] = idx.ds.Run(sim, token).Label
			}
			xs := ordinals(len(runs))

			start := len(idx.traces)
			for _, band := range style.Bands {
				base := make([]float64, len(runs))
				height := make([]float64, len(runs))
				for i, sum := range summaries {
					lower, _ := sum.Get(band.Lower)
					upper, _ := sum.Get(band.Upper)
					base[i] = lower
					height[i] = upper - lower
				}
				idx.add(Trace{
					Kind:  KindBand,
					Name:  band.Name,
					Key:   key,
					Label: band.Name,
					Color: band.Color,
					X:     xs,
					Y:     height,
					Base:  base,
					Text:  labels,
				})
			}
			idx.record(key, Range{Start: start, End: len(idx.traces)})
		}
	}

	for _, g := range groups {
		means := make([]float64, len(g.runs))
		for i, token := range g.runs {
			means[i] = idx.ds.Series(g.key.Simulation, token, g.key.Request).Summary.Mean
		}
		start := len(idx.traces)
		idx.add(Trace{
			Kind:  KindMeanLine,
			Name:  "mean",
			Key:   g.key,
			Label: "Mean",
			Color: style.MeanColor,
			X:     ordinals(len(g.runs)),
			Y:     means,
		})
		idx.record(g.key, Range{Start: start, End: len(idx.traces)})
	}
}

// ordinals returns 1..n.
func ordinals(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i + 1)
	}
	return xs
}

func (idx *Index) add(t Trace) {
	t.Index = len(idx.traces)
	idx.traces = append(idx.traces, t)
}

// record stores r under key and all of its partial keys. Ranges that touch
// the previous range of the same key are merged into it.
func (idx *Index) record(key Key, r Range) {
	if r.Len() <= 0 {
		return
	}
	if _, seen := idx.ranges[key]; !seen {
		idx.fullKeys = append(idx.fullKeys, key)
		if idx.def.IsZero() {
			idx.def = key
		}
	}
	for _, k := range key.partials() {
		rs := idx.ranges[k]
		if n := len(rs); n > 0 && rs[n-1].End == r.Start {
			rs[n-1].End = r.End
		} else {
			rs = append(rs, r)
		}
		idx.ranges[k] = rs
	}
}

// Mode returns the emission mode of the index.
func (idx *Index) Mode() Mode { return idx.mode }

// Dataset returns the dataset the index was built from.
func (idx *Index) Dataset() *dataset.Dataset { return idx.ds }

// Axes returns the filter axes of the index's mode.
func (idx *Index) Axes() []Axis { return idx.mode.Axes() }

// Len returns the total number of traces.
func (idx *Index) Len() int { return len(idx.traces) }

// Traces returns the traces in index order. The slice must not be modified.
func (idx *Index) Traces() []Trace { return idx.traces }

// Default returns the key whose traces are initially visible. It is the zero
// Key when nothing was emitted, and in the scatter-all mode, where the zero
// Key owns every trace.
func (idx *Index) Default() Key { return idx.def }

// FullKeys returns the group keys in emission order.
func (idx *Index) FullKeys() []Key {
	out := make([]Key, len(idx.fullKeys))
	copy(out, idx.fullKeys)
	return out
}

// Ranges returns the ranges stored for key, or nil.
func (idx *Index) Ranges(key Key) []Range {
	rs := idx.ranges[key]
	if rs == nil {
		return nil
	}
	out := make([]Range, len(rs))
	copy(out, rs)
	return out
}

// Visibility returns a vector of Len() entries with the traces of key set.
// Unknown keys give an all-false vector.
func (idx *Index) Visibility(key Key) []bool {
	vis := make([]bool, len(idx.traces))
	for _, r := range idx.ranges[key] {
		for i := r.Start; i < r.End; i++ {
			vis[i] = true
		}
	}
	return vis
}

// Visible returns the traces selected by key in index order.
func (idx *Index) Visible(key Key) []Trace {
	var out []Trace
	for _, r := range idx.ranges[key] {
		out = append(out, idx.traces[r.Start:r.End]...)
	}
	return out
}
