// internal/trace/selector.go
// Package: trace
package trace

import "slices"

// Selector tracks the current value of every axis of an Index. When one axis
// changes, axes below it keep their value if it still exists under the new
// prefix and otherwise fall back to the first valid value.
type Selector struct {
	idx *Index
	sim string
	run string
	req string
}

// NewSelector starts at the index default.
func NewSelector(idx *Index) *Selector {
	def := idx.Default()
	s := &Selector{idx: idx, sim: def.Simulation, run: def.Run, req: def.Request}
	s.resolve()
	return s
}

// Index returns the index the selector reads.
func (s *Selector) Index() *Index { return s.idx }

// Key returns the key of the current selection in the index's mode.
func (s *Selector) Key() Key {
	switch s.idx.Mode() {
	case Stacked:
		return Pair(s.sim, s.req)
	case ScatterAll:
		return Key{}
	default:
		return Triple(s.sim, s.run, s.req)
	}
}

// Value returns the current value of axis.
func (s *Selector) Value(axis Axis) string {
	switch axis {
	case AxisSimulation:
		return s.sim
	case AxisRun:
		return s.run
	default:
		return s.req
	}
}

// Options returns the values axis can take under the current selection.
func (s *Selector) Options(axis Axis) []string {
	ds := s.idx.Dataset()
	switch axis {
	case AxisSimulation:
		return ds.Simulations()
	case AxisRun:
		if s.idx.Mode() == Stacked {
			return nil
		}
		return ds.Runs(s.sim)
	default:
		if s.idx.Mode() == Stacked {
			var out []string
			for _, req := range ds.AllRequests() {
				if len(ds.RunsWithRequest(s.sim, req)) > 0 {
					out = append(out, req)
				}
			}
			return out
		}
		return ds.Requests(s.sim, s.run)
	}
}

// Select sets axis to value. It returns false, leaving the selection
// unchanged, when axis is not filtered in the index's mode or value is not
// one of Options(axis).
func (s *Selector) Select(axis Axis, value string) bool {
	if !slices.Contains(s.idx.Axes(), axis) || !slices.Contains(s.Options(axis), value) {
		return false
	}
	switch axis {
	case AxisSimulation:
		s.sim = value
	case AxisRun:
		s.run = value
	default:
		s.req = value
	}
	s.resolve()
	return true
}

// Visibility returns the visibility vector of the current selection.
func (s *Selector) Visibility() []bool { return s.idx.Visibility(s.Key()) }

// Visible returns the traces of the current selection.
func (s *Selector) Visible() []Trace { return s.idx.Visible(s.Key()) }

func (s *Selector) resolve() {
	if !slices.Contains(s.Options(AxisSimulation), s.sim) {
		s.sim = first(s.Options(AxisSimulation))
	}
	if s.idx.Mode() != Stacked && !slices.Contains(s.Options(AxisRun), s.run) {
		s.run = first(s.Options(AxisRun))
	}
	if !slices.Contains(s.Options(AxisRequest), s.req) {
		s.req = first(s.Options(AxisRequest))
	}
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
