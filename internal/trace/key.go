// internal/trace/key.go

// Package trace turns a finalized dataset into a flat, ordered list of
// drawable traces and records which index ranges belong to each
// simulation/run/request selection, so a filter change is a lookup plus one
// pass over a visibility vector.
package trace

import (
	"fmt"
	"strings"
)

// Axis is one filterable level of the hierarchy.
type Axis int

const (
	AxisSimulation Axis = iota
	AxisRequest
	AxisRun
)

func (a Axis) String() string {
	switch a {
	case AxisSimulation:
		return "simulation"
	case AxisRequest:
		return "request"
	case AxisRun:
		return "run"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Axis) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// ParseAxis accepts simulation, request, run (or timestamp).
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simulation", "sim":
		return AxisSimulation, nil
	case "request", "req":
		return AxisRequest, nil
	case "run", "timestamp":
		return AxisRun, nil
	}
	return 0, fmt.Errorf("unknown axis %q", s)
}

// Key addresses a selection. Run and Request are wildcards unless the
// matching Has flag is set.
type Key struct {
	Simulation string `json:"simulation"`
	Run        string `json:"run,omitempty"`
	Request    string `json:"request,omitempty"`
	HasRun     bool   `json:"-"`
	HasRequest bool   `json:"-"`
}

// Triple is the key of one (simulation, run, request) series.
func Triple(sim, run, req string) Key {
	return Key{Simulation: sim, Run: run, Request: req, HasRun: true, HasRequest: true}
}

// Pair is the key of a simulation and request across all runs.
func Pair(sim, req string) Key {
	return Key{Simulation: sim, Request: req, HasRequest: true}
}

// SimRun is the key of every request of one run.
func SimRun(sim, run string) Key {
	return Key{Simulation: sim, Run: run, HasRun: true}
}

// Sim is the key of everything under one simulation.
func Sim(sim string) Key {
	return Key{Simulation: sim}
}

func (k Key) String() string {
	if k.IsZero() {
		return "*"
	}
	run, req := "*", "*"
	if k.HasRun {
		run = k.Run
	}
	if k.HasRequest {
		req = k.Request
	}
	return k.Simulation + "/" + run + "/" + req
}

// IsZero reports whether k is the empty key.
func (k Key) IsZero() bool { return k == Key{} }

// partials returns k followed by every key formed by wildcarding a subset of
// its run and request fields.
func (k Key) partials() []Key {
	out := []Key{k}
	if k.HasRun && k.HasRequest {
		out = append(out, Pair(k.Simulation, k.Request), SimRun(k.Simulation, k.Run))
	}
	if k.HasRun || k.HasRequest {
		out = append(out, Sim(k.Simulation))
	}
	return out
}

// Range is a half-open span [Start, End) of trace indices.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns End - Start.
func (r Range) Len() int { return r.End - r.Start }
