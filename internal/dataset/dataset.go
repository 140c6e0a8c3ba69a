// internal/dataset/dataset.go

// Package dataset holds latency series in an ordered three-level tree:
// simulation -> run -> request. A Dataset is built with Insert, sorted once by
// Finalize, and is read-only afterwards.
package dataset

import (
	"cmp"
	"errors"
	"slices"
	"time"

	"github.com/mwiater/gstat/internal/stats"
)

// ErrFinalized is returned by Insert once Finalize has run.
var ErrFinalized = errors.New("dataset: insert after finalize")

// RequestSeries is the latency samples and summary of one request in one run.
type RequestSeries struct {
	Name    string         `json:"name"`
	Samples []stats.Sample `json:"-"`
	Summary stats.Summary  `json:"summary"`
}

// Values returns the latency values of the series in ingestion order.
func (s *RequestSeries) Values() []float64 {
	return stats.Values(s.Samples)
}

// Run is one execution of a simulation, identified by its timestamp token.
type Run struct {
	// Token is the raw timestamp token from the report directory name.
	Token string
	// Instant is Token parsed, or MinInstant.
	Instant time.Time
	// Label is the human-readable rendering of Token.
	Label string
	// Dir is the report directory the run was read from. Display only.
	Dir string

	requests map[string]*RequestSeries
	order    []string
}

func newRun(token, dir string) *Run {
	return &Run{
		Token:    token,
		Instant:  ParseRunTimestamp(token),
		Label:    FormatRunTimestamp(token),
		Dir:      dir,
		requests: make(map[string]*RequestSeries),
	}
}

// Requests returns the request names of the run in order.
func (r *Run) Requests() []string { return slices.Clone(r.order) }

// Series returns the named request series or nil.
func (r *Run) Series(name string) *RequestSeries { return r.requests[name] }

// Simulation groups the runs of one named workload.
type Simulation struct {
	Name string

	runs  map[string]*Run
	order []string
}

// Dataset is the root of the simulation tree.
type Dataset struct {
	root      string
	algorithm stats.Algorithm
	sims      map[string]*Simulation
	order     []string
	series    int
	finalized bool
}

// New returns an empty Dataset whose summaries are computed with alg.
func New(root string, alg stats.Algorithm) *Dataset {
	return &Dataset{
		root:      root,
		algorithm: alg,
		sims:      make(map[string]*Simulation),
	}
}

// Root returns the directory the dataset was loaded from.
func (d *Dataset) Root() string { return d.root }

// Algorithm returns the quantile algorithm used for every series.
func (d *Dataset) Algorithm() stats.Algorithm { return d.algorithm }

// Len returns the number of request series in the dataset.
func (d *Dataset) Len() int { return d.series }

// Finalized reports whether Finalize has run.
func (d *Dataset) Finalized() bool { return d.finalized }

// Insert stores samples as the series (simulation, runToken, requestName),
// creating the simulation and run on first reference. The summary is computed
// here, once. Inserting an existing path replaces its series in place.
func (d *Dataset) Insert(simulation, runToken, requestName string, samples []stats.Sample, sourceDir string) error {
	if d.finalized {
		return ErrFinalized
	}

	sim, ok := d.sims[simulation]
	if !ok {
		sim = &Simulation{Name: simulation, runs: make(map[string]*Run)}
		d.sims[simulation] = sim
		d.order = append(d.order, simulation)
	}

	run, ok := sim.runs[runToken]
	if !ok {
		run = newRun(runToken, sourceDir)
		sim.runs[runToken] = run
		sim.order = append(sim.order, runToken)
	}

	if _, exists := run.requests[requestName]; !exists {
		run.order = append(run.order, requestName)
		d.series++
	}
	run.requests[requestName] = &RequestSeries{
		Name:    requestName,
		Samples: samples,
		Summary: stats.Compute(stats.Values(samples), d.algorithm),
	}
	return nil
}

// Finalize sorts simulations by name, runs by parsed instant (token as
// tie-break) and requests by name. Calling it again is a no-op.
func (d *Dataset) Finalize() {
	if d.finalized {
		return
	}
	slices.Sort(d.order)
	for _, sim := range d.sims {
		slices.SortFunc(sim.order, func(a, b string) int {
			if c := sim.runs[a].Instant.Compare(sim.runs[b].Instant); c != 0 {
				return c
			}
			return cmp.Compare(a, b)
		})
		for _, run := range sim.runs {
			slices.Sort(run.order)
		}
	}
	d.finalized = true
}

// Simulations returns the simulation names in order.
func (d *Dataset) Simulations() []string { return slices.Clone(d.order) }

// Runs returns the run tokens of simulation in order.
func (d *Dataset) Runs(simulation string) []string {
	sim, ok := d.sims[simulation]
	if !ok {
		return nil
	}
	return slices.Clone(sim.order)
}

// Run returns the run or nil.
func (d *Dataset) Run(simulation, runToken string) *Run {
	sim, ok := d.sims[simulation]
	if !ok {
		return nil
	}
	return sim.runs[runToken]
}

// Requests returns the request names of one run in order.
func (d *Dataset) Requests(simulation, runToken string) []string {
	run := d.Run(simulation, runToken)
	if run == nil {
		return nil
	}
	return run.Requests()
}

// Series returns one request series or nil.
func (d *Dataset) Series(simulation, runToken, requestName string) *RequestSeries {
	run := d.Run(simulation, runToken)
	if run == nil {
		return nil
	}
	return run.Series(requestName)
}

// AllRequests returns the sorted union of request names across the dataset.
func (d *Dataset) AllRequests() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, sim := range d.sims {
		for _, run := range sim.runs {
			for _, name := range run.order {
				if _, ok := seen[name]; !ok {
					seen[name] = struct{}{}
					out = append(out, name)
				}
			}
		}
	}
	slices.Sort(out)
	return out
}

// RunsWithRequest returns, in run order, the runs of simulation that recorded requestName.
func (d *Dataset) RunsWithRequest(simulation, requestName string) []string {
	sim, ok := d.sims[simulation]
	if !ok {
		return nil
	}
	var out []string
	for _, token := range sim.order {
		if _, ok := sim.runs[token].requests[requestName]; ok {
			out = append(out, token)
		}
	}
	return out
}

// Walk calls fn for every series in canonical order.
func (d *Dataset) Walk(fn func(simulation string, run *Run, series *RequestSeries)) {
	for _, name := range d.order {
		sim := d.sims[name]
		for _, token := range sim.order {
			run := sim.runs[token]
			for _, req := range run.order {
				fn(name, run, run.requests[req])
			}
		}
	}
}
