// internal/trace/menu.go
// Package: trace
package trace

import "slices"

const (
	simulationLabelMax = 25
	requestLabelMax    = 100
)

// MenuItem is one entry of an axis menu.
type MenuItem struct {
	Label   string `json:"label"`
	Value   string `json:"value"`
	Key     Key    `json:"key"`
	Visible []bool `json:"visible"`
}

// Menu lists the entries of one axis.
type Menu struct {
	Axis  Axis       `json:"axis"`
	Items []MenuItem `json:"items"`
}

// Menus returns one menu per axis of the mode. Each entry changes only its
// own axis and keeps the default for the others.
func (idx *Index) Menus() []Menu {
	if idx.def.IsZero() {
		return nil
	}
	menus := make([]Menu, 0, len(idx.Axes()))
	for _, axis := range idx.Axes() {
		menus = append(menus, Menu{Axis: axis, Items: idx.menuItems(axis)})
	}
	return menus
}

func (idx *Index) menuItems(axis Axis) []MenuItem {
	def := idx.def
	var items []MenuItem
	item := func(label, value string, key Key) {
		items = append(items, MenuItem{Label: label, Value: value, Key: key, Visible: idx.Visibility(key)})
	}

	switch axis {
	case AxisSimulation:
		for _, sim := range idx.ds.Simulations() {
			item(Truncate(sim, simulationLabelMax), sim, idx.firstKey(sim))
		}
	case AxisRequest:
		if idx.mode == Stacked {
			for _, req := range idx.ds.AllRequests() {
				item(Truncate(req, requestLabelMax), req, Pair(def.Simulation, req))
			}
			break
		}
		for _, req := range idx.ds.Requests(def.Simulation, def.Run) {
			item(Truncate(req, requestLabelMax), req, Triple(def.Simulation, def.Run, req))
		}
	case AxisRun:
		for _, token := range idx.ds.Runs(def.Simulation) {
			label := token
			if run := idx.ds.Run(def.Simulation, token); run != nil {
				label = run.Label
			}
			item(label, token, Triple(def.Simulation, token, def.Request))
		}
	}
	return items
}

// firstKey resolves a simulation to its first run and request in canonical
// order. In stacked mode it is the first request of the global request list
// the simulation recorded.
func (idx *Index) firstKey(sim string) Key {
	if idx.mode == Stacked {
		for _, req := range idx.ds.AllRequests() {
			if len(idx.ds.RunsWithRequest(sim, req)) > 0 {
				return Pair(sim, req)
			}
		}
		return Sim(sim)
	}
	runs := idx.ds.Runs(sim)
	if len(runs) == 0 {
		return Sim(sim)
	}
	reqs := idx.ds.Requests(sim, runs[0])
	if len(reqs) == 0 {
		return SimRun(sim, runs[0])
	}
	return Triple(sim, runs[0], reqs[0])
}

// Truncate shortens s to limit runes, ending in "..." when cut.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 3 {
		return string(r[:limit])
	}
	return string(r[:limit-3]) + "..."
}

// Labels returns the labels of m in order.
func (m Menu) Labels() []string {
	out := make([]string, len(m.Items))
	for i, it := range m.Items {
		out[i] = it.Label
	}
	return out
}

// Find returns the item whose value is v.
func (m Menu) Find(v string) (MenuItem, bool) {
	i := slices.IndexFunc(m.Items, func(it MenuItem) bool { return it.Value == v })
	if i < 0 {
		return MenuItem{}, false
	}
	return m.Items[i], true
}
