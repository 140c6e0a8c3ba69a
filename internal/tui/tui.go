// internal/tui/tui.go

// Package tui is the interactive explorer: one list per hierarchy axis and a
// detail pane showing the traces the current selection makes visible.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/mwiater/gstat/internal/dataset"
	"github.com/mwiater/gstat/internal/logging"
	"github.com/mwiater/gstat/internal/stats"
	"github.com/mwiater/gstat/internal/trace"
)

// Options configures Run.
type Options struct {
	// Mode is the emission mode the explorer opens in.
	Mode trace.Mode
	// Style is the palette and bin count handed to trace.Build.
	Style trace.Style
	// Debug mirrors bubbletea output to debug.log.
	Debug  bool
	Logger *zap.Logger
}

// model is the Bubble Tea model of the explorer.
type model struct {
	// The finalized dataset being explored.
	ds *dataset.Dataset
	// Palette used every time the index is rebuilt.
	style trace.Style
	// The trace index of the current mode.
	idx *trace.Index
	// Cursor over idx.
	sel *trace.Selector
	// Axes of the current mode, in list order.
	axes []trace.Axis
	// One list per axis.
	lists []list.Model
	// Position in axes of the focused list.
	focus int
	// Detail pane.
	viewport viewport.Model
	// Current width and height of the terminal.
	width, height int
	logger        *zap.Logger
}

// item is a selectable axis value.
type item struct {
	// Display text.
	title string
	// Secondary line.
	desc string
	// Axis value passed to Selector.Select.
	value string
}

// Title returns the title of the list item.
func (i item) Title() string { return i.title }

// Description returns the secondary line of the list item.
func (i item) Description() string { return i.desc }

// FilterValue returns the title of the item.
func (i item) FilterValue() string { return i.title }

func newModel(ds *dataset.Dataset, opts Options) *model {
	logger := logging.OrNop(opts.Logger)
	m := &model{
		ds:       ds,
		style:    opts.Style,
		viewport: viewport.New(80, 10),
		logger:   logger,
	}
	m.setMode(opts.Mode)
	return m
}

// setMode rebuilds the index for mode, keeping the selected simulation when
// it still has traces.
func (m *model) setMode(mode trace.Mode) {
	var keepSim string
	if m.sel != nil {
		keepSim = m.sel.Value(trace.AxisSimulation)
	}
	m.idx = trace.Build(m.ds, mode, m.style)
	m.sel = trace.NewSelector(m.idx)
	if keepSim != "" {
		m.sel.Select(trace.AxisSimulation, keepSim)
	}
	m.axes = m.idx.Axes()
	m.lists = make([]list.Model, len(m.axes))
	for i, axis := range m.axes {
		delegate := list.NewDefaultDelegate()
		l := list.New(nil, delegate, 0, 0)
		l.Title = strings.ToUpper(axis.String()[:1]) + axis.String()[1:]
		l.SetShowHelp(false)
		l.SetFilteringEnabled(false)
		l.SetShowStatusBar(false)
		m.lists[i] = l
	}
	if m.focus >= len(m.axes) {
		m.focus = 0
	}
	m.logger.Debug("explorer mode", zap.Stringer("mode", mode), zap.Int("traces", m.idx.Len()))
	m.resize()
	m.refresh()
}

// refresh reloads every list from the selector and redraws the detail pane.
func (m *model) refresh() {
	for i, axis := range m.axes {
		current := m.sel.Value(axis)
		var items []list.Item
		selected := 0
		for j, v := range m.sel.Options(axis) {
			items = append(items, m.itemFor(axis, v))
			if v == current {
				selected = j
			}
		}
		m.lists[i].SetItems(items)
		m.lists[i].Select(selected)
	}
	m.viewport.SetContent(m.detail())
}

func (m *model) itemFor(axis trace.Axis, value string) item {
	sim := m.sel.Value(trace.AxisSimulation)
	switch axis {
	case trace.AxisSimulation:
		return item{title: trace.Truncate(value, 25), desc: fmt.Sprintf("%d runs", len(m.ds.Runs(value))), value: value}
	case trace.AxisRun:
		desc := value
		if run := m.ds.Run(sim, value); run != nil {
			desc = fmt.Sprintf("%s (%d requests)", value, len(run.Requests()))
			return item{title: run.Label, desc: desc, value: value}
		}
		return item{title: value, desc: desc, value: value}
	default:
		desc := ""
		if m.idx.Mode() == trace.Stacked {
			desc = fmt.Sprintf("%d runs", len(m.ds.RunsWithRequest(sim, value)))
		} else if s := m.ds.Series(sim, m.sel.Value(trace.AxisRun), value); s != nil {
			desc = fmt.Sprintf("n=%d p50=%.0fms p95=%.0fms", s.Summary.Count, s.Summary.P50, s.Summary.P95)
		}
		return item{title: trace.Truncate(value, 100), desc: desc, value: value}
	}
}

// detail renders the summary of the current selection and its visible traces.
func (m *model) detail() string {
	var b strings.Builder
	key := m.sel.Key()
	sim, req := key.Simulation, key.Request

	label := lipgloss.NewStyle().Bold(true)
	faint := lipgloss.NewStyle().Faint(true)

	b.WriteString(label.Render("Summary") + "\n")
	header := fmt.Sprintf("  %-20s %6s", "run", "count")
	for _, k := range stats.Keys {
		header += fmt.Sprintf(" %8s", k)
	}
	header += fmt.Sprintf(" %8s", "mean")
	b.WriteString(faint.Render(header) + "\n")

	writeRow := func(label string, s *dataset.RequestSeries) {
		row := fmt.Sprintf("  %-20s %6d", label, s.Summary.Count)
		for _, q := range s.Summary.Quantiles() {
			row += fmt.Sprintf(" %8.0f", q)
		}
		row += fmt.Sprintf(" %8.0f", s.Summary.Mean)
		b.WriteString(row + "\n")
	}

	switch m.idx.Mode() {
	case trace.ScatterAll:
		m.ds.Walk(func(sim string, run *dataset.Run, s *dataset.RequestSeries) {
			writeRow(trace.Truncate(sim+" "+run.Label+" "+s.Name, 20), s)
		})
	default:
		runs := []string{key.Run}
		if m.idx.Mode() == trace.Stacked {
			runs = m.ds.RunsWithRequest(sim, req)
		}
		for _, token := range runs {
			s := m.ds.Series(sim, token, req)
			run := m.ds.Run(sim, token)
			if s == nil || run == nil {
				continue
			}
			writeRow(run.Label, s)
		}
	}

	visible := m.sel.Visible()
	b.WriteString("\n" + label.Render(fmt.Sprintf("Visible traces (%d of %d)", len(visible), m.idx.Len())) + "\n")
	if len(visible) == 0 {
		b.WriteString(faint.Render("  no data for this selection") + "\n")
	}
	for _, tr := range visible {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(tr.Color)).Render("■")
		name := tr.Label
		if name == "" {
			name = tr.Name
		}
		b.WriteString(fmt.Sprintf("  %s #%-4d %-10s %s\n", swatch, tr.Index, tr.Kind, name))
	}
	return b.String()
}

func (m *model) resize() {
	if m.width == 0 {
		return
	}
	listHeight := 0
	if len(m.lists) > 0 {
		listHeight = m.height / 2
		colWidth := m.width/len(m.lists) - 4
		for i := range m.lists {
			m.lists[i].SetSize(colWidth, listHeight)
		}
	}
	m.viewport.Width = m.width - 2
	m.viewport.Height = max(3, m.height-listHeight-6)
}

// Init implements tea.Model.
func (m *model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "m":
			m.setMode(m.idx.Mode().Next())
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		if len(m.lists) == 0 {
			// scatter-all has no axes to focus
			return m, nil
		}
		switch msg.String() {
		case "tab":
			m.focus = (m.focus + 1) % len(m.lists)
			return m, nil
		case "shift+tab":
			m.focus = (m.focus + len(m.lists) - 1) % len(m.lists)
			return m, nil
		case "enter":
			if it, ok := m.lists[m.focus].SelectedItem().(item); ok {
				axis := m.axes[m.focus]
				if m.sel.Select(axis, it.value) {
					m.logger.Debug("selection", zap.Stringer("axis", axis), zap.String("value", it.value), zap.Stringer("key", m.sel.Key()))
					m.refresh()
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	}

	if len(m.lists) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.lists[m.focus], cmd = m.lists[m.focus].Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	headerStyle := lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	status := lipgloss.JoinHorizontal(lipgloss.Top,
		headerStyle.Render("Mode: "+m.idx.Mode().String()),
		headerStyle.MarginLeft(1).Render("Selection: "+m.sel.Key().String()),
	)
	help := lipgloss.NewStyle().Faint(true).Render(" (tab to switch list, enter to select, m to change mode, q to quit)")

	cols := make([]string, len(m.lists))
	for i := range m.lists {
		border := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
		if i == m.focus {
			border = border.BorderForeground(lipgloss.Color("205"))
		}
		cols[i] = border.Render(m.lists[i].View())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		status+help,
		lipgloss.JoinHorizontal(lipgloss.Top, cols...),
		m.viewport.View(),
	)
}

// Run opens the explorer on ds and blocks until the user quits.
func Run(ds *dataset.Dataset, opts Options) error {
	if opts.Debug {
		f, err := tea.LogToFile("debug.log", "debug")
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer f.Close()
	}
	if opts.Style.Bins == 0 {
		opts.Style = trace.DefaultStyle()
	}

	p := tea.NewProgram(newModel(ds, opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run explorer: %w", err)
	}
	return nil
}
