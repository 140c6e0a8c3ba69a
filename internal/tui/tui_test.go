package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwiater/gstat/internal/dataset"
	"github.com/mwiater/gstat/internal/stats"
	"github.com/mwiater/gstat/internal/trace"
)

func testModel(t *testing.T) *model {
	t.Helper()
	vals := func(vs ...float64) []stats.Sample {
		out := make([]stats.Sample, len(vs))
		for i, v := range vs {
			out[i] = stats.Sample{Value: v}
		}
		return out
	}
	ds := dataset.New("/reports", stats.Exact)
	require.NoError(t, ds.Insert("alpha", "20250101000000000", "browse", vals(5, 6), ""))
	require.NoError(t, ds.Insert("alpha", "20250101000000000", "login", vals(10, 20, 30), ""))
	require.NoError(t, ds.Insert("alpha", "20250102000000000", "login", vals(15, 25), ""))
	require.NoError(t, ds.Insert("beta", "20250103000000000", "search", vals(1, 2, 3), ""))
	ds.Finalize()

	m := newModel(ds, Options{Mode: trace.Distribution, Style: trace.DefaultStyle()})
	m.Update(tea.WindowSizeMsg{Width: 160, Height: 48})
	return m
}

func press(m *model, k tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(k)
	return cmd
}

func TestModel_InitialSelection(t *testing.T) {
	m := testModel(t)
	assert.Equal(t, trace.Triple("alpha", "20250101000000000", "browse"), m.sel.Key())
	require.Len(t, m.lists, 3)
	assert.Len(t, m.lists[0].Items(), 2)
	assert.Len(t, m.lists[1].Items(), 2)
	assert.Len(t, m.lists[2].Items(), 2)

	view := m.View()
	assert.Contains(t, view, "Mode: distribution")
	assert.Contains(t, m.detail(), "Visible traces (6 of 24)")
}

func TestModel_SelectRequestThenRun(t *testing.T) {
	m := testModel(t)

	press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 1, m.focus)
	press(m, tea.KeyMsg{Type: tea.KeyDown})
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "login", m.sel.Value(trace.AxisRequest))

	press(m, tea.KeyMsg{Type: tea.KeyTab})
	press(m, tea.KeyMsg{Type: tea.KeyDown})
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, trace.Triple("alpha", "20250102000000000", "login"), m.sel.Key())
	assert.Len(t, m.lists[1].Items(), 1)

	press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, 1, m.focus)
}

func TestModel_CycleMode(t *testing.T) {
	m := testModel(t)
	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	assert.Equal(t, trace.Stacked, m.idx.Mode())
	require.Len(t, m.lists, 2)
	assert.Equal(t, trace.Pair("alpha", "browse"), m.sel.Key())
	assert.True(t, strings.Contains(m.detail(), "2025-01-01 00:00:00"))

	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	assert.Equal(t, trace.Scatter, m.idx.Mode())
	assert.Contains(t, m.detail(), "no data for this selection")
}

func TestModel_ScatterAllHasNoLists(t *testing.T) {
	m := testModel(t)
	for range 3 {
		press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	}
	require.Equal(t, trace.ScatterAll, m.idx.Mode())
	assert.Empty(t, m.lists)
	assert.Contains(t, m.detail(), "Visible traces (4 of 4)")
	assert.Contains(t, m.View(), "Mode: scatter-all")

	assert.Nil(t, press(m, tea.KeyMsg{Type: tea.KeyTab}))
	assert.Nil(t, press(m, tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Nil(t, press(m, tea.KeyMsg{Type: tea.KeyDown}))

	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	assert.Equal(t, trace.Distribution, m.idx.Mode())
	assert.Len(t, m.lists, 3)
}

func TestModel_Quit(t *testing.T) {
	m := testModel(t)
	cmd := press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}
