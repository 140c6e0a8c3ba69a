package gstat

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwiater/gstat/internal/dataset"
	"github.com/mwiater/gstat/internal/trace"
	"github.com/mwiater/gstat/internal/tui"
)

const simulationLog = `record_type,status,request_name,start_timestamp,end_timestamp,response_time_ms
request,OK,login,1735689600000,1735689600010,10
request,OK,login,1735689601000,1735689601020,20
request,OK,login,1735689602000,1735689602030,30
request,KO,login,1735689603000,1735689603999,999
request,OK,home,1735689604000,1735689604005,5
user,OK,,1735689600000,,
`

// resetFlags restores every flag to its default between executions.
func resetFlags(t *testing.T) {
	t.Helper()
	var reset func(*cobra.Command)
	reset = func(c *cobra.Command) {
		for _, fs := range []*pflag.FlagSet{c.PersistentFlags(), c.Flags()} {
			fs.VisitAll(func(f *pflag.Flag) {
				if f.Value.Type() == "stringSlice" || f.Value.Type() == "stringArray" {
					return
				}
				require.NoError(t, f.Value.Set(f.DefValue))
				f.Changed = false
			})
		}
		for _, sc := range c.Commands() {
			reset(sc)
		}
	}
	reset(rootCmd)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(t)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func writeReport(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "checkout-20250101000000000")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "simulation.csv"), []byte(simulationLog), 0o644))
	return dir
}

func TestRoot_SubcommandsPresent(t *testing.T) {
	have := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
		if c.Name() == "list" {
			sub := map[string]bool{}
			for _, sc := range c.Commands() {
				sub[sc.Name()] = true
			}
			if !sub["runs"] || !sub["commands"] {
				t.Fatalf("list subcommands missing: %v", sub)
			}
		}
	}
	for _, want := range []string{"summary", "plot", "explore", "list", "config"} {
		if !have[want] {
			t.Fatalf("missing subcommand %s", want)
		}
	}
}

func TestCommands_HaveDescriptions(t *testing.T) {
	var check func(*cobra.Command)
	check = func(cmd *cobra.Command) {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return
		}
		if cmd.Short == "" || cmd.Long == "" {
			t.Fatalf("command %s missing Short/Long", cmd.Name())
		}
		for _, sc := range cmd.Commands() {
			check(sc)
		}
	}
	check(rootCmd)
}

func TestListCommands_PrintsTree(t *testing.T) {
	var buf bytes.Buffer
	listAllCommands(&buf, rootCmd)
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Commands\n"))
	assert.Contains(t, out, "  gstat summary <dir>")
	assert.Contains(t, out, "      gstat list runs <dir>")
	assert.NotContains(t, out, "gstat list commands commands")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	summary := lines[slices.IndexFunc(lines, func(l string) bool { return strings.Contains(l, "gstat summary") })]
	runs := lines[slices.IndexFunc(lines, func(l string) bool { return strings.Contains(l, "gstat list runs") })]
	assert.Equal(t, strings.Index(summary, "Print response"), strings.Index(runs, "List simulations"))
}

func TestRoot_UnknownCommand(t *testing.T) {
	_, err := execute(t, "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestSummary_CSV(t *testing.T) {
	dir := writeReport(t)
	out, err := execute(t, "summary", dir)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "simulation,run_timestamp,request_name,count"))
	assert.Equal(t, "checkout,2025-01-01 00:00:00,home,1,5,5,5,5,5,5", lines[1])
	assert.Equal(t, "checkout,2025-01-01 00:00:00,login,3,10,20,30,30,30,30", lines[2])
}

func TestSummary_OutputFileAndFormat(t *testing.T) {
	dir := writeReport(t)
	path := filepath.Join(t.TempDir(), "summary.prom")
	out, err := execute(t, "summary", dir, "--format", "prom", "--output", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "gstat_requests_total")
	assert.Contains(t, string(data), `request="login"`)

	_, err = execute(t, "summary", dir, "--format", "xml")
	assert.Error(t, err)
}

func TestSummary_MissingDataFile(t *testing.T) {
	_, err := execute(t, "summary", t.TempDir())
	require.Error(t, err)
}

func TestPlot_WritesFigure(t *testing.T) {
	dir := writeReport(t)
	path := filepath.Join(t.TempDir(), "figure.json")
	out, err := execute(t, "plot", dir, "--output", path, "--request", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Plot saved to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"traces"`)
}

func TestPlot_ScatterAllImage(t *testing.T) {
	dir := writeReport(t)
	path := filepath.Join(t.TempDir(), "all.png")
	out, err := execute(t, "plot", dir, "--output", path, "--mode", "scatter-all")
	require.NoError(t, err)
	assert.Contains(t, out, "Plot saved to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	_, err = execute(t, "plot", dir, "--output", path, "--mode", "scatter-all", "--request", "login")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scatter-all")
}

func TestPlot_RequiresOutput(t *testing.T) {
	dir := writeReport(t)
	_, err := execute(t, "plot", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output")
}

func TestPlot_UnknownSelection(t *testing.T) {
	dir := writeReport(t)
	path := filepath.Join(t.TempDir(), "figure.json")
	_, err := execute(t, "plot", dir, "--output", path, "--request", "checkout")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no request "checkout"`)

	_, err = execute(t, "plot", dir, "--output", path, "--mode", "stacked", "--run", "20250101000000000")
	require.Error(t, err)
}

func TestListRuns_PrintsHierarchy(t *testing.T) {
	dir := writeReport(t)
	out, err := execute(t, "list", "runs", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "single report, 2 series")
	assert.Contains(t, out, "checkout")
	assert.Contains(t, out, "2025-01-01 00:00:00")
	assert.Contains(t, out, "login n=3")
	assert.Contains(t, out, "home n=1")
}

func TestExplore_UsesHook(t *testing.T) {
	dir := writeReport(t)
	old := startExplorer
	defer func() { startExplorer = old }()

	var got *dataset.Dataset
	var gotOpts tui.Options
	startExplorer = func(ds *dataset.Dataset, opts tui.Options) error {
		got, gotOpts = ds, opts
		return nil
	}

	_, err := execute(t, "explore", dir, "--mode", "scatter", "--method", "tdigest")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"checkout"}, got.Simulations())
	assert.Equal(t, trace.Scatter, gotOpts.Mode)
	assert.Equal(t, "tdigest", got.Algorithm().String())
}

func TestConfig_PrintsEffectiveSettings(t *testing.T) {
	out, err := execute(t, "config", "--method", "tdigest", "--data-file", "raw.csv")
	require.NoError(t, err)
	assert.Contains(t, out, "tdigest")
	assert.Contains(t, out, "raw.csv")

	_, err = execute(t, "config", "--method", "median")
	require.Error(t, err)
}
