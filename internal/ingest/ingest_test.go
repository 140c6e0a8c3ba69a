package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mwiater/gstat/internal/stats"
	"github.com/mwiater/gstat/internal/trace"
)

const header = "record_type,scenario_name,group_hierarchy,request_name,status,start_timestamp,end_timestamp,response_time_ms,error_message\n"

func csvBody(lines ...string) string {
	return header + strings.Join(lines, "\n") + "\n"
}

var sampleCSV = csvBody(
	"request,scn,,login,OK,1751006759000,1751006759120,120,",
	"request,scn,,login,KO,1751006759000,1751006759900,900,timeout",
	"user,scn,,,,1751006759000,,,",
	"request,scn,,browse,OK,1751006760000,1751006760040,40,",
	"request,scn,,login,OK,1751006761000,1751006761080,80,",
	"request,scn,,browse,OK,1751006762000,1751006762050,n/a,",
)

func writeReport(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultDataFile), []byte(body), 0o644))
}

func TestParseDirName(t *testing.T) {
	tests := []struct {
		name      string
		wantSim   string
		wantToken string
		wantOK    bool
	}{
		{"load_test-20250627064559771", "load_test", "20250627064559771", true},
		{"api-v2-test-20250101000000000", "api-v2-test", "20250101000000000", true},
		{"load_test", "", "", false},
		{"load_test-abc", "", "", false},
		{"-123", "", "", false},
	}
	for _, tc := range tests {
		sim, token, ok := ParseDirName(tc.name)
		assert.Equal(t, tc.wantOK, ok, tc.name)
		assert.Equal(t, tc.wantSim, sim, tc.name)
		assert.Equal(t, tc.wantToken, token, tc.name)
	}
}

func TestReadRows_Filters(t *testing.T) {
	rows, err := ReadRows(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "login", rows[0].RequestName)
	assert.Equal(t, 120.0, rows[0].Latency)
	assert.Equal(t, int64(1751006759120), rows[0].End.UnixMilli())
	assert.Equal(t, "browse", rows[1].RequestName)
	assert.Equal(t, 80.0, rows[2].Latency)
}

func TestReadRows_DropsNonFiniteLatency(t *testing.T) {
	tests := []struct {
		latency string
		keep    bool
	}{
		{"120", true},
		{"12.5", true},
		{"NaN", false},
		{"nan", false},
		{"Inf", false},
		{"+Inf", false},
		{"-Inf", false},
		{"infinity", false},
		{"", false},
		{"fast", false},
	}
	for _, tt := range tests {
		t.Run(tt.latency, func(t *testing.T) {
			in := "record_type,status,request_name,response_time_ms\nrequest,OK,a," + tt.latency + "\n"
			rows, err := ReadRows(strings.NewReader(in))
			require.NoError(t, err)
			if tt.keep {
				assert.Len(t, rows, 1)
			} else {
				assert.Empty(t, rows)
			}
		})
	}
}

func TestReadRows_MissingColumn(t *testing.T) {
	_, err := ReadRows(strings.NewReader("record_type,status,request_name\nrequest,OK,a\n"))
	assert.ErrorContains(t, err, "response_time_ms")

	_, err = ReadRows(strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadRows_TimestampsOptional(t *testing.T) {
	rows, err := ReadRows(strings.NewReader("record_type,status,request_name,response_time_ms\nrequest,OK,a,12.5\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].End.IsZero())
	assert.False(t, rows[0].Sample().HasEnd())
}

func TestGroupByRequest(t *testing.T) {
	rows, err := ReadRows(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	groups := GroupByRequest(rows)
	require.Len(t, groups, 2)
	assert.Equal(t, "login", groups[0].Name)
	assert.Equal(t, []float64{120, 80}, stats.Values(groups[0].Samples))
	assert.Equal(t, "browse", groups[1].Name)
}

func TestClassify(t *testing.T) {
	root := t.TempDir()

	_, err := Classify(filepath.Join(root, "missing"), DefaultDataFile)
	assert.ErrorIs(t, err, ErrNotExist)

	file := filepath.Join(root, "file.txt")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = Classify(file, DefaultDataFile)
	assert.ErrorIs(t, err, ErrNotDir)

	empty := filepath.Join(root, "empty")
	require.NoError(t, os.Mkdir(empty, 0o755))
	shape, err := Classify(empty, DefaultDataFile)
	require.NoError(t, err)
	assert.Equal(t, ShapeInvalid, shape)

	single := filepath.Join(root, "load_test-20250627064559771")
	writeReport(t, single, sampleCSV)
	shape, err = Classify(single, DefaultDataFile)
	require.NoError(t, err)
	assert.Equal(t, ShapeSingle, shape)

	shape, err = Classify(root, DefaultDataFile)
	require.NoError(t, err)
	assert.Equal(t, ShapeMulti, shape)
}

func TestLoad_Single(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "load_test-20250627064559771")
	writeReport(t, dir, sampleCSV)

	res, err := Load(context.Background(), dir, Options{})
	require.NoError(t, err)
	assert.Equal(t, ShapeSingle, res.Shape)

	ds := res.Dataset
	assert.True(t, ds.Finalized())
	assert.Equal(t, []string{"load_test"}, ds.Simulations())
	assert.Equal(t, []string{"20250627064559771"}, ds.Runs("load_test"))
	assert.Equal(t, "2025-06-27 06:45:59", ds.Run("load_test", "20250627064559771").Label)
	assert.Equal(t, []string{"browse", "login"}, ds.Requests("load_test", "20250627064559771"))

	login := ds.Series("load_test", "20250627064559771", "login")
	require.NotNil(t, login)
	assert.Equal(t, 2, login.Summary.Count)
	assert.Equal(t, 100.0, login.Summary.Mean)
}

func TestLoad_SingleWithoutTimestamp(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "report")
	writeReport(t, dir, sampleCSV)

	res, err := Load(context.Background(), dir, Options{Algorithm: stats.TDigest})
	require.NoError(t, err)
	assert.Equal(t, []string{UnknownName}, res.Dataset.Simulations())
	assert.Equal(t, UnknownName, res.Dataset.Run(UnknownName, UnknownName).Label)
}

func TestLoad_Fatal(t *testing.T) {
	root := t.TempDir()

	_, err := Load(context.Background(), filepath.Join(root, "nope"), Options{})
	assert.ErrorIs(t, err, ErrNotExist)

	_, err = Load(context.Background(), root, Options{})
	assert.ErrorIs(t, err, ErrNoDataFile)

	noRows := filepath.Join(root, "only_errors-20250101000000000")
	writeReport(t, noRows, csvBody("request,scn,,login,KO,1,2,900,boom"))
	_, err = Load(context.Background(), noRows, Options{})
	assert.ErrorIs(t, err, ErrNoRows)

	// the same directory as the only child of a multi root
	_, err = Load(context.Background(), root, Options{})
	assert.ErrorIs(t, err, ErrNoReports)
}

func TestLoad_BatchSkipsCorruptDirectory(t *testing.T) {
	root := t.TempDir()
	writeReport(t, filepath.Join(root, "checkout-20250102000000000"), sampleCSV)
	writeReport(t, filepath.Join(root, "checkout-20250101000000000"), sampleCSV)
	writeReport(t, filepath.Join(root, "search-20250101000000000"), sampleCSV)
	writeReport(t, filepath.Join(root, "broken-20250101000000000"), "record_type,status\nrequest,OK\n")
	require.NoError(t, os.Mkdir(filepath.Join(root, "checkout-20250103000000000"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "notes"), 0o755))
	writeReport(t, filepath.Join(root, "archive"), sampleCSV)

	core, logs := observer.New(zapcore.WarnLevel)
	res, err := Load(context.Background(), root, Options{Logger: zap.New(core)})
	require.NoError(t, err)

	assert.Equal(t, ShapeMulti, res.Shape)
	assert.Len(t, res.Sources, 3)
	require.Len(t, res.Skipped, 2)
	assert.Equal(t, filepath.Join(root, "broken-20250101000000000"), res.Skipped[0].Dir)
	assert.Equal(t, filepath.Join(root, "checkout-20250103000000000"), res.Skipped[1].Dir)
	assert.ErrorIs(t, res.Skipped[1].Err, ErrNoDataFile)
	assert.Equal(t, 2, logs.FilterMessage("skipping report directory").Len())

	ds := res.Dataset
	assert.Equal(t, []string{"checkout", "search"}, ds.Simulations())
	assert.Equal(t, []string{"20250101000000000", "20250102000000000"}, ds.Runs("checkout"))
	assert.Equal(t, 6, ds.Len())
}

func TestLoad_NonFiniteLatencyNeverReachesTheIndex(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "load_test-20250627064559771")
	writeReport(t, dir, csvBody(
		"request,scn,,login,OK,1751006759000,1751006759120,120,",
		"request,scn,,login,OK,1751006760000,1751006760100,NaN,",
		"request,scn,,login,OK,1751006761000,1751006761100,Inf,",
		"request,scn,,login,OK,1751006762000,1751006762100,-Inf,",
	))

	res, err := Load(context.Background(), dir, Options{})
	require.NoError(t, err)
	login := res.Dataset.Series("load_test", "20250627064559771", "login")
	require.NotNil(t, login)
	assert.Equal(t, 1, login.Summary.Count)
	assert.Equal(t, 120.0, login.Summary.Min)
	assert.Equal(t, 120.0, login.Summary.Max)
	assert.Equal(t, 120.0, login.Summary.Mean)

	for _, mode := range trace.Modes {
		assert.NotPanics(t, func() { trace.Build(res.Dataset, mode, trace.DefaultStyle()) }, mode.String())
	}
}

func TestLoad_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeReport(t, filepath.Join(root, "checkout-20250101000000000"), sampleCSV)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Load(ctx, root, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
