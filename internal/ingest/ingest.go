// internal/ingest/ingest.go

// Package ingest discovers Gatling report directories, reads their raw
// simulation logs and loads them into a dataset.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"go.uber.org/zap"

	"github.com/mwiater/gstat/internal/dataset"
	"github.com/mwiater/gstat/internal/logging"
	"github.com/mwiater/gstat/internal/stats"
)

// DefaultDataFile is the raw log Gatling writes into every report directory.
const DefaultDataFile = "simulation.csv"

// UnknownName stands in for the simulation and run of a single report whose
// directory name carries no timestamp.
const UnknownName = "unknown"

var (
	ErrNotExist   = errors.New("directory does not exist")
	ErrNotDir     = errors.New("path is not a directory")
	ErrNoDataFile = errors.New("no data file found")
	ErrNoReports  = errors.New("no valid report directories found")
	ErrNoRows     = errors.New("no valid request rows")
)

var reportDirPattern = regexp.MustCompile(`^(.+)-([0-9]+)$`)

// ParseDirName splits a report directory name into simulation and run token.
func ParseDirName(name string) (simulation, token string, ok bool) {
	m := reportDirPattern.FindStringSubmatch(name)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// Shape is the layout of an input root.
type Shape int

const (
	ShapeInvalid Shape = iota
	ShapeSingle
	ShapeMulti
)

func (s Shape) String() string {
	switch s {
	case ShapeSingle:
		return "single"
	case ShapeMulti:
		return "multi"
	default:
		return "invalid"
	}
}

// Classify reports whether root is a single report directory or a directory
// of reports. A root that holds dataFile itself is never multi.
func Classify(root, dataFile string) (Shape, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ShapeInvalid, fmt.Errorf("%s: %w", root, ErrNotExist)
		}
		return ShapeInvalid, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return ShapeInvalid, fmt.Errorf("%s: %w", root, ErrNotDir)
	}
	if isFile(filepath.Join(root, dataFile)) {
		return ShapeSingle, nil
	}
	for _, dir := range reportDirs(root) {
		if isFile(filepath.Join(dir, dataFile)) {
			return ShapeMulti, nil
		}
	}
	return ShapeInvalid, nil
}

// reportDirs lists the subdirectories of root named <simulation>-<digits>,
// sorted by name. Other subdirectories are not reports and are ignored.
func reportDirs(root string) []string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	var dirs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, _, ok := ParseDirName(e.Name()); ok {
			dirs = append(dirs, filepath.Join(root, e.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Options configures Load.
type Options struct {
	// DataFile is the raw log name inside each report directory.
	DataFile  string
	Algorithm stats.Algorithm
	Logger    *zap.Logger
}

// Skipped records a report directory that failed to load.
type Skipped struct {
	Dir string
	Err error
}

// LoadResult is the outcome of Load.
type LoadResult struct {
	Dataset *dataset.Dataset
	Shape   Shape
	// Sources are the report directories that loaded, in load order.
	Sources []string
	Skipped []Skipped
}

// Load reads every report under root into a finalized dataset. In multi mode
// a report that fails is logged and skipped; Load fails only when none load.
func Load(ctx context.Context, root string, opts Options) (*LoadResult, error) {
	if opts.DataFile == "" {
		opts.DataFile = DefaultDataFile
	}
	logger := logging.OrNop(opts.Logger)

	shape, err := Classify(root, opts.DataFile)
	if err != nil {
		return nil, err
	}

	res := &LoadResult{Dataset: dataset.New(root, opts.Algorithm), Shape: shape}
	switch shape {
	case ShapeSingle:
		sim, token, ok := ParseDirName(filepath.Base(filepath.Clean(root)))
		if !ok {
			sim, token = UnknownName, UnknownName
		}
		if err := loadDir(res.Dataset, root, sim, token, opts.DataFile); err != nil {
			return nil, err
		}
		res.Sources = append(res.Sources, root)
		logger.Debug("loaded report", zap.String("dir", root), zap.String("simulation", sim), zap.String("run", token))

	case ShapeMulti:
		for _, dir := range reportDirs(root) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			sim, token, _ := ParseDirName(filepath.Base(dir))
			if err := loadDir(res.Dataset, dir, sim, token, opts.DataFile); err != nil {
				logger.Warn("skipping report directory", zap.String("dir", dir), zap.Error(err))
				res.Skipped = append(res.Skipped, Skipped{Dir: dir, Err: err})
				continue
			}
			res.Sources = append(res.Sources, dir)
			logger.Debug("loaded report", zap.String("dir", dir), zap.String("simulation", sim), zap.String("run", token))
		}
		if len(res.Sources) == 0 {
			return nil, fmt.Errorf("%s: %w", root, ErrNoReports)
		}

	default:
		return nil, fmt.Errorf("%s: %w", filepath.Join(root, opts.DataFile), ErrNoDataFile)
	}

	res.Dataset.Finalize()
	logger.Info("dataset loaded",
		zap.String("root", root),
		zap.Stringer("shape", shape),
		zap.Int("sources", len(res.Sources)),
		zap.Int("skipped", len(res.Skipped)),
		zap.Int("series", res.Dataset.Len()),
		zap.Stringer("method", opts.Algorithm),
	)
	return res, nil
}

func loadDir(ds *dataset.Dataset, dir, sim, token, dataFile string) error {
	path := filepath.Join(dir, dataFile)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", path, ErrNoDataFile)
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := ReadRows(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("%s: %w", path, ErrNoRows)
	}
	for _, g := range GroupByRequest(rows) {
		if err := ds.Insert(sim, token, g.Name, g.Samples, dir); err != nil {
			return err
		}
	}
	return nil
}
