// internal/ingest/rows.go
// Package: ingest
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mwiater/gstat/internal/stats"
)

// Column names of the raw simulation log.
const (
	ColRecordType   = "record_type"
	ColStatus       = "status"
	ColRequestName  = "request_name"
	ColStart        = "start_timestamp"
	ColEnd          = "end_timestamp"
	ColResponseTime = "response_time_ms"
)

const (
	recordTypeRequest = "request"
	statusOK          = "OK"
)

var requiredColumns = []string{ColRecordType, ColStatus, ColRequestName, ColResponseTime}

// Row is one successful request record.
type Row struct {
	RequestName string
	Start       time.Time
	End         time.Time
	Latency     float64
}

// Sample converts the row to a stats.Sample.
func (r Row) Sample() stats.Sample {
	return stats.Sample{Value: r.Latency, Start: r.Start, End: r.End}
}

// ReadRows reads a header-addressed simulation log and keeps the OK request
// records whose response time is a finite number.
func ReadRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("read header: empty file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		if field(rec, ColRecordType) != recordTypeRequest || field(rec, ColStatus) != statusOK {
			continue
		}
		latency, err := strconv.ParseFloat(field(rec, ColResponseTime), 64)
		if err != nil || math.IsNaN(latency) || math.IsInf(latency, 0) {
			continue
		}
		rows = append(rows, Row{
			RequestName: field(rec, ColRequestName),
			Start:       epochMillis(field(rec, ColStart)),
			End:         epochMillis(field(rec, ColEnd)),
			Latency:     latency,
		})
	}
	return rows, nil
}

func epochMillis(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return time.Time{}
		}
		ms = int64(f)
	}
	return time.UnixMilli(ms).UTC()
}

// Group is the samples of one request name in first-seen order.
type Group struct {
	Name    string
	Samples []stats.Sample
}

// GroupByRequest groups rows by request name. Groups appear in the order
// their first row was read and keep row order inside.
func GroupByRequest(rows []Row) []Group {
	pos := make(map[string]int)
	var groups []Group
	for _, r := range rows {
		i, ok := pos[r.RequestName]
		if !ok {
			i = len(groups)
			pos[r.RequestName] = i
			groups = append(groups, Group{Name: r.RequestName})
		}
		groups[i].Samples = append(groups[i].Samples, r.Sample())
	}
	return groups
}
