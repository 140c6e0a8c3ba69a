// internal/export/csv.go
// Package: export
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/mwiater/gstat/internal/dataset"
	"github.com/mwiater/gstat/internal/stats"
)

// CSVHeader is the first line written by WriteCSV.
var CSVHeader = append([]string{"simulation", "run_timestamp", "request_name", "count"}, stats.Keys...)

// WriteCSV writes one line per series with the quantiles rounded to integers.
func WriteCSV(w io.Writer, ds *dataset.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, row := range Rows(ds) {
		rec := []string{row.Simulation, row.RunLabel, row.Request, strconv.Itoa(row.Summary.Count)}
		for _, q := range row.Summary.Quantiles() {
			rec = append(rec, strconv.FormatFloat(q, 'f', 0, 64))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
