// Package csvexport writes report tables as CSV.
package csvexport

import (
	"encoding/csv"
	"errors"
	"io"

	"stock_analysis/internal/feature/reports/domain/entity"
)

// Output file names.
const (
	ReportsFileName = "combined_reports.csv"
	GainersFileName = "top_gainers.csv"
	LosersFileName  = "top_losers.csv"
)

// ErrNilTable is returned when asked to write an unavailable table.
var ErrNilTable = errors.New("table is unavailable")

// WriteTable writes the header and one line per row. Null cells are empty.
func WriteTable(w io.Writer, t *entity.Table) error {
	if t == nil {
		return ErrNilTable
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		rec := make([]string, len(t.Columns))
		for i, c := range row {
			if c.Valid {
				rec[i] = c.String
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
