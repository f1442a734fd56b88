package entity

import "github.com/guregu/null/v6"

// IndicatorColumn is a derived column aligned index-for-index with a TimeSeries.
// An invalid null.Float marks an undefined value (warm-up period or degenerate input).
type IndicatorColumn struct {
	Name   string
	Values []null.Float
}

// Defined returns the number of defined values in the column.
func (c IndicatorColumn) Defined() int {
	n := 0
	for _, v := range c.Values {
		if v.Valid {
			n++
		}
	}
	return n
}

// AugmentedSeries is a TimeSeries together with its indicator columns.
type AugmentedSeries struct {
	Symbol   string
	Interval string
	Series   TimeSeries
	Columns  []IndicatorColumn
}

// Column returns the column with the given name.
func (a *AugmentedSeries) Column(name string) (IndicatorColumn, bool) {
	for _, c := range a.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return IndicatorColumn{}, false
}

// ColumnNames returns indicator column names in output order.
func (a *AugmentedSeries) ColumnNames() []string {
	names := make([]string, 0, len(a.Columns))
	for _, c := range a.Columns {
		names = append(names, c.Name)
	}
	return names
}
