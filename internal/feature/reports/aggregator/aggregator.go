// Package aggregator merges heterogeneous report records into a single table.
package aggregator

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"

	"stock_analysis/internal/feature/reports/domain/entity"
)

// Aggregate builds a table with one row per record, in input order. Columns are
// the union of all keys in first-seen order; keys a record lacks are null.
// Empty input returns an empty, non-nil table.
func Aggregate(records []entity.Record) *entity.Table {
	t := &entity.Table{Columns: []string{}, Rows: make([][]null.String, 0, len(records))}

	index := map[string]int{}
	for _, r := range records {
		for _, f := range r {
			if _, ok := index[f.Key]; !ok {
				index[f.Key] = len(t.Columns)
				t.Columns = append(t.Columns, f.Key)
			}
		}
	}

	for _, r := range records {
		row := make([]null.String, len(t.Columns))
		for _, f := range r {
			row[index[f.Key]] = cell(f.Value)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// TopN returns up to n records ranked by a numeric field, largest first when
// largest is true. Records whose field is missing or not numeric are skipped;
// ties keep input order.
func TopN(records []entity.Record, field string, n int, largest bool) []entity.Record {
	if n <= 0 {
		return []entity.Record{}
	}

	type ranked struct {
		rec entity.Record
		val decimal.Decimal
	}
	rs := make([]ranked, 0, len(records))
	for _, r := range records {
		raw, ok := r.Get(field)
		if !ok {
			continue
		}
		v, ok := numeric(raw)
		if !ok {
			continue
		}
		rs = append(rs, ranked{rec: r, val: v})
	}

	slices.SortStableFunc(rs, func(a, b ranked) int {
		if largest {
			return b.val.Cmp(a.val)
		}
		return a.val.Cmp(b.val)
	})

	out := make([]entity.Record, 0, min(n, len(rs)))
	for _, r := range rs[:min(n, len(rs))] {
		out = append(out, r.rec)
	}
	return out
}

func cell(v any) null.String {
	switch x := v.(type) {
	case nil:
		return null.String{}
	case string:
		return null.StringFrom(x)
	case float64:
		return null.StringFrom(strconv.FormatFloat(x, 'f', -1, 64))
	case json.Number:
		return null.StringFrom(x.String())
	case bool:
		return null.StringFrom(strconv.FormatBool(x))
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return null.String{}
		}
		return null.StringFrom(string(b))
	}
}

func numeric(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case float64:
		return decimal.NewFromFloat(x), true
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		return d, err == nil
	}
	return decimal.Decimal{}, false
}
