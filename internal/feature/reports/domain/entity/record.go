// Package entity defines the domain models for the reports feature.
package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/guregu/null/v6"
)

// ErrUnavailable is returned by providers when a payload carries no record list at all
// (missing key, error note, rate-limit message).
var ErrUnavailable = errors.New("reports unavailable")

// Field is one key/value pair of a record.
type Field struct {
	Key   string
	Value any
}

// Record is one flat JSON object (an annual report period, a ticker row) with
// its keys in document order. Key sets may differ between records.
type Record []Field

// Get returns the value stored under key.
func (r Record) Get(key string) (any, bool) {
	for i := len(r) - 1; i >= 0; i-- {
		if r[i].Key == key {
			return r[i].Value, true
		}
	}
	return nil, false
}

// UnmarshalJSON decodes an object while keeping key order. Numbers are kept as
// json.Number so that provider formatting survives export.
func (r *Record) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("record: expected object, got %v", tok)
	}

	out := Record{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("record: expected key, got %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("record: value of %q: %w", key, err)
		}
		out = append(out, Field{Key: key, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = out
	return nil
}

// Table is a tabular view over records. A nil *Table means the data was unavailable;
// a non-nil Table with no rows means zero records.
type Table struct {
	Columns []string
	Rows    [][]null.String
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex returns the index of the named column or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}
