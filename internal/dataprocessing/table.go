package dataprocessing

import (
	"encoding/json"
	"strconv"
	"time"

	"salama/pkg/contracts/domain"
)

// ValueKind declares the type a cell value carries.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindText
	KindNumber
	KindTime
)

// Value is a single table cell: null, text, number or timestamp. The zero
// value is null. Values are immutable once constructed.
type Value struct {
	kind ValueKind
	text string
	num  float64
	ts   time.Time
}

// Null returns the null value.
func Null() Value {
	return Value{}
}

// Text returns a text value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Number returns a numeric value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Timestamp returns a timestamp value.
func Timestamp(t time.Time) Value {
	return Value{kind: KindTime, ts: t}
}

// Kind returns the value's kind.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsText returns the text content and whether the value is text.
func (v Value) AsText() (string, bool) {
	return v.text, v.kind == KindText
}

// AsNumber returns the numeric content and whether the value is a number.
func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// AsTime returns the timestamp content and whether the value is a timestamp.
func (v Value) AsTime() (time.Time, bool) {
	return v.ts, v.kind == KindTime
}

// String renders the value for display and CSV export. Null renders empty.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return formatNumber(v.num)
	case KindTime:
		return v.ts.Format("2006-01-02")
	default:
		return ""
	}
}

// Equal reports whether two values are identical in kind and content.
// Used for duplicate-row detection in the quality report.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == o.text
	case KindNumber:
		return v.num == o.num
	case KindTime:
		return v.ts.Equal(o.ts)
	default:
		return true
	}
}

// MarshalJSON renders null as JSON null, numbers as numbers, timestamps as
// RFC 3339 strings and text as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindText:
		return json.Marshal(v.text)
	case KindNumber:
		return json.Marshal(v.num)
	case KindTime:
		return json.Marshal(v.ts.Format(time.RFC3339))
	default:
		return []byte("null"), nil
	}
}

// Table is one sheet or file worth of records: an ordered column list and a
// row-major cell grid. Tables carry their source identity and the dataset
// kind they were tagged with in the manifest.
type Table struct {
	Columns []string
	Rows    [][]Value
	File    string
	Sheet   string
	Kind    domain.DatasetKind
}

// NewTable creates an empty table with the given columns.
func NewTable(columns []string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	if t == nil {
		return 0
	}
	return len(t.Columns)
}

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool {
	return t.NumRows() == 0
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	if t == nil {
		return -1
	}
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Cell returns the value at (row, column name). Missing columns and ragged
// rows yield null, never a panic.
func (t *Table) Cell(row int, name string) Value {
	idx := t.ColumnIndex(name)
	if idx < 0 || row < 0 || row >= len(t.Rows) || idx >= len(t.Rows[row]) {
		return Null()
	}
	return t.Rows[row][idx]
}

// Column returns all values of the named column, padding ragged rows with
// null. The second result reports whether the column exists.
func (t *Table) Column(name string) ([]Value, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]Value, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out, true
}

// Reindex returns a copy of the table realigned to the given column set.
// Columns absent from the source are filled with null; source columns not in
// the target set are dropped. Used by the schema unifier, which always passes
// a superset, so in practice nothing is lost.
func (t *Table) Reindex(columns []string) *Table {
	out := &Table{
		Columns: append([]string(nil), columns...),
		File:    t.File,
		Sheet:   t.Sheet,
		Kind:    t.Kind,
	}
	indices := make([]int, len(columns))
	for i, c := range columns {
		indices[i] = t.ColumnIndex(c)
	}
	out.Rows = make([][]Value, len(t.Rows))
	for r, row := range t.Rows {
		newRow := make([]Value, len(columns))
		for i, srcIdx := range indices {
			if srcIdx >= 0 && srcIdx < len(row) {
				newRow[i] = row[srcIdx]
			}
		}
		out.Rows[r] = newRow
	}
	return out
}

// AddColumn appends a column. Rows beyond the values slice get null; extra
// values are dropped.
func (t *Table) AddColumn(name string, values []Value) {
	t.Columns = append(t.Columns, name)
	for r := range t.Rows {
		row := padRow(t.Rows[r], len(t.Columns)-1)
		if r < len(values) {
			row = append(row, values[r])
		} else {
			row = append(row, Null())
		}
		t.Rows[r] = row
	}
}

// Filter returns a copy of the table containing only the rows for which
// keep returns true. The returned table shares row slices with the source.
func (t *Table) Filter(keep func(row []Value) bool) *Table {
	out := &Table{
		Columns: t.Columns,
		File:    t.File,
		Sheet:   t.Sheet,
		Kind:    t.Kind,
	}
	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// padRow extends a row with nulls to the table's column count.
func padRow(row []Value, width int) []Value {
	for len(row) < width {
		row = append(row, Null())
	}
	return row
}

// formatNumber renders a float without trailing zeros where possible.
func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
