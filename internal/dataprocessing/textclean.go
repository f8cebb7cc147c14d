package dataprocessing

import "strings"

// CleanText trims text cells and converts the empty string and the literal
// "nan" marker to null. Idempotent: re-running on clean data is a no-op.
// Numeric and timestamp cells are untouched.
func CleanText(t *Table) {
	if t == nil {
		return
	}
	for r := range t.Rows {
		for c := range t.Rows[r] {
			t.Rows[r][c] = cleanTextValue(t.Rows[r][c])
		}
	}
}

func cleanTextValue(v Value) Value {
	s, ok := v.AsText()
	if !ok {
		return v
	}
	s = strings.TrimSpace(s)
	if s == "" || s == "nan" {
		return Null()
	}
	return Text(s)
}
