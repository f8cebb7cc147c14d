package dataprocessing

// ColumnMapping maps raw source labels to canonical labels for one sheet or
// file. Keys are the labels as they appear in the source, trailing spaces,
// newlines and all; matching happens on the normalized form of both sides.
type ColumnMapping map[string]string

// Apply renames the table's columns to their canonical names. Columns whose
// normalized form has no entry in the mapping pass through under their
// cleaned name; they are outside the canonical column set and no downstream
// guarantee attaches to them.
func (m ColumnMapping) Apply(t *Table) {
	if t == nil || len(m) == 0 {
		return
	}
	lookup := make(map[string]string, len(m))
	for raw, canonical := range m {
		lookup[NormalizeKey(raw)] = canonical
	}
	renamed := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		if canonical, ok := lookup[NormalizeKey(col)]; ok {
			renamed[i] = canonical
		} else {
			renamed[i] = col
		}
	}
	t.Columns = renamed
}
