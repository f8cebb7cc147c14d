package dataprocessing

import (
	"strings"

	"salama/pkg/contracts/domain"
)

// QualityReport summarizes the structural quality of one unified dataset.
// Observability only: no pipeline decision is made from it.
type QualityReport struct {
	TotalRows         int               `json:"total_rows"`
	TotalColumns      int               `json:"total_columns"`
	MissingCells      int               `json:"missing_cells"`
	MissingPercentage float64           `json:"missing_percentage"`
	DuplicateRows     int               `json:"duplicate_rows"`
	ColumnKinds       map[string]string `json:"column_kinds"`
	MemoryBytes       int64             `json:"memory_bytes"`
}

// ComputeQualityReport builds a quality report per unified dataset.
func ComputeQualityReport(unified map[domain.DatasetKind]*Table) map[domain.DatasetKind]QualityReport {
	out := make(map[domain.DatasetKind]QualityReport, len(unified))
	for kind, t := range unified {
		if t.IsEmpty() {
			continue
		}
		out[kind] = qualityOf(t)
	}
	return out
}

func qualityOf(t *Table) QualityReport {
	totalCells := t.NumRows() * t.NumCols()
	missing := 0
	for _, row := range t.Rows {
		missing += t.NumCols() - len(row)
		for _, v := range row {
			if v.IsNull() {
				missing++
			}
		}
	}

	report := QualityReport{
		TotalRows:     t.NumRows(),
		TotalColumns:  t.NumCols(),
		MissingCells:  missing,
		DuplicateRows: countDuplicateRows(t),
		ColumnKinds:   inferColumnKinds(t),
		MemoryBytes:   approxMemory(t),
	}
	if totalCells > 0 {
		report.MissingPercentage = float64(missing) / float64(totalCells) * 100
	}
	return report
}

// countDuplicateRows counts rows identical to an earlier row, matching the
// convention of counting every occurrence after the first.
func countDuplicateRows(t *Table) int {
	seen := make(map[string]bool, t.NumRows())
	dups := 0
	for _, row := range t.Rows {
		key := rowKey(row, t.NumCols())
		if seen[key] {
			dups++
		} else {
			seen[key] = true
		}
	}
	return dups
}

// rowKey builds a collision-safe string key for a row.
func rowKey(row []Value, width int) string {
	var b strings.Builder
	for i := 0; i < width; i++ {
		var v Value
		if i < len(row) {
			v = row[i]
		}
		switch v.Kind() {
		case KindNull:
			b.WriteString("\x00n")
		case KindText:
			b.WriteString("\x00t")
		case KindNumber:
			b.WriteString("\x00f")
		case KindTime:
			b.WriteString("\x00d")
		}
		b.WriteString(v.String())
	}
	return b.String()
}

// inferColumnKinds reports the dominant non-null kind per column.
func inferColumnKinds(t *Table) map[string]string {
	kinds := make(map[string]string, t.NumCols())
	for idx, col := range t.Columns {
		counts := map[ValueKind]int{}
		for _, row := range t.Rows {
			if idx < len(row) && !row[idx].IsNull() {
				counts[row[idx].Kind()]++
			}
		}
		kinds[col] = dominantKind(counts)
	}
	return kinds
}

func dominantKind(counts map[ValueKind]int) string {
	best, bestCount := KindNull, 0
	for k, n := range counts {
		if n > bestCount {
			best, bestCount = k, n
		}
	}
	switch best {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindTime:
		return "timestamp"
	default:
		return "null"
	}
}

// approxMemory estimates the in-memory footprint of the table.
func approxMemory(t *Table) int64 {
	const valueOverhead = 48 // struct header per cell
	var bytes int64
	for _, col := range t.Columns {
		bytes += int64(len(col))
	}
	for _, row := range t.Rows {
		for _, v := range row {
			bytes += valueOverhead
			if s, ok := v.AsText(); ok {
				bytes += int64(len(s))
			}
		}
	}
	return bytes
}
