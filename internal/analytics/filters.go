package analytics

import (
	"sort"
	"strings"

	"salama/internal/dataprocessing"
	"salama/pkg/contracts/domain"
)

// closedMarkers are the substrings recognised as a closed state. Values the
// status canonicalizer did not anticipate still count when they carry one of
// these markers; equality matching would silently undercount.
var closedMarkers = []string{domain.StatusClosed, "مكتمل", "closed", "completed"}

// highRiskMarkers are the accepted spellings of a high risk level.
var highRiskMarkers = []string{"عالي", "مرتفع"}

// ApplyFilters narrows a table by the shared filter keys. It is the exported
// form of applyCommonFilters for callers outside the analyzers.
func ApplyFilters(t *dataprocessing.Table, f *domain.Filters) *dataprocessing.Table {
	return applyCommonFilters(t, f)
}

// applyCommonFilters narrows a table by the shared filter keys: date range,
// year override, sector membership, status, priority, risk level and free
// text search. A nil filter returns the table unchanged.
func applyCommonFilters(t *dataprocessing.Table, f *domain.Filters) *dataprocessing.Table {
	if t == nil || f == nil {
		return t
	}

	dateIdx := t.ColumnIndex(domain.ColDate)
	sectorIdx := sectorColumnIndex(t)
	statusIdx := t.ColumnIndex(domain.ColStatus)
	priorityIdx := t.ColumnIndex(domain.ColPriority)
	riskLevelIdx := t.ColumnIndex(domain.ColRiskLevel)

	sectors := f.ActiveSectors()
	statuses := f.ActiveStatuses()

	return t.Filter(func(row []dataprocessing.Value) bool {
		if f.HasDateRange() && dateIdx >= 0 {
			ts, ok := cell(row, dateIdx).AsTime()
			if !ok || ts.Before(*f.DateFrom) || ts.After(*f.DateTo) {
				return false
			}
		}
		if f.Year != 0 && dateIdx >= 0 {
			ts, ok := cell(row, dateIdx).AsTime()
			if !ok || ts.Year() != f.Year {
				return false
			}
		}
		if len(sectors) > 0 && sectorIdx >= 0 {
			if !inList(cell(row, sectorIdx), sectors) {
				return false
			}
		}
		if len(statuses) > 0 && statusIdx >= 0 {
			if !containsAnyFold(cell(row, statusIdx).String(), statuses) {
				return false
			}
		}
		if f.Priority != "" && f.Priority != domain.FilterAll && priorityIdx >= 0 {
			if !containsFold(cell(row, priorityIdx).String(), f.Priority) {
				return false
			}
		}
		if f.RiskLevel != "" && f.RiskLevel != domain.FilterAll && riskLevelIdx >= 0 {
			if !containsFold(cell(row, riskLevelIdx).String(), f.RiskLevel) {
				return false
			}
		}
		if f.Search != "" {
			if !rowMatchesSearch(row, f.Search) {
				return false
			}
		}
		return true
	})
}

// sectorColumnIndex prefers the department column and falls back to sector.
func sectorColumnIndex(t *dataprocessing.Table) int {
	if idx := t.ColumnIndex(domain.ColDepartment); idx >= 0 {
		return idx
	}
	return t.ColumnIndex(domain.ColSector)
}

// sectorColumnName returns the name of the active sector column, or "".
func sectorColumnName(t *dataprocessing.Table) string {
	if t.HasColumn(domain.ColDepartment) {
		return domain.ColDepartment
	}
	if t.HasColumn(domain.ColSector) {
		return domain.ColSector
	}
	return ""
}

// distinctValues collects the sorted distinct non-null text values of a
// column.
func distinctValues(t *dataprocessing.Table, column string) []string {
	values, ok := t.Column(column)
	if !ok {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, v := range values {
		if s, isText := v.AsText(); isText && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func cell(row []dataprocessing.Value, idx int) dataprocessing.Value {
	if idx < 0 || idx >= len(row) {
		return dataprocessing.Null()
	}
	return row[idx]
}

func inList(v dataprocessing.Value, list []string) bool {
	s := v.String()
	for _, item := range list {
		if s == item {
			return true
		}
	}
	return false
}

func rowMatchesSearch(row []dataprocessing.Value, query string) bool {
	for _, v := range row {
		if s, ok := v.AsText(); ok && containsFold(s, query) {
			return true
		}
	}
	return false
}

// containsFold is a case-insensitive substring test.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func containsAnyFold(haystack string, needles []string) bool {
	for _, n := range needles {
		if containsFold(haystack, n) {
			return true
		}
	}
	return false
}

// isClosed reports whether a status value carries a closed marker.
func isClosed(v dataprocessing.Value) bool {
	s, ok := v.AsText()
	if !ok {
		return false
	}
	return containsAnyFold(s, closedMarkers)
}

// isHighRisk reports whether a risk level value carries a high-risk marker.
func isHighRisk(label string) bool {
	return containsAnyFold(label, highRiskMarkers)
}

// percentage computes part/total*100, short-circuiting zero totals to 0.
func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
