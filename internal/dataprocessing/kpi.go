package dataprocessing

import (
	"time"

	"salama/pkg/contracts/domain"
)

// DateRange is the span of valid dates observed in a dataset's date column.
type DateRange struct {
	Min time.Time `json:"min"`
	Max time.Time `json:"max"`
}

// KPISummary is the per-dataset headline summary: record count, date range
// and the frequency distributions of the status, department and activity
// columns where present.
type KPISummary struct {
	TotalRecords           int            `json:"total_records"`
	DateRange              *DateRange     `json:"date_range,omitempty"`
	StatusDistribution     map[string]int `json:"status_distribution"`
	DepartmentDistribution map[string]int `json:"department_distribution"`
	ActivityDistribution   map[string]int `json:"activity_distribution"`
}

// ComputeKPIs summarizes every unified dataset. Pure read-only aggregation.
func ComputeKPIs(unified map[domain.DatasetKind]*Table) map[domain.DatasetKind]KPISummary {
	out := make(map[domain.DatasetKind]KPISummary, len(unified))
	for kind, t := range unified {
		if t.IsEmpty() {
			continue
		}
		out[kind] = KPISummary{
			TotalRecords:           t.NumRows(),
			DateRange:              dateRangeOf(t),
			StatusDistribution:     distributionOf(t, domain.ColStatus),
			DepartmentDistribution: departmentDistributionOf(t),
			ActivityDistribution:   distributionOf(t, domain.ColActivity),
		}
	}
	return out
}

func dateRangeOf(t *Table) *DateRange {
	values, ok := t.Column(domain.ColDate)
	if !ok {
		return nil
	}
	var r *DateRange
	for _, v := range values {
		ts, isTime := v.AsTime()
		if !isTime {
			continue
		}
		if r == nil {
			r = &DateRange{Min: ts, Max: ts}
			continue
		}
		if ts.Before(r.Min) {
			r.Min = ts
		}
		if ts.After(r.Max) {
			r.Max = ts
		}
	}
	return r
}

// departmentDistributionOf prefers the department column and falls back to
// the sector column.
func departmentDistributionOf(t *Table) map[string]int {
	if t.HasColumn(domain.ColDepartment) {
		return distributionOf(t, domain.ColDepartment)
	}
	return distributionOf(t, domain.ColSector)
}

func distributionOf(t *Table, column string) map[string]int {
	values, ok := t.Column(column)
	if !ok {
		return map[string]int{}
	}
	counts := make(map[string]int)
	for _, v := range values {
		if s, isText := v.AsText(); isText {
			counts[s]++
		}
	}
	return counts
}
