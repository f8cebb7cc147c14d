package analytics

import (
	"sort"
	"time"

	"salama/internal/dataprocessing"
	"salama/pkg/contracts/domain"
)

// StatusCount is one slice of a status distribution.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// StatusDistribution counts the two canonical status values in the filtered
// inspections dataset.
func StatusDistribution(inspections *dataprocessing.Table, filters *domain.Filters) []StatusCount {
	if inspections == nil || inspections.IsEmpty() {
		return nil
	}
	filtered := applyCommonFilters(inspections, filters)
	closed, open := 0, 0
	if values, ok := filtered.Column(domain.ColStatus); ok {
		for _, v := range values {
			switch v.String() {
			case domain.StatusClosed:
				closed++
			case domain.StatusOpen:
				open++
			}
		}
	}
	return []StatusCount{
		{Status: domain.StatusClosed, Count: closed},
		{Status: domain.StatusOpen, Count: open},
	}
}

// DepartmentCompliance is one department's closed-record rate.
type DepartmentCompliance struct {
	Department     string  `json:"department"`
	ComplianceRate float64 `json:"compliance_rate"`
}

// DepartmentCompliancePerformance computes the closed-record rate per
// department over the filtered inspections dataset.
func DepartmentCompliancePerformance(inspections *dataprocessing.Table, filters *domain.Filters) []DepartmentCompliance {
	if inspections == nil || inspections.IsEmpty() {
		return nil
	}
	filtered := applyCommonFilters(inspections, filters)
	sectorIdx := sectorColumnIndex(filtered)
	statusIdx := filtered.ColumnIndex(domain.ColStatus)
	if sectorIdx < 0 || statusIdx < 0 {
		return nil
	}

	totals := map[string]int{}
	closed := map[string]int{}
	for _, row := range filtered.Rows {
		dept, ok := cell(row, sectorIdx).AsText()
		if !ok {
			continue
		}
		totals[dept]++
		if s, isText := cell(row, statusIdx).AsText(); isText && s == domain.StatusClosed {
			closed[dept]++
		}
	}

	out := make([]DepartmentCompliance, 0, len(totals))
	for dept, total := range totals {
		out = append(out, DepartmentCompliance{
			Department:     dept,
			ComplianceRate: percentage(closed[dept], total),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out
}

// LevelCount is one slice of a risk level distribution.
type LevelCount struct {
	Level string `json:"risk_level"`
	Count int    `json:"count"`
}

// RiskLevelDistribution counts assessments per risk level, deriving levels
// from the numeric ratio when the classification column is missing. The
// three standard levels are always present, zero-filled if unobserved.
func RiskLevelDistribution(assessments *dataprocessing.Table, filters *domain.Filters) []LevelCount {
	if assessments == nil || assessments.IsEmpty() {
		return nil
	}
	filtered := applyCommonFilters(assessments, filters)
	ensureRiskLevels(filtered)
	levelIdx := filtered.ColumnIndex(domain.ColClassification)

	counts := map[string]int{
		domain.RiskHigh:   0,
		domain.RiskMedium: 0,
		domain.RiskLow:    0,
	}
	for _, row := range filtered.Rows {
		if s, ok := cell(row, levelIdx).AsText(); ok {
			counts[s]++
		}
	}

	out := make([]LevelCount, 0, len(counts))
	for level, count := range counts {
		out = append(out, LevelCount{Level: level, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Level > out[j].Level })
	return out
}

// TimePoint is one monthly bucket of a time series.
type TimePoint struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// MonthlyTimeSeries buckets the filtered dataset's records by calendar month.
func MonthlyTimeSeries(t *dataprocessing.Table, filters *domain.Filters) []TimePoint {
	if t == nil || t.IsEmpty() {
		return nil
	}
	filtered := applyCommonFilters(t, filters)
	dateIdx := filtered.ColumnIndex(domain.ColDate)
	if dateIdx < 0 {
		return nil
	}

	counts := map[time.Time]int{}
	for _, row := range filtered.Rows {
		if ts, ok := cell(row, dateIdx).AsTime(); ok {
			counts[monthOf(ts)]++
		}
	}
	return sortedPoints(counts)
}

// RiskTrendPoint is one monthly bucket of the mean risk ratio.
type RiskTrendPoint struct {
	Date      time.Time `json:"date"`
	RiskScore float64   `json:"risk_score"`
	RiskLevel string    `json:"risk_level"`
}

// MonthlyRiskTrend computes the mean numeric risk ratio per month with a
// binned level label (≤0.3 low, ≤0.7 medium, else high).
func MonthlyRiskTrend(assessments *dataprocessing.Table, filters *domain.Filters) []RiskTrendPoint {
	if assessments == nil || assessments.IsEmpty() {
		return nil
	}
	filtered := applyCommonFilters(assessments, filters)
	dateIdx := filtered.ColumnIndex(domain.ColDate)
	ratioIdx := filtered.ColumnIndex(domain.ColRiskRatio)
	if dateIdx < 0 || ratioIdx < 0 {
		return nil
	}

	sums := map[time.Time]float64{}
	counts := map[time.Time]int{}
	for _, row := range filtered.Rows {
		ts, okDate := cell(row, dateIdx).AsTime()
		ratio, okNum := cell(row, ratioIdx).AsNumber()
		if !okDate || !okNum {
			continue
		}
		m := monthOf(ts)
		sums[m] += ratio
		counts[m]++
	}

	months := make([]time.Time, 0, len(counts))
	for m := range counts {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	out := make([]RiskTrendPoint, 0, len(months))
	for _, m := range months {
		score := sums[m] / float64(counts[m])
		out = append(out, RiskTrendPoint{Date: m, RiskScore: score, RiskLevel: binRiskScore(score)})
	}
	return out
}

// HeatmapMatrix is the department × activity record density, for the
// activity heatmap view.
type HeatmapMatrix struct {
	Departments []string `json:"departments"`
	Activities  []string `json:"activities"`
	Counts      [][]int  `json:"counts"`
}

// ActivityHeatmap cross-tabulates departments against activities over all
// well-known datasets combined.
func ActivityHeatmap(unified map[domain.DatasetKind]*dataprocessing.Table, filters *domain.Filters) *HeatmapMatrix {
	combined := dataprocessing.NewTable([]string{domain.ColDepartment, domain.ColActivity})
	for kind, t := range unified {
		if !kind.IsWellKnown() || t == nil || t.IsEmpty() {
			continue
		}
		sectorIdx := sectorColumnIndex(t)
		activityIdx := t.ColumnIndex(domain.ColActivity)
		if sectorIdx < 0 || activityIdx < 0 {
			continue
		}
		for _, row := range t.Rows {
			combined.Rows = append(combined.Rows, []dataprocessing.Value{
				cell(row, sectorIdx), cell(row, activityIdx),
			})
		}
	}
	if combined.IsEmpty() {
		return nil
	}

	filtered := applyCommonFilters(combined, filters)
	counts := map[string]map[string]int{}
	for _, row := range filtered.Rows {
		dept, okD := cell(row, 0).AsText()
		activity, okA := cell(row, 1).AsText()
		if !okD || !okA {
			continue
		}
		if counts[dept] == nil {
			counts[dept] = map[string]int{}
		}
		counts[dept][activity]++
	}

	matrix := &HeatmapMatrix{}
	activitySet := map[string]bool{}
	for dept, byActivity := range counts {
		matrix.Departments = append(matrix.Departments, dept)
		for activity := range byActivity {
			activitySet[activity] = true
		}
	}
	sort.Strings(matrix.Departments)
	for activity := range activitySet {
		matrix.Activities = append(matrix.Activities, activity)
	}
	sort.Strings(matrix.Activities)

	matrix.Counts = make([][]int, len(matrix.Departments))
	for i, dept := range matrix.Departments {
		row := make([]int, len(matrix.Activities))
		for j, activity := range matrix.Activities {
			row[j] = counts[dept][activity]
		}
		matrix.Counts[i] = row
	}
	return matrix
}

func monthOf(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func binRiskScore(score float64) string {
	switch {
	case score > 0.7:
		return domain.RiskHigh
	case score > 0.3:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

func sortedPoints(counts map[time.Time]int) []TimePoint {
	months := make([]time.Time, 0, len(counts))
	for m := range counts {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	out := make([]TimePoint, 0, len(months))
	for _, m := range months {
		out = append(out, TimePoint{Date: m, Count: counts[m]})
	}
	return out
}
