package analytics

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"salama/internal/dataprocessing"
	"salama/pkg/contracts/domain"
)

// Risk ratio cut points used when the classification column is absent and a
// level has to be derived from the numeric ratio.
const (
	highRiskCut   = 0.7
	mediumRiskCut = 0.4
)

// RiskActivityRecord is the per-activity risk summary. Details references
// the underlying filtered row set directly for drill-down, instead of a
// serialized copy.
type RiskActivityRecord struct {
	Activity         string                `json:"activity"`
	TotalAssessments int                   `json:"total_assessments"`
	HighRiskCount    int                   `json:"high_risk_count"`
	RiskLevel        string                `json:"risk_level"`
	RiskPercent      float64               `json:"risk_percent"`
	Priority         int                   `json:"priority"`
	Recommendation   string                `json:"recommendation"`
	Details          *dataprocessing.Table `json:"-"`
}

// RiskAnalyzer computes per-activity risk percentages with a priority
// classification.
type RiskAnalyzer struct {
	logger *slog.Logger
}

// NewRiskAnalyzer creates an analyzer.
func NewRiskAnalyzer(logger *slog.Logger) *RiskAnalyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &RiskAnalyzer{logger: logger}
}

// Compute returns one record per activity in the filtered risk assessments
// dataset, honouring the recommendation filter and sort order.
func (a *RiskAnalyzer) Compute(ctx context.Context, assessments *dataprocessing.Table, filters *domain.Filters) []RiskActivityRecord {
	if assessments == nil || assessments.IsEmpty() {
		return nil
	}
	filtered := applyCommonFilters(assessments, filters)
	if !filtered.HasColumn(domain.ColActivity) {
		a.logger.WarnContext(ctx, "risk assessments dataset lacks an activity column, skipping risk summary")
		return nil
	}

	ensureRiskLevels(filtered)

	activityIdx := filtered.ColumnIndex(domain.ColActivity)
	levelIdx := filtered.ColumnIndex(domain.ColClassification)

	var records []RiskActivityRecord
	for _, activity := range distinctValues(filtered, domain.ColActivity) {
		rows := filtered.Filter(func(row []dataprocessing.Value) bool {
			return containsFold(cell(row, activityIdx).String(), activity)
		})
		if rows.IsEmpty() {
			continue
		}

		total := rows.NumRows()
		highRisk := 0
		for _, row := range rows.Rows {
			if isHighRisk(cell(row, levelIdx).String()) {
				highRisk++
			}
		}
		riskPercent := percentage(highRisk, total)
		level, priority, recommendation := classifyRisk(riskPercent)

		records = append(records, RiskActivityRecord{
			Activity:         activity,
			TotalAssessments: total,
			HighRiskCount:    highRisk,
			RiskLevel:        level,
			RiskPercent:      riskPercent,
			Priority:         priority,
			Recommendation:   recommendation,
			Details:          rows,
		})
	}

	records = filterByRecommendation(records, filters)
	sortRecords(records, filters)
	return records
}

// ensureRiskLevels guarantees a classification column: when absent it is
// derived from the numeric risk ratio, and when that is also absent every
// row is undetermined.
func ensureRiskLevels(t *dataprocessing.Table) {
	if t.HasColumn(domain.ColClassification) {
		return
	}
	levels := make([]dataprocessing.Value, t.NumRows())
	ratioIdx := t.ColumnIndex(domain.ColRiskRatio)
	for i, row := range t.Rows {
		if ratioIdx < 0 {
			levels[i] = dataprocessing.Text(domain.RiskUndetermined)
			continue
		}
		levels[i] = dataprocessing.Text(riskLevelOfRatio(cell(row, ratioIdx)))
	}
	t.AddColumn(domain.ColClassification, levels)
}

// riskLevelOfRatio maps a numeric risk ratio to a level label. The ratio is
// on a 0..1 scale; a trailing percent sign is tolerated.
func riskLevelOfRatio(v dataprocessing.Value) string {
	var ratio float64
	switch {
	case v.IsNull():
		return domain.RiskUndetermined
	default:
		if f, ok := v.AsNumber(); ok {
			ratio = f
		} else if s, ok := v.AsText(); ok {
			s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return domain.RiskUndetermined
			}
			ratio = f
		} else {
			return domain.RiskUndetermined
		}
	}
	switch {
	case ratio >= highRiskCut:
		return domain.RiskHigh
	case ratio >= mediumRiskCut:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// classifyRisk maps a risk percentage to level, priority and recommendation.
func classifyRisk(riskPercent float64) (level string, priority int, recommendation string) {
	switch {
	case riskPercent >= 70:
		return domain.RiskHigh, 1, "مراجعة عاجلة"
	case riskPercent >= 40:
		return domain.RiskMedium, 2, "مراقبة دورية مكثفة"
	default:
		return domain.RiskLow, 3, "مراقبة دورية"
	}
}

// filterByRecommendation keeps only records of the requested urgency class.
func filterByRecommendation(records []RiskActivityRecord, filters *domain.Filters) []RiskActivityRecord {
	if filters == nil || filters.RecommendationFilter == "" || filters.RecommendationFilter == domain.FilterAll {
		return records
	}
	var want int
	switch filters.RecommendationFilter {
	case domain.PriorityUrgent:
		want = 1
	case domain.PriorityMedium:
		want = 2
	case domain.PriorityLow:
		want = 3
	default:
		return records
	}
	out := records[:0]
	for _, r := range records {
		if r.Priority == want {
			out = append(out, r)
		}
	}
	return out
}

// sortRecords applies the caller-selected order. Activities arrive sorted by
// name, so the name sort is a no-op kept for explicitness.
func sortRecords(records []RiskActivityRecord, filters *domain.Filters) {
	if filters == nil {
		return
	}
	switch filters.ActivitySort {
	case domain.SortByPriority:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Priority < records[j].Priority
		})
	case domain.SortByName:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Activity < records[j].Activity
		})
	case domain.SortByRisk:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].RiskPercent > records[j].RiskPercent
		})
	}
}
