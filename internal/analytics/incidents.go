package analytics

import (
	"context"
	"log/slog"

	"salama/internal/dataprocessing"
	"salama/pkg/contracts/domain"
)

// IncidentSectorRecord is the per-sector incident closure summary.
type IncidentSectorRecord struct {
	Sector          string  `json:"sector"`
	Incidents       int     `json:"incidents"`
	Recommendations int     `json:"recommendations"`
	Closed          int     `json:"closed"`
	Open            int     `json:"open"`
	ClosurePercent  float64 `json:"closure_percent"`
}

// IncidentAnalyzer computes per-sector incident counts and the closure rate
// of their corrective recommendations.
type IncidentAnalyzer struct {
	logger *slog.Logger
}

// NewIncidentAnalyzer creates an analyzer.
func NewIncidentAnalyzer(logger *slog.Logger) *IncidentAnalyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &IncidentAnalyzer{logger: logger}
}

// Compute returns one record per sector in the filtered incidents dataset.
// When the recommendation column is absent entirely, every incident is
// assumed to carry one recommendation.
func (a *IncidentAnalyzer) Compute(ctx context.Context, incidents *dataprocessing.Table, filters *domain.Filters) []IncidentSectorRecord {
	if incidents == nil || incidents.IsEmpty() {
		return nil
	}
	filtered := applyCommonFilters(incidents, filters)
	sectorCol := sectorColumnName(filtered)
	if sectorCol == "" {
		a.logger.WarnContext(ctx, "incidents dataset lacks a sector column, skipping incidents summary")
		return nil
	}

	sectorIdx := filtered.ColumnIndex(sectorCol)
	statusIdx := filtered.ColumnIndex(domain.ColStatus)
	recIdx := filtered.ColumnIndex(domain.ColRecommendation)

	var records []IncidentSectorRecord
	for _, sector := range distinctValues(filtered, sectorCol) {
		rows := filtered.Filter(func(row []dataprocessing.Value) bool {
			return containsFold(cell(row, sectorIdx).String(), sector)
		})
		if rows.IsEmpty() {
			continue
		}

		total := rows.NumRows()
		recommendations := total
		if recIdx >= 0 {
			recommendations = 0
			for _, row := range rows.Rows {
				if !cell(row, recIdx).IsNull() {
					recommendations++
				}
			}
		}
		closed := 0
		for _, row := range rows.Rows {
			if isClosed(cell(row, statusIdx)) {
				closed++
			}
		}

		records = append(records, IncidentSectorRecord{
			Sector:          sector,
			Incidents:       total,
			Recommendations: recommendations,
			Closed:          closed,
			Open:            recommendations - closed,
			ClosurePercent:  percentage(closed, recommendations),
		})
	}
	return records
}
