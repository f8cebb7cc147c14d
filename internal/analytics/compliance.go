package analytics

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"salama/internal/dataprocessing"
	"salama/pkg/contracts/domain"
)

// recentWindow is the lookback used for the trend computation.
const recentWindow = 90 * 24 * time.Hour

// ComplianceRecord is the per-sector compliance summary. Regenerated on
// every call; never cached here.
type ComplianceRecord struct {
	Sector            string          `json:"sector"`
	TotalRecords      int             `json:"total_records"`
	ClosedRecords     int             `json:"closed_records"`
	OpenRecords       int             `json:"open_records"`
	CompliancePercent float64         `json:"compliance_percent"`
	RecentPercent     float64         `json:"recent_percent"`
	Trend             float64         `json:"trend"`
	Priority          string          `json:"priority"`
	Recommendation    string          `json:"recommendation"`
	QuarterlyTrends   map[int]float64 `json:"quarterly_trends"`
}

// ComplianceAnalyzer computes per-sector compliance percentages with a
// 90-day trend and a priority classification.
type ComplianceAnalyzer struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewComplianceAnalyzer creates an analyzer. The now function defaults to
// time.Now and is injectable for tests.
func NewComplianceAnalyzer(logger *slog.Logger, now func() time.Time) *ComplianceAnalyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &ComplianceAnalyzer{logger: logger, now: now}
}

// Compute returns one record per sector present in the filtered inspections
// dataset (or per requested sector). Sectors with no matching rows are
// skipped, not emitted as zero records.
func (a *ComplianceAnalyzer) Compute(ctx context.Context, inspections *dataprocessing.Table, filters *domain.Filters) []ComplianceRecord {
	if inspections == nil || inspections.IsEmpty() {
		return nil
	}
	filtered := applyCommonFilters(inspections, filters)
	if !filtered.HasColumn(domain.ColStatus) || !filtered.HasColumn(domain.ColDate) {
		a.logger.WarnContext(ctx, "inspections dataset lacks status or date column, skipping compliance summary")
		return nil
	}
	sectorCol := sectorColumnName(filtered)
	if sectorCol == "" {
		a.logger.WarnContext(ctx, "inspections dataset lacks a sector column, skipping compliance summary")
		return nil
	}

	sectors := filters.ActiveSectors()
	if len(sectors) == 0 {
		sectors = distinctValues(filtered, sectorCol)
	} else {
		sectors = append([]string(nil), sectors...)
		sort.Strings(sectors)
	}

	sectorIdx := filtered.ColumnIndex(sectorCol)
	cutoff := a.now().Add(-recentWindow)

	var records []ComplianceRecord
	for _, sector := range sectors {
		rows := filtered.Filter(func(row []dataprocessing.Value) bool {
			return containsFold(cell(row, sectorIdx).String(), sector)
		})
		if rows.IsEmpty() {
			continue
		}
		records = append(records, a.summarize(sector, rows, cutoff))
	}
	return records
}

func (a *ComplianceAnalyzer) summarize(sector string, rows *dataprocessing.Table, cutoff time.Time) ComplianceRecord {
	statusIdx := rows.ColumnIndex(domain.ColStatus)
	dateIdx := rows.ColumnIndex(domain.ColDate)

	total := rows.NumRows()
	closed := 0
	for _, row := range rows.Rows {
		if isClosed(cell(row, statusIdx)) {
			closed++
		}
	}
	compliance := percentage(closed, total)

	recent := rows.Filter(func(row []dataprocessing.Value) bool {
		ts, ok := cell(row, dateIdx).AsTime()
		return ok && !ts.Before(cutoff)
	})
	recentClosed := 0
	for _, row := range recent.Rows {
		if isClosed(cell(row, statusIdx)) {
			recentClosed++
		}
	}
	recentCompliance := percentage(recentClosed, recent.NumRows())
	trend := recentCompliance - compliance

	priority, recommendation := classifyCompliance(compliance, trend)

	return ComplianceRecord{
		Sector:            sector,
		TotalRecords:      total,
		ClosedRecords:     closed,
		OpenRecords:       total - closed,
		CompliancePercent: compliance,
		RecentPercent:     recentCompliance,
		Trend:             trend,
		Priority:          priority,
		Recommendation:    recommendation,
		QuarterlyTrends:   quarterlyCompliance(recent, dateIdx, statusIdx),
	}
}

// classifyCompliance applies the classification table, evaluated top-down
// with the first match winning.
func classifyCompliance(compliance, trend float64) (priority, recommendation string) {
	switch {
	case compliance >= 90 && trend >= 0:
		return domain.PriorityLow, "ممتاز - استمر في الأداء الجيد"
	case compliance >= 90:
		return domain.PriorityMedium, "ممتاز مع تنبيه - راقب الانخفاض الأخير"
	case compliance >= 70 && trend > 5:
		return domain.PriorityMedium, "جيد مع تحسن - استمر في التطوير"
	case compliance >= 70 && trend < -5:
		return domain.PriorityHigh, "يحتاج اهتمام - معدل الامتثال في انخفاض"
	case compliance >= 70:
		return domain.PriorityMedium, "جيد - يحتاج تحسين طفيف"
	case trend > 5:
		return domain.PriorityHigh, "يحتاج تحسين مع وجود تقدم إيجابي"
	default:
		return domain.PriorityUrgent, "يحتاج تحسين عاجل وخطة عمل فورية"
	}
}

// quarterlyCompliance buckets the recent rows by calendar quarter and
// computes the compliance percentage per bucket, for drill-down display.
func quarterlyCompliance(recent *dataprocessing.Table, dateIdx, statusIdx int) map[int]float64 {
	totals := map[int]int{}
	closed := map[int]int{}
	for _, row := range recent.Rows {
		ts, ok := cell(row, dateIdx).AsTime()
		if !ok {
			continue
		}
		q := (int(ts.Month())-1)/3 + 1
		totals[q]++
		if isClosed(cell(row, statusIdx)) {
			closed[q]++
		}
	}
	out := make(map[int]float64, len(totals))
	for q, n := range totals {
		out[q] = percentage(closed[q], n)
	}
	return out
}
