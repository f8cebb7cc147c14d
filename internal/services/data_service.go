// Package services holds the application services between transport and the
// processing pipeline: the snapshot-holding data service and the health
// service.
package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"salama/internal/analytics"
	"salama/internal/dataprocessing"
	"salama/pkg/contracts/domain"
)

// ErrNotLoaded is returned by accessors before the first successful load.
var ErrNotLoaded = errors.New("data not loaded yet")

// ErrDatasetNotFound is returned when a requested dataset kind has no data.
var ErrDatasetNotFound = errors.New("dataset not found")

// DataService owns the current pipeline snapshot and answers every data and
// analytics query against it. Reload swaps the snapshot atomically; readers
// never block a running reload.
type DataService struct {
	logger    *slog.Logger
	processor *dataprocessing.Processor
	analytics *analytics.Service
	manifest  dataprocessing.Manifest

	mu       sync.RWMutex
	snapshot *dataprocessing.Snapshot
}

// NewDataService creates the data service. No data is loaded until the first
// Reload call.
func NewDataService(logger *slog.Logger, processor *dataprocessing.Processor, analyticsSvc *analytics.Service, manifest dataprocessing.Manifest) *DataService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataService{
		logger:    logger,
		processor: processor,
		analytics: analyticsSvc,
		manifest:  manifest,
	}
}

// Reload runs the pipeline and swaps in the new snapshot. Concurrent readers
// keep seeing the old snapshot until the swap.
func (s *DataService) Reload(ctx context.Context) (*dataprocessing.Snapshot, error) {
	snapshot := s.processor.Run(ctx, s.manifest)
	if len(snapshot.Unified) == 0 {
		return nil, errors.New("no sources produced data")
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "snapshot reloaded",
		slog.Int("datasets", len(snapshot.Unified)),
		slog.Time("loaded_at", snapshot.LoadedAt))
	return snapshot, nil
}

// Snapshot returns the current snapshot, or nil before the first load.
func (s *DataService) Snapshot() *dataprocessing.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// LoadedAt returns the time of the last successful load.
func (s *DataService) LoadedAt() (time.Time, bool) {
	snap := s.Snapshot()
	if snap == nil {
		return time.Time{}, false
	}
	return snap.LoadedAt, true
}

// DatasetSummary describes one unified dataset for listings.
type DatasetSummary struct {
	Kind    string   `json:"kind"`
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
}

// Datasets lists the unified datasets of the current snapshot.
func (s *DataService) Datasets(ctx context.Context) ([]DatasetSummary, error) {
	snap := s.Snapshot()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	var out []DatasetSummary
	for kind, t := range snap.Unified {
		out = append(out, DatasetSummary{
			Kind:    kind.String(),
			Rows:    t.NumRows(),
			Columns: t.Columns,
		})
	}
	return out, nil
}

// Dataset returns one unified dataset, narrowed by the filters.
func (s *DataService) Dataset(ctx context.Context, kind domain.DatasetKind, filters *domain.Filters) (*dataprocessing.Table, error) {
	snap := s.Snapshot()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	t := snap.Dataset(kind)
	if t == nil {
		return nil, ErrDatasetNotFound
	}
	return analytics.ApplyFilters(t, filters), nil
}

// KPIs returns the per-dataset KPI summaries.
func (s *DataService) KPIs(ctx context.Context) (map[domain.DatasetKind]dataprocessing.KPISummary, error) {
	snap := s.Snapshot()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap.KPIs, nil
}

// Quality returns the per-dataset quality reports.
func (s *DataService) Quality(ctx context.Context) (map[domain.DatasetKind]dataprocessing.QualityReport, error) {
	snap := s.Snapshot()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap.Quality, nil
}

// Compliance returns the per-sector compliance records.
func (s *DataService) Compliance(ctx context.Context, filters *domain.Filters) ([]analytics.ComplianceRecord, error) {
	snap := s.Snapshot()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return s.analytics.Compliance.Compute(ctx, snap.Dataset(domain.KindInspections), filters), nil
}

// Risk returns the per-activity risk records.
func (s *DataService) Risk(ctx context.Context, filters *domain.Filters) ([]analytics.RiskActivityRecord, error) {
	snap := s.Snapshot()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return s.analytics.Risk.Compute(ctx, snap.Dataset(domain.KindRiskAssessments), filters), nil
}

// Incidents returns the per-sector incident closure records.
func (s *DataService) Incidents(ctx context.Context, filters *domain.Filters) ([]analytics.IncidentSectorRecord, error) {
	snap := s.Snapshot()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return s.analytics.Incidents.Compute(ctx, snap.Dataset(domain.KindIncidents), filters), nil
}

// Insights returns the cross-cutting headline findings.
func (s *DataService) Insights(ctx context.Context, filters *domain.Filters) ([]analytics.Insight, error) {
	snap := s.Snapshot()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return s.analytics.Insights(ctx, snap.Unified, snap.KPIs, filters), nil
}

// Distributions bundles the chart-feeding aggregations.
type Distributions struct {
	Status         []analytics.StatusCount          `json:"status"`
	Departments    []analytics.DepartmentCompliance `json:"departments"`
	RiskLevels     []analytics.LevelCount           `json:"risk_levels"`
	MonthlyCounts  []analytics.TimePoint            `json:"monthly_counts"`
	RiskTrend      []analytics.RiskTrendPoint       `json:"risk_trend"`
	ActivityMatrix *analytics.HeatmapMatrix         `json:"activity_matrix,omitempty"`
}

// ChartDistributions computes all chart aggregations in one pass.
func (s *DataService) ChartDistributions(ctx context.Context, filters *domain.Filters) (*Distributions, error) {
	snap := s.Snapshot()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	inspections := snap.Dataset(domain.KindInspections)
	assessments := snap.Dataset(domain.KindRiskAssessments)
	return &Distributions{
		Status:         analytics.StatusDistribution(inspections, filters),
		Departments:    analytics.DepartmentCompliancePerformance(inspections, filters),
		RiskLevels:     analytics.RiskLevelDistribution(assessments, filters),
		MonthlyCounts:  analytics.MonthlyTimeSeries(inspections, filters),
		RiskTrend:      analytics.MonthlyRiskTrend(assessments, filters),
		ActivityMatrix: analytics.ActivityHeatmap(snap.Unified, filters),
	}, nil
}
