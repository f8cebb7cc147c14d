package dataprocessing

import (
	"context"
	"log/slog"
	"time"

	"salama/pkg/contracts/domain"
)

// Processor runs the full pipeline: load every configured source, unify per
// dataset kind, and summarize. A run owns its output exclusively; nothing is
// persisted between runs and there is no shared state across runs.
type Processor struct {
	logger  *slog.Logger
	loader  *Loader
	unifier *Unifier
}

// Snapshot is the complete output of one pipeline run.
type Snapshot struct {
	Raw      []*Table
	Unified  map[domain.DatasetKind]*Table
	KPIs     map[domain.DatasetKind]KPISummary
	Quality  map[domain.DatasetKind]QualityReport
	LoadedAt time.Time
}

// Dataset returns the unified table for a kind, or nil.
func (s *Snapshot) Dataset(kind domain.DatasetKind) *Table {
	if s == nil {
		return nil
	}
	return s.Unified[kind]
}

// NewProcessor creates a processor.
func NewProcessor(logger *slog.Logger, cfg LoaderConfig) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:  logger,
		loader:  NewLoader(logger, cfg),
		unifier: NewUnifier(logger),
	}
}

// Run executes the pipeline over the manifest. Individual source failures
// degrade the snapshot instead of failing the run.
func (p *Processor) Run(ctx context.Context, manifest Manifest) *Snapshot {
	start := time.Now()
	raw := p.loader.LoadAll(ctx, manifest)
	unified := p.unifier.Unify(raw)

	snapshot := &Snapshot{
		Raw:      raw,
		Unified:  unified,
		KPIs:     ComputeKPIs(unified),
		Quality:  ComputeQualityReport(unified),
		LoadedAt: time.Now(),
	}

	p.logger.InfoContext(ctx, "pipeline run complete",
		slog.Int("sources", len(raw)),
		slog.Int("datasets", len(unified)),
		slog.Duration("elapsed", time.Since(start)))
	return snapshot
}
