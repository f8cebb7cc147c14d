package services

import (
	"context"
	"log/slog"
	"time"

	"salama/pkg/contracts"
)

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Loaded    bool      `json:"loaded"`
	LoadedAt  time.Time `json:"loaded_at,omitempty"`
	Datasets  int       `json:"datasets"`
	CheckedAt time.Time `json:"checked_at"`
}

// HealthService reports liveness and data readiness.
type HealthService struct {
	logger *slog.Logger
	data   *DataService
}

// NewHealthService creates a health service.
func NewHealthService(logger *slog.Logger, data *DataService) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{logger: logger, data: data}
}

// Check reports the current health. The service is "degraded" until the
// first successful load, never down: an empty dashboard still serves.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Version:   contracts.Version,
		CheckedAt: time.Now().UTC(),
	}
	snap := s.data.Snapshot()
	if snap == nil {
		status.Status = "degraded"
		return status
	}
	status.Loaded = true
	status.LoadedAt = snap.LoadedAt
	status.Datasets = len(snap.Unified)
	return status
}
