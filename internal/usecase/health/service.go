// Package health aggregates dependency liveness for the health endpoint.
package health

import (
	"context"

	"go.uber.org/zap"

	"github.com/sweetstem/discovery/internal/logger"
)

// DBPinger checks catalog store connectivity.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// Statuses reported per check and overall.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

// Report is the health endpoint payload.
type Report struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Service runs the dependency checks.
type Service struct {
	db       DBPinger
	embedder EmbeddingChecker
}

// New creates the health service.
func New(db DBPinger, embedder EmbeddingChecker) *Service {
	return &Service{db: db, embedder: embedder}
}

// Check pings every dependency. The overall status is degraded as soon as
// any single check fails.
func (s *Service) Check(ctx context.Context) Report {
	log := logger.FromContext(ctx)

	report := Report{
		Status: StatusOK,
		Checks: map[string]string{},
	}

	if err := s.db.Ping(ctx); err != nil {
		log.Warn("database health check failed", zap.Error(err))
		report.Checks["database"] = err.Error()
		report.Status = StatusDegraded
	} else {
		report.Checks["database"] = StatusOK
	}

	if err := s.embedder.HealthCheck(ctx); err != nil {
		log.Warn("embedding provider health check failed", zap.Error(err))
		report.Checks["embeddings"] = err.Error()
		report.Status = StatusDegraded
	} else {
		report.Checks["embeddings"] = StatusOK
	}

	return report
}
