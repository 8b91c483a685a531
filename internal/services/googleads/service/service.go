// Package service wires the Google Ads pipeline
package service

import (
	"context"

	"marketingetl/internal/adapters/ingest/googleads"
	"marketingetl/internal/core/fact"
	"marketingetl/internal/core/pipeline"
	"marketingetl/internal/platform/logger"
	"marketingetl/internal/services/googleads/domain"
)

// Name is the pipeline name on logs and ledger rows
const Name = "googleads"

// Service runs the Google Ads pipeline for one client customer and period
type Service struct {
	runner *pipeline.Runner[googleads.Record]
}

// New wires extract, transform and load; ports.Loader is required
func New(log logger.Logger, ex pipeline.Extractor[googleads.Record], ports domain.Ports, dest fact.Destination) *Service {
	r := pipeline.NewRunner[googleads.Record](log, Name, dest, ex, pipeline.TransformFunc[googleads.Record](Transform), ports.Loader)
	return &Service{runner: r.WithLedger(ports.Ledger)}
}

// Run implements domain.RunnerPort
func (s *Service) Run(ctx context.Context, scope pipeline.Scope) pipeline.Result {
	return s.runner.Run(ctx, scope)
}

var _ domain.RunnerPort = (*Service)(nil)
