// Package service wires the Meta Ads pipeline
package service

import (
	"context"

	"marketingetl/internal/adapters/ingest/metaads"
	"marketingetl/internal/core/fact"
	"marketingetl/internal/core/pipeline"
	"marketingetl/internal/platform/logger"
	"marketingetl/internal/services/metaads/domain"
)

// Name is the pipeline name on logs and ledger rows
const Name = "metaads"

// Service runs the Meta Ads pipeline for one account and period
type Service struct {
	runner *pipeline.Runner[metaads.Record]
}

// New wires extract, transform and load; ports.Loader is required
func New(log logger.Logger, ex pipeline.Extractor[metaads.Record], ports domain.Ports, dest fact.Destination) *Service {
	r := pipeline.NewRunner[metaads.Record](log, Name, dest, ex, NewTransformer(log), ports.Loader)
	return &Service{runner: r.WithLedger(ports.Ledger)}
}

// Run implements domain.RunnerPort
func (s *Service) Run(ctx context.Context, scope pipeline.Scope) pipeline.Result {
	return s.runner.Run(ctx, scope)
}

var _ domain.RunnerPort = (*Service)(nil)
