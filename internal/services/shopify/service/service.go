// Package service wires the three Shopify export pipelines
package service

import (
	"context"

	"marketingetl/internal/adapters/ingest/shopifycsv"
	"marketingetl/internal/core/fact"
	"marketingetl/internal/core/pipeline"
	"marketingetl/internal/platform/logger"
	"marketingetl/internal/services/shopify/domain"
)

// Pipeline names on logs and ledger rows
const (
	Name          = "shopify"
	SalesName     = "shopify_sales"
	LocationsName = "shopify_sessions_by_location"
	PagesName     = "shopify_page_sessions"
)

// Files are the export paths
type Files struct {
	Sales     string
	Locations string
	Pages     string
}

// Modes are the declared write modes per destination
type Modes struct {
	Sales     fact.WriteMode
	Locations fact.WriteMode
	Pages     fact.WriteMode
}

// Service runs the sales, sessions by location and page sessions exports
// one after another
type Service struct {
	log  logger.Logger
	runs []func(ctx context.Context, scope pipeline.Scope) pipeline.Result
}

// New wires one runner per export; ports.Loader is required
func New(log logger.Logger, files Files, modes Modes, ports domain.Ports) *Service {
	sales := pipeline.NewRunner[shopifycsv.Sale](log, SalesName, domain.SalesDestination(modes.Sales),
		shopifycsv.NewExtractor(log, shopifycsv.Sales, files.Sales),
		rows(SalesFact), ports.Loader).WithLedger(ports.Ledger)
	locations := pipeline.NewRunner[shopifycsv.LocationSessions](log, LocationsName, domain.LocationsDestination(modes.Locations),
		shopifycsv.NewExtractor(log, shopifycsv.SessionsByLocation, files.Locations),
		rows(LocationFact), ports.Loader).WithLedger(ports.Ledger)
	pages := pipeline.NewRunner[shopifycsv.PageSessions](log, PagesName, domain.PagesDestination(modes.Pages),
		shopifycsv.NewExtractor(log, shopifycsv.PageSessionsByDay, files.Pages),
		rows(PageFact), ports.Loader).WithLedger(ports.Ledger)

	return &Service{
		log:  logger.Named(log, Name),
		runs: []func(context.Context, pipeline.Scope) pipeline.Result{sales.Run, locations.Run, pages.Run},
	}
}

// RunAll implements domain.RunnerPort; a failed export does not stop the
// ones after it
func (s *Service) RunAll(ctx context.Context, scope pipeline.Scope) []pipeline.Result {
	out := make([]pipeline.Result, 0, len(s.runs))
	failed := 0
	for _, run := range s.runs {
		res := run(ctx, scope)
		if res.Status == pipeline.StatusFailed {
			failed++
		}
		out = append(out, res)
	}
	evt := s.log.Info()
	if failed > 0 {
		evt = s.log.Warn()
	}
	evt.Int("exports", len(out)).Int("failed", failed).Msg("shopify exports finished")
	return out
}

var _ domain.RunnerPort = (*Service)(nil)
