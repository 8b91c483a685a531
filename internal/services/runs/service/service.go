// Package service records pipeline runs in the etl_runs ledger
package service

import (
	"context"

	"marketingetl/internal/core/pipeline"
	"marketingetl/internal/modkit/repokit"
	"marketingetl/internal/services/runs/domain"
)

// Ledger implements pipeline.Ledger over a run repo
type Ledger struct {
	repo    domain.Repo
	version string
}

// New binds the repo once; the ledger writes outside the loader's transactions
func New(q repokit.Queryer, binder repokit.Binder[domain.Repo], version string) *Ledger {
	return &Ledger{repo: repokit.MustBind(binder, q), version: version}
}

// NewWithRepo wraps an already bound repo
func NewWithRepo(repo domain.Repo, version string) *Ledger {
	if repo == nil {
		panic("runs.NewWithRepo requires a repo")
	}
	return &Ledger{repo: repo, version: version}
}

// Start implements pipeline.Ledger
func (l *Ledger) Start(ctx context.Context, res pipeline.Result) error {
	return l.repo.Start(ctx, domain.FromResult(res, l.version))
}

// Finish implements pipeline.Ledger
func (l *Ledger) Finish(ctx context.Context, res pipeline.Result) error {
	return l.repo.Finish(ctx, domain.FromResult(res, l.version))
}
