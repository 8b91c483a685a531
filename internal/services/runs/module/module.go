// Package module implements the runs ledger module
package module

import (
	"marketingetl/internal/core/pipeline"
	"marketingetl/internal/modkit"
	"marketingetl/internal/platform/store"
	"marketingetl/internal/services/runs/repo"
	"marketingetl/internal/services/runs/service"
)

// Ports exposed by the runs module
type Ports struct {
	// Ledger is nil when the ledger is disabled
	Ledger pipeline.Ledger
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the runs module
func New(deps modkit.Deps) *Module {
	m := &Module{deps: deps}
	opts := FromConfig(deps.Cfg)
	if !opts.Enabled || deps.Store == nil {
		return m
	}
	version := deps.Build.String()
	switch deps.Store.Dialect {
	case store.DialectClickHouse:
		m.ports.Ledger = service.NewWithRepo(repo.NewCH(deps.Store.CH), version)
	default:
		m.ports.Ledger = service.New(deps.Store.SQL, repo.NewSQL(deps.Store.Dialect), version)
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "runs" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

var _ modkit.Module = (*Module)(nil)
