// Package module implements the warehouse module
package module

import (
	"marketingetl/internal/core/pipeline"
	"marketingetl/internal/modkit"
	"marketingetl/internal/platform/store"
	"marketingetl/internal/services/warehouse/repo"
	"marketingetl/internal/services/warehouse/service"
)

// Ports exposed by the warehouse module
type Ports struct {
	Loader pipeline.Loader
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the warehouse module over the opened store
func New(deps modkit.Deps, opts Options) *Module {
	if deps.Store == nil {
		panic("warehouse module: deps.Store is required")
	}
	cfg := service.Config{BatchSize: opts.BatchSize}

	var loader *service.Loader
	switch deps.Store.Dialect {
	case store.DialectClickHouse:
		loader = service.NewCH(deps.Log, repo.NewCH(deps.Store.CH), cfg)
	default:
		loader = service.NewSQL(deps.Log, deps.Store.SQL, repo.NewSQL(deps.Store.Dialect), cfg)
	}

	m := &Module{deps: deps}
	m.ports = Ports{Loader: loader}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "warehouse" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

var _ modkit.Module = (*Module)(nil)
