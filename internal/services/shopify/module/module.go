// Package module implements the shopify module
package module

import (
	"marketingetl/internal/modkit"
	"marketingetl/internal/services/shopify/domain"
	"marketingetl/internal/services/shopify/service"
)

// Ports exposed by the shopify module
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the shopify module; the loader and optional ledger arrive
// through modkit.WithPorts(domain.Ports{...})
func New(deps modkit.Deps, opts Options, mo ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName(service.Name),
	}, mo...)...)

	ports, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("shopify module: expected WithPorts(shopify/domain.Ports)")
	}
	if ports.Loader == nil {
		panic("shopify module: Ports missing Loader")
	}

	m := &Module{deps: deps}
	m.ports = Ports{Runner: service.New(deps.Log, opts.Files(), opts.Modes(), ports)}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return service.Name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

var _ modkit.Module = (*Module)(nil)
