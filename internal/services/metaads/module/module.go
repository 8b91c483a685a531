// Package module implements the metaads module
package module

import (
	"net/http"

	"marketingetl/internal/adapters/ingest/metaads"
	"marketingetl/internal/modkit"
	phttp "marketingetl/internal/platform/net/http"
	"marketingetl/internal/services/metaads/domain"
	"marketingetl/internal/services/metaads/service"
)

// Ports exposed by the metaads module
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the metaads module; the loader and optional ledger arrive
// through modkit.WithPorts(domain.Ports{...})
func New(deps modkit.Deps, opts Options, mo ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName(service.Name),
	}, mo...)...)

	ports, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("metaads module: expected WithPorts(metaads/domain.Ports)")
	}
	if ports.Loader == nil {
		panic("metaads module: Ports missing Loader")
	}

	hc := b.HTTPOr(func() *http.Client {
		return phttp.NewClient(deps.Log, phttp.ClientOptions{
			Timeout:   opts.HTTPTimeout,
			UserAgent: deps.Build.UserAgent(),
		})
	})
	client := metaads.NewClient(deps.Log, hc, metaads.Options{
		BaseURL:   opts.BaseURL,
		Version:   opts.Version,
		Token:     opts.Token,
		PageLimit: opts.PageLimit,
	})

	dest := domain.Destination(opts.Mode()).WithTable(opts.Table)
	svc := service.New(deps.Log, metaads.NewExtractor(deps.Log, client), ports, dest)

	m := &Module{deps: deps}
	m.ports = Ports{Runner: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return service.Name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

var _ modkit.Module = (*Module)(nil)
