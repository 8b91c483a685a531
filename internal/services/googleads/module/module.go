// Package module implements the googleads module
package module

import (
	"context"
	"net/http"

	"marketingetl/internal/adapters/ingest/googleads"
	"marketingetl/internal/modkit"
	phttp "marketingetl/internal/platform/net/http"
	"marketingetl/internal/services/googleads/domain"
	"marketingetl/internal/services/googleads/service"
)

// Ports exposed by the googleads module
type Ports struct {
	Runner  domain.RunnerPort
	Clients domain.ClientsPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the googleads module; the loader and optional ledger arrive
// through modkit.WithPorts(domain.Ports{...}). An injected http client is
// still wrapped with the refresh token flow.
func New(ctx context.Context, deps modkit.Deps, opts Options, mo ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName(service.Name),
	}, mo...)...)

	ports, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("googleads module: expected WithPorts(googleads/domain.Ports)")
	}
	if ports.Loader == nil {
		panic("googleads module: Ports missing Loader")
	}

	client := newClient(ctx, deps, opts.Access, b)

	dest := domain.Destination(opts.Mode()).WithTable(opts.Table)
	svc := service.New(deps.Log, googleads.NewExtractor(deps.Log, client), ports, dest)

	m := &Module{deps: deps}
	m.ports = Ports{Runner: svc, Clients: client}
	return m
}

// NewClients returns the account lister alone; it needs no warehouse
func NewClients(ctx context.Context, deps modkit.Deps, a Access, mo ...modkit.Option) domain.ClientsPort {
	return newClient(ctx, deps, a, modkit.Build(mo...))
}

func newClient(ctx context.Context, deps modkit.Deps, a Access, b modkit.Built) *googleads.Client {
	base := b.HTTPOr(func() *http.Client {
		return phttp.NewClient(deps.Log, phttp.ClientOptions{
			Timeout:   a.HTTPTimeout,
			UserAgent: deps.Build.UserAgent(),
		})
	})
	creds := googleads.Credentials{
		ClientID:     a.ClientID,
		ClientSecret: a.ClientSecret,
		RefreshToken: a.RefreshToken,
		TokenURL:     a.TokenURL,
	}
	return googleads.NewClient(deps.Log, creds.Authorize(ctx, base), googleads.Options{
		BaseURL:         a.BaseURL,
		Version:         a.Version,
		DeveloperToken:  a.DeveloperToken,
		LoginCustomerID: a.CustomerID,
	})
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return service.Name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

var _ modkit.Module = (*Module)(nil)
