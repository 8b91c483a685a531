package modkit

import (
	"net/http"
	"time"
)

// DefaultHTTPTimeout bounds one source request unless configured otherwise
const DefaultHTTPTimeout = 60 * time.Second

// Built is a plain struct with the fields modules care about
type Built struct {
	Name  string
	Ports any

	// HTTP is nil unless WithHTTPClient was given
	HTTP *http.Client
}

// Build applies Option funcs to an internal buildCfg and returns a plain struct
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	return Built{
		Name:  c.name,
		Ports: c.ports,
		HTTP:  c.http,
	}
}

// HTTPOr returns the injected client, or the one fallback builds
func (b Built) HTTPOr(fallback func() *http.Client) *http.Client {
	if b.HTTP != nil {
		return b.HTTP
	}
	return fallback()
}
