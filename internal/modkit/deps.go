// Package modkit provides module wiring and core deps
package modkit

import (
	"marketingetl/internal/core/version"
	"marketingetl/internal/platform/config"
	"marketingetl/internal/platform/logger"
	"marketingetl/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log   logger.Logger
	Cfg   config.Conf
	Store *store.Store
	Build version.BuildInfo
}

// Dialect reports the opened warehouse flavour, empty without a store
func (d Deps) Dialect() store.Dialect {
	if d.Store == nil {
		return ""
	}
	return d.Store.Dialect
}
