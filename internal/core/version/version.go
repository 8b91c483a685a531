// Package version provides information about the build version of the pipelines.
package version

import (
	"runtime/debug"

	"github.com/rs/zerolog"
)

// BuildInfo holds version information about a pipeline binary.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information for service. The version, commit, and date
// variables are intended to be set at build time using -ldflags.
func Info(service string) BuildInfo {
	// Set via -ldflags "-X 'marketingetl/internal/core/version.version=v0.0.1'
	// -X 'marketingetl/internal/core/version.commit=abcd' -X 'marketingetl/internal/core/version.date=2025-03-07'"
	bi := BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
	if bi.Commit == "none" {
		bi.Commit = vcsRevision()
	}
	return bi
}

// String renders the short form used on ledger rows
func (b BuildInfo) String() string {
	if b.Commit == "" || b.Commit == "none" {
		return b.Version
	}
	c := b.Commit
	if len(c) > 12 {
		c = c[:12]
	}
	return b.Version + "+" + c
}

// UserAgent renders "marketingetl-<service>/<version>" for outbound requests
func (b BuildInfo) UserAgent() string {
	name := "marketingetl"
	if b.Service != "" {
		name = b.Service
	}
	v := b.Version
	if v == "" {
		v = "dev"
	}
	return name + "/" + v
}

// MarshalZerologObject lets a BuildInfo be logged as a nested object
func (b BuildInfo) MarshalZerologObject(e *zerolog.Event) {
	e.Str("service", b.Service).Str("version", b.Version).Str("commit", b.Commit).Str("date", b.Date)
}

// vcsRevision falls back to the revision the go tool stamped, if any
func vcsRevision() string {
	info, ok := readBuildInfo()
	if !ok || info == nil {
		return "none"
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			return s.Value
		}
	}
	return "none"
}

var readBuildInfo = debug.ReadBuildInfo

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
