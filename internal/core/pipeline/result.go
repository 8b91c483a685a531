package pipeline

import (
	"time"

	perr "marketingetl/internal/platform/errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Status is the user-facing outcome of a run
type Status string

// Run statuses
const (
	StatusRunning Status = "running"
	StatusOK      Status = "ok"
	StatusNoData  Status = "no_data"
	StatusFailed  Status = "failed"
)

// Result is what a run reports past its boundary
type Result struct {
	RunID    uuid.UUID
	Pipeline string
	Table    string
	Scope    Scope
	State    State
	Status   Status
	Records  int
	Rows     int
	Batches  int
	Started  time.Time
	Finished time.Time
	Err      error
}

// ExitCode maps the result onto a process exit status
func (r Result) ExitCode() int {
	if r.Status == StatusFailed && r.Err == nil {
		return perr.ExitFailure
	}
	return perr.ExitCode(r.Err)
}

// Elapsed is the wall time of a finished run
func (r Result) Elapsed() time.Duration {
	if r.Finished.IsZero() {
		return 0
	}
	return r.Finished.Sub(r.Started)
}

// MarshalZerologObject renders the counters for the terminal log line
func (r Result) MarshalZerologObject(e *zerolog.Event) {
	e.Str("state", r.State.String()).
		Str("status", string(r.Status)).
		Int("records", r.Records).
		Int("rows", r.Rows).
		Int("batches", r.Batches).
		Dur("elapsed", r.Elapsed())
	if r.Err != nil {
		e.Str("code", perr.CodeOf(r.Err).String())
	}
}

// Worst returns the failing result with the highest exit code, or the first result
func Worst(results ...Result) Result {
	var out Result
	for i, r := range results {
		if i == 0 || r.ExitCode() > out.ExitCode() {
			out = r
		}
	}
	return out
}
