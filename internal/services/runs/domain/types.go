// Package domain holds the run ledger types
package domain

import (
	"context"
	"time"

	"marketingetl/internal/core/pipeline"
)

// Table is the ledger table name
const Table = "etl_runs"

// Run is one etl_runs row
type Run struct {
	ID          string
	Pipeline    string
	Account     string
	Target      string
	PeriodStart time.Time
	PeriodEnd   time.Time
	State       string
	Status      string
	Records     int
	Rows        int
	Batches     int
	ErrText     string
	Version     string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// FromResult flattens a pipeline result into a ledger row
func FromResult(res pipeline.Result, version string) Run {
	r := Run{
		ID:          res.RunID.String(),
		Pipeline:    res.Pipeline,
		Account:     res.Scope.Account,
		Target:      res.Table,
		PeriodStart: res.Scope.Period.Start,
		PeriodEnd:   res.Scope.Period.End,
		State:       res.State.String(),
		Status:      string(res.Status),
		Records:     res.Records,
		Rows:        res.Rows,
		Batches:     res.Batches,
		Version:     version,
		StartedAt:   res.Started,
		FinishedAt:  res.Finished,
	}
	if res.Err != nil {
		r.ErrText = res.Err.Error()
	}
	return r
}

// Repo persists ledger rows
type Repo interface {
	// Start records a running row
	Start(ctx context.Context, r Run) error

	// Finish records the terminal state of a row
	Finish(ctx context.Context, r Run) error
}
