// Package pipelinetest provides in-memory loaders and ledgers for pipeline tests
package pipelinetest

import (
	"context"
	"sync"

	"marketingetl/internal/core/fact"
	"marketingetl/internal/core/pipeline"
)

// Loader records every row written through it, grouped by destination table
type Loader struct {
	mu    sync.Mutex
	Opens int
	Dests []fact.Destination
	Rows  map[string][]fact.Row
	// OpenErr, when set, fails every Open
	OpenErr error
}

// Open implements pipeline.Loader
func (l *Loader) Open(_ context.Context, dest fact.Destination) (pipeline.Sink, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Opens++
	if l.OpenErr != nil {
		return nil, l.OpenErr
	}
	if err := dest.Validate(); err != nil {
		return nil, err
	}
	if l.Rows == nil {
		l.Rows = map[string][]fact.Row{}
	}
	l.Dests = append(l.Dests, dest)
	return &sink{l: l, table: dest.Table}, nil
}

// Table returns the rows written to table
func (l *Loader) Table(table string) []fact.Row {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Rows[table]
}

type sink struct {
	l     *Loader
	table string
	n     int
}

func (s *sink) Write(_ context.Context, row fact.Row) error {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	s.l.Rows[s.table] = append(s.l.Rows[s.table], row)
	s.n++
	return nil
}

func (s *sink) Flush(context.Context) error { return nil }

func (s *sink) Release() {}

func (s *sink) Stats() pipeline.LoadStats {
	b := 0
	if s.n > 0 {
		b = 1
	}
	return pipeline.LoadStats{Rows: s.n, Batches: b}
}

// Ledger records started and finished runs
type Ledger struct {
	mu       sync.Mutex
	Started  []pipeline.Result
	Finished []pipeline.Result
}

// Start implements pipeline.Ledger
func (l *Ledger) Start(_ context.Context, r pipeline.Result) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Started = append(l.Started, r)
	return nil
}

// Finish implements pipeline.Ledger
func (l *Ledger) Finish(_ context.Context, r pipeline.Result) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Finished = append(l.Finished, r)
	return nil
}

var (
	_ pipeline.Loader = (*Loader)(nil)
	_ pipeline.Ledger = (*Ledger)(nil)
)
