// Package pipeline sequences one extract -> transform -> load run
//
// A run streams: each raw record is transformed as soon as it is extracted and
// its rows go straight into the loader's batch buffer, so memory is bounded by
// the batch size rather than by the period.
package pipeline

import (
	"context"
	"iter"

	"marketingetl/internal/core/fact"
)

// Extractor produces every raw record for a scope, following pagination to
// exhaustion. The sequence is lazy and single-use; a yielded error ends it.
type Extractor[R any] interface {
	Extract(ctx context.Context, scope Scope) iter.Seq2[R, error]
}

// ExtractFunc adapts a function to Extractor
type ExtractFunc[R any] func(ctx context.Context, scope Scope) iter.Seq2[R, error]

// Extract calls f
func (f ExtractFunc[R]) Extract(ctx context.Context, scope Scope) iter.Seq2[R, error] {
	return f(ctx, scope)
}

// Transformer maps one raw record to fact rows without I/O
type Transformer[R any] interface {
	Transform(rec R) ([]fact.Row, error)
}

// TransformFunc adapts a function to Transformer
type TransformFunc[R any] func(rec R) ([]fact.Row, error)

// Transform calls f
func (f TransformFunc[R]) Transform(rec R) ([]fact.Row, error) { return f(rec) }

// LoadStats counts what a sink wrote
type LoadStats struct {
	Rows    int
	Batches int
}

// Sink buffers rows for one destination and writes them in batches
type Sink interface {
	// Write appends a row, flushing a full batch
	Write(ctx context.Context, row fact.Row) error
	// Flush writes the remainder at end of stream
	Flush(ctx context.Context) error
	// Release returns the connection; safe to call more than once
	Release()
	Stats() LoadStats
}

// Loader opens a sink; the runner only opens one once a row exists
type Loader interface {
	Open(ctx context.Context, dest fact.Destination) (Sink, error)
}

// Ledger records run start and outcome; failures never affect the run
type Ledger interface {
	Start(ctx context.Context, res Result) error
	Finish(ctx context.Context, res Result) error
}
