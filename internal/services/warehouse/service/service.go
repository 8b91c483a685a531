// Package service provides the batching warehouse loader
package service

import (
	"context"

	"marketingetl/internal/core/fact"
	"marketingetl/internal/core/pipeline"
	"marketingetl/internal/modkit/repokit"
	perr "marketingetl/internal/platform/errors"
	"marketingetl/internal/platform/logger"
	"marketingetl/internal/platform/store"
	"marketingetl/internal/services/warehouse/domain"
)

// DefaultBatchSize is the flush threshold when none is configured
const DefaultBatchSize = 100

// Config holds the loader knobs
type Config struct {
	BatchSize int // <=0 -> DefaultBatchSize
}

// Loader opens batching sinks on the configured warehouse
// SQL dialects get one acquired connection per sink and one transaction per
// batch; clickhouse gets one block insert per batch
type Loader struct {
	log    logger.Logger
	pool   store.Pool
	binder repokit.Binder[domain.BatchRepo]
	ch     domain.BatchRepo
	cfg    Config
}

// NewSQL constructs a loader over a postgres or mysql pool
func NewSQL(log logger.Logger, pool store.Pool, binder repokit.Binder[domain.BatchRepo], cfg Config) *Loader {
	if pool == nil || binder == nil {
		panic("warehouse.NewSQL requires a pool and a repo binder")
	}
	return &Loader{log: logger.Named(log, "loader"), pool: pool, binder: binder, cfg: cfg}
}

// NewCH constructs an insert-only loader over a clickhouse repo
func NewCH(log logger.Logger, ch domain.BatchRepo, cfg Config) *Loader {
	if ch == nil {
		panic("warehouse.NewCH requires a clickhouse repo")
	}
	return &Loader{log: logger.Named(log, "loader"), ch: ch, cfg: cfg}
}

func (l *Loader) batchSize() int {
	if l.cfg.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return l.cfg.BatchSize
}

// Open implements pipeline.Loader
func (l *Loader) Open(ctx context.Context, dest fact.Destination) (pipeline.Sink, error) {
	if err := dest.Validate(); err != nil {
		return nil, err
	}
	s := &sink{
		log:  l.log.With().Str("table", dest.Table).Str("mode", string(dest.Mode)).Logger(),
		dest: dest,
		size: l.batchSize(),
	}
	s.buf = make([][]any, 0, s.size)

	if l.ch != nil {
		if dest.Mode != fact.ModeInsert {
			return nil, perr.Configf("%s: clickhouse destinations support insert mode only", dest.Table)
		}
		s.write = func(ctx context.Context, rows [][]any) (int64, error) {
			return l.ch.WriteBatch(ctx, dest, rows)
		}
		s.release = func() {}
		return s, nil
	}

	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, perr.Wrap(perr.FromDB(err, "acquire"), perr.ErrorCodeLoadFailure, "acquire warehouse connection")
	}
	s.write = func(ctx context.Context, rows [][]any) (int64, error) {
		var n int64
		err := repokit.WithTx(ctx, conn, func(q repokit.Queryer) error {
			var err error
			n, err = l.binder.Bind(q).WriteBatch(ctx, dest, rows)
			return err
		})
		return n, err
	}
	s.release = conn.Release
	return s, nil
}

// sink buffers rows for one destination
type sink struct {
	log      logger.Logger
	dest     fact.Destination
	size     int
	buf      [][]any
	write    func(ctx context.Context, rows [][]any) (int64, error)
	release  func()
	released bool
	stats    pipeline.LoadStats
	affected int64
}

// Write implements pipeline.Sink
func (s *sink) Write(ctx context.Context, row fact.Row) error {
	vals := row.Values()
	if len(vals) != len(s.dest.Columns) {
		return perr.Validationf("%s: row has %d values for %d columns", s.dest.Table, len(vals), len(s.dest.Columns))
	}
	s.buf = append(s.buf, vals)
	if len(s.buf) >= s.size {
		return s.flush(ctx)
	}
	return nil
}

// Flush implements pipeline.Sink
func (s *sink) Flush(ctx context.Context) error {
	if len(s.buf) == 0 {
		return nil
	}
	return s.flush(ctx)
}

func (s *sink) flush(ctx context.Context) error {
	batch := s.stats.Batches + 1
	n, err := s.write(ctx, s.buf)
	if err != nil {
		s.log.Error().Err(err).Int("batch", batch).Int("rows", len(s.buf)).Bool("transient", perr.Retryable(err)).Msg("batch rejected")
		return perr.Wrapf(err, perr.ErrorCodeLoadFailure, "%s: batch %d (%d rows) rejected", s.dest.Table, batch, len(s.buf))
	}
	s.stats.Batches = batch
	s.stats.Rows += len(s.buf)
	s.affected += n
	s.log.Info().Int("batch", batch).Int("rows", len(s.buf)).Int64("affected", n).Int("total_rows", s.stats.Rows).Msg("batch loaded")
	s.buf = s.buf[:0]
	return nil
}

// Release implements pipeline.Sink
func (s *sink) Release() {
	if s.released {
		return
	}
	s.released = true
	if len(s.buf) > 0 {
		s.log.Warn().Int("rows", len(s.buf)).Msg("released with unflushed rows")
	}
	s.release()
}

// Stats implements pipeline.Sink
func (s *sink) Stats() pipeline.LoadStats { return s.stats }
