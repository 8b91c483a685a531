package store

import (
	"context"
	"errors"
	"time"

	"marketingetl/internal/platform/store/pg"
	"marketingetl/internal/platform/store/trace"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxQuerier is the statement surface shared by pgxpool.Pool, pgxpool.Conn and pgx.Tx
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgxBeginner interface {
	pgxQuerier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// pgQuerier implements RowQuerier over any pgx statement surface and
// emits trace events when a tracer is configured
type pgQuerier struct {
	q      pgxQuerier
	tracer trace.QueryTracer
	slowMs int
}

func (x pgQuerier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := x.q.Exec(ctx, sql, args...)
	x.emit(ctx, sql, args, start, err)
	return ct, err
}

func (x pgQuerier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := x.q.Query(ctx, sql, args...)
	x.emit(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return rs, nil
}

func (x pgQuerier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	r := x.q.QueryRow(ctx, sql, args...)
	return row{r: r, after: func(scanErr error) { x.emit(ctx, sql, args, start, scanErr) }}
}

func (x pgQuerier) emit(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if x.tracer == nil {
		return
	}
	us := time.Since(start).Microseconds()
	x.tracer.OnQuery(ctx, trace.QueryEvent{SQL: sql, Args: args, ElapsedUS: us, Err: err, Slow: trace.Slow(us, x.slowMs)})
}

// pgRunner adds transactions on top of pgQuerier
type pgRunner struct {
	pgQuerier
	b pgxBeginner
}

func (r pgRunner) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := r.b.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(pgQuerier{q: tx, tracer: r.tracer, slowMs: r.slowMs}); err != nil {
		return errors.Join(err, ignoreClosed(tx.Rollback(ctx)))
	}
	return tx.Commit(ctx)
}

func ignoreClosed(err error) error {
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

// pgAdapter wraps pg.PG and implements Pool
type pgAdapter struct {
	pgRunner
	p *pg.PG
}

func newPGAdapter(p *pg.PG) *pgAdapter {
	return &pgAdapter{
		pgRunner: pgRunner{pgQuerier: pgQuerier{q: p.Pool, tracer: p.Tracer, slowMs: p.SlowMs}, b: p.Pool},
		p:        p,
	}
}

func (a *pgAdapter) Acquire(ctx context.Context) (Conn, error) {
	c, err := a.p.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &pgConn{
		pgRunner: pgRunner{pgQuerier: pgQuerier{q: c, tracer: a.tracer, slowMs: a.slowMs}, b: c},
		release:  c.Release,
	}, nil
}

func (a *pgAdapter) Ping(ctx context.Context) error {
	if a == nil || a.p == nil || a.p.Pool == nil {
		return errors.New("pg: nil adapter")
	}
	return a.p.Pool.Ping(ctx)
}

func (a *pgAdapter) Close() error { a.p.Close(); return nil }

// pgConn is a checked-out pool connection
type pgConn struct {
	pgRunner
	release func()
}

func (c *pgConn) Release() {
	if c.release != nil {
		c.release()
		c.release = nil
	}
}

// row defers the trace event until Scan reports its error
type row struct {
	r     Row
	after func(error)
}

func (x row) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	if x.after != nil {
		x.after(err)
	}
	return err
}
