package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"marketingetl/internal/platform/store/mysql"
	"marketingetl/internal/platform/store/trace"
)

// sqlQuerier is the statement surface shared by *sql.DB, *sql.Conn and *sql.Tx
type sqlQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type sqlBeginner interface {
	sqlQuerier
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// dbQuerier implements RowQuerier over database/sql
type dbQuerier struct {
	q      sqlQuerier
	tracer trace.QueryTracer
	slowMs int
}

func (x dbQuerier) Exec(ctx context.Context, query string, args ...any) (CommandTag, error) {
	start := time.Now()
	res, err := x.q.ExecContext(ctx, query, args...)
	x.emit(ctx, query, args, start, err)
	if err != nil {
		return resultTag{}, err
	}
	n, err := res.RowsAffected()
	return resultTag{n: n}, err
}

func (x dbQuerier) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := x.q.QueryContext(ctx, query, args...)
	x.emit(ctx, query, args, start, err)
	if err != nil {
		return nil, err
	}
	return sqlRows{rs}, nil
}

func (x dbQuerier) QueryRow(ctx context.Context, query string, args ...any) Row {
	start := time.Now()
	r := x.q.QueryRowContext(ctx, query, args...)
	return row{r: r, after: func(scanErr error) { x.emit(ctx, query, args, start, scanErr) }}
}

func (x dbQuerier) emit(ctx context.Context, query string, args []any, start time.Time, err error) {
	if x.tracer == nil {
		return
	}
	us := time.Since(start).Microseconds()
	x.tracer.OnQuery(ctx, trace.QueryEvent{SQL: query, Args: args, ElapsedUS: us, Err: err, Slow: trace.Slow(us, x.slowMs)})
}

// dbRunner adds transactions on top of dbQuerier
type dbRunner struct {
	dbQuerier
	b sqlBeginner
}

func (r dbRunner) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := r.b.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(dbQuerier{q: tx, tracer: r.tracer, slowMs: r.slowMs}); err != nil {
		rbErr := tx.Rollback()
		if errors.Is(rbErr, sql.ErrTxDone) {
			rbErr = nil
		}
		return errors.Join(err, rbErr)
	}
	return tx.Commit()
}

// sqlAdapter wraps mysql.MySQL and implements Pool
type sqlAdapter struct {
	dbRunner
	m *mysql.MySQL
}

func newSQLAdapter(m *mysql.MySQL) *sqlAdapter {
	return &sqlAdapter{
		dbRunner: dbRunner{dbQuerier: dbQuerier{q: m.DB, tracer: m.Tracer, slowMs: m.SlowMs}, b: m.DB},
		m:        m,
	}
}

func (a *sqlAdapter) Acquire(ctx context.Context) (Conn, error) {
	c, err := a.m.DB.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return &sqlConn{
		dbRunner: dbRunner{dbQuerier: dbQuerier{q: c, tracer: a.tracer, slowMs: a.slowMs}, b: c},
		c:        c,
	}, nil
}

func (a *sqlAdapter) Ping(ctx context.Context) error {
	if a == nil || a.m == nil || a.m.DB == nil {
		return errors.New("mysql: nil adapter")
	}
	return a.m.DB.PingContext(ctx)
}

func (a *sqlAdapter) Close() error { return a.m.Close() }

// sqlConn is a checked-out *sql.Conn
type sqlConn struct {
	dbRunner
	c *sql.Conn
}

func (c *sqlConn) Release() {
	if c.c != nil {
		_ = c.c.Close()
		c.c = nil
	}
}

type resultTag struct{ n int64 }

func (t resultTag) RowsAffected() int64 { return t.n }

type sqlRows struct{ r *sql.Rows }

func (x sqlRows) Next() bool            { return x.r.Next() }
func (x sqlRows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x sqlRows) Err() error            { return x.r.Err() }
func (x sqlRows) Close()                { _ = x.r.Close() }
