// Package store provides a unified interface to the warehouse backends
package store

import (
	"context"
	"errors"
	"fmt"

	"marketingetl/internal/platform/logger"
)

// Dialect names the warehouse flavour; it drives SQL rendering
type Dialect string

// Supported dialects
const (
	DialectPostgres   Dialect = "postgres"
	DialectMySQL      Dialect = "mysql"
	DialectClickHouse Dialect = "clickhouse"
)

// Store is the facade for the configured warehouse
// zero value is safe but does nothing
type Store struct {
	// Log is the logger used by subclients
	Log logger.Logger

	// Dialect is the opened backend
	Dialect Dialect

	// SQL is the postgres or mysql seam, nil for clickhouse
	SQL Pool

	// CH is the clickhouse seam, nil unless Dialect is clickhouse
	CH Clickhouse
}

// Row exposes the minimal scan contract a single row needs
type Row interface {
	Scan(dest ...any) error
}

// Rows exposes the minimal iteration and scan for a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// CommandTag is a tiny interface to inspect command results
type CommandTag interface {
	RowsAffected() int64
}

// RowQuerier is the read and write surface repos use for sql
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner wraps transaction execution around a function
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Conn is one checked-out connection; Release returns it to the pool
type Conn interface {
	TxRunner
	Release()
}

// Pool is the pooled sql seam
type Pool interface {
	TxRunner
	Acquire(ctx context.Context) (Conn, error)
	Ping(ctx context.Context) error
	Close() error
}

// Clickhouse is a tiny seam for columnar block writes and queries
type Clickhouse interface {
	Insert(ctx context.Context, table string, columns []string, rows [][]any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Ping(ctx context.Context) error
	Close() error
}

// Option adjusts a Store before its backend is opened
type Option func(*Store) error

// WithLogger hands log to the backend clients; Open tags it with the dialect
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// Open constructs a Store for cfg.Dialect
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{Dialect: cfg.Dialect}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	s.Log = s.Log.With().Str("dialect", string(cfg.Dialect)).Logger()

	var err error
	switch cfg.Dialect {
	case DialectPostgres:
		s.SQL, err = openPG(ctx, cfg, s)
	case DialectMySQL:
		s.SQL, err = openMySQL(ctx, cfg, s)
	case DialectClickHouse:
		s.CH, err = openCH(ctx, cfg)
	default:
		return nil, fmt.Errorf("store: unknown dialect %q", cfg.Dialect)
	}
	if err != nil {
		return nil, err
	}
	s.Log.Debug().Msg("warehouse connected")
	return s, nil
}

// Guard verifies the opened backend answers
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	var errs []error
	if s.SQL != nil {
		if err := s.SQL.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Dialect, err))
		}
	}
	if s.CH != nil {
		if err := s.CH.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("clickhouse: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Close closes all initialized backends
// nil backends are ignored
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.CH != nil {
		errs = append(errs, s.CH.Close())
	}
	if s.SQL != nil {
		errs = append(errs, s.SQL.Close())
	}
	return errors.Join(errs...)
}
