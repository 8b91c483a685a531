// Package repo provides the warehouse batch writers
package repo

import (
	"context"

	"marketingetl/internal/core/fact"
	"marketingetl/internal/modkit/repokit"
	perr "marketingetl/internal/platform/errors"
	"marketingetl/internal/platform/store"
	"marketingetl/internal/services/warehouse/domain"
)

// sqlRepo writes batches with one multi-row statement on a bound Queryer
type sqlRepo struct {
	q       repokit.Queryer
	dialect store.Dialect
}

// NewSQL returns a binder producing BatchRepos for a postgres or mysql Queryer
func NewSQL(d store.Dialect) repokit.Binder[domain.BatchRepo] {
	return repokit.BindFunc[domain.BatchRepo](func(q repokit.Queryer) domain.BatchRepo {
		return &sqlRepo{q: repokit.RequireQueryer(q), dialect: d}
	})
}

// WriteBatch implements domain.BatchRepo
func (r *sqlRepo) WriteBatch(ctx context.Context, dest fact.Destination, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if dest.Mode == fact.ModeUpsert {
		rows = Collapse(dest, rows)
	}
	stmt, err := Statement(r.dialect, dest, len(rows))
	if err != nil {
		return 0, err
	}
	n, err := store.Exec(ctx, r.q, stmt, flatten(rows)...)
	if err != nil {
		return 0, perr.FromDB(err, "write "+dest.Table)
	}
	return n, nil
}

// chRepo writes batches as native clickhouse blocks
type chRepo struct {
	ch store.Clickhouse
}

// NewCH returns a BatchRepo over a clickhouse seam; insert mode only
func NewCH(ch store.Clickhouse) domain.BatchRepo {
	if ch == nil {
		panic("repo.NewCH requires a clickhouse client")
	}
	return &chRepo{ch: ch}
}

// WriteBatch implements domain.BatchRepo
func (r *chRepo) WriteBatch(ctx context.Context, dest fact.Destination, rows [][]any) (int64, error) {
	if dest.Mode != fact.ModeInsert {
		return 0, perr.Configf("%s: clickhouse destinations support insert mode only", dest.Table)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	if err := r.ch.Insert(ctx, dest.Table, dest.Columns, rows); err != nil {
		return 0, perr.Wrapf(err, perr.ErrorCodeDB, "write %s", dest.Table)
	}
	return int64(len(rows)), nil
}
