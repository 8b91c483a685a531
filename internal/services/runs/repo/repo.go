// Package repo persists the etl_runs ledger
package repo

import (
	"context"
	"strconv"
	"strings"
	"time"

	"marketingetl/internal/modkit/repokit"
	perr "marketingetl/internal/platform/errors"
	"marketingetl/internal/platform/store"
	pstrings "marketingetl/internal/platform/strings"
	"marketingetl/internal/services/runs/domain"
)

const startSQL = `
	INSERT INTO etl_runs (run_id, pipeline, account_id, target_table, period_start, period_end, state, status, version, started_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// finished are the columns Finish overwrites when the run row exists
var finished = []string{"state", "status", "records", "rows_loaded", "batches", "error", "finished_at"}

// finishSQL writes the whole run row, so a run whose Start was lost still
// leaves one ledger row
func finishSQL(d store.Dialect) string {
	var b strings.Builder
	b.WriteString("INSERT INTO etl_runs (")
	b.WriteString(strings.Join(Columns, ", "))
	b.WriteString(") VALUES (")
	b.WriteString(strings.TrimSuffix(strings.Repeat("?, ", len(Columns)), ", "))
	b.WriteString(")")
	set := make([]string, len(finished))
	for i, c := range finished {
		if d == store.DialectPostgres {
			set[i] = c + " = EXCLUDED." + c
		} else {
			set[i] = c + " = VALUES(" + c + ")"
		}
	}
	if d == store.DialectPostgres {
		b.WriteString(" ON CONFLICT (run_id) DO UPDATE SET ")
	} else {
		b.WriteString(" ON DUPLICATE KEY UPDATE ")
	}
	b.WriteString(strings.Join(set, ", "))
	return Rebind(d, b.String())
}

type queries struct {
	q       repokit.Queryer
	dialect store.Dialect
}

// NewSQL returns a binder for a postgres or mysql ledger
func NewSQL(d store.Dialect) repokit.Binder[domain.Repo] {
	return repokit.BindFunc[domain.Repo](func(q repokit.Queryer) domain.Repo {
		return &queries{q: repokit.RequireQueryer(q), dialect: d}
	})
}

// Start implements domain.Repo
func (r *queries) Start(ctx context.Context, run domain.Run) error {
	err := store.ExecOne(ctx, r.q, Rebind(r.dialect, startSQL),
		run.ID, run.Pipeline, run.Account, run.Target,
		day(run.PeriodStart), day(run.PeriodEnd),
		run.State, run.Status, run.Version, run.StartedAt,
	)
	return perr.FromDB(err, "start run "+run.ID)
}

// Finish implements domain.Repo
func (r *queries) Finish(ctx context.Context, run domain.Run) error {
	_, err := store.Exec(ctx, r.q, finishSQL(r.dialect),
		run.ID, run.Pipeline, run.Account, run.Target, day(run.PeriodStart), day(run.PeriodEnd),
		run.State, run.Status, run.Records, run.Rows, run.Batches,
		pstrings.SQLNull(run.ErrText), run.Version, run.StartedAt, store.NullTime(run.FinishedAt),
	)
	return perr.FromDB(err, "finish run "+run.ID)
}

// chLedger appends one row per finished run
type chLedger struct {
	ch store.Clickhouse
}

// NewCH returns an append-only ledger on clickhouse; Start is a no-op
func NewCH(ch store.Clickhouse) domain.Repo {
	if ch == nil {
		panic("runs.NewCH requires a clickhouse client")
	}
	return &chLedger{ch: ch}
}

// Columns is the etl_runs column order Finish writes
var Columns = []string{
	"run_id", "pipeline", "account_id", "target_table", "period_start", "period_end",
	"state", "status", "records", "rows_loaded", "batches", "error", "version", "started_at", "finished_at",
}

// Start implements domain.Repo
func (c *chLedger) Start(context.Context, domain.Run) error { return nil }

// Finish implements domain.Repo
func (c *chLedger) Finish(ctx context.Context, run domain.Run) error {
	row := []any{
		run.ID, run.Pipeline, run.Account, run.Target, day(run.PeriodStart), day(run.PeriodEnd),
		run.State, run.Status, uint32(run.Records), uint32(run.Rows), uint32(run.Batches),
		run.ErrText, run.Version, run.StartedAt, run.FinishedAt,
	}
	if err := c.ch.Insert(ctx, domain.Table, Columns, [][]any{row}); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "finish run %s", run.ID)
	}
	return nil
}

// Rebind rewrites ? placeholders to $n for postgres
func Rebind(d store.Dialect, q string) string {
	if d != store.DialectPostgres {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 16)
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
