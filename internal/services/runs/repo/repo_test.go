package repo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	perr "marketingetl/internal/platform/errors"
	"marketingetl/internal/platform/store"
	kit "marketingetl/internal/platform/testkit"
	"marketingetl/internal/services/runs/domain"
)

type tag int64

func (t tag) RowsAffected() int64 { return int64(t) }

type recQ struct {
	sql  string
	args []any
	n    int64
	err  error
}

func (q *recQ) Exec(_ context.Context, sql string, args ...any) (store.CommandTag, error) {
	q.sql, q.args = sql, args
	return tag(q.n), q.err
}

func (q *recQ) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }

func (q *recQ) QueryRow(context.Context, string, ...any) store.Row { return nil }

func sample() domain.Run {
	return domain.Run{
		ID:          "5f0c6b2e-0000-4000-8000-000000000001",
		Pipeline:    "metaads",
		Account:     "act_123",
		Target:      "meta_ads_campaigns_fact",
		PeriodStart: time.Date(2025, 2, 22, 13, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		State:       "extracting",
		Status:      "running",
		Version:     "1.2.0",
		StartedAt:   time.Date(2025, 3, 1, 6, 0, 0, 0, time.UTC),
	}
}

func TestRebind(t *testing.T) {
	cases := []struct {
		d    store.Dialect
		in   string
		want string
	}{
		{store.DialectPostgres, "a = ? AND b = ?", "a = $1 AND b = $2"},
		{store.DialectMySQL, "a = ? AND b = ?", "a = ? AND b = ?"},
		{store.DialectPostgres, "no args", "no args"},
	}
	for _, c := range cases {
		if got := Rebind(c.d, c.in); got != c.want {
			t.Fatalf("Rebind(%s, %q) = %q, want %q", c.d, c.in, got, c.want)
		}
	}
}

func TestStart(t *testing.T) {
	q := &recQ{n: 1}
	if err := NewSQL(store.DialectPostgres).Bind(q).Start(context.Background(), sample()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	kit.MustContain(t, q.sql, "INSERT INTO etl_runs")
	kit.MustContain(t, q.sql, "$10")
	if len(q.args) != 10 || q.args[2] != "act_123" {
		t.Fatalf("args = %v", q.args)
	}
	if d := q.args[4].(time.Time); d.Hour() != 0 || d.Day() != 22 {
		t.Fatalf("period start not truncated to a day: %v", d)
	}
}

func TestFinish(t *testing.T) {
	q := &recQ{n: 1}
	run := sample()
	run.State, run.Status, run.Rows = "Done", "ok", 250
	run.FinishedAt = run.StartedAt.Add(90 * time.Second)
	if err := NewSQL(store.DialectMySQL).Bind(q).Finish(context.Background(), run); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	kit.MustContain(t, q.sql, "INSERT INTO etl_runs (run_id, pipeline,")
	kit.MustContain(t, q.sql, "ON DUPLICATE KEY UPDATE state = VALUES(state)")
	if strings.Contains(q.sql, "pipeline = VALUES") || strings.Contains(q.sql, "started_at = VALUES") {
		t.Fatalf("finish must not rewrite start columns: %s", q.sql)
	}
	if len(q.args) != len(Columns) || q.args[0] != run.ID || q.args[2] != "act_123" {
		t.Fatalf("args = %v", q.args)
	}
	if q.args[11] != nil {
		t.Fatalf("empty error text must be NULL, got %v", q.args[11])
	}
	if at, ok := q.args[14].(time.Time); !ok || !at.Equal(run.FinishedAt) {
		t.Fatalf("finished_at = %v", q.args[14])
	}

	run.ErrText = "load: batch 2 rejected"
	_ = NewSQL(store.DialectMySQL).Bind(q).Finish(context.Background(), run)
	if q.args[11] != "load: batch 2 rejected" {
		t.Fatalf("error text = %v", q.args[11])
	}
}

func TestFinish_WithoutStartStillWritesTheRow(t *testing.T) {
	q := &recQ{n: 1}
	run := sample()
	run.State, run.Status = "Failed", "failed"
	if err := NewSQL(store.DialectPostgres).Bind(q).Finish(context.Background(), run); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	kit.MustContain(t, q.sql, "ON CONFLICT (run_id) DO UPDATE SET state = EXCLUDED.state")
	kit.MustContain(t, q.sql, "$15)")
	if q.args[1] != "metaads" || q.args[3] != "meta_ads_campaigns_fact" {
		t.Fatalf("the insert half must carry the start columns: %v", q.args)
	}
	if d := q.args[4].(time.Time); d.Hour() != 0 {
		t.Fatalf("period start not truncated: %v", d)
	}
}

func TestSQL_Errors(t *testing.T) {
	q := &recQ{err: errors.New("connection reset")}
	err := NewSQL(store.DialectPostgres).Bind(q).Finish(context.Background(), sample())
	kit.MustCode(t, err, perr.ErrorCodeDB)

	q = &recQ{n: 0}
	err = NewSQL(store.DialectPostgres).Bind(q).Start(context.Background(), sample())
	if err == nil {
		t.Fatalf("start affecting zero rows must fail")
	}
}

type fakeCH struct {
	store.Clickhouse
	table string
	cols  []string
	rows  [][]any
}

func (f *fakeCH) Insert(_ context.Context, table string, cols []string, rows [][]any) error {
	f.table, f.cols, f.rows = table, cols, rows
	return nil
}

func TestCHLedger(t *testing.T) {
	ch := &fakeCH{}
	r := NewCH(ch)
	if err := r.Start(context.Background(), sample()); err != nil || ch.rows != nil {
		t.Fatalf("Start must be a no-op")
	}
	if err := r.Finish(context.Background(), sample()); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if ch.table != "etl_runs" || len(ch.rows) != 1 || len(ch.rows[0]) != len(Columns) {
		t.Fatalf("insert = %s %v", ch.table, ch.rows)
	}
	kit.MustPanic(t, func() { NewCH(nil) })
}
