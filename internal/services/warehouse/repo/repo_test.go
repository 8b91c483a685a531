package repo

import (
	"context"
	"errors"
	"strings"
	"testing"

	"marketingetl/internal/core/fact"
	perr "marketingetl/internal/platform/errors"
	"marketingetl/internal/platform/store"
	kit "marketingetl/internal/platform/testkit"

	"github.com/go-sql-driver/mysql"
)

type tag int64

func (t tag) RowsAffected() int64 { return int64(t) }

type recQ struct {
	sql  []string
	args [][]any
	err  error
}

func (q *recQ) Exec(_ context.Context, sql string, args ...any) (store.CommandTag, error) {
	q.sql = append(q.sql, sql)
	q.args = append(q.args, args)
	if q.err != nil {
		return nil, q.err
	}
	return tag(len(args) / 4), nil
}

func (q *recQ) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }

func (q *recQ) QueryRow(context.Context, string, ...any) store.Row { return nil }

func TestSQLRepo_WriteBatch(t *testing.T) {
	q := &recQ{}
	r := NewSQL(store.DialectMySQL).Bind(q)
	rows := [][]any{
		{"2025-02-22", "/a", 1, "0.1"},
		{"2025-02-22", "/a", 2, "0.2"},
	}
	n, err := r.WriteBatch(context.Background(), pageSessions(fact.ModeUpsert), rows)
	if err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if n != 1 || len(q.args[0]) != 4 || q.args[0][2] != 2 {
		t.Fatalf("in-batch duplicates must collapse: n=%d args=%v", n, q.args)
	}
	kit.MustContain(t, q.sql[0], "ON DUPLICATE KEY UPDATE")

	n, err = r.WriteBatch(context.Background(), pageSessions(fact.ModeInsert), rows)
	if err != nil || n != 2 || len(q.args[1]) != 8 {
		t.Fatalf("insert mode keeps duplicates: n=%d err=%v", n, err)
	}

	if n, err := r.WriteBatch(context.Background(), pageSessions(fact.ModeInsert), nil); n != 0 || err != nil || len(q.sql) != 2 {
		t.Fatalf("empty batch must not hit the database")
	}
}

func TestSQLRepo_MapsDriverErrors(t *testing.T) {
	q := &recQ{err: &mysql.MySQLError{Number: 1146, Message: "Table 'shopify_etl.sales_fact' doesn't exist"}}
	_, err := NewSQL(store.DialectMySQL).Bind(q).WriteBatch(context.Background(), pageSessions(fact.ModeInsert), [][]any{{1, 2, 3, 4}})
	kit.MustCode(t, err, perr.ErrorCodeConfig)

	q.err = errors.New("broken pipe")
	_, err = NewSQL(store.DialectPostgres).Bind(q).WriteBatch(context.Background(), pageSessions(fact.ModeInsert), [][]any{{1, 2, 3, 4}})
	kit.MustCode(t, err, perr.ErrorCodeDB)
}

func TestNewSQL_RequiresQueryer(t *testing.T) {
	kit.MustPanic(t, func() { NewSQL(store.DialectPostgres).Bind(nil) })
}

type fakeCH struct {
	table string
	cols  []string
	rows  [][]any
	err   error
}

func (f *fakeCH) Insert(_ context.Context, table string, columns []string, rows [][]any) error {
	f.table, f.cols, f.rows = table, columns, rows
	return f.err
}

func (f *fakeCH) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }

func (f *fakeCH) Ping(context.Context) error { return nil }

func (f *fakeCH) Close() error { return nil }

func TestCHRepo(t *testing.T) {
	ch := &fakeCH{}
	r := NewCH(ch)
	n, err := r.WriteBatch(context.Background(), pageSessions(fact.ModeInsert), [][]any{{1, 2, 3, 4}, {5, 6, 7, 8}})
	if err != nil || n != 2 || ch.table != "page_sessions_fact" || strings.Join(ch.cols, ",") != "day,landing_page_path,sessions,conversion_rate" {
		t.Fatalf("ch write: n=%d err=%v table=%s cols=%v", n, err, ch.table, ch.cols)
	}

	_, err = r.WriteBatch(context.Background(), pageSessions(fact.ModeUpsert), [][]any{{1, 2, 3, 4}})
	kit.MustCode(t, err, perr.ErrorCodeConfig)

	ch.err = errors.New("code: 60, table missing")
	_, err = r.WriteBatch(context.Background(), pageSessions(fact.ModeInsert), [][]any{{1, 2, 3, 4}})
	kit.MustCode(t, err, perr.ErrorCodeDB)

	kit.MustPanic(t, func() { NewCH(nil) })
}
