package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeTag int64

func (t fakeTag) RowsAffected() int64 { return int64(t) }

type fakeRowQuerier struct {
	lastSQL  string
	lastArgs []any
	tag      CommandTag
	execErr  error

	rows     Rows
	queryErr error

	scalar  any
	scanErr error
}

func (f *fakeRowQuerier) Exec(_ context.Context, sql string, args ...any) (CommandTag, error) {
	f.lastSQL, f.lastArgs = sql, args
	return f.tag, f.execErr
}

func (f *fakeRowQuerier) Query(_ context.Context, sql string, _ ...any) (Rows, error) {
	f.lastSQL = sql
	return f.rows, f.queryErr
}

func (f *fakeRowQuerier) QueryRow(_ context.Context, sql string, _ ...any) Row {
	f.lastSQL = sql
	return scanFunc(func(dest ...any) error {
		if f.scanErr != nil {
			return f.scanErr
		}
		*(dest[0].(*int64)) = f.scalar.(int64)
		return nil
	})
}

type scanFunc func(dest ...any) error

func (s scanFunc) Scan(dest ...any) error { return s(dest...) }

func TestExec(t *testing.T) {
	f := &fakeRowQuerier{tag: fakeTag(3)}
	n, err := Exec(context.Background(), f, "UPDATE etl_runs SET state = ?", "done")
	if err != nil || n != 3 {
		t.Fatalf("Exec = %d, %v", n, err)
	}
	if f.lastSQL != "UPDATE etl_runs SET state = ?" || len(f.lastArgs) != 1 {
		t.Fatalf("passthrough mismatch: %q %v", f.lastSQL, f.lastArgs)
	}

	f.execErr = errors.New("boom")
	if _, err := Exec(context.Background(), f, "x"); err == nil {
		t.Fatalf("expected exec error")
	}
}

func TestExecOne(t *testing.T) {
	if err := ExecOne(context.Background(), &fakeRowQuerier{tag: fakeTag(1)}, "x"); err != nil {
		t.Fatalf("ExecOne(1): %v", err)
	}
	if err := ExecOne(context.Background(), &fakeRowQuerier{tag: fakeTag(0)}, "x"); err == nil {
		t.Fatalf("ExecOne(0) should fail")
	}
	if err := ExecOne(context.Background(), &fakeRowQuerier{tag: fakeTag(2)}, "x"); err == nil {
		t.Fatalf("ExecOne(2) should fail")
	}
}

func TestScalar(t *testing.T) {
	f := &fakeRowQuerier{scalar: int64(42)}
	v, err := Scalar[int64](context.Background(), f, "SELECT COUNT(*) FROM sales_fact")
	if err != nil || v != 42 {
		t.Fatalf("Scalar = %d, %v", v, err)
	}
	f.scanErr = errors.New("no rows")
	if v, err := Scalar[int64](context.Background(), f, "x"); err == nil || v != 0 {
		t.Fatalf("Scalar error path = %d, %v", v, err)
	}
}

func TestNullTime(t *testing.T) {
	if NullTime(time.Time{}) != nil {
		t.Fatalf("zero time must be NULL")
	}
	at := time.Date(2025, 3, 8, 6, 0, 0, 0, time.UTC)
	if got, ok := NullTime(at).(time.Time); !ok || !got.Equal(at) {
		t.Fatalf("NullTime = %v", got)
	}
}
