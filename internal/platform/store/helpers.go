package store

import (
	"context"
	"fmt"
	"time"
)

// Exec runs a write and returns rows affected
func Exec(ctx context.Context, q RowQuerier, sql string, args ...any) (int64, error) {
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ExecOne runs a write and asserts exactly 1 row affected
func ExecOne(ctx context.Context, q RowQuerier, sql string, args ...any) error {
	n, err := Exec(ctx, q, sql, args...)
	if err != nil {
		return err
	}
	if n != 1 {
		return fmt.Errorf("expected exactly one row affected, got %d", n)
	}
	return nil
}

// Scalar queries the first row, first column into T
func Scalar[T any](ctx context.Context, q RowQuerier, sql string, args ...any) (T, error) {
	var v T
	if err := q.QueryRow(ctx, sql, args...).Scan(&v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// NullTime is t as a query arg, nil for the zero time so the column gets NULL
func NullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
