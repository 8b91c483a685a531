// Package repokit binds warehouse repos to a connection or transaction
package repokit

import (
	"context"

	"marketingetl/internal/platform/store"
)

// Queryer is what a bound repo runs its statements on: the pool, one
// acquired connection, or the transaction of one batch
type Queryer = store.RowQuerier

// Binder produces a repo bound to a Queryer
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc adapts a constructor to Binder
type BindFunc[T any] func(Queryer) T

// Bind implements Binder
func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// RequireQueryer panics on a nil q; a repo without one is a wiring bug
func RequireQueryer(q Queryer) Queryer {
	if q == nil {
		panic("repokit: nil Queryer")
	}
	return q
}

// MustBind checks q, then binds
func MustBind[T any](b Binder[T], q Queryer) T {
	return b.Bind(RequireQueryer(q))
}

// WithTx runs fn in one transaction on tx; the commit error, if any, is
// returned when fn succeeds
func WithTx(ctx context.Context, tx store.TxRunner, fn func(q Queryer) error) error {
	return tx.Tx(ctx, fn)
}
