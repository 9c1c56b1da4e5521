// Package repokit provides common types and helpers for repository implementations
package repokit

import (
	"context"

	"moodmeter/internal/platform/store"
)

type (
	// Queryer is the minimal read and write surface for SQL repos
	Queryer = store.RowQuerier

	// TxRunner can execute a function inside a transaction
	TxRunner = store.TxRunner

	// Clickhouse is the columnar batch and aggregate seam
	Clickhouse = store.Clickhouse

	// Rows are the result set of a query
	Rows = store.Rows

	// Row is a single row result from a query
	Row = store.Row

	// CommandTag is the result of a command that modifies data
	CommandTag = store.CommandTag
)

// Binder binds a domain repo to a Queryer, the pool or a transaction
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc adapts a constructor to a Binder
type BindFunc[T any] func(Queryer) T

// Bind calls f
func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// MustBind binds b to q and panics when no store is wired
func MustBind[T any](b Binder[T], q Queryer) T {
	if q == nil {
		panic("repokit: bind without a postgres store")
	}
	return b.Bind(q)
}

// WithTx runs fn inside a transaction using the provided TxRunner
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error {
	return tx.Tx(ctx, fn)
}

// CollectRows drains rows through scan and always closes them
// rows.Err is reported after iteration ends
func CollectRows[T any](rows Rows, scan func(Row) (T, error)) ([]T, error) {
	defer rows.Close()
	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
