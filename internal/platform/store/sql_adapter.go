package store

import (
	"context"
	"errors"
	"time"

	"moodmeter/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxQuerier is the statement surface shared by *pgxpool.Pool and pgx.Tx
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// querier implements RowQuerier over any pgxQuerier and reports to the tracer
type querier struct {
	q      pgxQuerier
	tracer pg.QueryTracer
	slow   time.Duration
}

func (x querier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := x.q.Exec(ctx, sql, args...)
	x.emit(ctx, sql, args, start, err)
	return ct, err
}

func (x querier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := x.q.Query(ctx, sql, args...)
	x.emit(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return rs, nil
}

// QueryRow reports once Scan returns so the scan error is traced
func (x querier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	return tracedRow{
		r:     x.q.QueryRow(ctx, sql, args...),
		after: func(err error) { x.emit(ctx, sql, args, start, err) },
	}
}

func (x querier) emit(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if x.tracer == nil {
		return
	}
	elapsed := time.Since(start)
	x.tracer.OnQuery(ctx, pg.QueryEvent{
		SQL:     sql,
		Args:    args,
		Elapsed: elapsed,
		Err:     err,
		Slow:    x.slow > 0 && elapsed >= x.slow,
	})
}

type tracedRow struct {
	r     pgx.Row
	after func(error)
}

func (t tracedRow) Scan(dst ...any) error {
	err := t.r.Scan(dst...)
	t.after(err)
	return err
}

// pgAdapter is the pool backed TxRunner
type pgAdapter struct {
	querier
	p     *pg.PG
	begin func(ctx context.Context) (pgx.Tx, error)
}

var (
	_ TxRunner = (*pgAdapter)(nil)
	_ Pinger   = (*pgAdapter)(nil)
)

func newPGAdapter(p *pg.PG) *pgAdapter {
	return &pgAdapter{
		querier: querier{q: p.Pool, tracer: p.Tracer, slow: p.Slow},
		p:       p,
		begin:   p.Pool.Begin,
	}
}

func (a *pgAdapter) Ping(ctx context.Context) error {
	if a == nil || a.p == nil {
		return errors.New("pg: nil adapter")
	}
	return a.p.Pool.Ping(ctx)
}

func (a *pgAdapter) Close() error {
	a.p.Close()
	return nil
}

// Tx runs fn in a transaction, rolling back when fn fails
func (a *pgAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(querier{q: tx, tracer: a.tracer, slow: a.slow}); err != nil {
		return errors.Join(err, ignoreClosed(tx.Rollback(ctx)))
	}
	return tx.Commit(ctx)
}

func ignoreClosed(err error) error {
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}
