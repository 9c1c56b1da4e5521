package store

import (
	"context"

	"moodmeter/internal/platform/logger"
	"moodmeter/internal/platform/store/ch"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

func newCHAdapter(c *ch.CH) *clickhouseAdapter { return &clickhouseAdapter{inner: c} }

// clickhouseAdapter adapts *ch.CH to the store.Clickhouse seam
type clickhouseAdapter struct {
	inner *ch.CH
}

var (
	_ Clickhouse = (*clickhouseAdapter)(nil)
	_ Pinger     = (*clickhouseAdapter)(nil)
)

func (a *clickhouseAdapter) Insert(ctx context.Context, table string, rows [][]any) error {
	return a.inner.Insert(ctx, table, rows)
}

func (a *clickhouseAdapter) Exec(ctx context.Context, sql string, args ...any) error {
	return a.inner.Exec(ctx, sql, args...)
}

func (a *clickhouseAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	r, err := a.inner.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{r: r}, nil
}

func (a *clickhouseAdapter) Ping(ctx context.Context) error { return a.inner.Ping(ctx) }

func (a *clickhouseAdapter) Close() error { return a.inner.Close() }

// chRows narrows driver.Rows to store.Rows
type chRows struct{ r driver.Rows }

func (r chRows) Next() bool             { return r.r.Next() }
func (r chRows) Scan(dest ...any) error { return r.r.Scan(dest...) }
func (r chRows) Err() error             { return r.r.Err() }

func (r chRows) Close() {
	if err := r.r.Close(); err != nil {
		logger.Named("store").Debug().Err(err).Msg("clickhouse rows close")
	}
}
