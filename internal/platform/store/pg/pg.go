// Package pg opens the pgx pool backing the verdict ledger and traces its statements
package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures the pool
type Config struct {
	URL      string
	MaxConns int32
	AppName  string        // reported as application_name in pg_stat_activity
	Slow     time.Duration // statements at or above this are flagged slow, 0 disables
}

// PG is a postgres pool with an optional tracer
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	Slow   time.Duration
}

var newPool = pgxpool.NewWithConfig // seam

// Open builds the pool without pinging, callers decide how to wait for the server
func Open(ctx context.Context, cfg Config, tracer QueryTracer) (*PG, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.AppName != "" {
		pcfg.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	return &PG{Pool: pool, Tracer: tracer, Slow: cfg.Slow}, nil
}

// Close closes the pool
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
