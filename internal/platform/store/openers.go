package store

import (
	"context"
	"fmt"
	"time"

	"moodmeter/internal/platform/logger"
	chx "moodmeter/internal/platform/store/ch"
	"moodmeter/internal/platform/store/pg"
)

const (
	backoffStart   = 250 * time.Millisecond
	backoffCeiling = 8 * time.Second
)

// sleep is a seam so retry tests do not wait
var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// openPG opens the pool and publishes the adapter only once a ping succeeds
func openPG(ctx context.Context, cfg Config, log logger.Logger) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(log)
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		AppName:  cfg.AppName,
		Slow:     time.Duration(cfg.PG.SlowQueryMs) * time.Millisecond,
	}, tracer)
	if err != nil {
		return nil, err
	}

	attempts := max(cfg.PG.ConnectRetries, 1)
	timeout := cfg.PG.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	var lastErr error
	backoff := backoffStart
	for i := 0; i < attempts; i++ {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		lastErr = p.Pool.Ping(pctx)
		cancel()
		if lastErr == nil {
			return newPGAdapter(p), nil
		}
		log.Warn().Err(lastErr).Int("attempt", i+1).Int("of", attempts).Msg("postgres not reachable yet")
		if i == attempts-1 {
			break
		}
		if err := sleep(ctx, backoff); err != nil {
			p.Close()
			return nil, err
		}
		backoff = min(backoff*2, backoffCeiling)
	}

	p.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, lastErr)
}

func openCH(ctx context.Context, cfg Config) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{URL: cfg.CH.URL, Role: cfg.CH.Role, Tag: cfg.AppName})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}
