package pg

import (
	"context"
	"strings"
	"time"

	"moodmeter/internal/platform/logger"
)

// QueryEvent describes one finished statement
type QueryEvent struct {
	SQL     string
	Args    []any
	Elapsed time.Duration
	Err     error
	Slow    bool
}

// QueryTracer receives an event per statement
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs statements with the request id on ctx
// arguments carry analysed texts so only their count is logged
func Tracer(root logger.Logger) QueryTracer {
	return &zlTracer{log: root.With().Str("component", "pg").Logger()}
}

type zlTracer struct{ log logger.Logger }

func (z *zlTracer) OnQuery(ctx context.Context, ev QueryEvent) {
	l := logger.Scoped(ctx, &z.log)
	evt := l.Info()
	switch {
	case ev.Err != nil:
		evt = l.Error().Err(ev.Err)
	case ev.Slow:
		evt = l.Warn()
	}
	evt.Dur("elapsed", ev.Elapsed).
		Bool("slow", ev.Slow).
		Int("args", len(ev.Args)).
		Str("sql", compact(ev.SQL)).
		Msg("pg query")
}

// compact collapses all whitespace runs to single spaces
func compact(s string) string { return strings.Join(strings.Fields(s), " ") }
