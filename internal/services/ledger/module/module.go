// Package module implements the verdict ledger module
package module

import (
	"context"
	"fmt"

	"moodmeter/internal/modkit"
	"moodmeter/internal/modkit/repokit"
	phttp "moodmeter/internal/platform/net/http"
	"moodmeter/internal/services/ledger/domain"
	"moodmeter/internal/services/ledger/repo"
	"moodmeter/internal/services/ledger/service"

	"github.com/jonboulle/clockwork"
)

// Ports exposed by the ledger module, both nil when the ledger is disabled
type Ports struct {
	Recorder domain.RecorderPort
	Reader   domain.ReaderPort
}

type schema interface {
	EnsureSchema(ctx context.Context) error
}

// Module implements modkit.Module
type Module struct {
	cfg     Options
	writer  *service.Writer
	schemas []schema
	ports   Ports
	started bool
}

// New constructs the ledger module
// it stays disabled unless LEDGER_ENABLED is set and at least one store is configured
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("ledger"),
	}, opts...)...)

	cfg := merge(FromConfig(deps.Cfg), overrides)
	log := deps.Logger(b.Name)
	m := &Module{cfg: cfg}

	if !cfg.Enabled {
		log.Debug().Msg("ledger disabled")
		return m
	}
	if deps.PG == nil && deps.CH == nil {
		log.Warn().Msg("ledger enabled but no store configured, disabling")
		m.cfg.Enabled = false
		return m
	}

	var (
		sinks   []service.Sink
		recent  domain.RecentStore
		summary domain.SummaryStore
	)
	if deps.PG != nil {
		pg := repokit.MustBind(repo.NewPG(), deps.PG)
		sinks = append(sinks, service.Sink{Name: "pg", Storage: pg})
		m.schemas = append(m.schemas, pg)
		recent, summary = pg, pg
	}
	if deps.CH != nil {
		ch := repo.NewCH(deps.CH)
		sinks = append(sinks, service.Sink{Name: "ch", Storage: ch})
		m.schemas = append(m.schemas, ch)
		summary = ch
	}

	m.writer = service.NewWriter(sinks, service.WriterConfig{
		Buffer:       cfg.Buffer,
		BatchSize:    cfg.BatchSize,
		FlushEvery:   cfg.FlushEvery,
		WriteTimeout: cfg.WriteTimeout,
	}, clockwork.NewRealClock(), log, deps.Metrics)

	m.ports = Ports{Recorder: m.writer, Reader: service.NewReader(recent, summary)}

	log.Info().Int("sinks", len(sinks)).Int("buffer", cfg.Buffer).Msg("ledger configured")
	return m
}

func merge(cfg, o Options) Options {
	if o.Enabled {
		cfg.Enabled = true
	}
	if o.Buffer != 0 {
		cfg.Buffer = o.Buffer
	}
	if o.BatchSize != 0 {
		cfg.BatchSize = o.BatchSize
	}
	if o.FlushEvery != 0 {
		cfg.FlushEvery = o.FlushEvery
	}
	if o.WriteTimeout != 0 {
		cfg.WriteTimeout = o.WriteTimeout
	}
	return cfg
}

// Enabled reports whether the ledger records and serves reads
func (m *Module) Enabled() bool { return m.cfg.Enabled }

// Start ensures the schema when asked to and starts the writer
// the writer keeps running after ctx ends until Close is called
func (m *Module) Start(ctx context.Context) error {
	if !m.cfg.Enabled {
		return nil
	}
	if m.cfg.EnsureSchema {
		for _, s := range m.schemas {
			if err := s.EnsureSchema(ctx); err != nil {
				return fmt.Errorf("ledger schema: %w", err)
			}
		}
	}
	m.started = true
	// the writer outlives ctx so requests still draining after a signal are recorded, Close ends it
	go m.writer.Run(context.WithoutCancel(ctx))
	return nil
}

// Close flushes pending entries
func (m *Module) Close(ctx context.Context) error {
	if !m.started {
		return nil
	}
	return m.writer.Close(ctx)
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "ledger" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module, the read routes live in api/ledger
func (m *Module) MountRoutes(_ phttp.Router) {}
