// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"moodmeter/internal/modkit"
	"moodmeter/internal/modkit/httpkit"
	"moodmeter/internal/modkit/module"
	metahttp "moodmeter/internal/services/api/meta/http"
)

// ServiceName identifies this API in health payloads
const ServiceName = "moodmeter-api"

// Ports optionally supplies the classifier readiness source
type Ports struct {
	Classifier metahttp.Readier
}

// Module implements the modkit.Module interface
type Module struct {
	b         modkit.Built
	deps      metahttp.Deps
	startedAt time.Time
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	m := &Module{b: b, startedAt: time.Now()}
	m.deps = metahttp.Deps{
		ServiceName: ServiceName,
		StartedAt:   m.startedAt,
		Modules:     module.Names,
	}
	if p, ok := b.Ports.(Ports); ok {
		m.deps.Classifier = p.Classifier
	}
	if deps.PG != nil {
		m.deps.PG = deps.PG
	}
	if deps.CH != nil {
		m.deps.CH = deps.CH
	}
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) {
		metahttp.Register(rr, m.deps)
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.b.Name }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
