// Package module wires the sentiment endpoints into the API
package module

import (
	"moodmeter/internal/modkit"
	"moodmeter/internal/modkit/httpkit"
	sentimenthttp "moodmeter/internal/services/api/sentiment/http"
	arbdom "moodmeter/internal/services/arbiter/domain"
)

// Ports required by the sentiment API module
type Ports struct {
	Analyzer arbdom.AnalyzerPort
}

// Module implements modkit.Module
type Module struct {
	b        modkit.Built
	analyzer arbdom.AnalyzerPort
	batchMax int
}

// New constructs the sentiment API module, WithPorts(Ports) is required
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("sentiment"),
		modkit.WithPrefix("/sentiment"),
	}, opts...)...)

	ports, ok := b.Ports.(Ports)
	if !ok || ports.Analyzer == nil {
		panic("sentiment api module: expected WithPorts(sentiment/module.Ports) with an Analyzer")
	}

	return &Module{
		b:        b,
		analyzer: ports.Analyzer,
		batchMax: deps.Cfg.Prefix("CORE_API_").MayIntIn("BATCH_MAX", 32, 1, 1000),
	}
}

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) {
		sentimenthttp.Register(rr, sentimenthttp.Deps{Analyzer: m.analyzer, BatchMax: m.batchMax})
	})
}

// MountLegacy mounts GET / and POST /analyze on the root router
func (m *Module) MountLegacy(r httpkit.Router) {
	sentimenthttp.RegisterLegacy(r, m.analyzer)
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.b.Name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return nil }
