// Package module implements the arbiter module
package module

import (
	"moodmeter/internal/core/langhint"
	"moodmeter/internal/modkit"
	phttp "moodmeter/internal/platform/net/http"
	"moodmeter/internal/services/arbiter/domain"
	"moodmeter/internal/services/arbiter/service"
)

// Ports exposed by the arbiter module
type Ports struct {
	Analyzer domain.AnalyzerPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the arbiter module
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("arbiter"),
	}, opts...)...)

	// Basic guardrails against incorrect wiring
	ports, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("arbiter module: expected WithPorts(arbiter/domain.Ports)")
	}
	if ports.Classifier == nil || ports.Translator == nil {
		panic("arbiter module: Ports missing Classifier or Translator")
	}

	cfg := FromConfig(deps.Cfg)
	if overrides.BatchWorkers != 0 {
		cfg.BatchWorkers = overrides.BatchWorkers
	}
	if overrides.LangMinLetters != 0 {
		cfg.LangMinLetters = overrides.LangMinLetters
	}
	if overrides.LangMinConfident != 0 {
		cfg.LangMinConfident = overrides.LangMinConfident
	}

	if ports.Detector == nil {
		ports.Detector = langhint.New(langhint.Options{
			MinLetters:    cfg.LangMinLetters,
			MinConfidence: cfg.LangMinConfident,
		})
	}

	svc := service.New(
		ports,
		service.Config{BatchWorkers: cfg.BatchWorkers},
		overrides.Clock,
		deps.Logger("arbiter"),
		deps.Metrics,
	)
	return &Module{deps: deps, ports: Ports{Analyzer: svc}}
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "arbiter" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(_ phttp.Router) {}
