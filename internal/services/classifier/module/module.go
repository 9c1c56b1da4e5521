// Package module implements the classifier module
package module

import (
	"moodmeter/internal/adapters/classify/hfinference"
	"moodmeter/internal/adapters/classify/vader"
	"moodmeter/internal/modkit"
	phttp "moodmeter/internal/platform/net/http"
	"moodmeter/internal/services/classifier/domain"
	"moodmeter/internal/services/classifier/service"
)

// Ports exposed by the classifier module
type Ports struct {
	Handle domain.HandlePort
}

// Module implements modkit.Module
type Module struct {
	deps   modkit.Deps
	handle *service.Handle
	ports  Ports
}

// New constructs the classifier module
// the backend comes from WithPorts(domain.Ports) when given, otherwise from config
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("classifier"),
	}, opts...)...)

	var backend domain.Classifier
	if b.Ports != nil {
		ports, ok := b.Ports.(domain.Ports)
		if !ok {
			panic("classifier module: expected WithPorts(classifier/domain.Ports)")
		}
		backend = ports.Backend
	}

	cfg := merge(FromConfig(deps.Cfg), overrides)
	if backend == nil {
		backend = Backend(cfg)
	}

	h := service.New(backend, service.Config{
		MaxInflight: int64(cfg.MaxInflight),
		Timeout:     cfg.Timeout,
		Warmup:      cfg.Warmup,
	}, deps.Logger("classifier"), deps.Metrics)

	return &Module{deps: deps, handle: h, ports: Ports{Handle: h}}
}

func merge(cfg, o Options) Options {
	if o.Backend != "" {
		cfg.Backend = o.Backend
	}
	if o.HFBaseURL != "" {
		cfg.HFBaseURL = o.HFBaseURL
	}
	if o.HFModel != "" {
		cfg.HFModel = o.HFModel
	}
	if o.HFToken != "" {
		cfg.HFToken = o.HFToken
	}
	if o.HTTPTimeout != 0 {
		cfg.HTTPTimeout = o.HTTPTimeout
	}
	if o.Timeout != 0 {
		cfg.Timeout = o.Timeout
	}
	if o.MaxInflight != 0 {
		cfg.MaxInflight = o.MaxInflight
	}
	return cfg
}

// Backend builds the configured classifier collaborator
func Backend(o Options) domain.Classifier {
	switch o.Backend {
	case "vader":
		return vader.New()
	default:
		return hfinference.New(hfinference.Options{
			BaseURL:      o.HFBaseURL,
			Model:        o.HFModel,
			Token:        o.HFToken,
			Timeout:      o.HTTPTimeout,
			WaitForModel: o.HFWait,
		})
	}
}

// Handle returns the lifecycle owning handle for the composition root
func (m *Module) Handle() *service.Handle { return m.handle }

// Name satisfies modkit.Module
func (m *Module) Name() string { return "classifier" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(_ phttp.Router) {}
