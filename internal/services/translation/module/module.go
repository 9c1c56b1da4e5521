// Package module implements the translation module
package module

import (
	"moodmeter/internal/adapters/translate/google"
	"moodmeter/internal/adapters/translate/libre"
	"moodmeter/internal/modkit"
	phttp "moodmeter/internal/platform/net/http"
	"moodmeter/internal/services/translation/domain"
	"moodmeter/internal/services/translation/service"
)

// Ports exposed by the translation module
type Ports struct {
	Invoker domain.InvokerPort
}

// Module implements modkit.Module
type Module struct {
	deps    modkit.Deps
	invoker *service.Invoker
	ports   Ports
}

// New constructs the translation module
// the backend comes from WithPorts(domain.Ports) when given, otherwise from config
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("translation"),
	}, opts...)...)

	var backend domain.Translator
	if b.Ports != nil {
		ports, ok := b.Ports.(domain.Ports)
		if !ok {
			panic("translation module: expected WithPorts(translation/domain.Ports)")
		}
		backend = ports.Backend
	}

	cfg := merge(FromConfig(deps.Cfg), overrides)
	if backend == nil {
		backend = Backend(cfg)
	}

	inv := service.New(backend, service.Config{
		Timeout:         cfg.Timeout,
		RPS:             cfg.RPS,
		Burst:           cfg.Burst,
		BreakerFailures: uint32(max(cfg.BreakerFailures, 0)),
		BreakerCooldown: cfg.BreakerCooldown,
	}, deps.Logger("translation"), deps.Metrics)

	deps.Logger("translation").Info().
		Str("backend", inv.Name()).
		Dur("timeout", inv.Timeout()).
		Msg("translation configured")

	return &Module{deps: deps, invoker: inv, ports: Ports{Invoker: inv}}
}

func merge(cfg, o Options) Options {
	if o.Backend != "" {
		cfg.Backend = o.Backend
	}
	if o.Timeout != 0 {
		cfg.Timeout = o.Timeout
	}
	if o.BaseURL != "" {
		cfg.BaseURL = o.BaseURL
	}
	if o.APIKey != "" {
		cfg.APIKey = o.APIKey
	}
	if o.RPS != 0 {
		cfg.RPS = o.RPS
	}
	if o.Burst != 0 {
		cfg.Burst = o.Burst
	}
	if o.BreakerFailures != 0 {
		cfg.BreakerFailures = o.BreakerFailures
	}
	if o.BreakerCooldown != 0 {
		cfg.BreakerCooldown = o.BreakerCooldown
	}
	return cfg
}

// Backend builds the configured translator, nil for "none"
// the collaborator's own HTTP timeout is left above the invoker deadline so the invoker decides
func Backend(o Options) domain.Translator {
	httpTimeout := 2 * o.Timeout
	switch o.Backend {
	case "none":
		return nil
	case "libre":
		if o.BaseURL == "" {
			panic("translation module: TRANSLATOR_BASE_URL is required for the libre backend")
		}
		return libre.New(libre.Options{BaseURL: o.BaseURL, APIKey: o.APIKey, Timeout: httpTimeout})
	default:
		return google.New(google.Options{BaseURL: o.BaseURL, Timeout: httpTimeout})
	}
}

// Invoker returns the concrete invoker for the composition root
func (m *Module) Invoker() *service.Invoker { return m.invoker }

// Name satisfies modkit.Module
func (m *Module) Name() string { return "translation" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(_ phttp.Router) {}
