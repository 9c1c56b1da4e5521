// Package module wires the ledger read endpoints into the API
package module

import (
	"moodmeter/internal/modkit"
	"moodmeter/internal/modkit/httpkit"
	"moodmeter/internal/platform/net/middleware"
	ledgerhttp "moodmeter/internal/services/api/ledger/http"
	ledgerdom "moodmeter/internal/services/ledger/domain"

	"github.com/jonboulle/clockwork"
)

// Ports required by the ledger API module
type Ports struct {
	Reader ledgerdom.ReaderPort
	Clock  clockwork.Clock
}

// Module implements modkit.Module
type Module struct {
	b     modkit.Built
	ports Ports
}

// New constructs the ledger API module, WithPorts(Ports) is required
func New(_ modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("ledger-api"),
		modkit.WithPrefix("/ledger"),
		// listings change with every analysis
		modkit.WithMiddlewares(middleware.NoCache()),
	}, opts...)...)

	ports, ok := b.Ports.(Ports)
	if !ok || ports.Reader == nil {
		panic("ledger api module: expected WithPorts(api/ledger/module.Ports) with a Reader")
	}
	return &Module{b: b, ports: ports}
}

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) {
		ledgerhttp.Register(rr, ledgerhttp.Deps{Reader: m.ports.Reader, Clock: m.ports.Clock})
	})
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.b.Name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return nil }
