// Package modkit provides module wiring and core deps
package modkit

import (
	phttp "moodmeter/internal/platform/net/http"
)

// Module is the common surface for API modules that mount routes and expose ports
type Module interface {
	// MountRoutes mounts HTTP routes under the provided router seam
	MountRoutes(r phttp.Router)
	// Ports returns a module specific port set for cross wiring, nil when there is none
	Ports() any
	// Name returns the module name used in logs and the registry
	Name() string
}

// Builder constructs a Module from shared deps and options
type Builder func(Deps, ...Option) Module
