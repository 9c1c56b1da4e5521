// Package module defines the minimal module contract and the registry of mounted modules
package module

import (
	phttp "moodmeter/internal/platform/net/http"
)

// Module is the contract the composition root mounts
// kept as a sibling of modkit so a module package can export its own ports type without an import cycle
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
