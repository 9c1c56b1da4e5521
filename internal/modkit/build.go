package modkit

import (
	"net/http"

	phttp "moodmeter/internal/platform/net/http"
	str "moodmeter/internal/platform/strings"
)

// Built is a plain struct with the fields modules care about
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any
}

// Build applies Option funcs to an internal buildCfg and returns a plain struct
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	return Built{
		Name:   c.name,
		Prefix: c.prefix,
		Mw:     append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:  c.ports,
	}
}

// Mount routes a subrouter at the built prefix, applies the module middleware
// and runs own to attach the module's endpoints
func (b Built) Mount(r phttp.Router, own func(phttp.Router)) {
	r.Route(str.MustPrefix(b.Prefix), func(rr phttp.Router) {
		if len(b.Mw) > 0 {
			rr.Use(b.Mw...)
		}
		if own != nil {
			own(rr)
		}
	})
}
