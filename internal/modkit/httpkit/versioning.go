package httpkit

import (
	"net/http"
	"strings"
)

// MountUnder mounts a subrouter at prefix with its own middleware
func MountUnder(r Router, prefix string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route(prefix, func(sub Router) {
		if len(mw) > 0 {
			sub.Use(mw...)
		}
		mount(sub)
	})
}

// MountAPI mounts the modules of one API version under /api/{version}
//
//	httpkit.MountAPIV1(r, nil, func(api httpkit.Router) {
//	  sentiment.MountRoutes(api)
//	})
func MountAPI(r Router, version string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountUnder(r, "/api/"+strings.Trim(version, "/"), mw, mount)
}

// MountAPIV1 mounts under /api/v1, the only version served today
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountAPI(r, "v1", mw, mount)
}
