// Package swaggerkit mounts the Swagger UI and serves the OpenAPI document
package swaggerkit

import (
	"net/http"

	phttp "moodmeter/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// DocsPath is where the UI and doc.json live
const DocsPath = "/api/docs"

// Mount serves the UI and the adjusted document under DocsPath when enabled
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	ui := httpSwagger.Handler(
		httpSwagger.InstanceName("moodmeter"),
		httpSwagger.URL(DocsPath+"/doc.json"),
		httpSwagger.DocExpansion("list"),
	)
	r.Route(DocsPath, func(d phttp.Router) {
		d.Get("/", func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, DocsPath+"/index.html", http.StatusPermanentRedirect)
		})
		d.Get("/doc.json", serveDocJSON())
		d.Handle("/*", ui)
	})
}
