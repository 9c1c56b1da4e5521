package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"moodmeter/internal/platform/config"

	"moodmeter/internal/services/api/docs"
)

// SpecMutator lets modules tweak the parsed document before it is served
type SpecMutator func(map[string]any)

var (
	mu       sync.Mutex
	mutators []SpecMutator
)

// docReader is a seam so tests can inject invalid JSON
var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }

// Register adds a document mutator, modules call it while mounting
func Register(m SpecMutator) {
	if m == nil {
		return
	}
	mu.Lock()
	mutators = append(mutators, m)
	mu.Unlock()
}

func snapshot() []SpecMutator {
	mu.Lock()
	defer mu.Unlock()
	return append([]SpecMutator(nil), mutators...)
}

// serveDocJSON serves swagger JSON and lets modules adjust details
func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := docReader()

		var spec map[string]any
		if err := json.Unmarshal([]byte(raw), &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}

		// paths are absolute, OAS3 base url lives in servers
		ensureServers(spec, "/")

		// optional global tweaks go here
		cfg := config.New().Prefix("CORE_API_")
		if v := cfg.MayString("DOCS_TITLE_SUFFIX", ""); v != "" {
			if info, ok := spec["info"].(map[string]any); ok {
				if title, ok := info["title"].(string); ok {
					info["title"] = title + " " + v
				}
			}
		}

		ensureErrorSchemas(spec)
		addDefaultErrors(spec)

		for _, m := range snapshot() {
			m(spec)
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

// ensureServers makes sure the document is OAS3 and has a servers array
// swagger http ui can't support 3.1 at the moment, so downconvert if needed
func ensureServers(spec map[string]any, url string) {
	// if it's swagger 2, lift to oas3
	if _, hasSwagger := spec["swagger"]; hasSwagger {
		spec["openapi"] = "3.0.3"
		delete(spec, "swagger")
	}

	// if it's already oas3, downsample 3.1 -> 3.0.3
	if v, ok := spec["openapi"].(string); ok {
		if strings.HasPrefix(v, "3.1") {
			spec["openapi"] = "3.0.3"
		}
	} else {
		// no version set at all: pick a sane default
		spec["openapi"] = "3.0.3"
	}

	// ensure servers
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{
			map[string]any{"url": url},
		}
	}
}

// ensureErrorSchemas adds the two error bodies the runtime writes, when the document lacks them
// ErrorResponse is the versioned envelope, LegacyError the bare {detail, trace} of the unversioned routes
func ensureErrorSchemas(spec map[string]any) {
	comps, ok := spec["components"].(map[string]any)
	if !ok {
		comps = map[string]any{}
		spec["components"] = comps
	}
	schemas, ok := comps["schemas"].(map[string]any)
	if !ok {
		schemas = map[string]any{}
		comps["schemas"] = schemas
	}
	trace := map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
	if _, ok := schemas["ErrorResponse"]; !ok {
		schemas["ErrorResponse"] = map[string]any{
			"type":        "object",
			"description": "Standard error response",
			"properties": map[string]any{
				"status_code": map[string]any{"type": "integer", "format": "int32"},
				"status":      map[string]any{"type": "string"},
				"code":        map[string]any{"type": "integer", "format": "int32"},
				"error":       map[string]any{"type": "string"},
				"trace":       trace,
				"request_id":  map[string]any{"type": "string"},
			},
			"required": []any{"status_code", "status"},
		}
	}
	if _, ok := schemas["LegacyError"]; !ok {
		schemas["LegacyError"] = map[string]any{
			"type":        "object",
			"description": "Error body of the unversioned routes",
			"properties": map[string]any{
				"detail": map[string]any{"type": "string"},
				"trace":  trace,
			},
			"required": []any{"detail"},
		}
	}
}

// errorResponse builds a documented response for status with the schema the route family writes
func errorResponse(legacy bool, status int, example string) map[string]any {
	schema, body := "ErrorResponse", map[string]any{
		"status_code": status,
		"status":      http.StatusText(status),
		"error":       example,
		"request_id":  "moodmeter/abc-000001",
	}
	if legacy {
		schema, body = "LegacyError", map[string]any{"detail": example}
	}
	if status >= 500 {
		body["trace"] = []any{example, "upstream returned 502"}
	}
	return map[string]any{
		"description": http.StatusText(status),
		"content": map[string]any{
			"application/json": map[string]any{
				"schema":  map[string]any{"$ref": "#/components/schemas/" + schema},
				"example": body,
			},
		},
	}
}

// addDefaultErrors injects 400 and 500 responses into every operation that does not document them
// paths outside /api/ are the unversioned routes and get the bare legacy body
func addDefaultErrors(spec map[string]any) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	for path, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		legacy := !strings.HasPrefix(path, "/api/")
		defaults := map[string]map[string]any{
			"400": errorResponse(legacy, http.StatusBadRequest, "text is required"),
			"500": errorResponse(legacy, http.StatusInternalServerError, "classify raw text: upstream returned 502"),
		}
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			resps, ok := op["responses"].(map[string]any)
			if !ok {
				resps = map[string]any{}
				op["responses"] = resps
			}
			for code, r := range defaults {
				if _, exists := resps[code]; !exists {
					resps[code] = r
				}
			}
		}
	}
}
