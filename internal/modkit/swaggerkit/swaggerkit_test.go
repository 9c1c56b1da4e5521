package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "moodmeter/internal/platform/net/http"
	"moodmeter/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

func fetchDoc(t *testing.T, mux http.Handler) (int, map[string]any) {
	t.Helper()
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rr.Code != http.StatusOK {
		return rr.Code, nil
	}
	var spec map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &spec); err != nil {
		t.Fatalf("doc is not json: %v", err)
	}
	return rr.Code, spec
}

func TestMount_Disabled(t *testing.T) {
	mux := chi.NewRouter()
	Mount(phttp.AdaptChi(mux), false)
	if code, _ := fetchDoc(t, mux); code != http.StatusNotFound {
		t.Fatalf("disabled docs should 404, got %d", code)
	}
}

func TestServeDocJSON_Decorates(t *testing.T) {
	testkit.Serial(t)
	t.Setenv("CORE_API_DOCS_TITLE_SUFFIX", "(staging)")

	mux := chi.NewRouter()
	Mount(phttp.AdaptChi(mux), true)

	code, spec := fetchDoc(t, mux)
	if code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if spec["openapi"] != "3.0.3" {
		t.Fatalf("openapi = %v", spec["openapi"])
	}
	info := spec["info"].(map[string]any)
	if info["title"] != "moodmeter API (staging)" {
		t.Fatalf("title = %v", info["title"])
	}
	schemas := spec["components"].(map[string]any)["schemas"].(map[string]any)
	if _, ok := schemas["ErrorResponse"]; !ok {
		t.Fatal("ErrorResponse schema not injected")
	}
	if _, ok := schemas["AnalysisResult"]; !ok {
		t.Fatal("document schemas lost")
	}
	op := spec["paths"].(map[string]any)["/api/v1/sentiment/analyze"].(map[string]any)["post"].(map[string]any)
	resps := op["responses"].(map[string]any)
	for _, code := range []string{"200", "400", "500", "503"} {
		if _, ok := resps[code]; !ok {
			t.Fatalf("missing %s response", code)
		}
	}

	legacy := spec["paths"].(map[string]any)["/analyze"].(map[string]any)["post"].(map[string]any)["responses"].(map[string]any)
	ref := legacy["500"].(map[string]any)["content"].(map[string]any)["application/json"].(map[string]any)["schema"].(map[string]any)["$ref"]
	if ref != "#/components/schemas/LegacyError" {
		t.Fatalf("legacy 500 schema = %v", ref)
	}

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/docs", nil))
	if rr.Code != http.StatusPermanentRedirect || rr.Header().Get("Location") != DocsPath+"/index.html" {
		t.Fatalf("redirect = %d %q", rr.Code, rr.Header().Get("Location"))
	}
}

func TestRegister_MutatorRuns(t *testing.T) {
	testkit.Serial(t)
	prev := snapshot()
	t.Cleanup(func() {
		mu.Lock()
		mutators = prev
		mu.Unlock()
	})

	Register(nil)
	Register(func(spec map[string]any) {
		delete(spec["paths"].(map[string]any), "/api/v1/ledger/recent")
	})

	mux := chi.NewRouter()
	Mount(phttp.AdaptChi(mux), true)
	_, spec := fetchDoc(t, mux)
	if _, ok := spec["paths"].(map[string]any)["/api/v1/ledger/recent"]; ok {
		t.Fatal("mutator did not run")
	}
}

func TestServeDocJSON_BadDocument(t *testing.T) {
	testkit.Serial(t)
	testkit.Swap(t, &docReader, func() string { return "{not json" })

	mux := chi.NewRouter()
	Mount(phttp.AdaptChi(mux), true)
	if code, _ := fetchDoc(t, mux); code != http.StatusInternalServerError {
		t.Fatalf("status %d", code)
	}
}

func TestEnsureErrorSchemas_EmptyDocument(t *testing.T) {
	spec := map[string]any{"paths": map[string]any{
		"/":               map[string]any{"get": map[string]any{}},
		"/api/v1/meta/ok": map[string]any{"get": map[string]any{"responses": map[string]any{"400": "kept"}}},
	}}
	ensureErrorSchemas(spec)
	addDefaultErrors(spec)

	schemas := spec["components"].(map[string]any)["schemas"].(map[string]any)
	if _, ok := schemas["LegacyError"]; !ok {
		t.Fatal("LegacyError not injected")
	}
	v1 := spec["paths"].(map[string]any)["/api/v1/meta/ok"].(map[string]any)["get"].(map[string]any)["responses"].(map[string]any)
	if v1["400"] != "kept" {
		t.Fatalf("documented response overwritten: %v", v1["400"])
	}
	root := spec["paths"].(map[string]any)["/"].(map[string]any)["get"].(map[string]any)["responses"].(map[string]any)
	if len(root) != 2 {
		t.Fatalf("root responses = %v", root)
	}
}

func TestEnsureServers_LiftsSwagger2(t *testing.T) {
	spec := map[string]any{"swagger": "2.0"}
	ensureServers(spec, "/")
	if spec["openapi"] != "3.0.3" {
		t.Fatalf("openapi = %v", spec["openapi"])
	}
	if _, ok := spec["swagger"]; ok {
		t.Fatal("swagger key should be removed")
	}
	if _, ok := spec["servers"]; !ok {
		t.Fatal("servers missing")
	}
}
