package http

import (
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"moodmeter/internal/platform/net/http/bind"
)

type echoIn struct {
	Text string `json:"text" validate:"required"`
}

func TestJSONHandler_Success(t *testing.T) {
	h := JSONHandler(bind.JSONOptions{MaxBytes: DefaultMaxBody}, func(_ *stdhttp.Request, in echoIn) (any, error) {
		return map[string]int{"len": len(in.Text)}, nil
	})

	req := httptest.NewRequest(stdhttp.MethodPost, "/x", strings.NewReader(`{"text":"hola","ignored":1}`))
	rr := httptest.NewRecorder()
	h(rr, req)

	if rr.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"len":4`) {
		t.Fatalf("body %q", rr.Body.String())
	}
}

func TestPostJSON_StrictAndValidated(t *testing.T) {
	srv := newTestServer(t)
	PostJSON(srv.Router(), "/x", func(_ *stdhttp.Request, _ echoIn) (any, error) {
		t.Fatal("handler must not run on invalid input")
		return nil, nil
	})

	for _, body := range []string{`{`, `{"text":""}`, `{"text":"a","extra":1}`} {
		rr := httptest.NewRecorder()
		srv.Router().Mux().ServeHTTP(rr, httptest.NewRequest(stdhttp.MethodPost, "/x", strings.NewReader(body)))
		if rr.Code != stdhttp.StatusBadRequest {
			t.Fatalf("body %s: status = %d, want 400", body, rr.Code)
		}
	}
}

func TestPostJSONLimit(t *testing.T) {
	srv := newTestServer(t)
	ok := func(_ *stdhttp.Request, in echoIn) (any, error) { return len(in.Text), nil }
	PostJSONLimit(srv.Router(), "/small", 16, ok)
	PostJSONLimit(srv.Router(), "/default", 0, ok)

	body := `{"text":"` + strings.Repeat("a", 64) + `"}`
	for path, want := range map[string]int{"/small": stdhttp.StatusBadRequest, "/default": stdhttp.StatusOK} {
		rr := httptest.NewRecorder()
		srv.Router().Mux().ServeHTTP(rr, httptest.NewRequest(stdhttp.MethodPost, path, strings.NewReader(body)))
		if rr.Code != want {
			t.Fatalf("%s: status = %d, want %d", path, rr.Code, want)
		}
	}
}
