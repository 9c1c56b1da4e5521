package http

import (
	"context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	phttp "moodmeter/internal/platform/net/http"
	"moodmeter/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

type stubClassifier struct{ err error }

func (s stubClassifier) Name() string { return "vader" }
func (s stubClassifier) Ready() error { return s.err }

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func serve(d Deps) stdhttp.Handler {
	mux := chi.NewRouter()
	phttp.AdaptChi(mux).Route("/meta", func(r phttp.Router) { Register(r, d) })
	return mux
}

func readyBody(t *testing.T, h stdhttp.Handler) (int, ReadyResponse) {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(stdhttp.MethodGet, "/meta/ready", nil))
	var env struct {
		Data ReadyResponse `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v body=%s", err, rr.Body.String())
	}
	return rr.Code, env.Data
}

func TestReady(t *testing.T) {
	cases := []struct {
		name    string
		deps    Deps
		status  int
		overall string
	}{
		{"ready without stores", Deps{Classifier: stubClassifier{}}, 200, "ok"},
		{"store down degrades", Deps{Classifier: stubClassifier{}, PG: stubPinger{err: errors.New("refused")}}, 200, "degraded"},
		{"classifier pending", Deps{Classifier: stubClassifier{err: errors.New("classifier pending")}, PG: stubPinger{}}, 503, "fail"},
		{"classifier missing", Deps{}, 503, "fail"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := readyBody(t, serve(tc.deps))
			if code != tc.status || body.Status != tc.overall {
				t.Fatalf("got %d %q, want %d %q", code, body.Status, tc.status, tc.overall)
			}
			if len(body.Checks) != 3 || body.Checks[0].Name != "classifier" {
				t.Fatalf("checks = %+v", body.Checks)
			}
		})
	}
}

func TestHealthAndClassifier(t *testing.T) {
	h := serve(Deps{ServiceName: "moodmeter-api", StartedAt: time.Now(), Classifier: stubClassifier{}})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(stdhttp.MethodGet, "/meta/health", nil))
	var health struct {
		Data HealthResponse `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &health); err != nil || !health.Data.OK || health.Data.Service != "moodmeter-api" {
		t.Fatalf("health = %+v, %v", health.Data, err)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(stdhttp.MethodGet, "/meta/classifier", nil))
	var cls struct {
		Data ClassifierResponse `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &cls); err != nil || !cls.Data.Ready || cls.Data.Backend != "vader" {
		t.Fatalf("classifier = %+v, %v", cls.Data, err)
	}
}

func TestService_ListsModules(t *testing.T) {
	h := serve(Deps{ServiceName: "moodmeter-api", StartedAt: time.Now(), Modules: func() []string { return []string{"meta", "sentiment"} }})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(stdhttp.MethodGet, "/meta/service", nil))
	env := testkit.MustDecode[struct {
		Data ServiceResponse `json:"data"`
	}](t, rr.Body.Bytes())
	if len(env.Data.Modules) != 2 || env.Data.Modules[1] != "sentiment" {
		t.Fatalf("service = %+v", env.Data)
	}

	rr = httptest.NewRecorder()
	serve(Deps{}).ServeHTTP(rr, httptest.NewRequest(stdhttp.MethodGet, "/meta/service", nil))
	testkit.MustContain(t, rr.Body.String(), `"modules":[]`)
}
