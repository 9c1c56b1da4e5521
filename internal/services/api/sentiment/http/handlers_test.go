package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"moodmeter/internal/core/sentiment"
	perr "moodmeter/internal/platform/errors"
	phttp "moodmeter/internal/platform/net/http"
	"moodmeter/internal/platform/testkit"
	"moodmeter/internal/services/api/sentiment/domain"
	arbdom "moodmeter/internal/services/arbiter/domain"

	"github.com/go-chi/chi/v5"
)

type fakeAnalyzer struct {
	err      error
	batchErr error
	gotText  string
	gotBatch []string
}

func (f *fakeAnalyzer) Analyze(_ context.Context, text string) (arbdom.Result, error) {
	f.gotText = text
	if f.err != nil {
		return arbdom.Result{}, f.err
	}
	return arbdom.Result{
		Label:        sentiment.Negative,
		Score:        0.97,
		Emoji:        sentiment.Emoji(sentiment.Negative),
		Details:      []sentiment.Detail{{Label: sentiment.Negative, Score: 0.97}},
		Language:     "es",
		LanguageName: "Spanish",
		Comparison:   arbdom.Comparison{Raw: sentiment.Detail{Label: sentiment.Negative, Score: 0.97}},
	}, nil
}

func (f *fakeAnalyzer) AnalyzeBatch(_ context.Context, texts []string) ([]arbdom.BatchItem, error) {
	f.gotBatch = texts
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	out := make([]arbdom.BatchItem, len(texts))
	for i := range texts {
		res, _ := f.Analyze(context.Background(), texts[i])
		out[i] = arbdom.BatchItem{Index: i, Result: &res}
	}
	return out, nil
}

func serve(a arbdom.AnalyzerPort, batchMax int) stdhttp.Handler {
	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)
	RegisterLegacy(r, a)
	r.Route("/api/v1/sentiment", func(rr phttp.Router) {
		Register(rr, Deps{Analyzer: a, BatchMax: batchMax})
	})
	return mux
}

func do(h stdhttp.Handler, method, path, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rr, req)
	return rr
}

func TestLegacyRoot(t *testing.T) {
	rr := do(serve(&fakeAnalyzer{}, 0), stdhttp.MethodGet, "/", "")
	if rr.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := testkit.MustDecode[map[string]string](t, rr.Body.Bytes())
	if len(body) != 1 || body["message"] != LegacyRunning {
		t.Fatalf("body = %v", body)
	}
}

func TestLegacyAnalyze_BareBody(t *testing.T) {
	a := &fakeAnalyzer{}
	rr := do(serve(a, 0), stdhttp.MethodPost, "/analyze", `{"text":"Esto es terrible","language":"auto","ignored":true}`)
	if rr.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d body=%s", rr.Code, rr.Body.String())
	}
	body := testkit.MustDecode[map[string]any](t, rr.Body.Bytes())
	if _, ok := body["status_code"]; ok {
		t.Fatal("legacy body must not be enveloped")
	}
	if body["label"] != "negative" || body["language"] != "es" {
		t.Fatalf("body = %v", body)
	}
	if v, ok := body["translation"]; !ok || v != nil {
		t.Fatalf("translation should be present and null, got %v", v)
	}
	if a.gotText != "Esto es terrible" {
		t.Fatalf("analyzer got %q", a.gotText)
	}
}

func TestLegacyAnalyze_Errors(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		body      string
		status    int
		wantTrace bool
	}{
		{"not ready", perr.New(perr.ErrorCodeUnavailable, "classifier pending"), `{"text":"x"}`, 503, false},
		{"internal", perr.Wrap(perr.New(perr.ErrorCodeUnknown, "model exploded"), perr.ErrorCodeUnknown, "classify"), `{"text":"x"}`, 500, true},
		{"missing text", nil, `{}`, 400, false},
		{"blank text", nil, `{"text":"   "}`, 400, false},
		{"bad json", nil, `{"text":`, 400, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(serve(&fakeAnalyzer{err: tc.err}, 0), stdhttp.MethodPost, "/analyze", tc.body)
			if rr.Code != tc.status {
				t.Fatalf("status = %d, want %d body=%s", rr.Code, tc.status, rr.Body.String())
			}
			var body struct {
				Detail string   `json:"detail"`
				Trace  []string `json:"trace"`
			}
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Detail == "" {
				t.Fatal("detail missing")
			}
			if (len(body.Trace) > 0) != tc.wantTrace {
				t.Fatalf("trace = %v", body.Trace)
			}
		})
	}
}

func TestV1Analyze_Envelope(t *testing.T) {
	rr := do(serve(&fakeAnalyzer{}, 0), stdhttp.MethodPost, "/api/v1/sentiment/analyze", `{"text":"hola"}`)
	if rr.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d body=%s", rr.Code, rr.Body.String())
	}
	testkit.MustContain(t, rr.Body.String(), `"status_code":200`)
	testkit.MustContain(t, rr.Body.String(), `"comparison_details"`)

	// the versioned route is strict about unknown fields
	rr = do(serve(&fakeAnalyzer{}, 0), stdhttp.MethodPost, "/api/v1/sentiment/analyze", `{"text":"hola","x":1}`)
	if rr.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}

	rr = do(serve(&fakeAnalyzer{err: perr.New(perr.ErrorCodeUnavailable, "pending")}, 0), stdhttp.MethodPost, "/api/v1/sentiment/analyze", `{"text":"hola"}`)
	if rr.Code != stdhttp.StatusServiceUnavailable {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestBatchBodyLimit(t *testing.T) {
	if batchBodyLimit(0) != 0 {
		t.Fatal("no batch max should keep the default limit")
	}
	// 32 texts of 10000 four byte runes do not fit the 1MB default
	if got := batchBodyLimit(32); got < 32*4*domain.MaxTextRunes {
		t.Fatalf("limit %d too small", got)
	}
}

func TestV1Batch(t *testing.T) {
	a := &fakeAnalyzer{}
	h := serve(a, 2)

	rr := do(h, stdhttp.MethodPost, "/api/v1/sentiment/analyze/batch", `{"texts":["a","b"]}`)
	if rr.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d body=%s", rr.Code, rr.Body.String())
	}
	var env struct {
		Data struct {
			Items []arbdom.BatchItem `json:"items"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if len(env.Data.Items) != 2 || env.Data.Items[1].Index != 1 {
		t.Fatalf("items = %+v", env.Data.Items)
	}

	a.gotBatch = nil
	rr = do(h, stdhttp.MethodPost, "/api/v1/sentiment/analyze/batch", `{"texts":["a","b","c"]}`)
	if rr.Code != stdhttp.StatusBadRequest {
		t.Fatalf("over max status = %d", rr.Code)
	}
	if a.gotBatch != nil {
		t.Fatal("analyzer called for an oversized batch")
	}

	rr = do(h, stdhttp.MethodPost, "/api/v1/sentiment/analyze/batch", `{"texts":[]}`)
	if rr.Code != stdhttp.StatusBadRequest {
		t.Fatalf("empty status = %d", rr.Code)
	}

	rr = do(serve(&fakeAnalyzer{batchErr: perr.New(perr.ErrorCodeUnavailable, "pending")}, 2), stdhttp.MethodPost, "/api/v1/sentiment/analyze/batch", `{"texts":["a"]}`)
	if rr.Code != stdhttp.StatusServiceUnavailable {
		t.Fatalf("not ready status = %d", rr.Code)
	}
}
