package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"moodmeter/internal/core/langhint"
	"moodmeter/internal/core/sentiment"
	perr "moodmeter/internal/platform/errors"
	"moodmeter/internal/platform/metrics"
	"moodmeter/internal/platform/testkit"
	dom "moodmeter/internal/services/arbiter/domain"
	ledgerdom "moodmeter/internal/services/ledger/domain"
	transdom "moodmeter/internal/services/translation/domain"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeClassifier struct {
	mu       sync.Mutex
	notReady error
	verdicts map[string]sentiment.Verdict
	errs     map[string]error
	calls    []string
}

func (f *fakeClassifier) Name() string { return "fake" }
func (f *fakeClassifier) Ready() error { return f.notReady }

func (f *fakeClassifier) Ping(context.Context) error { return f.notReady }

func (f *fakeClassifier) Classify(_ context.Context, text string) (sentiment.Verdict, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, text)
	if err := f.errs[text]; err != nil {
		return nil, err
	}
	v, ok := f.verdicts[text]
	if !ok {
		return sentiment.Verdict{{Token: "neutral", Score: 0.5}}, nil
	}
	return v, nil
}

func (f *fakeClassifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeInvoker struct {
	mu    sync.Mutex
	fn    func(text string) transdom.Outcome
	calls int
}

func (f *fakeInvoker) Translate(_ context.Context, text string) transdom.Outcome {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.fn == nil {
		return transdom.Failed(transdom.ReasonDisabled, nil)
	}
	return f.fn(text)
}

func translatesTo(s string) *fakeInvoker {
	return &fakeInvoker{fn: func(string) transdom.Outcome {
		return transdom.Outcome{Text: s, Reason: transdom.ReasonOK}
	}}
}

type fakeDetector struct {
	lang langhint.Language
	err  error
}

func (f fakeDetector) Detect(string) (langhint.Language, error) { return f.lang, f.err }

type fakeRecorder struct {
	mu  sync.Mutex
	obs []ledgerdom.Observation
}

func (f *fakeRecorder) Record(o ledgerdom.Observation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.obs = append(f.obs, o)
}

func newSvc(cls *fakeClassifier, tr *fakeInvoker, det dom.LanguageDetector, rec ledgerdom.RecorderPort) (*Service, *metrics.Metrics) {
	met := metrics.New()
	p := dom.Ports{Classifier: cls, Translator: tr, Detector: det}
	if rec != nil {
		p.Ledger = rec
	}
	return New(p, Config{BatchWorkers: 2}, clockwork.NewFakeClock(), nil, met), met
}

func TestAnalyze_ConfidentRawSkipsTranslation(t *testing.T) {
	text := "I absolutely love this!"
	cls := &fakeClassifier{verdicts: map[string]sentiment.Verdict{
		text: {{Token: "negative", Score: 0.01}, {Token: "positive", Score: 0.97}, {Token: "neutral", Score: 0.02}},
	}}
	tr := translatesTo("should not be used")
	svc, met := newSvc(cls, tr, fakeDetector{lang: langhint.Language{Code: "en", Name: "English"}}, nil)

	res, err := svc.Analyze(context.Background(), text)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.Label != sentiment.Positive || res.Score != 0.97 || res.Emoji != "😊" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Translation != nil || res.Comparison.Translated != nil {
		t.Fatalf("translation must be absent: %+v", res)
	}
	if tr.calls != 0 {
		t.Fatalf("translator called %d times", tr.calls)
	}
	if res.Comparison.Raw != (sentiment.Detail{Label: sentiment.Positive, Score: 0.97}) {
		t.Fatalf("raw comparison = %+v", res.Comparison.Raw)
	}
	if res.Details[0].Label != sentiment.Positive || len(res.Details) != 3 {
		t.Fatalf("details = %+v", res.Details)
	}
	if res.Language != "en" || res.LanguageName != "English" {
		t.Fatalf("language = %s/%s", res.Language, res.LanguageName)
	}
	if got := testutil.ToFloat64(met.GateSkipsTotal); got != 1 {
		t.Fatalf("gate skips = %v", got)
	}
}

func TestAnalyze_TranslatedVerdictWins(t *testing.T) {
	text, translated := "Esto es terrible", "This is terrible"
	cls := &fakeClassifier{verdicts: map[string]sentiment.Verdict{
		text:       {{Token: "LABEL_0", Score: 0.60}, {Token: "LABEL_1", Score: 0.30}, {Token: "LABEL_2", Score: 0.10}},
		translated: {{Token: "LABEL_1", Score: 0.008}, {Token: "LABEL_0", Score: 0.99}, {Token: "LABEL_2", Score: 0.002}},
	}}
	rec := &fakeRecorder{}
	svc, met := newSvc(cls, translatesTo(translated), fakeDetector{lang: langhint.Language{Code: "es", Name: "Spanish"}}, rec)

	res, err := svc.Analyze(context.Background(), text)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.Label != sentiment.Negative || res.Score != 0.99 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Translation == nil || *res.Translation != translated {
		t.Fatalf("translation = %v", res.Translation)
	}
	tr := res.Comparison.Translated
	if tr == nil || tr.Label != sentiment.Negative || tr.Score != 0.99 || tr.Text != translated {
		t.Fatalf("translated comparison = %+v", tr)
	}
	if res.Comparison.Raw.Score != 0.60 {
		t.Fatalf("raw comparison = %+v", res.Comparison.Raw)
	}
	// details come from the translated verdict only, sorted
	if len(res.Details) != 3 || res.Details[0].Score != 0.99 || res.Details[2].Score != 0.002 {
		t.Fatalf("details = %+v", res.Details)
	}
	if got := testutil.ToFloat64(met.WinnerTotal.WithLabelValues("translated")); got != 1 {
		t.Fatalf("winner counter = %v", got)
	}

	if len(rec.obs) != 1 {
		t.Fatalf("recorded %d observations", len(rec.obs))
	}
	o := rec.obs[0]
	if o.Winner != ledgerdom.WinnerTranslated || !o.Translated || o.RawScore != 0.60 || o.Language != "es" {
		t.Fatalf("observation = %+v", o)
	}
}

func TestAnalyze_TranslatorTimeoutDegrades(t *testing.T) {
	text := "Das ist schlecht"
	cls := &fakeClassifier{verdicts: map[string]sentiment.Verdict{
		text: {{Token: "negative", Score: 0.55}, {Token: "neutral", Score: 0.45}},
	}}
	tr := &fakeInvoker{fn: func(string) transdom.Outcome {
		return transdom.Failed(transdom.ReasonTimeout, context.DeadlineExceeded)
	}}
	svc, _ := newSvc(cls, tr, nil, nil)

	res, err := svc.Analyze(context.Background(), text)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.Translation != nil || res.Comparison.Translated != nil {
		t.Fatalf("expected raw-only path: %+v", res)
	}
	if res.Label != sentiment.Negative || res.Score != 0.55 {
		t.Fatalf("unexpected result %+v", res)
	}
	if cls.callCount() != 1 {
		t.Fatalf("classifier calls = %d", cls.callCount())
	}
	if res.Language != "unknown" || res.LanguageName != "Unknown" {
		t.Fatalf("language = %s/%s", res.Language, res.LanguageName)
	}
}

func TestAnalyze_UnknownTokenIsNeutral(t *testing.T) {
	text := "???"
	cls := &fakeClassifier{verdicts: map[string]sentiment.Verdict{text: {{Token: "LABEL_5", Score: 0.80}}}}
	svc, _ := newSvc(cls, &fakeInvoker{}, nil, nil)

	res, err := svc.Analyze(context.Background(), text)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(res.Details) != 1 || res.Details[0] != (sentiment.Detail{Label: sentiment.Neutral, Score: 0.80}) {
		t.Fatalf("details = %+v", res.Details)
	}
	if res.Emoji != "😐" {
		t.Fatalf("emoji = %q", res.Emoji)
	}
}

func TestAnalyze_NotReadyRejectsBeforeWork(t *testing.T) {
	cls := &fakeClassifier{notReady: perr.New(perr.ErrorCodeUnavailable, "classifier pending")}
	tr := translatesTo("x")
	rec := &fakeRecorder{}
	svc, met := newSvc(cls, tr, fakeDetector{lang: langhint.Language{Code: "es", Name: "Spanish"}}, rec)

	_, err := svc.Analyze(context.Background(), "hola")
	if perr.CodeOf(err) != perr.ErrorCodeUnavailable {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if cls.callCount() != 0 || tr.calls != 0 || len(rec.obs) != 0 {
		t.Fatalf("work done while not ready: cls=%d tr=%d rec=%d", cls.callCount(), tr.calls, len(rec.obs))
	}
	if got := testutil.ToFloat64(met.AnalysesTotal.WithLabelValues("unavailable")); got != 1 {
		t.Fatalf("unavailable counter = %v", got)
	}

	if _, err := svc.AnalyzeBatch(context.Background(), []string{"a", "b"}); perr.CodeOf(err) != perr.ErrorCodeUnavailable {
		t.Fatalf("batch expected unavailable, got %v", err)
	}
}

func TestAnalyze_TieKeepsRaw(t *testing.T) {
	text, translated := "Ça va", "It's fine"
	cls := &fakeClassifier{verdicts: map[string]sentiment.Verdict{
		text:       {{Token: "neutral", Score: 0.70}, {Token: "positive", Score: 0.30}},
		translated: {{Token: "positive", Score: 0.70}, {Token: "neutral", Score: 0.30}},
	}}
	svc, _ := newSvc(cls, translatesTo(translated), nil, nil)

	res, err := svc.Analyze(context.Background(), text)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.Label != sentiment.Neutral || res.Score != 0.70 {
		t.Fatalf("tie should keep raw: %+v", res)
	}
	if res.Translation == nil || res.Comparison.Translated == nil {
		t.Fatal("translation and comparison must be kept when raw wins")
	}
	if res.Comparison.Translated.Label != sentiment.Positive {
		t.Fatalf("translated comparison = %+v", res.Comparison.Translated)
	}
}

func TestAnalyze_LowerTranslatedScoreKeepsRaw(t *testing.T) {
	text, translated := "Bof", "Meh"
	cls := &fakeClassifier{verdicts: map[string]sentiment.Verdict{
		text:       {{Token: "negative", Score: 0.80}, {Token: "neutral", Score: 0.20}},
		translated: {{Token: "neutral", Score: 0.60}, {Token: "negative", Score: 0.40}},
	}}
	svc, _ := newSvc(cls, translatesTo(translated), nil, nil)

	res, _ := svc.Analyze(context.Background(), text)
	if res.Label != sentiment.Negative || res.Details[0].Score != 0.80 {
		t.Fatalf("raw should win: %+v", res)
	}
}

func TestAnalyze_NoopTranslationSkipsSecondPass(t *testing.T) {
	text := "  This is fine "
	cls := &fakeClassifier{verdicts: map[string]sentiment.Verdict{
		text: {{Token: "positive", Score: 0.6}, {Token: "neutral", Score: 0.4}},
	}}
	svc, _ := newSvc(cls, translatesTo("this is FINE"), nil, nil)

	res, err := svc.Analyze(context.Background(), text)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if cls.callCount() != 1 {
		t.Fatalf("second classification ran, calls = %d", cls.callCount())
	}
	if res.Translation != nil || res.Comparison.Translated != nil {
		t.Fatalf("no-op translation must be dropped: %+v", res)
	}
}

func TestAnalyze_SecondClassificationFailureDegrades(t *testing.T) {
	text, translated := "Hmm", "Hm"
	cls := &fakeClassifier{
		verdicts: map[string]sentiment.Verdict{text: {{Token: "neutral", Score: 0.5}, {Token: "positive", Score: 0.5}}},
		errs:     map[string]error{translated: errors.New("backend hiccup")},
	}
	svc, _ := newSvc(cls, translatesTo(translated), nil, nil)

	res, err := svc.Analyze(context.Background(), text)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.Translation == nil || *res.Translation != translated {
		t.Fatalf("translation should be retained: %v", res.Translation)
	}
	if res.Comparison.Translated != nil {
		t.Fatal("comparison.translated must be absent when the second pass failed")
	}
	if res.Label != sentiment.Neutral {
		t.Fatalf("label = %s", res.Label)
	}
}

func TestAnalyze_ClassifierFailureIsFatal(t *testing.T) {
	text := "boom"
	cls := &fakeClassifier{errs: map[string]error{text: perr.New(perr.ErrorCodeUnknown, "inference crashed")}}
	rec := &fakeRecorder{}
	tr := translatesTo("x")
	svc, met := newSvc(cls, tr, nil, rec)

	_, err := svc.Analyze(context.Background(), text)
	if err == nil || perr.HTTPStatus(err) != 500 {
		t.Fatalf("expected 500 error, got %v", err)
	}
	if tr.calls != 0 || len(rec.obs) != 0 {
		t.Fatal("no translation or ledger entry on fatal failure")
	}
	if got := testutil.ToFloat64(met.AnalysesTotal.WithLabelValues("error")); got != 1 {
		t.Fatalf("error counter = %v", got)
	}
}

func TestAnalyze_DetectorFailureAndPanicDegrade(t *testing.T) {
	cls := &fakeClassifier{}
	svc, _ := newSvc(cls, &fakeInvoker{}, fakeDetector{err: langhint.ErrUndetermined}, nil)
	res, err := svc.Analyze(context.Background(), "x")
	if err != nil || res.Language != "unknown" {
		t.Fatalf("res=%+v err=%v", res, err)
	}

	svc, _ = newSvc(cls, &fakeInvoker{}, panicky{}, nil)
	testkit.MustNotPanic(t, func() {
		res, err = svc.Analyze(context.Background(), "x")
	})
	if err != nil || res.LanguageName != "Unknown" {
		t.Fatalf("res=%+v err=%v", res, err)
	}
}

type panicky struct{}

func (panicky) Detect(string) (langhint.Language, error) { panic("detector bug") }

func TestAnalyze_ScoreAndLabelInvariants(t *testing.T) {
	tokens := []string{"LABEL_0", "LABEL_1", "LABEL_2", "pos", "neg", "weird", "5 stars"}
	for i, tok := range tokens {
		for _, score := range []float64{0, 0.3, 0.95, 0.951, 1} {
			text := fmt.Sprintf("t%d-%v", i, score)
			en := "EN:" + text
			cls := &fakeClassifier{verdicts: map[string]sentiment.Verdict{
				text: {{Token: tok, Score: score}},
				en:   {{Token: "LABEL_2", Score: 0.99}},
			}}
			tr := &fakeInvoker{fn: func(s string) transdom.Outcome {
				return transdom.Outcome{Text: "EN:" + s, Reason: transdom.ReasonOK}
			}}
			svc, _ := newSvc(cls, tr, nil, nil)
			res, err := svc.Analyze(context.Background(), text)
			if err != nil {
				t.Fatalf("%s: %v", text, err)
			}
			if res.Score < 0 || res.Score > 1 || !res.Label.Valid() {
				t.Fatalf("%s: invariant broken %+v", text, res)
			}
			if score > sentiment.SkipThreshold && tr.calls != 0 {
				t.Fatalf("%s: translation attempted above threshold", text)
			}
		}
	}
}

func TestAnalyze_ResponseShape(t *testing.T) {
	text := "I absolutely love this!"
	cls := &fakeClassifier{verdicts: map[string]sentiment.Verdict{text: {{Token: "positive", Score: 0.97}}}}
	svc, _ := newSvc(cls, &fakeInvoker{}, nil, nil)
	res, _ := svc.Analyze(context.Background(), text)

	b, err := json.Marshal(res)
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	for _, want := range []string{`"translation":null`, `"comparison_details":{"raw":{"label":"positive","score":0.97}}`, `"language_name":"Unknown"`} {
		testkit.MustContain(t, s, want)
	}
	if strings.Contains(s, `"translated"`) {
		t.Fatalf("translated must be omitted: %s", s)
	}
}

func TestAnalyzeBatch_OrderAndPerItemErrors(t *testing.T) {
	cls := &fakeClassifier{
		verdicts: map[string]sentiment.Verdict{
			"good": {{Token: "positive", Score: 0.99}},
			"bad":  {{Token: "negative", Score: 0.99}},
		},
		errs: map[string]error{"broken": errors.New("nope")},
	}
	svc, _ := newSvc(cls, &fakeInvoker{}, nil, nil)

	texts := []string{"good", "broken", "bad", "good"}
	items, err := svc.AnalyzeBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(items) != len(texts) {
		t.Fatalf("items = %d", len(items))
	}
	for i, it := range items {
		if it.Index != i {
			t.Fatalf("item %d has index %d", i, it.Index)
		}
	}
	if items[0].Result.Label != sentiment.Positive || items[2].Result.Label != sentiment.Negative || items[3].Result.Label != sentiment.Positive {
		t.Fatalf("order broken: %+v", items)
	}
	if items[1].Error == nil || items[1].Result != nil {
		t.Fatalf("item 1 should carry an error: %+v", items[1])
	}
	testkit.MustContain(t, items[1].Error.Message, "nope")
}

func TestAnalyze_ElapsedFromClock(t *testing.T) {
	fc := clockwork.NewFakeClock()
	text := "slow one"
	cls := &fakeClassifier{verdicts: map[string]sentiment.Verdict{text: {{Token: "positive", Score: 0.99}}}}
	rec := &fakeRecorder{}
	svc := New(dom.Ports{Classifier: &advancingClassifier{fakeClassifier: cls, clock: fc}, Translator: &fakeInvoker{}, Ledger: rec},
		Config{}, fc, nil, nil)

	if _, err := svc.Analyze(context.Background(), text); err != nil {
		t.Fatal(err)
	}
	if len(rec.obs) != 1 || rec.obs[0].Elapsed != 250*time.Millisecond {
		t.Fatalf("observation = %+v", rec.obs)
	}
}

type advancingClassifier struct {
	*fakeClassifier
	clock *clockwork.FakeClock
}

func (a *advancingClassifier) Classify(ctx context.Context, text string) (sentiment.Verdict, error) {
	a.clock.Advance(250 * time.Millisecond)
	return a.fakeClassifier.Classify(ctx, text)
}

func TestNew_MissingPortsPanics(t *testing.T) {
	testkit.MustPanic(t, func() { New(dom.Ports{}, Config{}, nil, nil, nil) })
}
