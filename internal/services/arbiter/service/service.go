// Package service implements the dual signal arbiter
package service

import (
	"context"
	"time"

	"moodmeter/internal/core/langhint"
	"moodmeter/internal/core/normalize"
	"moodmeter/internal/core/sentiment"
	perr "moodmeter/internal/platform/errors"
	"moodmeter/internal/platform/logger"
	"moodmeter/internal/platform/metrics"
	str "moodmeter/internal/platform/strings"
	dom "moodmeter/internal/services/arbiter/domain"
	classdom "moodmeter/internal/services/classifier/domain"
	ledgerdom "moodmeter/internal/services/ledger/domain"
	transdom "moodmeter/internal/services/translation/domain"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

// previewRunes bounds how much input text reaches the logs
const previewRunes = 50

// Config for the arbiter
type Config struct {
	BatchWorkers int
}

// Service implements domain.AnalyzerPort
type Service struct {
	cls   classdom.HandlePort
	tr    transdom.InvokerPort
	det   dom.LanguageDetector
	rec   ledgerdom.RecorderPort
	cfg   Config
	clock clockwork.Clock
	log   *logger.Logger
	met   *metrics.Metrics
}

// New constructs the arbiter; Classifier and Translator are required
func New(p dom.Ports, cfg Config, clock clockwork.Clock, log *logger.Logger, met *metrics.Metrics) *Service {
	if p.Classifier == nil || p.Translator == nil {
		panic("arbiter: Ports missing Classifier or Translator")
	}
	if cfg.BatchWorkers <= 0 {
		cfg.BatchWorkers = 4
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = logger.Named("arbiter")
	}
	return &Service{
		cls:   p.Classifier,
		tr:    p.Translator,
		det:   p.Detector,
		rec:   p.Ledger,
		cfg:   cfg,
		clock: clock,
		log:   log,
		met:   met,
	}
}

// run carries the per request state of one analysis
type run struct {
	text    string
	raw     sentiment.Verdict
	rawTop  sentiment.Score
	lang    langhint.Language
	winner  string
	verdict sentiment.Verdict
	result  dom.Result
}

// Analyze classifies text, optionally through an English translation, and picks the stronger verdict
// only a classifier failure fails the request; translation and detection problems degrade to the raw path
func (s *Service) Analyze(ctx context.Context, text string) (dom.Result, error) {
	if err := s.cls.Ready(); err != nil {
		s.met.ObserveAnalysis("unavailable", 0)
		return dom.Result{}, err
	}
	return s.analyze(ctx, text)
}

func (s *Service) analyze(ctx context.Context, text string) (dom.Result, error) {
	start := s.clock.Now()
	l := logger.Scoped(ctx, s.log)

	r, err := s.classifyRaw(ctx, text)
	if err != nil {
		outcome := "error"
		if perr.IsCode(err, perr.ErrorCodeUnavailable) {
			outcome = "unavailable"
		}
		s.met.ObserveAnalysis(outcome, s.clock.Since(start))
		l.Error().Err(err).Str("text", str.Preview(text, previewRunes)).Msg("classification failed")
		return dom.Result{}, err
	}

	r.verdict, r.winner = r.raw, ledgerdom.WinnerRaw
	if sentiment.ShouldSkipTranslation(r.rawTop.Score) {
		s.met.GateSkipped()
		l.Debug().Float64("raw_score", r.rawTop.Score).Msg("confident raw verdict, translation skipped")
	} else {
		s.arbitrate(ctx, l, r)
	}

	s.assemble(r)
	elapsed := s.clock.Since(start)
	s.met.Winner(r.winner)
	s.met.ObserveAnalysis("ok", elapsed)
	l.Debug().
		Str("winner", r.winner).
		Str("label", string(r.result.Label)).
		Float64("score", r.result.Score).
		Str("language", r.lang.Code).
		Dur("elapsed", elapsed).
		Msg("analysis done")

	s.record(r, elapsed, start)
	return r.result, nil
}

// classifyRaw runs the direct classification alongside language detection
func (s *Service) classifyRaw(ctx context.Context, text string) (*run, error) {
	r := &run{text: text, lang: langhint.Unknown}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.cls.Classify(gctx, text)
		if err != nil {
			return err
		}
		r.raw = v.Sorted()
		return nil
	})
	g.Go(func() error {
		r.lang = s.detect(text)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	top, ok := r.raw.Top()
	if !ok {
		return nil, perr.Wrap(sentiment.ErrEmptyVerdict, perr.ErrorCodeUnknown, "classify")
	}
	r.rawTop = top
	return r, nil
}

// detect never fails, undetermined input maps to langhint.Unknown
func (s *Service) detect(text string) (lang langhint.Language) {
	lang = langhint.Unknown
	if s.det == nil {
		return lang
	}
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Warn().Interface("panic", rec).Msg("language detection panicked")
			lang = langhint.Unknown
		}
	}()
	got, err := s.det.Detect(text)
	if err != nil || got.Code == "" {
		return langhint.Unknown
	}
	return got
}

// arbitrate translates and reclassifies, switching the winner only on a strictly higher top score
func (s *Service) arbitrate(ctx context.Context, l *logger.Logger, r *run) {
	out := s.tr.Translate(ctx, r.text)
	if !out.OK() {
		ev := l.Warn()
		if out.Reason == transdom.ReasonDisabled {
			ev = l.Debug()
		}
		ev.Err(out.Err).Str("reason", string(out.Reason)).Msg("translation unavailable, using raw verdict")
		return
	}
	if normalize.Equivalent(out.Text, r.text) {
		l.Debug().Msg("translation is a no-op, using raw verdict")
		return
	}

	translated := out.Text
	r.result.Translation = &translated

	tv, err := s.cls.Classify(ctx, translated)
	if err != nil {
		l.Warn().Err(err).Msg("translated classification failed, using raw verdict")
		return
	}
	tv = tv.Sorted()
	top, ok := tv.Top()
	if !ok {
		l.Warn().Msg("translated classification empty, using raw verdict")
		return
	}

	d := top.Detail()
	r.result.Comparison.Translated = &dom.TranslatedDetail{Label: d.Label, Score: d.Score, Text: translated}

	if top.Score > r.rawTop.Score {
		r.verdict, r.winner = tv, ledgerdom.WinnerTranslated
	}
	l.Debug().
		Float64("raw_score", r.rawTop.Score).
		Float64("translated_score", top.Score).
		Str("winner", r.winner).
		Msg("verdicts compared")
}

// assemble fills the response from the winning verdict
func (s *Service) assemble(r *run) {
	top := r.verdict[0].Detail()
	r.result.Label = top.Label
	r.result.Score = top.Score
	r.result.Emoji = sentiment.Emoji(top.Label)
	r.result.Details = r.verdict.Details()
	r.result.Language = r.lang.Code
	r.result.LanguageName = r.lang.Name
	r.result.Comparison.Raw = r.rawTop.Detail()
}

func (s *Service) record(r *run, elapsed time.Duration, at time.Time) {
	if s.rec == nil {
		return
	}
	s.rec.Record(ledgerdom.Observation{
		Text:       r.text,
		Language:   r.lang.Code,
		Label:      r.result.Label,
		Score:      r.result.Score,
		RawLabel:   r.result.Comparison.Raw.Label,
		RawScore:   r.result.Comparison.Raw.Score,
		Translated: r.result.Comparison.Translated != nil,
		Winner:     r.winner,
		Elapsed:    elapsed,
		At:         at,
	})
}
