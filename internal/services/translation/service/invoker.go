// Package service implements the translation invoker
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"moodmeter/internal/adapters/upstream"
	"moodmeter/internal/platform/logger"
	"moodmeter/internal/platform/metrics"
	"moodmeter/internal/services/translation/domain"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const (
	// SourceAuto asks the collaborator to detect the source language
	SourceAuto = "auto"
	// TargetEnglish is the only target the arbiter asks for
	TargetEnglish = "en"
)

// Config for the invoker
type Config struct {
	Timeout         time.Duration
	RPS             float64 // 0 = unlimited
	Burst           int
	BreakerFailures uint32 // 0 disables the breaker
	BreakerCooldown time.Duration
}

// Invoker implements domain.InvokerPort
type Invoker struct {
	backend domain.Translator
	cfg     Config
	cb      *gobreaker.CircuitBreaker
	lim     *rate.Limiter
	log     *logger.Logger
	met     *metrics.Metrics
}

// New constructs an Invoker, a nil backend disables translation
func New(backend domain.Translator, cfg Config, log *logger.Logger, met *metrics.Metrics) *Invoker {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if log == nil {
		log = logger.Named("translation")
	}
	inv := &Invoker{backend: backend, cfg: cfg, log: log, met: met}
	if backend == nil {
		return inv
	}
	if cfg.RPS > 0 {
		inv.lim = rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst)
	}
	if cfg.BreakerFailures > 0 {
		inv.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "translation/" + backend.Name(),
			MaxRequests: 1,
			Timeout:     cfg.BreakerCooldown,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= cfg.BreakerFailures
			},
			IsSuccessful: func(err error) bool {
				// caller cancellation is not an upstream failure
				return err == nil || errors.Is(err, context.Canceled)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				met.Breaker("translation", to.String(), int(to))
				log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("breaker state change")
			},
		})
	}
	return inv
}

// Name reports the backend name, "none" when disabled
func (i *Invoker) Name() string {
	if i.backend == nil {
		return "none"
	}
	return i.backend.Name()
}

// Timeout is the hard deadline applied to every call
func (i *Invoker) Timeout() time.Duration { return i.cfg.Timeout }

// Translate asks the backend for an English rendering of text within the configured timeout
// it never returns an error; a missing result carries its reason instead
func (i *Invoker) Translate(ctx context.Context, text string) domain.Outcome {
	out := i.translate(ctx, text)
	i.met.Translation(string(out.Reason))
	return out
}

func (i *Invoker) translate(ctx context.Context, text string) domain.Outcome {
	if i.backend == nil {
		return domain.Failed(domain.ReasonDisabled, nil)
	}
	if strings.TrimSpace(text) == "" {
		return domain.Failed(domain.ReasonEmpty, nil)
	}
	if err := ctx.Err(); err != nil {
		return domain.Failed(domain.ReasonCanceled, err)
	}
	if i.lim != nil && !i.lim.Allow() {
		return domain.Failed(domain.ReasonRateLimited, nil)
	}

	tctx, cancel := context.WithTimeout(ctx, i.cfg.Timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		s, err := i.call(tctx, text)
		ch <- result{s, err}
	}()

	var r result
	select {
	case r = <-ch:
	case <-tctx.Done():
		// returning cancels tctx, the collaborator call unwinds on its own
		r = result{err: tctx.Err()}
	}

	switch {
	case r.err == nil:
	case errors.Is(r.err, gobreaker.ErrOpenState), errors.Is(r.err, gobreaker.ErrTooManyRequests):
		return domain.Failed(domain.ReasonBreakerOpen, r.err)
	case ctx.Err() != nil:
		return domain.Failed(domain.ReasonCanceled, r.err)
	case errors.Is(r.err, context.DeadlineExceeded):
		return domain.Failed(domain.ReasonTimeout, r.err)
	case upstream.IsRateLimited(r.err):
		return domain.Failed(domain.ReasonRateLimited, r.err)
	default:
		return domain.Failed(domain.ReasonError, r.err)
	}

	if strings.TrimSpace(r.text) == "" {
		return domain.Failed(domain.ReasonEmpty, nil)
	}
	return domain.Outcome{Text: r.text, Reason: domain.ReasonOK}
}

func (i *Invoker) call(ctx context.Context, text string) (string, error) {
	if i.cb == nil {
		return i.backend.Translate(ctx, text, SourceAuto, TargetEnglish)
	}
	v, err := i.cb.Execute(func() (interface{}, error) {
		return i.backend.Translate(ctx, text, SourceAuto, TargetEnglish)
	})
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}
