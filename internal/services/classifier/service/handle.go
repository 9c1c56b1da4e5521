// Package service implements the classifier handle
package service

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"moodmeter/internal/core/sentiment"
	perr "moodmeter/internal/platform/errors"
	"moodmeter/internal/platform/logger"
	"moodmeter/internal/platform/metrics"
	"moodmeter/internal/services/classifier/domain"

	"golang.org/x/sync/semaphore"
)

// WarmupText is classified once during init when warm-up is enabled
const WarmupText = "moodmeter warm-up probe"

// Config for the classifier handle
type Config struct {
	MaxInflight int64
	Timeout     time.Duration // 0 = unbounded
	Warmup      bool
}

// Handle owns the backend for the life of the process
// it is built once at the composition root and shared read-only by every request
type Handle struct {
	backend domain.Classifier
	cfg     Config
	sem     *semaphore.Weighted
	log     *logger.Logger
	met     *metrics.Metrics

	state   atomic.Int32
	once    sync.Once
	done    chan struct{}
	mu      sync.Mutex
	initErr error
}

// New constructs a pending Handle
func New(backend domain.Classifier, cfg Config, log *logger.Logger, met *metrics.Metrics) *Handle {
	if backend == nil {
		panic("classifier: nil backend")
	}
	if cfg.MaxInflight <= 0 {
		cfg.MaxInflight = 8
	}
	if log == nil {
		log = logger.Named("classifier")
	}
	h := &Handle{
		backend: backend,
		cfg:     cfg,
		sem:     semaphore.NewWeighted(cfg.MaxInflight),
		log:     log,
		met:     met,
		done:    make(chan struct{}),
	}
	met.SetClassifierReady(false)
	return h
}

// Name reports the backend name
func (h *Handle) Name() string { return h.backend.Name() }

// State returns the current lifecycle state
func (h *Handle) State() domain.State { return domain.State(h.state.Load()) }

// Start runs Init in the background
func (h *Handle) Start(ctx context.Context) {
	go func() { _ = h.Init(ctx) }()
}

// Init brings the backend up once; later calls return the first result
func (h *Handle) Init(ctx context.Context) error {
	h.once.Do(func() {
		defer close(h.done)
		start := time.Now()

		err := h.warmup(ctx)

		h.mu.Lock()
		h.initErr = err
		h.mu.Unlock()

		if err != nil {
			h.state.CompareAndSwap(int32(domain.StatePending), int32(domain.StateFailed))
			h.log.Error().Err(err).Str("backend", h.Name()).Msg("classifier init failed")
			return
		}
		if h.state.CompareAndSwap(int32(domain.StatePending), int32(domain.StateReady)) {
			h.met.SetClassifierReady(true)
			h.log.Info().
				Str("backend", h.Name()).
				Dur("elapsed", time.Since(start)).
				Msg("classifier ready")
		}
	})
	return h.err()
}

func (h *Handle) warmup(ctx context.Context) error {
	if !h.cfg.Warmup {
		return nil
	}
	v, err := h.backend.Classify(ctx, WarmupText)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "classifier warm-up")
	}
	if err := v.Validate(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "classifier warm-up")
	}
	return nil
}

func (h *Handle) err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.initErr
}

// Wait blocks until Init has finished or ctx is done
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ready returns nil only when the handle accepts classifications
func (h *Handle) Ready() error {
	switch st := h.State(); st {
	case domain.StateReady:
		return nil
	case domain.StateFailed:
		return perr.Wrap(h.err(), perr.ErrorCodeUnavailable, "classifier unavailable")
	default:
		return perr.Newf(perr.ErrorCodeUnavailable, "classifier %s", st)
	}
}

// Ping satisfies readiness probes
func (h *Handle) Ping(_ context.Context) error { return h.Ready() }

// Classify runs the backend under the in-flight bound and optional timeout
// backend errors surface as unavailable or internal, nothing else
func (h *Handle) Classify(ctx context.Context, text string) (sentiment.Verdict, error) {
	if err := h.Ready(); err != nil {
		return nil, err
	}
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "classifier slot")
	}
	defer h.sem.Release(1)

	if h.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.Timeout)
		defer cancel()
	}

	finish := h.met.ClassifierCall(h.Name())
	v, err := h.backend.Classify(ctx, text)
	finish()
	if err != nil {
		return nil, perr.Wrapf(err, perr.Fold(err, perr.ErrorCodeUnavailable), "classify (%s)", h.Name())
	}
	if err := v.Validate(); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "classify (%s)", h.Name())
	}
	return v, nil
}

// Close releases the backend, further calls are rejected
func (h *Handle) Close() error {
	prev := domain.State(h.state.Swap(int32(domain.StateClosed)))
	if prev == domain.StateClosed {
		return nil
	}
	h.met.SetClassifierReady(false)
	h.log.Info().Str("backend", h.Name()).Str("from", prev.String()).Msg("classifier closed")
	if c, ok := h.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
