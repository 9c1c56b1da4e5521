// Package service implements the verdict ledger writer and reader
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
	"unicode/utf8"

	"moodmeter/internal/platform/logger"
	"moodmeter/internal/platform/metrics"
	"moodmeter/internal/services/ledger/domain"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

var newID = uuid.New // seam

// Sink is a named storage target
type Sink struct {
	Name    string
	Storage domain.Storage
}

// WriterConfig controls buffering and flushing
type WriterConfig struct {
	Buffer       int
	BatchSize    int
	FlushEvery   time.Duration
	WriteTimeout time.Duration
}

// Writer implements domain.RecorderPort
// Record never blocks; a full buffer drops the entry
type Writer struct {
	sinks []Sink
	cfg   WriterConfig
	clock clockwork.Clock
	log   *logger.Logger
	met   *metrics.Metrics

	in   chan domain.Entry
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewWriter constructs a Writer, Run must be started to drain it
func NewWriter(sinks []Sink, cfg WriterConfig, clock clockwork.Clock, log *logger.Logger, met *metrics.Metrics) *Writer {
	if cfg.Buffer <= 0 {
		cfg.Buffer = 256
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 64
	}
	if cfg.FlushEvery <= 0 {
		cfg.FlushEvery = time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = logger.Named("ledger")
	}
	return &Writer{
		sinks: sinks,
		cfg:   cfg,
		clock: clock,
		log:   log,
		met:   met,
		in:    make(chan domain.Entry, cfg.Buffer),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Entry converts an observation into its persisted form
// the text is reduced to a sha256 digest and a rune count
func Entry(o domain.Observation, now time.Time) domain.Entry {
	sum := sha256.Sum256([]byte(o.Text))
	at := o.At
	if at.IsZero() {
		at = now
	}
	return domain.Entry{
		ID:         newID(),
		CreatedAt:  at.UTC(),
		TextSHA256: hex.EncodeToString(sum[:]),
		TextLen:    utf8.RuneCountInString(o.Text),
		Language:   o.Language,
		Label:      string(o.Label),
		Score:      o.Score,
		RawLabel:   string(o.RawLabel),
		RawScore:   o.RawScore,
		Translated: o.Translated,
		Winner:     o.Winner,
		ElapsedMS:  o.Elapsed.Milliseconds(),
	}
}

// Record implements domain.RecorderPort
func (w *Writer) Record(o domain.Observation) {
	select {
	case <-w.stop:
		w.drop("writer stopped")
		return
	default:
	}
	select {
	case w.in <- Entry(o, w.clock.Now()):
	default:
		w.drop("buffer full")
	}
}

func (w *Writer) drop(why string) {
	w.met.LedgerDrop()
	w.log.Warn().Str("reason", why).Msg("ledger entry dropped")
}

// Run drains the buffer in batches until Close is called or ctx ends
// remaining entries are flushed before it returns
func (w *Writer) Run(ctx context.Context) {
	defer close(w.done)

	t := w.clock.NewTicker(w.cfg.FlushEvery)
	defer t.Stop()

	batch := make([]domain.Entry, 0, w.cfg.BatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		w.flush(batch)
		batch = batch[:0]
	}

	for {
		select {
		case e := <-w.in:
			batch = append(batch, e)
			if len(batch) >= w.cfg.BatchSize {
				flush()
			}
		case <-t.Chan():
			flush()
		case <-w.stop:
			w.drain(&batch)
			flush()
			return
		case <-ctx.Done():
			w.drain(&batch)
			flush()
			return
		}
	}
}

func (w *Writer) drain(batch *[]domain.Entry) {
	for {
		select {
		case e := <-w.in:
			*batch = append(*batch, e)
		default:
			return
		}
	}
}

// flush writes to every sink independently, a failing sink does not block the others
func (w *Writer) flush(xs []domain.Entry) {
	for _, s := range w.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), w.cfg.WriteTimeout)
		err := s.Storage.Insert(ctx, xs)
		cancel()
		w.met.LedgerWrite(s.Name, err)
		if err != nil {
			w.log.Error().Err(err).Str("sink", s.Name).Int("entries", len(xs)).Msg("ledger write failed")
			continue
		}
		w.log.Debug().Str("sink", s.Name).Int("entries", len(xs)).Msg("ledger flushed")
	}
}

// Close stops Run and waits for the final flush or ctx
// entries recorded after Run returned on its own ctx are flushed here
func (w *Writer) Close(ctx context.Context) error {
	w.once.Do(func() { close(w.stop) })
	select {
	case <-w.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	var late []domain.Entry
	w.drain(&late)
	if len(late) > 0 {
		w.flush(late)
	}
	return nil
}
