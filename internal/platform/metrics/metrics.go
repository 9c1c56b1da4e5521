// Package metrics defines the service's prometheus collectors on an explicit registry
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"moodmeter/internal/platform/net/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "moodmeter"

// Metrics holds every collector the service reports
// a nil *Metrics is valid and records nothing
type Metrics struct {
	reg *prometheus.Registry

	AnalysesTotal      *prometheus.CounterVec
	AnalysisDuration   prometheus.Histogram
	GateSkipsTotal     prometheus.Counter
	TranslationsTotal  *prometheus.CounterVec
	WinnerTotal        *prometheus.CounterVec
	ClassifierReady    prometheus.Gauge
	ClassifierInflight prometheus.Gauge
	ClassifierDuration *prometheus.HistogramVec
	BreakerState       *prometheus.GaugeVec
	BreakerChanges     *prometheus.CounterVec
	LedgerWrites       *prometheus.CounterVec
	LedgerDropped      prometheus.Counter
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// New builds a registry with runtime collectors and registers the service collectors on it
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,

		AnalysesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Analyses by outcome (ok/unavailable/error)",
		}, []string{"outcome"}),

		AnalysisDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "End to end arbitration latency",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2, 3, 5, 10},
		}),

		GateSkipsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_skips_total",
			Help:      "Analyses where the raw verdict was confident enough to skip translation",
		}),

		TranslationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "translations_total",
			Help:      "Translation attempts by outcome reason",
		}, []string{"reason"}),

		WinnerTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "winner_total",
			Help:      "Winning verdict source (raw/translated)",
		}, []string{"source"}),

		ClassifierReady: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "classifier_ready",
			Help:      "1 when the classifier handle accepts requests",
		}),

		ClassifierInflight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "classifier_inflight",
			Help:      "Classification calls currently holding a slot",
		}),

		ClassifierDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "classifier_duration_seconds",
			Help:      "Classifier call latency by backend",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"backend"}),

		BreakerState: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		}, []string{"component"}),

		BreakerChanges: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state_changes_total",
			Help:      "Circuit breaker transitions by component and new state",
		}, []string{"component", "state"}),

		LedgerWrites: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_writes_total",
			Help:      "Ledger writes by sink (pg/ch) and status",
		}, []string{"sink", "status"}),

		LedgerDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_dropped_total",
			Help:      "Ledger entries dropped because the buffer was full",
		}),

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status",
		}, []string{"route", "method", "status"}),

		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// Registry exposes the underlying registry, nil for a nil receiver
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// ObserveAnalysis records one finished analysis
func (m *Metrics) ObserveAnalysis(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(outcome).Inc()
	m.AnalysisDuration.Observe(d.Seconds())
}

// GateSkipped counts a confident raw verdict
func (m *Metrics) GateSkipped() {
	if m == nil {
		return
	}
	m.GateSkipsTotal.Inc()
}

// Translation counts a translation outcome reason
func (m *Metrics) Translation(reason string) {
	if m == nil {
		return
	}
	m.TranslationsTotal.WithLabelValues(reason).Inc()
}

// Winner counts the source of a winning verdict
func (m *Metrics) Winner(source string) {
	if m == nil {
		return
	}
	m.WinnerTotal.WithLabelValues(source).Inc()
}

// SetClassifierReady flips the readiness gauge
func (m *Metrics) SetClassifierReady(ready bool) {
	if m == nil {
		return
	}
	v := 0.0
	if ready {
		v = 1
	}
	m.ClassifierReady.Set(v)
}

// ClassifierCall tracks one in-flight classification, call the returned func when done
func (m *Metrics) ClassifierCall(backend string) func() {
	if m == nil {
		return func() {}
	}
	start := time.Now()
	m.ClassifierInflight.Inc()
	return func() {
		m.ClassifierInflight.Dec()
		m.ClassifierDuration.WithLabelValues(backend).Observe(time.Since(start).Seconds())
	}
}

// Breaker records a circuit breaker transition, state is 0 closed, 1 half-open, 2 open
func (m *Metrics) Breaker(component, name string, state int) {
	if m == nil {
		return
	}
	m.BreakerState.WithLabelValues(component).Set(float64(state))
	m.BreakerChanges.WithLabelValues(component, name).Inc()
}

// LedgerWrite counts a sink write result
func (m *Metrics) LedgerWrite(sink string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.LedgerWrites.WithLabelValues(sink, status).Inc()
}

// LedgerDrop counts a dropped ledger entry
func (m *Metrics) LedgerDrop() {
	if m == nil {
		return
	}
	m.LedgerDropped.Inc()
}

// HTTP records request count and latency by chi route pattern
// unmatched requests are grouped under "unmatched" to bound cardinality
func (m *Metrics) HTTP(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &middleware.StatusWriter{ResponseWriter: w, Status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		m.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(sw.Status)).Inc()
		m.HTTPDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
