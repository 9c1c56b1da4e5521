// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"moodmeter/internal/core/version"
	"moodmeter/internal/modkit/httpkit"
)

// Pinger is satisfied by adapters that expose Ping
type Pinger interface {
	Ping(stdctx.Context) error
}

// Readier reports whether the classifier accepts work
type Readier interface {
	Name() string
	Ready() error
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Classifier  Readier
	PG          any
	CH          any
	Modules     func() []string
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	// mount routes
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
	httpkit.Get(r, "/classifier", h.classifier)
}

//
// Swagger DTOs and route docs
//

// HealthResponse is the health payload
// swagger:model
type HealthResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"moodmeter-api"`
	Started string `json:"started"  example:"2026-09-03T13:00:00Z"`
	Now     string `json:"now"      example:"2026-09-03T13:05:00Z"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"   example:"classifier"`
	Status string `json:"status" example:"ok"` // ok fail skipped unknown
	Error  string `json:"error,omitempty" example:"classifier pending"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok degraded fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2026-09-03T13:05:00Z"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string   `json:"name"    example:"moodmeter-api"`
	Started string   `json:"started" example:"2026-09-03T13:00:00Z"`
	Uptime  int64    `json:"uptime"  example:"300"`
	Modules []string `json:"modules" example:"meta,sentiment"`
}

// ClassifierResponse reports the classifier backend and build info
type ClassifierResponse struct {
	Backend string            `json:"backend" example:"hf"`
	Ready   bool              `json:"ready"   example:"true"`
	Error   string            `json:"error,omitempty"`
	Build   version.BuildInfo `json:"build"`
}

// swagger:route GET /meta/health Meta metaHealth
// @Summary Health check
// @Tags Meta
// @Produce json
// @Success 200 type HealthResponse ok
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// swagger:route GET /meta/ready Meta metaReady
// @Summary Readiness probe, the classifier gates the status code
// @Tags Meta
// @Produce json
// @Success 200 type ReadyResponse ok
// @Failure 503 type ReadyResponse classifier not ready
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	check := func(name string, c any) ReadyCheck {
		if c == nil {
			return ReadyCheck{Name: name, Status: "skipped"}
		}
		if p, ok := c.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				return ReadyCheck{Name: name, Status: "fail", Error: err.Error()}
			}
			return ReadyCheck{Name: name, Status: "ok"}
		}
		return ReadyCheck{Name: name, Status: "unknown"}
	}

	cls := ReadyCheck{Name: "classifier", Status: "ok"}
	if h.deps.Classifier == nil {
		cls = ReadyCheck{Name: "classifier", Status: "fail", Error: "not wired"}
	} else if err := h.deps.Classifier.Ready(); err != nil {
		cls = ReadyCheck{Name: "classifier", Status: "fail", Error: err.Error()}
	}
	pg := check("pg", h.deps.PG)
	ch := check("ch", h.deps.CH)

	// stores only back the optional ledger, they degrade rather than fail
	overall := "ok"
	if pg.Status == "fail" || ch.Status == "fail" {
		overall = "degraded"
	}
	status := http.StatusOK
	if cls.Status != "ok" {
		overall = "fail"
		status = http.StatusServiceUnavailable
	}

	return httpkit.Response{Status: status, Body: ReadyResponse{
		Status: overall,
		Checks: []ReadyCheck{cls, pg, ch},
		Now:    time.Now().UTC().Format(time.RFC3339),
	}}, nil
}

// swagger:route GET /meta/version Meta metaVersion
// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 type version.BuildInfo ok
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

// swagger:route GET /meta/service Meta metaService
// @Summary Service info and uptime
// @Tags Meta
// @Produce json
// @Success 200 type ServiceResponse ok
// @Router /meta/service [get]
func (h *handlers) service(_ *http.Request) (any, error) {
	uptime := time.Since(h.deps.StartedAt)
	out := ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(uptime / time.Second),
		Modules: []string{},
	}
	if h.deps.Modules != nil {
		out.Modules = h.deps.Modules()
	}
	return out, nil
}

// swagger:route GET /meta/classifier Meta metaClassifier
// @Summary Classifier backend and readiness
// @Tags Meta
// @Produce json
// @Success 200 type ClassifierResponse ok
// @Router /meta/classifier [get]
func (h *handlers) classifier(_ *http.Request) (any, error) {
	out := ClassifierResponse{Build: version.Info()}
	if h.deps.Classifier == nil {
		out.Error = "not wired"
		return out, nil
	}
	out.Backend = h.deps.Classifier.Name()
	if err := h.deps.Classifier.Ready(); err != nil {
		out.Error = err.Error()
	} else {
		out.Ready = true
	}
	return out, nil
}
