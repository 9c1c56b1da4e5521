// Package http provides read endpoints over the verdict ledger
package http

import (
	stdhttp "net/http"
	"time"

	"moodmeter/internal/modkit/httpkit"
	ledgerdom "moodmeter/internal/services/ledger/domain"

	"github.com/jonboulle/clockwork"
)

// Deps are the handler dependencies
type Deps struct {
	Reader ledgerdom.ReaderPort
	Clock  clockwork.Clock
}

// RecentResponse wraps the newest entries
type RecentResponse struct {
	Items []ledgerdom.Entry `json:"items"`
}

type handlers struct{ deps Deps }

// Register mounts the ledger routes
func Register(r httpkit.Router, d Deps) {
	if d.Clock == nil {
		d.Clock = clockwork.NewRealClock()
	}
	h := &handlers{deps: d}

	httpkit.Get(r, "/recent", h.recent)
	httpkit.Get(r, "/summary", h.summary)
}

// swagger:route GET /ledger/recent Ledger ledgerRecent
// @Summary Most recent verdicts, newest first
// @Tags Ledger
// @Produce json
// @Param limit query int false "1..200" default(50)
// @Success 200 {object} RecentResponse "ok"
// @Router /ledger/recent [get]
func (h *handlers) recent(r *stdhttp.Request) (any, error) {
	limit, err := httpkit.QueryInt(r, "limit", 50, 1, 200)
	if err != nil {
		return nil, err
	}
	xs, err := h.deps.Reader.Recent(r.Context(), limit)
	if err != nil {
		return nil, err
	}
	return RecentResponse{Items: xs}, nil
}

// swagger:route GET /ledger/summary Ledger ledgerSummary
// @Summary Label counts per language over a trailing window
// @Tags Ledger
// @Produce json
// @Param hours query int false "1..720" default(24)
// @Success 200 {object} ledgerdom.Summary "ok"
// @Router /ledger/summary [get]
func (h *handlers) summary(r *stdhttp.Request) (any, error) {
	hours, err := httpkit.QueryInt(r, "hours", 24, 1, 720)
	if err != nil {
		return nil, err
	}
	until := h.deps.Clock.Now().UTC()
	return h.deps.Reader.Summary(r.Context(), until.Add(-time.Duration(hours)*time.Hour), until)
}
