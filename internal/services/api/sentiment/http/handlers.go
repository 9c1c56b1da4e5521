// Package http provides http transport for sentiment analysis
package http

import (
	stdhttp "net/http"
	"unicode/utf8"

	"moodmeter/internal/modkit/httpkit"
	perr "moodmeter/internal/platform/errors"
	"moodmeter/internal/services/api/sentiment/domain"
	arbdom "moodmeter/internal/services/arbiter/domain"
)

// LegacyRunning is the GET / body kept for existing clients
const LegacyRunning = "Sentiment Analysis API is running."

// Deps are the handler dependencies
type Deps struct {
	Analyzer arbdom.AnalyzerPort
	BatchMax int
}

type handlers struct{ deps Deps }

// Register mounts the versioned sentiment endpoints
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	httpkit.PostJSON[domain.AnalyzeInput](r, "/analyze", h.analyze)
	httpkit.PostJSONLimit[domain.BatchInput](r, "/analyze/batch", batchBodyLimit(d.BatchMax), h.batch)
}

// batchBodyLimit fits n texts of the longest accepted length, 0 keeps the default limit
func batchBodyLimit(n int) int64 {
	if n <= 0 {
		return 0
	}
	return int64(n)*utf8.UTFMax*domain.MaxTextRunes + 64<<10
}

// RegisterLegacy mounts the unversioned routes with bare bodies
func RegisterLegacy(r httpkit.Router, a arbdom.AnalyzerPort) {
	h := &handlers{deps: Deps{Analyzer: a}}

	r.Get("/", httpkit.Raw(h.legacyRoot))
	r.Post("/analyze", httpkit.Raw(h.legacyAnalyze))
}

// swagger:route POST /sentiment/analyze Sentiment sentimentAnalyze
// @Summary Analyze one text
// @Tags Sentiment
// @Accept json
// @Produce json
// @Param payload body domain.AnalyzeInput true "Text"
// @Success 200 {object} arbdom.Result "ok"
// @Router /sentiment/analyze [post]
func (h *handlers) analyze(r *stdhttp.Request, in domain.AnalyzeInput) (any, error) {
	return h.deps.Analyzer.Analyze(r.Context(), in.Text)
}

// swagger:route POST /sentiment/analyze/batch Sentiment sentimentAnalyzeBatch
// @Summary Analyze several texts, one item per input in order
// @Tags Sentiment
// @Accept json
// @Produce json
// @Param payload body domain.BatchInput true "Texts"
// @Success 200 {object} domain.BatchOutput "ok"
// @Router /sentiment/analyze/batch [post]
func (h *handlers) batch(r *stdhttp.Request, in domain.BatchInput) (any, error) {
	if h.deps.BatchMax > 0 && len(in.Texts) > h.deps.BatchMax {
		return nil, perr.FieldErrf("texts", "at most %d texts per batch", h.deps.BatchMax)
	}
	items, err := h.deps.Analyzer.AnalyzeBatch(r.Context(), in.Texts)
	if err != nil {
		return nil, err
	}
	return domain.BatchOutput{Items: items}, nil
}

func (h *handlers) legacyRoot(_ *stdhttp.Request) (int, any) {
	return stdhttp.StatusOK, domain.LegacyMessage{Message: LegacyRunning}
}

func (h *handlers) legacyAnalyze(r *stdhttp.Request) (int, any) {
	in, err := httpkit.BindJSON[domain.AnalyzeInput](r)
	if err != nil {
		return legacyError(err)
	}
	res, err := h.deps.Analyzer.Analyze(r.Context(), in.Text)
	if err != nil {
		return legacyError(err)
	}
	return stdhttp.StatusOK, res
}

// legacyError keeps the {"detail": ...} shape, internal failures also carry the error chain
func legacyError(err error) (int, any) {
	status, wr := perr.HTTP(err)
	body := domain.LegacyError{Detail: wr.Message}
	if status >= stdhttp.StatusInternalServerError && status != stdhttp.StatusServiceUnavailable {
		body.Trace = perr.Trace(err)
	}
	return status, body
}
