// Package google translates through the public translate_a gtx endpoint
package google

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"moodmeter/internal/adapters/upstream"
	perr "moodmeter/internal/platform/errors"
)

// DefaultBaseURL is the keyless web client host
const DefaultBaseURL = "https://translate.googleapis.com"

// Options configures the translator
type Options struct {
	BaseURL string
	Timeout time.Duration
}

// Translator calls GET /translate_a/single?client=gtx
type Translator struct {
	c *upstream.Client
}

// New constructs a Translator
func New(o Options) *Translator {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	return &Translator{c: upstream.New(upstream.Options{
		Name:    "google",
		BaseURL: o.BaseURL,
		Timeout: o.Timeout,
	})}
}

// Name identifies the backend in logs
func (t *Translator) Name() string { return "google" }

// Translate returns text rendered in target, source "auto" lets the service detect it
func (t *Translator) Translate(ctx context.Context, text, source, target string) (string, error) {
	q := url.Values{
		"client": {"gtx"},
		"sl":     {source},
		"tl":     {target},
		"dt":     {"t"},
		"q":      {text},
	}
	var raw []any
	if err := t.c.Do(ctx, http.MethodGet, "/translate_a/single", q, nil, &raw); err != nil {
		return "", err
	}
	return joinSegments(raw)
}

// joinSegments concatenates the translated part of each sentence segment
// the payload looks like [[["Hola.","Hello.",...],["Mundo","World",...]], null, "en", ...]
func joinSegments(raw []any) (string, error) {
	if len(raw) == 0 {
		return "", perr.New(perr.ErrorCodeUnknown, "google empty response")
	}
	segs, ok := raw[0].([]any)
	if !ok {
		return "", perr.New(perr.ErrorCodeUnknown, "google unexpected response shape")
	}
	var b strings.Builder
	for _, s := range segs {
		parts, ok := s.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if txt, ok := parts[0].(string); ok {
			b.WriteString(txt)
		}
	}
	return b.String(), nil
}
