// Package libre translates through a LibreTranslate server
package libre

import (
	"context"
	"net/http"
	"time"

	"moodmeter/internal/adapters/upstream"
)

// Options configures the translator
type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Translator calls POST /translate
type Translator struct {
	c   *upstream.Client
	key string
}

// New constructs a Translator, BaseURL is required
func New(o Options) *Translator {
	return &Translator{
		c: upstream.New(upstream.Options{
			Name:    "libre",
			BaseURL: o.BaseURL,
			Timeout: o.Timeout,
		}),
		key: o.APIKey,
	}
}

// Name identifies the backend in logs
func (t *Translator) Name() string { return "libre" }

type request struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type response struct {
	TranslatedText string `json:"translatedText"`
}

// Translate returns text rendered in target, source "auto" lets the server detect it
func (t *Translator) Translate(ctx context.Context, text, source, target string) (string, error) {
	var out response
	err := t.c.Do(ctx, http.MethodPost, "/translate", nil, request{
		Q:      text,
		Source: source,
		Target: target,
		Format: "text",
		APIKey: t.key,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.TranslatedText, nil
}
