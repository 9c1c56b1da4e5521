// Package hfinference classifies text through a hosted Hugging Face inference endpoint
package hfinference

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"moodmeter/internal/adapters/upstream"
	"moodmeter/internal/core/sentiment"
	perr "moodmeter/internal/platform/errors"
)

const (
	// DefaultBaseURL is the public serverless inference host
	DefaultBaseURL = "https://api-inference.huggingface.co"
	// DefaultModel is the multilingual twitter sentiment model
	DefaultModel = "cardiffnlp/twitter-xlm-roberta-base-sentiment"
)

// Options configures the classifier
type Options struct {
	BaseURL string
	Model   string
	Token   string
	Timeout time.Duration

	// WaitForModel asks the endpoint to block while a cold model loads instead of answering 503
	WaitForModel bool
}

// Classifier calls POST {base}/models/{model}
type Classifier struct {
	c     *upstream.Client
	model string
	wait  bool
}

// New constructs a Classifier
func New(o Options) *Classifier {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.Model == "" {
		o.Model = DefaultModel
	}
	return &Classifier{
		c: upstream.New(upstream.Options{
			Name:    "hf",
			BaseURL: o.BaseURL,
			Token:   o.Token,
			Timeout: o.Timeout,
		}),
		model: o.Model,
		wait:  o.WaitForModel,
	}
}

// WithHTTPClient swaps the transport, for tests
func (c *Classifier) WithHTTPClient(h *http.Client) *Classifier {
	c.c.WithHTTPClient(h)
	return c
}

// Name identifies the backend in logs and metrics
func (c *Classifier) Name() string { return "hf" }

// Model returns the configured model id
func (c *Classifier) Model() string { return c.model }

type request struct {
	Inputs  string         `json:"inputs"`
	Options map[string]any `json:"options,omitempty"`
}

// Classify returns every (label, score) pair the model emits for text
func (c *Classifier) Classify(ctx context.Context, text string) (sentiment.Verdict, error) {
	req := request{Inputs: text}
	if c.wait {
		req.Options = map[string]any{"wait_for_model": true}
	}

	var raw json.RawMessage
	if err := c.c.Do(ctx, http.MethodPost, "/models/"+c.model, nil, req, &raw); err != nil {
		return nil, err
	}
	v, err := decodeVerdict(raw)
	if err != nil {
		return nil, err
	}
	if err := v.Validate(); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "hf verdict rejected")
	}
	return v, nil
}

// decodeVerdict accepts both the batched [[{label,score}]] and flat [{label,score}] shapes
func decodeVerdict(raw json.RawMessage) (sentiment.Verdict, error) {
	var nested []sentiment.Verdict
	if err := json.Unmarshal(raw, &nested); err == nil {
		if len(nested) == 0 {
			return nil, nil
		}
		return nested[0], nil
	}
	var flat sentiment.Verdict
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "hf unexpected response shape")
	}
	return flat, nil
}
