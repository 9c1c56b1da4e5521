// Package upstream is the small JSON over HTTP client shared by the classifier and translator backends
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	perr "moodmeter/internal/platform/errors"
	"moodmeter/internal/platform/logger"
)

const (
	defaultTimeout = 30 * time.Second
	defaultUA      = "moodmeter"
	maxBody        = 4 << 20
)

// Options configures the Client
type Options struct {
	// Name tags log lines and errors, e.g. "hf" or "libre"
	Name      string
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// Token is sent as a bearer token when set
	Token string
}

// Client issues single attempt JSON requests, retries are the caller's decision
type Client struct {
	http *http.Client
	opts Options
	log  *logger.Logger
	now  func() time.Time
}

// New creates a Client with defaults filled in
func New(o Options) *Client {
	if o.Name == "" {
		o.Name = "upstream"
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  logger.Named(o.Name),
		now:  time.Now,
	}
}

// WithHTTPClient swaps the transport client, tests point it at httptest servers
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// BaseURL returns the configured base url without a trailing slash
func (c *Client) BaseURL() string { return c.opts.BaseURL }

// StatusError wraps a non 2xx response
type StatusError struct {
	Status int
	Body   string
	Err    error
}

func (e *StatusError) Error() string { return e.Err.Error() }

// Unwrap exposes the coded platform error
func (e *StatusError) Unwrap() error { return e.Err }

// HTTPStatus returns the upstream status
func (e *StatusError) HTTPStatus() int { return e.Status }

// IsRateLimited reports whether err is an upstream 429
func IsRateLimited(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusTooManyRequests
}

// IsTransient reports whether err is an upstream 5xx or 429
func IsTransient(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status == http.StatusTooManyRequests || se.Status >= 500
	}
	return false
}

// Do sends method path with an optional JSON body and decodes a 2xx JSON response into out
// out may be nil to discard the body
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.opts.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnknown, "%s encode request", c.opts.Name)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "%s new request", c.opts.Name)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.Token)
	}

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "%s request failed", c.opts.Name)
	}
	defer func() { _ = drainAndClose(resp.Body) }()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", c.now().Sub(start)).
		Msg("upstream response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		tail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &StatusError{
			Status: resp.StatusCode,
			Body:   string(tail),
			Err:    perr.Newf(codeFor(resp.StatusCode), "%s unexpected status %d", c.opts.Name, resp.StatusCode),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(out); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "%s decode response", c.opts.Name)
	}
	return nil
}

func codeFor(status int) perr.ErrorCode {
	switch status {
	case http.StatusTooManyRequests:
		return perr.ErrorCodeTooManyRequests
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return perr.ErrorCodeUnavailable
	default:
		return perr.ErrorCodeUnknown
	}
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}
