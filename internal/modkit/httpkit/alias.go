// Package httpkit gives modules the handler and routing helpers of the platform http package
// modules import this instead of internal/platform/net/http
package httpkit

import (
	"net/http"

	phttp "moodmeter/internal/platform/net/http"
)

type (
	// Envelope is the v1 response body
	Envelope = phttp.Envelope

	// Response carries a status and body to the responder
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is the surface modules mount against
	Router = phttp.Router
)

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// Error maps err to its status and envelope
func Error(err error) Response { return phttp.Error(err) }

// Handle adapts a Response returning function
func Handle(fn func(*http.Request) Response) Handler { return phttp.Handle(fn) }

// Call adapts a handler that takes no body
// a returned Response passes through, any other value is wrapped in OK
func Call(fn func(*http.Request) (any, error)) Handler {
	return phttp.Handle(func(r *http.Request) phttp.Response {
		out, err := fn(r)
		if err != nil {
			return phttp.Error(err)
		}
		if resp, ok := out.(phttp.Response); ok {
			return resp
		}
		return phttp.OK(out)
	})
}

// Get registers a no-body handler under GET
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, Call(h))
}

// PostJSON registers a strict, validated JSON handler under POST
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.PostJSON(r, path, h)
}

// PostJSONLimit is PostJSON for routes whose bodies outgrow the default limit
func PostJSONLimit[T any](r Router, path string, maxBytes int64, h func(*http.Request, T) (any, error)) {
	phttp.PostJSONLimit(r, path, maxBytes, h)
}
