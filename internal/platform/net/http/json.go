package http

import (
	"net/http"

	"moodmeter/internal/platform/net/http/bind"
)

// DefaultMaxBody bounds JSON request bodies unless a route asks for more
const DefaultMaxBody int64 = 1 << 20

// JSONHandler binds and validates a T body with opts, then wraps fn's result in the envelope
func JSONHandler[T any](opts bind.JSONOptions, fn func(*http.Request, T) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r, opts)
		if err != nil {
			return Error(err)
		}
		out, err := fn(r, in)
		if err != nil {
			return Error(err)
		}
		return OK(out)
	})
}

// PostJSON mounts a strict JSON handler for POST, unknown fields are rejected
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	PostJSONLimit(r, path, 0, h)
}

// PostJSONLimit is PostJSON with its own body limit in bytes, 0 keeps DefaultMaxBody
func PostJSONLimit[T any](r Router, path string, maxBytes int64, h func(*http.Request, T) (any, error)) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBody
	}
	r.Post(path, JSONHandler(bind.JSONOptions{MaxBytes: maxBytes, DisallowUnknown: true}, h))
}
