package httpkit

import (
	"net/http"

	phttp "moodmeter/internal/platform/net/http"
	"moodmeter/internal/platform/net/http/bind"
)

// BindJSON decodes and validates a T body, unknown fields are ignored
func BindJSON[T any](r *http.Request) (T, error) {
	return bind.ParseJSON[T](r, bind.JSONOptions{MaxBytes: phttp.DefaultMaxBody})
}

// Raw adapts a handler that picks its own status and writes a bare JSON body, no envelope
func Raw(fn func(*http.Request) (int, any)) Handler {
	return func(w http.ResponseWriter, r *http.Request) {
		status, body := fn(r)
		phttp.JSON(w, status, body)
	}
}
