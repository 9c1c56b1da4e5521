// Package middleware holds the in house middlewares and thin chi adapters
package middleware

import (
	"net/http"
	"time"

	"moodmeter/internal/platform/logger"
)

// AccessLogOptions configures the zerolog access log
type AccessLogOptions struct {
	// Slow marks requests taking >= Slow as warn level, 0 disables slow marking
	Slow time.Duration
	// Skip paths are not logged, e.g. the prometheus scrape endpoint
	Skip []string
}

// StatusWriter records the status and bytes written through a ResponseWriter
type StatusWriter struct {
	http.ResponseWriter
	Status int
	Bytes  int
}

// WriteHeader records the status code
func (sw *StatusWriter) WriteHeader(code int) {
	sw.Status = code
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *StatusWriter) Write(b []byte) (int, error) {
	n, err := sw.ResponseWriter.Write(b)
	sw.Bytes += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer
func (sw *StatusWriter) Unwrap() http.ResponseWriter { return sw.ResponseWriter }

// AccessLogZerolog logs method, path, status, elapsed, and bytes written
// on the request scoped logger
func AccessLogZerolog(opt AccessLogOptions) func(http.Handler) http.Handler {
	skip := make(map[string]struct{}, len(opt.Skip))
	for _, p := range opt.Skip {
		skip[p] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}
			sw := &StatusWriter{ResponseWriter: w, Status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(sw, r)

			elapsed := time.Since(start)
			log := logger.C(r.Context())
			evt := log.Info()
			switch {
			case sw.Status >= http.StatusInternalServerError:
				evt = log.Error()
			case opt.Slow > 0 && elapsed >= opt.Slow:
				evt = log.Warn()
			}
			evt.Int("status", sw.Status).
				Dur("elapsed", elapsed).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("bytes", sw.Bytes).
				Msg("request done")
		})
	}
}
