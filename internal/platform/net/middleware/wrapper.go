package middleware

import (
	"compress/flate"
	"net/http"
	"time"

	pstrings "moodmeter/internal/platform/strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// RequestID attaches or propagates X-Request-ID and stores it on context
func RequestID() func(http.Handler) http.Handler { return chimw.RequestID }

// RealIP sets RemoteAddr to the upstream IP based on X-Forwarded-For headers
func RealIP() func(http.Handler) http.Handler { return chimw.RealIP }

// Timeout cancels the request context after d
func Timeout(d time.Duration) func(http.Handler) http.Handler { return chimw.Timeout(d) }

// NoCache sets headers to disable client and proxy caching
func NoCache() func(http.Handler) http.Handler { return chimw.NoCache }

// Compress wraps chi's compressor. level usually flate.DefaultCompression or flate.BestSpeed
func Compress(level int) func(http.Handler) http.Handler {
	c := chimw.NewCompressor(level)
	return func(next http.Handler) http.Handler { return c.Handler(next) }
}

// Heartbeat replies with 200 OK to GET path, useful for LB health checks
func Heartbeat(path string) func(http.Handler) http.Handler { return chimw.Heartbeat(path) }

// CORSOptions is a narrow surface over go-chi/cors
type CORSOptions struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

// CORS wraps go-chi/cors, any origin is allowed unless configured
func CORS(o CORSOptions) func(http.Handler) http.Handler {
	return chicors.Handler(chicors.Options{
		AllowedOrigins: pstrings.IfEmpty(o.AllowedOrigins, []string{"*"}),
		AllowedMethods: pstrings.IfEmpty(o.AllowedMethods, []string{"GET", "POST", "OPTIONS"}),
		AllowedHeaders: pstrings.IfEmpty(o.AllowedHeaders, []string{"Accept", "Content-Type", "X-Request-ID"}),
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         o.MaxAge,
	})
}

// Options configures the root bundle
type Options struct {
	Timeout   time.Duration
	AccessLog AccessLogOptions
	CORS      CORSOptions
	// Observe wraps every request outside panic recovery, e.g. request metrics
	Observe func(http.Handler) http.Handler
}

// Defaults is the root bundle every server installs before routes
// the timeout bounds a whole request, translation has its own shorter budget
func Defaults(o Options) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	chain := []func(http.Handler) http.Handler{
		RealIP(),
		RequestID(),
		AccessLogZerolog(o.AccessLog),
	}
	if o.Observe != nil {
		chain = append(chain, o.Observe)
	}
	return append(chain,
		CORS(o.CORS),
		RecoverJSON,
		Timeout(o.Timeout),
		Compress(flate.DefaultCompression),
		NoCache(),
	)
}
