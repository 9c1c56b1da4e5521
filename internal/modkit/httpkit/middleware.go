package httpkit

import (
	"net/http"
	"time"

	"moodmeter/internal/platform/config"
	"moodmeter/internal/platform/net/middleware"
)

// CommonStack returns the root middleware bundle configured from an API config view
// observe may be nil, the metrics middleware is passed here
func CommonStack(c config.Conf, observe func(http.Handler) http.Handler) []func(http.Handler) http.Handler {
	return middleware.Defaults(middleware.Options{
		Timeout: c.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
		AccessLog: middleware.AccessLogOptions{
			Slow: time.Duration(c.MayInt("SLOW_MS", 1000)) * time.Millisecond,
			Skip: []string{"/metrics"},
		},
		CORS: middleware.CORSOptions{
			AllowedOrigins: c.MayCSV("CORS_ORIGINS", nil),
		},
		Observe: observe,
	})
}
