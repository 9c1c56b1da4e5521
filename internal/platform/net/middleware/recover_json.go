package middleware

import (
	stdhttp "net/http"
	"runtime/debug"

	perr "moodmeter/internal/platform/errors"
	"moodmeter/internal/platform/logger"
	pnet "moodmeter/internal/platform/net"
	phttp "moodmeter/internal/platform/net/http"
)

// RecoverJSON converts panics into the JSON 500 envelope and logs the stack with the request id
func RecoverJSON(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == stdhttp.ErrAbortHandler {
				panic(v)
			}
			reqID := pnet.RequestID(r.Context())
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if reqID != "" {
				w.Header().Set("X-Request-ID", reqID)
			}
			status, env := phttp.ErrorEnvelope(perr.PanicErrf("panic recovered: %v", v), reqID)
			phttp.JSON(w, status, env)
		}()
		next.ServeHTTP(w, r)
	})
}
