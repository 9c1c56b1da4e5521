package httpkit

import (
	"net/http"
	"strconv"
	"strings"

	perr "moodmeter/internal/platform/errors"
)

// QueryInt reads an integer query parameter bounded to [lo, hi]
// a missing value yields def; a malformed or out of range one is an invalid argument
func QueryInt(r *http.Request, key string, def, lo, hi int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, perr.FieldErrf(key, "%s must be an integer", key)
	}
	if n < lo || n > hi {
		return 0, perr.FieldErrf(key, "%s must be between %d and %d", key, lo, hi)
	}
	return n, nil
}
