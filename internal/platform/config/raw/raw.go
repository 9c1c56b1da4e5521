// Package raw reads the handful of env vars needed before the logger exists.
// It must not import the logger package
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Conf is a prefixed env view used only during bootstrap
type Conf struct{ prefix string }

// New returns the unprefixed view
func New() Conf { return Conf{} }

// Prefix returns a child view, "LOG_" + "LEVEL" reads LOG_LEVEL
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) lookup(k string) string {
	return strings.TrimSpace(os.Getenv(c.prefix + k))
}

// Get returns the trimmed value or def when unset or blank
func (c Conf) Get(key, def string) string {
	if v := c.lookup(key); v != "" {
		return v
	}
	return def
}

// GetBool accepts 1, true and yes (any case); anything else set is false
func (c Conf) GetBool(key string, def bool) bool {
	v := strings.ToLower(c.lookup(key))
	if v == "" {
		return def
	}
	return v == "1" || v == "true" || v == "yes"
}

// GetInt returns a non negative integer or def
func (c Conf) GetInt(key string, def int) int {
	n, err := strconv.Atoi(c.lookup(key))
	if err != nil || n < 0 {
		return def
	}
	return n
}

// GetOneOf returns the lower cased value when it is one of allowed, def otherwise
func (c Conf) GetOneOf(key, def string, allowed ...string) string {
	v := strings.ToLower(c.lookup(key))
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return def
}

// GetFields parses "k=v,k2=v2" into a map; malformed pairs are skipped
func (c Conf) GetFields(key string) map[string]string {
	s := c.lookup(key)
	if s == "" {
		return nil
	}
	out := map[string]string{}
	for _, pair := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			continue
		}
		out[k] = strings.TrimSpace(v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
