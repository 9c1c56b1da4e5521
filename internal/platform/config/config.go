// Package config reads service configuration from prefixed environment variables
package config

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"moodmeter/internal/platform/logger"

	"github.com/joho/godotenv"
)

// Conf is a namespaced view over environment variables (e.g. "CLASSIFIER_", "TRANSLATOR_")
type Conf struct{ prefix string }

// New creates a root Conf (no prefix)
func New() Conf { return Conf{} }

// Prefix creates a child Conf with an additional prefix, e.g. cfg.Prefix("CORE_API_")
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

func (c Conf) lookup(k string) string { return strings.TrimSpace(os.Getenv(c.key(k))) }

// LoadDotEnv loads env files into the process environment without overriding
// variables that are already set. Missing files are skipped
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// MustString panics if the given key is missing or empty
func (c Conf) MustString(key string) string {
	v := c.lookup(key)
	if v == "" {
		logger.Get().Panic().Str("key", c.key(key)).Msg("missing required env")
	}
	return v
}

// parse returns def for a missing value and logs before falling back on a bad one
func parse[T any](c Conf, key string, def T, conv func(string) (T, error)) T {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := conv(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Interface("default", def).Msg("invalid value; using default")
		return def
	}
	return v
}

// MayString returns the value or def if missing/empty
func (c Conf) MayString(key, def string) string {
	if v := c.lookup(key); v != "" {
		return v
	}
	return def
}

// MayInt returns the value or def if missing/empty/invalid
func (c Conf) MayInt(key string, def int) int { return parse(c, key, def, strconv.Atoi) }

// MayIntIn is MayInt clamped to [lo, hi]
func (c Conf) MayIntIn(key string, def, lo, hi int) int {
	v := c.MayInt(key, def)
	if v < lo || v > hi {
		clamped := min(max(v, lo), hi)
		logger.Get().Warn().Str("key", c.key(key)).Int("value", v).Int("clamped", clamped).Msg("value out of range")
		return clamped
	}
	return v
}

// MayFloat64 returns the value or def if missing/empty/invalid
func (c Conf) MayFloat64(key string, def float64) float64 {
	return parse(c, key, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// MayBool returns the value or def if missing/empty/invalid
func (c Conf) MayBool(key string, def bool) bool { return parse(c, key, def, strconv.ParseBool) }

// MayDuration returns the value or def if missing/empty/invalid
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return parse(c, key, def, time.ParseDuration)
}

// MayURL returns an absolute URL with trailing slashes trimmed, def if missing/empty/invalid
func (c Conf) MayURL(key, def string) string {
	return parse(c, key, def, func(s string) (string, error) {
		u, err := url.Parse(s)
		if err != nil {
			return "", err
		}
		if !u.IsAbs() || u.Host == "" {
			return "", errors.New("not an absolute URL")
		}
		return strings.TrimRight(s, "/"), nil
	})
}

// MayCSV returns the trimmed non-empty items of a comma separated value, def if none
func (c Conf) MayCSV(key string, def []string) []string {
	var out []string
	for _, p := range strings.Split(c.lookup(key), ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum returns the lower-cased value when it is one of allowed, def when empty, and panics otherwise
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := strings.ToLower(c.MayString(key, def))
	if v == "" {
		return v
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return v
		}
	}
	logger.Get().Panic().Str("key", c.key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}
