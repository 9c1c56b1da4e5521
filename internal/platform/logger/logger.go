// Package logger wraps zerolog with env driven defaults and request scoped children
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"moodmeter/internal/core/version"
	"moodmeter/internal/platform/config/raw"
	pnet "moodmeter/internal/platform/net"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Options configures the logger
type Options struct {
	Level        string
	Format       string
	Service      string
	Component    string
	Writer       io.Writer
	WithCaller   bool
	SampleEvery  int
	StaticFields map[string]string
}

// FromEnv reads LOG_* through the raw view, config proper logs through us
func FromEnv() Options {
	rc := raw.New().Prefix("LOG_")
	return Options{
		Level:        strings.ToLower(rc.Get("LEVEL", "info")),
		Format:       rc.GetOneOf("FORMAT", "console", "console", "json"),
		Service:      rc.Get("SERVICE", version.Info().Service),
		Component:    rc.Get("COMPONENT", ""),
		WithCaller:   rc.GetBool("CALLER", false),
		SampleEvery:  rc.GetInt("SAMPLE_EVERY", 0),
		StaticFields: rc.GetFields("FIELDS"),
	}
}

var (
	once   sync.Once
	root   atomic.Pointer[zerolog.Logger] // internal storage of the root logger
	inited atomic.Bool
)

// Logger is the project-wide logging type - today it's just a zerolog.Logger, but it can be swapped later
type Logger = zerolog.Logger

// Get returns the process-wide root logger as a pointer
func Get() *Logger {
	if !inited.Load() {
		Init(FromEnv())
	}
	return root.Load()
}

// Init configures zerolog and builds the root logger, safe to call once
func Init(opt Options) {
	once.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano

		fields := zerolog.New(output(opt)).Level(parseLevel(opt.Level)).With().Timestamp().
			Str("version", version.Info().Version)
		if bi, ok := debug.ReadBuildInfo(); ok {
			fields = fields.Str("go_version", bi.GoVersion)
		}
		for k, v := range map[string]string{"service": opt.Service, "component": opt.Component} {
			if v != "" {
				fields = fields.Str(k, v)
			}
		}
		for k, v := range opt.StaticFields {
			fields = fields.Str(k, v)
		}
		if opt.WithCaller {
			fields = fields.Caller()
		}

		log := fields.Logger()
		if opt.SampleEvery > 1 {
			log = log.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
		}
		root.Store(&log)
		inited.Store(true)
	})
}

// output picks stdout unless a writer is given, wrapped for humans in console format
func output(opt Options) io.Writer {
	var w io.Writer = os.Stdout
	if opt.Writer != nil {
		w = opt.Writer
	}
	if opt.Format == "console" {
		return zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return w
}

// parseLevel accepts zerolog level names plus "warning"; blank or unknown means info
func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		return zerolog.WarnLevel
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// C returns the root logger scoped to the request on ctx
func C(ctx context.Context) *Logger {
	return Scoped(ctx, Get())
}

// Scoped adds the request id set by the RequestID middleware to base, if there is one
func Scoped(ctx context.Context, base *Logger) *Logger {
	id := pnet.RequestID(ctx)
	if id == "" {
		return base
	}
	ll := base.With().Str("request_id", id).Logger()
	return &ll
}

// Named returns a child logger with a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	ll := Get().With().Str("component", component).Logger()
	return &ll
}
