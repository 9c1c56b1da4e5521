package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	pnet "moodmeter/internal/platform/net"
	kit "moodmeter/internal/platform/testkit"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"trace", "trace"},
		{" DEBUG ", "debug"},
		{"warn", "warn"},
		{"Warning", "warn"},
		{"error", "error"},
		{"disabled", "disabled"},
		{"", "info"},
		{"   nonsense   ", "info"},
	}
	for _, c := range cases {
		lvl := parseLevel(c.in)
		if strings.ToLower(lvl.String()) != c.want {
			t.Fatalf("parseLevel(%q) = %q, want %q", c.in, lvl, c.want)
		}
	}
}

func TestInit_Get_Named_C(t *testing.T) {
	var buf bytes.Buffer

	// Init with sampling enabled to exercise that branch
	Init(Options{
		Level:       "info",
		Format:      "console",
		Service:     "moodmeter",
		Component:   "arbiter",
		Writer:      &buf,
		WithCaller:  true,
		SampleEvery: 2,
		StaticFields: map[string]string{
			"build": "test",
		},
	})

	// Re-sample each logger to N=1 so lines always emit (pointer receivers)
	rv := Get().Sample(&zerolog.BasicSampler{N: 1})
	rp := &rv
	rp.Info().Str("k", "v").Msg("root-msg")

	nv := Named("api").Sample(&zerolog.BasicSampler{N: 1})
	np := &nv
	np.Info().Msg("named-msg")

	ctx := pnet.WithRequestID(context.Background(), "req-123")
	cv := C(ctx).Sample(&zerolog.BasicSampler{N: 1})
	cp := &cv
	cp.Info().Msg("ctx-msg")

	// background child (exercise only)
	bgv := C(context.Background()).Sample(&zerolog.BasicSampler{N: 1})
	bgp := &bgv
	bgp.Info().Msg("ctx-empty")

	out := buf.String()

	// robust assertions: tolerate "key=value" vs "key= value" spacing
	kit.MustContain(t, out, "root-msg")
	kit.MustContain(t, out, "named-msg")
	kit.MustContain(t, out, "ctx-msg")
	kit.MustContain(t, out, "component=")
	kit.MustContain(t, out, "api")
	kit.MustContain(t, out, "request_id=")
	kit.MustContain(t, out, "req-123")
	kit.MustContain(t, out, "build=")
	kit.MustContain(t, out, "test")
	kit.MustContain(t, out, "service=")
	kit.MustContain(t, out, "moodmeter")
	kit.MustContain(t, out, "version=")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("LOG_SERVICE", "moodmeter-analyze")
	t.Setenv("LOG_COMPONENT", "cli")
	t.Setenv("LOG_CALLER", "true")
	t.Setenv("LOG_SAMPLE_EVERY", "5")
	t.Setenv("LOG_FIELDS", "region=eu,pod=api-1")

	opt := FromEnv()
	if opt.Level != "warn" || opt.Format != "json" || opt.Service != "moodmeter-analyze" || opt.Component != "cli" {
		t.Fatalf("FromEnv fields mismatch: %+v", opt)
	}
	if !opt.WithCaller || opt.SampleEvery != 5 {
		t.Fatalf("FromEnv caller/sample mismatch: %+v", opt)
	}
	if opt.StaticFields["region"] != "eu" || opt.StaticFields["pod"] != "api-1" {
		t.Fatalf("static fields = %v", opt.StaticFields)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("LOG_FORMAT", "yaml")
	t.Setenv("LOG_SERVICE", "")

	opt := FromEnv()
	if opt.Format != "console" {
		t.Fatalf("unknown format should fall back to console, got %q", opt.Format)
	}
	if opt.Service != "moodmeter-api" {
		t.Fatalf("service should default to the build service name, got %q", opt.Service)
	}
}

func TestScoped(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf).With().Str("component", "arbiter").Logger()

	if Scoped(context.Background(), &base) != &base {
		t.Fatal("no request id should return base unchanged")
	}

	ctx := pnet.WithRequestID(context.Background(), "req-42")
	Scoped(ctx, &base).Info().Msg("scoped")
	kit.MustContain(t, buf.String(), `"request_id":"req-42"`)
	kit.MustContain(t, buf.String(), `"component":"arbiter"`)
}

func TestC_NoRequestIDReturnsRoot(t *testing.T) {
	if C(context.Background()) != Get() {
		t.Fatal("context without request id should reuse the root logger")
	}
	v := C(context.Background()).Sample(&zerolog.BasicSampler{N: 1})
	p := &v
	p.Debug().Msg("no-fields")
}
