package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	kit "modelwatch/internal/platform/testkit"
)

// this test runs first in the file so it owns the one-shot Init; the
// build tests below construct their own loggers and never touch the root

func TestInit_OwnsTheProcessRoot(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{
		Level:        "debug",
		Format:       "console",
		Service:      "modelwatch-scrape",
		Component:    "root",
		Writer:       &buf,
		StaticFields: map[string]string{"version": "v1.2.3"},
	})

	// a second Init must not rebuild the root
	var hijack bytes.Buffer
	Init(Options{Writer: &hijack})

	Get().Info().Msg("root-online")

	ctx := WithRequest(context.Background(), "req-123")
	ctx = WithRun(ctx, "run-abc")
	ctx = WithSource(ctx, "claude")
	C(ctx).Info().Msg("scoped-line")

	Named("feed").Info().Msg("named-line")

	out := buf.String()
	kit.MustContain(t, out, "root-online")
	kit.MustContain(t, out, "service=")
	kit.MustContain(t, out, "modelwatch-scrape")
	kit.MustContain(t, out, "version=")
	kit.MustContain(t, out, "v1.2.3")
	kit.MustContain(t, out, "scoped-line")
	kit.MustContain(t, out, "request_id=")
	kit.MustContain(t, out, "req-123")
	kit.MustContain(t, out, "run_id=")
	kit.MustContain(t, out, "run-abc")
	kit.MustContain(t, out, "source=")
	kit.MustContain(t, out, "claude")
	kit.MustContain(t, out, "named-line")
	kit.MustContain(t, out, "feed")

	if hijack.Len() != 0 {
		t.Fatalf("second Init rebuilt the root: %q", hijack.String())
	}
}

func TestC_NoScopeReturnsTheRoot(t *testing.T) {
	if C(context.Background()) != Get() {
		t.Fatal("a context without scope attributes should get the root back")
	}
}

func TestBuild_JSONCarriesServiceAndStatics(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := build(Options{
		Level:        "info",
		Format:       "json",
		Service:      "modelwatch-api",
		Writer:       &buf,
		StaticFields: map[string]string{"version": "dev"},
	})
	log.Info().Msg("online")

	out := buf.String()
	kit.MustContain(t, out, `"service":"modelwatch-api"`)
	kit.MustContain(t, out, `"version":"dev"`)
	kit.MustContain(t, out, `"go_version"`)
	kit.MustContain(t, out, `"message":"online"`)
}

func TestBuild_LevelGatesLowerEvents(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := build(Options{Level: "warn", Writer: &buf})
	log.Info().Msg("dropped")
	log.Warn().Msg("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatal("info event slipped past a warn gate")
	}
	kit.MustContain(t, out, "kept")
}

func TestBuild_SamplerKeepsOneInN(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := build(Options{Level: "info", SampleEvery: 2, Writer: &buf})
	for i := 0; i < 4; i++ {
		log.Info().Msg("tick")
	}

	if got := strings.Count(buf.String(), "tick"); got != 2 {
		t.Fatalf("sampler kept %d of 4 events, want 2", got)
	}
}

func TestBuild_CallerStampsTheCallSite(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := build(Options{Level: "info", WithCaller: true, Writer: &buf})
	log.Info().Msg("here")

	kit.MustContain(t, buf.String(), "logger_test.go")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"trace", "trace"},
		{"debug", "debug"},
		{"info", "info"},
		{"warn", "warn"},
		{"WARNING", "warn"},
		{"error", "error"},
		{"fatal", "fatal"},
		{"panic", "panic"},
		{"disabled", "disabled"},
		{"", "info"},
		{"  verbose  ", "info"},
	}
	for _, c := range cases {
		if got := parseLevel(c.in).String(); got != c.want {
			t.Fatalf("parseLevel(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFromEnv_ReadsTheLogEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_SERVICE", "modelwatch-api")
	t.Setenv("LOG_COMPONENT", "http")
	t.Setenv("LOG_CALLER", "yes")
	t.Setenv("LOG_SAMPLE_EVERY", "5")

	opt := FromEnv()
	if opt.Level != "warn" || opt.Format != "json" {
		t.Fatalf("level/format = %q/%q, want warn/json", opt.Level, opt.Format)
	}
	if opt.Service != "modelwatch-api" || opt.Component != "http" {
		t.Fatalf("service/component = %q/%q", opt.Service, opt.Component)
	}
	if !opt.WithCaller || opt.SampleEvery != 5 {
		t.Fatalf("caller/sample = %v/%d, want true/5", opt.WithCaller, opt.SampleEvery)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("LOG_SERVICE", "")
	t.Setenv("LOG_COMPONENT", "")
	t.Setenv("LOG_CALLER", "")
	t.Setenv("LOG_SAMPLE_EVERY", "")

	opt := FromEnv()
	if opt.Level != "info" || opt.Format != "console" {
		t.Fatalf("defaults = %q/%q, want info/console", opt.Level, opt.Format)
	}
	if opt.WithCaller || opt.SampleEvery != 0 {
		t.Fatalf("caller/sample defaults = %v/%d, want false/0", opt.WithCaller, opt.SampleEvery)
	}
}
