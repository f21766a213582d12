// Package logger wraps zerolog behind a process-wide root. The root is
// built once, either explicitly by a binary through Init or lazily from
// env on first Get; child loggers pick their attributes up from context
// scope or from Named.
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

	"modelwatch/internal/platform/config/raw"
	"modelwatch/internal/platform/scope"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Options configures the root logger
type Options struct {
	// Level accepts zerolog's level names plus "warning"; anything else
	// falls back to info
	Level string

	// Format is "console" for humans, anything else stays raw JSON
	Format string

	// Service names the emitting binary
	Service string

	// Component tags the root; Named refines it per subsystem
	Component string

	// Writer defaults to stdout
	Writer io.Writer

	// WithCaller stamps file:line on every event
	WithCaller bool

	// SampleEvery keeps one in N events when set above 1
	SampleEvery int

	// StaticFields ride along on every line, the build version mostly
	StaticFields map[string]string
}

// FromEnv reads LOG_* through the raw view, which must not log itself
func FromEnv() Options {
	rc := raw.New().Prefix("LOG_")
	return Options{
		Level:       rc.Get("LEVEL", "info"),
		Format:      rc.Get("FORMAT", "console"),
		Service:     rc.Get("SERVICE", ""),
		Component:   rc.Get("COMPONENT", ""),
		WithCaller:  rc.GetBool("CALLER", false),
		SampleEvery: rc.GetInt("SAMPLE_EVERY", 0),
	}
}

var (
	once   sync.Once
	root   atomic.Pointer[zerolog.Logger]
	inited atomic.Bool
)

// Logger is the project logging type, an alias so call sites write plain zerolog
type Logger = zerolog.Logger

// Get returns the root logger, building it from env on first use
func Get() *Logger {
	if !inited.Load() {
		Init(FromEnv())
	}
	return root.Load()
}

// Init builds the root logger exactly once; later calls are no-ops, so a
// binary that wants its own options must call it before anything logs
func Init(opt Options) {
	once.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano

		log := build(opt)
		root.Store(&log)
		inited.Store(true)
	})
}

// build assembles a logger from opt without touching the process root
func build(opt Options) zerolog.Logger {
	out := opt.Writer
	if out == nil {
		out = os.Stdout
	}
	if strings.EqualFold(strings.TrimSpace(opt.Format), "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).Level(parseLevel(opt.Level)).With().Timestamp()
	if bi, ok := debug.ReadBuildInfo(); ok {
		ctx = ctx.Str("go_version", bi.GoVersion)
	}
	if opt.Service != "" {
		ctx = ctx.Str("service", opt.Service)
	}
	if opt.Component != "" {
		ctx = ctx.Str("component", opt.Component)
	}
	for k, v := range opt.StaticFields {
		ctx = ctx.Str(k, v)
	}

	log := ctx.Logger()
	if opt.WithCaller {
		log = log.With().Caller().Logger()
	}
	if opt.SampleEvery > 1 {
		log = log.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
	}
	return log
}

// parseLevel leans on zerolog's own parser and folds the common synonym.
// zerolog maps "" to NoLevel without an error, hence the extra check.
func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	if lvl, err := zerolog.ParseLevel(s); err == nil && lvl != zerolog.NoLevel {
		return lvl
	}
	return zerolog.InfoLevel
}

// Canonical scope attribute names the helpers below stamp
const (
	FieldRequestID = "request_id"
	FieldRunID     = "run_id"
	FieldSource    = "source"
)

// WithRequest annotates ctx with the API request id
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return scope.With(ctx, map[string]string{FieldRequestID: reqID})
}

// WithRun annotates ctx with the scrape run id
func WithRun(ctx context.Context, runID string) context.Context {
	if runID == "" {
		return ctx
	}
	return scope.With(ctx, map[string]string{FieldRunID: runID})
}

// WithSource annotates ctx with the source currently being processed
func WithSource(ctx context.Context, source string) context.Context {
	if source == "" {
		return ctx
	}
	return scope.With(ctx, map[string]string{FieldSource: source})
}

// C returns a child logger carrying every scope attribute on ctx, the three
// canonical fields plus anything else a caller stamped via scope.With
func C(ctx context.Context) *Logger {
	l := Get()
	s := scope.From(ctx)
	if len(s.Values) == 0 {
		return l
	}
	builder := l.With()
	for _, k := range s.Keys() {
		if v := s.Values[k]; v != "" {
			builder = builder.Str(k, v)
		}
	}
	ll := builder.Logger()
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
