package pg

import (
	"context"
	"strings"

	"modelwatch/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent is one traced statement, emitted after it ran
type QueryEvent struct {
	SQL       string
	Args      []any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives every traced statement the adapter runs
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer builds the zerolog-backed tracer. The returned logger is pinned
// at debug so the SQL trace stays visible regardless of the root level
func Tracer(root logger.Logger) QueryTracer {
	ll := root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()
	return &zlTracer{log: ll}
}

type zlTracer struct{ log logger.Logger }

func (z *zlTracer) OnQuery(_ context.Context, ev QueryEvent) {
	// slow statements escalate to warn, everything else logs at info
	evt := z.log.Info()
	if ev.Slow {
		evt = z.log.Warn()
	}

	evt.Float64("elapsed_ms", float64(ev.ElapsedUS)/1000.0).
		Bool("slow", ev.Slow).
		Str("sql", oneline(ev.SQL)).
		Interface("args", ev.Args).
		Err(ev.Err).
		Msg("pg query")
}

// oneline collapses statement whitespace so multi-line SQL logs as one field
func oneline(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
