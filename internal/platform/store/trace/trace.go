// Package trace logs SQL statements issued by the warehouse adapters
package trace

import (
	"context"
	"strings"

	"marketingetl/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent describes one statement round trip
type QueryEvent struct {
	SQL       string
	Args      []any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives statement events
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer returns a tracer that prints every statement regardless of the root level.
// Batch statements carry hundreds of args, so only the count is logged.
func Tracer(root logger.Logger, component string) QueryTracer {
	ll := root.Level(zerolog.DebugLevel).With().Str("component", component).Logger()
	return &zlTracer{log: ll, msg: component + " query"}
}

type zlTracer struct {
	log logger.Logger
	msg string
}

func (z *zlTracer) OnQuery(_ context.Context, ev QueryEvent) {
	evt := z.log.Info()
	if ev.Slow {
		evt = z.log.Warn()
	}
	evt.Float64("elapsed_ms", float64(ev.ElapsedUS)/1000.0).
		Bool("slow", ev.Slow).
		Str("sql", compact(ev.SQL, 512)).
		Int("args", len(ev.Args)).
		Err(ev.Err).
		Msg(z.msg)
}

// Slow reports whether elapsedUS crossed the slowMs threshold; negative disables
func Slow(elapsedUS int64, slowMs int) bool {
	return slowMs >= 0 && elapsedUS >= int64(slowMs)*1000
}

// compact collapses whitespace runs and truncates to max bytes
func compact(s string, max int) string {
	out := strings.Join(strings.Fields(s), " ")
	if max > 0 && len(out) > max {
		out = out[:max] + "..."
	}
	return out
}
