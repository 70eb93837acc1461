package collector

import (
	"context"

	"MacroSentinel/internal/model"
)

type traceKey struct{}

// WithTrace attaches a per-render diagnostic sink to ctx.
func WithTrace(ctx context.Context, t *model.Trace) context.Context {
	return context.WithValue(ctx, traceKey{}, t)
}

// TraceFrom returns the sink attached to ctx, or nil. A nil *model.Trace
// silently drops records.
func TraceFrom(ctx context.Context) *model.Trace {
	t, _ := ctx.Value(traceKey{}).(*model.Trace)
	return t
}
