package tracing

import "context"

// contextKey is a private type for context keys to avoid collisions with
// values stored by other packages.
type contextKey string

const traceIDKey contextKey = "trace_id"

// ContextWithTraceID returns a new context carrying traceID, read back
// with TraceIDFromContext. Transition calls this once per span so the
// actors it wraps (scheduler, attention timer, monitor orchestrator) can
// tag their own log lines with the span that produced them, without each
// actor reaching into the OpenTelemetry SDK itself. A zero traceID leaves
// ctx unchanged.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		return ctx
	}
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceIDFromContext extracts the trace ID stashed by ContextWithTraceID,
// or "" if ctx carries none (tracing disabled, or called outside a
// Transition span).
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v := ctx.Value(traceIDKey); v != nil {
		if traceID, ok := v.(string); ok {
			return traceID
		}
	}
	return ""
}
