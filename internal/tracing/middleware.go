package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Transition wraps a state-transition function in a span named
// spanPrefix+label, recording err (if any) and the supplied attributes.
// Used by the break scheduler, attention timer, and monitor orchestrator
// to wrap each command or timer-driven transition when tracing is
// enabled; tracer is expected to be a no-op when tracing is disabled (see
// Provider), so this has negligible overhead either way.
//
// The context fn runs under also carries the span's trace ID (see
// ContextWithTraceID), so log lines written inside fn can be correlated
// with the exported span without fn needing to touch the OTel SDK.
func Transition(ctx context.Context, tracer trace.Tracer, spanPrefix, label string, attrs []attribute.KeyValue, fn func(ctx context.Context) error) error {
	ctx, span := tracer.Start(ctx, spanPrefix+label, trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}

	if sc := span.SpanContext(); sc.HasTraceID() {
		ctx = ContextWithTraceID(ctx, sc.TraceID().String())
	}

	err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	return err
}
