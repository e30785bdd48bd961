package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTraceIDFromContextEmptyContext(t *testing.T) {
	ctx := context.Background()
	require.Equal(t, "", TraceIDFromContext(ctx))
}

func TestTraceIDFromContextNilContext(t *testing.T) {
	//nolint:staticcheck // testing nil context handling
	require.Equal(t, "", TraceIDFromContext(nil))
}

func TestContextWithTraceIDRoundtrip(t *testing.T) {
	ctx := context.Background()
	const want = "abc123def456789012345678901234ff"

	ctx = ContextWithTraceID(ctx, want)
	require.Equal(t, want, TraceIDFromContext(ctx))
}

func TestContextWithTraceIDEmptyLeavesExistingValueInPlace(t *testing.T) {
	ctx := context.Background()
	ctx = ContextWithTraceID(ctx, "original-trace-id")

	ctx2 := ContextWithTraceID(ctx, "")
	require.Equal(t, "original-trace-id", TraceIDFromContext(ctx2))
}

func TestContextWithTraceIDOverwrite(t *testing.T) {
	ctx := context.Background()
	ctx = ContextWithTraceID(ctx, "first-trace-id")
	ctx = ContextWithTraceID(ctx, "second-trace-id")

	require.Equal(t, "second-trace-id", TraceIDFromContext(ctx))
}
