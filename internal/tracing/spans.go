package tracing

// Span attribute keys used by the scheduling core's instrumentation.
const (
	// Event attributes
	AttrEventKind       = "event.kind" // "mini" | "long" | "attention"
	AttrBreakID         = "break.id"
	AttrAttentionID     = "attention.id"
	AttrPostponeCount   = "postpone.count"
	AttrPauseReason     = "pause.reason"
	AttrMiniBreakCount  = "mini_break.counter"
	AttrMonitorName     = "monitor.name"
	AttrCommandKind     = "command.kind"

	// Error attributes
	AttrErrorMessage = "error.message"
	AttrErrorType    = "error.type"
)

// SpanKind constants for categorizing span types.
const (
	SpanKindScheduler  = "scheduler"
	SpanKindAttention  = "attention"
	SpanKindMonitor    = "monitor"
	SpanKindBroadcast  = "broadcaster"
)

// Span name prefixes for consistent naming.
const (
	SpanPrefixTransition = "scheduler.transition."
	SpanPrefixCommand    = "scheduler.command."
	SpanPrefixMonitor    = "monitor.check."
)

// Event names for span events.
const (
	EventStatusEmitted       = "status.emitted"
	EventNotificationSent    = "notification.sent"
	EventWindowOpenFailed    = "window.open_failed"
	EventPostponeLimitHit    = "postpone.limit_reached"
	EventErrorOccurred       = "error.occurred"
)
