// Package model defines the data types shared across the scheduling core:
// identifiers, commands, events, and the break-info value the break
// scheduler carries through its state machine.
package model

import "time"

// BreakId identifies a configured mini/long break settings object.
// It is opaque and stable only for the lifetime of the process.
type BreakId uint64

// AttentionId identifies a configured attention reminder.
// It is opaque and stable only for the lifetime of the process.
type AttentionId uint64

// idCounter hands out process-wide monotonically increasing ids.
type idCounter struct {
	next uint64
}

func (c *idCounter) allocate() uint64 {
	c.next++
	return c.next
}

var (
	breakCounter     idCounter
	attentionCounter idCounter
)

// NextBreakId allocates the next BreakId. Config objects call this once,
// at creation time, and keep the result for their lifetime.
func NextBreakId() BreakId {
	return BreakId(breakCounter.allocate())
}

// NextAttentionId allocates the next AttentionId.
func NextAttentionId() AttentionId {
	return AttentionId(attentionCounter.allocate())
}

// EventKind tags a SchedulerEvent's variant.
type EventKind int

const (
	EventMiniBreak EventKind = iota
	EventLongBreak
	EventAttention
)

func (k EventKind) String() string {
	switch k {
	case EventMiniBreak:
		return "mini"
	case EventLongBreak:
		return "long"
	case EventAttention:
		return "attention"
	default:
		return "unknown"
	}
}

// SchedulerEvent is the tagged union MiniBreak(BreakId) | LongBreak(BreakId) | Attention(AttentionId).
// Exactly one of BreakID/AttentionID is meaningful, selected by Kind.
type SchedulerEvent struct {
	Kind        EventKind
	BreakID     BreakId
	AttentionID AttentionId
}

// MiniBreakEvent builds a SchedulerEvent for a completed/triggered mini break.
func MiniBreakEvent(id BreakId) SchedulerEvent {
	return SchedulerEvent{Kind: EventMiniBreak, BreakID: id}
}

// LongBreakEvent builds a SchedulerEvent for a completed/triggered long break.
func LongBreakEvent(id BreakId) SchedulerEvent {
	return SchedulerEvent{Kind: EventLongBreak, BreakID: id}
}

// AttentionEvent builds a SchedulerEvent for a fired attention reminder.
func AttentionEvent(id AttentionId) SchedulerEvent {
	return SchedulerEvent{Kind: EventAttention, AttentionID: id}
}

// Equal reports whether two SchedulerEvents refer to the same occurrence.
func (e SchedulerEvent) Equal(o SchedulerEvent) bool {
	if e.Kind != o.Kind {
		return false
	}
	switch e.Kind {
	case EventAttention:
		return e.AttentionID == o.AttentionID
	default:
		return e.BreakID == o.BreakID
	}
}

// PauseReason names a cause for scheduler inactivity. Multiple reasons
// stack; all must clear before the scheduler resumes.
type PauseReason int

const (
	PauseManual PauseReason = iota
	PauseUserIdle
	PauseDnd
	PauseAppExclusion
)

func (r PauseReason) String() string {
	switch r {
	case PauseManual:
		return "manual"
	case PauseUserIdle:
		return "user_idle"
	case PauseDnd:
		return "dnd"
	case PauseAppExclusion:
		return "app_exclusion"
	default:
		return "unknown"
	}
}

// CommandKind tags a Command's variant.
type CommandKind int

const (
	CmdPause CommandKind = iota
	CmdResume
	CmdPostpone
	CmdSkip
	CmdPromptFinished
	CmdTriggerEvent
	CmdUpdateConfig
	CmdRequestStatus
)

// Command is the tagged union routed through the broadcaster to the
// break scheduler and/or attention timer.
//
// Config carries an opaque payload for CmdUpdateConfig; the
// broadcaster treats it as `any` so this package does not depend on
// the config package (which would create an import cycle, since the
// config package imports this one).
type Command struct {
	Kind        CommandKind
	PauseReason PauseReason    // Pause / Resume
	Event       SchedulerEvent // PromptFinished / TriggerEvent
	Config      any            // UpdateConfig: a config.Config value, opaque here
}

// Pause builds a Command pausing the scheduler for reason r.
func Pause(r PauseReason) Command { return Command{Kind: CmdPause, PauseReason: r} }

// Resume builds a Command resuming the scheduler from reason r.
func Resume(r PauseReason) Command { return Command{Kind: CmdResume, PauseReason: r} }

// Postpone builds a Command requesting the active break be postponed.
func Postpone() Command { return Command{Kind: CmdPostpone} }

// Skip builds a Command requesting the active break be skipped.
func Skip() Command { return Command{Kind: CmdSkip} }

// PromptFinished builds a Command reporting that a prompt window closed.
func PromptFinished(e SchedulerEvent) Command {
	return Command{Kind: CmdPromptFinished, Event: e}
}

// TriggerEvent builds a Command requesting a manual/forced event.
func TriggerEvent(e SchedulerEvent) Command {
	return Command{Kind: CmdTriggerEvent, Event: e}
}

// UpdateConfig builds a Command replacing the active configuration.
func UpdateConfig(cfg any) Command { return Command{Kind: CmdUpdateConfig, Config: cfg} }

// RequestStatus builds a Command asking for the current scheduler status.
func RequestStatus() Command { return Command{Kind: CmdRequestStatus} }

// BreakInfo is the break scheduler's working state for the break or
// attention currently being waited on or presented.
type BreakInfo struct {
	BreakTime        time.Time
	NotificationTime *time.Time
	Event            SchedulerEvent
	PostponeCount    uint8
}

// StatusEvent is the "scheduler-status" payload broadcast on every
// transition and in response to a status request.
type StatusEvent struct {
	Paused           bool
	NextEvent        *NextEventInfo
	MiniBreakCounter uint8
}

// NextEventInfo describes the next scheduled occurrence for StatusEvent.
type NextEventInfo struct {
	Kind         EventKind
	Time         time.Time
	SecondsUntil int32
}

// PostponeLimitReached is the empty "postpone-limit-reached" payload.
type PostponeLimitReached struct{}

// BroadcastKind tags a Broadcast's variant.
type BroadcastKind int

const (
	BroadcastSchedulerEvent BroadcastKind = iota
	BroadcastStatus
	BroadcastPostponeLimitReached
)

// Broadcast is the tagged union published on the scheduler's best-effort
// event bus: SchedulerEvent | StatusEvent | PostponeLimitReached. Exactly
// one of Event/Status/PostponeLimit is meaningful, selected by Kind.
type Broadcast struct {
	Kind          BroadcastKind
	Event         SchedulerEvent
	Status        StatusEvent
	PostponeLimit PostponeLimitReached
}
