// Package monitor defines the Monitor abstraction and the orchestrator
// that ticks every registered monitor, converting its reported Action
// into a Pause/Resume command forwarded to the broadcaster.
package monitor

import (
	"context"

	"github.com/pilgrimlyieu/focust/internal/model"
)

// ActionKind tags an Action's variant.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionPause
	ActionResume
)

// Action is a monitor's verdict after a single check: None, or
// Pause/Resume carrying the reason to report to the broadcaster.
type Action struct {
	Kind   ActionKind
	Reason model.PauseReason
}

// NoneAction reports no change.
func NoneAction() Action { return Action{Kind: ActionNone} }

// PauseAction reports that the scheduler should pause for reason r.
func PauseAction(r model.PauseReason) Action { return Action{Kind: ActionPause, Reason: r} }

// ResumeAction reports that the scheduler should resume from reason r.
func ResumeAction(r model.PauseReason) Action { return Action{Kind: ActionResume, Reason: r} }

// Monitor observes one environmental signal (idle time, DND state, a
// running-process exclusion list, ...) and reports a pause/resume
// recommendation.
type Monitor interface {
	// Name identifies the monitor in logs and traces.
	Name() string
	// IntervalSeconds is how often the orchestrator should call Check.
	// The orchestrator's actual tick period is the minimum across every
	// registered monitor, so a monitor may be checked more often than
	// this if a faster sibling is also registered.
	IntervalSeconds() int

	// Check performs a single observation and returns the action it
	// recommends, or an error if the observation itself failed
	// (distinct from the monitor being structurally unavailable).
	Check(ctx context.Context) (Action, error)

	// OnStart runs once before the orchestrator's first tick. Monitors
	// that need to establish a baseline (e.g. read the initial idle
	// time) do it here instead of on the first Check.
	OnStart(ctx context.Context)

	// SkipDuringSession reports whether this monitor should be skipped
	// while a break or attention session is active. Defaults to true in
	// every concrete monitor in this module; a fullscreen break window
	// can itself trigger OS-level DND, and without skipping, the DND
	// monitor would pause the scheduler in reaction to its own break.
	SkipDuringSession() bool
}
