// Package dnd implements the do-not-disturb monitor (component C8): it
// wraps a platform event source and debounces reported state changes
// before emitting Pause(Dnd)/Resume(Dnd).
package dnd

import (
	"context"
	"errors"
	"time"

	"github.com/pilgrimlyieu/focust/internal/clock"
	"github.com/pilgrimlyieu/focust/internal/model"
	"github.com/pilgrimlyieu/focust/internal/monitor"
)

const debounceWindow = 3 * time.Second

// Event is a DND state change reported by the platform source.
type Event int

const (
	Started Event = iota
	Finished
)

// Source pushes DND state changes onto a channel. Closing the channel
// marks the monitor unavailable.
type Source interface {
	Events() <-chan Event
}

// Monitor is the DND Monitor implementation.
type Monitor struct {
	source Source
	clock  clock.Clock

	unavailable    bool
	reportedActive bool
	pending        *Event
	pendingAt      time.Time
}

// New builds a DND Monitor over source, using c to time the debounce window.
func New(source Source, c clock.Clock) *Monitor {
	return &Monitor{source: source, clock: c}
}

func (m *Monitor) Name() string            { return "dnd" }
func (m *Monitor) IntervalSeconds() int    { return 3 }
func (m *Monitor) SkipDuringSession() bool { return true }
func (m *Monitor) OnStart(context.Context) {}

// Check drains any newly-reported events (keeping only the latest), then
// reports an edge only once the latest value has held stable for at
// least debounceWindow.
func (m *Monitor) Check(ctx context.Context) (monitor.Action, error) {
	if m.unavailable {
		return monitor.NoneAction(), nil
	}

	m.drainLatest()
	if m.unavailable {
		return monitor.NoneAction(), errors.New("dnd source channel closed")
	}

	if m.pending == nil || m.clock.NowUTC().Sub(m.pendingAt) < debounceWindow {
		return monitor.NoneAction(), nil
	}

	active := *m.pending == Started
	m.pending = nil
	if active == m.reportedActive {
		return monitor.NoneAction(), nil
	}
	m.reportedActive = active

	if active {
		return monitor.PauseAction(model.PauseDnd), nil
	}
	return monitor.ResumeAction(model.PauseDnd), nil
}

func (m *Monitor) drainLatest() {
	for {
		select {
		case ev, ok := <-m.source.Events():
			if !ok {
				m.unavailable = true
				return
			}
			e := ev
			m.pending = &e
			m.pendingAt = m.clock.NowUTC()
		default:
			return
		}
	}
}
