// Package idle implements the idle-time monitor (component C8): it polls
// an OS idle-time source and edge-triggers Pause(UserIdle)/Resume(UserIdle)
// as the idle duration crosses the configured threshold.
package idle

import (
	"context"

	"github.com/pilgrimlyieu/focust/internal/config"
	"github.com/pilgrimlyieu/focust/internal/log"
	"github.com/pilgrimlyieu/focust/internal/model"
	"github.com/pilgrimlyieu/focust/internal/monitor"
)

const (
	pollIntervalSeconds    = 10
	maxConsecutiveFailures = 3
)

// Source reports how long the user has been idle, in seconds. Backed by
// a platform-specific probe outside this module.
type Source interface {
	IdleSeconds(ctx context.Context) (int64, error)
}

// Monitor is the idle-time Monitor implementation.
type Monitor struct {
	source  Source
	cfgView *config.View

	wasIdle              bool
	consecutiveFailures  int
	disabled             bool
}

// New builds an idle Monitor reading its threshold from cfgView.
func New(source Source, cfgView *config.View) *Monitor {
	return &Monitor{source: source, cfgView: cfgView}
}

func (m *Monitor) Name() string             { return "idle" }
func (m *Monitor) IntervalSeconds() int     { return pollIntervalSeconds }
func (m *Monitor) SkipDuringSession() bool  { return true }

// OnStart establishes the initial idle/active baseline so the first Check
// after startup doesn't spuriously report an edge.
func (m *Monitor) OnStart(ctx context.Context) {
	idleS, err := m.source.IdleSeconds(ctx)
	if err != nil {
		return
	}
	m.wasIdle = idleS >= int64(m.cfgView.Snapshot().IdleThresholdS)
}

// Check reports the idle/active edge, if any, since the last call. After
// maxConsecutiveFailures consecutive source errors it self-disables and
// returns None without logging further, avoiding log spam from a
// permanently broken probe.
func (m *Monitor) Check(ctx context.Context) (monitor.Action, error) {
	if m.disabled {
		return monitor.NoneAction(), nil
	}

	idleS, err := m.source.IdleSeconds(ctx)
	if err != nil {
		m.consecutiveFailures++
		if m.consecutiveFailures >= maxConsecutiveFailures {
			m.disabled = true
			log.Warn(log.CatMonitor, "idle monitor self-disabling after repeated failures", "failures", m.consecutiveFailures)
		}
		return monitor.NoneAction(), err
	}
	m.consecutiveFailures = 0

	isIdleNow := idleS >= int64(m.cfgView.Snapshot().IdleThresholdS)
	if isIdleNow == m.wasIdle {
		return monitor.NoneAction(), nil
	}
	m.wasIdle = isIdleNow

	if isIdleNow {
		return monitor.PauseAction(model.PauseUserIdle), nil
	}
	return monitor.ResumeAction(model.PauseUserIdle), nil
}
