// Package appwhitelist implements the app-exclusion monitor (component
// C8): it pauses or resumes the scheduler based on whether any process
// in a configured exclusion list is currently running.
package appwhitelist

import (
	"context"
	"strings"

	"github.com/pilgrimlyieu/focust/internal/config"
	"github.com/pilgrimlyieu/focust/internal/log"
	"github.com/pilgrimlyieu/focust/internal/model"
	"github.com/pilgrimlyieu/focust/internal/monitor"
)

const (
	pollIntervalSeconds    = 10
	maxConsecutiveFailures = 3
)

// ProcessInfo is one running process as reported by Lister.
type ProcessInfo struct {
	Name string
	Path string
}

// Lister enumerates currently running processes. Backed by a
// platform-specific probe outside this module.
type Lister interface {
	ListProcesses(ctx context.Context) ([]ProcessInfo, error)
}

// Monitor is the app-exclusion Monitor implementation.
type Monitor struct {
	lister  Lister
	cfgView *config.View

	reportedPaused      bool
	consecutiveFailures int
	disabled            bool
}

// New builds an app-exclusion Monitor reading its rule list from cfgView.
func New(lister Lister, cfgView *config.View) *Monitor {
	return &Monitor{lister: lister, cfgView: cfgView}
}

func (m *Monitor) Name() string            { return "app_whitelist" }
func (m *Monitor) IntervalSeconds() int    { return pollIntervalSeconds }
func (m *Monitor) SkipDuringSession() bool { return true }
func (m *Monitor) OnStart(context.Context) {}

// Check picks the first active AppExclusion and decides pause/resume per
// its rule, edge-triggering only on a change from the last reported
// state. Repeated listing failures self-disable the monitor.
func (m *Monitor) Check(ctx context.Context) (monitor.Action, error) {
	if m.disabled {
		return monitor.NoneAction(), nil
	}

	rule, ok := firstActive(m.cfgView.Snapshot().AppExclusions)
	if !ok {
		if m.reportedPaused {
			m.reportedPaused = false
			return monitor.ResumeAction(model.PauseAppExclusion), nil
		}
		return monitor.NoneAction(), nil
	}

	procs, err := m.lister.ListProcesses(ctx)
	if err != nil {
		m.consecutiveFailures++
		if m.consecutiveFailures >= maxConsecutiveFailures {
			m.disabled = true
			log.Warn(log.CatMonitor, "app-whitelist monitor self-disabling after repeated failures", "failures", m.consecutiveFailures)
		}
		return monitor.NoneAction(), err
	}
	m.consecutiveFailures = 0

	anyRunning := matchesAny(rule.Processes, procs)
	var shouldPause bool
	switch rule.Rule {
	case config.RulePause:
		shouldPause = anyRunning
	case config.RuleResume:
		shouldPause = !anyRunning
	}

	if shouldPause == m.reportedPaused {
		return monitor.NoneAction(), nil
	}
	m.reportedPaused = shouldPause

	if shouldPause {
		return monitor.PauseAction(model.PauseAppExclusion), nil
	}
	return monitor.ResumeAction(model.PauseAppExclusion), nil
}

func firstActive(exclusions []config.AppExclusion) (config.AppExclusion, bool) {
	for _, e := range exclusions {
		if e.Active {
			return e, true
		}
	}
	return config.AppExclusion{}, false
}

func matchesAny(patterns []string, procs []ProcessInfo) bool {
	for _, p := range procs {
		for _, pat := range patterns {
			if matchesOne(pat, p) {
				return true
			}
		}
	}
	return false
}

// matchesOne compares pat against a process's name and executable path,
// case-insensitively, accepting an exact, suffix, or substring match.
func matchesOne(pat string, p ProcessInfo) bool {
	pat = strings.ToLower(pat)
	name := strings.ToLower(p.Name)
	path := strings.ToLower(p.Path)

	if pat == name || pat == path {
		return true
	}
	if strings.HasSuffix(name, pat) || strings.HasSuffix(path, pat) {
		return true
	}
	return strings.Contains(name, pat) || strings.Contains(path, pat)
}
