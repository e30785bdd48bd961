// Package state holds the scheduler's shared pause/session state (see
// component C3): the set of active pause reasons and whether a break or
// attention session is currently being presented.
package state

import (
	"sync"
	"time"

	"github.com/pilgrimlyieu/focust/internal/model"
)

// Shared is the mutable state shared between the broadcaster, both
// schedulers, and the monitor orchestrator. All mutation goes through the
// four explicit operations below; there is no direct field access.
type Shared struct {
	mu sync.RWMutex

	pauseReasons map[model.PauseReason]struct{}

	inBreakSession     bool
	inAttentionSession bool

	// Debug-only timestamps; never read by scheduling logic.
	breakSessionStartedAt     time.Time
	attentionSessionStartedAt time.Time
}

// New creates an empty Shared state: not paused, no session active.
func New() *Shared {
	return &Shared{pauseReasons: make(map[model.PauseReason]struct{})}
}

// AddPauseReason adds r to the pause-reason set. Returns true only if this
// call transitioned Running -> Paused (the set was empty beforehand);
// adding an already-present reason is a no-op and returns false.
func (s *Shared) AddPauseReason(r model.PauseReason) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	wasEmpty := len(s.pauseReasons) == 0
	if _, present := s.pauseReasons[r]; present {
		return false
	}
	s.pauseReasons[r] = struct{}{}
	return wasEmpty
}

// RemovePauseReason removes r from the pause-reason set. Returns true only
// if this call transitioned Paused -> Running (the set became empty).
// Removing an absent reason is accepted and returns false.
func (s *Shared) RemovePauseReason(r model.PauseReason) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, present := s.pauseReasons[r]; !present {
		return false
	}
	delete(s.pauseReasons, r)
	return len(s.pauseReasons) == 0
}

// IsPaused reports whether any pause reason is active.
func (s *Shared) IsPaused() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pauseReasons) > 0
}

// PauseReasons returns a snapshot of the active pause reasons.
func (s *Shared) PauseReasons() []model.PauseReason {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.PauseReason, 0, len(s.pauseReasons))
	for r := range s.pauseReasons {
		out = append(out, r)
	}
	return out
}

// StartBreakSession marks a break as currently being presented.
func (s *Shared) StartBreakSession(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inBreakSession = true
	s.breakSessionStartedAt = now
}

// EndBreakSession marks the current break session as finished.
func (s *Shared) EndBreakSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inBreakSession = false
}

// InBreakSession reports whether a break is currently being presented.
func (s *Shared) InBreakSession() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inBreakSession
}

// StartAttentionSession marks an attention as currently being presented.
func (s *Shared) StartAttentionSession(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inAttentionSession = true
	s.attentionSessionStartedAt = now
}

// EndAttentionSession marks the current attention session as finished.
func (s *Shared) EndAttentionSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inAttentionSession = false
}

// InAttentionSession reports whether an attention is currently presented.
func (s *Shared) InAttentionSession() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inAttentionSession
}

// InAnySession reports whether a break or attention session is active.
// The monitor orchestrator uses this to decide whether to skip a monitor
// that would otherwise observe its own break window's side effects.
func (s *Shared) InAnySession() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inBreakSession || s.inAttentionSession
}
