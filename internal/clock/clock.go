// Package clock abstracts "now" so the scheduling core can be driven by a
// virtual clock under test instead of wall-clock time.
package clock

import "time"

// Clock exposes UTC and local-zone time to the scheduling core.
type Clock interface {
	// NowUTC returns the current instant in UTC.
	NowUTC() time.Time
	// NowLocal returns the current instant in the configured local zone.
	NowLocal() time.Time
	// After returns a channel that receives the current time once d has
	// elapsed. Mirrors time.After but is routed through the clock so
	// virtual clocks can control firing.
	After(d time.Duration) <-chan time.Time
	// AfterTime returns a channel that fires once the clock reaches t.
	// If t is already in the past, the channel fires immediately.
	AfterTime(t time.Time) <-chan time.Time
}

// Real is a Clock backed by the system clock and real timers.
type Real struct {
	loc *time.Location
}

// NewReal creates a Real clock using loc for NowLocal (time.Local if nil).
func NewReal(loc *time.Location) *Real {
	if loc == nil {
		loc = time.Local
	}
	return &Real{loc: loc}
}

func (r *Real) NowUTC() time.Time { return time.Now().UTC() }

func (r *Real) NowLocal() time.Time { return time.Now().In(r.loc) }

func (r *Real) After(d time.Duration) <-chan time.Time { return time.After(d) }

func (r *Real) AfterTime(t time.Time) <-chan time.Time {
	d := time.Until(t)
	if d < 0 {
		d = 0
	}
	return time.After(d)
}
