package clock

import (
	"container/heap"
	"sync"
	"time"
)

// Virtual is a Clock whose "now" only moves when Advance is called. It
// lets tests drive the break scheduler and attention timer deterministically
// instead of racing real timers.
type Virtual struct {
	mu  sync.Mutex
	now time.Time
	loc *time.Location
	q   waiterQueue
}

// NewVirtual creates a Virtual clock starting at the instant start.
// NowUTC reports that instant in UTC and NowLocal reports it in loc
// (time.UTC when loc is nil).
func NewVirtual(start time.Time, loc *time.Location) *Virtual {
	if loc == nil {
		loc = time.UTC
	}
	v := &Virtual{now: start.UTC(), loc: loc}
	heap.Init(&v.q)
	return v
}

func (v *Virtual) NowUTC() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

func (v *Virtual) NowLocal() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now.In(v.loc)
}

type waiter struct {
	fireAt time.Time
	ch     chan time.Time
	index  int
}

type waiterQueue []*waiter

func (q waiterQueue) Len() int            { return len(q) }
func (q waiterQueue) Less(i, j int) bool  { return q[i].fireAt.Before(q[j].fireAt) }
func (q waiterQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index, q[j].index = i, j
}
func (q *waiterQueue) Push(x any) {
	w := x.(*waiter)
	w.index = len(*q)
	*q = append(*q, w)
}
func (q *waiterQueue) Pop() any {
	old := *q
	n := len(old)
	w := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return w
}

func (v *Virtual) After(d time.Duration) <-chan time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scheduleLocked(v.now.Add(d))
}

func (v *Virtual) AfterTime(t time.Time) <-chan time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scheduleLocked(t)
}

func (v *Virtual) scheduleLocked(fireAt time.Time) <-chan time.Time {
	ch := make(chan time.Time, 1)
	if !fireAt.After(v.now) {
		ch <- v.now
		return ch
	}
	heap.Push(&v.q, &waiter{fireAt: fireAt, ch: ch})
	return ch
}

// Advance moves the clock forward by d, releasing (in fireAt order) every
// timer that would have fired within the interval. Timers firing at the
// exact new "now" are released.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()
	target := v.now.Add(d)
	for v.q.Len() > 0 && !v.q[0].fireAt.After(target) {
		w := heap.Pop(&v.q).(*waiter)
		v.now = w.fireAt
		w.ch <- v.now
	}
	v.now = target
}

// SetNow jumps the clock directly to t without releasing timers, modeling
// a clock anomaly (e.g. system sleep/resume). Callers should follow with
// a recompute rather than Advance, since intervening timers are not fired.
func (v *Virtual) SetNow(t time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.now = t.UTC()
}

// PendingTimers returns the number of timers still waiting to fire.
func (v *Virtual) PendingTimers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.q.Len()
}
