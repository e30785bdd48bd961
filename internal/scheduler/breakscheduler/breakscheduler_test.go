package breakscheduler_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilgrimlyieu/focust/internal/clock"
	"github.com/pilgrimlyieu/focust/internal/collab"
	"github.com/pilgrimlyieu/focust/internal/config"
	"github.com/pilgrimlyieu/focust/internal/model"
	"github.com/pilgrimlyieu/focust/internal/pubsub"
	"github.com/pilgrimlyieu/focust/internal/scheduler/breakscheduler"
	"github.com/pilgrimlyieu/focust/internal/state"
)

// fakeWindows records Open/Close calls and can be made to fail Open once.
type fakeWindows struct {
	mu       sync.Mutex
	opened   []collab.PromptPayload
	closed   []model.SchedulerEvent
	failNext bool
}

func (f *fakeWindows) Open(p collab.PromptPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		f.failNext = false
		return errors.New("window open failed")
	}
	f.opened = append(f.opened, p)
	return nil
}

func (f *fakeWindows) Close(e model.SchedulerEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, e)
	return nil
}

func (f *fakeWindows) openCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.opened)
}

func (f *fakeWindows) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.closed)
}

func (f *fakeWindows) lastPayload() collab.PromptPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.opened) == 0 {
		return collab.PromptPayload{}
	}
	return f.opened[len(f.opened)-1]
}

// fakeNotifier records Notify calls.
type fakeNotifier struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeNotifier) Notify(kind, title, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return nil
}

func (f *fakeNotifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// testHarness bundles a running Scheduler with everything a test needs to
// drive it and observe its broadcasts.
type testHarness struct {
	scheduler *breakscheduler.Scheduler
	commands  chan model.Command
	shutdown  chan struct{}
	shared    *state.Shared
	windows   *fakeWindows
	notifier  *fakeNotifier

	mu   sync.Mutex
	seen []model.Broadcast
}

func newHarness(t *testing.T, cfg config.Config, vc *clock.Virtual) *testHarness {
	t.Helper()

	h := &testHarness{
		commands: make(chan model.Command, 8),
		shutdown: make(chan struct{}),
		shared:   state.New(),
		windows:  &fakeWindows{},
		notifier: &fakeNotifier{},
	}

	events := pubsub.NewBroadcastBroker()
	h.scheduler = breakscheduler.New(breakscheduler.Options{
		Clock:    vc,
		Config:   config.NewView(cfg),
		Shared:   h.shared,
		Events:   events,
		Windows:  h.windows,
		Notifier: h.notifier,
		Commands: h.commands,
		Shutdown: h.shutdown,
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	evCh := events.Subscribe(ctx)
	go func() {
		for ev := range evCh {
			h.mu.Lock()
			h.seen = append(h.seen, ev.Payload)
			h.mu.Unlock()
		}
	}()

	go h.scheduler.Run(ctx)
	t.Cleanup(func() { close(h.shutdown) })

	return h
}

func (h *testHarness) hasStatusWithNextEventAt(want time.Time) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, b := range h.seen {
		if b.Kind == model.BroadcastStatus && b.Status.NextEvent != nil && b.Status.NextEvent.Time.Equal(want) {
			return true
		}
	}
	return false
}

func (h *testHarness) hasStatusWithCounter(counter uint8) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, b := range h.seen {
		if b.Kind == model.BroadcastStatus && b.Status.MiniBreakCounter == counter {
			return true
		}
	}
	return false
}

func (h *testHarness) hasPausedStatus() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, b := range h.seen {
		if b.Kind == model.BroadcastStatus && b.Status.Paused {
			return true
		}
	}
	return false
}

func (h *testHarness) hasPostponeLimitReached() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, b := range h.seen {
		if b.Kind == model.BroadcastPostponeLimitReached {
			return true
		}
	}
	return false
}

func (h *testHarness) hasSchedulerEvent(event model.SchedulerEvent) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, b := range h.seen {
		if b.Kind == model.BroadcastSchedulerEvent && b.Event.Equal(event) {
			return true
		}
	}
	return false
}

// testConfig builds a single-schedule config matching the concrete
// end-to-end scenarios: all-day, all-week, configurable interval,
// notification lead, long-break threshold, and postpone limits.
func testConfig(intervalS, notifyBeforeS int32, longAfter uint8, postponedS int32, maxPostpone uint8) (config.Config, model.BreakId, model.BreakId) {
	miniID := model.NextBreakId()
	longID := model.NextBreakId()

	cfg := config.Config{
		Schedules: []config.Schedule{
			{
				Name:    "Work hours",
				Enabled: true,
				TimeRange: config.TimeRange{
					Start: config.TimeOfDay{Hour: 0, Minute: 0, Second: 0},
					End:   config.TimeOfDay{Hour: 23, Minute: 59, Second: 59},
				},
				DaysOfWeek:          config.AllDays,
				NotificationBeforeS: notifyBeforeS,
				MiniBreaks: config.MiniBreakSettings{
					IntervalS: intervalS,
					Base: config.BaseBreakSettings{
						ID:               miniID,
						Enabled:          true,
						DurationS:        20,
						PostponedS:       postponedS,
						MaxPostponeCount: maxPostpone,
					},
				},
				LongBreaks: config.LongBreakSettings{
					AfterMiniBreaks: longAfter,
					Base: config.BaseBreakSettings{
						ID:               longID,
						Enabled:          true,
						DurationS:        300,
						PostponedS:       postponedS,
						MaxPostponeCount: maxPostpone,
					},
				},
			},
		},
		PostponeShortcut: "P",
		AllScreens:       true,
		Language:         "en",
	}
	return cfg, miniID, longID
}

const waitTimeout = 2 * time.Second
const waitTick = 2 * time.Millisecond

// TestBasicMiniBreakCycle exercises concrete scenario 1: notification at
// t=50s, break at t=60s, completion at t=65s, next break at t=125s with
// mini_break_counter=1.
func TestBasicMiniBreakCycle(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	vc := clock.NewVirtual(start, time.UTC)
	cfg, miniID, _ := testConfig(60, 10, 4, 300, 3)

	h := newHarness(t, cfg, vc)

	require.Eventually(t, func() bool {
		return h.hasStatusWithNextEventAt(start.Add(60 * time.Second))
	}, waitTimeout, waitTick, "expected initial break scheduled at t=60s")

	vc.Advance(50 * time.Second)
	require.Eventually(t, func() bool {
		return h.notifier.callCount() >= 1
	}, waitTimeout, waitTick, "expected notification at t=50s")

	vc.Advance(10 * time.Second)
	require.Eventually(t, func() bool {
		return h.windows.openCount() >= 1
	}, waitTimeout, waitTick, "expected break window opened at t=60s")

	payload := h.windows.lastPayload()
	assert.Equal(t, "mini", payload.Kind)
	assert.Equal(t, uint32(miniID), payload.ID)
	assert.True(t, h.shared.InBreakSession())

	vc.Advance(5 * time.Second)
	h.commands <- model.PromptFinished(model.MiniBreakEvent(miniID))

	require.Eventually(t, func() bool {
		return h.hasStatusWithNextEventAt(start.Add(125 * time.Second)) && h.hasStatusWithCounter(1)
	}, waitTimeout, waitTick, "expected next break at t=125s with counter=1")
	assert.False(t, h.shared.InBreakSession())
}

// TestLongBreakAfterThreshold exercises concrete scenario 2: after
// mini_break_counter reaches after_mini_breaks, the selection yields a
// LongBreak, and completing it resets the counter to 0.
func TestLongBreakAfterThreshold(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	vc := clock.NewVirtual(start, time.UTC)
	cfg, miniID, longID := testConfig(60, 0, 4, 300, 3)

	h := newHarness(t, cfg, vc)

	completeOneMiniBreak := func(expectCounterAfter uint8) {
		require.Eventually(t, func() bool {
			return h.windows.openCount() > 0 && h.windows.lastPayload().Kind == "mini"
		}, waitTimeout, waitTick)
		h.commands <- model.PromptFinished(model.MiniBreakEvent(miniID))
		require.Eventually(t, func() bool {
			return h.hasStatusWithCounter(expectCounterAfter)
		}, waitTimeout, waitTick)
		vc.Advance(60 * time.Second)
	}

	vc.Advance(60 * time.Second)
	completeOneMiniBreak(1)
	completeOneMiniBreak(2)
	completeOneMiniBreak(3)
	completeOneMiniBreak(4)

	require.Eventually(t, func() bool {
		return h.windows.openCount() > 0 && h.windows.lastPayload().Kind == "long"
	}, waitTimeout, waitTick, "expected a LongBreak once counter reaches the threshold")
	assert.Equal(t, uint32(longID), h.windows.lastPayload().ID)

	h.commands <- model.PromptFinished(model.LongBreakEvent(longID))
	require.Eventually(t, func() bool {
		return h.hasStatusWithCounter(0)
	}, waitTimeout, waitTick, "expected counter reset to 0 after completing the long break")
}

// TestPostponeWithinLimitThenHitsLimit exercises concrete scenario 3.
func TestPostponeWithinLimitThenHitsLimit(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	vc := clock.NewVirtual(start, time.UTC)
	cfg, _, _ := testConfig(60, 0, 100, 300, 2)

	h := newHarness(t, cfg, vc)

	require.Eventually(t, func() bool {
		return h.hasStatusWithNextEventAt(start.Add(60 * time.Second))
	}, waitTimeout, waitTick)

	vc.Advance(50 * time.Second) // T-10s, T=60s
	h.commands <- model.Postpone()
	require.Eventually(t, func() bool {
		return h.hasStatusWithNextEventAt(start.Add(350 * time.Second))
	}, waitTimeout, waitTick, "first postpone: break_time = (T-10s) + 300s")

	h.commands <- model.Postpone()
	require.Eventually(t, func() bool {
		return h.hasStatusWithNextEventAt(start.Add(350 * time.Second))
	}, waitTimeout, waitTick)

	h.commands <- model.Postpone()
	require.Eventually(t, func() bool {
		return h.hasPostponeLimitReached()
	}, waitTimeout, waitTick, "third postpone exceeds max_postpone_count=2")
}

// TestPauseResetsLastBreakTimeAndResumeRestartsInterval covers the Pause
// reset rule for environmental pause reasons and Resume's interval-restart
// rule.
func TestPauseResetsLastBreakTimeAndResumeRestartsInterval(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	vc := clock.NewVirtual(start, time.UTC)
	cfg, _, _ := testConfig(60, 0, 100, 300, 3)

	h := newHarness(t, cfg, vc)

	require.Eventually(t, func() bool {
		return h.hasStatusWithNextEventAt(start.Add(60 * time.Second))
	}, waitTimeout, waitTick)

	vc.Advance(30 * time.Second)
	h.commands <- model.Pause(model.PauseUserIdle)
	require.Eventually(t, h.hasPausedStatus, waitTimeout, waitTick)

	vc.Advance(10000 * time.Second) // a very long pause
	h.commands <- model.Resume(model.PauseUserIdle)

	want := start.Add(30*time.Second + 10000*time.Second + 60*time.Second)
	require.Eventually(t, func() bool {
		return h.hasStatusWithNextEventAt(want)
	}, waitTimeout, waitTick, "interval should restart from resume time, not from the stale last break time")
}

// TestSkipAdvancesCountersWithoutPresentingWindow covers Skip treating the
// pending break as completed without ever opening a window.
func TestSkipAdvancesCountersWithoutPresentingWindow(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	vc := clock.NewVirtual(start, time.UTC)
	cfg, _, _ := testConfig(60, 0, 100, 300, 3)

	h := newHarness(t, cfg, vc)

	require.Eventually(t, func() bool {
		return h.hasStatusWithNextEventAt(start.Add(60 * time.Second))
	}, waitTimeout, waitTick)

	h.commands <- model.Skip()
	require.Eventually(t, func() bool {
		return h.hasStatusWithCounter(1)
	}, waitTimeout, waitTick, "skip should bump counters as if the break completed")
	assert.Equal(t, 0, h.windows.openCount(), "skip should never present a window")
}

// TestManualTriggerEntersBreakImmediatelyRegardlessOfPhase covers
// TriggerEvent forcing InBreak from Idle.
func TestManualTriggerEntersBreakImmediatelyRegardlessOfPhase(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	vc := clock.NewVirtual(start, time.UTC)
	cfg, miniID, _ := testConfig(60, 0, 100, 300, 3)

	h := newHarness(t, cfg, vc)

	event := model.MiniBreakEvent(miniID)
	h.commands <- model.TriggerEvent(event)

	require.Eventually(t, func() bool {
		return h.hasSchedulerEvent(event)
	}, waitTimeout, waitTick, "manual trigger should emit the scheduler-event immediately")
	require.Eventually(t, func() bool {
		return h.windows.openCount() > 0
	}, waitTimeout, waitTick)
}

// TestWindowOpenFailureEndsSessionAndRecomputes covers the error-handling
// rule that a window-creation failure ends the break session and
// recomputes instead of wedging the scheduler in InBreak.
func TestWindowOpenFailureEndsSessionAndRecomputes(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	vc := clock.NewVirtual(start, time.UTC)
	cfg, _, _ := testConfig(60, 0, 100, 300, 3)

	h := newHarness(t, cfg, vc)
	h.windows.mu.Lock()
	h.windows.failNext = true
	h.windows.mu.Unlock()

	require.Eventually(t, func() bool {
		return h.hasStatusWithNextEventAt(start.Add(60 * time.Second))
	}, waitTimeout, waitTick)

	vc.Advance(60 * time.Second)

	require.Eventually(t, func() bool {
		return !h.shared.InBreakSession()
	}, waitTimeout, waitTick, "a window-open failure must not leave the scheduler stuck in InBreak")
	require.Eventually(t, func() bool {
		return h.hasStatusWithNextEventAt(start.Add(120 * time.Second))
	}, waitTimeout, waitTick, "recompute after the failed break should schedule the next one from the original anchor")
}

// TestRequestStatusWhilePausedReportsPausedTrue covers RequestStatus being
// handled uniformly across states, including Paused.
func TestRequestStatusWhilePausedReportsPausedTrue(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	vc := clock.NewVirtual(start, time.UTC)
	cfg, _, _ := testConfig(60, 0, 100, 300, 3)

	h := newHarness(t, cfg, vc)
	h.commands <- model.Pause(model.PauseManual)
	require.Eventually(t, h.hasPausedStatus, waitTimeout, waitTick)

	h.commands <- model.RequestStatus()
	require.Eventually(t, h.hasPausedStatus, waitTimeout, waitTick)
}
