package monitor

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/pilgrimlyieu/focust/internal/clock"
	"github.com/pilgrimlyieu/focust/internal/log"
	"github.com/pilgrimlyieu/focust/internal/model"
	"github.com/pilgrimlyieu/focust/internal/state"
	"github.com/pilgrimlyieu/focust/internal/tracing"
)

// minimumTickSeconds floors the orchestrator's tick period so a
// misconfigured zero/negative interval can never cause a busy loop.
const minimumTickSeconds = 1

// Options configures a new Orchestrator.
type Options struct {
	Clock    clock.Clock
	Shared   *state.Shared
	Monitors []Monitor
	Tracer   trace.Tracer // nil selects a no-op tracer

	// Commands is the orchestrator's outbound channel to the broadcaster.
	Commands chan<- model.Command
	Shutdown <-chan struct{}
}

// Orchestrator is the monitor driver (component C7). It ticks at the
// minimum of every registered monitor's interval and converts non-None
// actions into Pause/Resume commands for the broadcaster.
type Orchestrator struct {
	clock      clock.Clock
	shared     *state.Shared
	monitors   []Monitor
	tracer     trace.Tracer
	commands   chan<- model.Command
	shutdown   <-chan struct{}
	tickPeriod time.Duration
}

// New builds an Orchestrator over monitors.
func New(opts Options) *Orchestrator {
	tracer := opts.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("monitor")
	}
	return &Orchestrator{
		clock:      opts.Clock,
		shared:     opts.Shared,
		monitors:   opts.Monitors,
		tracer:     tracer,
		commands:   opts.Commands,
		shutdown:   opts.Shutdown,
		tickPeriod: time.Duration(minInterval(opts.Monitors)) * time.Second,
	}
}

func minInterval(monitors []Monitor) int {
	min := 0
	for _, m := range monitors {
		iv := m.IntervalSeconds()
		if iv < minimumTickSeconds {
			iv = minimumTickSeconds
		}
		if min == 0 || iv < min {
			min = iv
		}
	}
	if min == 0 {
		min = minimumTickSeconds
	}
	return min
}

// Run calls OnStart on every monitor, then ticks forever until shutdown
// fires or the command channel send fails because it was closed.
func (o *Orchestrator) Run(ctx context.Context) {
	log.Info(log.CatMonitor, "monitor orchestrator starting", "tick_period_s", int(o.tickPeriod.Seconds()), "monitor_count", len(o.monitors))
	for _, m := range o.monitors {
		m.OnStart(ctx)
	}

	for {
		select {
		case <-o.shutdown:
			log.Info(log.CatMonitor, "monitor orchestrator stopping")
			return
		case <-o.clock.After(o.tickPeriod):
			if !o.tick(ctx) {
				return
			}
		}
	}
}

// tick runs one check across every monitor, forwarding any resulting
// Pause/Resume command. Returns false if the command channel was closed,
// signaling Run to exit.
func (o *Orchestrator) tick(ctx context.Context) bool {
	inSession := o.shared.InAnySession()

	for _, m := range o.monitors {
		skip := m.SkipDuringSession() && inSession

		var action Action
		err := tracing.Transition(ctx, o.tracer, tracing.SpanPrefixMonitor, m.Name(),
			[]attribute.KeyValue{attribute.String(tracing.AttrMonitorName, m.Name())},
			func(ctx context.Context) error {
				var checkErr error
				action, checkErr = m.Check(ctx)
				if checkErr != nil {
					log.ErrorErrCtx(ctx, log.CatMonitor, "monitor check failed", checkErr, "monitor", m.Name())
				}
				return checkErr
			})
		if err != nil {
			continue
		}

		// Check still runs while skipped, so a monitor's side channel
		// (e.g. dnd's debounced event feed) keeps draining; only the
		// resulting action is discarded, to avoid reacting to side
		// effects of our own break/attention window (e.g. OS-level DND).
		if skip {
			continue
		}

		cmd, ok := commandFor(action)
		if !ok {
			continue
		}
		select {
		case o.commands <- cmd:
		case <-o.shutdown:
			return false
		}
	}
	return true
}

func commandFor(action Action) (model.Command, bool) {
	switch action.Kind {
	case ActionPause:
		return model.Pause(action.Reason), true
	case ActionResume:
		return model.Resume(action.Reason), true
	default:
		return model.Command{}, false
	}
}
