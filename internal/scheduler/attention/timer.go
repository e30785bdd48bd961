package attention

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/pilgrimlyieu/focust/internal/clock"
	"github.com/pilgrimlyieu/focust/internal/collab"
	"github.com/pilgrimlyieu/focust/internal/config"
	"github.com/pilgrimlyieu/focust/internal/log"
	"github.com/pilgrimlyieu/focust/internal/model"
	"github.com/pilgrimlyieu/focust/internal/pubsub"
	"github.com/pilgrimlyieu/focust/internal/state"
	"github.com/pilgrimlyieu/focust/internal/tracing"
)

// Options configures a new Timer.
type Options struct {
	Clock    clock.Clock
	Config   *config.View
	Shared   *state.Shared
	Events   *pubsub.BroadcastBroker
	Windows  collab.WindowFactory
	Tracer   trace.Tracer // nil selects a no-op tracer

	// Commands is the attention timer's dedicated command channel,
	// populated by the broadcaster. Closing it is treated as shutdown.
	Commands <-chan model.Command
	// Shutdown is observed alongside Commands with priority over it.
	Shutdown <-chan struct{}
}

// Timer is the attention reminder task (component C6). It has no Paused
// state of its own: pause reasons never reach it, and it keeps scanning
// regardless of the break scheduler's state.
type Timer struct {
	clock   clock.Clock
	cfgView *config.View
	shared  *state.Shared
	events  *pubsub.BroadcastBroker
	windows collab.WindowFactory
	tracer  trace.Tracer

	commands <-chan model.Command
	shutdown <-chan struct{}

	scheduled bool
	nextFire  time.Time
	nextEvent model.SchedulerEvent
}

// New builds a Timer. The returned Timer does not start scanning until
// Run is called.
func New(opts Options) *Timer {
	tracer := opts.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("attention")
	}
	return &Timer{
		clock:    opts.Clock,
		cfgView:  opts.Config,
		shared:   opts.Shared,
		events:   opts.Events,
		windows:  opts.Windows,
		tracer:   tracer,
		commands: opts.Commands,
		shutdown: opts.Shutdown,
	}
}

// Run is the timer's actor loop. Mirrors the break scheduler's biased
// select discipline: shutdown, then commands, then timer expiry.
func (t *Timer) Run(ctx context.Context) {
	log.Info(log.CatAttention, "attention timer starting")
	t.recompute(ctx)

	for {
		var fireCh <-chan time.Time
		if t.scheduled {
			fireCh = t.clock.AfterTime(t.nextFire)
		}

		select {
		case <-t.shutdown:
			log.Info(log.CatAttention, "attention timer stopping")
			return
		default:
		}

		select {
		case <-t.shutdown:
			log.Info(log.CatAttention, "attention timer stopping")
			return
		case cmd, ok := <-t.commands:
			if !ok {
				log.Info(log.CatAttention, "command channel closed, stopping")
				return
			}
			t.handleCommand(ctx, cmd)
			continue
		default:
		}

		select {
		case <-t.shutdown:
			log.Info(log.CatAttention, "attention timer stopping")
			return
		case cmd, ok := <-t.commands:
			if !ok {
				log.Info(log.CatAttention, "command channel closed, stopping")
				return
			}
			t.handleCommand(ctx, cmd)
		case <-fireCh:
			t.onFireDue(ctx)
		}
	}
}

// recompute re-derives the next occurrence from the current config. A
// fire time already in the past (e.g. a clock jump during a long pause
// of the rest of the process) triggers immediately instead of being
// scheduled.
func (t *Timer) recompute(ctx context.Context) {
	cfg := t.cfgView.Snapshot()
	nowLocal := t.clock.NowLocal()

	event, fireAt, ok := Select(cfg, nowLocal)
	if !ok {
		t.scheduled = false
		log.Debug(log.CatAttention, "recompute: no enabled attentions, idle")
		return
	}

	if !fireAt.After(t.clock.NowUTC()) {
		log.Debug(log.CatAttention, "recompute: fire time already due, firing immediately")
		t.fire(ctx, event)
		return
	}

	t.scheduled = true
	t.nextFire = fireAt
	t.nextEvent = event
	log.Debug(log.CatAttention, "recompute: scheduled", "attention_id", event.AttentionID, "fire_at", fireAt)
}

// onFireDue fires the currently scheduled attention.
func (t *Timer) onFireDue(ctx context.Context) {
	if !t.scheduled {
		return
	}
	t.fire(ctx, t.nextEvent)
}

// fire starts the attention session, publishes the scheduler-event, asks
// the window collaborator to present it, and immediately recomputes the
// next occurrence — the timer does not wait for the window to close
// before continuing its own schedule, unlike the break scheduler.
func (t *Timer) fire(ctx context.Context, event model.SchedulerEvent) {
	t.scheduled = false
	t.shared.StartAttentionSession(t.clock.NowUTC())
	t.events.PublishSchedulerEvent(event)

	err := tracing.Transition(ctx, t.tracer, tracing.SpanPrefixTransition, "attention_due",
		[]attribute.KeyValue{attribute.Int64(tracing.AttrAttentionID, int64(event.AttentionID))},
		func(ctx context.Context) error {
			err := t.windows.Open(t.promptPayload(event))
			if err != nil {
				log.ErrorErrCtx(ctx, log.CatAttention, "failed to open attention window", err)
			}
			return err
		})
	if err != nil {
		t.shared.EndAttentionSession()
	}

	t.recompute(ctx)
}

// promptPayload builds the window-creation payload for event, resolving
// presentation fields from the configured attention.
func (t *Timer) promptPayload(event model.SchedulerEvent) collab.PromptPayload {
	cfg := t.cfgView.Snapshot()
	for _, a := range cfg.Attentions {
		if a.ID == event.AttentionID {
			return collab.PromptPayload{
				ID:         uint32(a.ID),
				Kind:       "attention",
				Title:      a.Title,
				Message:    a.Message,
				DurationS:  a.DurationS,
				Theme:      a.Theme,
				AllScreens: cfg.AllScreens,
				Language:   cfg.Language,
			}
		}
	}
	return collab.PromptPayload{ID: uint32(event.AttentionID), Kind: "attention"}
}
