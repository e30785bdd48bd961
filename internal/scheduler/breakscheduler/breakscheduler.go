// Package breakscheduler implements the break lifecycle state machine:
// Idle, WaitForNotification, WaitForBreak, and InBreak, with a Paused
// sibling that any of the active states can transition into. It owns the
// mini/long break counters and last-break timestamp, consults the
// selection package to compute the next occurrence, and drives the
// window/notification collaborators at the right transitions.
package breakscheduler

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
	"github.com/pilgrimlyieu/focust/internal/selection"
	"github.com/pilgrimlyieu/focust/internal/state"
	"github.com/pilgrimlyieu/focust/internal/tracing"
)

// Options configures a new Scheduler.
type Options struct {
	Clock    clock.Clock
	Config   *config.View
	Shared   *state.Shared
	Events   *pubsub.BroadcastBroker
	Windows  collab.WindowFactory
	Notifier collab.NotificationSink
	Tracer   trace.Tracer // nil selects a no-op tracer

	// Commands is the scheduler's dedicated command channel, populated by
	// the broadcaster. Closing it is treated as shutdown.
	Commands <-chan model.Command
	// Shutdown is observed alongside Commands with priority over it.
	Shutdown <-chan struct{}

	// StartPaused, if non-nil, starts the scheduler in Paused(*StartPaused)
	// instead of Idle.
	StartPaused *model.PauseReason
}

// Scheduler is the break lifecycle state machine (component C5).
type Scheduler struct {
	clock    clock.Clock
	cfgView  *config.View
	shared   *state.Shared
	events   *pubsub.BroadcastBroker
	windows  collab.WindowFactory
	notifier collab.NotificationSink
	tracer   trace.Tracer

	commands <-chan model.Command
	shutdown <-chan struct{}

	phase       phase
	info        model.BreakInfo
	pauseReason model.PauseReason

	miniBreakCounter uint8
	lastBreakTime    time.Time
}

// New builds a Scheduler in Idle (or Paused, per Options.StartPaused).
func New(opts Options) *Scheduler {
	tracer := opts.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("breakscheduler")
	}

	s := &Scheduler{
		clock:    opts.Clock,
		cfgView:  opts.Config,
		shared:   opts.Shared,
		events:   opts.Events,
		windows:  opts.Windows,
		notifier: opts.Notifier,
		tracer:   tracer,
		commands: opts.Commands,
		shutdown: opts.Shutdown,
		phase:    phaseIdle,
	}
	if opts.StartPaused != nil {
		s.phase = phasePaused
		s.pauseReason = *opts.StartPaused
	}
	return s
}

// Run is the scheduler's actor loop. It blocks until the shutdown signal
// fires or the command channel is closed. A biased select gives shutdown
// priority over commands, and commands priority over timer expiry, so a
// just-postponed break cannot fire from its stale timer.
func (s *Scheduler) Run(ctx context.Context) {
	log.Info(log.CatScheduler, "break scheduler starting", "phase", s.phase.String())

	if s.phase != phasePaused {
		s.recompute(ctx)
	} else {
		s.emitStatus()
	}

	for {
		var notifyCh, breakCh <-chan time.Time
		switch s.phase {
		case phaseWaitForNotification:
			notifyCh = s.clock.AfterTime(*s.info.NotificationTime)
		case phaseWaitForBreak:
			breakCh = s.clock.AfterTime(s.info.BreakTime)
		}

		select {
		case <-s.shutdown:
			log.Info(log.CatScheduler, "break scheduler stopping")
			return
		default:
		}

		select {
		case <-s.shutdown:
			log.Info(log.CatScheduler, "break scheduler stopping")
			return
		case cmd, ok := <-s.commands:
			if !ok {
				log.Info(log.CatScheduler, "command channel closed, stopping")
				return
			}
			s.handleCommand(ctx, cmd)
			continue
		default:
		}

		select {
		case <-s.shutdown:
			log.Info(log.CatScheduler, "break scheduler stopping")
			return
		case cmd, ok := <-s.commands:
			if !ok {
				log.Info(log.CatScheduler, "command channel closed, stopping")
				return
			}
			s.handleCommand(ctx, cmd)
		case <-notifyCh:
			s.onNotificationDue(ctx)
		case <-breakCh:
			s.onBreakDue(ctx)
		}
	}
}

// recompute re-derives the scheduler's state from the current config and
// counters. Called on entry, after any command that invalidates the
// current wait, and after config updates. Never called while Paused.
func (s *Scheduler) recompute(ctx context.Context) {
	cfg := s.cfgView.Snapshot()
	now := s.clock.NowUTC()

	info, ok := selection.Select(cfg, now, s.miniBreakCounter, s.lastBreakTime)
	if !ok {
		s.phase = phaseIdle
		s.info = model.BreakInfo{}
		log.Debug(log.CatScheduler, "recompute: no active schedule, idle")
		s.emitStatus()
		return
	}

	// break_time must be strictly after now for anything placed into
	// WaitForBreak; a stale/past time (e.g. a long pause just ended)
	// executes the break immediately instead.
	if !info.BreakTime.After(now) {
		log.Debug(log.CatScheduler, "recompute: break_time already due, entering break immediately")
		s.enterBreak(ctx, info)
		return
	}

	s.info = info
	if info.NotificationTime != nil {
		s.phase = phaseWaitForNotification
	} else {
		s.phase = phaseWaitForBreak
	}
	log.Debug(log.CatScheduler, "recompute: scheduled", "phase", s.phase.String(), "event_kind", info.Event.Kind.String())
	s.emitStatus()
}

// onNotificationDue fires the pre-break notification and transitions to
// WaitForBreak.
func (s *Scheduler) onNotificationDue(ctx context.Context) {
	if s.phase != phaseWaitForNotification {
		return
	}
	_ = tracing.Transition(ctx, s.tracer, tracing.SpanPrefixTransition, "notification_due",
		[]attribute.KeyValue{attribute.String(tracing.AttrEventKind, s.info.Event.Kind.String())},
		func(ctx context.Context) error {
			title, message := notificationText(s.info.Event)
			if err := s.notifier.Notify(s.info.Event.Kind.String(), title, message); err != nil {
				log.ErrorErrCtx(ctx, log.CatScheduler, "notification delivery failed", err)
			}
			return nil
		})

	s.phase = phaseWaitForBreak
	s.emitStatus()
}

// onBreakDue transitions WaitForBreak -> InBreak when break_time arrives.
func (s *Scheduler) onBreakDue(ctx context.Context) {
	if s.phase != phaseWaitForBreak {
		return
	}
	s.enterBreak(ctx, s.info)
}

// enterBreak starts a break/attention session, publishes the
// scheduler-event, and asks the window collaborator to present the
// prompt. A window-open failure ends the session and recomputes rather
// than leaving the scheduler stuck in InBreak.
func (s *Scheduler) enterBreak(ctx context.Context, info model.BreakInfo) {
	s.phase = phaseInBreak
	s.info = info
	s.shared.StartBreakSession(s.clock.NowUTC())
	s.events.PublishSchedulerEvent(info.Event)

	err := tracing.Transition(ctx, s.tracer, tracing.SpanPrefixTransition, "enter_break",
		[]attribute.KeyValue{
			attribute.String(tracing.AttrEventKind, info.Event.Kind.String()),
			attribute.Int64(tracing.AttrPostponeCount, int64(info.PostponeCount)),
		},
		func(ctx context.Context) error {
			err := s.windows.Open(s.promptPayload(info))
			if err != nil {
				log.ErrorErrCtx(ctx, log.CatScheduler, "failed to open break window", err)
			}
			return err
		})
	if err != nil {
		s.shared.EndBreakSession()
		s.recompute(ctx)
		return
	}

	s.emitStatus()
}

// emitStatus publishes the current scheduler-status snapshot.
func (s *Scheduler) emitStatus() {
	status := model.StatusEvent{
		Paused:           s.phase == phasePaused,
		MiniBreakCounter: s.miniBreakCounter,
	}
	if s.phase == phaseWaitForNotification || s.phase == phaseWaitForBreak {
		now := s.clock.NowUTC()
		status.NextEvent = &model.NextEventInfo{
			Kind:         s.info.Event.Kind,
			Time:         s.info.BreakTime,
			SecondsUntil: int32(s.info.BreakTime.Sub(now).Seconds()),
		}
	}
	s.events.PublishStatus(status)
}

// promptPayload builds the UI window-creation payload for info, resolving
// presentation fields from the configured base break settings.
func (s *Scheduler) promptPayload(info model.BreakInfo) collab.PromptPayload {
	cfg := s.cfgView.Snapshot()
	base, scheduleName, kind := findBreakSettings(cfg, info.Event)

	shortcut := cfg.PostponeShortcut
	if shortcut == "" {
		shortcut = "P"
	}

	return collab.PromptPayload{
		ID:               uint32(info.Event.BreakID),
		Kind:             kind,
		ScheduleName:     scheduleName,
		DurationS:        base.DurationS,
		StrictMode:       base.StrictMode,
		Theme:            base.Theme,
		Audio:            base.Audio,
		PostponeShortcut: shortcut,
		AllScreens:       cfg.AllScreens,
		Language:         cfg.Language,
		PostponeCount:    info.PostponeCount,
		MaxPostponeCount: base.MaxPostponeCount,
	}
}

// findBreakSettings locates the schedule owning event's break id, returning
// its base settings, schedule name, and a "mini"/"long" kind label.
func findBreakSettings(cfg config.Config, event model.SchedulerEvent) (config.BaseBreakSettings, string, string) {
	for _, sch := range cfg.Schedules {
		switch event.Kind {
		case model.EventMiniBreak:
			if sch.MiniBreaks.Base.ID == event.BreakID {
				return sch.MiniBreaks.Base, sch.Name, "mini"
			}
		case model.EventLongBreak:
			if sch.LongBreaks.Base.ID == event.BreakID {
				return sch.LongBreaks.Base, sch.Name, "long"
			}
		}
	}
	return config.BaseBreakSettings{}, "", eventKindLabel(event.Kind)
}

func eventKindLabel(k model.EventKind) string {
	if k == model.EventLongBreak {
		return "long"
	}
	return "mini"
}

// postponeLimits locates the max postpone count and postpone duration
// configured for event's break kind, read at the moment Postpone is
// processed (not when the break was originally scheduled).
func postponeLimits(cfg config.Config, event model.SchedulerEvent) (max uint8, postponedS int32) {
	for _, sch := range cfg.Schedules {
		switch event.Kind {
		case model.EventMiniBreak:
			if sch.MiniBreaks.Base.ID == event.BreakID {
				return sch.MiniBreaks.Base.MaxPostponeCount, sch.MiniBreaks.Base.PostponedS
			}
		case model.EventLongBreak:
			if sch.LongBreaks.Base.ID == event.BreakID {
				return sch.LongBreaks.Base.MaxPostponeCount, sch.LongBreaks.Base.PostponedS
			}
		}
	}
	return 0, 0
}

// notificationText derives the pre-break notification's title/body from
// the event tag; the full presentation string is otherwise the UI
// collaborator's concern.
func notificationText(event model.SchedulerEvent) (title, message string) {
	switch event.Kind {
	case model.EventLongBreak:
		return "Long break coming up", "Time to step away soon."
	default:
		return "Break coming up", "Time for a short break soon."
	}
}
