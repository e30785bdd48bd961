package breakscheduler

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/pilgrimlyieu/focust/internal/config"
	"github.com/pilgrimlyieu/focust/internal/log"
	"github.com/pilgrimlyieu/focust/internal/model"
	"github.com/pilgrimlyieu/focust/internal/tracing"
)

// handleCommand dispatches a single Command. The broadcaster is the sole
// authority over shared pause-reason state (see component C3); by the
// time a command reaches here, that mutation has already happened, so the
// scheduler only reacts to the command's own semantics.
func (s *Scheduler) handleCommand(ctx context.Context, cmd model.Command) {
	switch cmd.Kind {
	case model.CmdPromptFinished:
		s.handlePromptFinished(ctx, cmd.Event)
	case model.CmdPostpone:
		s.handlePostpone(ctx)
	case model.CmdSkip:
		s.handleSkip(ctx)
	case model.CmdPause:
		s.handlePause(ctx, cmd.PauseReason)
	case model.CmdResume:
		s.handleResume(ctx, cmd.PauseReason)
	case model.CmdTriggerEvent:
		if cmd.Event.Kind != model.EventAttention {
			s.handleTriggerEvent(ctx, cmd.Event)
		}
	case model.CmdUpdateConfig:
		s.handleUpdateConfig(ctx, cmd.Config)
	case model.CmdRequestStatus:
		s.emitStatus()
	}
}

// handlePromptFinished completes the active break when the reported event
// matches what's currently InBreak; a stale/mismatched report (e.g. from a
// window that was already superseded by postpone) is ignored.
func (s *Scheduler) handlePromptFinished(ctx context.Context, event model.SchedulerEvent) {
	if s.phase != phaseInBreak || !s.info.Event.Equal(event) {
		return
	}
	s.shared.EndBreakSession()
	s.completeBreak(event)
	s.recompute(ctx)
}

// handlePostpone defers the active/pending break by the configured
// postponed_s, bounded by max_postpone_count. At the limit, it emits
// postpone-limit-reached and leaves the state unchanged.
func (s *Scheduler) handlePostpone(ctx context.Context) {
	switch s.phase {
	case phaseWaitForNotification, phaseWaitForBreak, phaseInBreak:
	default:
		return
	}

	cfg := s.cfgView.Snapshot()
	max, postponedS := postponeLimits(cfg, s.info.Event)

	if s.info.PostponeCount >= max {
		log.Debug(log.CatScheduler, "postpone limit reached", "event_kind", s.info.Event.Kind.String(), "count", s.info.PostponeCount)
		s.events.PublishPostponeLimitReached()
		return
	}

	_ = tracing.Transition(ctx, s.tracer, tracing.SpanPrefixCommand, "postpone",
		[]attribute.KeyValue{attribute.Int64(tracing.AttrPostponeCount, int64(s.info.PostponeCount))},
		func(ctx context.Context) error {
			if s.phase == phaseInBreak {
				if err := s.windows.Close(s.info.Event); err != nil {
					log.ErrorErrCtx(ctx, log.CatScheduler, "failed to close break window on postpone", err)
				}
				s.shared.EndBreakSession()
			}
			now := s.clock.NowUTC()
			s.info = model.BreakInfo{
				BreakTime:     now.Add(time.Duration(postponedS) * time.Second),
				Event:         s.info.Event,
				PostponeCount: s.info.PostponeCount + 1,
			}
			s.phase = phaseWaitForBreak
			return nil
		})

	s.emitStatus()
}

// handleSkip treats the active/pending break as completed without
// presenting it, advancing counters exactly as a normal completion would.
func (s *Scheduler) handleSkip(ctx context.Context) {
	switch s.phase {
	case phaseWaitForNotification, phaseWaitForBreak, phaseInBreak:
	default:
		return
	}

	event := s.info.Event
	if s.phase == phaseInBreak {
		if err := s.windows.Close(event); err != nil {
			log.ErrorErr(log.CatScheduler, "failed to close break window on skip", err)
		}
		s.shared.EndBreakSession()
	}
	s.completeBreak(event)
	s.recompute(ctx)
}

// handlePause transitions to Paused(reason). Idle/UserIdle/Dnd/AppExclusion
// pauses reset last_break_time so that the interval restarts cleanly from
// the eventual Resume rather than continuing a stale countdown.
func (s *Scheduler) handlePause(ctx context.Context, reason model.PauseReason) {
	_ = tracing.Transition(ctx, s.tracer, tracing.SpanPrefixCommand, "pause",
		[]attribute.KeyValue{attribute.String(tracing.AttrPauseReason, reason.String())},
		func(ctx context.Context) error {
			if s.phase == phaseInBreak {
				if err := s.windows.Close(s.info.Event); err != nil {
					log.ErrorErrCtx(ctx, log.CatScheduler, "failed to close break window on pause", err)
				}
			}
			s.shared.EndBreakSession()

			switch reason {
			case model.PauseUserIdle, model.PauseDnd, model.PauseAppExclusion:
				s.lastBreakTime = time.Time{}
			}

			s.pauseReason = reason
			s.phase = phasePaused
			s.info = model.BreakInfo{}
			return nil
		})

	s.emitStatus()
}

// handleResume restarts the interval from now and recomputes. The
// broadcaster only forwards Resume once the shared pause-reason set has
// actually emptied, so by the time this runs the scheduler should resume
// running regardless of which reason it last observed.
func (s *Scheduler) handleResume(ctx context.Context, reason model.PauseReason) {
	if s.phase != phasePaused {
		return
	}
	_ = tracing.Transition(ctx, s.tracer, tracing.SpanPrefixCommand, "resume",
		[]attribute.KeyValue{attribute.String(tracing.AttrPauseReason, reason.String())},
		func(ctx context.Context) error {
			s.lastBreakTime = s.clock.NowUTC()
			return nil
		})
	s.recompute(ctx)
}

// handleTriggerEvent forces an immediate, manually-triggered break
// regardless of the scheduler's current phase.
func (s *Scheduler) handleTriggerEvent(ctx context.Context, event model.SchedulerEvent) {
	if s.phase == phaseInBreak {
		if err := s.windows.Close(s.info.Event); err != nil {
			log.ErrorErr(log.CatScheduler, "failed to close break window on manual trigger", err)
		}
		s.shared.EndBreakSession()
	}
	info := model.BreakInfo{
		BreakTime:     s.clock.NowUTC(),
		Event:         event,
		PostponeCount: 0,
	}
	s.enterBreak(ctx, info)
}

// handleUpdateConfig atomically swaps the active configuration and
// recomputes, unless currently paused (recompute resumes on the next
// Resume instead).
func (s *Scheduler) handleUpdateConfig(ctx context.Context, cfg any) {
	updated, ok := cfg.(config.Config)
	if !ok {
		log.Warn(log.CatScheduler, "UpdateConfig payload was not config.Config, ignoring")
		return
	}
	s.cfgView.Replace(updated)
	if s.phase != phasePaused {
		s.recompute(ctx)
	}
}

// completeBreak applies the counter-update rules for a completed break.
// Attention completion never reaches here; it's handled by the attention
// timer and does not touch these counters.
func (s *Scheduler) completeBreak(event model.SchedulerEvent) {
	now := s.clock.NowUTC()
	switch event.Kind {
	case model.EventMiniBreak:
		s.miniBreakCounter++
	case model.EventLongBreak:
		s.miniBreakCounter = 0
	}
	s.lastBreakTime = now
}
