package attention

import (
	"context"

	"github.com/pilgrimlyieu/focust/internal/config"
	"github.com/pilgrimlyieu/focust/internal/log"
	"github.com/pilgrimlyieu/focust/internal/model"
)

// handleCommand dispatches a single Command. The timer only ever receives
// UpdateConfig, TriggerEvent(Attention(_)) and PromptFinished(Attention(_))
// from the broadcaster;
// Pause/Resume/Postpone/Skip are never forwarded here, by design — the
// timer isn't affected by pause reasons. PromptFinished for a non-attention
// event cannot reach here either, since the broadcaster routes those to
// the break scheduler instead.
func (t *Timer) handleCommand(ctx context.Context, cmd model.Command) {
	switch cmd.Kind {
	case model.CmdUpdateConfig:
		t.handleUpdateConfig(ctx, cmd.Config)
	case model.CmdTriggerEvent:
		if cmd.Event.Kind == model.EventAttention {
			t.handleTriggerEvent(ctx, cmd.Event)
		}
	case model.CmdPromptFinished:
		if cmd.Event.Kind == model.EventAttention {
			t.shared.EndAttentionSession()
		}
	}
}

// handleTriggerEvent forces an immediate, manually-triggered attention
// regardless of the currently scheduled one.
func (t *Timer) handleTriggerEvent(ctx context.Context, event model.SchedulerEvent) {
	t.fire(ctx, event)
}

// handleUpdateConfig atomically swaps the active configuration and
// recomputes the next occurrence.
func (t *Timer) handleUpdateConfig(ctx context.Context, cfg any) {
	updated, ok := cfg.(config.Config)
	if !ok {
		log.Warn(log.CatAttention, "UpdateConfig payload was not config.Config, ignoring")
		return
	}
	t.cfgView.Replace(updated)
	t.recompute(ctx)
}
