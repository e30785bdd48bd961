// Package broadcaster implements the command broadcaster (component C9):
// a single inbound Command channel that mutates shared pause-reason state
// and routes each command to the break scheduler, the attention timer, or
// both, per the rules in Broadcaster.dispatch.
package broadcaster

import (
	"context"

	"github.com/pilgrimlyieu/focust/internal/log"
	"github.com/pilgrimlyieu/focust/internal/model"
	"github.com/pilgrimlyieu/focust/internal/state"
)

// Options configures a new Broadcaster.
type Options struct {
	Shared *state.Shared

	// Commands is the single inbound channel every external caller (UI,
	// tray, hotkey, monitor orchestrator, config watcher) sends Commands
	// on. Closing it is treated as shutdown.
	Commands <-chan model.Command

	// BreakScheduler and Attention are the outbound per-actor channels
	// the broadcaster forwards routed commands onto. Sends are selected
	// against Shutdown so a wedged or already-exited actor cannot hang
	// the broadcaster.
	BreakScheduler chan<- model.Command
	Attention      chan<- model.Command

	// Shutdown is observed alongside Commands with priority over it.
	Shutdown <-chan struct{}
}

// Broadcaster is the command broadcaster (component C9).
type Broadcaster struct {
	shared         *state.Shared
	commands       <-chan model.Command
	breakScheduler chan<- model.Command
	attention      chan<- model.Command
	shutdown       <-chan struct{}
}

// New builds a Broadcaster from opts.
func New(opts Options) *Broadcaster {
	return &Broadcaster{
		shared:         opts.Shared,
		commands:       opts.Commands,
		breakScheduler: opts.BreakScheduler,
		attention:      opts.Attention,
		shutdown:       opts.Shutdown,
	}
}

// Run is the broadcaster's actor loop. It blocks until the shutdown
// signal fires or the inbound command channel is closed, giving shutdown
// priority over an incoming command on every iteration.
func (b *Broadcaster) Run(ctx context.Context) {
	for {
		select {
		case <-b.shutdown:
			return
		default:
		}

		select {
		case <-b.shutdown:
			return
		case cmd, ok := <-b.commands:
			if !ok {
				return
			}
			b.dispatch(ctx, cmd)
		}
	}
}

// dispatch mutates shared pause-reason state (for Pause/Resume) and then
// routes cmd to the break scheduler, the attention timer, or both,
// according to cmd.Kind (and, for PromptFinished, the event kind).
func (b *Broadcaster) dispatch(ctx context.Context, cmd model.Command) {
	switch cmd.Kind {
	case model.CmdPause:
		b.shared.AddPauseReason(cmd.PauseReason)
		log.Debug(log.CatBroadcaster, "pause reason added", "reason", cmd.PauseReason.String())
		b.send(ctx, b.breakScheduler, cmd)
		return

	case model.CmdResume:
		becameRunning := b.shared.RemovePauseReason(cmd.PauseReason)
		log.Debug(log.CatBroadcaster, "pause reason removed", "reason", cmd.PauseReason.String(), "became_running", becameRunning)
		if !becameRunning {
			return
		}
		b.send(ctx, b.breakScheduler, cmd)
		return

	case model.CmdUpdateConfig:
		b.send(ctx, b.breakScheduler, cmd)
		b.send(ctx, b.attention, cmd)
		return

	case model.CmdTriggerEvent:
		if cmd.Event.Kind == model.EventAttention {
			b.send(ctx, b.attention, cmd)
		} else {
			b.send(ctx, b.breakScheduler, cmd)
		}
		return

	case model.CmdPromptFinished:
		// The literal routing table sends "all other commands" to the
		// break scheduler only, but PromptFinished must reach whichever
		// actor actually opened the window: an attention window closing
		// has to end the attention session, not the break scheduler's.
		if cmd.Event.Kind == model.EventAttention {
			b.send(ctx, b.attention, cmd)
		} else {
			b.send(ctx, b.breakScheduler, cmd)
		}
		return

	default:
		// Postpone, Skip, RequestStatus: break scheduler only.
		b.send(ctx, b.breakScheduler, cmd)
	}
}

// send forwards cmd to dst, giving priority to a shutdown signal so a
// blocked send on a full or abandoned channel cannot hang the broadcaster
// past the shutdown window.
func (b *Broadcaster) send(_ context.Context, dst chan<- model.Command, cmd model.Command) {
	if dst == nil {
		return
	}
	select {
	case dst <- cmd:
	case <-b.shutdown:
	}
}
