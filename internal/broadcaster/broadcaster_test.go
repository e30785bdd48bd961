package broadcaster_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilgrimlyieu/focust/internal/broadcaster"
	"github.com/pilgrimlyieu/focust/internal/model"
	"github.com/pilgrimlyieu/focust/internal/state"
)

const waitTimeout = 2 * time.Second

func newHarness(t *testing.T) (commands chan model.Command, breakCh chan model.Command, attnCh chan model.Command, shared *state.Shared) {
	t.Helper()
	shared = state.New()
	commands = make(chan model.Command, 8)
	breakCh = make(chan model.Command, 8)
	attnCh = make(chan model.Command, 8)
	shutdown := make(chan struct{})
	t.Cleanup(func() { close(shutdown) })

	b := broadcaster.New(broadcaster.Options{
		Shared:         shared,
		Commands:       commands,
		BreakScheduler: breakCh,
		Attention:      attnCh,
		Shutdown:       shutdown,
	})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go b.Run(ctx)
	return commands, breakCh, attnCh, shared
}

func recv(t *testing.T, ch <-chan model.Command) model.Command {
	t.Helper()
	select {
	case cmd := <-ch:
		return cmd
	case <-time.After(waitTimeout):
		t.Fatal("expected a forwarded command")
		return model.Command{}
	}
}

func assertNoneWithin(t *testing.T, ch <-chan model.Command, d time.Duration) {
	t.Helper()
	select {
	case cmd := <-ch:
		t.Fatalf("expected no forwarded command, got %+v", cmd)
	case <-time.After(d):
	}
}

func TestPauseAddsReasonAndForwardsToBreakSchedulerOnly(t *testing.T) {
	commands, breakCh, attnCh, shared := newHarness(t)

	commands <- model.Pause(model.PauseUserIdle)

	cmd := recv(t, breakCh)
	assert.Equal(t, model.CmdPause, cmd.Kind)
	assert.Equal(t, model.PauseUserIdle, cmd.PauseReason)
	assertNoneWithin(t, attnCh, 50*time.Millisecond)
	require.Eventually(t, shared.IsPaused, waitTimeout, 2*time.Millisecond)
}

func TestResumeOnlyForwardsOncePauseReasonsEmpty(t *testing.T) {
	commands, breakCh, _, shared := newHarness(t)

	shared.AddPauseReason(model.PauseUserIdle)
	shared.AddPauseReason(model.PauseDnd)

	commands <- model.Resume(model.PauseUserIdle)
	assertNoneWithin(t, breakCh, 50*time.Millisecond)
	assert.True(t, shared.IsPaused(), "one reason remains, still paused")

	commands <- model.Resume(model.PauseDnd)
	cmd := recv(t, breakCh)
	assert.Equal(t, model.CmdResume, cmd.Kind)
	assert.Equal(t, model.PauseDnd, cmd.PauseReason)
	assert.False(t, shared.IsPaused())
}

func TestUpdateConfigForwardsToBoth(t *testing.T) {
	commands, breakCh, attnCh, _ := newHarness(t)

	commands <- model.UpdateConfig(struct{ marker int }{marker: 7})

	bcmd := recv(t, breakCh)
	acmd := recv(t, attnCh)
	assert.Equal(t, model.CmdUpdateConfig, bcmd.Kind)
	assert.Equal(t, model.CmdUpdateConfig, acmd.Kind)
}

func TestTriggerEventRoutesByEventKind(t *testing.T) {
	commands, breakCh, attnCh, _ := newHarness(t)

	commands <- model.TriggerEvent(model.AttentionEvent(1))
	acmd := recv(t, attnCh)
	assert.Equal(t, model.EventAttention, acmd.Event.Kind)
	assertNoneWithin(t, breakCh, 50*time.Millisecond)

	commands <- model.TriggerEvent(model.MiniBreakEvent(2))
	bcmd := recv(t, breakCh)
	assert.Equal(t, model.EventMiniBreak, bcmd.Event.Kind)
	assertNoneWithin(t, attnCh, 50*time.Millisecond)
}

func TestPromptFinishedRoutesByEventKind(t *testing.T) {
	commands, breakCh, attnCh, _ := newHarness(t)

	commands <- model.PromptFinished(model.AttentionEvent(3))
	acmd := recv(t, attnCh)
	assert.Equal(t, model.CmdPromptFinished, acmd.Kind)
	assert.Equal(t, model.EventAttention, acmd.Event.Kind)
	assertNoneWithin(t, breakCh, 50*time.Millisecond)

	commands <- model.PromptFinished(model.LongBreakEvent(4))
	bcmd := recv(t, breakCh)
	assert.Equal(t, model.CmdPromptFinished, bcmd.Kind)
	assert.Equal(t, model.EventLongBreak, bcmd.Event.Kind)
	assertNoneWithin(t, attnCh, 50*time.Millisecond)
}

func TestPostponeSkipRequestStatusRouteToBreakSchedulerOnly(t *testing.T) {
	commands, breakCh, attnCh, _ := newHarness(t)

	commands <- model.Postpone()
	assert.Equal(t, model.CmdPostpone, recv(t, breakCh).Kind)
	assertNoneWithin(t, attnCh, 50*time.Millisecond)

	commands <- model.Skip()
	assert.Equal(t, model.CmdSkip, recv(t, breakCh).Kind)
	assertNoneWithin(t, attnCh, 50*time.Millisecond)

	commands <- model.RequestStatus()
	assert.Equal(t, model.CmdRequestStatus, recv(t, breakCh).Kind)
	assertNoneWithin(t, attnCh, 50*time.Millisecond)
}

func TestClosingCommandsChannelStopsRun(t *testing.T) {
	shared := state.New()
	commands := make(chan model.Command)
	breakCh := make(chan model.Command, 1)
	attnCh := make(chan model.Command, 1)
	shutdown := make(chan struct{})
	defer close(shutdown)

	b := broadcaster.New(broadcaster.Options{
		Shared:         shared,
		Commands:       commands,
		BreakScheduler: breakCh,
		Attention:      attnCh,
		Shutdown:       shutdown,
	})

	done := make(chan struct{})
	go func() {
		b.Run(context.Background())
		close(done)
	}()
	close(commands)

	select {
	case <-done:
	case <-time.After(waitTimeout):
		t.Fatal("expected Run to return after the command channel closed")
	}
}
