package daemon_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilgrimlyieu/focust/internal/clock"
	"github.com/pilgrimlyieu/focust/internal/daemon"
	"github.com/pilgrimlyieu/focust/internal/model"
	"github.com/pilgrimlyieu/focust/internal/monitor/appwhitelist"
	"github.com/pilgrimlyieu/focust/internal/monitor/dnd"
	"github.com/pilgrimlyieu/focust/internal/monitor/idle"
)

const minimalTOML = `
idle_threshold_s = 60

[[schedules]]
name = "always-on"
enabled = true
days_of_week = ["mon", "tue", "wed", "thu", "fri", "sat", "sun"]

[schedules.time_range]
start = "00:00"
end = "23:59"

[schedules.mini_breaks]
interval_s = 3600
[schedules.mini_breaks.base]
enabled = true
duration_s = 20

[schedules.long_breaks]
after_mini_breaks = 4
[schedules.long_breaks.base]
enabled = true
duration_s = 300
`

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewAssemblesFromConfigFile(t *testing.T) {
	path := writeTempConfig(t, minimalTOML)

	d, err := daemon.New(daemon.Options{
		ConfigPath: path,
		Clock:      clock.NewReal(time.UTC),
		StatusAddr: "localhost:0",
	})
	require.NoError(t, err)
	require.NotNil(t, d)

	assert.NotNil(t, d.Commands())
	assert.NotNil(t, d.Events())
}

func TestNewRejectsMissingConfig(t *testing.T) {
	_, err := daemon.New(daemon.Options{
		ConfigPath: filepath.Join(t.TempDir(), "missing.toml"),
	})
	assert.Error(t, err)
}

func TestRunStopsWithinShutdownBoundOnContextCancel(t *testing.T) {
	path := writeTempConfig(t, minimalTOML)

	d, err := daemon.New(daemon.Options{
		ConfigPath: path,
		Clock:      clock.NewReal(time.UTC),
		StatusAddr: "localhost:0",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	// Let every actor goroutine reach its select loop before cancelling.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

// fakeIdleSource reports a constant idle duration; only used to confirm
// the daemon wires an idle monitor into the orchestrator when supplied.
type fakeIdleSource struct{ seconds int64 }

func (f fakeIdleSource) IdleSeconds(context.Context) (int64, error) { return f.seconds, nil }

// fakeDndSource never reports any DND state changes.
type fakeDndSource struct{ events chan dnd.Event }

func (f fakeDndSource) Events() <-chan dnd.Event { return f.events }

// fakeAppLister reports no running processes.
type fakeAppLister struct{}

func (fakeAppLister) ListProcesses(context.Context) ([]appwhitelist.ProcessInfo, error) {
	return nil, nil
}

func TestRunWiresOptionalMonitorsWithoutBlocking(t *testing.T) {
	path := writeTempConfig(t, minimalTOML)

	d, err := daemon.New(daemon.Options{
		ConfigPath: path,
		Clock:      clock.NewReal(time.UTC),
		StatusAddr: "localhost:0",
		IdleSource: fakeIdleSource{seconds: 5},
		DndSource:  fakeDndSource{events: make(chan dnd.Event)},
		AppLister:  fakeAppLister{},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

func TestCommandsChannelAcceptsRequestStatus(t *testing.T) {
	path := writeTempConfig(t, minimalTOML)

	d, err := daemon.New(daemon.Options{
		ConfigPath: path,
		Clock:      clock.NewReal(time.UTC),
		StatusAddr: "localhost:0",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)

	select {
	case d.Commands() <- model.RequestStatus():
	case <-time.After(time.Second):
		t.Fatal("daemon did not accept a RequestStatus command")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}
