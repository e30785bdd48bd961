// Package daemon wires the scheduling core's components together: the
// clock, configuration view, shared state, both schedulers, the monitor
// orchestrator, the command broadcaster, and the config file watcher. It
// owns process-level graceful shutdown.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/pilgrimlyieu/focust/internal/broadcaster"
	"github.com/pilgrimlyieu/focust/internal/clock"
	"github.com/pilgrimlyieu/focust/internal/collab"
	"github.com/pilgrimlyieu/focust/internal/config"
	"github.com/pilgrimlyieu/focust/internal/log"
	"github.com/pilgrimlyieu/focust/internal/model"
	"github.com/pilgrimlyieu/focust/internal/monitor"
	"github.com/pilgrimlyieu/focust/internal/monitor/appwhitelist"
	"github.com/pilgrimlyieu/focust/internal/monitor/dnd"
	"github.com/pilgrimlyieu/focust/internal/monitor/idle"
	"github.com/pilgrimlyieu/focust/internal/pubsub"
	"github.com/pilgrimlyieu/focust/internal/scheduler/attention"
	"github.com/pilgrimlyieu/focust/internal/scheduler/breakscheduler"
	"github.com/pilgrimlyieu/focust/internal/state"
	"github.com/pilgrimlyieu/focust/internal/statusapi"
	"github.com/pilgrimlyieu/focust/internal/tracing"
	"github.com/pilgrimlyieu/focust/internal/watcher"
)

// DefaultStatusAddr is the status API's default listen address. `focust
// status` connects here unless overridden.
const DefaultStatusAddr = "localhost:47663"

// shutdownTimeout bounds how long Daemon.Run waits for every actor to
// exit once shutdown begins.
const shutdownTimeout = 10 * time.Second

// commandChanBuffer is each actor's inbound command channel capacity.
const commandChanBuffer = 32

// Options configures a new Daemon. Every collaborator field falls back
// to a headless-safe default (logging or no-op) when left nil, since the
// UI, audio, and platform-probe collaborators are all external to this
// module.
type Options struct {
	ConfigPath string
	Clock      clock.Clock // nil selects clock.NewReal(time.Local)

	Windows  collab.WindowFactory   // nil selects collab.LoggingWindowFactory
	Notifier collab.NotificationSink // nil selects collab.LoggingNotificationSink

	IdleSource   idle.Source         // nil disables the idle monitor
	DndSource    dnd.Source          // nil disables the DND monitor
	AppLister    appwhitelist.Lister // nil disables the app-whitelist monitor

	// Commands is the daemon's externally-facing command channel (e.g. a
	// CLI command or a future local control socket writes here). If nil,
	// a channel is created and exposed via Daemon.Commands().
	Commands chan model.Command

	// StatusAddr is the status API's listen address. Empty selects
	// DefaultStatusAddr; "" after defaulting is never passed to net.Listen.
	// Set to "off" to disable the status API entirely.
	StatusAddr string
}

// statusAPIDisabled is the sentinel StatusAddr value that skips starting
// the status API server, e.g. for tests that don't need it.
const statusAPIDisabled = "off"

// Daemon is the top-level process wiring for the scheduling core.
type Daemon struct {
	// instanceID distinguishes this run's log lines from a prior run's in
	// an appended log file, since restarts share the same file.
	instanceID string

	configPath string
	cfgView    *config.View
	shared     *state.Shared
	events     *pubsub.BroadcastBroker
	tracer     *tracing.Provider

	commands    chan model.Command
	breakCmds   chan model.Command
	attnCmds    chan model.Command
	monitorCmds chan model.Command

	broadcaster *broadcaster.Broadcaster
	scheduler   *breakscheduler.Scheduler
	attn        *attention.Timer
	orch        *monitor.Orchestrator
	watch       *watcher.Watcher
	statusSrv   *statusapi.Server // nil when the status API is disabled

	shutdown chan struct{}
	wg       sync.WaitGroup
}

// New loads the config at opts.ConfigPath and assembles every component.
func New(opts Options) (*Daemon, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	clk := opts.Clock
	if clk == nil {
		clk = clock.NewReal(time.Local)
	}
	windows := opts.Windows
	if windows == nil {
		windows = collab.LoggingWindowFactory{}
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = collab.LoggingNotificationSink{}
	}

	tracerProvider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("creating tracer provider: %w", err)
	}
	tracer := tracerProvider.Tracer()

	cfgView := config.NewView(cfg)
	shared := state.New()
	events := pubsub.NewBroadcastBroker()

	commands := opts.Commands
	if commands == nil {
		commands = make(chan model.Command, commandChanBuffer)
	}
	shutdown := make(chan struct{})

	breakCmds := make(chan model.Command, commandChanBuffer)
	attnCmds := make(chan model.Command, commandChanBuffer)
	monitorCmds := make(chan model.Command, commandChanBuffer)

	sched := breakscheduler.New(breakscheduler.Options{
		Clock:    clk,
		Config:   cfgView,
		Shared:   shared,
		Events:   events,
		Windows:  windows,
		Notifier: notifier,
		Tracer:   tracer,
		Commands: breakCmds,
		Shutdown: shutdown,
	})

	attn := attention.New(attention.Options{
		Clock:    clk,
		Config:   cfgView,
		Shared:   shared,
		Events:   events,
		Windows:  windows,
		Tracer:   tracer,
		Commands: attnCmds,
		Shutdown: shutdown,
	})

	bcast := broadcaster.New(broadcaster.Options{
		Shared:         shared,
		Commands:       commands,
		BreakScheduler: breakCmds,
		Attention:      attnCmds,
		Shutdown:       shutdown,
	})

	monitors := buildMonitors(opts, cfgView, clk)
	orch := monitor.New(monitor.Options{
		Clock:    clk,
		Shared:   shared,
		Monitors: monitors,
		Tracer:   tracer,
		Commands: monitorCmds,
		Shutdown: shutdown,
	})

	w, err := watcher.New(watcher.DefaultConfig(opts.ConfigPath))
	if err != nil {
		return nil, fmt.Errorf("creating config watcher: %w", err)
	}

	var statusSrv *statusapi.Server
	statusAddr := opts.StatusAddr
	if statusAddr == "" {
		statusAddr = DefaultStatusAddr
	}
	if statusAddr != statusAPIDisabled {
		statusSrv, err = statusapi.NewServer(statusapi.ServerConfig{
			Addr:     statusAddr,
			Commands: commands,
			Events:   events,
		})
		if err != nil {
			return nil, fmt.Errorf("creating status API server: %w", err)
		}
	}

	return &Daemon{
		instanceID:  uuid.New().String(),
		configPath:  opts.ConfigPath,
		cfgView:     cfgView,
		shared:      shared,
		events:      events,
		tracer:      tracerProvider,
		commands:    commands,
		breakCmds:   breakCmds,
		attnCmds:    attnCmds,
		monitorCmds: monitorCmds,
		broadcaster: bcast,
		scheduler:   sched,
		attn:        attn,
		orch:        orch,
		watch:       w,
		statusSrv:   statusSrv,
		shutdown:    shutdown,
	}, nil
}

// buildMonitors wires only the concrete monitors whose upstream source
// collaborator was provided, since idle/DND/process-enumeration probing
// is platform-specific and out of this module's scope.
func buildMonitors(opts Options, cfgView *config.View, clk clock.Clock) []monitor.Monitor {
	var monitors []monitor.Monitor
	if opts.IdleSource != nil {
		monitors = append(monitors, idle.New(opts.IdleSource, cfgView))
	}
	if opts.DndSource != nil {
		monitors = append(monitors, dnd.New(opts.DndSource, clk))
	}
	if opts.AppLister != nil {
		monitors = append(monitors, appwhitelist.New(opts.AppLister, cfgView))
	}
	return monitors
}

// Commands returns the daemon's externally-facing command channel, for a
// CLI command (e.g. `focust status`) or local control surface to send on.
func (d *Daemon) Commands() chan<- model.Command { return d.commands }

// Events returns the daemon's broadcast event broker, for a CLI or UI
// collaborator to subscribe to scheduler-event/status notifications.
func (d *Daemon) Events() *pubsub.BroadcastBroker { return d.events }

// StatusAddr returns the status API's bound "host:port" address, or ""
// if the status API is disabled. Useful when StatusAddr was configured
// as "localhost:0" and the actual port is only known after binding.
func (d *Daemon) StatusAddr() string {
	if d.statusSrv == nil {
		return ""
	}
	return fmt.Sprintf("localhost:%d", d.statusSrv.Port())
}

// Run starts every actor and blocks until ctx is cancelled or a shutdown
// signal (SIGINT/SIGTERM) arrives, then waits up to shutdownTimeout for
// every actor to exit cleanly.
func (d *Daemon) Run(ctx context.Context) error {
	log.Info(log.CatDaemon, "starting run", "instance", d.instanceID)

	configChanges, err := d.watch.Start()
	if err != nil {
		return fmt.Errorf("starting config watcher: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	d.wg.Add(4)
	go func() { defer d.wg.Done(); d.broadcaster.Run(runCtx) }()
	go func() { defer d.wg.Done(); d.scheduler.Run(runCtx) }()
	go func() { defer d.wg.Done(); d.attn.Run(runCtx) }()
	go func() { defer d.wg.Done(); d.orch.Run(runCtx) }()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.forwardMonitorCommands(runCtx)
	}()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.watchConfigChanges(runCtx, configChanges)
	}()

	statusErrCh := make(chan error, 1)
	if d.statusSrv != nil {
		go func() { statusErrCh <- d.statusSrv.Start() }()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		log.Info(log.CatDaemon, "received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		log.Info(log.CatDaemon, "context cancelled, shutting down")
	case err := <-statusErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.ErrorErr(log.CatDaemon, "status API server failed", err)
		}
	}

	close(d.shutdown)
	cancel()
	if err := d.watch.Stop(); err != nil {
		log.ErrorErr(log.CatDaemon, "error stopping config watcher", err)
	}
	if d.statusSrv != nil {
		statusShutdownCtx, statusShutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := d.statusSrv.Stop(statusShutdownCtx); err != nil {
			log.ErrorErr(log.CatDaemon, "error stopping status API server", err)
		}
		statusShutdownCancel()
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(log.CatDaemon, "all tasks exited cleanly")
	case <-time.After(shutdownTimeout):
		log.Warn(log.CatDaemon, "shutdown timed out waiting for tasks to exit")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := d.tracer.Shutdown(shutdownCtx); err != nil {
		log.ErrorErr(log.CatDaemon, "error shutting down tracer provider", err)
	}
	return nil
}

// forwardMonitorCommands relays commands produced by the monitor
// orchestrator onto the broadcaster's single inbound channel, the same
// entry point external callers (CLI, tray, hotkey) use.
func (d *Daemon) forwardMonitorCommands(ctx context.Context) {
	for {
		select {
		case <-d.shutdown:
			return
		case <-ctx.Done():
			return
		case cmd, ok := <-d.monitorCmds:
			if !ok {
				return
			}
			select {
			case d.commands <- cmd:
			case <-d.shutdown:
				return
			case <-ctx.Done():
				return
			}
		}
	}
}

// watchConfigChanges reloads the config file on a debounced change signal
// and submits Command.UpdateConfig to the broadcaster, giving UpdateConfig
// a concrete trigger source beyond a manual CLI call.
func (d *Daemon) watchConfigChanges(ctx context.Context, changes <-chan struct{}) {
	for {
		select {
		case <-d.shutdown:
			return
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			cfg, err := config.Load(d.configPath)
			if err != nil {
				log.ErrorErr(log.CatWatcher, "failed to reload config after change", err)
				continue
			}
			select {
			case d.commands <- model.UpdateConfig(cfg):
			case <-d.shutdown:
				return
			case <-ctx.Done():
				return
			}
		}
	}
}
