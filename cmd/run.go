package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pilgrimlyieu/focust/internal/daemon"
	"github.com/pilgrimlyieu/focust/internal/log"
)

var runStatusAddr string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scheduling daemon in the foreground",
	Long: `Run boots the clock, configuration, shared pause/session state, the
selection algorithm, both schedulers, the monitor orchestrator, the command
broadcaster, the config file watcher, and the status API, then blocks until
interrupted (Ctrl+C) or terminated.

Break and attention prompts are logged rather than presented: a real window,
audio, and notification collaborator is wired in by an embedding application,
since presentation is outside this module's scope.`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runStatusAddr, "status-addr", daemon.DefaultStatusAddr,
		"address the status API listens on (\"off\" to disable)")
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	if debugEnabled() {
		log.InitStderr(log.LevelDebug)
	} else {
		log.InitStderr(log.LevelInfo)
	}

	configPath, err := resolvedConfigPath()
	if err != nil {
		return err
	}

	d, err := daemon.New(daemon.Options{
		ConfigPath: configPath,
		StatusAddr: runStatusAddr,
	})
	if err != nil {
		return fmt.Errorf("initializing daemon: %w", err)
	}

	log.Info(log.CatDaemon, "focust starting", "config", configPath)

	if err := d.Run(cmd.Context()); err != nil {
		return fmt.Errorf("running daemon: %w", err)
	}
	log.Info(log.CatDaemon, "focust stopped")
	return nil
}
