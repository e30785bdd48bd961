// Package cmd implements the focust CLI: `focust run` boots the
// scheduling daemon, `focust status` queries a running one.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	version = "dev"

	// cfgFile is the --config flag value; empty selects the default path
	// computed by resolvedConfigPath().
	cfgFile string
	// debugFlag enables verbose stderr logging (also: FOCUST_DEBUG=1).
	debugFlag bool
)

var rootCmd = &cobra.Command{
	Use:     "focust",
	Short:   "A break-reminder and attention-prompt scheduler",
	Long:    `focust runs a small daemon that schedules mini/long breaks and attention reminders on a configurable schedule, respecting pauses, idle time, do-not-disturb, and an app exclusion list.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/focust/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"enable verbose logging to stderr (also: FOCUST_DEBUG=1)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// resolvedConfigPath returns cfgFile if set, otherwise the default
// per-user config path. The path is only computed; no directory is
// created.
func resolvedConfigPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	dir := filepath.Join(home, ".config", "focust")
	return filepath.Join(dir, "config.toml"), nil
}

// debugEnabled reports whether verbose stderr logging was requested via
// flag or environment variable.
func debugEnabled() bool {
	return debugFlag || os.Getenv("FOCUST_DEBUG") != ""
}
