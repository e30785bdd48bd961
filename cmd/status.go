package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/pilgrimlyieu/focust/internal/daemon"
	"github.com/pilgrimlyieu/focust/internal/statusapi"
)

var statusAddr string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query a running daemon's scheduler status",
	Long: `Status sends a RequestStatus command to a running "focust run" daemon
over its local status API and prints the resulting scheduler-status event:
whether the scheduler is paused, the next scheduled break, and the
mini-break counter.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringVar(&statusAddr, "addr", daemon.DefaultStatusAddr,
		"address of a running daemon's status API")
}

const statusRequestTimeout = 3 * time.Second

func runStatus(cmd *cobra.Command, _ []string) error {
	client := &http.Client{Timeout: statusRequestTimeout}

	resp, err := client.Get(fmt.Sprintf("http://%s/status", statusAddr))
	if err != nil {
		return fmt.Errorf("reaching daemon at %s (is \"focust run\" running?): %w", statusAddr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errBody statusapi.ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errBody); decodeErr == nil && errBody.Error != "" {
			return fmt.Errorf("daemon returned %s: %s", resp.Status, errBody.Error)
		}
		return fmt.Errorf("daemon returned %s", resp.Status)
	}

	var status statusapi.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return fmt.Errorf("decoding status response: %w", err)
	}

	printStatus(cmd, status)
	return nil
}

func printStatus(cmd *cobra.Command, s statusapi.StatusResponse) {
	out := cmd.OutOrStdout()
	if s.Paused {
		fmt.Fprintln(out, "paused: yes")
	} else {
		fmt.Fprintln(out, "paused: no")
	}
	fmt.Fprintf(out, "mini-break counter: %d\n", s.MiniBreakCounter)
	if s.NextEventTime != nil {
		fmt.Fprintf(out, "next event: %s at %s (in %ds)\n",
			s.NextEventKind, s.NextEventTime.Local().Format(time.RFC3339), s.SecondsUntil)
	} else {
		fmt.Fprintln(out, "next event: none scheduled")
	}
}
