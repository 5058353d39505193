package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scanlog/internal/adapters/driving/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the scan history live in the terminal",
	Long: `Opens a terminal view of the scan history that updates as codes are
recorded by other scanlog processes sharing the same store, or by a scan
running in this one.

Controls:
  ↑/k, ↓/j - Navigate scans
  Enter    - Show details
  /        - Filter
  d d      - Remove the selected scan
  ?        - Toggle help
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if historyService == nil {
		return errors.New("history service not configured")
	}

	app, err := tui.NewApp(&tui.Ports{
		History:      historyService,
		Connectivity: connectivityService,
		Gate:         featureGate,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	startConnectivity(cmd)

	if err := app.WithContext(commandContext(cmd)).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
