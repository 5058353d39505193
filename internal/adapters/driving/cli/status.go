package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
)

// gateSettle bounds how long status waits for the feature gate to follow a
// fresh connectivity result.
const gateSettle = 100 * time.Millisecond

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check connectivity and show history status",
	Long: `Runs a connectivity check and reports whether the network-dependent
features are available, along with the number of recorded scans.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if connectivityService == nil {
		return errors.New("connectivity service not configured")
	}

	var gateUpdates <-chan bool
	if featureGate != nil {
		updates, unsubscribe := featureGate.Subscribe()
		defer unsubscribe()
		gateUpdates = updates
	}

	state := connectivityService.Check(commandContext(cmd))
	cmd.Printf("Connectivity: %s\n", state)

	if gateUpdates != nil {
		want := state.AllowsFeatures() && settings.Features.Enabled
		cmd.Printf("Features:     %s\n", enabledLabel(awaitGate(gateUpdates, want)))
	}
	if historyService != nil {
		cmd.Printf("Records:      %d\n", historyService.Snapshot().Len())
	}
	if settingsStore != nil {
		cmd.Printf("Config:       %s\n", settingsStore.Path())
	}
	return nil
}

// awaitGate returns the gate value once it equals want, or the last value
// seen when the gate does not settle within gateSettle.
func awaitGate(updates <-chan bool, want bool) bool {
	last := featureGate.Enabled()
	if last == want {
		return last
	}
	timeout := time.After(gateSettle)
	for {
		select {
		case v, ok := <-updates:
			if !ok {
				return last
			}
			last = v
			if v == want {
				return v
			}
		case <-timeout:
			return last
		}
	}
}

func enabledLabel(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
