// Package cli implements the scanlog command line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scanlog/internal/core/domain"
	"github.com/custodia-labs/scanlog/internal/core/ports/driven"
	"github.com/custodia-labs/scanlog/internal/core/ports/driving"
	"github.com/custodia-labs/scanlog/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "scanlog",
	Short: "Keep a local history of scanned QR codes and barcodes",
	Long: `scanlog records decoded QR codes and barcodes into a local history.

Payloads arrive from a decoder stream (a camera pipeline writing one payload
per line) or from still-image imports. Each payload is classified as a URL,
email, phone number, WiFi credential or plain text, and stored newest first.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output")
}

// ConnectivityMonitor starts live connectivity tracking.
type ConnectivityMonitor interface {
	Start(ctx context.Context) error
}

// Services holds the driving ports the commands operate on.
type Services struct {
	History       driving.HistoryService
	Orchestrator  driving.ScanOrchestrator
	Connectivity  driving.ConnectivityService
	Monitor       ConnectivityMonitor
	Gate          driving.FeatureGate
	SettingsStore driven.SettingsStore
	Settings      domain.Settings
}

var (
	historyService      driving.HistoryService
	scanOrchestrator    driving.ScanOrchestrator
	connectivityService driving.ConnectivityService
	connectivityMonitor ConnectivityMonitor
	featureGate         driving.FeatureGate
	settingsStore       driven.SettingsStore
	settings            = domain.DefaultSettings()
)

// SetServices injects the services used by every command.
func SetServices(s Services) {
	historyService = s.History
	scanOrchestrator = s.Orchestrator
	connectivityService = s.Connectivity
	connectivityMonitor = s.Monitor
	featureGate = s.Gate
	settingsStore = s.SettingsStore
	settings = s.Settings
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
