package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scanlog/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/scanlog/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scan history over a local HTTP API",
	Long: `Starts a JSON HTTP API over the scan history.

Endpoints:
  GET    /history         list records (?type=URL to filter)
  GET    /history/{id}    show a record
  DELETE /history/{id}    remove a record
  DELETE /history         clear the history
  GET    /status          connectivity and feature availability`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "127.0.0.1:7717", "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	server, err := httpapi.New(historyService, connectivityService, featureGate)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	startConnectivity(cmd)

	cmd.Printf("scanlog API listening on http://%s\n", serveAddr)
	return server.Run(ctx, serveAddr)
}

// startConnectivity starts live connectivity updates for the lifetime of
// the command and resolves the first state in the background, so that
// long-running surfaces report a definitive state.
func startConnectivity(cmd *cobra.Command) {
	ctx := commandContext(cmd)
	if connectivityMonitor != nil {
		if err := connectivityMonitor.Start(ctx); err != nil {
			logger.Warn("live connectivity updates disabled: %v", err)
		}
	}
	if connectivityService != nil {
		go connectivityService.Check(ctx)
	}
}
