package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/scanlog/internal/adapters/driven/source"
	"github.com/custodia-labs/scanlog/internal/core/domain"
	"github.com/custodia-labs/scanlog/internal/core/ports/driven"
)

var scanFile string

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Record codes from a decoder stream",
	Long: `Reads decoded payloads, one per line, from stdin or --file and records them.

The stream is treated as a live camera feed: an identical payload seen again
within the debounce window is recorded only once.

Examples:
  # Pipe a decoder into scanlog
  zbarcam --raw | scanlog scan

  # Replay a capture
  scanlog scan --file capture.txt`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanFile, "file", "f", "", "read payloads from a file instead of stdin")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, _ []string) error {
	var in io.Reader = cmd.InOrStdin()
	if scanFile != "" {
		f, err := os.Open(scanFile)
		if err != nil {
			return fmt.Errorf("opening capture: %w", err)
		}
		defer f.Close()
		in = f
	} else if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		cmd.PrintErrln("Reading payloads from the terminal, one per line. Press Ctrl-D to finish.")
	}

	return recordSession(cmd, source.NewStreamSource(in))
}

// recordSession runs src through the orchestrator and prints every record
// committed while it runs.
func recordSession(cmd *cobra.Command, src driven.DetectionSource) error {
	if scanOrchestrator == nil || historyService == nil {
		return errors.New("scan service not configured")
	}
	ctx := commandContext(cmd)

	updates, unsubscribe := historyService.Subscribe()
	defer unsubscribe()

	seen := make(map[string]bool)
	for _, r := range historyService.Snapshot().Records {
		seen[r.ID] = true
	}

	session, err := scanOrchestrator.Start(ctx, src)
	if err != nil {
		return fmt.Errorf("starting scan: %w", err)
	}
	defer session.Stop()

	recorded := 0
	cancelled := ctx.Done()
	for {
		select {
		case snapshot, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			recorded += printNewRecords(cmd, snapshot, seen)
		case <-session.Done():
			recorded += printNewRecords(cmd, historyService.Snapshot(), seen)
			cmd.Printf("%d code(s) recorded.\n", recorded)
			return nil
		case <-cancelled:
			cancelled = nil
			session.Stop()
		}
	}
}

// printNewRecords prints, oldest first, the records of snapshot not yet in seen.
func printNewRecords(cmd *cobra.Command, snapshot domain.HistorySnapshot, seen map[string]bool) int {
	printed := 0
	for i := len(snapshot.Records) - 1; i >= 0; i-- {
		r := snapshot.Records[i]
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		cmd.Printf("%-16s %s\n", r.ContentType, r.DisplayValue)
		printed++
	}
	return printed
}
