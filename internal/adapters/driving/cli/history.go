package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scanlog/internal/core/domain"
)

var (
	historyListType  string
	historyListLimit int
	historyListJSON  bool
	historyClearYes  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and prune the scan history",
	Long:  `List, show, remove or clear recorded scans.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded scans, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [record-id]",
	Short: "Show a recorded scan",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyRemoveCmd = &cobra.Command{
	Use:   "remove [record-id]",
	Short: "Remove a recorded scan",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryRemove,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every recorded scan",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	historyListCmd.Flags().StringVarP(&historyListType, "type", "t", "", "only list records of this content type")
	historyListCmd.Flags().IntVarP(&historyListLimit, "limit", "n", 0, "maximum number of records (0 = all)")
	historyListCmd.Flags().BoolVar(&historyListJSON, "json", false, "output records as JSON")
	historyClearCmd.Flags().BoolVarP(&historyClearYes, "yes", "y", false, "do not ask for confirmation")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyRemoveCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

// recordJSON is the JSON shape printed by history list --json.
type recordJSON struct {
	ID           string    `json:"id"`
	ContentType  string    `json:"contentType"`
	DisplayValue string    `json:"displayValue"`
	RawPayload   string    `json:"rawPayload"`
	CreatedAt    time.Time `json:"createdAt"`
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	var filter domain.ContentType
	if historyListType != "" {
		filter = domain.ContentType(strings.ToUpper(historyListType))
		if !filter.IsValid() {
			return fmt.Errorf("unknown content type %q", historyListType)
		}
	}

	var records []domain.ScanRecord
	for _, r := range historyService.Snapshot().Records {
		if historyListLimit > 0 && len(records) == historyListLimit {
			break
		}
		if filter != "" && r.ContentType != filter {
			continue
		}
		records = append(records, r)
	}

	if historyListJSON {
		return outputHistoryJSON(cmd, records)
	}

	if len(records) == 0 {
		cmd.Println("No scans recorded.")
		return nil
	}
	for _, r := range records {
		cmd.Printf("%s  %s  %-16s %s\n", r.ID, r.CreatedAt.Local().Format(time.DateTime), r.ContentType, r.DisplayValue)
	}
	return nil
}

func outputHistoryJSON(cmd *cobra.Command, records []domain.ScanRecord) error {
	out := make([]recordJSON, len(records))
	for i, r := range records {
		out[i] = recordJSON{
			ID:           r.ID,
			ContentType:  r.ContentType.String(),
			DisplayValue: r.DisplayValue,
			RawPayload:   r.RawPayload,
			CreatedAt:    r.CreatedAt.UTC(),
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	r, err := historyService.Get(args[0])
	if err != nil {
		return fmt.Errorf("failed to get record: %w", err)
	}

	cmd.Printf("ID:       %s\n", r.ID)
	cmd.Printf("Type:     %s\n", r.ContentType)
	cmd.Printf("Value:    %s\n", r.DisplayValue)
	cmd.Printf("Payload:  %s\n", r.RawPayload)
	cmd.Printf("Scanned:  %s\n", r.CreatedAt.Local().Format(time.RFC3339))
	return nil
}

func runHistoryRemove(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	removed, err := historyService.Remove(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to remove record: %w", err)
	}
	if !removed {
		cmd.Printf("No record with ID %s.\n", args[0])
		return nil
	}
	cmd.Printf("Removed %s.\n", args[0])
	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	if !historyClearYes {
		n := historyService.Snapshot().Len()
		cmd.Printf("Remove all %d recorded scan(s)? [y/N]: ", n)
		answer := readLine(bufio.NewReader(cmd.InOrStdin()))
		if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if err := historyService.Clear(commandContext(cmd)); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	cmd.Println("History cleared.")
	return nil
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
