package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scanlog/internal/adapters/driven/source"
)

var importInbox string

var importCmd = &cobra.Command{
	Use:   "import [payload...]",
	Short: "Record codes decoded from still images",
	Long: `Records payloads decoded from gallery images. Imports are never debounced:
importing the same payload twice records it twice.

With --inbox, watches a directory instead. Every file dropped into it is read
as one payload and then removed.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importInbox, "inbox", "", "watch a directory for decoded payload files")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if importInbox != "" {
		if len(args) > 0 {
			return errors.New("pass either payloads or --inbox, not both")
		}
		cmd.Printf("Watching %s. Press Ctrl-C to stop.\n", importInbox)
		return recordSession(cmd, source.NewInboxSource(importInbox))
	}

	if len(args) == 0 {
		return errors.New("nothing to import: pass payloads or --inbox")
	}
	return recordSession(cmd, source.NewGallerySource(args...))
}
