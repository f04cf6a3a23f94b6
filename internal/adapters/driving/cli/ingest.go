package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var ingestWatch bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [collections-root]",
	Short: "Ingest hansard documents from a collections tree",
	Long: `Walks a collections tree, normalises every transcript into
speaker-attributed segments, stores the documents and indexes their
chunks for search. Re-ingesting a tree is idempotent.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "keep watching the tree for new documents after the full ingest")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	root := args[0]

	if ingestOrchestrator == nil {
		return errors.New("ingest service not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cmd.Printf("Ingesting from %s...\n", root)

	report, err := ingestOrchestrator.Ingest(ctx, root)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Documents processed: %d\n", report.DocumentsProcessed)
	cmd.Printf("Chunks indexed:      %d\n", report.ChunksIndexed)
	if len(report.Failures) > 0 {
		cmd.Printf("Failures:            %d\n", len(report.Failures))
		for _, failure := range report.Failures {
			if failure.URI != "" {
				cmd.Printf("  %s: %s\n", failure.URI, failure.Reason)
			} else {
				cmd.Printf("  %s\n", failure.Reason)
			}
		}
	}

	if !ingestWatch {
		return nil
	}

	cmd.Println("Watching for new documents (Ctrl-C to stop)...")

	watchCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := ingestOrchestrator.Watch(watchCtx, root); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}
