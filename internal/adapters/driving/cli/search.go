package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jlkeet/pacific-hansard-sub001/internal/core/domain"
)

var (
	searchLimit  int
	searchSource string
	searchJSON   bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed hansard chunks",
	Long: `Performs a BM25 keyword search across all indexed chunks.
Results carry the parent document's title, jurisdiction and sitting date.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().StringVar(&searchSource, "source", "", "restrict results to one jurisdiction")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	ctx := context.Background()
	opts := domain.SearchOptions{
		Limit:  searchLimit,
		Source: searchSource,
	}

	results, err := searchService.Search(ctx, query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.IndexRecord) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.IndexRecord) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		title := results[i].Title
		if title == "" {
			title = results[i].ID
		}

		cmd.Printf("  [%d] %s (%.2f)\n", i+1, title, results[i].Score)
		cmd.Printf("      %s, %s", results[i].Source, results[i].Date.Format("2006-01-02"))
		if results[i].DocumentType != "" {
			cmd.Printf(" (%s)", results[i].DocumentType)
		}
		cmd.Println()
		if snippet := snippetOf(results[i].Content); snippet != "" {
			cmd.Printf("      %s\n", snippet)
		}
		cmd.Println()
	}

	return nil
}

// snippetOf trims chunk content down to a single display line.
func snippetOf(content string) string {
	const maxSnippet = 120
	if len(content) <= maxSnippet {
		return content
	}
	return content[:maxSnippet] + "..."
}
