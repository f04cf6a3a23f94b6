// Package cli implements the cobra command surface that drives the
// hansard pipeline: ingest, search, document inspection and date
// resolution.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/jlkeet/pacific-hansard-sub001/internal/core/ports/driven"
	"github.com/jlkeet/pacific-hansard-sub001/internal/core/ports/driving"
	"github.com/jlkeet/pacific-hansard-sub001/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services are injected by the composition root before Execute runs.
var (
	searchService      driving.SearchService
	ingestOrchestrator driving.IngestOrchestrator
	documentStore      driven.DocumentStore
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "hansard",
	Short: "Pacific hansard normalisation and search",
	Long: `hansard ingests parliamentary transcripts from a collections tree,
normalises them into speaker-attributed segments, and indexes the
resulting chunks for full-text search.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// SetServices wires the driving services into the command surface.
// Must be called before Execute.
func SetServices(search driving.SearchService, ingest driving.IngestOrchestrator, docs driven.DocumentStore) {
	searchService = search
	ingestOrchestrator = ingest
	documentStore = docs
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
