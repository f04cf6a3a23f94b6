package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jlkeet/pacific-hansard-sub001/internal/resolver"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [path]",
	Short: "Resolve the sitting date from a collections path",
	Long: `Resolves the canonical sitting date, jurisdiction and category
from a collections path without ingesting anything. Useful for checking
how a path will be interpreted.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	segments := strings.FieldsFunc(filepath.ToSlash(args[0]), func(r rune) bool {
		return r == '/'
	})

	date, err := resolver.Resolve(segments)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", args[0], err)
	}

	cmd.Printf("Date:         %s\n", date.String())
	if date.Category != "" {
		cmd.Printf("Category:     %s\n", date.Category)
	}
	cmd.Printf("Jurisdiction: %s\n", resolver.Jurisdiction(segments))
	return nil
}
