package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Inspect stored documents",
	Long:  `List stored documents or print one document's segments.`,
}

var documentsListCmd = &cobra.Command{
	Use:   "list [jurisdiction]",
	Short: "List stored documents, optionally for one jurisdiction",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDocumentsList,
}

var documentsShowCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Print a document's classified segments",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsShow,
}

func init() {
	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsShowCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, args []string) error {
	if documentStore == nil {
		return errors.New("document store not configured")
	}

	jurisdiction := ""
	if len(args) > 0 {
		jurisdiction = args[0]
	}

	docs, err := documentStore.ListDocuments(context.Background(), jurisdiction)
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents stored.")
		return nil
	}

	for i := range docs {
		cmd.Printf("%s  %s  %s  %s\n", docs[i].ID, docs[i].Date.String(), docs[i].Jurisdiction, docs[i].Title)
	}
	return nil
}

func runDocumentsShow(cmd *cobra.Command, args []string) error {
	if documentStore == nil {
		return errors.New("document store not configured")
	}

	doc, err := documentStore.GetDocument(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("getting document: %w", err)
	}

	cmd.Printf("Title:        %s\n", doc.Title)
	cmd.Printf("Jurisdiction: %s\n", doc.Jurisdiction)
	cmd.Printf("Date:         %s\n", doc.Date.String())
	if doc.Date.Category != "" {
		cmd.Printf("Category:     %s\n", doc.Date.Category)
	}
	cmd.Printf("Type:         %s\n", doc.DocumentType)
	cmd.Printf("URI:          %s\n", doc.URI)
	cmd.Println()

	for _, seg := range doc.Segments {
		switch {
		case seg.Speaker != "":
			cmd.Printf("[%3d] %-20s %s: %s\n", seg.Ordinal, seg.Kind, seg.Speaker, seg.Text)
		default:
			cmd.Printf("[%3d] %-20s %s\n", seg.Ordinal, seg.Kind, seg.Text)
		}
	}
	return nil
}
