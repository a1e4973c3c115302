package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Manage ingested documents",
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentsList,
}

var documentsShowCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Print a document's stored text",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsShow,
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Remove a document and its index entries",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsDelete,
}

func init() {
	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsShowCmd)
	documentsCmd.AddCommand(documentsDeleteCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, args []string) error {
	docs, err := store.DocumentStore().ListDocuments(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents ingested yet.")
		return nil
	}

	for _, doc := range docs {
		chunks, err := store.DocumentStore().GetChunks(cmd.Context(), doc.ID)
		if err != nil {
			return fmt.Errorf("reading chunks for %s: %w", doc.ID, err)
		}
		cmd.Printf("%s  %-30s  %-15s  %3d chunks  %s\n",
			doc.ID, doc.SourceName, doc.MIMEType, len(chunks),
			doc.IngestedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runDocumentsShow(cmd *cobra.Command, args []string) error {
	doc, err := store.DocumentStore().GetDocument(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("getting document: %w", err)
	}

	cmd.Printf("Source: %s\nType: %s\nIngested: %s\n\n%s\n",
		doc.SourceName, doc.MIMEType,
		doc.IngestedAt.Format("2006-01-02 15:04:05"), doc.Content)
	return nil
}

func runDocumentsDelete(cmd *cobra.Command, args []string) error {
	id := args[0]

	// Confirm the document exists before deleting; DeleteDocument itself
	// is a no-op on unknown IDs.
	if _, err := store.DocumentStore().GetDocument(cmd.Context(), id); err != nil {
		return fmt.Errorf("getting document: %w", err)
	}

	if err := store.DocumentStore().DeleteDocument(cmd.Context(), id); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	cmd.Printf("Deleted %s\n", id)
	return nil
}
