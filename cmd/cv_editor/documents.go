package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-editor/internal/db"
	"github.com/jonathan/cv-editor/internal/observability"
	"github.com/jonathan/cv-editor/internal/types"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a document",
	Long:  "Create a document from a CV JSON file, or from the built-in sample when no file is given.",
	Args:  cobra.NoArgs,
	RunE:  runNew,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show <document-id>",
	Short: "Print a document in the active locale",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <document-id>",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var validateCmd = &cobra.Command{
	Use:   "validate <file.json>",
	Short: "Check a CV JSON file without storing it",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	newCmd.Flags().StringP("file", "f", "", "CV JSON file to create the document from")

	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(validateCmd)
}

func runNew(cmd *cobra.Command, _ []string) error {
	_, repo, err := openRepository(cmd)
	if err != nil {
		return err
	}
	defer repo.Close()

	path, _ := cmd.Flags().GetString("file")
	rec, err := createDocument(cmd.Context(), repo, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created document %s (%s)\n", rec.ID, rec.Name)
	return nil
}

// createDocument stores the CV in path, or the sample CV when path is empty.
func createDocument(ctx context.Context, repo db.Repository, path string) (*db.DocumentRecord, error) {
	doc := types.SampleDocument()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		doc, err = types.DecodeDocument(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	}
	return repo.CreateDocument(ctx, doc)
}

func runList(cmd *cobra.Command, _ []string) error {
	_, repo, err := openRepository(cmd)
	if err != nil {
		return err
	}
	defer repo.Close()

	return listDocuments(cmd.Context(), repo, cmd.OutOrStdout())
}

func listDocuments(ctx context.Context, repo db.Repository, out io.Writer) error {
	docs, err := repo.ListDocuments(ctx)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Fprintln(out, "No documents.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tREVISION\tUPDATED")
	for _, d := range docs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", d.ID, d.Name, d.Revision, d.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, repo, err := openRepository(cmd)
	if err != nil {
		return err
	}
	defer repo.Close()

	id, err := parseDocumentID(args[0])
	if err != nil {
		return err
	}
	rec, err := repo.GetDocument(cmd.Context(), id)
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintDocument(rec.Document, cfg.ActiveLocale())
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	_, repo, err := openRepository(cmd)
	if err != nil {
		return err
	}
	defer repo.Close()

	id, err := parseDocumentID(args[0])
	if err != nil {
		return err
	}
	if err := repo.DeleteDocument(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted document %s\n", id)
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return validateDocument(data, cmd.OutOrStdout())
}

// validateDocument prints the outcome of validating data and returns the
// validation error, if any, so the command exits non-zero.
func validateDocument(data []byte, out io.Writer) error {
	_, err := types.DecodeDocument(data)
	observability.NewPrinter(out).PrintValidation(err)
	return err
}
