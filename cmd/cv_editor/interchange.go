package main

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-editor/internal/assist"
	"github.com/jonathan/cv-editor/internal/db"
	"github.com/jonathan/cv-editor/internal/document"
	"github.com/jonathan/cv-editor/internal/ingestion"
	"github.com/jonathan/cv-editor/internal/interchange"
	"github.com/jonathan/cv-editor/internal/observability"
	"github.com/jonathan/cv-editor/internal/types"
)

var exportCmd = &cobra.Command{
	Use:   "export <document-id>",
	Short: "Export one locale of a document as a JSON Resume file",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <document-id> <file.json>",
	Short: "Replace a document with an imported JSON Resume file",
	Long:  "Replace a document with an imported JSON Resume file. The file's content is used for both locales.",
	Args:  cobra.ExactArgs(2),
	RunE:  runImport,
}

var importPDFCmd = &cobra.Command{
	Use:   "import-pdf <document-id> <file.pdf>",
	Short: "Read a PDF CV and optionally extract it into the document",
	Long:  "Validate a PDF CV and extract its text. With --ai the text is sent to the assistant and the extracted sections replace the document's.",
	Args:  cobra.ExactArgs(2),
	RunE:  runImportPDF,
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "Output directory (defaults to the current directory)")
	importPDFCmd.Flags().Bool("ai", false, "Extract CV sections from the text with the assistant and apply them")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(importPDFCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, repo, err := openRepository(cmd)
	if err != nil {
		return err
	}
	defer repo.Close()

	outDir, _ := cmd.Flags().GetString("out")
	path, err := exportDocument(cmd.Context(), repo, args[0], cfg.ActiveLocale(), outDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %s\n", path)
	return nil
}

// exportDocument writes the interchange file for locale l into outDir and
// returns its path.
func exportDocument(ctx context.Context, repo db.Repository, arg string, l types.Locale, outDir string) (string, error) {
	id, err := parseDocumentID(arg)
	if err != nil {
		return "", err
	}
	rec, err := repo.GetDocument(ctx, id)
	if err != nil {
		return "", err
	}

	data, fileName, err := interchange.Export(rec.Document, l)
	if err != nil {
		return "", err
	}
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	path := filepath.Join(outDir, fileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func runImport(cmd *cobra.Command, args []string) error {
	_, repo, err := openRepository(cmd)
	if err != nil {
		return err
	}
	defer repo.Close()

	rec, err := importDocument(cmd.Context(), repo, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %s into %s (revision %d)\n", args[1], rec.ID, rec.Revision)
	return nil
}

func importDocument(ctx context.Context, repo db.Repository, arg, path string) (*db.DocumentRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := interchange.Import(data)
	if err != nil {
		return nil, err
	}
	return withDocument(ctx, repo, arg, func(store *document.Store) error {
		return store.Replace(doc)
	})
}

func runImportPDF(cmd *cobra.Command, args []string) error {
	cfg, repo, err := openRepository(cmd)
	if err != nil {
		return err
	}
	defer repo.Close()

	var gateway *assist.Gateway
	if ai, _ := cmd.Flags().GetBool("ai"); ai {
		gateway = newGateway(repo, cfg)
	}
	env := assistEnv{Repo: repo, Gateway: gateway, Extractor: ingestion.PDFExtractor{}}
	_, err = importPDF(cmd.Context(), env, args[0], args[1], cmd.OutOrStdout())
	return err
}

// importPDF reads the PDF at path, printing each import step. When
// env.Gateway is set the text is extracted into the document.
func importPDF(ctx context.Context, env assistEnv, arg, path string, out io.Writer) (*ingestion.PDFText, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	printer := observability.NewPrinter(out)
	pdf, err := ingestion.ReadPDF(ctx, env.Extractor, filepath.Base(path), mime.TypeByExtension(filepath.Ext(path)), data, printer.PrintImportStep)
	if err != nil {
		return nil, err
	}
	if env.Gateway == nil {
		printer.PrintIngested(pdf.Text, pdf.Metadata)
		return pdf, nil
	}

	printer.PrintImportStep(ingestion.StepAI, "extracting CV sections")
	rec, err := withDocument(ctx, env.Repo, arg, func(store *document.Store) error {
		res, err := streamAssist(ctx, env.Gateway, arg, assist.Request{Kind: assist.KindExtract, Text: pdf.Text}, store, printer)
		if err != nil {
			return err
		}
		return assist.Apply(store, res)
	})
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "Document %s is at revision %d\n", rec.ID, rec.Revision)
	return pdf, nil
}
