package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-editor/internal/fetch"
	"github.com/jonathan/cv-editor/internal/ingestion"
	"github.com/jonathan/cv-editor/internal/observability"
)

var ingestJobCmd = &cobra.Command{
	Use:   "ingest-job",
	Short: "Ingest a job posting from a text file or URL",
	Long:  "Ingest a job posting from either a text or PDF file or a URL, clean the content, and print it with its metadata. Fetched pages are cached in the document store.",
	Args:  cobra.NoArgs,
	RunE:  runIngestJob,
}

func init() {
	ingestJobCmd.Flags().StringP("text-file", "t", "", "Path to text or PDF file containing job posting")
	ingestJobCmd.Flags().StringP("url", "u", "", "URL to fetch job posting from")
	ingestJobCmd.Flags().StringP("out", "o", "", "Output directory for the cleaned text and metadata")
	ingestJobCmd.Flags().Bool("use-browser", false, "Render the page in a headless browser when needed")

	rootCmd.AddCommand(ingestJobCmd)
}

func runIngestJob(cmd *cobra.Command, _ []string) error {
	textFile, _ := cmd.Flags().GetString("text-file")
	urlStr, _ := cmd.Flags().GetString("url")

	// Validate mutually exclusive flags
	if textFile == "" && urlStr == "" {
		return fmt.Errorf("either --text-file or --url must be provided")
	}
	if textFile != "" && urlStr != "" {
		return fmt.Errorf("--text-file and --url are mutually exclusive; provide only one")
	}

	cfg, repo, err := openRepository(cmd)
	if err != nil {
		return err
	}
	defer repo.Close()

	fetchCfg := fetch.DefaultCachedFetcherConfig()
	fetchCfg.Verbose = cfg.Verbose
	if useBrowser, _ := cmd.Flags().GetBool("use-browser"); useBrowser || cfg.UseBrowser {
		fetchCfg.Renderer = fetch.ChromeRenderer(fetch.DefaultBrowserTimeout, cfg.Verbose)
	}
	fetcher := fetch.NewCachedFetcher(repo, fetchCfg)

	outDir, _ := cmd.Flags().GetString("out")
	source := ingestion.JobSource{File: textFile, URL: urlStr}
	return ingestJob(cmd.Context(), source, fetcher, outDir, cmd.OutOrStdout())
}

// ingestJob resolves source, prints the cleaned text and writes it to outDir
// when one is given.
func ingestJob(ctx context.Context, source ingestion.JobSource, fetcher *fetch.CachedFetcher, outDir string, out io.Writer) error {
	text, meta, err := source.Ingest(ctx, fetcher, ingestion.PDFExtractor{})
	if err != nil {
		return fmt.Errorf("failed to ingest job posting: %w", err)
	}
	observability.NewPrinter(out).PrintIngested(text, meta)

	if outDir == "" {
		return nil
	}
	if err := writeIngested(outDir, text, meta); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Fprintf(out, "Cleaned text: %s\n", filepath.Join(outDir, "job_posting.cleaned.txt"))
	fmt.Fprintf(out, "Metadata: %s\n", filepath.Join(outDir, "job_posting.meta.json"))
	return nil
}

func writeIngested(outDir, text string, meta *ingestion.Metadata) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "job_posting.cleaned.txt"), []byte(text), 0644); err != nil {
		return err
	}
	data, err := meta.ToJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, "job_posting.meta.json"), data, 0644)
}
