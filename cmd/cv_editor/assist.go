package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-editor/internal/assist"
	"github.com/jonathan/cv-editor/internal/config"
	"github.com/jonathan/cv-editor/internal/db"
	"github.com/jonathan/cv-editor/internal/document"
	"github.com/jonathan/cv-editor/internal/fetch"
	"github.com/jonathan/cv-editor/internal/ingestion"
	"github.com/jonathan/cv-editor/internal/observability"
)

// improveAll runs every section improvement and applies them together.
const improveAll = "improve-all"

var assistCmd = &cobra.Command{
	Use:   "assist <document-id> <kind>",
	Short: "Ask the AI assistant to improve or tailor a document",
	Long: `Run an AI assist against a stored document and stream the model output.

Kinds: improve-experience, improve-profile, improve-education, improve-skills,
get-advice, tailor-to-job-description, extract-from-raw-text and improve-all.

Results are only written to the document with --apply, except improve-all
which always applies when every section succeeds.`,
	Args: cobra.ExactArgs(2),
	RunE: runAssist,
}

var setKeyCmd = &cobra.Command{
	Use:   "set-key [api-key]",
	Short: "Store the Gemini API key used by assists",
	Long:  "Store the Gemini API key used by assists. Run without an argument to remove the stored key.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSetKey,
}

func init() {
	assistCmd.Flags().String("job", "", "Job description text (tailor-to-job-description)")
	assistCmd.Flags().String("job-file", "", "Job description text or PDF file (tailor-to-job-description)")
	assistCmd.Flags().String("job-url", "", "Job posting URL (tailor-to-job-description)")
	assistCmd.Flags().String("text-file", "", "Raw CV text file (extract-from-raw-text)")
	assistCmd.Flags().Bool("apply", false, "Write the result into the document")
	assistCmd.Flags().Bool("use-browser", false, "Render job pages in a headless browser when needed")

	rootCmd.AddCommand(assistCmd)
	rootCmd.AddCommand(setKeyCmd)
}

// assistOptions describes one assist run from the command line.
type assistOptions struct {
	DocumentID string
	Kind       string
	Job        ingestion.JobSource
	Text       string
	Apply      bool
	Verbose    bool
}

// assistEnv holds the collaborators an assist run needs.
type assistEnv struct {
	Repo      db.Repository
	Gateway   *assist.Gateway
	Fetcher   *fetch.CachedFetcher
	Extractor ingestion.TextExtractor
}

func runAssist(cmd *cobra.Command, args []string) error {
	cfg, repo, err := openRepository(cmd)
	if err != nil {
		return err
	}
	defer repo.Close()

	flags := cmd.Flags()
	opts := assistOptions{DocumentID: args[0], Kind: args[1], Verbose: cfg.Verbose}
	opts.Job.Text, _ = flags.GetString("job")
	opts.Job.File, _ = flags.GetString("job-file")
	opts.Job.URL, _ = flags.GetString("job-url")
	opts.Apply, _ = flags.GetBool("apply")
	if path, _ := flags.GetString("text-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		opts.Text = string(data)
	}

	fetchCfg := fetch.DefaultCachedFetcherConfig()
	fetchCfg.Verbose = cfg.Verbose
	if useBrowser, _ := flags.GetBool("use-browser"); useBrowser || cfg.UseBrowser {
		fetchCfg.Renderer = fetch.ChromeRenderer(fetch.DefaultBrowserTimeout, cfg.Verbose)
	}

	env := assistEnv{
		Repo:      repo,
		Gateway:   newGateway(repo, cfg),
		Fetcher:   fetch.NewCachedFetcher(repo, fetchCfg),
		Extractor: ingestion.PDFExtractor{},
	}
	_, err = assistDocument(cmd.Context(), env, opts, cmd.OutOrStdout())
	return err
}

// assistDocument runs one assist against a stored document and saves any
// applied result.
func assistDocument(ctx context.Context, env assistEnv, opts assistOptions, out io.Writer) (*db.DocumentRecord, error) {
	printer := observability.NewPrinter(out)

	rec, err := withDocument(ctx, env.Repo, opts.DocumentID, func(store *document.Store) error {
		scope := opts.DocumentID

		if opts.Kind == improveAll {
			results, err := env.Gateway.ImproveAll(ctx, scope, store)
			if err != nil {
				return err
			}
			for _, res := range results {
				printer.PrintAssistResult(res)
			}
			return nil
		}

		kind, err := assist.ParseKind(opts.Kind)
		if err != nil {
			return err
		}
		req := assist.Request{Kind: kind, Text: opts.Text}
		if kind == assist.KindTailor {
			text, meta, err := opts.Job.Ingest(ctx, env.Fetcher, env.Extractor)
			if err != nil {
				return err
			}
			if opts.Verbose {
				printer.PrintIngested(text, meta)
			}
			req.JobDescription = text
		}

		res, err := streamAssist(ctx, env.Gateway, scope, req, store, printer)
		if err != nil {
			return err
		}
		if opts.Apply && res.Kind.Applies() {
			return assist.Apply(store, res)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if opts.Apply || opts.Kind == improveAll {
		fmt.Fprintf(out, "Document %s is at revision %d\n", rec.ID, rec.Revision)
	}
	return rec, nil
}

// streamAssist prints model output as it arrives and returns the parsed result.
func streamAssist(ctx context.Context, gateway *assist.Gateway, scope string, req assist.Request, store *document.Store, printer *observability.Printer) (*assist.Result, error) {
	printer.PrintAssistStart(req.Kind)
	sub, err := gateway.Start(ctx, scope, req, store.Document())
	if err != nil {
		return nil, err
	}
	defer sub.Close()

	for u := range sub.Updates() {
		printer.PrintAssistDelta(u.Delta)
		if !u.Done {
			continue
		}
		printer.PrintAssistDelta("\n")
		if u.Err != nil {
			return nil, u.Err
		}
		printer.PrintAssistResult(u.Result)
		return u.Result, nil
	}
	return nil, assist.ErrClosed
}

func runSetKey(cmd *cobra.Command, args []string) error {
	_, repo, err := openRepository(cmd)
	if err != nil {
		return err
	}
	defer repo.Close()

	key := ""
	if len(args) == 1 {
		key = args[0]
	}
	if err := config.SaveAPIKey(cmd.Context(), repo, key); err != nil {
		return err
	}
	if key == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "Stored API key removed")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "API key stored")
	}
	return nil
}
