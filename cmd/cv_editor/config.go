package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/cv-editor/internal/assist"
	"github.com/jonathan/cv-editor/internal/config"
	"github.com/jonathan/cv-editor/internal/db"
	"github.com/jonathan/cv-editor/internal/document"
	"github.com/jonathan/cv-editor/internal/llm"
)

// addConfigFlags registers the flags shared by every command.
func addConfigFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("config", "", "Path to config.json file (defaults to CV_EDITOR_CONFIG; values can be overridden by other flags)")
	flags.String("db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL)")
	flags.String("store", "", "SQLite file used when no database URL is set")
	flags.StringP("locale", "l", "", "Active locale: es or en")
	flags.BoolP("verbose", "v", false, "Print detailed output")
}

// resolveConfig builds the effective configuration: config file, then
// command-line overrides, then environment, then built-in defaults.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()

	// Step 1: Load config file if provided
	var cfg config.Config
	path, _ := flags.GetString("config")
	if path == "" {
		path = os.Getenv("CV_EDITOR_CONFIG")
	}
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	if flags.Changed("db-url") {
		cfg.DatabaseURL, _ = flags.GetString("db-url")
		cfg.StorePath = ""
	}
	if flags.Changed("store") {
		cfg.StorePath, _ = flags.GetString("store")
		cfg.DatabaseURL = ""
	}
	if flags.Changed("locale") {
		cfg.Locale, _ = flags.GetString("locale")
	}
	if flags.Changed("verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}

	// Step 3: Environment fills what is still unset
	env, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}
	cfg = cfg.MergeWithDefaults(*env)

	// Step 4: Apply defaults for unset values
	cfg = cfg.MergeWithDefaults(config.Defaults())

	// Step 5: Validate
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// openRepository resolves the configuration and opens the document store it names.
func openRepository(cmd *cobra.Command) (config.Config, db.Repository, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return config.Config{}, nil, err
	}
	repo, err := db.Open(cmd.Context(), cfg.DatabaseURL, cfg.StorePath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to open store: %w", err)
	}
	if cfg.Verbose {
		if cfg.DatabaseURL != "" {
			log.Printf("[cli] using PostgreSQL store")
		} else {
			log.Printf("[cli] using SQLite store at %s", cfg.StorePath)
		}
	}
	return cfg, repo, nil
}

func parseDocumentID(arg string) (uuid.UUID, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid document ID %q: %w", arg, err)
	}
	return id, nil
}

// withDocument loads a document into a store, runs fn against it and saves
// the result when fn changed anything. The returned record is the saved one,
// or the loaded one if nothing changed.
func withDocument(ctx context.Context, repo db.Repository, arg string, fn func(store *document.Store) error) (*db.DocumentRecord, error) {
	id, err := parseDocumentID(arg)
	if err != nil {
		return nil, err
	}
	rec, err := repo.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	store, err := document.NewStore(rec.Document)
	if err != nil {
		return nil, fmt.Errorf("stored document %s is invalid: %w", id, err)
	}

	before := store.Version()
	if err := fn(store); err != nil {
		return nil, err
	}
	if store.Version() == before {
		return rec, nil
	}
	return repo.SaveDocument(ctx, id, store.Document())
}

// newGateway builds an assist gateway that reads the API key from the store
// on every call, falling back to the configured one.
func newGateway(repo db.Repository, cfg config.Config) *assist.Gateway {
	llmCfg := llm.DefaultConfig()
	return assist.NewGateway(assist.GeminiFactory(llmCfg), func(ctx context.Context) (config.AISettings, error) {
		return config.LoadAISettings(ctx, repo, &cfg)
	})
}
