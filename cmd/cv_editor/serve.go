package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-editor/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for editing documents, importing and exporting them, and streaming AI assists.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "Port to listen on (defaults to PORT or 8080)")
	serveCmd.Flags().Bool("use-browser", false, "Render job pages in a headless browser when plain fetching yields too little text")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, repo, err := openRepository(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser, _ = cmd.Flags().GetBool("use-browser")
	}

	srv, err := server.New(server.Config{
		Port:       cfg.Port,
		RateLimit:  cfg.RateLimit,
		RateBurst:  cfg.RateBurst,
		UseBrowser: cfg.UseBrowser,
		Verbose:    cfg.Verbose,
		App:        &cfg,
	}, repo)
	if err != nil {
		repo.Close()
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
