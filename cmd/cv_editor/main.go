// Package main provides the entry point for the CV editor CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cv_editor",
	Short: "Bilingual CV editor",
	Long: `cv_editor edits a CV held in Spanish and English, imports and exports
JSON Resume files, reads PDF CVs and asks an AI assistant to improve sections.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	SilenceUsage: true,
}

func init() {
	addConfigFlags(rootCmd)
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
