// Package main provides the entry point for the copydesk CLI and API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "copy_agent",
	Short: "Constrained marketing copy generator",
	Long:  "copy_agent drafts short marketing copy with an LLM, checks every draft against hard editorial constraints, repairs non-compliant drafts, and returns the best-scoring variant.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
