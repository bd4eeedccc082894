// Package main provides the entry point for the LGUINAH matching service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "match_agent",
	Short: "LGUINAH Matching API Server",
	Long:  "Matching service for the LGUINAH lost and found platform. Scores lost reports against found reports using Gemini plus location, time and keyword heuristics, and serves ranked matches over REST.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
