package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lguinah/matching-api/internal/server"
)

var (
	servePort       int
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the matching endpoints used by the mobile client.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to a JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadMatchingConfig(serveConfigPath)
	if err != nil {
		return err
	}

	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	srv, err := server.New(server.Config{
		Port:        servePort,
		DatabaseURL: cfg.DatabaseURL,
		APIKey:      cfg.ServiceKey,
		Matching:    cfg,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// envOverride returns the environment value when set, the current value
// otherwise.
func envOverride(current, envVar string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return current
}
