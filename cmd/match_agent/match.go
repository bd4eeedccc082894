package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lguinah/matching-api/internal/config"
	"github.com/lguinah/matching-api/internal/llm"
	"github.com/lguinah/matching-api/internal/matching"
	"github.com/lguinah/matching-api/internal/observability"
	"github.com/lguinah/matching-api/internal/oracle"
	"github.com/lguinah/matching-api/internal/types"
)

var (
	matchLostPath   string
	matchFoundPath  string
	matchConfigPath string
	matchVerbose    bool
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match a lost item against found items from JSON files",
	Long: `Run one matching pass without the server or database: reads a lost item and
a list of found items from JSON files, scores them, and prints the ranked
matches as JSON.`,
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringVar(&matchLostPath, "lost", "", "Path to the lost item JSON file (required)")
	matchCmd.Flags().StringVar(&matchFoundPath, "found", "", "Path to the found items JSON array file (required)")
	matchCmd.Flags().StringVar(&matchConfigPath, "config", "", "Path to a JSON config file")
	matchCmd.Flags().BoolVar(&matchVerbose, "verbose", false, "Print formatted progress to stderr")
	_ = matchCmd.MarkFlagRequired("lost")
	_ = matchCmd.MarkFlagRequired("found")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadMatchingConfig(matchConfigPath)
	if err != nil {
		return err
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	lost, err := loadLostItem(matchLostPath)
	if err != nil {
		return err
	}
	candidates, err := loadFoundItems(matchFoundPath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig().WithModel(cfg.Model), cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close() //nolint:errcheck // process exits after this

	engine := matching.New(oracle.New(client, cfg), cfg)

	var printer *observability.Printer
	if matchVerbose {
		printer = observability.NewPrinter(os.Stderr)
		printer.PrintLostItem(lost)
	}

	matches := engine.FindMatches(ctx, lost, candidates)

	if printer != nil {
		scored := min(len(candidates), cfg.LimitCandidates)
		printer.PrintCandidateSummary(len(candidates), scored)
		printer.PrintMatches(matches)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(types.MatchResponse{
		LostItemID: lost.ID,
		Matches:    matches,
		Message:    fmt.Sprintf("%d potential match(es) found.", len(matches)),
	})
}

// loadMatchingConfig builds the effective config: file values (if a path is
// given) on top of defaults, then environment overrides, then validation.
func loadMatchingConfig(path string) (*config.Config, error) {
	cfg := config.Defaults()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded.MergeWithDefaults(config.Defaults())
	}

	cfg.APIKey = envOverride(cfg.APIKey, "GEMINI_API_KEY")
	cfg.DatabaseURL = envOverride(cfg.DatabaseURL, "DATABASE_URL")
	cfg.WebhookURL = envOverride(cfg.WebhookURL, "NOTIFY_WEBHOOK_URL")
	cfg.ServiceKey = envOverride(cfg.ServiceKey, "MATCH_API_KEY")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadLostItem(path string) (*types.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lost item file: %w", err)
	}

	var item types.Item
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("failed to parse lost item JSON: %w", err)
	}

	item.Timestamp = types.NormalizeTimestamp(item.Timestamp)
	if item.Status == "" {
		item.Status = types.StatusLost
	}
	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("invalid lost item: %w", err)
	}
	return &item, nil
}

func loadFoundItems(path string) ([]*types.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read found items file: %w", err)
	}

	var items []*types.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse found items JSON: %w", err)
	}

	for _, item := range items {
		item.Timestamp = types.NormalizeTimestamp(item.Timestamp)
		item.Category = types.NormalizeCategory(string(item.Category))
		if item.Status == "" {
			item.Status = types.StatusFound
		}
	}
	return items, nil
}
