// Package config provides configuration loading and validation for the
// matching service.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds the tuning knobs of the matching service. All fields are
// optional in a config file; missing values use defaults or must be provided
// via environment variables and CLI flags.
type Config struct {
	// Candidate handling
	LimitCandidates   int `json:"limit_candidates,omitempty"`    // Cap on candidates scored per query (bounds oracle cost)
	MinScoreThreshold int `json:"min_score_threshold,omitempty"` // Discard matches scoring below this
	NotifyThreshold   int `json:"notify_threshold,omitempty"`    // Push a notification when the top match reaches this
	MaxResults        int `json:"max_results,omitempty"`         // Top N results returned

	// Score weights. Must be non-negative and sum to 100.
	WeightText     int `json:"weight_text,omitempty"`
	WeightLocation int `json:"weight_location,omitempty"`
	WeightTime     int `json:"weight_time,omitempty"`
	WeightImage    int `json:"weight_image,omitempty"`

	// Oracle
	Model              string `json:"model,omitempty"`                // Gemini model name
	APIKey             string `json:"api_key,omitempty"`              // Gemini API key
	RetryAttempts      int    `json:"retry_attempts,omitempty"`       // Total oracle attempts per pair
	BackoffBaseSeconds int    `json:"backoff_base_seconds,omitempty"` // Wait is attempt * base on transient failures

	// Collaborators
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	WebhookURL  string `json:"webhook_url,omitempty"`  // Notification webhook (optional)
	ServiceKey  string `json:"service_key,omitempty"`  // X-API-Key expected on API routes
}

// Defaults returns the documented default configuration.
func Defaults() Config {
	return Config{
		LimitCandidates:    50,
		MinScoreThreshold:  40,
		NotifyThreshold:    70,
		MaxResults:         5,
		WeightText:         50,
		WeightLocation:     20,
		WeightTime:         10,
		WeightImage:        20,
		Model:              "gemini-2.5-flash-lite",
		RetryAttempts:      3,
		BackoffBaseSeconds: 5,
	}
}

// Load loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values. It is called at
// construction time so bad weights or thresholds fail fast, not mid-batch.
func (c *Config) Validate() error {
	for name, w := range map[string]int{
		"weight_text":     c.WeightText,
		"weight_location": c.WeightLocation,
		"weight_time":     c.WeightTime,
		"weight_image":    c.WeightImage,
	} {
		if w < 0 {
			return fmt.Errorf("config error: %q must be non-negative, got %d", name, w)
		}
	}
	if sum := c.WeightText + c.WeightLocation + c.WeightTime + c.WeightImage; sum != 100 {
		return fmt.Errorf("config error: score weights must sum to 100, got %d", sum)
	}

	if c.MinScoreThreshold < 0 || c.MinScoreThreshold > 100 {
		return fmt.Errorf("config error: 'min_score_threshold' must be in [0,100], got %d", c.MinScoreThreshold)
	}
	if c.NotifyThreshold < 0 || c.NotifyThreshold > 100 {
		return fmt.Errorf("config error: 'notify_threshold' must be in [0,100], got %d", c.NotifyThreshold)
	}
	if c.LimitCandidates <= 0 {
		return fmt.Errorf("config error: 'limit_candidates' must be positive, got %d", c.LimitCandidates)
	}
	if c.MaxResults <= 0 {
		return fmt.Errorf("config error: 'max_results' must be positive, got %d", c.MaxResults)
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("config error: 'retry_attempts' must be at least 1, got %d", c.RetryAttempts)
	}
	if c.BackoffBaseSeconds < 0 {
		return fmt.Errorf("config error: 'backoff_base_seconds' must be non-negative, got %d", c.BackoffBaseSeconds)
	}

	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from
// defaults. This is used to apply config file values on top of the documented
// defaults before validation.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.LimitCandidates == 0 {
		result.LimitCandidates = defaults.LimitCandidates
	}
	if result.MinScoreThreshold == 0 {
		result.MinScoreThreshold = defaults.MinScoreThreshold
	}
	if result.NotifyThreshold == 0 {
		result.NotifyThreshold = defaults.NotifyThreshold
	}
	if result.MaxResults == 0 {
		result.MaxResults = defaults.MaxResults
	}

	// Weights are filled as a block: a config that sets any weight must set
	// all four, otherwise a partial override would silently break the sum.
	if result.WeightText == 0 && result.WeightLocation == 0 &&
		result.WeightTime == 0 && result.WeightImage == 0 {
		result.WeightText = defaults.WeightText
		result.WeightLocation = defaults.WeightLocation
		result.WeightTime = defaults.WeightTime
		result.WeightImage = defaults.WeightImage
	}

	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.RetryAttempts == 0 {
		result.RetryAttempts = defaults.RetryAttempts
	}
	if result.BackoffBaseSeconds == 0 {
		result.BackoffBaseSeconds = defaults.BackoffBaseSeconds
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.WebhookURL == "" {
		result.WebhookURL = defaults.WebhookURL
	}
	if result.ServiceKey == "" {
		result.ServiceKey = defaults.ServiceKey
	}

	return result
}

// BackoffBase returns the backoff base as a duration.
func (c *Config) BackoffBase() time.Duration {
	return time.Duration(c.BackoffBaseSeconds) * time.Second
}
