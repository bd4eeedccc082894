package llm

// Provider represents an LLM provider.
type Provider string

// Supported providers. The matcher only does one kind of call, so there is a
// single model per provider rather than a tier table.
const (
	// ProviderGemini is the Google Gemini provider.
	ProviderGemini Provider = "gemini"
)

// Config holds the model configuration for the oracle client.
type Config struct {
	Provider        Provider
	Model           string
	Temperature     float32
	MaxOutputTokens int32
}

// DefaultConfig returns the default configuration: a fast, cheap model with
// low temperature for consistent scoring and a small output budget, since the
// response is one JSON object with a score and one sentence.
func DefaultConfig() *Config {
	return &Config{
		Provider:        ProviderGemini,
		Model:           "gemini-2.5-flash-lite",
		Temperature:     0.1,
		MaxOutputTokens: 150,
	}
}

// WithModel returns a copy of the config using a specific model.
func (c *Config) WithModel(model string) *Config {
	out := *c
	if model != "" {
		out.Model = model
	}
	return &out
}
