// Package oracle implements the text relevance oracle adapter: prompt
// construction, retry with escalating backoff, defensive response parsing and
// local keyword fallback.
package oracle

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/lguinah/matching-api/internal/config"
	"github.com/lguinah/matching-api/internal/llm"
	"github.com/lguinah/matching-api/internal/prompts"
	"github.com/lguinah/matching-api/internal/scoring"
	"github.com/lguinah/matching-api/internal/types"
)

// Fallback explanations surfaced to users when scoring degrades to keyword
// matching.
const (
	fallbackExplanation     = "AI unavailable, used keyword matching."
	fallbackAfterRetries    = "AI unavailable after retries, used keyword matching."
	notSpecifiedPlaceholder = "not specified"
)

// Relevance scores how likely two reports describe the same object by asking
// the configured LLM. It degrades to keyword overlap scoring whenever the
// oracle is unavailable or returns unusable content, so Score never fails.
type Relevance struct {
	client      llm.Client
	attempts    int
	backoffBase time.Duration
	system      string
	template    string

	// sleep is swapped out in tests to observe backoff without waiting.
	sleep func(time.Duration)
}

// New builds a Relevance adapter from the service configuration.
func New(client llm.Client, cfg *config.Config) *Relevance {
	return &Relevance{
		client:      client,
		attempts:    cfg.RetryAttempts,
		backoffBase: cfg.BackoffBase(),
		system:      prompts.MustGet("matching.json", "system"),
		template:    prompts.MustGet("matching.json", "compare-items"),
		sleep:       time.Sleep,
	}
}

// Score returns a text relevance score in [0,100] and a short explanation for
// the given lost/found pair. Transient oracle failures (rate limiting,
// temporary unavailability) are retried with escalating backoff; anything
// else falls back to keyword scoring immediately.
//
// Unparsable responses are NOT retried: the content is deterministic garbage
// and re-sending the same prompt mostly burns latency, so they degrade to the
// fallback straight away.
func (r *Relevance) Score(ctx context.Context, lost, found *types.Item) (int, string) {
	prompt := r.buildPrompt(lost, found)

	for attempt := 1; attempt <= r.attempts; attempt++ {
		score, explanation, err := r.scoreOnce(ctx, prompt)
		if err == nil {
			return score, explanation
		}

		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			log.Printf("oracle response unparsable for %s vs %s: %v", lost.ID, found.ID, err)
			return scoring.KeywordScore(lost, found), fallbackExplanation
		}

		if transient(err) {
			if attempt == r.attempts {
				log.Printf("oracle still unavailable after %d attempts for %s vs %s: %v",
					r.attempts, lost.ID, found.ID, err)
				return scoring.KeywordScore(lost, found), fallbackAfterRetries
			}
			wait := time.Duration(attempt) * r.backoffBase
			log.Printf("oracle rate limited, retrying in %v (attempt %d/%d)", wait, attempt, r.attempts)
			r.sleep(wait)
			continue
		}

		log.Printf("text scoring error for %s vs %s: %v", lost.ID, found.ID, err)
		return scoring.KeywordScore(lost, found), fallbackExplanation
	}

	// Unreachable: the loop always returns. Kept for the compiler.
	return scoring.KeywordScore(lost, found), fallbackAfterRetries
}

// scoreOnce performs a single oracle call and parse.
func (r *Relevance) scoreOnce(ctx context.Context, prompt string) (int, string, error) {
	raw, err := r.client.GenerateJSON(ctx, r.system, prompt)
	if err != nil {
		return 0, "", err
	}

	parsed, err := Parse(raw)
	if err != nil {
		return 0, "", err
	}

	return scoring.Clamp(parsed.Score), parsed.Explanation, nil
}

// buildPrompt fills the comparison template with both items' fields. Missing
// locations are substituted with a literal placeholder rather than left blank
// so the model does not read absence as a mismatch.
func (r *Relevance) buildPrompt(lost, found *types.Item) string {
	return prompts.Format(r.template, map[string]string{
		"LostTitle":        lost.Title,
		"LostCategory":     string(lost.Category),
		"LostDescription":  lost.Description,
		"LostLocation":     orPlaceholder(lost.Location),
		"FoundTitle":       found.Title,
		"FoundCategory":    string(found.Category),
		"FoundDescription": found.Description,
		"FoundLocation":    orPlaceholder(found.Location),
	})
}

func orPlaceholder(location string) string {
	if strings.TrimSpace(location) == "" {
		return notSpecifiedPlaceholder
	}
	return location
}

// transient reports whether an oracle error looks like rate limiting or
// temporary unavailability, based on the provider's error text.
func transient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, signature := range []string{"429", "503", "rate", "unavailable", "quota"} {
		if strings.Contains(msg, signature) {
			return true
		}
	}
	return false
}
