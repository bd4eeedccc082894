// Package matching implements the match engine: concurrent pair scoring of a
// lost item against a set of found candidates, threshold filtering and
// ranking.
package matching

import (
	"context"
	"log"
	"sort"
	"sync"

	"github.com/lguinah/matching-api/internal/config"
	"github.com/lguinah/matching-api/internal/scoring"
	"github.com/lguinah/matching-api/internal/types"
)

// TextScorer produces a text relevance score in [0,100] with a short
// explanation for a lost/found pair. Implemented by oracle.Relevance; tests
// substitute fakes. Implementations must not fail: degraded scoring is their
// problem, not the engine's.
type TextScorer interface {
	Score(ctx context.Context, lost, found *types.Item) (int, string)
}

// Engine ranks found candidates against a lost item report. It is pure with
// respect to side effects: no persistence, no notifications, data in and data
// out. Construct once and share; all state is read-only after New.
type Engine struct {
	text            TextScorer
	weights         scoring.Weights
	limitCandidates int
	minScore        int
	maxResults      int
}

// New builds an Engine from a validated configuration. The text scorer is
// injected so the oracle stays pluggable.
func New(text TextScorer, cfg *config.Config) *Engine {
	return &Engine{
		text: text,
		weights: scoring.Weights{
			Text:     cfg.WeightText,
			Location: cfg.WeightLocation,
			Time:     cfg.WeightTime,
			Image:    cfg.WeightImage,
		},
		limitCandidates: cfg.LimitCandidates,
		minScore:        cfg.MinScoreThreshold,
		maxResults:      cfg.MaxResults,
	}
}

// FindMatches scores every candidate against the lost item concurrently and
// returns at most MaxResults entries scoring at or above MinScoreThreshold,
// sorted by overall score descending. Equal scores keep the candidates' input
// order (stable sort): the ranking never depends on completion order of the
// concurrent scoring tasks.
//
// Candidates beyond LimitCandidates are not scored at all, bounding cost
// against the oracle. A candidate whose scoring fails is dropped and logged;
// it never aborts the batch and never surfaces to the caller.
func (e *Engine) FindMatches(ctx context.Context, lost *types.Item, candidates []*types.Item) []types.MatchResult {
	if len(candidates) > e.limitCandidates {
		candidates = candidates[:e.limitCandidates]
	}

	// One slot per candidate, written only by its own goroutine. Results are
	// aggregated in input order after the join, regardless of which task
	// finished first.
	slots := make([]*types.MatchResult, len(candidates))

	var wg sync.WaitGroup
	for i, candidate := range candidates {
		wg.Add(1)
		go func(i int, candidate *types.Item) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Printf("scoring failed for candidate %s: %v", candidate.ID, r)
				}
			}()

			overall, breakdown, explanation := e.scorePair(ctx, lost, candidate)
			slots[i] = &types.MatchResult{
				Item:            *candidate,
				SimilarityScore: overall,
				Breakdown:       breakdown,
				Explanation:     explanation,
			}
		}(i, candidate)
	}
	wg.Wait()

	matches := make([]types.MatchResult, 0, len(candidates))
	for _, result := range slots {
		if result == nil {
			continue
		}
		if result.SimilarityScore < e.minScore {
			continue
		}
		matches = append(matches, *result)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].SimilarityScore > matches[j].SimilarityScore
	})

	if len(matches) > e.maxResults {
		matches = matches[:e.maxResults]
	}
	return matches
}

// scorePair computes the four component scores for one candidate and folds
// them into an overall score. The image component is a fixed neutral value:
// no vision capability is attached to this service, so images neither help
// nor hurt.
func (e *Engine) scorePair(ctx context.Context, lost, found *types.Item) (int, types.ScoreBreakdown, string) {
	textScore, explanation := e.text.Score(ctx, lost, found)

	breakdown := types.ScoreBreakdown{
		Text:     textScore,
		Location: scoring.LocationScore(lost.Location, found.Location),
		Time:     scoring.TimeScore(lost.Timestamp, found.Timestamp),
		Image:    scoring.NeutralScore,
	}

	overall := e.weights.Combine(breakdown.Text, breakdown.Location, breakdown.Time, breakdown.Image)
	return overall, breakdown, explanation
}
