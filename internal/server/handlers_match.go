package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lguinah/matching-api/internal/notify"
	"github.com/lguinah/matching-api/internal/types"
)

// persistTimeout bounds the background save and notification after a match
// response has already been sent.
const persistTimeout = 30 * time.Second

// handleMatch scores a lost item against active found posts and returns the
// ranked matches. Persistence and notification happen in the background so
// the reporter gets results without waiting on the database.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var item types.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	item.Timestamp = types.NormalizeTimestamp(item.Timestamp)
	if item.Status == "" {
		item.Status = types.StatusLost
	}
	if err := item.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	candidates, err := s.store.ActiveFoundItems(r.Context(), item.UserID, s.cfg.LimitCandidates)
	if err != nil {
		log.Printf("Error loading found items: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load candidate items")
		return
	}

	if len(candidates) == 0 {
		s.jsonResponse(w, http.StatusOK, types.MatchResponse{
			LostItemID: item.ID,
			Matches:    []types.MatchResult{},
			Message:    "No active found posts to compare against.",
		})
		return
	}

	matches := s.engine.FindMatches(r.Context(), &item, candidates)

	go s.persistAndNotify(item, matches)

	s.jsonResponse(w, http.StatusOK, types.MatchResponse{
		LostItemID: item.ID,
		Matches:    matches,
		Message:    fmt.Sprintf("%d potential match(es) found.", len(matches)),
	})
}

// persistAndNotify stores the result set and pushes a notification when the
// top match clears the notify threshold. Runs detached from the request.
func (s *Server) persistAndNotify(item types.Item, matches []types.MatchResult) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := s.store.SaveMatches(ctx, item.ID, matches); err != nil {
		log.Printf("Error saving matches for %s: %v", item.ID, err)
	}

	if len(matches) == 0 || matches[0].SimilarityScore < s.cfg.NotifyThreshold {
		return
	}

	err := s.notifier.Notify(ctx, notify.Notification{
		UserID:        item.UserID,
		LostItemID:    item.ID,
		LostItemTitle: item.Title,
		MatchCount:    len(matches),
		TopMatchID:    matches[0].ID,
		TopScore:      matches[0].SimilarityScore,
	})
	if err != nil {
		log.Printf("Error notifying user %s: %v", item.UserID, err)
	}
}

// batchSummary reports the outcome of a batch re-match run.
type batchSummary struct {
	Processed   int           `json:"processed"`
	WithMatches int           `json:"with_matches"`
	Details     []batchDetail `json:"details"`
}

type batchDetail struct {
	LostItemID string `json:"lost_item_id"`
	MatchCount int    `json:"match_count"`
	TopScore   int    `json:"top_score,omitempty"`
}

// handleBatchMatch re-runs matching for every active lost item. Intended for
// periodic invocation after new found posts come in, not for interactive use.
func (s *Server) handleBatchMatch(w http.ResponseWriter, r *http.Request) {
	lostItems, err := s.store.ActiveLostItems(r.Context())
	if err != nil {
		log.Printf("Error loading lost items: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load lost items")
		return
	}

	candidates, err := s.store.ActiveFoundItems(r.Context(), "", s.cfg.LimitCandidates)
	if err != nil {
		log.Printf("Error loading found items: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load candidate items")
		return
	}

	var mu sync.Mutex
	details := make([]batchDetail, 0, len(lostItems))

	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(4) // Each lost item fans out its own oracle calls

	for _, lost := range lostItems {
		lost := lost
		g.Go(func() error {
			own := filterOwnPosts(candidates, lost.UserID)
			matches := s.engine.FindMatches(ctx, lost, own)

			if err := s.store.SaveMatches(ctx, lost.ID, matches); err != nil {
				log.Printf("Error saving matches for %s: %v", lost.ID, err)
			}

			detail := batchDetail{LostItemID: lost.ID, MatchCount: len(matches)}
			if len(matches) > 0 {
				detail.TopScore = matches[0].SimilarityScore
			}

			mu.Lock()
			details = append(details, detail)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // Workers only log failures, nothing to surface here

	summary := batchSummary{Processed: len(lostItems), Details: details}
	for _, d := range details {
		if d.MatchCount > 0 {
			summary.WithMatches++
		}
	}

	s.jsonResponse(w, http.StatusOK, summary)
}

// filterOwnPosts drops candidates reported by the same user.
func filterOwnPosts(candidates []*types.Item, userID string) []*types.Item {
	if userID == "" {
		return candidates
	}
	filtered := make([]*types.Item, 0, len(candidates))
	for _, c := range candidates {
		if c.UserID != userID {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
