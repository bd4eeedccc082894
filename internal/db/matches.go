package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lguinah/matching-api/internal/types"
)

// SaveMatches replaces the stored results for a lost item with the given
// ranked matches. The mobile client reads this table to render the match
// screen, so the write is transactional: readers never observe a half-updated
// result set.
func (db *DB) SaveMatches(ctx context.Context, lostItemID string, matches []types.MatchResult) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.Exec(ctx,
		`DELETE FROM matches WHERE lost_item_id = $1`, lostItemID,
	); err != nil {
		return fmt.Errorf("failed to clear previous matches: %w", err)
	}

	for rank, m := range matches {
		_, err := tx.Exec(ctx,
			`INSERT INTO matches (id, lost_item_id, found_item_id, rank,
			                      similarity_score, text_score, location_score,
			                      time_score, image_score, explanation)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			uuid.New(), lostItemID, m.ID, rank+1,
			m.SimilarityScore, m.Breakdown.Text, m.Breakdown.Location,
			m.Breakdown.Time, m.Breakdown.Image, m.Explanation,
		)
		if err != nil {
			return fmt.Errorf("failed to insert match for %s: %w", m.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit matches: %w", err)
	}
	return nil
}
