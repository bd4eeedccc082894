package db

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"

	"github.com/lguinah/matching-api/internal/types"
)

const itemColumns = `id, user_id, user_name, user_email, title, description,
	category, location, reported_at, image_urls`

// ActiveFoundItems returns unresolved FOUND reports, newest first, capped at
// limit. Reports posted by excludeUserID are skipped so users never match
// their own posts; pass an empty string to skip nothing. Malformed rows are
// logged and dropped rather than failing the whole query.
func (db *DB) ActiveFoundItems(ctx context.Context, excludeUserID string, limit int) ([]*types.Item, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+itemColumns+`
		 FROM items
		 WHERE status = $1 AND resolved = FALSE AND ($2 = '' OR user_id <> $2)
		 ORDER BY reported_at DESC
		 LIMIT $3`,
		types.StatusFound, excludeUserID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query found items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows, types.StatusFound)
}

// ActiveLostItems returns all unresolved LOST reports. Used by the batch
// re-match endpoint.
func (db *DB) ActiveLostItems(ctx context.Context) ([]*types.Item, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+itemColumns+`
		 FROM items
		 WHERE status = $1 AND resolved = FALSE
		 ORDER BY reported_at DESC`,
		types.StatusLost,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query lost items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows, types.StatusLost)
}

// scanItems reads item rows, normalizing category and timestamp the same way
// the original mobile data requires: unknown categories become OTHER and
// second-resolution timestamps become milliseconds.
func scanItems(rows pgx.Rows, status types.Status) ([]*types.Item, error) {
	var items []*types.Item
	for rows.Next() {
		var (
			item     types.Item
			category string
			location *string
		)
		err := rows.Scan(
			&item.ID, &item.UserID, &item.UserName, &item.UserEmail,
			&item.Title, &item.Description, &category, &location,
			&item.Timestamp, &item.ImageURLs,
		)
		if err != nil {
			log.Printf("skipping malformed item row: %v", err)
			continue
		}

		item.Category = types.NormalizeCategory(category)
		item.Timestamp = types.NormalizeTimestamp(item.Timestamp)
		if location != nil {
			item.Location = *location
		}
		item.Status = status

		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read item rows: %w", err)
	}
	return items, nil
}
