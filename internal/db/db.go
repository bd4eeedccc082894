// Package db provides PostgreSQL access to the item reports and stored match
// results. The matching engine itself never touches storage; this package is
// the candidate source and result sink wired around it.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the tables this service reads and writes if they do
// not exist yet. Idempotent; run at startup.
func (db *DB) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS items (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL,
			user_name   TEXT NOT NULL DEFAULT '',
			user_email  TEXT NOT NULL DEFAULT '',
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category    TEXT NOT NULL DEFAULT 'OTHER',
			location    TEXT,
			reported_at BIGINT NOT NULL,
			image_urls  TEXT[] NOT NULL DEFAULT '{}',
			status      TEXT NOT NULL,
			resolved    BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_status_resolved ON items (status, resolved)`,
		`CREATE TABLE IF NOT EXISTS matches (
			id               UUID PRIMARY KEY,
			lost_item_id     TEXT NOT NULL,
			found_item_id    TEXT NOT NULL,
			rank             INT NOT NULL,
			similarity_score INT NOT NULL,
			text_score       INT NOT NULL,
			location_score   INT NOT NULL,
			time_score       INT NOT NULL,
			image_score      INT NOT NULL,
			explanation      TEXT NOT NULL DEFAULT '',
			matched_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_lost_item ON matches (lost_item_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
