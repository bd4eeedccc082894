package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lguinah/matching-api/internal/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadLostItem(t *testing.T) {
	path := writeFile(t, "lost.json", `{
		"id": "lost1",
		"userId": "u1",
		"title": "black backpack",
		"description": "lost near the library",
		"category": "BAG",
		"timestamp": 1700000000
	}`)

	item, err := loadLostItem(path)
	require.NoError(t, err)
	assert.Equal(t, "lost1", item.ID)
	assert.Equal(t, types.StatusLost, item.Status)
	// Second-resolution timestamps are converted to milliseconds.
	assert.Equal(t, int64(1700000000000), item.Timestamp)
}

func TestLoadLostItem_Invalid(t *testing.T) {
	path := writeFile(t, "lost.json", `{"id": "lost1"}`)
	_, err := loadLostItem(path)
	assert.ErrorContains(t, err, "invalid lost item")
}

func TestLoadLostItem_MissingFile(t *testing.T) {
	_, err := loadLostItem(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorContains(t, err, "failed to read lost item file")
}

func TestLoadFoundItems(t *testing.T) {
	path := writeFile(t, "found.json", `[
		{"id": "f1", "userId": "u2", "title": "backpack", "category": "bag", "timestamp": 1700000000},
		{"id": "f2", "userId": "u3", "title": "wallet", "category": "UNKNOWN", "timestamp": 1700000000000}
	]`)

	items, err := loadFoundItems(path)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, types.CategoryBag, items[0].Category)
	assert.Equal(t, int64(1700000000000), items[0].Timestamp)
	assert.Equal(t, types.StatusFound, items[0].Status)

	// Unknown categories fall back to OTHER.
	assert.Equal(t, types.CategoryOther, items[1].Category)
}

func TestLoadMatchingConfig_EnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("DATABASE_URL", "postgres://localhost/test")

	cfg, err := loadMatchingConfig("")
	require.NoError(t, err)
	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, "postgres://localhost/test", cfg.DatabaseURL)
	assert.Equal(t, 50, cfg.LimitCandidates)
}

func TestLoadMatchingConfig_FileAndDefaults(t *testing.T) {
	path := writeFile(t, "config.json", `{"max_results": 3, "min_score_threshold": 60}`)

	cfg, err := loadMatchingConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxResults)
	assert.Equal(t, 60, cfg.MinScoreThreshold)
	// Unset fields come from defaults.
	assert.Equal(t, 50, cfg.WeightText)
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.Model)
}

func TestLoadMatchingConfig_InvalidWeights(t *testing.T) {
	path := writeFile(t, "config.json", `{"weight_text": 90, "weight_location": 20, "weight_time": 10, "weight_image": 20}`)

	_, err := loadMatchingConfig(path)
	assert.ErrorContains(t, err, "sum to 100")
}
