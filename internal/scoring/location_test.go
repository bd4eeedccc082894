package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocationScore_Overlap(t *testing.T) {
	// {lost,keys,near,library} vs {keys,found,near,library}: overlap 3 of max 4.
	assert.Equal(t, 75, LocationScore("lost keys near library", "keys found near library"))
}

func TestLocationScore_Identical(t *testing.T) {
	assert.Equal(t, 100, LocationScore("amphi B", "amphi B"))
}

func TestLocationScore_CaseInsensitive(t *testing.T) {
	assert.Equal(t, 100, LocationScore("Residence Block A", "residence block a"))
}

func TestLocationScore_NoOverlap(t *testing.T) {
	assert.Equal(t, 0, LocationScore("library", "cafeteria"))
}

func TestLocationScore_MissingIsNeutral(t *testing.T) {
	assert.Equal(t, 50, LocationScore("", "library"))
	assert.Equal(t, 50, LocationScore("library", ""))
	assert.Equal(t, 50, LocationScore("", ""))
	assert.Equal(t, 50, LocationScore("   ", "library"))
}

func TestLocationScore_DuplicateTokensCollapse(t *testing.T) {
	// "keys keys keys" tokenizes to {keys}.
	assert.Equal(t, 100, LocationScore("keys keys keys", "keys"))
}

func TestLocationScore_FloorDivision(t *testing.T) {
	// overlap 1, max set size 3 -> floor(100/3) = 33.
	assert.Equal(t, 33, LocationScore("a b c", "a x y"))
}
