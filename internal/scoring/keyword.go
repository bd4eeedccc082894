package scoring

import (
	"regexp"
	"strings"

	"github.com/lguinah/matching-api/internal/types"
)

// nonWord strips punctuation before tokenizing, keeping letters, digits,
// underscores and whitespace (unicode-aware, descriptions are not always
// English).
var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// categoryBonus is added when both items report the same category.
const categoryBonus = 20

// KeywordScore is the local fallback for text relevance when the oracle is
// unavailable: a Jaccard-style token overlap over title + description, scaled
// to 80, plus a flat category-match bonus. The result is clamped to [0,100].
func KeywordScore(lost, found *types.Item) int {
	lostTokens := keywordTokens(lost)
	foundTokens := keywordTokens(found)

	bonus := 0
	if lost.Category == found.Category {
		bonus = categoryBonus
	}

	union := len(foundTokens)
	overlap := 0
	for token := range lostTokens {
		if foundTokens[token] {
			overlap++
		} else {
			union++
		}
	}

	if union == 0 {
		return Clamp(bonus)
	}
	return Clamp(80*overlap/union + bonus)
}

func keywordTokens(item *types.Item) map[string]bool {
	text := strings.ToLower(item.Title + " " + item.Description)
	return tokenSet(nonWord.ReplaceAllString(text, ""))
}
