package scoring

import "strings"

// LocationScore returns the token-overlap ratio between two free-text
// location strings as a score in [0,100]. If either location is absent or
// tokenizes to nothing, it returns the neutral 50.
func LocationScore(locA, locB string) int {
	tokensA := tokenSet(strings.ToLower(locA))
	tokensB := tokenSet(strings.ToLower(locB))
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return NeutralScore
	}

	overlap := 0
	for token := range tokensA {
		if tokensB[token] {
			overlap++
		}
	}

	larger := len(tokensA)
	if len(tokensB) > larger {
		larger = len(tokensB)
	}
	return 100 * overlap / larger
}

// tokenSet splits text on whitespace into a set, collapsing duplicates.
func tokenSet(text string) map[string]bool {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}
