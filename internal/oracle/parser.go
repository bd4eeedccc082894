package oracle

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Result is a parsed oracle response.
type Result struct {
	Score       int
	Explanation string
}

// ParseError indicates the oracle returned content with no usable score.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	raw := e.Raw
	if len(raw) > 120 {
		raw = raw[:120] + "..."
	}
	return fmt.Sprintf("no usable score in oracle response: %q", raw)
}

// genericExplanation stands in when a truncated response carries a score but
// the explanation was cut off.
const genericExplanation = "AI matched this item."

var (
	fenceRe = regexp.MustCompile("```(?:json)?")
	// braceRe is greedy on purpose: the largest brace-delimited span survives
	// leading and trailing prose around the JSON object.
	braceRe       = regexp.MustCompile(`(?s)\{.*\}`)
	scoreRe       = regexp.MustCompile(`"score"\s*:\s*(\d+)`)
	explanationRe = regexp.MustCompile(`"explanation"\s*:\s*"([^"]+)`)
)

// Parse extracts a score and explanation from a raw oracle response. The
// response is free-form text expected to contain a JSON object, possibly
// wrapped in prose or code fences, possibly truncated mid-string. Two
// attempts are made: parse the brace-delimited span as JSON, then recover a
// bare "score" (and, if present, "explanation") by regex. The returned score
// is not clamped; that is the caller's job.
func Parse(raw string) (Result, error) {
	clean := strings.TrimSpace(fenceRe.ReplaceAllString(raw, ""))

	if span := braceRe.FindString(clean); span != "" {
		var parsed struct {
			Score       *int   `json:"score"`
			Explanation string `json:"explanation"`
		}
		if err := json.Unmarshal([]byte(span), &parsed); err == nil && parsed.Score != nil {
			return Result{Score: *parsed.Score, Explanation: parsed.Explanation}, nil
		}
	}

	if m := scoreRe.FindStringSubmatch(clean); m != nil {
		score, err := strconv.Atoi(m[1])
		if err == nil {
			explanation := genericExplanation
			if em := explanationRe.FindStringSubmatch(clean); em != nil {
				explanation = em[1]
			}
			return Result{Score: score, Explanation: explanation}, nil
		}
	}

	return Result{}, &ParseError{Raw: raw}
}
