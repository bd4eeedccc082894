package types

// ScoreBreakdown holds the four component scores composing an overall match
// score. Each component is independently clamped to [0,100].
type ScoreBreakdown struct {
	Text     int `json:"text_score"`
	Location int `json:"location_score"`
	Time     int `json:"time_score"`
	Image    int `json:"image_score"`
}

// MatchResult pairs a found candidate with its similarity score against the
// query item. The overall score is always derived from the breakdown and the
// configured weights, never set independently.
type MatchResult struct {
	Item
	SimilarityScore int            `json:"similarity_score"`
	Breakdown       ScoreBreakdown `json:"score_breakdown"`
	Explanation     string         `json:"ai_explanation"`
}

// MatchResponse is the body returned by the match endpoint.
type MatchResponse struct {
	LostItemID string        `json:"lost_item_id"`
	Matches    []MatchResult `json:"matches"`
	Message    string        `json:"message"`
}
