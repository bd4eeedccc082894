// Package scoring implements the local similarity scorers and the weighted
// score combination for lost/found item pairs.
package scoring

// NeutralScore is returned when a component has no information to work with
// (missing location, no vision capability). Insufficient information is not a
// penalty.
const NeutralScore = 50

// Clamp bounds a score to [0,100].
func Clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Weights holds the integer weights applied to each component score when
// combining into an overall score. Weights are validated at construction to
// be non-negative and sum to 100.
type Weights struct {
	Text     int
	Location int
	Time     int
	Image    int
}

// Combine folds a score breakdown into one overall score:
//
//	overall = (text*Wt + location*Wl + time*Wtime + image*Wi) / 100
//
// Integer division is deliberate. It biases scores slightly downward and
// keeps the result reproducible across implementations.
func (w Weights) Combine(text, location, timeScore, image int) int {
	return (text*w.Text + location*w.Location + timeScore*w.Time + image*w.Image) / 100
}
