package scoring

import "math"

// decayHours is the exponential decay constant for time proximity scoring.
// A 72 hour gap scores floor(100/e) = 36; the half-life is about 50 hours and
// the score is near zero beyond roughly two weeks. The constant must stay at
// 72 for reproducibility against stored scores.
const decayHours = 72.0

const millisPerHour = 3_600_000

// TimeScore scores the proximity of two millisecond timestamps in [0,100].
// Identical timestamps score 100; the score decays exponentially with the
// absolute difference.
func TimeScore(tsA, tsB int64) int {
	diff := tsB - tsA
	if diff < 0 {
		diff = -diff
	}
	hours := float64(diff) / millisPerHour
	return Clamp(int(100 * math.Exp(-hours/decayHours)))
}
