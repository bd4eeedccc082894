package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeScore_ZeroDifference(t *testing.T) {
	assert.Equal(t, 100, TimeScore(1764977468368, 1764977468368))
}

func TestTimeScore_DecayConstant(t *testing.T) {
	// At exactly 72 hours the score is floor(100 * e^-1) = 36.
	base := int64(1_700_000_000_000)
	assert.Equal(t, 36, TimeScore(base, base+72*millisPerHour))
}

func TestTimeScore_Symmetric(t *testing.T) {
	a := int64(1_700_000_000_000)
	b := a + 5*millisPerHour
	assert.Equal(t, TimeScore(a, b), TimeScore(b, a))
}

func TestTimeScore_MonotonicallyNonIncreasing(t *testing.T) {
	base := int64(1_700_000_000_000)
	prev := 101
	for hours := int64(0); hours <= 500; hours += 10 {
		score := TimeScore(base, base+hours*millisPerHour)
		assert.LessOrEqual(t, score, prev, "score must not increase with a larger gap (at %dh)", hours)
		prev = score
	}
}

func TestTimeScore_ApproachesZeroBeyondTwoWeeks(t *testing.T) {
	base := int64(1_700_000_000_000)
	score := TimeScore(base, base+15*24*millisPerHour)
	assert.LessOrEqual(t, score, 1)
}
