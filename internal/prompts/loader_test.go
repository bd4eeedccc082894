package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	system, err := Get("matching.json", "system")
	require.NoError(t, err)
	assert.Contains(t, system, "valid JSON")

	compare, err := Get("matching.json", "compare-items")
	require.NoError(t, err)
	assert.Contains(t, compare, "{{.LostTitle}}")
	assert.Contains(t, compare, "{{.FoundLocation}}")
}

func TestGet_UnknownKey(t *testing.T) {
	_, err := Get("matching.json", "nope")
	assert.Error(t, err)
}

func TestGet_UnknownFile(t *testing.T) {
	_, err := Get("nope.json", "system")
	assert.Error(t, err)
}

func TestMustGet_PanicsOnMissing(t *testing.T) {
	assert.Panics(t, func() { MustGet("matching.json", "nope") })
}

func TestFormat(t *testing.T) {
	template := MustGet("matching.json", "compare-items")
	out := Format(template, map[string]string{
		"LostTitle":        "keys",
		"LostCategory":     "KEYS",
		"LostDescription":  "with a key holder",
		"LostLocation":     "residence",
		"FoundTitle":       "bunch of keys",
		"FoundCategory":    "KEYS",
		"FoundDescription": "found near block B",
		"FoundLocation":    "not specified",
	})

	assert.Contains(t, out, "- Title: keys")
	assert.Contains(t, out, "- Location: not specified")
	assert.False(t, strings.Contains(out, "{{."), "all placeholders should be substituted")
}
