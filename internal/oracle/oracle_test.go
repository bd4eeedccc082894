package oracle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lguinah/matching-api/internal/config"
	"github.com/lguinah/matching-api/internal/scoring"
	"github.com/lguinah/matching-api/internal/types"
)

// fakeClient scripts a sequence of oracle responses.
type fakeClient struct {
	responses []fakeResponse
	calls     int
}

type fakeResponse struct {
	text string
	err  error
}

func (f *fakeClient) GenerateJSON(_ context.Context, _, _ string) (string, error) {
	if f.calls >= len(f.responses) {
		return "", errors.New("no scripted response left")
	}
	resp := f.responses[f.calls]
	f.calls++
	return resp.text, resp.err
}

func (f *fakeClient) Model() string { return "fake" }
func (f *fakeClient) Close() error  { return nil }

func newRelevance(client *fakeClient) (*Relevance, *[]time.Duration) {
	cfg := config.Defaults()
	r := New(client, &cfg)
	waits := &[]time.Duration{}
	r.sleep = func(d time.Duration) { *waits = append(*waits, d) }
	return r, waits
}

func lostFoundPair() (*types.Item, *types.Item) {
	lost := &types.Item{
		ID: "lost1", UserID: "u1", Title: "black keys",
		Description: "with a red key holder", Category: types.CategoryKeys,
		Location: "residence", Timestamp: 1_700_000_000_000,
	}
	found := &types.Item{
		ID: "found1", UserID: "u2", Title: "keys",
		Description: "red key holder attached", Category: types.CategoryKeys,
		Timestamp: 1_700_000_000_000,
	}
	return lost, found
}

func TestScore_Success(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{
		{text: `{"score": 85, "explanation": "same key holder"}`},
	}}
	r, waits := newRelevance(client)

	lost, found := lostFoundPair()
	score, explanation := r.Score(context.Background(), lost, found)

	assert.Equal(t, 85, score)
	assert.Equal(t, "same key holder", explanation)
	assert.Equal(t, 1, client.calls)
	assert.Empty(t, *waits)
}

func TestScore_ClampsOutOfRange(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{
		{text: `{"score": 140, "explanation": "overshoot"}`},
	}}
	r, _ := newRelevance(client)

	lost, found := lostFoundPair()
	score, _ := r.Score(context.Background(), lost, found)
	assert.Equal(t, 100, score)
}

func TestScore_TransientRetriesWithEscalatingBackoff(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{
		{err: errors.New("googleapi: Error 429: rate limit exceeded")},
		{err: errors.New("googleapi: Error 503: service unavailable")},
		{text: `{"score": 70, "explanation": "probably the same"}`},
	}}
	r, waits := newRelevance(client)

	lost, found := lostFoundPair()
	score, explanation := r.Score(context.Background(), lost, found)

	assert.Equal(t, 70, score)
	assert.Equal(t, "probably the same", explanation)
	assert.Equal(t, 3, client.calls)
	assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second}, *waits)
}

func TestScore_TransientExhaustsRetriesFallsBack(t *testing.T) {
	rateLimited := fakeResponse{err: errors.New("429 too many requests")}
	client := &fakeClient{responses: []fakeResponse{rateLimited, rateLimited, rateLimited}}
	r, waits := newRelevance(client)

	lost, found := lostFoundPair()
	score, explanation := r.Score(context.Background(), lost, found)

	assert.Equal(t, scoring.KeywordScore(lost, found), score)
	assert.Equal(t, fallbackAfterRetries, explanation)
	assert.Equal(t, 3, client.calls)
	assert.Len(t, *waits, 2)
}

func TestScore_PermanentErrorFallsBackImmediately(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{
		{err: errors.New("invalid API key")},
	}}
	r, waits := newRelevance(client)

	lost, found := lostFoundPair()
	score, explanation := r.Score(context.Background(), lost, found)

	assert.Equal(t, scoring.KeywordScore(lost, found), score)
	assert.Equal(t, fallbackExplanation, explanation)
	assert.Equal(t, 1, client.calls)
	assert.Empty(t, *waits)
}

func TestScore_ParseFailureFallsBackWithoutRetry(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{
		{text: "I cannot compare these items."},
	}}
	r, waits := newRelevance(client)

	lost, found := lostFoundPair()
	score, explanation := r.Score(context.Background(), lost, found)

	assert.Equal(t, scoring.KeywordScore(lost, found), score)
	assert.Equal(t, fallbackExplanation, explanation)
	assert.Equal(t, 1, client.calls, "deterministic garbage should not be retried")
	assert.Empty(t, *waits)
}

func TestBuildPrompt_SubstitutesMissingLocation(t *testing.T) {
	cfg := config.Defaults()
	r := New(&fakeClient{}, &cfg)

	lost, found := lostFoundPair()
	prompt := r.buildPrompt(lost, found)

	assert.Contains(t, prompt, "- Location: residence")
	assert.Contains(t, prompt, "- Location: not specified")
	assert.Contains(t, prompt, "- Title: black keys")
	assert.Contains(t, prompt, "- Category: KEYS")
}

func TestTransient(t *testing.T) {
	assert.True(t, transient(errors.New("Error 429")))
	assert.True(t, transient(errors.New("Rate limit hit")))
	assert.True(t, transient(errors.New("503 Service Unavailable")))
	assert.True(t, transient(errors.New("quota exceeded")))
	assert.False(t, transient(errors.New("invalid API key")))
	assert.False(t, transient(nil))
}

func TestNewUsesConfiguredRetryPolicy(t *testing.T) {
	cfg := config.Defaults()
	cfg.RetryAttempts = 5
	cfg.BackoffBaseSeconds = 1
	r := New(&fakeClient{}, &cfg)

	require.Equal(t, 5, r.attempts)
	require.Equal(t, time.Second, r.backoffBase)
}
