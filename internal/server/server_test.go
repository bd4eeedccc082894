package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lguinah/matching-api/internal/config"
	"github.com/lguinah/matching-api/internal/notify"
	"github.com/lguinah/matching-api/internal/types"
)

type savedCall struct {
	lostItemID string
	matches    []types.MatchResult
}

type fakeStore struct {
	foundItems []*types.Item
	lostItems  []*types.Item
	foundErr   error
	saved      chan savedCall
}

func (f *fakeStore) ActiveFoundItems(_ context.Context, excludeUserID string, limit int) ([]*types.Item, error) {
	if f.foundErr != nil {
		return nil, f.foundErr
	}
	items := make([]*types.Item, 0, len(f.foundItems))
	for _, item := range f.foundItems {
		if excludeUserID != "" && item.UserID == excludeUserID {
			continue
		}
		items = append(items, item)
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (f *fakeStore) ActiveLostItems(context.Context) ([]*types.Item, error) {
	return f.lostItems, nil
}

func (f *fakeStore) SaveMatches(_ context.Context, lostItemID string, matches []types.MatchResult) error {
	if f.saved != nil {
		f.saved <- savedCall{lostItemID: lostItemID, matches: matches}
	}
	return nil
}

type fakeMatcher struct {
	results []types.MatchResult
}

func (f *fakeMatcher) FindMatches(context.Context, *types.Item, []*types.Item) []types.MatchResult {
	return f.results
}

type fakeNotifier struct {
	sent chan notify.Notification
}

func (f *fakeNotifier) Notify(_ context.Context, n notify.Notification) error {
	f.sent <- n
	return nil
}

func foundItem(id, userID string) *types.Item {
	return &types.Item{
		ID:          id,
		UserID:      userID,
		UserName:    "Finder",
		UserEmail:   "finder@esti.dz",
		Title:       "black backpack",
		Description: "found near the library",
		Category:    types.CategoryBag,
		Timestamp:   time.Now().UnixMilli(),
		Status:      types.StatusFound,
	}
}

func lostItemBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	item := types.Item{
		ID:          "lost1",
		UserID:      "owner",
		UserName:    "Owner",
		UserEmail:   "owner@esti.dz",
		Title:       "black backpack",
		Description: "lost my backpack near the library",
		Category:    types.CategoryBag,
		Timestamp:   time.Now().UnixMilli(),
		Status:      types.StatusLost,
	}
	body := &bytes.Buffer{}
	require.NoError(t, json.NewEncoder(body).Encode(item))
	return body
}

func matchResult(id string, score int) types.MatchResult {
	return types.MatchResult{
		Item:            *foundItem(id, "finder"),
		SimilarityScore: score,
		Explanation:     "Same backpack.",
	}
}

func newTestServer(store *fakeStore, matcher Matcher, notifier notify.Notifier) *Server {
	cfg := config.Defaults()
	return &Server{
		store:    store,
		engine:   matcher,
		notifier: notifier,
		cfg:      &cfg,
	}
}

func TestHandleMatch(t *testing.T) {
	store := &fakeStore{
		foundItems: []*types.Item{foundItem("found1", "finder")},
		saved:      make(chan savedCall, 1),
	}
	notifier := &fakeNotifier{sent: make(chan notify.Notification, 1)}
	matcher := &fakeMatcher{results: []types.MatchResult{matchResult("found1", 85)}}
	s := newTestServer(store, matcher, notifier)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", lostItemBody(t))
	rec := httptest.NewRecorder()
	s.handleMatch(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp types.MatchResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "lost1", resp.LostItemID)
	require.Len(t, resp.Matches, 1)
	assert.Equal(t, 85, resp.Matches[0].SimilarityScore)
	assert.Equal(t, "1 potential match(es) found.", resp.Message)

	// Persistence and notification happen off the request goroutine.
	select {
	case saved := <-store.saved:
		assert.Equal(t, "lost1", saved.lostItemID)
		assert.Len(t, saved.matches, 1)
	case <-time.After(2 * time.Second):
		t.Fatal("matches were never saved")
	}

	select {
	case n := <-notifier.sent:
		assert.Equal(t, "owner", n.UserID)
		assert.Equal(t, "found1", n.TopMatchID)
		assert.Equal(t, 85, n.TopScore)
	case <-time.After(2 * time.Second):
		t.Fatal("notification was never sent")
	}
}

func TestHandleMatch_BelowNotifyThreshold(t *testing.T) {
	store := &fakeStore{
		foundItems: []*types.Item{foundItem("found1", "finder")},
		saved:      make(chan savedCall, 1),
	}
	notifier := &fakeNotifier{sent: make(chan notify.Notification, 1)}
	matcher := &fakeMatcher{results: []types.MatchResult{matchResult("found1", 55)}}
	s := newTestServer(store, matcher, notifier)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", lostItemBody(t))
	rec := httptest.NewRecorder()
	s.handleMatch(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	// Saved but not notified: 55 is below the default notify threshold of 70.
	select {
	case <-store.saved:
	case <-time.After(2 * time.Second):
		t.Fatal("matches were never saved")
	}

	select {
	case n := <-notifier.sent:
		t.Fatalf("unexpected notification: %+v", n)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHandleMatch_NoCandidates(t *testing.T) {
	store := &fakeStore{}
	s := newTestServer(store, &fakeMatcher{}, notify.LogNotifier{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", lostItemBody(t))
	rec := httptest.NewRecorder()
	s.handleMatch(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp types.MatchResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Matches)
	assert.Equal(t, "No active found posts to compare against.", resp.Message)
}

func TestHandleMatch_ExcludesOwnPosts(t *testing.T) {
	store := &fakeStore{
		foundItems: []*types.Item{foundItem("mine", "owner")},
	}
	s := newTestServer(store, &fakeMatcher{}, notify.LogNotifier{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", lostItemBody(t))
	rec := httptest.NewRecorder()
	s.handleMatch(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No active found posts")
}

func TestHandleMatch_InvalidBody(t *testing.T) {
	s := newTestServer(&fakeStore{}, &fakeMatcher{}, notify.LogNotifier{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	s.handleMatch(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid JSON body")
}

func TestHandleMatch_ValidationFailure(t *testing.T) {
	s := newTestServer(&fakeStore{}, &fakeMatcher{}, notify.LogNotifier{})

	body := &bytes.Buffer{}
	require.NoError(t, json.NewEncoder(body).Encode(types.Item{ID: "x"}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", body)
	rec := httptest.NewRecorder()
	s.handleMatch(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleMatch_StoreError(t *testing.T) {
	store := &fakeStore{foundErr: errors.New("connection refused")}
	s := newTestServer(store, &fakeMatcher{}, notify.LogNotifier{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", lostItemBody(t))
	rec := httptest.NewRecorder()
	s.handleMatch(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to load candidate items")
}

func TestHandleBatchMatch(t *testing.T) {
	lostA := foundItem("lostA", "userA")
	lostA.Status = types.StatusLost
	lostB := foundItem("lostB", "userB")
	lostB.Status = types.StatusLost

	store := &fakeStore{
		lostItems:  []*types.Item{lostA, lostB},
		foundItems: []*types.Item{foundItem("found1", "finder")},
		saved:      make(chan savedCall, 2),
	}
	matcher := &fakeMatcher{results: []types.MatchResult{matchResult("found1", 77)}}
	s := newTestServer(store, matcher, notify.LogNotifier{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/match/batch", nil)
	rec := httptest.NewRecorder()
	s.handleBatchMatch(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var summary struct {
		Processed   int `json:"processed"`
		WithMatches int `json:"with_matches"`
		Details     []struct {
			LostItemID string `json:"lost_item_id"`
			MatchCount int    `json:"match_count"`
			TopScore   int    `json:"top_score"`
		} `json:"details"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&summary))
	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 2, summary.WithMatches)
	assert.Len(t, summary.Details, 2)
	assert.Equal(t, 77, summary.Details[0].TopScore)

	// Both lost items had their result sets saved before the response.
	assert.Len(t, store.saved, 2)
}

func TestFilterOwnPosts(t *testing.T) {
	candidates := []*types.Item{
		foundItem("a", "user1"),
		foundItem("b", "user2"),
		foundItem("c", "user1"),
	}

	filtered := filterOwnPosts(candidates, "user1")
	require.Len(t, filtered, 1)
	assert.Equal(t, "b", filtered[0].ID)

	assert.Len(t, filterOwnPosts(candidates, ""), 3)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(&fakeStore{}, &fakeMatcher{}, notify.LogNotifier{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.handleHealth(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "LGUINAH Matching API")
}
