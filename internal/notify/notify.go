// Package notify delivers match notifications to the users who reported lost
// items. The matching engine never notifies; the server decides when a result
// set is worth a push and hands it off here.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Notification describes a completed match run worth telling the owner about.
type Notification struct {
	UserID        string `json:"user_id"`
	LostItemID    string `json:"lost_item_id"`
	LostItemTitle string `json:"lost_item_title"`
	MatchCount    int    `json:"match_count"`
	TopMatchID    string `json:"top_match_id"`
	TopScore      int    `json:"top_score"`
}

// Notifier delivers match notifications. The delivery transport is pluggable.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the process log. Used when no webhook
// is configured.
type LogNotifier struct{}

// Notify logs the notification.
func (LogNotifier) Notify(_ context.Context, n Notification) error {
	log.Printf("match notification for user %s: %d match(es) for %q, top score %d",
		n.UserID, n.MatchCount, n.LostItemTitle, n.TopScore)
	return nil
}

// WebhookNotifier POSTs notifications as JSON to a configured URL, typically
// a push gateway that resolves the user's device token and forwards to FCM.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier creates a WebhookNotifier for the given URL.
func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify sends the notification to the webhook.
func (w *WebhookNotifier) Notify(ctx context.Context, n Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver notification: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // nothing useful to do on close failure

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification webhook returned status %d", resp.StatusCode)
	}
	return nil
}
