// Package publish delivers approved catalog changes to the storefront
// publishing workflow over an HTTP webhook.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

var ErrNotConfigured = errors.New("publish webhook not configured")

const (
	maxAttempts   = 3
	retryBaseWait = 500 * time.Millisecond
)

// Event is the payload posted to the workflow endpoint.
type Event struct {
	DraftID     string    `json:"draft_id"`
	EntityKind  string    `json:"entity_kind"`
	EntityID    string    `json:"entity_id"`
	Payload     string    `json:"payload"`
	SubmittedBy string    `json:"submitted_by"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type WebhookClient struct {
	url    string
	secret string
	client *http.Client
}

func NewWebhookClient(url string, secret string) *WebhookClient {
	return &WebhookClient{
		url:    url,
		secret: secret,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *WebhookClient) Configured() bool {
	return c != nil && c.url != ""
}

// Submit posts the event, retrying transient failures with a short backoff.
// 4xx responses are treated as permanent and fail immediately.
func (c *WebhookClient) Submit(ctx context.Context, event Event) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			wait := retryBaseWait * time.Duration(1<<(attempt-2))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		lastErr = c.post(ctx, body)
		if lastErr == nil {
			return nil
		}
		var permanent *permanentError
		if errors.As(lastErr, &permanent) {
			return lastErr
		}
		log.Printf("[publish] WARN: webhook attempt %d/%d failed: %v", attempt, maxAttempts, lastErr)
	}
	return lastErr
}

func (c *WebhookClient) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.secret != "" {
		req.Header.Set("X-Webhook-Secret", c.secret)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &permanentError{status: resp.StatusCode}
	default:
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
}

type permanentError struct {
	status int
}

func (e *permanentError) Error() string {
	return fmt.Sprintf("webhook rejected event with status %d", e.status)
}
