package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// SlackNotifier implements Notifier via a Slack incoming webhook.
type SlackNotifier struct {
	webhookURL string
	client     *http.Client
}

// SlackOption configures a SlackNotifier.
type SlackOption func(*SlackNotifier)

// WithSlackHTTPClient sets a custom HTTP client.
func WithSlackHTTPClient(c *http.Client) SlackOption {
	return func(s *SlackNotifier) {
		s.client = c
	}
}

// NewSlackNotifier creates a notifier posting to one incoming webhook.
func NewSlackNotifier(webhookURL string, opts ...SlackOption) *SlackNotifier {
	s := &SlackNotifier{
		webhookURL: webhookURL,
		client:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type slackWebhookPayload struct {
	Text string `json:"text"`
}

// Send posts the message to the webhook. Slack bolds with single
// asterisks in mrkdwn, which the report format already uses, so only
// the text passes through unchanged.
func (s *SlackNotifier) Send(ctx context.Context, message string) error {
	body, err := json.Marshal(slackWebhookPayload{Text: message})
	if err != nil {
		return fmt.Errorf("marshaling slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.webhookURL,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending slack webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("slack rate limited (429)")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("slack returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("slack returned %d: %s", resp.StatusCode, respBody)
	}

	// Incoming webhooks answer 200 with a plain "ok" body; anything
	// else with a 200 status is still a delivery failure.
	respBody, err := io.ReadAll(resp.Body)
	if err == nil && strings.TrimSpace(string(respBody)) != "ok" && len(respBody) > 0 {
		return fmt.Errorf("slack rejected message: %s", respBody)
	}

	return nil
}
