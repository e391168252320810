package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const defaultTelegramAPIURL = "https://api.telegram.org"

// telegramMessageLimit is the Bot API's maximum message length.
const telegramMessageLimit = 4096

// TelegramNotifier implements Notifier via the Telegram Bot API.
type TelegramNotifier struct {
	apiURL   string
	botToken string
	chatID   string
	client   *http.Client
}

// TelegramOption configures a TelegramNotifier.
type TelegramOption func(*TelegramNotifier)

// WithTelegramAPIURL overrides the Bot API base URL, for tests.
func WithTelegramAPIURL(u string) TelegramOption {
	return func(t *TelegramNotifier) {
		t.apiURL = u
	}
}

// WithTelegramHTTPClient sets a custom HTTP client.
func WithTelegramHTTPClient(c *http.Client) TelegramOption {
	return func(t *TelegramNotifier) {
		t.client = c
	}
}

// NewTelegramNotifier creates a notifier that sends messages to one chat.
func NewTelegramNotifier(botToken, chatID string, opts ...TelegramOption) *TelegramNotifier {
	t := &TelegramNotifier{
		apiURL:   defaultTelegramAPIURL,
		botToken: botToken,
		chatID:   chatID,
		client:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// telegramSendPayload is the sendMessage JSON structure.
type telegramSendPayload struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// Send posts the message via sendMessage with Markdown parsing. Messages
// beyond the API length limit are truncated rather than split; the
// formatters' caps keep real messages far below it.
func (t *TelegramNotifier) Send(ctx context.Context, message string) error {
	if len(message) > telegramMessageLimit {
		message = message[:telegramMessageLimit]
	}

	payload := telegramSendPayload{
		ChatID:    t.chatID,
		Text:      message,
		ParseMode: "Markdown",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling telegram payload: %w", err)
	}

	u := fmt.Sprintf("%s/bot%s/sendMessage", t.apiURL, t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("telegram rate limited (429)")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("telegram returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("telegram returned %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
