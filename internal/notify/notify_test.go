package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asoguard/rankguard/internal/notify"
)

func TestTelegramNotifier_Send(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottoken123/sendMessage", r.URL.Path)

		var payload struct {
			ChatID    string `json:"chat_id"`
			Text      string `json:"text"`
			ParseMode string `json:"parse_mode"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "-100200300", payload.ChatID)
		assert.Equal(t, "🔔 *SMART ALERTS*", payload.Text)
		assert.Equal(t, "Markdown", payload.ParseMode)

		fmt.Fprint(w, `{"ok": true}`)
	}))
	defer srv.Close()

	n := notify.NewTelegramNotifier("token123", "-100200300",
		notify.WithTelegramAPIURL(srv.URL),
	)

	require.NoError(t, n.Send(context.Background(), "🔔 *SMART ALERTS*"))
}

func TestTelegramNotifier_APIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"ok": false, "description": "chat not found"}`)
	}))
	defer srv.Close()

	n := notify.NewTelegramNotifier("token123", "bad",
		notify.WithTelegramAPIURL(srv.URL),
	)

	err := n.Send(context.Background(), "msg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestTelegramNotifier_RateLimited(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	n := notify.NewTelegramNotifier("token123", "chat",
		notify.WithTelegramAPIURL(srv.URL),
	)

	err := n.Send(context.Background(), "msg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestSlackNotifier_Send(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"text": "📊 *DAILY DIGEST*"}`, string(body))
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	n := notify.NewSlackNotifier(srv.URL)
	require.NoError(t, n.Send(context.Background(), "📊 *DAILY DIGEST*"))
}

func TestSlackNotifier_Rejected(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, "no_service")
	}))
	defer srv.Close()

	n := notify.NewSlackNotifier(srv.URL)
	err := n.Send(context.Background(), "msg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no_service")
}

func TestNoOpNotifier_Send(t *testing.T) {
	t.Parallel()

	n := notify.NewNoOpNotifier(slog.New(slog.DiscardHandler))
	assert.NoError(t, n.Send(context.Background(), "anything"))
}

type stubNotifier struct {
	sent []string
	err  error
}

func (s *stubNotifier) Send(_ context.Context, message string) error {
	s.sent = append(s.sent, message)
	return s.err
}

func TestMultiNotifier_Send(t *testing.T) {
	t.Parallel()

	a := &stubNotifier{}
	b := &stubNotifier{}

	m := notify.NewMultiNotifier(a, b)
	require.NoError(t, m.Send(context.Background(), "msg"))

	assert.Equal(t, []string{"msg"}, a.sent)
	assert.Equal(t, []string{"msg"}, b.sent)
}

func TestMultiNotifier_ContinuesPastFailure(t *testing.T) {
	t.Parallel()

	failing := &stubNotifier{err: errors.New("boom")}
	healthy := &stubNotifier{}

	m := notify.NewMultiNotifier(failing, healthy)
	err := m.Send(context.Background(), "msg")

	require.Error(t, err)
	assert.Equal(t, []string{"msg"}, healthy.sent)
}
