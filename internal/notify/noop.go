package notify

import (
	"context"
	"log/slog"
)

// NoOpNotifier implements Notifier by logging discarded messages. It is
// used when no notification backend is configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards messages with a log entry.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// Send logs and discards the message.
func (n *NoOpNotifier) Send(_ context.Context, message string) error {
	n.log.Debug("notification discarded (no backend configured)",
		"length", len(message),
	)
	return nil
}
