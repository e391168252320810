// Package notify defines the notification interface and implementations
// for alert delivery.
package notify

import (
	"context"
)

// Notifier delivers one rendered alert message to a channel. Messages
// are Markdown-formatted text produced by the report package; each
// implementation maps that to its channel's markup.
type Notifier interface {
	Send(ctx context.Context, message string) error
}
