package notify

import (
	"context"
	"errors"
)

// MultiNotifier fans one message out to several channels. Every channel
// is attempted even when an earlier one fails; the errors are joined.
type MultiNotifier struct {
	notifiers []Notifier
}

// NewMultiNotifier creates a notifier that delivers to all targets.
func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers}
}

// Send delivers the message to every configured channel.
func (m *MultiNotifier) Send(ctx context.Context, message string) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.Send(ctx, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
