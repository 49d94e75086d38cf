package mailer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Dispatcher delivers queued emails. Delivery is best-effort: its
// consumer runs with an ack-on-error policy, so a failed send is logged
// and dropped rather than retried into the path that queued it.
type Dispatcher struct {
	sender Sender
	logger *zap.Logger
}

// NewDispatcher creates a new email dispatcher.
func NewDispatcher(sender Sender, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, logger: logger}
}

// Handle sends one queued email.
func (d *Dispatcher) Handle(ctx context.Context, event *EmailRequestedEvent) error {
	if err := d.sender.Send(ctx, event.To, event.Subject, event.HTML); err != nil {
		return fmt.Errorf("send to %s: %w", event.To, err)
	}

	d.logger.Debug("email sent",
		zap.String("to", event.To),
		zap.String("subject", event.Subject),
	)

	return nil
}
