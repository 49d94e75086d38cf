package payments

import (
	"context"
	"errors"

	"github.com/nuturl/nuturl/internal/account"
	"github.com/nuturl/nuturl/internal/mailer"
	"github.com/nuturl/nuturl/internal/messaging"
	"go.uber.org/zap"
)

// Reconciler converts acknowledged provider notifications into account
// tier promotions. The notification is only a pointer: the reconciler
// re-queries the provider for the authoritative status and promotes the
// referenced account iff the payment is approved. Redelivery of the same
// approved payment is a no-op because the promotion is a conditional
// assignment, not a counter.
type Reconciler struct {
	provider     Provider
	accounts     account.Repository
	publishEmail messaging.Publish[mailer.EmailRequestedEvent]
	logger       *zap.Logger
}

// NewReconciler creates a new payment reconciler.
func NewReconciler(
	provider Provider,
	accounts account.Repository,
	publishEmail messaging.Publish[mailer.EmailRequestedEvent],
	logger *zap.Logger,
) *Reconciler {
	return &Reconciler{
		provider:     provider,
		accounts:     accounts,
		publishEmail: publishEmail,
		logger:       logger,
	}
}

// Handle processes one acknowledged notification. Provider failures and
// unresolved references are logged and dropped; the provider's own
// redelivery of the outbound notification is the sole recovery path.
func (r *Reconciler) Handle(ctx context.Context, event *NotificationEvent) error {
	payment, err := r.provider.PaymentByID(ctx, event.PaymentID)
	if err != nil {
		r.logger.Warn("payment lookup failed, dropping notification",
			zap.String("payment_id", event.PaymentID),
			zap.Error(err),
		)

		return nil
	}

	if payment.Status != StatusApproved {
		r.logger.Debug("ignoring non-approved payment",
			zap.String("payment_id", payment.ID),
			zap.String("status", string(payment.Status)),
		)

		return nil
	}

	if payment.ExternalReference == "" {
		r.logger.Warn("approved payment without external reference",
			zap.String("payment_id", payment.ID),
		)

		return nil
	}

	acct, err := r.accounts.GetByID(ctx, payment.ExternalReference)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			r.logger.Warn("approved payment references unknown account",
				zap.String("payment_id", payment.ID),
				zap.String("reference", payment.ExternalReference),
			)

			return nil
		}

		return err
	}

	promoted, err := r.accounts.Promote(ctx, acct.ID, account.TierPremium)
	if err != nil {
		return err
	}

	if !promoted {
		r.logger.Debug("account already premium, redelivery is a no-op",
			zap.String("account_id", acct.ID),
			zap.String("payment_id", payment.ID),
		)

		return nil
	}

	r.logger.Info("account promoted to premium",
		zap.String("account_id", acct.ID),
		zap.String("payment_id", payment.ID),
	)

	email := mailer.PaymentApprovedEmail(acct.Email)
	if err := r.publishEmail(&email); err != nil {
		r.logger.Error("failed to queue payment approved email",
			zap.String("account_id", acct.ID),
			zap.Error(err),
		)
	}

	return nil
}
