package payments

import (
	"context"
	"errors"
)

// Status is a payment's state as reported by the provider.
type Status string

// StatusApproved is the only status that triggers a tier promotion.
const StatusApproved Status = "approved"

// Payment is the authoritative payment record fetched from the provider.
// The webhook payload is never trusted for any of these fields.
type Payment struct {
	ID                string
	Status            Status
	ExternalReference string // account id attached at checkout time
}

// CheckoutRequest describes a premium upgrade checkout to create.
type CheckoutRequest struct {
	PayerEmail        string
	ExternalReference string
	SuccessURL        string
	FailureURL        string
	PendingURL        string
	NotificationURL   string
}

// ErrUpstreamUnavailable indicates the provider could not be reached or
// answered with an unexpected status. Reconciliation drops the event and
// relies on the provider's own redelivery.
var ErrUpstreamUnavailable = errors.New("payment provider unavailable")

// Provider is the payment-provider client surface used by the core.
type Provider interface {
	// PaymentByID fetches the authoritative payment status.
	PaymentByID(ctx context.Context, id string) (*Payment, error)

	// CreateCheckout creates a hosted checkout and returns its URL.
	CreateCheckout(ctx context.Context, req CheckoutRequest) (string, error)
}
