package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/nuturl/nuturl/internal/account"
	"github.com/nuturl/nuturl/internal/auth"
	"github.com/nuturl/nuturl/internal/messaging"
	"github.com/nuturl/nuturl/internal/payments"
	"go.uber.org/zap"
)

// PaymentHandler handles the provider webhook and checkout creation.
type PaymentHandler struct {
	publishNotification messaging.Publish[payments.NotificationEvent]
	provider            payments.Provider
	accounts            account.Repository
	frontendURL         string
	apiBaseURL          string
	logger              *zap.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(
	publishNotification messaging.Publish[payments.NotificationEvent],
	provider payments.Provider,
	accounts account.Repository,
	frontendURL string,
	apiBaseURL string,
	logger *zap.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		publishNotification: publishNotification,
		provider:            provider,
		accounts:            accounts,
		frontendURL:         frontendURL,
		apiBaseURL:          apiBaseURL,
		logger:              logger,
	}
}

// Webhook acknowledges a provider notification. The transport call is
// always answered 200 so the provider stops retrying; actual
// reconciliation runs asynchronously off the queued event.
func (h *PaymentHandler) Webhook(_ context.Context, req *WebhookRequest) (*WebhookResponse, error) {
	notification := payments.DecodeNotification(req.Topic, req.Type, req.ID, req.DataID, req.RawBody)

	if notification.IsPayment() {
		event := &payments.NotificationEvent{
			PaymentID:  notification.PaymentID,
			ReceivedAt: time.Now().UTC(),
		}
		if err := h.publishNotification(event); err != nil {
			// Still 200: the provider will redeliver on its own schedule.
			h.logger.Error("failed to queue payment notification",
				zap.String("payment_id", notification.PaymentID),
				zap.Error(err),
			)
		}
	} else {
		h.logger.Debug("ignoring non-payment notification",
			zap.String("topic", notification.Topic),
		)
	}

	resp := &WebhookResponse{}
	resp.Body.Status = "ok"

	return resp, nil
}

// Checkout creates a provider-hosted checkout for upgrading the caller
// to premium.
func (h *PaymentHandler) Checkout(ctx context.Context, _ *struct{}) (*CheckoutResponse, error) {
	principal, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("missing or invalid bearer token")
	}

	acct, err := h.accounts.GetByID(ctx, principal.AccountID)
	if err != nil {
		return nil, huma.Error401Unauthorized("unknown account")
	}

	initPoint, err := h.provider.CreateCheckout(ctx, payments.CheckoutRequest{
		PayerEmail:        acct.Email,
		ExternalReference: acct.ID,
		SuccessURL:        h.frontendURL + "/dashboard?status=success",
		FailureURL:        h.frontendURL + "/dashboard?status=failure",
		PendingURL:        h.frontendURL + "/dashboard?status=pending",
		NotificationURL:   h.apiBaseURL + "/webhooks/payment",
	})
	if err != nil {
		h.logger.Error("checkout creation failed",
			zap.String("account_id", acct.ID),
			zap.Error(err),
		)

		return nil, huma.Error502BadGateway("payment provider unavailable")
	}

	resp := &CheckoutResponse{}
	resp.Body.InitPoint = initPoint

	return resp, nil
}
