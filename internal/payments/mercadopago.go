package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://api.mercadopago.com"
	// Bounded request timeout so a slow provider cannot exhaust the
	// reconciler.
	requestTimeout = 10 * time.Second

	premiumItemID    = "premium_plan_lifetime"
	premiumItemTitle = "nuturl Premium (Lifetime)"
	premiumUnitPrice = 29.90
	premiumCurrency  = "BRL"
)

// MercadoPagoClient implements Provider against the Mercado Pago REST API.
type MercadoPagoClient struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewMercadoPagoClient creates a provider client with a bounded request
// timeout.
func NewMercadoPagoClient(accessToken string, logger *zap.Logger) *MercadoPagoClient {
	return &MercadoPagoClient{
		baseURL:     defaultBaseURL,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: requestTimeout},
		logger:      logger,
	}
}

// WithBaseURL overrides the API base URL. Used in tests.
func (c *MercadoPagoClient) WithBaseURL(baseURL string) *MercadoPagoClient {
	c.baseURL = baseURL

	return c
}

type paymentResponse struct {
	ID                json.Number `json:"id"`
	Status            string      `json:"status"`
	ExternalReference string      `json:"external_reference"`
}

func (c *MercadoPagoClient) PaymentByID(ctx context.Context, id string) (*Payment, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, fmt.Sprintf("%s/v1/payments/%s", c.baseURL, id), nil,
	)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: payment lookup returned %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var body paymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	return &Payment{
		ID:                body.ID.String(),
		Status:            Status(body.Status),
		ExternalReference: body.ExternalReference,
	}, nil
}

type preferenceRequest struct {
	Items             []preferenceItem `json:"items"`
	Payer             preferencePayer  `json:"payer"`
	ExternalReference string           `json:"external_reference"`
	BackURLs          backURLs         `json:"back_urls"`
	AutoReturn        string           `json:"auto_return"`
	NotificationURL   string           `json:"notification_url"`
}

type preferenceItem struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id"`
}

type preferencePayer struct {
	Email string `json:"email"`
}

type backURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type preferenceResponse struct {
	InitPoint string `json:"init_point"`
}

func (c *MercadoPagoClient) CreateCheckout(ctx context.Context, req CheckoutRequest) (string, error) {
	pref := preferenceRequest{
		Items: []preferenceItem{{
			ID:         premiumItemID,
			Title:      premiumItemTitle,
			Quantity:   1,
			UnitPrice:  premiumUnitPrice,
			CurrencyID: premiumCurrency,
		}},
		Payer:             preferencePayer{Email: req.PayerEmail},
		ExternalReference: req.ExternalReference,
		BackURLs: backURLs{
			Success: req.SuccessURL,
			Failure: req.FailureURL,
			Pending: req.PendingURL,
		},
		AutoReturn:      "approved",
		NotificationURL: req.NotificationURL,
	}

	payload, err := json.Marshal(pref)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/checkout/preferences", bytes.NewReader(payload),
	)
	if err != nil {
		return "", err
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%w: preference creation returned %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var body preferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	return body.InitPoint, nil
}
