package payments_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nuturl/nuturl/internal/payments"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMercadoPagoClient_PaymentByID(t *testing.T) {
	t.Run("fetches and decodes a payment", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/v1/payments/12345", r.URL.Path)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":12345,"status":"approved","external_reference":"acct-1"}`))
		}))
		defer server.Close()

		client := payments.NewMercadoPagoClient("test-token", zap.NewNop()).WithBaseURL(server.URL)

		payment, err := client.PaymentByID(context.Background(), "12345")

		require.NoError(t, err)
		assert.Equal(t, "12345", payment.ID)
		assert.Equal(t, payments.StatusApproved, payment.Status)
		assert.Equal(t, "acct-1", payment.ExternalReference)
	})

	t.Run("non-200 responses surface as upstream unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := payments.NewMercadoPagoClient("test-token", zap.NewNop()).WithBaseURL(server.URL)

		_, err := client.PaymentByID(context.Background(), "12345")

		assert.ErrorIs(t, err, payments.ErrUpstreamUnavailable)
	})

	t.Run("unreachable provider surfaces as upstream unavailable", func(t *testing.T) {
		client := payments.NewMercadoPagoClient("test-token", zap.NewNop()).
			WithBaseURL("http://127.0.0.1:1")

		_, err := client.PaymentByID(context.Background(), "12345")

		assert.ErrorIs(t, err, payments.ErrUpstreamUnavailable)
	})
}

func TestMercadoPagoClient_CreateCheckout(t *testing.T) {
	t.Run("creates a preference and returns its init point", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/checkout/preferences", r.URL.Path)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "acct-1", body["external_reference"])
			assert.Equal(t, "https://api.example.com/webhooks/payment", body["notification_url"])
			assert.Equal(t, "approved", body["auto_return"])

			items, ok := body["items"].([]any)
			assert.True(t, ok)
			assert.Len(t, items, 1)

			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"init_point":"https://mp.example/checkout/xyz"}`))
		}))
		defer server.Close()

		client := payments.NewMercadoPagoClient("test-token", zap.NewNop()).WithBaseURL(server.URL)

		initPoint, err := client.CreateCheckout(context.Background(), payments.CheckoutRequest{
			PayerEmail:        "payer@example.com",
			ExternalReference: "acct-1",
			SuccessURL:        "https://web.example.com/dashboard",
			FailureURL:        "https://web.example.com/dashboard",
			PendingURL:        "https://web.example.com/dashboard",
			NotificationURL:   "https://api.example.com/webhooks/payment",
		})

		require.NoError(t, err)
		assert.Equal(t, "https://mp.example/checkout/xyz", initPoint)
	})

	t.Run("provider errors surface as upstream unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := payments.NewMercadoPagoClient("test-token", zap.NewNop()).WithBaseURL(server.URL)

		_, err := client.CreateCheckout(context.Background(), payments.CheckoutRequest{})

		assert.ErrorIs(t, err, payments.ErrUpstreamUnavailable)
	})
}
