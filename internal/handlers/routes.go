package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/nuturl/nuturl/internal/auth"
	"github.com/nuturl/nuturl/internal/ratelimit"
)

// Handlers bundles everything RegisterRoutes wires up.
type Handlers struct {
	Links    *LinkHandler
	Redirect *RedirectHandler
	Payment  *PaymentHandler
	Auth     *AuthHandler
	Stats    *StatsHandler
	Health   *HealthHandler
}

// RegisterRoutes registers all routes with per-endpoint rate limit and
// auth configuration. The slug catch-all is registered last.
func RegisterRoutes(api huma.API, h Handlers) {
	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/links",
		Summary:     "Create short link",
		Description: "Creates a short link. Anonymous creators get guest expiry; authenticated creators own the link.",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 10},
					{Window: time.Hour, Max: 100},
					{Window: 24 * time.Hour, Max: 500},
				},
			},
		},
	}, h.Links.CreateLink)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/links",
		Summary:     "List own links",
		Description: "Returns the authenticated caller's links, newest first.",
		Tags:        []string{"Links"},
		Metadata:    map[string]any{auth.MetadataKey: true},
	}, h.Links.ListLinks)

	huma.Register(api, huma.Operation{
		Method:      http.MethodDelete,
		Path:        "/links/{id}",
		Summary:     "Delete link",
		Description: "Deletes a link owned by the caller. Immediate and irreversible.",
		Tags:        []string{"Links"},
		Metadata:    map[string]any{auth.MetadataKey: true},
	}, h.Links.DeleteLink)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/links/public/{slug}",
		Summary:     "Public link lookup",
		Description: "Returns a link with its owner summary for the waiting-room surface.",
		Tags:        []string{"Links"},
	}, h.Links.PublicLink)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/webhooks/payment",
		Summary:     "Payment provider webhook",
		Description: "Acknowledges a provider notification; reconciliation runs asynchronously.",
		Tags:        []string{"Payments"},
	}, h.Payment.Webhook)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/payment/checkout",
		Summary:     "Create premium checkout",
		Description: "Creates a provider-hosted checkout for upgrading to premium.",
		Tags:        []string{"Payments"},
		Metadata:    map[string]any{auth.MetadataKey: true},
	}, h.Payment.Checkout)

	huma.Register(api, huma.Operation{
		Method:  http.MethodPost,
		Path:    "/auth/register",
		Summary: "Register account",
		Tags:    []string{"Auth"},
	}, h.Auth.Register)

	huma.Register(api, huma.Operation{
		Method:  http.MethodPost,
		Path:    "/auth/login",
		Summary: "Log in",
		Tags:    []string{"Auth"},
	}, h.Auth.Login)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/stats",
		Summary: "Public counters",
		Tags:    []string{"Stats"},
	}, h.Stats.Stats)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/health",
		Summary: "Health check",
		Tags:    []string{"Health"},
	}, h.Health.Check)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/{slug}",
		Summary:     "Visit short link",
		Description: "Redirects directly for premium-owned links, to the waiting room otherwise.",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 1000},
				},
			},
		},
	}, h.Redirect.Resolve)
}
