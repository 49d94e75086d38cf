package handlers

import "time"

// LinkPayload is the wire shape of a short link.
type LinkPayload struct {
	ID             string     `doc:"Link id"                                json:"id"`
	Slug           string     `doc:"The short slug"          example:"x1y2z3" json:"slug"`
	ShortURL       string     `doc:"The full short URL"                     json:"shortUrl"`
	DestinationURL string     `doc:"The destination URL"                    json:"destinationUrl"`
	Clicks         int64      `doc:"Visit count"                            json:"clicks"`
	CreatedAt      time.Time  `doc:"Creation time"                          json:"createdAt"`
	ExpiresAt      *time.Time `doc:"Expiry, absent for premium owners"      json:"expiresAt,omitempty"`
	OwnerAccountID *string    `doc:"Owner id, absent for anonymous links"   json:"ownerAccountId,omitempty"`
}

// OwnerSummary is the owner info embedded in public link lookups. It
// drives waiting-room UI, not access decisions.
type OwnerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Tier  string `json:"tier"`
}

// AccountPayload is the wire shape of an account.
type AccountPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Tier  string `json:"tier"`
}

// CreateLinkRequest is the request body for creating a short link.
type CreateLinkRequest struct {
	Body struct {
		DestinationURL string `doc:"The URL to shorten" example:"https://example.com/very/long/path" json:"destinationUrl" required:"true"`
	}
}

// CreateLinkResponse is the response for a successfully created short link.
type CreateLinkResponse struct {
	Headers struct {
		Location string `doc:"The short URL location" header:"Location"`
	}
	Body LinkPayload
}

// ListLinksResponse is the authenticated caller's links, newest first.
type ListLinksResponse struct {
	Body []LinkPayload
}

// DeleteLinkRequest identifies the link to delete.
type DeleteLinkRequest struct {
	ID string `doc:"Link id" path:"id"`
}

// DeleteLinkResponse confirms a deletion.
type DeleteLinkResponse struct {
	Body struct {
		Success bool `json:"success"`
	}
}

// PublicLinkRequest is the request for the public link lookup.
type PublicLinkRequest struct {
	Slug string `doc:"The short slug" example:"x1y2z3" path:"slug"`
}

// PublicLinkBody is a link plus its owner summary.
type PublicLinkBody struct {
	LinkPayload
	Owner *OwnerSummary `doc:"Owner summary, absent for anonymous links" json:"owner,omitempty"`
}

// PublicLinkResponse is the response for the public link lookup.
type PublicLinkResponse struct {
	Body PublicLinkBody
}

// ResolveRequest is the request for visiting a short link.
type ResolveRequest struct {
	Slug string `doc:"The short slug" example:"x1y2z3" path:"slug"`
}

// ResolveResponse redirects the visitor: permanently to the destination
// for premium-owned links, temporarily to the waiting room otherwise.
type ResolveResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"Redirect target" header:"Location"`
	}
}

// WebhookRequest is the payment provider's notification call. The
// provider varies where it puts the topic and payment id, so every known
// location is accepted.
type WebhookRequest struct {
	Topic   string `doc:"Notification topic"            query:"topic"`
	Type    string `doc:"Notification type (alternate)" query:"type"`
	ID      string `doc:"Payment id"                    query:"id"`
	DataID  string `doc:"Payment id (alternate)"        query:"data.id"`
	RawBody []byte
}

// WebhookResponse acknowledges the notification. Always 200; processing
// happens after the response.
type WebhookResponse struct {
	Body struct {
		Status string `json:"status"`
	}
}

// CheckoutResponse carries the provider-hosted checkout URL.
type CheckoutResponse struct {
	Body struct {
		InitPoint string `doc:"Provider-hosted checkout URL" json:"init_point"`
	}
}

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Body struct {
		Email    string `doc:"Email address" format:"email" json:"email"    required:"true"`
		Name     string `doc:"Display name"                 json:"name"     required:"true"`
		Password string `doc:"Password"      minLength:"8"  json:"password" required:"true"`
	}
}

// LoginRequest is the request body for logging in.
type LoginRequest struct {
	Body struct {
		Email    string `doc:"Email address" format:"email" json:"email"    required:"true"`
		Password string `doc:"Password"                     json:"password" required:"true"`
	}
}

// AuthResponse carries the account and its bearer token.
type AuthResponse struct {
	Body struct {
		User  AccountPayload `json:"user"`
		Token string         `json:"token"`
	}
}

// StatsResponse is the public system counters.
type StatsResponse struct {
	Body struct {
		Users  int64  `json:"users"`
		Links  int64  `json:"links"`
		Clicks int64  `json:"clicks"`
		Uptime string `json:"uptime"`
	}
}

// HealthResponse is the response for the health check endpoint.
type HealthResponse struct {
	Body struct {
		Status   string `json:"status"`
		Redis    string `json:"redis"`
		Postgres string `json:"postgres"`
	}
}
