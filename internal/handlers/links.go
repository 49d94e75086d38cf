package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/nuturl/nuturl/internal/account"
	"github.com/nuturl/nuturl/internal/auth"
	"github.com/nuturl/nuturl/internal/link"
	"go.uber.org/zap"
)

// LinkHandler handles link creation, listing, deletion, and the public
// lookup used by the waiting-room surface.
type LinkHandler struct {
	allocator *link.Allocator
	links     link.Repository
	accounts  account.Repository
	baseURL   string
	logger    *zap.Logger
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(
	allocator *link.Allocator,
	links link.Repository,
	accounts account.Repository,
	baseURL string,
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		allocator: allocator,
		links:     links,
		accounts:  accounts,
		baseURL:   baseURL,
		logger:    logger,
	}
}

func (h *LinkHandler) linkPayload(l *link.ShortLink) LinkPayload {
	return LinkPayload{
		ID:             l.ID,
		Slug:           l.Slug,
		ShortURL:       fmt.Sprintf("%s/%s", h.baseURL, l.Slug),
		DestinationURL: l.DestinationURL,
		Clicks:         l.Clicks,
		CreatedAt:      l.CreatedAt,
		ExpiresAt:      l.ExpiresAt,
		OwnerAccountID: l.OwnerID,
	}
}

// CreateLink creates a short link. Anonymous callers create guest links;
// authenticated callers own the link, and their tier at this instant
// fixes the expiry for good.
func (h *LinkHandler) CreateLink(ctx context.Context, req *CreateLinkRequest) (*CreateLinkResponse, error) {
	destination, err := link.NormalizeDestination(req.Body.DestinationURL)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid destination url")
	}

	tier := account.TierGuest

	var ownerID *string

	if principal, ok := auth.PrincipalFromContext(ctx); ok {
		acct, err := h.accounts.GetByID(ctx, principal.AccountID)
		if err != nil {
			if !errors.Is(err, account.ErrNotFound) {
				return nil, huma.Error500InternalServerError("failed to create link")
			}

			// Token references a deleted account; fall back to guest.
			h.logger.Warn("authenticated creator no longer exists",
				zap.String("account_id", principal.AccountID),
			)
		} else {
			tier = acct.Tier
			ownerID = &acct.ID
		}
	}

	expiresAt := link.ComputeExpiry(tier, time.Now().UTC())

	l, err := h.allocator.Create(ctx, destination, ownerID, expiresAt)
	if err != nil {
		if errors.Is(err, link.ErrAllocationExhausted) {
			h.logger.Error("slug keyspace under pressure", zap.Error(err))
		}

		return nil, huma.Error500InternalServerError("failed to create link")
	}

	resp := &CreateLinkResponse{Body: h.linkPayload(l)}
	resp.Headers.Location = resp.Body.ShortURL

	return resp, nil
}

// ListLinks returns the authenticated caller's links, newest first.
func (h *LinkHandler) ListLinks(ctx context.Context, _ *struct{}) (*ListLinksResponse, error) {
	principal, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("missing or invalid bearer token")
	}

	links, err := h.links.ListByOwner(ctx, principal.AccountID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list links")
	}

	resp := &ListLinksResponse{Body: make([]LinkPayload, 0, len(links))}
	for _, l := range links {
		resp.Body = append(resp.Body, h.linkPayload(l))
	}

	return resp, nil
}

// DeleteLink deletes a link owned by the caller. Deletion is immediate
// and irreversible.
func (h *LinkHandler) DeleteLink(ctx context.Context, req *DeleteLinkRequest) (*DeleteLinkResponse, error) {
	principal, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("missing or invalid bearer token")
	}

	err := h.links.Delete(ctx, req.ID, principal.AccountID)
	if err != nil {
		switch {
		case errors.Is(err, link.ErrNotFound):
			return nil, huma.Error404NotFound("link not found")
		case errors.Is(err, link.ErrForbidden):
			return nil, huma.Error403Forbidden("not the link owner")
		default:
			return nil, huma.Error500InternalServerError("failed to delete link")
		}
	}

	resp := &DeleteLinkResponse{}
	resp.Body.Success = true

	return resp, nil
}

// PublicLink returns a link with its owner summary. The waiting-room
// surface uses it to decide what to render, never to decide access.
func (h *LinkHandler) PublicLink(ctx context.Context, req *PublicLinkRequest) (*PublicLinkResponse, error) {
	l, err := h.links.GetBySlug(ctx, req.Slug)
	if err != nil {
		if errors.Is(err, link.ErrNotFound) {
			return nil, huma.Error404NotFound("link not found")
		}

		return nil, huma.Error500InternalServerError("failed to fetch link")
	}

	resp := &PublicLinkResponse{Body: PublicLinkBody{LinkPayload: h.linkPayload(l)}}

	if l.OwnerID != nil {
		owner, err := h.accounts.GetByID(ctx, *l.OwnerID)
		if err == nil {
			resp.Body.Owner = &OwnerSummary{
				ID:    owner.ID,
				Name:  owner.Name,
				Email: owner.Email,
				Tier:  string(owner.Tier),
			}
		} else if !errors.Is(err, account.ErrNotFound) {
			return nil, huma.Error500InternalServerError("failed to fetch link")
		}
	}

	return resp, nil
}
