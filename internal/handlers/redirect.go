package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/danielgtaylor/huma/v2"
	"github.com/nuturl/nuturl/internal/middleware"
	"github.com/nuturl/nuturl/internal/redirect"
)

// RedirectHandler maps redirect decisions onto HTTP responses.
type RedirectHandler struct {
	engine      *redirect.Engine
	frontendURL string
}

// NewRedirectHandler creates a new redirect handler.
func NewRedirectHandler(engine *redirect.Engine, frontendURL string) *RedirectHandler {
	return &RedirectHandler{engine: engine, frontendURL: frontendURL}
}

// Resolve handles a visit to a short link.
func (h *RedirectHandler) Resolve(ctx context.Context, req *ResolveRequest) (*ResolveResponse, error) {
	meta := middleware.RequestMetaFromContext(ctx)

	outcome := h.engine.Resolve(ctx, req.Slug, redirect.Visitor{
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
		Referrer:  meta.Referrer,
	})

	switch outcome.Kind {
	case redirect.OutcomeDirect:
		resp := &ResolveResponse{Status: http.StatusMovedPermanently}
		resp.Headers.Location = outcome.Destination

		return resp, nil
	case redirect.OutcomeGated:
		resp := &ResolveResponse{Status: http.StatusFound}
		resp.Headers.Location = fmt.Sprintf("%s/?waiting=%s", h.frontendURL, url.QueryEscape(outcome.Slug))

		return resp, nil
	default:
		return nil, huma.Error404NotFound("link not found")
	}
}
