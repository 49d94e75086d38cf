package handlers

import (
	"context"

	"github.com/nuturl/nuturl/internal/store"
	"go.uber.org/zap"
)

// TotalsSource provides the public system counters.
type TotalsSource interface {
	Totals(ctx context.Context) (store.Totals, error)
}

// StatsHandler serves the public landing-page counters.
type StatsHandler struct {
	totals TotalsSource
	logger *zap.Logger
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(totals TotalsSource, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{totals: totals, logger: logger}
}

// Stats returns public counters. A store failure degrades to zeros
// rather than an error page.
func (h *StatsHandler) Stats(ctx context.Context, _ *struct{}) (*StatsResponse, error) {
	resp := &StatsResponse{}

	totals, err := h.totals.Totals(ctx)
	if err != nil {
		h.logger.Error("failed to aggregate stats", zap.Error(err))
		resp.Body.Uptime = "Offline"

		return resp, nil
	}

	resp.Body.Users = totals.Accounts
	resp.Body.Links = totals.Links
	resp.Body.Clicks = totals.Clicks
	resp.Body.Uptime = "99.9%"

	return resp, nil
}
