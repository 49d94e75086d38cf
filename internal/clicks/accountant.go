package clicks

import (
	"context"
	"errors"

	"github.com/nuturl/nuturl/internal/link"
	"go.uber.org/zap"
)

// Accountant settles visit events into the link store's click counter.
// Delivery is at-least-once: a failed increment is redelivered, and the
// occasional double-count under retry is acceptable for an analytics
// counter.
type Accountant struct {
	links  link.Repository
	logger *zap.Logger
}

// NewAccountant creates a new click accountant.
func NewAccountant(links link.Repository, logger *zap.Logger) *Accountant {
	return &Accountant{links: links, logger: logger}
}

// Handle increments the click counter for the visited slug.
func (a *Accountant) Handle(ctx context.Context, event *VisitEvent) error {
	err := a.links.IncrementClicks(ctx, event.Slug)
	if err == nil {
		a.logger.Debug("click recorded", zap.String("slug", event.Slug))

		return nil
	}

	if errors.Is(err, link.ErrNotFound) {
		// The link was deleted between visit and settlement; nothing to
		// count anymore.
		a.logger.Debug("visit to deleted link dropped", zap.String("slug", event.Slug))

		return nil
	}

	a.logger.Error("failed to record click",
		zap.String("slug", event.Slug),
		zap.Error(err),
	)

	return err
}
