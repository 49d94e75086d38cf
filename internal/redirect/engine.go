package redirect

import (
	"context"
	"errors"
	"time"

	"github.com/nuturl/nuturl/internal/account"
	"github.com/nuturl/nuturl/internal/clicks"
	"github.com/nuturl/nuturl/internal/link"
	"github.com/nuturl/nuturl/internal/messaging"
	"go.uber.org/zap"
)

// OutcomeKind classifies the result of resolving a slug.
type OutcomeKind int

const (
	// OutcomeNotFound means the slug is unknown (or the store failed;
	// internal errors degrade to a broken-link result on the hot path).
	OutcomeNotFound OutcomeKind = iota
	// OutcomeDirect is a permanent redirect straight to the destination,
	// granted when the owner's current tier is premium.
	OutcomeDirect
	// OutcomeGated sends the visitor to the waiting-room surface
	// parameterized by the slug.
	OutcomeGated
)

// Outcome is the plain-data result of one redirect decision. Every visit
// is resolved independently; nothing persists between requests.
type Outcome struct {
	Kind        OutcomeKind
	Destination string // set for OutcomeDirect
	Slug        string // set for OutcomeGated
}

// Visitor carries request metadata attached to the visit event.
type Visitor struct {
	ClientIP  string
	UserAgent string
	Referrer  string
}

// Engine composes the link store, the entitlement check, and the click
// accountant into the per-visit redirect decision.
type Engine struct {
	links        link.Repository
	accounts     account.Repository
	publishVisit messaging.Publish[clicks.VisitEvent]
	logger       *zap.Logger
}

// NewEngine creates a new redirect decision engine.
func NewEngine(
	links link.Repository,
	accounts account.Repository,
	publishVisit messaging.Publish[clicks.VisitEvent],
	logger *zap.Logger,
) *Engine {
	return &Engine{
		links:        links,
		accounts:     accounts,
		publishVisit: publishVisit,
		logger:       logger,
	}
}

// Resolve decides the outcome for a visited slug. The click event is
// dispatched before the decision returns but its delivery is never
// awaited; a publish failure is logged and the redirect proceeds.
func (e *Engine) Resolve(ctx context.Context, slug string, visitor Visitor) Outcome {
	l, err := e.links.GetBySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, link.ErrNotFound) {
			e.logger.Error("link lookup failed", zap.String("slug", slug), zap.Error(err))
		}

		return Outcome{Kind: OutcomeNotFound}
	}

	event := &clicks.VisitEvent{
		Slug:      l.Slug,
		VisitedAt: time.Now().UTC(),
		ClientIP:  visitor.ClientIP,
		UserAgent: visitor.UserAgent,
		Referrer:  visitor.Referrer,
	}
	if err := e.publishVisit(event); err != nil {
		e.logger.Error("failed to publish visit event",
			zap.String("slug", l.Slug),
			zap.Error(err),
		)
	}

	if e.directAccess(ctx, l) {
		return Outcome{Kind: OutcomeDirect, Destination: l.DestinationURL}
	}

	return Outcome{Kind: OutcomeGated, Slug: l.Slug}
}

// directAccess reports whether the link's owner currently holds a premium
// tier. The tier is read fresh on every visit, never cached on the link,
// so an upgrade takes effect on all existing links immediately.
func (e *Engine) directAccess(ctx context.Context, l *link.ShortLink) bool {
	if l.OwnerID == nil {
		return false
	}

	owner, err := e.accounts.GetByID(ctx, *l.OwnerID)
	if err != nil {
		if !errors.Is(err, account.ErrNotFound) {
			e.logger.Error("owner lookup failed",
				zap.String("slug", l.Slug),
				zap.Error(err),
			)
		}

		// Unknown entitlement falls back to the gated path.
		return false
	}

	return owner.Tier == account.TierPremium
}
