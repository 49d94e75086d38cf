package link

import (
	"context"
	"errors"
	"time"
)

// ShortLink represents a slug to destination mapping.
type ShortLink struct {
	ID             string
	Slug           string
	DestinationURL string
	Clicks         int64
	CreatedAt      time.Time
	ExpiresAt      *time.Time // nil for links created by premium owners
	OwnerID        *string    // nil for anonymous creation
}

var (
	ErrNotFound = errors.New("link not found")
	// ErrForbidden is returned when a mutation is attempted by a
	// non-owner. The ownership check is the only authorization boundary
	// for link mutation.
	ErrForbidden = errors.New("not the link owner")
	// ErrSlugTaken is returned by stores when an insert collides with an
	// existing slug. The allocator retries on it.
	ErrSlugTaken = errors.New("slug already taken")
	// ErrAllocationExhausted is returned when no unique slug could be
	// produced within the allocator's retry limit.
	ErrAllocationExhausted = errors.New("slug allocation exhausted")
)

// Repository defines the interface for link storage operations.
type Repository interface {
	Create(ctx context.Context, l *ShortLink) error
	GetBySlug(ctx context.Context, slug string) (*ShortLink, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*ShortLink, error)

	// Delete removes a link after verifying that requesterID owns it.
	// Returns ErrNotFound for unknown ids and ErrForbidden when the
	// requester is not the owner.
	Delete(ctx context.Context, id, requesterID string) error

	// IncrementClicks bumps the click counter atomically at the storage
	// layer. It must be safe under arbitrary concurrent invocation for
	// the same slug.
	IncrementClicks(ctx context.Context, slug string) error
}
