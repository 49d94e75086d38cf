package link

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SlugGenerator produces short URL-safe slug candidates.
type SlugGenerator func() string

const defaultMaxAttempts = 5

// Allocator creates links with unique slugs. Candidates come from the
// generator; the store's unique constraint is the authoritative backstop,
// and the allocator retries on collision rather than surfacing a
// duplicate.
type Allocator struct {
	store        Repository
	generateSlug SlugGenerator
	maxAttempts  int
}

// NewAllocator creates a new slug allocator backed by the given store.
func NewAllocator(store Repository, generator SlugGenerator) *Allocator {
	return &Allocator{
		store:        store,
		generateSlug: generator,
		maxAttempts:  defaultMaxAttempts,
	}
}

// Create persists a new link with a freshly allocated slug.
func (a *Allocator) Create(
	ctx context.Context, destinationURL string, ownerID *string, expiresAt *time.Time,
) (*ShortLink, error) {
	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		l := &ShortLink{
			ID:             uuid.NewString(),
			Slug:           a.generateSlug(),
			DestinationURL: destinationURL,
			CreatedAt:      time.Now().UTC(),
			ExpiresAt:      expiresAt,
			OwnerID:        ownerID,
		}

		err := a.store.Create(ctx, l)
		if err == nil {
			return l, nil
		}

		if errors.Is(err, ErrSlugTaken) {
			continue
		}

		return nil, err
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrAllocationExhausted, a.maxAttempts)
}
