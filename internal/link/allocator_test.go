package link_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jaevor/go-nanoid"
	"github.com/nuturl/nuturl/internal/link"
	"github.com/nuturl/nuturl/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGenerator(t *testing.T) link.SlugGenerator {
	t.Helper()

	gen, err := nanoid.CustomASCII("abcdefghijklmnopqrstuvwxyz0123456789", 6)
	require.NoError(t, err)

	return gen
}

func TestAllocator_Create(t *testing.T) {
	t.Run("creates link with generated slug", func(t *testing.T) {
		memStore := store.NewMemoryLinkStore()
		allocator := link.NewAllocator(memStore, newGenerator(t))

		l, err := allocator.Create(context.Background(), "https://example.com", nil, nil)

		require.NoError(t, err)
		assert.Len(t, l.Slug, 6)
		assert.NotEmpty(t, l.ID)
		assert.Equal(t, "https://example.com", l.DestinationURL)
		assert.Nil(t, l.OwnerID)
		assert.False(t, l.CreatedAt.IsZero())

		stored, err := memStore.GetBySlug(context.Background(), l.Slug)
		require.NoError(t, err)
		assert.Equal(t, l.ID, stored.ID)
	})

	t.Run("retries on slug collision", func(t *testing.T) {
		memStore := store.NewMemoryLinkStore()

		// A generator that collides once, then produces a fresh slug.
		slugs := []string{"taken1", "taken1", "fresh1"}
		i := 0
		generator := func() string {
			s := slugs[i]
			i++

			return s
		}

		allocator := link.NewAllocator(memStore, generator)

		first, err := allocator.Create(context.Background(), "https://example.com/a", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "taken1", first.Slug)

		second, err := allocator.Create(context.Background(), "https://example.com/b", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "fresh1", second.Slug)
	})

	t.Run("fails with AllocationExhausted when keyspace is saturated", func(t *testing.T) {
		memStore := store.NewMemoryLinkStore()
		generator := func() string { return "only1" }
		allocator := link.NewAllocator(memStore, generator)

		_, err := allocator.Create(context.Background(), "https://example.com/a", nil, nil)
		require.NoError(t, err)

		_, err = allocator.Create(context.Background(), "https://example.com/b", nil, nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, link.ErrAllocationExhausted)
	})

	t.Run("returns store errors unchanged", func(t *testing.T) {
		errBoom := errors.New("boom")
		allocator := link.NewAllocator(&failingStore{createErr: errBoom}, newGenerator(t))

		_, err := allocator.Create(context.Background(), "https://example.com", nil, nil)

		assert.ErrorIs(t, err, errBoom)
	})

	t.Run("concurrent creations never share a slug", func(t *testing.T) {
		memStore := store.NewMemoryLinkStore()
		allocator := link.NewAllocator(memStore, newGenerator(t))

		const n = 50

		var wg sync.WaitGroup

		results := make([]*link.ShortLink, n)
		errs := make([]error, n)

		for i := 0; i < n; i++ {
			wg.Add(1)

			go func(i int) {
				defer wg.Done()

				results[i], errs[i] = allocator.Create(context.Background(), "https://example.com", nil, nil)
			}(i)
		}

		wg.Wait()

		seen := make(map[string]bool, n)
		for i, l := range results {
			require.NoError(t, errs[i])
			assert.False(t, seen[l.Slug], "duplicate slug %q", l.Slug)
			seen[l.Slug] = true
		}
	})
}

type failingStore struct {
	link.Repository

	createErr error
}

func (f *failingStore) Create(_ context.Context, _ *link.ShortLink) error {
	return f.createErr
}
