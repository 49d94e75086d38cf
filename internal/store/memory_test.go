package store_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nuturl/nuturl/internal/account"
	"github.com/nuturl/nuturl/internal/link"
	"github.com/nuturl/nuturl/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestMemoryLinkStore(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects duplicate slugs", func(t *testing.T) {
		s := store.NewMemoryLinkStore()

		require.NoError(t, s.Create(ctx, &link.ShortLink{ID: "a", Slug: "same"}))

		err := s.Create(ctx, &link.ShortLink{ID: "b", Slug: "same"})
		assert.ErrorIs(t, err, link.ErrSlugTaken)
	})

	t.Run("get by slug returns not found for unknown slugs", func(t *testing.T) {
		s := store.NewMemoryLinkStore()

		_, err := s.GetBySlug(ctx, "nope")
		assert.ErrorIs(t, err, link.ErrNotFound)
	})

	t.Run("lists owner links newest first", func(t *testing.T) {
		s := store.NewMemoryLinkStore()
		base := time.Now().UTC()

		for i := 0; i < 3; i++ {
			require.NoError(t, s.Create(ctx, &link.ShortLink{
				ID:        fmt.Sprintf("id-%d", i),
				Slug:      fmt.Sprintf("slug-%d", i),
				OwnerID:   strPtr("owner"),
				CreatedAt: base.Add(time.Duration(i) * time.Minute),
			}))
		}

		require.NoError(t, s.Create(ctx, &link.ShortLink{ID: "anon", Slug: "anon"}))

		links, err := s.ListByOwner(ctx, "owner")

		require.NoError(t, err)
		require.Len(t, links, 3)
		assert.Equal(t, "id-2", links[0].ID)
		assert.Equal(t, "id-0", links[2].ID)
	})

	t.Run("delete enforces ownership", func(t *testing.T) {
		s := store.NewMemoryLinkStore()

		require.NoError(t, s.Create(ctx, &link.ShortLink{ID: "owned", Slug: "owned", OwnerID: strPtr("alice")}))
		require.NoError(t, s.Create(ctx, &link.ShortLink{ID: "anon", Slug: "anon"}))

		assert.ErrorIs(t, s.Delete(ctx, "missing", "alice"), link.ErrNotFound)
		assert.ErrorIs(t, s.Delete(ctx, "owned", "bob"), link.ErrForbidden)
		assert.ErrorIs(t, s.Delete(ctx, "anon", "alice"), link.ErrForbidden)

		require.NoError(t, s.Delete(ctx, "owned", "alice"))

		_, err := s.GetBySlug(ctx, "owned")
		assert.ErrorIs(t, err, link.ErrNotFound)
	})

	t.Run("increment clicks is atomic under concurrency", func(t *testing.T) {
		s := store.NewMemoryLinkStore()

		require.NoError(t, s.Create(ctx, &link.ShortLink{ID: "a", Slug: "hot"}))

		const n = 200

		var wg sync.WaitGroup

		for i := 0; i < n; i++ {
			wg.Add(1)

			go func() {
				defer wg.Done()

				_ = s.IncrementClicks(ctx, "hot")
			}()
		}

		wg.Wait()

		l, err := s.GetBySlug(ctx, "hot")
		require.NoError(t, err)
		assert.Equal(t, int64(n), l.Clicks)
	})

	t.Run("increment clicks on an unknown slug returns not found", func(t *testing.T) {
		s := store.NewMemoryLinkStore()

		assert.ErrorIs(t, s.IncrementClicks(ctx, "gone"), link.ErrNotFound)
	})

	t.Run("reads return copies", func(t *testing.T) {
		s := store.NewMemoryLinkStore()

		require.NoError(t, s.Create(ctx, &link.ShortLink{ID: "a", Slug: "s", DestinationURL: "https://example.com"}))

		l, err := s.GetBySlug(ctx, "s")
		require.NoError(t, err)

		l.DestinationURL = "https://mutated.example"

		again, err := s.GetBySlug(ctx, "s")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", again.DestinationURL)
	})
}

func TestMemoryAccountStore(t *testing.T) {
	ctx := context.Background()

	t.Run("round trips by id and email", func(t *testing.T) {
		s := store.NewMemoryAccountStore()

		require.NoError(t, s.Create(ctx, &account.Account{ID: "u1", Email: "a@example.com", Tier: account.TierFree}))

		byID, err := s.GetByID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "a@example.com", byID.Email)

		byEmail, err := s.GetByEmail(ctx, "a@example.com")
		require.NoError(t, err)
		assert.Equal(t, "u1", byEmail.ID)

		_, err = s.GetByID(ctx, "u2")
		assert.ErrorIs(t, err, account.ErrNotFound)
	})

	t.Run("promote applies once", func(t *testing.T) {
		s := store.NewMemoryAccountStore()

		require.NoError(t, s.Create(ctx, &account.Account{ID: "u1", Email: "a@example.com", Tier: account.TierFree}))

		promoted, err := s.Promote(ctx, "u1", account.TierPremium)
		require.NoError(t, err)
		assert.True(t, promoted)

		promoted, err = s.Promote(ctx, "u1", account.TierPremium)
		require.NoError(t, err)
		assert.False(t, promoted)

		acct, err := s.GetByID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, account.TierPremium, acct.Tier)
	})

	t.Run("promote on unknown account is a no-op", func(t *testing.T) {
		s := store.NewMemoryAccountStore()

		promoted, err := s.Promote(ctx, "ghost", account.TierPremium)
		require.NoError(t, err)
		assert.False(t, promoted)
	})
}

func TestMemoryStatsStore(t *testing.T) {
	ctx := context.Background()

	links := store.NewMemoryLinkStore()
	accounts := store.NewMemoryAccountStore()
	stats := store.NewMemoryStatsStore(links, accounts)

	require.NoError(t, accounts.Create(ctx, &account.Account{ID: "u1", Email: "a@example.com"}))
	require.NoError(t, links.Create(ctx, &link.ShortLink{ID: "a", Slug: "a", Clicks: 3}))
	require.NoError(t, links.Create(ctx, &link.ShortLink{ID: "b", Slug: "b", Clicks: 4}))

	totals, err := stats.Totals(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(1), totals.Accounts)
	assert.Equal(t, int64(2), totals.Links)
	assert.Equal(t, int64(7), totals.Clicks)
}
