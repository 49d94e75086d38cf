package store

import (
	"context"
	"sort"
	"sync"

	"github.com/nuturl/nuturl/internal/account"
	"github.com/nuturl/nuturl/internal/link"
)

// MemoryLinkStore is an in-memory implementation of link.Repository.
type MemoryLinkStore struct {
	mu     sync.RWMutex
	byID   map[string]*link.ShortLink
	bySlug map[string]string // slug -> id
}

// NewMemoryLinkStore creates a new in-memory link store.
func NewMemoryLinkStore() *MemoryLinkStore {
	return &MemoryLinkStore{
		byID:   make(map[string]*link.ShortLink),
		bySlug: make(map[string]string),
	}
}

func (m *MemoryLinkStore) Create(_ context.Context, l *link.ShortLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.bySlug[l.Slug]; exists {
		return link.ErrSlugTaken
	}

	clone := *l
	m.byID[l.ID] = &clone
	m.bySlug[l.Slug] = l.ID

	return nil
}

func (m *MemoryLinkStore) GetBySlug(_ context.Context, slug string) (*link.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.bySlug[slug]
	if !ok {
		return nil, link.ErrNotFound
	}

	clone := *m.byID[id]

	return &clone, nil
}

func (m *MemoryLinkStore) ListByOwner(_ context.Context, ownerID string) ([]*link.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var links []*link.ShortLink

	for _, l := range m.byID {
		if l.OwnerID != nil && *l.OwnerID == ownerID {
			clone := *l
			links = append(links, &clone)
		}
	}

	sort.Slice(links, func(i, j int) bool {
		return links[i].CreatedAt.After(links[j].CreatedAt)
	})

	return links, nil
}

func (m *MemoryLinkStore) Delete(_ context.Context, id, requesterID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.byID[id]
	if !ok {
		return link.ErrNotFound
	}

	if l.OwnerID == nil || *l.OwnerID != requesterID {
		return link.ErrForbidden
	}

	delete(m.bySlug, l.Slug)
	delete(m.byID, id)

	return nil
}

func (m *MemoryLinkStore) IncrementClicks(_ context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.bySlug[slug]
	if !ok {
		return link.ErrNotFound
	}

	m.byID[id].Clicks++

	return nil
}

// MemoryAccountStore is an in-memory implementation of account.Repository.
type MemoryAccountStore struct {
	mu      sync.RWMutex
	byID    map[string]*account.Account
	byEmail map[string]string // email -> id
}

// NewMemoryAccountStore creates a new in-memory account store.
func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{
		byID:    make(map[string]*account.Account),
		byEmail: make(map[string]string),
	}
}

func (m *MemoryAccountStore) Create(_ context.Context, acct *account.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *acct
	m.byID[acct.ID] = &clone
	m.byEmail[acct.Email] = acct.ID

	return nil
}

func (m *MemoryAccountStore) GetByID(_ context.Context, id string) (*account.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	acct, ok := m.byID[id]
	if !ok {
		return nil, account.ErrNotFound
	}

	clone := *acct

	return &clone, nil
}

func (m *MemoryAccountStore) GetByEmail(_ context.Context, email string) (*account.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[email]
	if !ok {
		return nil, account.ErrNotFound
	}

	clone := *m.byID[id]

	return &clone, nil
}

func (m *MemoryAccountStore) Promote(_ context.Context, id string, tier account.Tier) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acct, ok := m.byID[id]
	if !ok {
		return false, nil
	}

	if acct.Tier == tier {
		return false, nil
	}

	acct.Tier = tier

	return true, nil
}

// MemoryStatsStore aggregates counters from the in-memory stores.
type MemoryStatsStore struct {
	links    *MemoryLinkStore
	accounts *MemoryAccountStore
}

// NewMemoryStatsStore creates a stats source over the in-memory stores.
func NewMemoryStatsStore(links *MemoryLinkStore, accounts *MemoryAccountStore) *MemoryStatsStore {
	return &MemoryStatsStore{links: links, accounts: accounts}
}

func (m *MemoryStatsStore) Totals(_ context.Context) (Totals, error) {
	m.links.mu.RLock()
	defer m.links.mu.RUnlock()
	m.accounts.mu.RLock()
	defer m.accounts.mu.RUnlock()

	t := Totals{
		Accounts: int64(len(m.accounts.byID)),
		Links:    int64(len(m.links.byID)),
	}

	for _, l := range m.links.byID {
		t.Clicks += l.Clicks
	}

	return t, nil
}
