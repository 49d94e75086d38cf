package account

import (
	"context"
	"errors"
	"time"
)

// Tier is an account's entitlement level. It controls link expiry at
// creation time and whether the owner's links redirect directly.
type Tier string

const (
	// TierGuest is the implicit tier of an unauthenticated creator.
	// Guest accounts are never persisted.
	TierGuest Tier = "GUEST"
	// TierFree is the default tier for registered accounts.
	TierFree Tier = "FREE"
	// TierPremium is reached only through payment reconciliation.
	TierPremium Tier = "PREMIUM"
)

// Account represents a registered user.
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Salt         string
	Tier         Tier
	CreatedAt    time.Time
}

var ErrNotFound = errors.New("account not found")

// Repository defines the interface for account storage operations.
type Repository interface {
	Create(ctx context.Context, acct *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)

	// Promote sets the account's tier if it differs from the current one.
	// It reports whether a transition actually happened, so callers can
	// suppress side effects on redelivered payment notifications.
	Promote(ctx context.Context, id string, tier Tier) (bool, error)
}
