package link

import (
	"time"

	"github.com/nuturl/nuturl/internal/account"
)

// Expiry windows per tier. The policy is evaluated once, at creation
// time, from the creator's tier as known at that instant; later tier
// changes never rewrite an existing link's expiry.
const (
	guestExpiryMonths = 6
	freeExpiryYears   = 1
)

// ComputeExpiry returns the expiry for a link created now by an owner of
// the given tier. Premium links never expire.
func ComputeExpiry(tier account.Tier, now time.Time) *time.Time {
	switch tier {
	case account.TierPremium:
		return nil
	case account.TierFree:
		t := now.AddDate(freeExpiryYears, 0, 0)
		return &t
	default:
		// Guest, and anything unrecognized, gets the shortest window.
		t := now.AddDate(0, guestExpiryMonths, 0)
		return &t
	}
}
