package auth

import (
	"context"

	"github.com/nuturl/nuturl/internal/account"
)

// MetadataKey marks huma operations that require a valid bearer token.
const MetadataKey = "requireAuth"

// Principal is the authenticated caller, threaded through the request
// context. There is no ambient credential state: every call reads the
// principal from its own request.
type Principal struct {
	AccountID string
	Tier      account.Tier
}

type principalKey struct{}

// ContextWithPrincipal attaches the authenticated caller to the context.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext extracts the authenticated caller, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)

	return p, ok
}
